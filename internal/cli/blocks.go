package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"app-planner/internal/model"
	"app-planner/internal/store"
	"app-planner/internal/tree"
)

func newBlocksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blocks",
		Aliases: []string{"block"},
		Short:   "Block commands",
	}
	cmd.AddCommand(newBlocksListCmd(app))
	cmd.AddCommand(newBlocksShowCmd(app))
	cmd.AddCommand(newBlocksAddCmd(app))
	cmd.AddCommand(newBlocksUpdateCmd(app))
	cmd.AddCommand(newBlocksDeleteCmd(app))
	cmd.AddCommand(newBlocksPurgeCmd(app))
	cmd.AddCommand(newBlocksReorderCmd(app))
	cmd.AddCommand(newBlocksMoveCmd(app))
	cmd.AddCommand(newBlocksCollapseCmd(app))
	return cmd
}

// parentTarget maps --parent/--root to a ParentTarget; with neither flag the parent is kept.
func parentTarget(parent string, root bool) (store.ParentTarget, error) {
	parent = strings.TrimSpace(parent)
	switch {
	case parent != "" && root:
		return store.KeepParent(), errors.New("provide at most one of --parent or --root")
	case root:
		return store.ToRoot(), nil
	case parent != "":
		return store.ToParent(parent), nil
	default:
		return store.KeepParent(), nil
	}
}

func filterFlags(cmd *cobra.Command, f *filterArgs) {
	cmd.Flags().StringVar(&f.search, "search", "", "Match title or description (case-insensitive)")
	cmd.Flags().StringVar(&f.status, "status", "", "Only blocks with this status")
	cmd.Flags().StringVar(&f.typ, "type", "", "Only blocks of this type")
}

type filterArgs struct {
	search string
	status string
	typ    string
}

func (f filterArgs) build() (tree.Filter, error) {
	out := tree.Filter{Search: f.search}
	if strings.TrimSpace(f.status) != "" {
		st, err := model.ParseBlockStatus(f.status)
		if err != nil {
			return tree.Filter{}, err
		}
		out.Status = st
	}
	if strings.TrimSpace(f.typ) != "" {
		t, err := model.ParseBlockType(f.typ)
		if err != nil {
			return tree.Filter{}, err
		}
		out.Type = t
	}
	return out, nil
}

func newBlocksListCmd(app *App) *cobra.Command {
	var appID string
	var parent string
	var root bool
	var sortBy string
	var desc bool
	var fa filterArgs

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an app's blocks (flat); --parent/--root narrows to one sibling group",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fa.build()
			if err != nil {
				return writeErr(cmd, err)
			}
			pt, err := parentTarget(parent, root)
			if err != nil {
				return writeErr(cmd, err)
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if _, ok := repo.App(appID); !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "app", ID: appID})
			}
			blocks := repo.BlocksByApp(appID)
			if pt.IsSet() {
				blocks = tree.Siblings(blocks, appID, pt.ID())
			}
			out := f.Apply(blocks)
			if cmd.Flags().Changed("sort") || desc {
				if out, err = tree.Sort(out, sortBy, desc); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"count": len(out), "total": len(blocks)},
			})
		},
	}

	cmd.Flags().StringVar(&appID, "app", "", "App id")
	cmd.Flags().StringVar(&parent, "parent", "", "Only direct children of this block")
	cmd.Flags().BoolVar(&root, "root", false, "Only root blocks")
	cmd.Flags().StringVar(&sortBy, "sort", "created_at", "Sort by title|type|status|priority|order|created_at|updated_at")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	filterFlags(cmd, &fa)
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func newBlocksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <block-id>",
		Short: "Show a block with its subtree progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			return showBlock(cmd, app, repo, args[0])
		},
	}
}

func showBlock(cmd *cobra.Command, app *App, repo *store.Repository, id string) error {
	b, ok := repo.Block(id)
	if !ok {
		return writeErr(cmd, store.NotFoundError{Kind: "block", ID: id})
	}
	children := tree.Siblings(repo.BlocksByApp(b.AppID), b.AppID, &b.ID)
	childIDs := make([]string, 0, len(children))
	for _, c := range children {
		childIDs = append(childIDs, c.ID)
	}
	return writeOut(cmd, app, map[string]any{
		"data": b,
		"meta": map[string]any{
			"children":  childIDs,
			"collapsed": repo.IsCollapsed(b.ID),
			"progress":  repo.CalculateProgress(b.AppID, &b.ID),
		},
	})
}

type blockFieldArgs struct {
	title       string
	description string
	status      string
	priority    string
	notes       string
}

func blockFieldFlags(cmd *cobra.Command, a *blockFieldArgs) {
	cmd.Flags().StringVar(&a.title, "title", "", "Title")
	cmd.Flags().StringVar(&a.description, "description", "", "Description")
	cmd.Flags().StringVar(&a.status, "status", "", "Status (not_started|in_progress|blocked|needs_review|done|deprecated)")
	cmd.Flags().StringVar(&a.priority, "priority", "", "Priority (must|should|nice|optional|none)")
	cmd.Flags().StringVar(&a.notes, "notes", "", "Notes")
}

func newBlocksAddCmd(app *App) *cobra.Command {
	var appID string
	var typ string
	var parent string
	var fields blockFieldArgs

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a block at the end of its parent's children",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseBlockType(typ)
			if err != nil {
				return writeErr(cmd, err)
			}
			var parentID *string
			if p := strings.TrimSpace(parent); p != "" {
				parentID = &p
			}

			var status model.BlockStatus
			if cmd.Flags().Changed("status") {
				if status, err = model.ParseBlockStatus(fields.status); err != nil {
					return writeErr(cmd, err)
				}
			}
			priority, err := model.ParseBlockPriority(fields.priority)
			if err != nil {
				return writeErr(cmd, err)
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			created, err := repo.AddBlock(appID, parentID, t, func(b *model.Block) {
				if cmd.Flags().Changed("title") {
					b.Title = fields.title
				}
				b.Description = fields.description
				b.Notes = fields.notes
				if status != "" {
					b.Status = status
				}
				b.Priority = priority
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&appID, "app", "", "App id")
	cmd.Flags().StringVar(&typ, "type", "", "Block type (feature, rule, user_flow, ...)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent block id (default: root)")
	blockFieldFlags(cmd, &fields)
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newBlocksUpdateCmd(app *App) *cobra.Command {
	var typ string
	var order int
	var parent string
	var root bool
	var fields blockFieldArgs

	cmd := &cobra.Command{
		Use:   "update <block-id>",
		Short: "Update a block's fields or parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch store.BlockPatch
			changed := cmd.Flags().Changed

			if changed("type") {
				t, err := model.ParseBlockType(typ)
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.Type = &t
			}
			if changed("title") {
				patch.Title = &fields.title
			}
			if changed("description") {
				patch.Description = &fields.description
			}
			if changed("notes") {
				patch.Notes = &fields.notes
			}
			if changed("status") {
				st, err := model.ParseBlockStatus(fields.status)
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.Status = &st
			}
			if changed("priority") {
				p, err := model.ParseBlockPriority(fields.priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				if p == nil {
					patch.Priority = store.ClearPriority()
				} else {
					patch.Priority = store.SetPriority(*p)
				}
			}
			if changed("order") {
				patch.Order = &order
			}
			pt, err := parentTarget(parent, root)
			if err != nil {
				return writeErr(cmd, err)
			}
			patch.Parent = pt

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			b, err := repo.UpdateBlock(args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Block type")
	cmd.Flags().IntVar(&order, "order", 0, "Position among siblings")
	cmd.Flags().StringVar(&parent, "parent", "", "Move under this block")
	cmd.Flags().BoolVar(&root, "root", false, "Move to the app's root level")
	blockFieldFlags(cmd, &fields)
	return cmd
}

func newBlocksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <block-id>",
		Short: "Mark a block deprecated (soft delete)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			b, err := repo.DeleteBlock(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   b,
				"_hints": []string{"planner blocks purge " + b.ID},
			})
		},
	}
}

func newBlocksPurgeCmd(app *App) *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "purge <block-id>",
		Short: "Permanently remove a block",
		Long: strings.TrimSpace(`
Permanently remove a block. What happens to its children depends on the
hard-delete policy (config hard_delete, or --policy):

  orphan    children keep pointing at the removed id
  forbid    refuse while the block has children
  cascade   remove the whole subtree
  reparent  children move up to the removed block's parent
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			p := repo.HardDeletePolicy()
			if cmd.Flags().Changed("policy") {
				if p, err = store.ParseHardDeletePolicy(policy); err != nil {
					return writeErr(cmd, err)
				}
			}
			res, err := repo.HardDeleteBlockWith(args[0], p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"meta": map[string]any{"policy": p},
			})
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "", "orphan|forbid|cascade|reparent (default from config)")
	return cmd
}

func newBlocksReorderCmd(app *App) *cobra.Command {
	var parent string
	var root bool

	cmd := &cobra.Command{
		Use:   "reorder <block-id>...",
		Short: "Set the order of one sibling group; with --parent/--root also re-parent them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parentTarget(parent, root)
			if err != nil {
				return writeErr(cmd, err)
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			out, err := repo.ReorderBlocks(args, pt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"requested": len(args), "updated": len(out)},
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "New parent block id")
	cmd.Flags().BoolVar(&root, "root", false, "Move the blocks to the root level")
	return cmd
}

func newBlocksMoveCmd(app *App) *cobra.Command {
	var parent string
	var root bool
	var index int

	cmd := &cobra.Command{
		Use:   "move <block-id>",
		Short: "Move one block to a position among its (new) siblings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parentTarget(parent, root)
			if err != nil {
				return writeErr(cmd, err)
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			out, err := repo.MoveBlock(args[0], pt, index)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "New parent block id")
	cmd.Flags().BoolVar(&root, "root", false, "Move to the root level")
	cmd.Flags().IntVar(&index, "index", 0, "Position among siblings (clamped)")
	return cmd
}

func newBlocksCollapseCmd(app *App) *cobra.Command {
	var expand bool
	var toggle bool

	cmd := &cobra.Command{
		Use:   "collapse <block-id>",
		Short: "Collapse a block in the outline (--expand to undo, --toggle to flip)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if expand && toggle {
				return writeErr(cmd, errors.New("provide at most one of --expand or --toggle"))
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			id := args[0]
			collapsed := !expand
			if toggle {
				collapsed, err = repo.ToggleCollapsed(id)
			} else {
				err = repo.SetCollapsed(id, collapsed)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "collapsed": collapsed}})
		},
	}

	cmd.Flags().BoolVar(&expand, "expand", false, "Expand instead of collapse")
	cmd.Flags().BoolVar(&toggle, "toggle", false, "Flip the current state")
	return cmd
}
