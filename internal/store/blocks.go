package store

import (
	"fmt"
	"strings"

	"app-planner/internal/model"
	"app-planner/internal/tree"
)

// ParentTarget says what to do with a block's parent. The zero value leaves it alone;
// ToRoot and ToParent set it explicitly.
type ParentTarget struct {
	set bool
	id  *string
}

func KeepParent() ParentTarget { return ParentTarget{} }

func ToRoot() ParentTarget { return ParentTarget{set: true} }

func ToParent(id string) ParentTarget { return ParentTarget{set: true, id: &id} }

// ParentFromPtr maps nil to ToRoot and anything else to ToParent.
func ParentFromPtr(id *string) ParentTarget {
	if id == nil {
		return ToRoot()
	}
	return ToParent(*id)
}

func (p ParentTarget) IsSet() bool { return p.set }

// ID returns the target parent (nil = root). Only meaningful when IsSet.
func (p ParentTarget) ID() *string { return model.CopyID(p.id) }

// PriorityPatch distinguishes "leave priority alone" (zero value) from "clear it".
type PriorityPatch struct {
	set   bool
	value *model.BlockPriority
}

func SetPriority(p model.BlockPriority) PriorityPatch {
	return PriorityPatch{set: true, value: &p}
}

func ClearPriority() PriorityPatch { return PriorityPatch{set: true} }

// BlockPatch carries optional field updates. id, app_id and created_at cannot be patched.
type BlockPatch struct {
	Type        *model.BlockType
	Title       *string
	Description *string
	Status      *model.BlockStatus
	Priority    PriorityPatch
	Notes       *string
	Order       *int
	Parent      ParentTarget
}

func (r *Repository) Blocks() []model.Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadBlocks()
}

func (r *Repository) BlocksByApp(appID string) []model.Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	return blocksOfApp(r.loadBlocks(), appID)
}

func blocksOfApp(blocks []model.Block, appID string) []model.Block {
	out := []model.Block{}
	for _, b := range blocks {
		if b.AppID == appID {
			out = append(out, b)
		}
	}
	return out
}

func (r *Repository) Block(id string) (model.Block, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blocks := r.loadBlocks()
	if i := findBlock(blocks, id); i >= 0 {
		return blocks[i], true
	}
	return model.Block{}, false
}

// CreateBlock appends block as given, after validation. A missing id, status or
// timestamp is filled in; the caller supplies Order.
func (r *Repository) CreateBlock(block model.Block) (model.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createBlockLocked(block)
}

// BlockOption adjusts the template block built by AddBlock before it is stored.
// Changes to the app, parent or order are ignored.
type BlockOption func(*model.Block)

// AddBlock creates a default block of typ at the end of parentID's children,
// the way a new block is added from the outline. The sibling slot is computed and
// the block written under one lock.
func (r *Repository) AddBlock(appID string, parentID *string, typ model.BlockType, opts ...BlockOption) (model.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order := tree.NextOrder(r.loadBlocks(), appID, parentID)
	b := model.NewBlock(typ, appID, parentID, order, r.stamp())
	for _, opt := range opts {
		opt(&b)
	}
	b.AppID = appID
	b.ParentID = model.CopyID(parentID)
	b.Order = order
	return r.createBlockLocked(b)
}

func (r *Repository) createBlockLocked(block model.Block) (model.Block, error) {
	block.ID = strings.TrimSpace(block.ID)
	if block.ID == "" {
		block.ID = model.NewID()
	}
	if block.Status == "" {
		block.Status = model.StatusNotStarted
	}
	if err := validateBlockFields(block); err != nil {
		return model.Block{}, err
	}

	apps := r.loadApps()
	blocks := r.loadBlocks()
	if findApp(apps, block.AppID) < 0 {
		return model.Block{}, ValidationError{Field: "app_id", Message: "unknown app: " + block.AppID}
	}
	if idInUse(apps, blocks, block.ID) {
		return model.Block{}, ValidationError{Field: "id", Message: "id already in use: " + block.ID}
	}
	if block.ParentID != nil {
		if err := checkParent(blocks, block.AppID, block.ID, *block.ParentID); err != nil {
			return model.Block{}, err
		}
	}

	now := r.stamp()
	if block.CreatedAt.IsZero() {
		block.CreatedAt = now
	}
	if block.UpdatedAt.IsZero() {
		block.UpdatedAt = block.CreatedAt
	}
	block.ParentID = model.CopyID(block.ParentID)

	blocks = append(blocks, block)
	if err := r.write("block.create", map[string]any{KeyBlocks: blocks}); err != nil {
		return model.Block{}, err
	}
	r.log.Debug().Str("block", block.ID).Str("app", block.AppID).Str("type", string(block.Type)).Msg("block created")
	return block, nil
}

// UpdateBlock merges patch into the stored block and stamps UpdatedAt. It never creates a record.
func (r *Repository) UpdateBlock(id string, patch BlockPatch) (model.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateBlockLocked("block.update", id, patch)
}

func (r *Repository) updateBlockLocked(op, id string, patch BlockPatch) (model.Block, error) {
	blocks := r.loadBlocks()
	i := findBlock(blocks, id)
	if i < 0 {
		return model.Block{}, NotFoundError{Kind: "block", ID: id}
	}

	next := blocks[i]
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Priority.set {
		next.Priority = nil
		if patch.Priority.value != nil {
			v := *patch.Priority.value
			next.Priority = &v
		}
	}
	if patch.Notes != nil {
		next.Notes = *patch.Notes
	}
	if patch.Order != nil {
		next.Order = *patch.Order
	}
	if patch.Parent.set {
		if patch.Parent.id != nil {
			if err := checkParent(blocks, next.AppID, next.ID, *patch.Parent.id); err != nil {
				return model.Block{}, err
			}
		}
		next.ParentID = patch.Parent.ID()
	}
	if err := validateBlockFields(next); err != nil {
		return model.Block{}, err
	}
	next.UpdatedAt = r.stamp()
	blocks[i] = next

	if err := r.write(op, map[string]any{KeyBlocks: blocks}); err != nil {
		return model.Block{}, err
	}
	return next, nil
}

// DeleteBlock is a soft delete: the block is kept and marked deprecated.
// Descendants are not touched.
func (r *Repository) DeleteBlock(id string) (model.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := model.StatusDeprecated
	return r.updateBlockLocked("block.deprecate", id, BlockPatch{Status: &st})
}

func validateBlockFields(b model.Block) error {
	if strings.TrimSpace(b.AppID) == "" {
		return ValidationError{Field: "app_id", Message: "required"}
	}
	if !b.Type.Valid() {
		return ValidationError{Field: "type", Message: fmt.Sprintf("unknown block type %q", b.Type)}
	}
	if !b.Status.Valid() {
		return ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", b.Status)}
	}
	if b.Priority != nil && !b.Priority.Valid() {
		return ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", *b.Priority)}
	}
	if b.Order < 0 {
		return ValidationError{Field: "order", Message: "must be >= 0"}
	}
	return nil
}

// checkParent rejects a parent that is missing, in another app, the block itself,
// or one of its descendants. Any of those would break single-parent traversal.
func checkParent(blocks []model.Block, appID, blockID, parentID string) error {
	if parentID == blockID {
		return ValidationError{Field: "parent_id", Message: "a block cannot be its own parent"}
	}
	i := findBlock(blocks, parentID)
	if i < 0 {
		return ValidationError{Field: "parent_id", Message: "unknown parent: " + parentID}
	}
	if blocks[i].AppID != appID {
		return ValidationError{Field: "parent_id", Message: "parent belongs to another app: " + parentID}
	}
	if tree.DescendantIDs(blocks, blockID)[parentID] {
		return ValidationError{Field: "parent_id", Message: "cannot move a block under its own descendant: " + parentID}
	}
	return nil
}
