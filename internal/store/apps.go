package store

import (
	"strings"

	"app-planner/internal/model"
)

// AppPatch carries optional field updates; nil fields are left untouched.
type AppPatch struct {
	Name        *string
	Description *string
}

func (r *Repository) Apps() []model.App {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadApps()
}

func (r *Repository) App(id string) (model.App, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps := r.loadApps()
	if i := findApp(apps, id); i >= 0 {
		return apps[i], true
	}
	return model.App{}, false
}

// CreateApp appends app. A missing id or timestamp is filled in; the name must be non-empty
// and the id unused by any app or block.
func (r *Repository) CreateApp(app model.App) (model.App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app.Name = strings.TrimSpace(app.Name)
	if app.Name == "" {
		return model.App{}, ValidationError{Field: "name", Message: "app name is required"}
	}
	app.ID = strings.TrimSpace(app.ID)
	if app.ID == "" {
		app.ID = model.NewID()
	}

	apps := r.loadApps()
	blocks := r.loadBlocks()
	if idInUse(apps, blocks, app.ID) {
		return model.App{}, ValidationError{Field: "id", Message: "id already in use: " + app.ID}
	}

	now := r.stamp()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}

	apps = append(apps, app)
	if err := r.write("app.create", map[string]any{KeyApps: apps}); err != nil {
		return model.App{}, err
	}
	r.log.Info().Str("app", app.ID).Str("name", app.Name).Msg("app created")
	return app, nil
}

func (r *Repository) UpdateApp(id string, patch AppPatch) (model.App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps := r.loadApps()
	i := findApp(apps, id)
	if i < 0 {
		return model.App{}, NotFoundError{Kind: "app", ID: id}
	}
	next := apps[i]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.App{}, ValidationError{Field: "name", Message: "app name is required"}
		}
		next.Name = name
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	next.UpdatedAt = r.stamp()
	apps[i] = next

	if err := r.write("app.update", map[string]any{KeyApps: apps}); err != nil {
		return model.App{}, err
	}
	return next, nil
}

// DeleteApp removes the app and every block that belongs to it, plus their collapsed
// state, in a single write. Blocks of other apps are untouched.
func (r *Repository) DeleteApp(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps := r.loadApps()
	blocks := r.loadBlocks()
	collapsed := r.loadCollapsed()

	keptApps := make([]model.App, 0, len(apps))
	for _, a := range apps {
		if a.ID != id {
			keptApps = append(keptApps, a)
		}
	}
	keptBlocks := make([]model.Block, 0, len(blocks))
	removed := 0
	for _, b := range blocks {
		if b.AppID == id {
			delete(collapsed, b.ID)
			removed++
			continue
		}
		keptBlocks = append(keptBlocks, b)
	}
	if len(keptApps) == len(apps) && removed == 0 {
		return NotFoundError{Kind: "app", ID: id}
	}

	if err := r.write("app.delete", map[string]any{
		KeyApps:      keptApps,
		KeyBlocks:    keptBlocks,
		KeyCollapsed: collapsed,
	}); err != nil {
		return err
	}
	r.log.Info().Str("app", id).Int("blocks", removed).Msg("app deleted")
	return nil
}
