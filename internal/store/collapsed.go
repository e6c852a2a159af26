package store

// CollapsedState returns the persisted block id -> collapsed map. Absent ids are expanded.
func (r *Repository) CollapsedState() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadCollapsed()
}

func (r *Repository) IsCollapsed(blockID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadCollapsed()[blockID]
}

// ToggleCollapsed flips blockID's state and returns the new value.
func (r *Repository) ToggleCollapsed(blockID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.loadCollapsed()
	m[blockID] = !m[blockID]
	if err := r.write("collapsed.toggle", map[string]any{KeyCollapsed: m}); err != nil {
		return !m[blockID], err
	}
	return m[blockID], nil
}

func (r *Repository) SetCollapsed(blockID string, collapsed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.loadCollapsed()
	if collapsed {
		m[blockID] = true
	} else {
		delete(m, blockID)
	}
	return r.write("collapsed.set", map[string]any{KeyCollapsed: m})
}

// SetCollapsedState replaces the whole map.
func (r *Repository) SetCollapsedState(state map[string]bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state == nil {
		state = map[string]bool{}
	}
	return r.write("collapsed.replace", map[string]any{KeyCollapsed: state})
}
