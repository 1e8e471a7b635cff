package renderer

import (
	"sync"

	"artfolio-backend/internal/domains/content"
)

// DirtyTracker records unsaved edits to bound nodes, keyed by content path
// with last-write-wins semantics. A snapshot of the map becomes a patch
// batch; only entries unchanged since the snapshot are cleared after a
// successful save, so edits made while a save is in flight stay dirty.
//
// One save may be outstanding at a time; a second BeginSave while one is in
// flight is refused, not queued.
type DirtyTracker struct {
	mu       sync.Mutex
	edits    map[string]content.ContentUpdate
	order    []string
	inFlight bool
}

func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{edits: make(map[string]content.ContentUpdate)}
}

// Mark records an edit. Re-editing a path overwrites the pending value but
// keeps its position in the batch order.
func (t *DirtyTracker) Mark(path, typ, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, seen := t.edits[path]; !seen {
		t.order = append(t.order, path)
	}
	t.edits[path] = content.ContentUpdate{Path: path, Type: typ, Value: value}
}

// Len reports the number of dirty paths.
func (t *DirtyTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.edits)
}

// BeginSave snapshots the dirty map as an ordered batch and marks a save in
// flight. It returns ok=false when a save is already outstanding or there
// is nothing to save.
func (t *DirtyTracker) BeginSave() ([]content.ContentUpdate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inFlight || len(t.edits) == 0 {
		return nil, false
	}

	batch := make([]content.ContentUpdate, 0, len(t.edits))
	for _, path := range t.order {
		batch = append(batch, t.edits[path])
	}

	t.inFlight = true
	return batch, true
}

// EndSave completes the in-flight save. On success, entries whose pending
// value still matches what was sent are cleared; paths re-edited meanwhile
// remain dirty. On failure everything stays dirty for retry.
func (t *DirtyTracker) EndSave(sent []content.ContentUpdate, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inFlight = false
	if !success {
		return
	}

	for _, u := range sent {
		current, ok := t.edits[u.Path]
		if ok && current.Value == u.Value {
			delete(t.edits, u.Path)
		}
	}

	remaining := t.order[:0]
	for _, path := range t.order {
		if _, ok := t.edits[path]; ok {
			remaining = append(remaining, path)
		}
	}
	t.order = remaining
}
