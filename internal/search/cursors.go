// Package search provides the people-search service client and
// variant-scoped pagination cursor bookkeeping.
package search

import "sync"

// cursorState tracks pagination for one variant.
type cursorState struct {
	cursor    string
	exhausted bool
}

// CursorManager tracks opaque continuation tokens per search variant.
// Cursors are variant-scoped and never shared: paginating one variant with
// another variant's token would silently return the wrong result stream.
type CursorManager struct {
	mu       sync.Mutex
	variants map[string]*cursorState
}

// NewCursorManager creates an empty CursorManager.
func NewCursorManager() *CursorManager {
	return &CursorManager{variants: make(map[string]*cursorState)}
}

// Next returns the stored continuation token for a variant, or "" if the
// variant has not been queried yet (first page). Once a variant is
// exhausted, Next fails fast rather than re-issuing a stale token.
func (m *CursorManager) Next(variant string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.variants[variant]
	if !ok {
		return "", nil
	}
	if state.exhausted {
		return "", &CursorError{Variant: variant, Message: "variant is exhausted"}
	}
	return state.cursor, nil
}

// Advance stores the token returned by the most recent call for a variant.
// An empty returned token marks the variant exhausted: no further pages
// exist.
func (m *CursorManager) Advance(variant, returnedCursor string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.variants[variant]
	if !ok {
		state = &cursorState{}
		m.variants[variant] = state
	}
	if returnedCursor == "" {
		state.exhausted = true
		state.cursor = ""
		return
	}
	state.cursor = returnedCursor
}

// MarkExhausted retires a variant's pagination, for example after a
// permanent call failure during exploitation.
func (m *CursorManager) MarkExhausted(variant string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.variants[variant]
	if !ok {
		state = &cursorState{}
		m.variants[variant] = state
	}
	state.exhausted = true
	state.cursor = ""
}

// IsExhausted reports whether a variant has no further pages.
func (m *CursorManager) IsExhausted(variant string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.variants[variant]
	return ok && state.exhausted
}
