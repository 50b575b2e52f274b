// Package reorder holds the explicit ordered-list state behind the two
// drag-and-drop surfaces of the UI: the page reorder grid and the merge
// file list. The UI observes these lists and renders them; reorder gestures
// translate into Move/Toggle calls rather than the model being whatever
// order the widgets happen to be in.
package reorder

import (
	"fmt"
	"sync"

	"pdf-workbench/internal/docops"
	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/types"
)

// PageList is the working page arrangement for one source document: an
// ordered sequence of original page indices, each with a soft-delete flag.
// It is built once per loaded document and resolved into the order argument
// of docops.ExtractOrdered at save time.
type PageList struct {
	mu      sync.RWMutex
	path    string
	entries []types.PageEntry
}

// NewPageList returns an empty, unloaded PageList.
func NewPageList() *PageList {
	return &PageList{}
}

// Load reads the document at path and resets the list to its natural page
// order 0..N-1 with nothing deleted. Encrypted documents fail with
// ENCRYPTED_DOCUMENT, zero-page documents with EMPTY_DOCUMENT; in both
// cases the previous list state is kept.
func (l *PageList) Load(path string) error {
	pageCount, err := docops.PageCount(path)
	if err != nil {
		return err
	}
	if pageCount == 0 {
		return types.NewAppErrorWithDetails(types.ErrEmptyDocument, "document has no pages", path, nil)
	}

	entries := make([]types.PageEntry, pageCount)
	for i := range entries {
		entries[i] = types.PageEntry{PageIndex: i}
	}

	l.mu.Lock()
	l.path = path
	l.entries = entries
	l.mu.Unlock()

	logger.Debug("page list loaded", logger.String("path", path), logger.Int("pages", pageCount))
	return nil
}

// Clear drops the loaded document and all entries.
func (l *PageList) Clear() {
	l.mu.Lock()
	l.path = ""
	l.entries = nil
	l.mu.Unlock()
}

// Path returns the path of the loaded document, or "" when none is loaded.
func (l *PageList) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.path
}

// Len returns the number of entries, deleted ones included.
func (l *PageList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a snapshot of the current list for the UI to render.
func (l *PageList) Entries() []types.PageEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.PageEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Move relocates the entry at list position from to position to. Positions
// are list positions, not original page indices. Moving an entry onto its
// own position is a no-op.
func (l *PageList) Move(from, to int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if from < 0 || from >= len(l.entries) || to < 0 || to >= len(l.entries) {
		return types.NewAppErrorWithDetails(types.ErrInvalidIndex,
			"list position out of range",
			fmt.Sprintf("from %d to %d, list has %d entries", from, to, len(l.entries)), nil)
	}
	if from == to {
		return nil
	}

	entry := l.entries[from]
	l.entries = append(l.entries[:from], l.entries[from+1:]...)

	rest := make([]types.PageEntry, 0, len(l.entries)+1)
	rest = append(rest, l.entries[:to]...)
	rest = append(rest, entry)
	rest = append(rest, l.entries[to:]...)
	l.entries = rest

	return nil
}

// ToggleDeleted flips the deleted flag of the entry at the given list
// position. The entry stays in the list so the deletion can be undone; it
// is only excluded when the list is resolved.
func (l *PageList) ToggleDeleted(position int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if position < 0 || position >= len(l.entries) {
		return types.NewAppErrorWithDetails(types.ErrInvalidIndex,
			"list position out of range",
			fmt.Sprintf("position %d, list has %d entries", position, len(l.entries)), nil)
	}

	l.entries[position].Deleted = !l.entries[position].Deleted
	return nil
}

// Resolve returns the original page indices of all non-deleted entries in
// current list order. The result is the order argument for
// docops.ExtractOrdered.
func (l *PageList) Resolve() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	order := make([]int, 0, len(l.entries))
	for _, e := range l.entries {
		if !e.Deleted {
			order = append(order, e.PageIndex)
		}
	}
	return order
}
