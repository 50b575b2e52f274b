package reorder

import (
	"fmt"
	"sync"

	"pdf-workbench/internal/types"
)

// FileList is the ordered merge list: the sequence of document paths whose
// order determines output concatenation order. Duplicate paths are allowed;
// the list is cleared wholesale after a successful merge.
type FileList struct {
	mu    sync.RWMutex
	paths []string
}

// NewFileList returns an empty FileList.
func NewFileList() *FileList {
	return &FileList{}
}

// Add appends a document path to the end of the list.
func (l *FileList) Add(path string) {
	l.mu.Lock()
	l.paths = append(l.paths, path)
	l.mu.Unlock()
}

// Remove deletes the entry at the given list position.
func (l *FileList) Remove(position int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if position < 0 || position >= len(l.paths) {
		return types.NewAppErrorWithDetails(types.ErrInvalidIndex,
			"list position out of range",
			fmt.Sprintf("position %d, list has %d entries", position, len(l.paths)), nil)
	}

	l.paths = append(l.paths[:position], l.paths[position+1:]...)
	return nil
}

// Move relocates the entry at position from to position to. Moving an entry
// onto its own position is a no-op.
func (l *FileList) Move(from, to int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if from < 0 || from >= len(l.paths) || to < 0 || to >= len(l.paths) {
		return types.NewAppErrorWithDetails(types.ErrInvalidIndex,
			"list position out of range",
			fmt.Sprintf("from %d to %d, list has %d entries", from, to, len(l.paths)), nil)
	}
	if from == to {
		return nil
	}

	path := l.paths[from]
	l.paths = append(l.paths[:from], l.paths[from+1:]...)

	rest := make([]string, 0, len(l.paths)+1)
	rest = append(rest, l.paths[:to]...)
	rest = append(rest, path)
	rest = append(rest, l.paths[to:]...)
	l.paths = rest

	return nil
}

// Clear empties the list.
func (l *FileList) Clear() {
	l.mu.Lock()
	l.paths = nil
	l.mu.Unlock()
}

// Len returns the number of entries.
func (l *FileList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.paths)
}

// Paths returns a snapshot of the list in current order.
func (l *FileList) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.paths))
	copy(out, l.paths)
	return out
}
