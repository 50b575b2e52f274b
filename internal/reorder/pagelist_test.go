package reorder

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf-workbench/internal/types"
)

// writeTestPDF writes a minimal well-formed PDF with the given number of
// empty pages, with computed xref offsets.
func writeTestPDF(t *testing.T, path string, pageCount int) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int

	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, pageCount)
	for i := 0; i < pageCount; i++ {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), pageCount))
	for i := 0; i < pageCount; i++ {
		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n", i+3))
	}

	xrefPos := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefPos))

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test pdf: %v", err)
	}
}

func pageOrder(entries []types.PageEntry) []int {
	order := make([]int, len(entries))
	for i, e := range entries {
		order[i] = e.PageIndex
	}
	return order
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPageListLoad(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("natural order with nothing deleted", func(t *testing.T) {
		path := filepath.Join(tmpDir, "four.pdf")
		writeTestPDF(t, path, 4)

		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if l.Path() != path {
			t.Errorf("expected path %s, got %s", path, l.Path())
		}
		if l.Len() != 4 {
			t.Fatalf("expected 4 entries, got %d", l.Len())
		}
		for i, e := range l.Entries() {
			if e.PageIndex != i || e.Deleted {
				t.Errorf("entry %d: expected page %d undeleted, got %+v", i, i, e)
			}
		}
	})

	t.Run("failed load keeps previous state", func(t *testing.T) {
		path := filepath.Join(tmpDir, "two.pdf")
		writeTestPDF(t, path, 2)

		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if err := l.Load(filepath.Join(tmpDir, "missing.pdf")); err == nil {
			t.Fatal("expected error for missing file")
		}
		if l.Path() != path || l.Len() != 2 {
			t.Error("previous list state was not kept after failed load")
		}
	})
}

func TestPageListMove(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "four.pdf")
	writeTestPDF(t, path, 4)

	t.Run("relocates entry", func(t *testing.T) {
		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if err := l.Move(3, 0); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if got := pageOrder(l.Entries()); !equalInts(got, []int{3, 0, 1, 2}) {
			t.Errorf("expected order [3 0 1 2], got %v", got)
		}
	})

	t.Run("move onto own position is a no-op", func(t *testing.T) {
		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if err := l.Move(1, 1); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if got := pageOrder(l.Entries()); !equalInts(got, []int{0, 1, 2, 3}) {
			t.Errorf("expected unchanged order, got %v", got)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		for _, pair := range [][2]int{{-1, 0}, {0, 4}, {4, 0}} {
			err := l.Move(pair[0], pair[1])
			if types.CodeOf(err) != types.ErrInvalidIndex {
				t.Errorf("Move(%d, %d): expected INVALID_PAGE_INDEX, got %v", pair[0], pair[1], err)
			}
		}
	})
}

func TestPageListToggleAndResolve(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "four.pdf")
	writeTestPDF(t, path, 4)

	t.Run("move then delete then resolve", func(t *testing.T) {
		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		// [0 1 2 3] -> move last to front -> [3 0 1 2]
		if err := l.Move(3, 0); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		// delete list position 2 (page 1) -> resolves to [3 0 2]
		if err := l.ToggleDeleted(2); err != nil {
			t.Fatalf("ToggleDeleted failed: %v", err)
		}

		if got := l.Resolve(); !equalInts(got, []int{3, 0, 2}) {
			t.Errorf("expected resolved order [3 0 2], got %v", got)
		}
		if l.Len() != 4 {
			t.Errorf("deleted entry should stay in the list, len is %d", l.Len())
		}
	})

	t.Run("toggle twice restores", func(t *testing.T) {
		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		l.ToggleDeleted(1)
		l.ToggleDeleted(1)
		if got := l.Resolve(); !equalInts(got, []int{0, 1, 2, 3}) {
			t.Errorf("expected full order after restore, got %v", got)
		}
	})

	t.Run("toggle out of range", func(t *testing.T) {
		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if err := l.ToggleDeleted(4); types.CodeOf(err) != types.ErrInvalidIndex {
			t.Errorf("expected INVALID_PAGE_INDEX, got %v", err)
		}
	})

	t.Run("all deleted resolves empty", func(t *testing.T) {
		l := NewPageList()
		if err := l.Load(path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		for i := 0; i < 4; i++ {
			l.ToggleDeleted(i)
		}
		if got := l.Resolve(); len(got) != 0 {
			t.Errorf("expected empty resolution, got %v", got)
		}
	})
}

func TestPageListClear(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "two.pdf")
	writeTestPDF(t, path, 2)

	l := NewPageList()
	if err := l.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	l.Clear()
	if l.Path() != "" || l.Len() != 0 {
		t.Error("Clear did not reset the list")
	}
}
