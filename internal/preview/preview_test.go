package preview

import (
	"context"
	"image"
	"path/filepath"
	"testing"

	"pdf-workbench/internal/types"
)

func TestNewRenderer(t *testing.T) {
	t.Run("default dpi for invalid input", func(t *testing.T) {
		r := NewRenderer(0)
		if r.dpi != 96 {
			t.Errorf("expected default dpi 96, got %d", r.dpi)
		}
	})

	t.Run("custom dpi", func(t *testing.T) {
		r := NewRenderer(150)
		if r.dpi != 150 {
			t.Errorf("expected dpi 150, got %d", r.dpi)
		}
	})
}

func TestScaleToWidth(t *testing.T) {
	t.Run("downscales preserving aspect ratio", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 200, 100))
		got := scaleToWidth(src, 90)
		if got.Bounds().Dx() != 90 {
			t.Errorf("expected width 90, got %d", got.Bounds().Dx())
		}
		if got.Bounds().Dy() != 45 {
			t.Errorf("expected height 45, got %d", got.Bounds().Dy())
		}
	})

	t.Run("narrower image is unchanged", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 50, 70))
		got := scaleToWidth(src, 90)
		if got != image.Image(src) {
			t.Error("expected the source image back unchanged")
		}
	})

	t.Run("non-positive target is unchanged", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 200, 100))
		if got := scaleToWidth(src, 0); got != image.Image(src) {
			t.Error("expected the source image back unchanged")
		}
	})

	t.Run("extreme aspect ratio keeps height at least 1", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 1000, 2))
		got := scaleToWidth(src, 60)
		if got.Bounds().Dy() < 1 {
			t.Errorf("height collapsed to %d", got.Bounds().Dy())
		}
	})
}

func TestRenderPageErrors(t *testing.T) {
	r := NewRenderer(96)

	t.Run("negative page index", func(t *testing.T) {
		_, err := r.RenderPage(context.Background(), "doc.pdf", -1, 90)
		if types.CodeOf(err) != types.ErrInvalidIndex {
			t.Errorf("expected INVALID_PAGE_INDEX, got %v", err)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.pdf")
		_, err := r.RenderPage(context.Background(), path, 0, 90)
		if err == nil {
			t.Fatal("expected error for missing document")
		}
		// TOOL_MISSING without pdftoppm installed, TOOL_EXECUTION_ERROR with it.
		code := types.CodeOf(err)
		if code != types.ErrToolMissing && code != types.ErrToolExecution {
			t.Errorf("unexpected error code %s", code)
		}
	})
}
