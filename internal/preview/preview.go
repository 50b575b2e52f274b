// Package preview renders single PDF pages to small raster images for
// display in the file list and the page reorder grid. Rendering is best
// effort: a failure maps to a placeholder in the UI and never blocks a
// document operation.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/types"
)

// Renderer converts single PDF pages to PNG thumbnails via poppler's
// pdftoppm.
type Renderer struct {
	dpi int
}

// NewRenderer creates a Renderer rasterizing at the given DPI.
func NewRenderer(dpi int) *Renderer {
	if dpi <= 0 {
		dpi = 96
	}
	return &Renderer{dpi: dpi}
}

// Available reports whether pdftoppm can be found on PATH.
func Available() bool {
	_, err := exec.LookPath("pdftoppm")
	return err == nil
}

// RenderPage renders page pageIndex (0-based) of the document at path and
// returns PNG bytes scaled to fit targetWidth. The scratch directory used
// for rasterization is removed on every exit path.
func (r *Renderer) RenderPage(ctx context.Context, path string, pageIndex, targetWidth int) ([]byte, error) {
	if pageIndex < 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidIndex,
			"page index out of range", fmt.Sprintf("index %d", pageIndex), nil)
	}

	tempDir, err := os.MkdirTemp("", "pdf-preview-*")
	if err != nil {
		return nil, types.NewAppError(types.ErrOperation, "failed to create scratch directory", err)
	}
	defer os.RemoveAll(tempDir)

	pageNum := pageIndex + 1
	outputPrefix := filepath.Join(tempDir, fmt.Sprintf("page_%d", pageNum))

	args := []string{
		"-f", fmt.Sprintf("%d", pageNum),
		"-l", fmt.Sprintf("%d", pageNum),
		"-png",
		"-r", fmt.Sprintf("%d", r.dpi),
		"-singlefile",
		path,
		outputPrefix,
	}

	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	hideWindowOnWindows(cmd)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if _, lookErr := exec.LookPath("pdftoppm"); lookErr != nil {
			return nil, types.NewAppError(types.ErrToolMissing,
				"poppler-utils (pdftoppm) is not installed or not in PATH", lookErr)
		}
		return nil, types.NewAppErrorWithDetails(types.ErrToolExecution,
			"pdftoppm failed", string(output), err)
	}

	img, err := loadImage(outputPrefix + ".png")
	if err != nil {
		return nil, types.NewAppError(types.ErrOperation, "failed to load rendered page", err)
	}

	img = scaleToWidth(img, targetWidth)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, types.NewAppError(types.ErrOperation, "failed to encode preview", err)
	}

	logger.Debug("page preview rendered",
		logger.String("pdf", filepath.Base(path)),
		logger.Int("page", pageNum),
		logger.Int("width", img.Bounds().Dx()))

	return buf.Bytes(), nil
}

// scaleToWidth downscales img to targetWidth preserving aspect ratio.
// Images already narrower than the target are returned unchanged.
func scaleToWidth(img image.Image, targetWidth int) image.Image {
	b := img.Bounds()
	if targetWidth <= 0 || b.Dx() <= targetWidth {
		return img
	}

	targetHeight := b.Dy() * targetWidth / b.Dx()
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// loadImage loads a PNG image from file
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}
