package docops

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/types"
)

// DefaultCompressTimeout bounds a Ghostscript run. The tool occasionally
// hangs on malformed input; without a bound the calling goroutine would
// block forever.
const DefaultCompressTimeout = 2 * time.Minute

// Compressor invokes Ghostscript to re-encode a PDF with one of the fixed
// quality presets.
type Compressor struct {
	binary  string        // Ghostscript executable, looked up on PATH
	timeout time.Duration // per-invocation bound
}

// NewCompressor creates a Compressor. An empty binary defaults to "gs";
// a zero timeout defaults to DefaultCompressTimeout.
func NewCompressor(binary string, timeout time.Duration) *Compressor {
	if binary == "" {
		binary = "gs"
	}
	if timeout == 0 {
		timeout = DefaultCompressTimeout
	}
	return &Compressor{binary: binary, timeout: timeout}
}

// Compress re-encodes the document at path into outputPath using the given
// preset. The preset selects Ghostscript's internal quality/downsampling
// tradeoff and must be one of screen, ebook, printer or prepress.
//
// A missing binary yields TOOL_MISSING with no output written; a non-zero
// exit or timeout yields TOOL_EXECUTION_ERROR carrying the captured stderr.
func (c *Compressor) Compress(ctx context.Context, path, outputPath, preset string) error {
	if !types.ValidPreset(preset) {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown compression preset", preset, nil)
	}

	binPath, err := exec.LookPath(c.binary)
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrToolMissing,
			"Ghostscript is not installed or not in PATH", c.binary, err)
	}

	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/" + preset,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + outputPath,
		path,
	}

	logger.Info("compressing document",
		logger.String("input", filepath.Base(path)),
		logger.String("preset", preset))

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, binPath, args...)
	hideWindowOnWindows(cmd)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		os.Remove(outputPath)
		return types.NewAppError(types.ErrToolExecution, "compression timed out", runCtx.Err())
	}
	if runErr != nil {
		os.Remove(outputPath)
		diag := strings.TrimSpace(stderr.String())
		return types.NewAppErrorWithDetails(types.ErrToolExecution, "Ghostscript failed", diag, runErr)
	}

	return nil
}
