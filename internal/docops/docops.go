// Package docops provides the stateless document operations of the PDF
// workbench: merge, split, extract-pages-in-order and compress. Documents
// are addressed by filesystem path and reopened for every operation; no
// parsed state is retained between calls.
package docops

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/types"
)

// conf returns the pdfcpu configuration used for all operations.
func conf() *model.Configuration {
	return model.NewDefaultConfiguration()
}

// isEncryptedErr reports whether err looks like pdfcpu's refusal to open a
// password-protected document.
func isEncryptedErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}

// PageCount returns the number of pages of the document at path.
// An encrypted document yields an ENCRYPTED_DOCUMENT error.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		if isEncryptedErr(err) {
			return 0, types.NewAppError(types.ErrEncrypted, "document is encrypted", err)
		}
		return 0, types.NewAppErrorWithDetails(types.ErrOperation, "failed to read document", path, err)
	}
	return n, nil
}

// Merge appends the complete page sequence of each input, in list order,
// into a single document written to outputPath. At least one path is
// required; the UI gates the action at two, but the operation itself does
// not. Any output left behind after a failure is removed.
func Merge(paths []string, outputPath string) error {
	if len(paths) == 0 {
		return types.NewAppError(types.ErrInvalidInput, "no input documents", nil)
	}

	logger.Info("merging documents",
		logger.Int("count", len(paths)),
		logger.String("output", filepath.Base(outputPath)))

	if err := api.MergeCreateFile(paths, outputPath, false, conf()); err != nil {
		os.Remove(outputPath)
		return types.NewAppError(types.ErrOperation, "failed to merge documents", err)
	}
	return nil
}

// Split writes every page of the document at path as a single-page document
// named {basename}_page_{n}.pdf (1-based) into outputDir, creating the
// directory if absent. It returns the number of pages written.
func Split(path, outputDir string) (int, error) {
	pageCount, err := PageCount(path)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, types.NewAppErrorWithDetails(types.ErrOperation, "failed to create output directory", outputDir, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	logger.Info("splitting document",
		logger.String("input", filepath.Base(path)),
		logger.Int("pages", pageCount),
		logger.String("outputDir", outputDir))

	for i := 0; i < pageCount; i++ {
		outPath := filepath.Join(outputDir, fmt.Sprintf("%s_page_%d.pdf", base, i+1))
		pageSel := []string{strconv.Itoa(i + 1)}
		if err := api.CollectFile(path, outPath, pageSel, conf()); err != nil {
			return 0, types.NewAppErrorWithDetails(types.ErrOperation,
				"failed to write page", fmt.Sprintf("page %d", i+1), err)
		}
	}

	return pageCount, nil
}

// ExtractOrdered writes a new document to outputPath containing exactly the
// pages of the source referenced by order, in that order. Duplicates and
// omissions are both legal; order need not be a permutation. All indices are
// validated against the source's page count before anything is written, so a
// failed call leaves no partial output behind.
func ExtractOrdered(path, outputPath string, order []int) error {
	if len(order) == 0 {
		return types.NewAppError(types.ErrInvalidInput, "no pages selected", nil)
	}

	pageCount, err := PageCount(path)
	if err != nil {
		return err
	}

	// Validate up front; writing must not start with a bad index in the order.
	pageSel := make([]string, len(order))
	for i, idx := range order {
		if idx < 0 || idx >= pageCount {
			return types.NewAppErrorWithDetails(types.ErrInvalidIndex,
				"page index out of range",
				fmt.Sprintf("index %d, document has %d pages", idx, pageCount), nil)
		}
		pageSel[i] = strconv.Itoa(idx + 1)
	}

	logger.Info("extracting pages",
		logger.String("input", filepath.Base(path)),
		logger.Int("pages", len(order)),
		logger.String("output", filepath.Base(outputPath)))

	if err := api.CollectFile(path, outputPath, pageSel, conf()); err != nil {
		os.Remove(outputPath)
		return types.NewAppError(types.ErrOperation, "failed to write reordered document", err)
	}
	return nil
}

// Inspect returns display metadata for the document at path: page count,
// file size and, when available, the Info dictionary's title and author.
// Metadata extraction is best effort; only an unreadable document fails.
func Inspect(path string) (*types.DocumentInfo, error) {
	pageCount, err := PageCount(path)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrOperation, "failed to stat document", path, err)
	}

	info := &types.DocumentInfo{
		Path:      path,
		PageCount: pageCount,
		SizeBytes: fi.Size(),
	}

	// Title/author come from the Info dictionary; ignore failures.
	if f, r, err := pdf.Open(path); err == nil {
		defer f.Close()
		docInfo := r.Trailer().Key("Info")
		if docInfo.Kind() == pdf.Dict {
			info.Title = docInfo.Key("Title").Text()
			info.Author = docInfo.Key("Author").Text()
		}
	}

	return info, nil
}
