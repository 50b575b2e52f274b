package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pdf-workbench/internal/config"
	"pdf-workbench/internal/docops"
	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/preview"
	"pdf-workbench/internal/reorder"
	"pdf-workbench/internal/task"
	"pdf-workbench/internal/types"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Event names for frontend communication
const (
	EventTaskStarted  = "task-started"
	EventTaskFinished = "task-finished"
	EventFilesChanged = "files-changed"
	EventPagesChanged = "pages-changed"
	EventToast        = "toast"
)

// Preview sizes used by the two list surfaces, matching the widget sizes in
// the frontend.
const (
	FilePreviewWidth = 60
	PagePreviewWidth = 90
)

// App is the main Wails application controller. It owns the merge file
// list, the page reorder list, the task runner and the preview pool, and
// exposes them to the frontend as bound methods.
type App struct {
	ctx    context.Context
	config *config.Manager

	runner     *task.Runner
	compressor *docops.Compressor
	renderer   *preview.Renderer
	pool       *preview.Pool

	files *reorder.FileList
	pages *reorder.PageList

	// Session-scoped compression preset, seeded from config at startup and
	// reset on process restart.
	presetMu sync.RWMutex
	preset   string

	// isWailsRuntime indicates if the app is running in a Wails environment.
	// This is used to safely skip EventsEmit calls during tests.
	isWailsRuntime bool
}

// NewApp creates a new App application struct.
func NewApp() *App {
	return &App{
		runner: task.NewRunner(),
		files:  reorder.NewFileList(),
		pages:  reorder.NewPageList(),
		preset: types.DefaultPreset,
	}
}

// NewAppWithConfig creates a new App with a custom config path.
// This is useful for testing or when a specific configuration location is needed.
func NewAppWithConfig(configPath string) (*App, error) {
	app := NewApp()

	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, err
	}
	app.config = cfgMgr

	return app, nil
}

// safeEmit safely emits an event to the frontend.
// It only emits events when running in a Wails environment.
func (a *App) safeEmit(eventName string, data ...interface{}) {
	if !a.isWailsRuntime {
		logger.Debug("event emit skipped (not in Wails runtime)",
			logger.String("event", eventName))
		return
	}
	runtime.EventsEmit(a.ctx, eventName, data...)
}

// SetWailsRuntime sets the Wails runtime flag.
// This should be called from main.go when the app is started in Wails mode.
func (a *App) SetWailsRuntime(isWails bool) {
	a.isWailsRuntime = isWails
}

// startup is called when the app starts. It loads configuration and wires
// up the compressor, the preview pool and the task completion callback.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	logger.Info("application starting up")

	if a.config == nil {
		cfgMgr, err := config.NewManager("")
		if err != nil {
			logger.Error("failed to create config manager", err)
			return
		}
		a.config = cfgMgr
	}

	if err := a.config.Load(); err != nil {
		// Continue with defaults if config load fails
		logger.Warn("failed to load config, using defaults", logger.Err(err))
	}

	a.preset = a.config.GetCompressionPreset()

	a.compressor = docops.NewCompressor(
		a.config.GetGhostscriptBinary(),
		time.Duration(a.config.GetToolTimeoutSeconds())*time.Second)

	a.renderer = preview.NewRenderer(a.config.GetPreviewDPI())
	a.pool = preview.NewPool(a.renderer, a.config.GetPreviewWorkers())

	if !preview.Available() {
		logger.Warn("pdftoppm not found, page previews will show placeholders")
	}

	// Task results are delivered to the frontend as an event; the frontend
	// shows the one-line message as a toast and re-enables its buttons.
	a.runner.SetCompletionCallback(func(result types.TaskResult) {
		a.safeEmit(EventTaskFinished, result)
	})

	logger.Info("application startup complete")
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	logger.Info("application shutting down")

	if a.pool != nil {
		a.pool.Close()
	}

	logger.Info("application shutdown complete")
}

// IsProcessing returns true if a document operation is currently running.
func (a *App) IsProcessing() bool {
	return a.runner.Busy()
}

// GetTaskStatus returns a snapshot of the task runner's state.
func (a *App) GetTaskStatus() types.TaskStatus {
	return a.runner.Status()
}

// --- Merge file list ---

// AddFiles validates and appends the given PDF paths to the merge list.
// It returns the document info of every file actually added. Files that
// cannot be read are skipped and reported in the error.
func (a *App) AddFiles(paths []string) ([]types.DocumentInfo, error) {
	if a.runner.Busy() {
		return nil, types.NewAppError(types.ErrTaskBusy, "a task is already in progress", nil)
	}

	var added []types.DocumentInfo
	var firstErr error
	for _, path := range paths {
		info, err := docops.Inspect(path)
		if err != nil {
			logger.Warn("skipping unreadable document",
				logger.String("path", path), logger.Err(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		a.files.Add(path)
		added = append(added, *info)
	}

	if len(added) > 0 {
		a.safeEmit(EventFilesChanged)
	}
	if len(added) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return added, nil
}

// RemoveFile removes the merge list entry at the given position.
func (a *App) RemoveFile(position int) error {
	if err := a.files.Remove(position); err != nil {
		return err
	}
	a.safeEmit(EventFilesChanged)
	return nil
}

// MoveFile relocates a merge list entry; called when a row is dropped onto
// a new position.
func (a *App) MoveFile(from, to int) error {
	if err := a.files.Move(from, to); err != nil {
		return err
	}
	a.safeEmit(EventFilesChanged)
	return nil
}

// ClearFiles empties the merge list and the reorder view.
func (a *App) ClearFiles() {
	a.files.Clear()
	a.pages.Clear()
	a.safeEmit(EventFilesChanged)
	a.safeEmit(EventPagesChanged)
}

// GetFiles returns the merge list paths in current order.
func (a *App) GetFiles() []string {
	return a.files.Paths()
}

// GetDocumentInfo returns display metadata for one document.
func (a *App) GetDocumentInfo(path string) (*types.DocumentInfo, error) {
	return docops.Inspect(path)
}

// --- Page reorder list ---

// LoadPagesForReorder loads the pages of the selected document into the
// reorder list and returns the fresh entries.
func (a *App) LoadPagesForReorder(path string) ([]types.PageEntry, error) {
	if err := a.pages.Load(path); err != nil {
		return nil, err
	}
	a.safeEmit(EventPagesChanged)
	return a.pages.Entries(), nil
}

// MovePage relocates a reorder entry; called when a page card is dropped
// onto a new position.
func (a *App) MovePage(from, to int) error {
	if err := a.pages.Move(from, to); err != nil {
		return err
	}
	a.safeEmit(EventPagesChanged)
	return nil
}

// TogglePageDeleted marks or unmarks the page at the given list position
// for deletion.
func (a *App) TogglePageDeleted(position int) error {
	if err := a.pages.ToggleDeleted(position); err != nil {
		return err
	}
	a.safeEmit(EventPagesChanged)
	return nil
}

// GetPages returns the current reorder entries.
func (a *App) GetPages() []types.PageEntry {
	return a.pages.Entries()
}

// GetReorderSource returns the path of the document loaded for reordering,
// or "" when none is loaded.
func (a *App) GetReorderSource() string {
	return a.pages.Path()
}

// --- Compression preset ---

// GetPresets returns the recognized compression presets for the dropdown.
func (a *App) GetPresets() []string {
	return types.Presets()
}

// GetCompressionPreset returns the session's compression preset.
func (a *App) GetCompressionPreset() string {
	a.presetMu.RLock()
	defer a.presetMu.RUnlock()
	return a.preset
}

// SetCompressionPreset sets the session's compression preset. The setting
// lives for the session only; the config file merely seeds it at startup.
func (a *App) SetCompressionPreset(preset string) error {
	if !types.ValidPreset(preset) {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown compression preset", preset, nil)
	}
	a.presetMu.Lock()
	a.preset = preset
	a.presetMu.Unlock()
	return nil
}

// --- Operations ---

// MergeTo merges the current merge list, in list order, into outputPath.
// The operation itself accepts a single file; the frontend enables the
// button only from two. On success the merge list is cleared.
func (a *App) MergeTo(outputPath string) error {
	paths := a.files.Paths()
	if len(paths) == 0 {
		return types.NewAppError(types.ErrInvalidInput, "no input documents", nil)
	}

	err := a.runner.Start(a.ctxOrBackground(), types.TaskMerge, "Merging PDFs...",
		func(ctx context.Context) (*types.TaskResult, error) {
			if err := docops.Merge(paths, outputPath); err != nil {
				return nil, err
			}
			// Merge is the only operation that resets the working state.
			a.files.Clear()
			a.pages.Clear()
			a.safeEmit(EventFilesChanged)
			a.safeEmit(EventPagesChanged)
			a.rememberOutputDir(filepath.Dir(outputPath))
			return &types.TaskResult{
				Success:    true,
				Message:    fmt.Sprintf("Successfully merged %d files.", len(paths)),
				OutputPath: outputPath,
			}, nil
		})
	if err == nil {
		a.safeEmit(EventTaskStarted, types.TaskMerge)
	}
	return err
}

// SplitTo splits the document loaded in the merge list selection into
// per-page files in outputDir.
func (a *App) SplitTo(sourcePath, outputDir string) error {
	if sourcePath == "" {
		return types.NewAppError(types.ErrInvalidInput, "no document selected", nil)
	}

	err := a.runner.Start(a.ctxOrBackground(), types.TaskSplit, "Splitting PDF...",
		func(ctx context.Context) (*types.TaskResult, error) {
			pages, err := docops.Split(sourcePath, outputDir)
			if err != nil {
				return nil, err
			}
			a.rememberOutputDir(outputDir)
			return &types.TaskResult{
				Success:    true,
				Message:    fmt.Sprintf("Successfully split into %d pages.", pages),
				OutputPath: outputDir,
				PageCount:  pages,
			}, nil
		})
	if err == nil {
		a.safeEmit(EventTaskStarted, types.TaskSplit)
	}
	return err
}

// CompressTo compresses the selected document into outputPath using the
// session preset.
func (a *App) CompressTo(sourcePath, outputPath string) error {
	if sourcePath == "" {
		return types.NewAppError(types.ErrInvalidInput, "no document selected", nil)
	}
	preset := a.GetCompressionPreset()

	err := a.runner.Start(a.ctxOrBackground(), types.TaskCompress, "Compressing PDF...",
		func(ctx context.Context) (*types.TaskResult, error) {
			if err := a.compressor.Compress(ctx, sourcePath, outputPath, preset); err != nil {
				return nil, err
			}
			a.rememberOutputDir(filepath.Dir(outputPath))
			return &types.TaskResult{
				Success:    true,
				Message:    "Compression successful.",
				OutputPath: outputPath,
			}, nil
		})
	if err == nil {
		a.safeEmit(EventTaskStarted, types.TaskCompress)
	}
	return err
}

// SaveReorderedTo resolves the reorder list and writes the remaining pages,
// in current order, to outputPath.
func (a *App) SaveReorderedTo(outputPath string) error {
	sourcePath := a.pages.Path()
	if sourcePath == "" {
		return types.NewAppError(types.ErrInvalidInput, "no document loaded for reordering", nil)
	}
	order := a.pages.Resolve()

	err := a.runner.Start(a.ctxOrBackground(), types.TaskReorder, "Saving reordered PDF...",
		func(ctx context.Context) (*types.TaskResult, error) {
			if err := docops.ExtractOrdered(sourcePath, outputPath, order); err != nil {
				return nil, err
			}
			a.rememberOutputDir(filepath.Dir(outputPath))
			return &types.TaskResult{
				Success:    true,
				Message:    "Successfully reordered pages.",
				OutputPath: outputPath,
				PageCount:  len(order),
			}, nil
		})
	if err == nil {
		a.safeEmit(EventTaskStarted, types.TaskReorder)
	}
	return err
}

// --- Previews ---

// RenderPagePreview renders one page through the bounded preview pool and
// returns it as a base64 PNG for direct use in an <img> tag. Failures are
// returned as errors; the frontend substitutes a placeholder icon.
func (a *App) RenderPagePreview(path string, pageIndex, targetWidth int) (string, error) {
	if a.pool == nil {
		return "", types.NewAppError(types.ErrInternal, "preview pool not initialized", nil)
	}
	if targetWidth <= 0 {
		targetWidth = PagePreviewWidth
	}

	data, err := a.RenderPagePreviewRaw(a.ctxOrBackground(), path, pageIndex, targetWidth)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// RenderPagePreviewRaw renders one page through the bounded preview pool
// and returns raw PNG bytes. Used by the asset-server preview handler.
func (a *App) RenderPagePreviewRaw(ctx context.Context, path string, pageIndex, targetWidth int) ([]byte, error) {
	if a.pool == nil {
		return nil, types.NewAppError(types.ErrInternal, "preview pool not initialized", nil)
	}

	res := <-a.pool.Submit(ctx, path, pageIndex, targetWidth)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Data, nil
}

// --- Dialogs ---

var pdfFilter = []runtime.FileFilter{
	{DisplayName: "PDF documents (*.pdf)", Pattern: "*.pdf"},
}

// OpenFilesDialog shows a multi-select open dialog filtered to PDF files.
func (a *App) OpenFilesDialog() ([]string, error) {
	if !a.isWailsRuntime {
		return nil, types.NewAppError(types.ErrInternal, "dialogs require the GUI runtime", nil)
	}
	return runtime.OpenMultipleFilesDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Select PDF files",
		Filters: pdfFilter,
	})
}

// SaveOutputDialog shows a save dialog seeded with defaultName, starting in
// the directory of the last successful output.
func (a *App) SaveOutputDialog(defaultName string) (string, error) {
	if !a.isWailsRuntime {
		return "", types.NewAppError(types.ErrInternal, "dialogs require the GUI runtime", nil)
	}
	return runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:            "Save PDF",
		DefaultDirectory: a.GetLastOutputDir(),
		DefaultFilename:  defaultName,
		Filters:          pdfFilter,
	})
}

// SelectOutputDirDialog shows a directory picker, used for split output.
func (a *App) SelectOutputDirDialog() (string, error) {
	if !a.isWailsRuntime {
		return "", types.NewAppError(types.ErrInternal, "dialogs require the GUI runtime", nil)
	}
	return runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title:            "Select output directory",
		DefaultDirectory: a.GetLastOutputDir(),
	})
}

// --- helpers ---

// ctxOrBackground returns the Wails context when available. Tests construct
// the App without startup, where ctx is nil.
func (a *App) ctxOrBackground() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// rememberOutputDir persists the directory of the last successful output so
// the next save dialog can start there.
func (a *App) rememberOutputDir(dir string) {
	if a.config == nil || dir == "" || dir == "." {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		return
	}
	if err := a.config.SetLastOutputDir(dir); err != nil {
		logger.Warn("failed to remember output directory", logger.Err(err))
	}
}

// GetLastOutputDir returns the directory of the last successful output.
func (a *App) GetLastOutputDir() string {
	if a.config == nil {
		return ""
	}
	return a.config.GetLastOutputDir()
}
