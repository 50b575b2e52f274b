// Package types defines core data types and enums shared across the PDF
// workbench application.
package types

// Compression presets understood by Ghostscript's -dPDFSETTINGS flag.
// The preset controls the tool's internal quality/downsampling tradeoff;
// this application passes it through verbatim.
const (
	PresetScreen   = "screen"
	PresetEbook    = "ebook"
	PresetPrinter  = "printer"
	PresetPrepress = "prepress"
)

// DefaultPreset is the preset selected when none is configured.
const DefaultPreset = PresetEbook

// Presets returns the recognized compression presets in display order.
func Presets() []string {
	return []string{PresetScreen, PresetEbook, PresetPrinter, PresetPrepress}
}

// ValidPreset reports whether preset is one of the recognized presets.
func ValidPreset(preset string) bool {
	switch preset {
	case PresetScreen, PresetEbook, PresetPrinter, PresetPrepress:
		return true
	}
	return false
}

// Config holds the persisted application configuration.
type Config struct {
	CompressionPreset  string `json:"compression_preset"`   // seeds the session preset
	GhostscriptBinary  string `json:"ghostscript_binary"`   // empty means look up "gs" on PATH
	ToolTimeoutSeconds int    `json:"tool_timeout_seconds"` // bound on external tool runs
	PreviewDPI         int    `json:"preview_dpi"`
	PreviewWorkers     int    `json:"preview_workers"` // size of the preview worker pool
	WorkDirectory      string `json:"work_directory"`
	LastOutputDir      string `json:"last_output_dir"` // last directory an output was saved to
}

// TaskKind identifies one of the document operations the task runner executes.
type TaskKind string

const (
	TaskMerge    TaskKind = "merge"
	TaskSplit    TaskKind = "split"
	TaskCompress TaskKind = "compress"
	TaskReorder  TaskKind = "reorder"
)

// TaskPhase is the task runner's state. Exactly one task may be running at a
// time; every task returns the runner to TaskIdle.
type TaskPhase string

const (
	TaskIdle      TaskPhase = "idle"
	TaskRunning   TaskPhase = "running"
	TaskSucceeded TaskPhase = "succeeded"
	TaskFailed    TaskPhase = "failed"
)

// TaskStatus is a snapshot of the task runner's state.
type TaskStatus struct {
	Kind    TaskKind  `json:"kind,omitempty"`
	Phase   TaskPhase `json:"phase"`
	Message string    `json:"message"`
}

// TaskResult is the outcome of one task, delivered exactly once per started
// task. Message is the one-line human-readable text shown to the user.
type TaskResult struct {
	Kind       TaskKind `json:"kind"`
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	OutputPath string   `json:"output_path,omitempty"`
	PageCount  int      `json:"page_count,omitempty"`
}

// DocumentInfo describes a loaded PDF for display in the file list.
type DocumentInfo struct {
	Path      string `json:"path"`
	PageCount int    `json:"page_count"`
	SizeBytes int64  `json:"size_bytes"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
}

// PageEntry is one entry of the reorder list: the page's index in the source
// document plus a soft-delete flag. Deleted entries stay in the list so they
// can be restored; they are only excluded when the list is resolved.
type PageEntry struct {
	PageIndex int  `json:"page_index"`
	Deleted   bool `json:"deleted"`
}

// ErrorCode classifies application errors.
type ErrorCode string

const (
	ErrOperation     ErrorCode = "OPERATION_ERROR"      // document read/write/library failure
	ErrToolMissing   ErrorCode = "TOOL_MISSING"         // external tool not found on PATH
	ErrToolExecution ErrorCode = "TOOL_EXECUTION_ERROR" // external tool exited non-zero or timed out
	ErrEncrypted     ErrorCode = "ENCRYPTED_DOCUMENT"   // source PDF is password protected
	ErrEmptyDocument ErrorCode = "EMPTY_DOCUMENT"       // source PDF has zero pages
	ErrInvalidIndex  ErrorCode = "INVALID_PAGE_INDEX"   // page index out of range
	ErrTaskBusy      ErrorCode = "TASK_BUSY"            // a task is already in progress
	ErrConfig        ErrorCode = "CONFIG_ERROR"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrInternal      ErrorCode = "INTERNAL_ERROR"
)

// AppError is the application error type. Code allows callers to branch on
// the error kind without string matching.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode of err if it is (or wraps) an AppError,
// or ErrInternal otherwise.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrInternal
}
