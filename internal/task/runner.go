// Package task runs document operations on a background goroutine, one at a
// time. The runner owns the single-operation gate explicitly; there is no
// ambient processing flag anywhere else in the application.
package task

import (
	"context"
	"sync"

	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/types"
)

// Func is one unit of background work. It returns the task's outcome or an
// error; errors never propagate past the runner, they become a failed
// result with a one-line message.
type Func func(ctx context.Context) (*types.TaskResult, error)

// CompletionCallback receives the result of a finished task. It is invoked
// exactly once per started task, from the task's goroutine; the caller is
// responsible for marshalling onto the UI thread (the app layer does this
// with a frontend event).
type CompletionCallback func(result types.TaskResult)

// Runner executes at most one task at a time. Its state machine is
// idle -> running -> {succeeded, failed} -> idle; starting a task while one
// is running is rejected with TASK_BUSY and no state change.
type Runner struct {
	mu         sync.RWMutex
	gen        uint64 // incremented per started task; guards the idle reset
	status     types.TaskStatus
	lastResult *types.TaskResult
	onDone     CompletionCallback
}

// NewRunner creates an idle Runner.
func NewRunner() *Runner {
	return &Runner{
		status: types.TaskStatus{Phase: types.TaskIdle},
	}
}

// SetCompletionCallback sets the callback invoked when a task finishes.
func (r *Runner) SetCompletionCallback(cb CompletionCallback) {
	r.mu.Lock()
	r.onDone = cb
	r.mu.Unlock()
}

// Status returns a snapshot of the runner's state.
func (r *Runner) Status() types.TaskStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Busy reports whether a task is currently running.
func (r *Runner) Busy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status.Phase == types.TaskRunning
}

// LastResult returns the result of the most recently finished task, or nil.
func (r *Runner) LastResult() *types.TaskResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastResult
}

// Start launches fn on a background goroutine. message is the short text
// shown while the task runs ("Merging PDFs..."). If a task is already
// running, Start returns TASK_BUSY and changes nothing.
func (r *Runner) Start(ctx context.Context, kind types.TaskKind, message string, fn Func) error {
	r.mu.Lock()
	if r.status.Phase == types.TaskRunning {
		running := r.status.Kind
		r.mu.Unlock()
		logger.Warn("task rejected, another is running",
			logger.String("requested", string(kind)),
			logger.String("running", string(running)))
		return types.NewAppError(types.ErrTaskBusy, "a task is already in progress", nil)
	}
	r.status = types.TaskStatus{Kind: kind, Phase: types.TaskRunning, Message: message}
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	logger.Info("task started", logger.String("kind", string(kind)))

	go r.run(ctx, gen, kind, fn)
	return nil
}

func (r *Runner) run(ctx context.Context, gen uint64, kind types.TaskKind, fn Func) {
	result, err := fn(ctx)
	if err != nil {
		result = &types.TaskResult{
			Kind:    kind,
			Success: false,
			Message: err.Error(),
		}
		logger.Error("task failed", err, logger.String("kind", string(kind)))
	} else {
		if result == nil {
			result = &types.TaskResult{Kind: kind, Success: true, Message: "Done."}
		}
		result.Kind = kind
		logger.Info("task finished",
			logger.String("kind", string(kind)),
			logger.Bool("success", result.Success))
	}

	phase := types.TaskSucceeded
	if !result.Success {
		phase = types.TaskFailed
	}

	r.mu.Lock()
	r.status = types.TaskStatus{Kind: kind, Phase: phase, Message: result.Message}
	r.lastResult = result
	cb := r.onDone
	r.mu.Unlock()

	if cb != nil {
		cb(*result)
	}

	// Every task returns the runner to idle, success or not. The callback
	// (or the re-enabled UI) may have started the next task already; the
	// generation check makes sure the reset never clobbers its status.
	r.mu.Lock()
	if r.gen == gen {
		r.status = types.TaskStatus{Phase: types.TaskIdle}
	}
	r.mu.Unlock()
}
