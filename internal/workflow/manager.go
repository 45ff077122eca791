package workflow

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"viddl/internal/encoding"
	"viddl/internal/logging"
	"viddl/internal/services"
	"viddl/internal/tasklog"
	"viddl/internal/tasks"
)

// DuplicatePrefix starts the run log line written for a repeated URL.
const DuplicatePrefix = "[SKIP] Duplicate URL: "

// Options configures a Manager.
type Options struct {
	// Workers bounds concurrent tasks; zero or less uses runtime.NumCPU.
	Workers    int
	Downloader Downloader
	Reencoder  Reencoder
	// Section serializes re-encodes. A private section is created when nil.
	Section *ExclusiveSection
	Sink    *tasklog.Sink
	Logger  *slog.Logger
}

// Manager executes batches of tasks.
type Manager struct {
	workers    int
	downloader Downloader
	reencoder  Reencoder
	section    *ExclusiveSection
	sink       *tasklog.Sink
	logger     *slog.Logger
}

// NewManager constructs a Manager from opts.
func NewManager(opts Options) *Manager {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	section := opts.Section
	if section == nil {
		section = NewExclusiveSection()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		workers:    workers,
		downloader: opts.Downloader,
		reencoder:  opts.Reencoder,
		section:    section,
		sink:       opts.Sink,
		logger:     logging.NewComponentLogger(logger, "workflow"),
	}
}

// Dedup keeps the first task for each URL and returns the later repeats
// separately, both in input order.
func Dedup(requested []tasks.Task) (unique, duplicates []tasks.Task) {
	seen := make(map[string]struct{}, len(requested))
	for _, task := range requested {
		if _, ok := seen[task.URL]; ok {
			duplicates = append(duplicates, task)
			continue
		}
		seen[task.URL] = struct{}{}
		unique = append(unique, task)
	}
	return unique, duplicates
}

// Run executes requested and blocks until every task has finished. notes are
// appended to the sink after the tasks, in order.
func (m *Manager) Run(ctx context.Context, requested []tasks.Task, notes []string) Summary {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, m.logger)

	unique, duplicates := Dedup(requested)
	summary := Summary{
		RunID:   runID,
		Results: make([]Result, len(unique)),
		Notes:   len(notes),
	}
	for _, dup := range duplicates {
		summary.Duplicates = append(summary.Duplicates, dup.URL)
		m.writeLine(logger, DuplicatePrefix+dup.URL)
	}

	workers := min(m.workers, len(unique))
	logger.Info("run started",
		logging.Int("tasks", len(unique)),
		logging.Int("duplicates", len(duplicates)),
		logging.Int("workers", workers),
	)

	started := time.Now()
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				summary.Results[idx] = m.runTask(ctx, unique[idx])
			}
		}()
	}
	for idx := range unique {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, note := range notes {
		m.writeLine(logger, note)
	}

	logger.Info("run finished",
		logging.Int("tasks", len(unique)),
		logging.Int("failed", summary.Failed()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return summary
}

func (m *Manager) runTask(ctx context.Context, task tasks.Task) Result {
	ctx = services.WithTaskURL(ctx, task.URL)
	logger := logging.WithContext(ctx, m.logger)
	started := time.Now()

	var buf tasklog.Buffer
	result := Result{URL: task.URL, Size: task.Size}
	defer func() {
		if err := m.sink.Flush(&buf); err != nil {
			logging.WarnWithContext(logger, "failed to write task log", "task_log_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "task status missing from run log"),
			)
		}
	}()

	path, err := m.downloader.Fetch(services.WithStage(ctx, "download"), task, &buf)
	if err != nil {
		result.fail(StatusDownloadFailed, err, started)
		logger.Error("download failed", logging.Error(err), logging.String("error_kind", result.ErrorKind))
		return result
	}
	result.Path = path

	if !task.WantsReencode() {
		result.Status = StatusDownloaded
		result.Duration = time.Since(started)
		return result
	}

	var (
		outcome   encoding.Result
		encodeErr error
	)
	m.section.Do(func() {
		outcome, encodeErr = m.reencoder.Reencode(services.WithStage(ctx, "reencode"), path, task.Size)
	})
	if encodeErr != nil {
		buf.Printf("%s FAILED: re-encode: %v", task.URL, encodeErr)
		result.fail(StatusReencodeFailed, encodeErr, started)
		logger.Error("re-encode failed", logging.Error(encodeErr), logging.String("error_kind", result.ErrorKind))
		return result
	}

	result.Outcome = outcome.Outcome
	result.FinalBits = outcome.FinalBits
	result.Status = StatusKept
	if outcome.Outcome == encoding.OutcomeReplaced {
		result.Status = StatusReencoded
	}
	result.Duration = time.Since(started)
	return result
}

func (r *Result) fail(status Status, err error, started time.Time) {
	r.Status = status
	r.Err = err
	r.ErrorKind = services.Kind(err)
	r.Duration = time.Since(started)
}

func (m *Manager) writeLine(logger *slog.Logger, line string) {
	if err := m.sink.WriteLine(line); err != nil {
		logging.WarnWithContext(logger, "failed to write run log", "run_log_write_failed",
			logging.Error(err),
			logging.String("line", line),
			logging.String(logging.FieldImpact, "entry missing from run log"),
		)
	}
}
