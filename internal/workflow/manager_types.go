package workflow

import (
	"context"
	"io"
	"time"

	"viddl/internal/encoding"
	"viddl/internal/tasks"
)

// Downloader fetches a task and returns the local file path. Failure details
// meant for the run log are written to log.
type Downloader interface {
	Fetch(ctx context.Context, task tasks.Task, log io.Writer) (string, error)
}

// Reencoder shrinks a downloaded file towards a size token.
type Reencoder interface {
	Reencode(ctx context.Context, path, sizeToken string) (encoding.Result, error)
}

// Status is the terminal state of one task.
type Status string

const (
	// StatusDownloaded means the fetch succeeded and no size was requested.
	StatusDownloaded Status = "downloaded"
	// StatusReencoded means the file was replaced by a smaller encode.
	StatusReencoded Status = "reencoded"
	// StatusKept means a size was requested but the original was kept.
	StatusKept Status = "kept"
	// StatusDownloadFailed means the fetch did not produce a file.
	StatusDownloadFailed Status = "download_failed"
	// StatusReencodeFailed means the download succeeded but re-encoding did not.
	StatusReencodeFailed Status = "reencode_failed"
)

// Failed reports whether the status is a failure.
func (s Status) Failed() bool {
	return s == StatusDownloadFailed || s == StatusReencodeFailed
}

// Result describes one finished task.
type Result struct {
	URL       string
	Size      string
	Path      string
	Status    Status
	Outcome   encoding.Outcome
	FinalBits uint64
	Err       error
	ErrorKind string
	Duration  time.Duration
}

// Summary aggregates a run.
type Summary struct {
	RunID      string
	Results    []Result
	Duplicates []string
	Notes      int
}

// Failed counts failed tasks.
func (s Summary) Failed() int {
	count := 0
	for _, r := range s.Results {
		if r.Status.Failed() {
			count++
		}
	}
	return count
}
