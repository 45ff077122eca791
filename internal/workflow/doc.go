// Package workflow runs a batch of download tasks.
//
// The Manager deduplicates the batch by URL, fans the unique tasks out over a
// fixed worker pool and, for tasks carrying a size budget, hands the
// downloaded file to the re-encoder inside an ExclusiveSection so that at most
// one transcode runs at a time while fetches continue to overlap.
//
// Every task writes its status lines into a private tasklog.Buffer that is
// flushed to the shared sink in one write when the task finishes, keeping
// blocks from concurrent tasks from interleaving. Failures never abort
// sibling tasks and nothing is retried.
package workflow
