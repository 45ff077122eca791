// Package download drives yt-dlp through its two-phase contract: a
// metadata-only lookup that names the output file, followed by the fetch
// itself when that file is not already present.
//
// Failures are written to the task's log buffer in the run log format and
// also returned as classified errors so the scheduler can report them.
package download
