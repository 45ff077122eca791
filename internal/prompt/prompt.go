package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"viddl/internal/tasks"
)

// Usage is printed when interactive mode starts.
const Usage = `viddl - download videos with yt-dlp and shrink them with ffmpeg

Usage:
  viddl <url> [size] [2fa] [<url> [size] [2fa]]...
  viddl                       process urls.txt in the download directory,
                              or prompt when it is absent

Batch file lines:
  https://example.com/video 5M 123456

Size formats: 5000K / 5.6M / 1G / 8mbit
`

// Handler runs one entered batch.
type Handler func(ctx context.Context, batch []tasks.Task)

var quitWords = map[string]struct{}{"q": {}, "quit": {}, "exit": {}}

// IsQuit reports whether line ends the session.
func IsQuit(line string) bool {
	_, ok := quitWords[strings.ToLower(strings.TrimSpace(line))]
	return ok
}

// Run prints the banner and reads lines until a quit word, end of input or
// context cancellation. Each line with at least one URL is passed to handle.
func Run(ctx context.Context, reader LineReader, out io.Writer, handle Handler) error {
	fmt.Fprint(out, Usage)
	fmt.Fprintln(out, "Enter URLs (or 'quit'):")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if IsQuit(line) {
			return nil
		}
		batch := tasks.ParseArgs(strings.Fields(line))
		if len(batch) == 0 {
			fmt.Fprintln(out, "Invalid input.")
			continue
		}
		handle(ctx, batch)
	}
}
