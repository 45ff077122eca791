package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Prompt is printed before each line.
const Prompt = "> "

// LineReader yields one input line per call and io.EOF when input ends.
type LineReader interface {
	ReadLine() (string, error)
}

// NewLineReader picks the terminal editor when in is a terminal and a plain
// scanner otherwise.
func NewLineReader(in *os.File, out io.Writer) LineReader {
	fd := in.Fd()
	if isatty.IsTerminal(fd) {
		return newTermReader(int(fd), in, out)
	}
	return NewScannerReader(in, out)
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerReader reads lines from in, printing Prompt to out first.
func NewScannerReader(in io.Reader, out io.Writer) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *scannerReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, Prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

type termReader struct {
	fd       int
	terminal *term.Terminal
}

func newTermReader(fd int, in io.Reader, out io.Writer) *termReader {
	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	return &termReader{fd: fd, terminal: term.NewTerminal(rw, Prompt)}
}

// ReadLine switches the terminal to raw mode only while a line is being
// edited, so subprocess output between prompts renders normally.
func (r *termReader) ReadLine() (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(r.fd, state) }()
	return r.terminal.ReadLine()
}
