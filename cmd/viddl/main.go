package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	installInterruptHandler(os.Stderr)
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// installInterruptHandler terminates the process on SIGINT or SIGTERM
// without waiting for running tasks. Subprocesses are left to the OS.
func installInterruptHandler(w io.Writer) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		fmt.Fprintln(w, "\n[CTRL+C]")
		os.Exit(1)
	}()
}
