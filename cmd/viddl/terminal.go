package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/text"

	"viddl/internal/logging"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

func isTerminal(writer io.Writer) bool {
	return logging.IsTerminal(writer)
}

func statusLabel(kind statusKind, colorize bool) string {
	var label string
	var color text.Color
	switch kind {
	case statusOK:
		label, color = "OK", text.FgGreen
	case statusWarn:
		label, color = "WARN", text.FgYellow
	default:
		label, color = "ERROR", text.FgRed
	}
	if !colorize {
		return label
	}
	return color.Sprint(label)
}
