// Package logging builds the slog loggers used across viddl.
//
// Console output is a single line per record with the component and task
// URL in the prefix; JSON output is one object per line. WithContext tags a
// logger with the run ID, task URL and stage carried by a context.
package logging
