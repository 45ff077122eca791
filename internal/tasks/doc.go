// Package tasks models download requests and the two grammars that produce
// them: batch-file lines and positional command-line arguments.
//
// Both grammars share the same token classifier. A token is a URL when it
// carries an http or https scheme and a size when sizespec resolves it;
// anything else after a URL is a two-factor code.
package tasks
