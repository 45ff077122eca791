// Package prompt implements interactive mode: a line-oriented loop that
// parses each entered line with the argument grammar and runs it as its own
// batch.
//
// On a terminal, lines are read through golang.org/x/term, which provides
// editing and history. Any other input is read line by line.
package prompt
