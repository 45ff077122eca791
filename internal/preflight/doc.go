// Package preflight provides readiness checks for the download directory
// and the external tools viddl drives.
//
// The CLI runs RunAll before a batch starts and logs failed checks as
// warnings; "viddl status" renders the same results as a table.
package preflight
