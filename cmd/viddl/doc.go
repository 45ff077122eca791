// Package main hosts the viddl CLI entrypoint and command graph.
//
// Invoked with URLs, viddl downloads them immediately. Invoked bare, it
// claims the batch file in the download directory when one exists and
// otherwise drops into an interactive prompt. The plan, status and config
// subcommands expose the re-encode planner, readiness checks and
// configuration scaffolding.
package main
