// Package services defines shared utilities consumed by the download and
// re-encode stages.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, task URLs, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that let the scheduler
//     classify failures (validation vs external tool) without string matching.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
