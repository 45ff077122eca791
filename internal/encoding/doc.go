// Package encoding shrinks downloaded videos to a caller-supplied bit budget.
//
// The Planner probes a file (duration, audio bitrate, size) and Budget turns
// those figures into an audio/video bitrate split that fits the target, or a
// decision that re-encoding is unnecessary or would not help. The Reencoder
// drives ffmpeg with that plan into a temporary sibling file and only
// replaces the original when the result is strictly smaller.
//
// Callers are responsible for serializing Reencode calls; the package itself
// holds no global lock.
package encoding
