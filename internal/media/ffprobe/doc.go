// Package ffprobe runs ffprobe and reads the duration and audio bitrate the
// re-encode planner needs.
package ffprobe
