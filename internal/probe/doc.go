// Package probe provides ffprobe-based media inspection. One JSON call per
// file yields geometry, frame rate, frame count and duration; a slower
// -count_frames pass runs only when the container does not record a frame
// count.
package probe
