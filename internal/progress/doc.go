// Package progress turns ffmpeg "-progress pipe:1" output into smooth,
// monotonic progress reports.
//
// A [StageTracker] follows one external-process invocation (a stage) and
// maps its stage-local ratio into a window of the task's progress bar. When
// ffmpeg goes quiet the tracker extrapolates a synthetic ratio from wall
// time so the bar keeps moving. A [TaskEmitter] maps the task-local value
// into the batch-overall value and gates every delivery on pause/cancel.
package progress
