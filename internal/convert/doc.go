// Package convert drives a batch of conversion tasks through ffmpeg.
//
// For each task, for each resolved export format, [Converter.Convert]
// builds one ffmpeg command, runs it under the batch's control signals, and
// maps its progress into a per-task slice of the overall progress bar. Only
// one ffmpeg process is live at a time.
//
// Progress and log messages are delivered to the caller's [Observer] on the
// goroutine running Convert; observers must marshal to their own context.
package convert
