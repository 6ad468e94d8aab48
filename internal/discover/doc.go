// Package discover expands command-line inputs into conversion tasks.
//
// Files are selected by extension. A directory whose images form a numbered
// run (shot_0001.png, shot_0002.png, ...) becomes one frame-sequence task;
// any other directory is walked for media files. Sources that cannot be
// probed are reported and skipped, never fatal.
package discover
