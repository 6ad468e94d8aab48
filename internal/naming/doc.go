// Package naming derives output stems from input paths, lays out the output
// tree, and resolves stem collisions within a run.
//
// Layout under the output root:
//
//	gif/<stem>.gif
//	apng/<stem>.png
//	png_sequence/<stem>/<stem>_%04d.png
package naming
