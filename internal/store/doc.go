// Package store keeps binned count histograms in a SQLite database so that
// grouping runs can be compared later. Bin arrays are stored as
// little-endian float64 blobs.
package store
