// Package counts computes summary statistics of binned count histograms:
// totals, extrema, signal-to-noise and the counts-weighted centroid, spread
// and quantiles of the bin positions.
package counts
