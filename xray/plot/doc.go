// Package plot renders binned count histograms with gonum/plot.
//
// Histograms are drawn as a post-step line over the lower bin edges with
// symmetric error bars at the bin midpoints, either as counts per bin or as
// counts per unit of the x axis.
package plot
