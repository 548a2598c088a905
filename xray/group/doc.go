// Package group computes channel grouping ids for binned spectra.
//
// A grouping is an integer id per channel. Channels sharing an id form one
// analysis bin and must be contiguous. An all-zero grouping means that no
// grouping has been applied.
//
// Two policies are provided:
//
//   - [Channels]: fixed factor, n channels per group
//   - [MinCounts]: smallest groups reaching a minimum number of counts
//
// # Usage
//
//	ids, err := group.MinCounts(counts, 20)
//	if err != nil {
//		return err
//	}
package group
