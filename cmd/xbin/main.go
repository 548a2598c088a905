// Command xbin groups and bins X-ray count spectra.
//
// Usage:
//
//	xbin [--verbose] [--log-mode mode] <command> [flags]
//
// Examples:
//
//	xbin counts obs_heg_m1.pha --min 0.5 --max 7 --unit keV --group mincounts --value 20
//	xbin counts src.pha --background bkg.pha --telescope ACIS --bkgsub
//	xbin plot obs_heg_m1.pha -o counts.png --xunit Angstrom --per-bin=false
//	xbin run --config session.yaml
//	xbin list --store products.db
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
