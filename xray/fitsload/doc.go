// Package fitsload reads source and background count spectra from FITS
// table extensions.
//
// Source spectra need BIN_LO, BIN_HI and COUNTS columns. Background spectra
// depend on the telescope: HETG files provide BACKGROUND_UP and
// BACKGROUND_DOWN, other instruments COUNTS. Wavelength grids are converted
// to keV unless [WithNativeUnits] is given.
//
//	src, err := fitsload.OpenSpectrum("heg_m1.pha")
//	bkg, err := fitsload.OpenBackground("heg_m1_bkg.pha", fitsload.WithTelescope(fitsload.TelescopeHETG))
package fitsload
