// Package units resolves spectral unit names and converts bin grids between
// energy (keV) and wavelength (Angstrom).
//
// Only the two axes used by X-ray spectrometers are supported. All accepted
// spellings live in a single alias table; everything else is rejected with
// [ErrUnknownUnit].
package units
