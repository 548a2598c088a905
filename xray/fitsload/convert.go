package fitsload

import (
	"fmt"
	"reflect"
)

// toFloat64 converts a scanned FITS cell or header value to float64.
// Pointers are dereferenced.
func toFloat64(v any) (float64, error) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, fmt.Errorf("%w: nil", ErrNotNumeric)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return 0, fmt.Errorf("%w: nil", ErrNotNumeric)
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}
