// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package ecpoint implements the ANSI X9.62 uncompressed encoding of elliptic curve points.
package ecpoint

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/apptainer/xmldsig/pkg/curve"
)

// tagUncompressed is the leading byte of an uncompressed point.
const tagUncompressed = 0x04

var (
	errPointEmpty          = errors.New("encoded point is empty")
	errFormatUnsupported   = errors.New("only uncompressed point format supported")
	errFieldSizeMismatch   = errors.New("point does not match field size")
	errCoordinateTooLarge  = errors.New("point coordinates do not match field size")
	errCoordinateNegative  = errors.New("point coordinate is negative")
	errCoordinateUndefined = errors.New("point coordinate is undefined")
)

// Point is an affine elliptic curve point.
type Point struct {
	X *big.Int
	Y *big.Int
}

// EncodingError records a failure to encode a point.
type EncodingError struct {
	Coordinate string // Coordinate name ("x" or "y").
	Expected   int    // Maximum length, in bytes.
	Actual     int    // Actual length, in bytes.
	Err        error  // Wrapped error.
}

func (e *EncodingError) Error() string {
	if e.Err == nil {
		return "ecpoint: encoding failed"
	}
	if e.Expected == 0 && e.Actual == 0 {
		return fmt.Sprintf("ecpoint: %v (%v)", e.Err, e.Coordinate)
	}
	return fmt.Sprintf("ecpoint: %v (%v is %v bytes, field is %v bytes)",
		e.Err, e.Coordinate, e.Actual, e.Expected)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Is compares e against target. If target is an EncodingError with no wrapped error, true is
// returned.
func (e *EncodingError) Is(target error) bool {
	t, ok := target.(*EncodingError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}

// DecodingError records a failure to decode a point.
type DecodingError struct {
	Expected int   // Expected encoded length, in bytes.
	Actual   int   // Actual encoded length, in bytes.
	Err      error // Wrapped error.
}

func (e *DecodingError) Error() string {
	if e.Err == nil {
		return "ecpoint: decoding failed"
	}
	if e.Expected == 0 {
		return fmt.Sprintf("ecpoint: %v", e.Err)
	}
	return fmt.Sprintf("ecpoint: %v (got %v bytes, want %v)", e.Err, e.Actual, e.Expected)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// Is compares e against target. If target is a DecodingError with no wrapped error, true is
// returned.
func (e *DecodingError) Is(target error) bool {
	t, ok := target.(*DecodingError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}

// coordinateSize returns the size in bytes of a coordinate on c.
func coordinateSize(c curve.Curve) int {
	return (c.FieldSize() + 7) >> 3
}

// EncodedLen returns the length of an uncompressed point on c.
func EncodedLen(c curve.Curve) int {
	return 1 + 2*coordinateSize(c)
}

// Encode returns the uncompressed encoding of p for curve c.
//
// If a coordinate of p does not fit within the field size of c, an EncodingError is returned.
func Encode(p Point, c curve.Curve) ([]byte, error) {
	n := coordinateSize(c)

	coords := []struct {
		name string
		v    *big.Int
	}{
		{"x", p.X},
		{"y", p.Y},
	}

	b := make([]byte, 1+2*n)
	b[0] = tagUncompressed

	for i, coord := range coords {
		if coord.v == nil {
			return nil, &EncodingError{Coordinate: coord.name, Err: errCoordinateUndefined}
		}
		if coord.v.Sign() < 0 {
			return nil, &EncodingError{Coordinate: coord.name, Err: errCoordinateNegative}
		}

		if l := len(coord.v.Bytes()); l > n {
			return nil, &EncodingError{
				Coordinate: coord.name,
				Expected:   n,
				Actual:     l,
				Err:        errCoordinateTooLarge,
			}
		}

		coord.v.FillBytes(b[1+i*n : 1+(i+1)*n])
	}

	return b, nil
}

// Decode parses the uncompressed point encoding b for curve c.
//
// Only the uncompressed format is supported. If b is empty, is not in uncompressed format, or
// does not match the field size of c, a DecodingError is returned.
func Decode(b []byte, c curve.Curve) (Point, error) {
	if len(b) == 0 {
		return Point{}, &DecodingError{Err: errPointEmpty}
	}

	if b[0] != tagUncompressed {
		return Point{}, &DecodingError{
			Err: fmt.Errorf("%w: format %#02x", errFormatUnsupported, b[0]),
		}
	}

	// Per ANSI X9.62, an encoded point is a 1 byte type followed by ceiling(log2(p)/8) bytes of
	// x and the same of y.
	n := coordinateSize(c)
	if (len(b)-1)%2 != 0 || (len(b)-1)/2 != n {
		return Point{}, &DecodingError{
			Expected: 1 + 2*n,
			Actual:   len(b),
			Err:      errFieldSizeMismatch,
		}
	}

	return Point{
		X: new(big.Int).SetBytes(b[1 : 1+n]),
		Y: new(big.Int).SetBytes(b[1+n:]),
	}, nil
}
