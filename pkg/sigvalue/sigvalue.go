// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

/*
Package sigvalue converts DSA-style (r, s) signature values between the DER encoding produced by
most signing primitives, and the fixed-width r||s layout used in XML signatures.

The DER encoding of a signature value is:

	SEQUENCE {
	  INTEGER r,
	  INTEGER s,
	}

The fixed-width layout is the unsigned big-endian magnitude of r, left-padded with zeros to size
bytes, followed by s encoded in the same way.
*/
package sigvalue

import (
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var (
	errInvalidSize     = errors.New("invalid integer size")
	errInvalidLength   = errors.New("invalid fixed-width signature length")
	errInvalidSequence = errors.New("invalid ASN.1 SEQUENCE")
	errInvalidInteger  = errors.New("invalid ASN.1 INTEGER")
	errNegativeInteger = errors.New("negative ASN.1 INTEGER")
	errIntegerTooLarge = errors.New("integer exceeds size")
	errTrailingData    = errors.New("trailing data")
)

// FormatError records a malformed signature value.
type FormatError struct {
	Field    string // Signature component ("r" or "s"), if applicable.
	Expected int    // Expected length, in bytes, if applicable.
	Actual   int    // Actual length, in bytes, if applicable.
	Err      error  // Wrapped error.
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return "sigvalue: invalid signature format"
	}

	msg := "sigvalue: " + e.Err.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("sigvalue: %v: %v", e.Field, e.Err)
	}
	if e.Expected != 0 || e.Actual != 0 {
		msg = fmt.Sprintf("%v (got %v bytes, want %v)", msg, e.Actual, e.Expected)
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is compares e against target. If target is a FormatError with no wrapped error, true is
// returned.
func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}

// maxSize bounds the width of r and s, in bytes.
const maxSize = 1024

// checkSize returns a FormatError if size is not a usable width for r and s.
func checkSize(size int) error {
	if size <= 0 || size > maxSize {
		return &FormatError{Err: fmt.Errorf("%w: %v", errInvalidSize, size)}
	}
	return nil
}

// ToFixedWidth converts the DER encoded signature value der to the fixed-width layout, where r
// and s are each size bytes long.
//
// If der is not a SEQUENCE of two non-negative INTEGERs, or if r or s do not fit within size
// bytes, a FormatError is returned. A FormatError is also returned if size is not positive, or
// exceeds 1024.
func ToFixedWidth(der []byte, size int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	input := cryptobyte.String(der)

	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) {
		return nil, &FormatError{Err: errInvalidSequence}
	}
	if !input.Empty() {
		return nil, &FormatError{Expected: len(der) - len(input), Actual: len(der), Err: errTrailingData}
	}

	var rs [2]*big.Int

	for i, field := range []string{"r", "s"} {
		v := new(big.Int)
		if !seq.ReadASN1Integer(v) {
			return nil, &FormatError{Field: field, Err: errInvalidInteger}
		}

		if v.Sign() < 0 {
			return nil, &FormatError{Field: field, Err: errNegativeInteger}
		}

		if l := len(v.Bytes()); l > size {
			return nil, &FormatError{Field: field, Expected: size, Actual: l, Err: errIntegerTooLarge}
		}

		rs[i] = v
	}

	if !seq.Empty() {
		return nil, &FormatError{Err: fmt.Errorf("%w: in SEQUENCE", errTrailingData)}
	}

	b := make([]byte, 2*size)
	rs[0].FillBytes(b[:size])
	rs[1].FillBytes(b[size:])

	return b, nil
}

// ToMinimal converts the fixed-width signature value b, where r and s are each size bytes long,
// to DER. Each INTEGER is minimally encoded, with a single leading zero byte only where needed to
// keep the value non-negative.
//
// If b is not 2*size bytes long, a FormatError is returned.
func ToMinimal(b []byte, size int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	if len(b) != 2*size {
		return nil, &FormatError{Expected: 2 * size, Actual: len(b), Err: errInvalidLength}
	}

	r := new(big.Int).SetBytes(b[:size])
	s := new(big.Int).SetBytes(b[size:])

	var builder cryptobyte.Builder
	builder.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return builder.Bytes()
}
