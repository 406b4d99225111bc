// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"errors"
	"fmt"
)

var (
	errNilDigestMethod      = errors.New("digest method must be set")
	errTooManyTransforms    = errors.New("too many transforms for secure validation")
	errForbiddenAlgorithm   = errors.New("algorithm forbidden by secure validation")
	errUnexpectedElement    = errors.New("unexpected element")
	errMissingElement       = errors.New("missing element")
	errMissingAttribute     = errors.New("missing attribute")
	errInvalidURI           = errors.New("invalid URI")
	errDigestValueMalformed = errors.New("digest value malformed")
	errUnrecognizedData     = errors.New("unrecognized data type")
	errNoDereferencer       = errors.New("no dereferencer configured")
	errUnsupportedURI       = errors.New("unsupported URI")
	errIDNotFound           = errors.New("element ID not found")
	errDuplicateID          = errors.New("duplicate element ID")
)

// StructuralError records malformed input to, or an invalid value for, a Reference or one of its
// children.
type StructuralError struct {
	Msg string // Description of the problem.
	Err error  // Wrapped error.
}

func (e *StructuralError) Error() string {
	switch {
	case e.Msg == "" && e.Err == nil:
		return "dsig: structural error"
	case e.Err == nil:
		return "dsig: " + e.Msg
	case e.Msg == "":
		return "dsig: " + e.Err.Error()
	}
	return fmt.Sprintf("dsig: %v: %v", e.Msg, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Is compares e against target. If target is a StructuralError with no wrapped error, true is
// returned.
func (e *StructuralError) Is(target error) bool {
	t, ok := target.(*StructuralError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}

// DereferenceError records a failure to resolve the URI of a Reference.
type DereferenceError struct {
	URI string // URI being dereferenced.
	Err error  // Wrapped error.
}

func (e *DereferenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dsig: failed to dereference %q", e.URI)
	}
	return fmt.Sprintf("dsig: failed to dereference %q: %v", e.URI, e.Err)
}

func (e *DereferenceError) Unwrap() error { return e.Err }

// Is compares e against target. If target is a DereferenceError with no wrapped error, true is
// returned.
func (e *DereferenceError) Is(target error) bool {
	t, ok := target.(*DereferenceError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}

// AlgorithmUnavailableError records a request for a digest or transform algorithm that is not
// available.
type AlgorithmUnavailableError struct {
	Algorithm string // Algorithm identifier.
	Err       error  // Wrapped error, if any.
}

func (e *AlgorithmUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dsig: algorithm %q unavailable", e.Algorithm)
	}
	return fmt.Sprintf("dsig: algorithm %q unavailable: %v", e.Algorithm, e.Err)
}

func (e *AlgorithmUnavailableError) Unwrap() error { return e.Err }

// Is compares e against target. If target is an AlgorithmUnavailableError with no algorithm set,
// true is returned.
func (e *AlgorithmUnavailableError) Is(target error) bool {
	t, ok := target.(*AlgorithmUnavailableError)
	if !ok {
		return false
	}
	return t.Algorithm == "" || t.Algorithm == e.Algorithm
}

// TransformError records a failure while applying a transform.
type TransformError struct {
	Algorithm string // Transform algorithm.
	Err       error  // Wrapped error.
}

func (e *TransformError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dsig: transform %q failed", e.Algorithm)
	}
	return fmt.Sprintf("dsig: transform %q failed: %v", e.Algorithm, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// Is compares e against target. If target is a TransformError with no wrapped error, true is
// returned.
func (e *TransformError) Is(target error) bool {
	t, ok := target.(*TransformError)
	if !ok {
		return false
	}
	return t.Err == nil || errors.Is(e.Err, t.Err)
}
