// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsigtool

import "errors"

var (
	errCurveUnsupported = errors.New("curve not supported")
	errPointNotOnCurve  = errors.New("point is not on curve")
	errKeyNotEC         = errors.New("public key is not an EC key")
	errNoReferences     = errors.New("no references found")
	errNoManifests      = errors.New("no manifests found")
)

// ErrReferencesInvalid is returned when a document was read, but one or more of its References
// failed validation.
var ErrReferencesInvalid = errors.New("one or more references failed validation")
