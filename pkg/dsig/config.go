// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

// MaxTransforms is the maximum number of transforms in a Reference parsed under secure
// validation.
const MaxTransforms = 5

// Config controls how References are parsed, digested and validated. The zero value is usable.
type Config struct {
	// SecureValidation limits the number of transforms in a parsed Reference to MaxTransforms,
	// and rejects weak digest algorithms.
	SecureValidation bool

	// UseC14N11 selects C14N 1.1 rather than C14N 1.0 when a tree must be canonicalized before
	// it is digested.
	UseC14N11 bool

	// CacheReference retains the dereferenced data and the digest input of the most recent
	// digest or validation.
	CacheReference bool

	// Dereferencer resolves Reference URIs. If nil, a Reference parsed from a document resolves
	// same-document URIs against that document.
	Dereferencer Dereferencer

	// Transforms provides transform implementations. If nil, the default registry is used.
	Transforms TransformService

	// Digests provides hash accumulators. If nil, the crypto.Hash based default is used.
	Digests DigestService
}

func (c Config) transforms() TransformService {
	if c.Transforms == nil {
		return defaultTransforms
	}
	return c.Transforms
}

func (c Config) digests() DigestService {
	if c.Digests == nil {
		return defaultDigests
	}
	return c.Digests
}
