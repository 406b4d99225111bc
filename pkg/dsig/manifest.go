// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/beevik/etree"
	"github.com/containerd/log"
)

var errNoReferences = errors.New("no references specified")

// Manifest is a list of References.
type Manifest struct {
	id   string
	refs []*Reference
}

// ManifestOpt are used to configure a Manifest.
type ManifestOpt func(m *Manifest) error

// OptManifestID sets the Id of the Manifest.
func OptManifestID(id string) ManifestOpt {
	return func(m *Manifest) error {
		m.id = id
		return nil
	}
}

// NewManifest returns a Manifest containing refs, configured by opts.
func NewManifest(refs []*Reference, opts ...ManifestOpt) (*Manifest, error) {
	if len(refs) == 0 {
		return nil, &StructuralError{Err: errNoReferences}
	}

	m := Manifest{refs: slices.Clone(refs)}

	for _, opt := range opts {
		if err := opt(&m); err != nil {
			return nil, err
		}
	}

	return &m, nil
}

// UnmarshalManifest parses the Manifest element el. Each Reference is parsed according to cfg.
func UnmarshalManifest(el *etree.Element, cfg Config) (*Manifest, error) {
	if err := expectElement(el, "Manifest"); err != nil {
		return nil, err
	}

	var refs []*Reference
	for _, child := range el.ChildElements() {
		r, err := UnmarshalReference(child, cfg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}

	return NewManifest(refs, OptManifestID(el.SelectAttrValue("Id", "")))
}

// ID returns the Id of m, or the empty string if none is set.
func (m *Manifest) ID() string { return m.id }

// References returns the References of m.
func (m *Manifest) References() []*Reference { return slices.Clone(m.refs) }

// Marshal adds a Manifest element for m to parent.
func (m *Manifest) Marshal(parent *etree.Element, prefix string) *etree.Element {
	el := parent.CreateElement(qualify(prefix, "Manifest"))
	declareNamespace(el, prefix, Namespace)

	if m.id != "" {
		el.CreateAttr("Id", m.id)
	}

	for _, r := range m.refs {
		r.Marshal(el, prefix)
	}

	return el
}

// DigestAll digests each Reference of m in order, stopping at the first failure.
func (m *Manifest) DigestAll(ctx context.Context) error {
	for i, r := range m.refs {
		if _, err := r.Digest(ctx); err != nil {
			return fmt.Errorf("dsig: reference %v (%q): %w", i, r.URI(), err)
		}
	}
	return nil
}

// ReferenceResult is the outcome of validating a Reference.
type ReferenceResult struct {
	Reference *Reference
	Valid     bool
	Err       error
}

// ValidateAll validates each Reference of m. Every Reference is validated, regardless of the
// outcome for other References.
func (m *Manifest) ValidateAll(ctx context.Context) []ReferenceResult {
	results := make([]ReferenceResult, 0, len(m.refs))

	for _, r := range m.refs {
		ok, err := r.Validate(ctx)

		log.G(ctx).WithFields(log.Fields{
			"uri":   r.URI(),
			"valid": ok,
		}).Debug("Reference validated")

		results = append(results, ReferenceResult{Reference: r, Valid: ok, Err: err})
	}

	return results
}

// AllValid reports whether every result in rs is valid, without error.
func AllValid(rs []ReferenceResult) bool {
	for _, r := range rs {
		if !r.Valid || r.Err != nil {
			return false
		}
	}
	return true
}
