// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Namespace is the XML Signature namespace.
const Namespace = "http://www.w3.org/2000/09/xmldsig#"

// isElement reports whether el is named local in the XML Signature namespace.
func isElement(el *etree.Element, local string) bool {
	return el != nil && el.Tag == local && el.NamespaceURI() == Namespace
}

// expectElement returns a StructuralError unless el is named local in the XML Signature
// namespace.
func expectElement(el *etree.Element, local string) error {
	if el == nil {
		return &StructuralError{Msg: "expected " + local, Err: errMissingElement}
	}
	if !isElement(el, local) {
		return &StructuralError{
			Msg: fmt.Sprintf("invalid element name: %v, expected %v", el.FullTag(), local),
			Err: errUnexpectedElement,
		}
	}
	return nil
}

// UnmarshalReference parses the Reference element el according to cfg.
//
// If cfg.Dereferencer is nil, the returned Reference resolves same-document URIs against the
// document containing el. All parse failures are reported as a StructuralError.
func UnmarshalReference(el *etree.Element, cfg Config) (*Reference, error) {
	if err := expectElement(el, "Reference"); err != nil {
		return nil, err
	}

	if cfg.Dereferencer == nil {
		cfg.Dereferencer = newElementDereferencer(el)
	}

	r := Reference{cfg: cfg}

	children := el.ChildElements()
	next := func() *etree.Element {
		if len(children) == 0 {
			return nil
		}
		el := children[0]
		children = children[1:]
		return el
	}

	child := next()

	if isElement(child, "Transforms") {
		ts, err := unmarshalTransforms(child, cfg)
		if err != nil {
			return nil, err
		}
		r.transforms = ts

		child = next()
	}

	if err := expectElement(child, "DigestMethod"); err != nil {
		return nil, err
	}

	alg := child.SelectAttrValue("Algorithm", "")
	if alg == "" {
		return nil, &StructuralError{Msg: "DigestMethod Algorithm", Err: errMissingAttribute}
	}
	r.dm = DigestMethod(alg)

	if cfg.SecureValidation && forbiddenDigests[r.dm] {
		return nil, &StructuralError{
			Msg: fmt.Sprintf("it is forbidden to use algorithm %v when secure validation is enabled", alg),
			Err: errForbiddenAlgorithm,
		}
	}

	child = next()
	if err := expectElement(child, "DigestValue"); err != nil {
		return nil, err
	}

	dv, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(child.Text()), ""))
	if err != nil {
		return nil, &StructuralError{Msg: errDigestValueMalformed.Error(), Err: err}
	}
	r.digestValue = dv

	if extra := next(); extra != nil {
		return nil, &StructuralError{
			Msg: fmt.Sprintf("unexpected element after DigestValue element: %v", extra.FullTag()),
			Err: errUnexpectedElement,
		}
	}

	if a := el.SelectAttr("URI"); a != nil && a.Space == "" {
		r.uri = a.Value
		r.hasURI = true

		if err := checkURI(r.uri); err != nil {
			return nil, err
		}
	}
	r.id = el.SelectAttrValue("Id", "")
	r.typ = el.SelectAttrValue("Type", "")

	return &r, nil
}

// unmarshalTransforms parses the Transforms element el.
func unmarshalTransforms(el *etree.Element, cfg Config) ([]Transform, error) {
	children := el.ChildElements()
	if len(children) == 0 {
		return nil, &StructuralError{Msg: "expected Transform", Err: errMissingElement}
	}

	var ts []Transform

	for _, child := range children {
		if !isElement(child, "Transform") {
			return nil, &StructuralError{
				Msg: fmt.Sprintf("invalid element name: %v, expected Transform", child.FullTag()),
				Err: errUnexpectedElement,
			}
		}

		if cfg.SecureValidation && len(ts) == MaxTransforms {
			return nil, &StructuralError{
				Msg: fmt.Sprintf("a maximum of %v transforms per Reference are allowed with secure validation", MaxTransforms), //nolint:lll
				Err: errTooManyTransforms,
			}
		}

		alg := child.SelectAttrValue("Algorithm", "")
		if alg == "" {
			return nil, &StructuralError{Msg: "Transform Algorithm", Err: errMissingAttribute}
		}

		f, err := cfg.transforms().Lookup(alg)
		if err != nil {
			return nil, &StructuralError{Msg: "Transform", Err: err}
		}

		t, err := f(child)
		if err != nil {
			return nil, &StructuralError{Msg: "Transform", Err: err}
		}

		ts = append(ts, t)
	}

	return ts, nil
}

// Marshal adds a Reference element for r to parent. Elements are qualified with prefix, which
// is declared if it is not already bound to Namespace in the scope of parent.
func (r *Reference) Marshal(parent *etree.Element, prefix string) *etree.Element {
	el := parent.CreateElement(qualify(prefix, "Reference"))
	declareNamespace(el, prefix, Namespace)

	if r.id != "" {
		el.CreateAttr("Id", r.id)
	}
	if r.hasURI {
		el.CreateAttr("URI", r.uri)
	}
	if r.typ != "" {
		el.CreateAttr("Type", r.typ)
	}

	if ts := r.Transforms(); len(ts) > 0 {
		tsEl := el.CreateElement(qualify(prefix, "Transforms"))
		for _, t := range ts {
			marshalTransform(tsEl, prefix, t)
		}
	}

	el.CreateElement(qualify(prefix, "DigestMethod")).CreateAttr("Algorithm", string(r.dm))

	dvEl := el.CreateElement(qualify(prefix, "DigestValue"))
	if r.digestValue != nil {
		dvEl.SetText(base64.StdEncoding.EncodeToString(r.digestValue))
	}

	return el
}

// marshalTransform adds a Transform element for t to parent.
func marshalTransform(parent *etree.Element, prefix string, t Transform) {
	el := parent.CreateElement(qualify(prefix, "Transform"))
	el.CreateAttr("Algorithm", t.Algorithm())

	if params := t.Params(); params != nil {
		for _, child := range params.ChildElements() {
			el.AddChild(child.Copy())
		}
	}
}

// declareNamespace declares ns on el with prefix, unless the parent of el already binds prefix to
// ns.
func declareNamespace(el *etree.Element, prefix, ns string) {
	key := "xmlns"
	if prefix != "" {
		key = "xmlns:" + prefix
	}

	for p := el.Parent(); p != nil; p = p.Parent() {
		if a := p.SelectAttr(key); a != nil {
			if a.Value == ns {
				return
			}
			break
		}
	}

	el.CreateAttr(key, ns)
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
