// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// Transform algorithm identifiers, other than canonicalization.
//
// The EnvelopedSignature transform does not know which Signature element encloses it, so it
// removes every Signature element in the input, rather than only the enclosing one. Documents
// carrying more than one Signature should use an explicit transform instead.
const (
	EnvelopedSignature = Namespace + "enveloped-signature"
	Base64             = Namespace + "base64"
)

// Transform is a step applied to Data before it is digested.
type Transform interface {
	// Algorithm returns the algorithm identifier of the transform.
	Algorithm() string

	// Params returns the Transform element the transform was parsed from, or nil if the
	// transform has no parameters. Its children are reproduced when the transform is marshalled.
	Params() *etree.Element

	// Transform applies the transform to in. If w is non-nil, the transform may write its
	// output to w and return nil Data, or return its output without writing to w.
	Transform(ctx context.Context, in Data, w io.Writer) (Data, error)
}

// TransformFactory returns a Transform configured by params, which is the Transform element being
// parsed, or nil when the transform is created programmatically.
type TransformFactory func(params *etree.Element) (Transform, error)

// TransformService looks up transform implementations by algorithm.
type TransformService interface {
	Lookup(algorithm string) (TransformFactory, error)
}

// TransformRegistry is a TransformService backed by a fixed set of algorithms.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// NewTransformRegistry returns a TransformRegistry that contains the canonicalization,
// enveloped signature and base64 transforms.
func NewTransformRegistry() *TransformRegistry {
	r := &TransformRegistry{factories: make(map[string]TransformFactory)}

	for _, alg := range []string{C14N10, C14N10WithComments, C14N11, ExclusiveC14N} {
		r.Register(alg, func(params *etree.Element) (Transform, error) {
			t, err := newCanonicalTransform(alg, params)
			if err != nil {
				return nil, err
			}
			return t, nil
		})
	}

	r.Register(EnvelopedSignature, func(params *etree.Element) (Transform, error) {
		return &envelopedTransform{params: copyParams(params)}, nil
	})
	r.Register(Base64, func(params *etree.Element) (Transform, error) {
		return &base64Transform{params: copyParams(params)}, nil
	})

	return r
}

// Register adds f as the factory for algorithm, replacing any existing factory.
func (r *TransformRegistry) Register(algorithm string, f TransformFactory) {
	r.factories[algorithm] = f
}

// Lookup returns the factory for algorithm. If algorithm is not registered, an
// AlgorithmUnavailableError is returned.
func (r *TransformRegistry) Lookup(algorithm string) (TransformFactory, error) {
	f, ok := r.factories[algorithm]
	if !ok {
		return nil, &AlgorithmUnavailableError{Algorithm: algorithm}
	}
	return f, nil
}

// NewTransform returns the transform registered for algorithm in the default registry, without
// parameters.
func NewTransform(algorithm string) (Transform, error) {
	f, err := defaultTransforms.Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	return f(nil)
}

var defaultTransforms = NewTransformRegistry()

func copyParams(params *etree.Element) *etree.Element {
	if params == nil {
		return nil
	}
	return params.Copy()
}

// envelopedTransform removes XML Signature elements from a tree.
type envelopedTransform struct {
	params *etree.Element
}

func (t *envelopedTransform) Algorithm() string { return EnvelopedSignature }

func (t *envelopedTransform) Params() *etree.Element { return copyParams(t.params) }

func (t *envelopedTransform) Transform(_ context.Context, in Data, _ io.Writer) (Data, error) {
	root, err := readTree(in)
	if err != nil {
		return nil, &TransformError{Algorithm: EnvelopedSignature, Err: err}
	}

	root = root.Copy()
	removeSignatures(root)

	return &NodeSetData{Root: root}, nil
}

// removeSignatures removes every Signature element below el.
func removeSignatures(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if child.Tag == "Signature" && child.NamespaceURI() == Namespace {
			el.RemoveChild(child)
			continue
		}
		removeSignatures(child)
	}
}

// base64Transform decodes base64 content.
type base64Transform struct {
	params *etree.Element
}

func (t *base64Transform) Algorithm() string { return Base64 }

func (t *base64Transform) Params() *etree.Element { return copyParams(t.params) }

func (t *base64Transform) Transform(_ context.Context, in Data, w io.Writer) (Data, error) {
	var text string

	if ns, ok := in.(*NodeSetData); ok {
		text = textContent(ns.Root)
	} else {
		b, err := readOctets(in)
		if err != nil {
			return nil, &TransformError{Algorithm: Base64, Err: err}
		}
		text = string(b)
	}

	b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
	if err != nil {
		return nil, &TransformError{Algorithm: Base64, Err: err}
	}

	if w != nil {
		if _, err := w.Write(b); err != nil {
			return nil, &TransformError{Algorithm: Base64, Err: err}
		}
		return nil, nil
	}

	return &OctetStreamData{Stream: bytes.NewReader(b)}, nil
}

// textContent returns the concatenated text of el and its descendants.
func textContent(el *etree.Element) string {
	var sb strings.Builder

	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, tok := range el.Child {
			switch tok := tok.(type) {
			case *etree.CharData:
				sb.WriteString(tok.Data)
			case *etree.Element:
				walk(tok)
			}
		}
	}
	walk(el)

	return sb.String()
}
