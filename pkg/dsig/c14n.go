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
	"io"

	"github.com/beevik/etree"
	xmldsig "github.com/russellhaering/goxmldsig"
)

// Canonicalization algorithm identifiers.
const (
	C14N10             = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	C14N10WithComments = C14N10 + "#WithComments"
	C14N11             = "http://www.w3.org/2006/12/xml-c14n11"
	ExclusiveC14N      = "http://www.w3.org/2001/10/xml-exc-c14n#"
)

// exclusiveNamespaces is the namespace of the InclusiveNamespaces parameter of ExclusiveC14N.
const exclusiveNamespaces = ExclusiveC14N

// canonicalTransform serializes a tree to canonical octets.
type canonicalTransform struct {
	alg    string
	params *etree.Element
	c      xmldsig.Canonicalizer
}

func newCanonicalTransform(alg string, params *etree.Element) (*canonicalTransform, error) {
	t := canonicalTransform{
		alg:    alg,
		params: copyParams(params),
	}

	switch alg {
	case C14N10:
		t.c = xmldsig.MakeC14N10RecCanonicalizer()
	case C14N10WithComments:
		t.c = xmldsig.MakeC14N10WithCommentsCanonicalizer()
	case C14N11:
		t.c = xmldsig.MakeC14N11Canonicalizer()
	case ExclusiveC14N:
		t.c = xmldsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(prefixList(params))
	default:
		return nil, &AlgorithmUnavailableError{Algorithm: alg}
	}

	return &t, nil
}

// prefixList returns the PrefixList of the InclusiveNamespaces child of params, if present.
func prefixList(params *etree.Element) string {
	if params == nil {
		return ""
	}

	for _, child := range params.ChildElements() {
		if child.Tag == "InclusiveNamespaces" && child.NamespaceURI() == exclusiveNamespaces {
			return child.SelectAttrValue("PrefixList", "")
		}
	}
	return ""
}

func (t *canonicalTransform) Algorithm() string { return t.alg }

func (t *canonicalTransform) Params() *etree.Element { return copyParams(t.params) }

func (t *canonicalTransform) Transform(_ context.Context, in Data, w io.Writer) (Data, error) {
	root, err := readTree(in)
	if err != nil {
		return nil, &TransformError{Algorithm: t.alg, Err: err}
	}

	b, err := t.c.Canonicalize(root.Copy())
	if err != nil {
		return nil, &TransformError{Algorithm: t.alg, Err: err}
	}

	if w != nil {
		if _, err := w.Write(b); err != nil {
			return nil, &TransformError{Algorithm: t.alg, Err: err}
		}
		return nil, nil
	}

	return &OctetStreamData{Stream: bytes.NewReader(b)}, nil
}

// autoCanonicalizer returns the transform inserted when a tree reaches the digest stage.
func autoCanonicalizer(useC14N11 bool) *canonicalTransform {
	alg := C14N10
	if useC14N11 {
		alg = C14N11
	}

	t, err := newCanonicalTransform(alg, nil)
	if err != nil {
		panic(err)
	}
	return t
}
