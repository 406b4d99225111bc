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
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func TestTransformRegistry_Lookup(t *testing.T) {
	r := NewTransformRegistry()

	tests := []struct {
		name    string
		alg     string
		wantErr error
	}{
		{name: "C14N10", alg: C14N10},
		{name: "C14N10WithComments", alg: C14N10WithComments},
		{name: "C14N11", alg: C14N11},
		{name: "ExclusiveC14N", alg: ExclusiveC14N},
		{name: "EnvelopedSignature", alg: EnvelopedSignature},
		{name: "Base64", alg: Base64},
		{name: "XPath", alg: "http://www.w3.org/TR/1999/REC-xpath-19991116", wantErr: &AlgorithmUnavailableError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := r.Lookup(tt.alg)
			if got, want := err, tt.wantErr; !errors.Is(got, want) {
				t.Fatalf("got error %v, want %v", got, want)
			}

			if err != nil {
				return
			}

			tr, err := f(nil)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := tr.Algorithm(), tt.alg; got != want {
				t.Errorf("got algorithm %v, want %v", got, want)
			}
			if tr.Params() != nil {
				t.Error("unexpected params")
			}
		})
	}
}

// transformOutput applies tr to in, and returns the octets produced.
func transformOutput(t *testing.T, tr Transform, in Data, streamed bool) []byte {
	t.Helper()

	var buf bytes.Buffer

	var w io.Writer
	if streamed {
		w = &buf
	}

	out, err := tr.Transform(context.Background(), in, w)
	if err != nil {
		t.Fatal(err)
	}

	if out != nil {
		if err := writeData(&buf, out); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestCanonicalTransform(t *testing.T) {
	const input = `<root><!-- note --><a b="2" a="1">x</a></root>`

	tests := []struct {
		name     string
		alg      string
		in       func(t *testing.T) Data
		streamed bool
		want     string
	}{
		{
			name: "NodeSet",
			alg:  C14N10,
			in: func(t *testing.T) Data {
				return &NodeSetData{Root: mustDocument(t, input).Root()}
			},
			want: `<root><a a="1" b="2">x</a></root>`,
		},
		{
			name: "NodeSetStreamed",
			alg:  C14N10,
			in: func(t *testing.T) Data {
				return &NodeSetData{Root: mustDocument(t, input).Root()}
			},
			streamed: true,
			want:     `<root><a a="1" b="2">x</a></root>`,
		},
		{
			name: "OctetStream",
			alg:  C14N11,
			in: func(t *testing.T) Data {
				return &OctetStreamData{Stream: strings.NewReader(input)}
			},
			want: `<root><a a="1" b="2">x</a></root>`,
		},
		{
			name: "WithComments",
			alg:  C14N10WithComments,
			in: func(t *testing.T) Data {
				return NewBinaryData([]byte(input))
			},
			want: `<root><!-- note --><a a="1" b="2">x</a></root>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransform(tt.alg)
			if err != nil {
				t.Fatal(err)
			}

			if got, want := string(transformOutput(t, tr, tt.in(t), tt.streamed)), tt.want; got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestCanonicalTransform_DoesNotModifyInput(t *testing.T) {
	doc := mustDocument(t, `<root><!-- note --><a>x</a></root>`)
	before, err := doc.WriteToString()
	if err != nil {
		t.Fatal(err)
	}

	transformOutput(t, mustTransform(t, C14N10), &NodeSetData{Root: doc.Root()}, false)

	after, err := doc.WriteToString()
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("input modified: %q", after)
	}
}

func TestExclusiveC14NParams(t *testing.T) {
	doc := mustDocument(t, `<ds:Transform xmlns:ds="http://www.w3.org/2000/09/xmldsig#" `+
		`Algorithm="http://www.w3.org/2001/10/xml-exc-c14n#">`+
		`<ec:InclusiveNamespaces xmlns:ec="http://www.w3.org/2001/10/xml-exc-c14n#" PrefixList="p q"/>`+
		`</ds:Transform>`)

	if got, want := prefixList(doc.Root()), "p q"; got != want {
		t.Errorf("got prefix list %q, want %q", got, want)
	}

	f, err := NewTransformRegistry().Lookup(ExclusiveC14N)
	if err != nil {
		t.Fatal(err)
	}

	tr, err := f(doc.Root())
	if err != nil {
		t.Fatal(err)
	}

	// Params are retained by copy, and reproduced on marshal.
	doc.Root().RemoveChildAt(0)

	params := tr.Params()
	if params == nil || len(params.ChildElements()) != 1 {
		t.Fatalf("got params %v", params)
	}

	parent := etree.NewElement("Transforms")
	marshalTransform(parent, "ds", tr)

	el := parent.SelectElement("ds:Transform")
	if el == nil {
		t.Fatal("Transform not marshalled")
	}
	if got := el.SelectElement("ec:InclusiveNamespaces"); got == nil {
		t.Error("InclusiveNamespaces not marshalled")
	}
}

func TestEnvelopedTransform(t *testing.T) {
	signed := mustDocument(t, `<root xmlns:ds="http://www.w3.org/2000/09/xmldsig#"><data>hello</data>`+
		`<ds:Signature><ds:SignedInfo/></ds:Signature>`+
		`<nested><ds:Signature/></nested></root>`)
	unsigned := mustDocument(t, `<root xmlns:ds="http://www.w3.org/2000/09/xmldsig#"><data>hello</data>`+
		`<nested></nested></root>`)

	in := &NodeSetData{Root: signed.Root()}

	out, err := mustTransform(t, EnvelopedSignature).Transform(context.Background(), in, nil)
	if err != nil {
		t.Fatal(err)
	}

	ns, ok := out.(*NodeSetData)
	if !ok {
		t.Fatalf("got data %T, want *NodeSetData", out)
	}

	c14n := mustTransform(t, C14N10)

	got := transformOutput(t, c14n, ns, false)
	want := transformOutput(t, c14n, &NodeSetData{Root: unsigned.Root()}, false)

	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	if len(signed.FindElements("//Signature")) != 2 {
		t.Error("input modified")
	}
}

func TestBase64Transform(t *testing.T) {
	tests := []struct {
		name     string
		in       func(t *testing.T) Data
		streamed bool
		want     string
		wantErr  error
	}{
		{
			name: "NodeSet",
			in: func(t *testing.T) Data {
				return &NodeSetData{Root: mustDocument(t, "<o>YW\n  Jj<x>ZGVm</x></o>").Root()}
			},
			want: "abcdef",
		},
		{
			name: "OctetStream",
			in: func(t *testing.T) Data {
				return &OctetStreamData{Stream: strings.NewReader("YWJj")}
			},
			streamed: true,
			want:     "abc",
		},
		{
			name: "Malformed",
			in: func(t *testing.T) Data {
				return NewBinaryData([]byte("Y"))
			},
			wantErr: &TransformError{},
		},
		{
			name: "Unrecognized",
			in: func(t *testing.T) Data {
				return 42
			},
			wantErr: errUnrecognizedData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := mustTransform(t, Base64)

			var buf bytes.Buffer

			var w io.Writer
			if tt.streamed {
				w = &buf
			}

			out, err := tr.Transform(context.Background(), tt.in(t), w)
			if got, want := err, tt.wantErr; !errors.Is(got, want) {
				t.Fatalf("got error %v, want %v", got, want)
			}

			if err != nil {
				return
			}

			if out != nil {
				if err := writeData(&buf, out); err != nil {
					t.Fatal(err)
				}
			}

			if got, want := buf.String(), tt.want; got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestApplyTransforms(t *testing.T) {
	doc := mustDocument(t, `<o xmlns:ds="http://www.w3.org/2000/09/xmldsig#">YW<ds:Signature>ZGVm</ds:Signature>Jj</o>`)

	ts := []Transform{mustTransform(t, EnvelopedSignature), mustTransform(t, Base64)}

	var buf bytes.Buffer

	out, err := applyTransforms(context.Background(), ts, &NodeSetData{Root: doc.Root()}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	if out != nil {
		t.Errorf("got data %T, want output written to sink", out)
	}
	if got, want := buf.String(), "abc"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
