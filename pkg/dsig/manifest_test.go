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
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
)

func TestObject_Marshal(t *testing.T) {
	o, err := NewObject(
		OptObjectID("obj"),
		OptObjectMimeType("text/plain"),
		OptObjectEncoding(Base64),
		OptObjectText("YWJj"),
	)
	if err != nil {
		t.Fatal(err)
	}

	doc := etree.NewDocument()
	el := o.Marshal(&doc.Element, "ds")

	b, err := doc.WriteToBytes()
	if err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t, goldie.WithTestNameForDir(true))
	g.Assert(t, "object", b)

	got, err := UnmarshalObject(el)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(
		[]string{o.ID(), o.MimeType(), o.Encoding(), o.Text()},
		[]string{got.ID(), got.MimeType(), got.Encoding(), got.Text()},
	); diff != "" {
		t.Errorf("unexpected object (-want +got):\n%v", diff)
	}
}

func TestObject_Content(t *testing.T) {
	content := etree.NewElement("item")
	content.SetText("hello")

	o, err := NewObject(OptObjectContent(content))
	if err != nil {
		t.Fatal(err)
	}

	// Content is retained by copy.
	content.SetText("changed")

	els := o.Content()
	if len(els) != 1 {
		t.Fatalf("got %v elements, want 1", len(els))
	}
	if got, want := els[0].Text(), "hello"; got != want {
		t.Errorf("got text %q, want %q", got, want)
	}

	els[0].SetText("changed")
	if got, want := o.Content()[0].Text(), "hello"; got != want {
		t.Errorf("got text %q, want %q", got, want)
	}

	doc := etree.NewDocument()
	got, err := UnmarshalObject(o.Marshal(&doc.Element, ""))
	if err != nil {
		t.Fatal(err)
	}
	if els := got.Content(); len(els) != 1 || els[0].Tag != "item" {
		t.Errorf("got content %v", els)
	}
}

func TestOptObjectGeneratedID(t *testing.T) {
	a, err := NewObject(OptObjectGeneratedID())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewObject(OptObjectGeneratedID())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(a.ID(), "id-") {
		t.Errorf("got ID %q, want id- prefix", a.ID())
	}
	if a.ID() == b.ID() {
		t.Errorf("generated IDs not unique: %q", a.ID())
	}
}

func TestUnmarshalObject(t *testing.T) {
	doc := mustDocument(t, `<ds:Manifest xmlns:ds="http://www.w3.org/2000/09/xmldsig#"/>`)

	if _, err := UnmarshalObject(doc.Root()); !errors.Is(err, errUnexpectedElement) {
		t.Errorf("got error %v, want %v", err, errUnexpectedElement)
	}
}

func TestNewManifest(t *testing.T) {
	if _, err := NewManifest(nil); !errors.Is(err, errNoReferences) {
		t.Errorf("got error %v, want %v", err, errNoReferences)
	}

	r, err := NewReference(DigestSHA256)
	if err != nil {
		t.Fatal(err)
	}

	refs := []*Reference{r}

	m, err := NewManifest(refs, OptManifestID("m"))
	if err != nil {
		t.Fatal(err)
	}

	// The list of references is retained by copy.
	refs[0] = nil

	if got := m.References(); len(got) != 1 || got[0] != r {
		t.Errorf("got references %v", got)
	}
	if got, want := m.ID(), "m"; got != want {
		t.Errorf("got ID %q, want %q", got, want)
	}
}

// signedManifest returns a document holding an Object, a data element, and a Manifest that
// references both.
func signedManifest(t *testing.T) (*etree.Document, *etree.Element) {
	t.Helper()

	doc := mustDocument(t, `<root xmlns:ds="http://www.w3.org/2000/09/xmldsig#">`+
		`<data Id="data">hello</data></root>`)

	o, err := NewObject(OptObjectID("obj"), OptObjectEncoding(Base64), OptObjectText("YWJj"))
	if err != nil {
		t.Fatal(err)
	}
	o.Marshal(doc.Root(), "ds")

	cfg := Config{Dereferencer: NewDocumentDereferencer(doc)}

	obj, err := NewReference(DigestSHA256,
		OptReferenceURI("#obj"),
		OptReferenceTransforms(mustTransform(t, Base64)),
		OptReferenceConfig(cfg),
	)
	if err != nil {
		t.Fatal(err)
	}

	data, err := NewReference(DigestSHA256,
		OptReferenceURI("#data"),
		OptReferenceConfig(cfg),
	)
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewManifest([]*Reference{obj, data}, OptManifestID("manifest"))
	if err != nil {
		t.Fatal(err)
	}

	if err := m.DigestAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got, want := obj.DigestValue(), mustHex(t, abcDigest); !bytes.Equal(got, want) {
		t.Errorf("got digest value %x, want %x", got, want)
	}

	// The data element is a tree, so it is canonicalized before it is digested.
	ts := data.Transforms()
	if len(ts) != 1 || ts[0].Algorithm() != C14N10 {
		t.Errorf("got transforms %v, want canonicalization", ts)
	}

	return doc, m.Marshal(doc.Root(), "ds")
}

func TestManifest_ValidateAll(t *testing.T) {
	_, el := signedManifest(t)

	m, err := UnmarshalManifest(el, Config{SecureValidation: true})
	if err != nil {
		t.Fatal(err)
	}

	if got, want := m.ID(), "manifest"; got != want {
		t.Errorf("got ID %q, want %q", got, want)
	}

	rs := m.ValidateAll(context.Background())
	if got, want := len(rs), 2; got != want {
		t.Fatalf("got %v results, want %v", got, want)
	}

	for _, r := range rs {
		if !r.Valid || r.Err != nil {
			t.Errorf("reference %q: got valid %v, error %v", r.Reference.URI(), r.Valid, r.Err)
		}
	}

	if !AllValid(rs) {
		t.Error("manifest not valid")
	}
}

func TestManifest_ValidateAllTampered(t *testing.T) {
	doc, el := signedManifest(t)

	obj := doc.FindElement("//Object[@Id='obj']")
	if obj == nil {
		t.Fatal("Object not found")
	}
	obj.SetText("ZGVm")

	m, err := UnmarshalManifest(el, Config{})
	if err != nil {
		t.Fatal(err)
	}

	rs := m.ValidateAll(context.Background())

	if diff := cmp.Diff([]bool{false, true}, []bool{rs[0].Valid, rs[1].Valid}); diff != "" {
		t.Errorf("unexpected outcome (-want +got):\n%v", diff)
	}
	if AllValid(rs) {
		t.Error("tampered manifest valid")
	}
}

func TestManifest_ValidateAllContinues(t *testing.T) {
	_, el := signedManifest(t)

	// A missing target fails one reference, without preventing validation of the other.
	obj := el.FindElement("Reference[@URI='#obj']")
	if obj == nil {
		t.Fatal("Reference not found")
	}
	obj.CreateAttr("URI", "#missing")

	m, err := UnmarshalManifest(el, Config{})
	if err != nil {
		t.Fatal(err)
	}

	rs := m.ValidateAll(context.Background())

	if got, want := rs[0].Err, errIDNotFound; !errors.Is(got, want) {
		t.Errorf("got error %v, want %v", got, want)
	}
	if !rs[1].Valid || rs[1].Err != nil {
		t.Errorf("got valid %v, error %v", rs[1].Valid, rs[1].Err)
	}
	if AllValid(rs) {
		t.Error("manifest valid")
	}
}

func TestManifest_DigestAllError(t *testing.T) {
	r, err := NewReference(DigestSHA256, OptReferenceURI("#obj"))
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewManifest([]*Reference{r})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.DigestAll(context.Background()); !errors.Is(err, errNoDereferencer) {
		t.Errorf("got error %v, want %v", err, errNoDereferencer)
	}
}

func TestUnmarshalManifest(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		wantErr error
	}{
		{
			name:    "Empty",
			xml:     `<ds:Manifest xmlns:ds="http://www.w3.org/2000/09/xmldsig#"/>`,
			wantErr: errNoReferences,
		},
		{
			name:    "WrongElement",
			xml:     `<ds:Object xmlns:ds="http://www.w3.org/2000/09/xmldsig#"/>`,
			wantErr: errUnexpectedElement,
		},
		{
			name: "BadReference",
			xml: `<ds:Manifest xmlns:ds="http://www.w3.org/2000/09/xmldsig#">` +
				`<ds:Reference>` + sha256Method + `</ds:Reference></ds:Manifest>`,
			wantErr: errMissingElement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalManifest(mustDocument(t, tt.xml).Root(), Config{})
			if got, want := err, tt.wantErr; !errors.Is(got, want) {
				t.Errorf("got error %v, want %v", got, want)
			}
		})
	}
}
