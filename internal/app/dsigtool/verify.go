// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsigtool

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/apptainer/xmldsig/pkg/dsig"
	"github.com/apptainer/xmldsig/pkg/keyinfo"
	"github.com/beevik/etree"
	"github.com/containerd/log"
	"github.com/opencontainers/go-digest"
)

// ociAlgorithms maps digest methods onto the algorithms understood by go-digest.
var ociAlgorithms = map[dsig.DigestMethod]digest.Algorithm{
	dsig.DigestSHA256: digest.SHA256,
	dsig.DigestSHA384: digest.SHA384,
	dsig.DigestSHA512: digest.SHA512,
}

// formatDigest returns a string representation of the digest value b, calculated with dm.
func formatDigest(dm dsig.DigestMethod, b []byte) string {
	if len(b) == 0 {
		return "-"
	}

	if alg, ok := ociAlgorithms[dm]; ok {
		d := digest.NewDigestFromBytes(alg, b)
		if err := d.Validate(); err == nil {
			return d.String()
		}
	}

	name := string(dm)
	if i := strings.LastIndexByte(name, '#'); i >= 0 {
		name = name[i+1:]
	}
	return name + ":" + hex.EncodeToString(b)
}

// formatStatus returns a string representation of a validation outcome.
func formatStatus(r dsig.ReferenceResult) string {
	switch {
	case r.Err != nil:
		return "error: " + r.Err.Error()
	case r.Valid:
		return "valid"
	}
	return "invalid"
}

// writeResults writes a table of validation outcomes to w.
func writeResults(w io.Writer, rs []dsig.ReferenceResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "REFERENCE\tDIGEST\tSTATUS")

	for _, r := range rs {
		uri := r.Reference.URI()
		if !r.Reference.HasURI() {
			uri = "-"
		} else if uri == "" {
			uri = `""`
		}

		fmt.Fprintf(tw, "%v\t%v\t%v\n",
			uri,
			formatDigest(r.Reference.DigestMethod(), r.Reference.DigestValue()),
			formatStatus(r),
		)
	}

	return tw.Flush()
}

// readDocument parses the XML document at path.
func readDocument(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, err
	}
	return doc, nil
}

// findElements returns the elements of doc with local name tag in namespace ns, in document
// order.
func findElements(doc *etree.Document, ns, tag string) []*etree.Element {
	var els []*etree.Element
	for _, el := range doc.FindElements("//" + tag) {
		if el.NamespaceURI() == ns {
			els = append(els, el)
		}
	}
	return els
}

// Verify validates every Reference in the XML document at path, and displays the outcome.
func (a *App) Verify(ctx context.Context, path string) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	cfg := a.config(doc)

	var refs []*dsig.Reference
	for _, el := range findElements(doc, dsig.Namespace, "Reference") {
		r, err := dsig.UnmarshalReference(el, cfg)
		if err != nil {
			return err
		}
		refs = append(refs, r)
	}

	if len(refs) == 0 {
		return errNoReferences
	}

	for _, el := range findElements(doc, keyinfo.Namespace11, "ECKeyValue") {
		kv, err := keyinfo.UnmarshalECKeyValue(el)
		if err != nil {
			log.G(ctx).WithError(err).Warn("Skipping malformed key value")
			continue
		}
		fmt.Fprintf(a.opts.out, "Key: %v\n", keyValueSummary(kv))
	}

	m, err := dsig.NewManifest(refs)
	if err != nil {
		return err
	}

	rs := m.ValidateAll(ctx)

	if err := writeResults(a.opts.out, rs); err != nil {
		return err
	}

	if !dsig.AllValid(rs) {
		return ErrReferencesInvalid
	}
	return nil
}
