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
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apptainer/xmldsig/pkg/dsig"
	"github.com/beevik/etree"
	"github.com/containerd/log"
)

// bundleTag is the tag of the root element of a document created by CreateManifest.
const bundleTag = "Bundle"

// CreateManifest displays a document that embeds the files at paths as Objects, together with a
// Manifest that references each of them.
func (a *App) CreateManifest(ctx context.Context, paths []string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(bundleTag)
	root.CreateAttr("xmlns:ds", dsig.Namespace)

	cfg := a.config(doc)

	b64, err := dsig.NewTransform(dsig.Base64)
	if err != nil {
		return err
	}

	refs := make([]*dsig.Reference, 0, len(paths))

	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		o, err := dsig.NewObject(
			dsig.OptObjectGeneratedID(),
			dsig.OptObjectMimeType("application/octet-stream"),
			dsig.OptObjectEncoding(dsig.Base64),
			dsig.OptObjectText(base64.StdEncoding.EncodeToString(b)),
		)
		if err != nil {
			return err
		}
		o.Marshal(root, "ds")

		r, err := dsig.NewReference(a.opts.digestMethod,
			dsig.OptReferenceURI("#"+o.ID()),
			dsig.OptReferenceType(dsig.Namespace+"Object"),
			dsig.OptReferenceTransforms(b64),
			dsig.OptReferenceConfig(cfg),
		)
		if err != nil {
			return err
		}
		refs = append(refs, r)

		log.G(ctx).WithFields(log.Fields{
			"path": filepath.Base(path),
			"id":   o.ID(),
			"size": len(b),
		}).Debug("Object added")
	}

	m, err := dsig.NewManifest(refs, dsig.OptManifestID("manifest"))
	if err != nil {
		return err
	}

	if err := m.DigestAll(ctx); err != nil {
		return err
	}

	m.Marshal(root, "ds")
	doc.Indent(2)

	_, err = doc.WriteTo(a.opts.out)
	return err
}

// VerifyManifest validates the References of each Manifest in the XML document at path, and
// displays the outcome.
func (a *App) VerifyManifest(ctx context.Context, path string) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	els := findElements(doc, dsig.Namespace, "Manifest")
	if len(els) == 0 {
		return errNoManifests
	}

	cfg := a.config(doc)

	valid := true

	for i, el := range els {
		m, err := dsig.UnmarshalManifest(el, cfg)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(a.opts.out)
		}

		id := m.ID()
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(a.opts.out, "Manifest: %v\n", id)

		rs := m.ValidateAll(ctx)

		if err := writeResults(a.opts.out, rs); err != nil {
			return err
		}

		valid = valid && dsig.AllValid(rs)
	}

	if !valid {
		return ErrReferencesInvalid
	}
	return nil
}
