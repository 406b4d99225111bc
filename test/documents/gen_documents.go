// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package main

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/apptainer/xmldsig/pkg/dsig"
	"github.com/apptainer/xmldsig/pkg/keyinfo"
	"github.com/beevik/etree"
	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

var errUnexpectedKeyType = errors.New("unexpected key type")

// getPublicKey returns the EC public key read from the PEM file at path.
func getPublicKey(name string) (*ecdsa.PublicKey, error) {
	b, err := os.ReadFile(filepath.Join("..", "keys", name))
	if err != nil {
		return nil, err
	}

	pub, err := cryptoutils.UnmarshalPEMToPublicKey(b)
	if err != nil {
		return nil, err
	}

	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, errUnexpectedKeyType
	}
	return ecPub, nil
}

// object describes an Object to embed in a document, and the digest method of its Reference.
type object struct {
	id   string
	text string
	dm   dsig.DigestMethod
}

// newBundle returns a document with a root element that declares the XML Signature namespace.
func newBundle() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Bundle")
	root.CreateAttr("xmlns:ds", dsig.Namespace)

	return doc, root
}

// signedBundle returns a document holding the key value of pub, objects, and a Manifest that
// references each object.
func signedBundle(ctx context.Context, pub *ecdsa.PublicKey, objects []object) (*etree.Document, error) {
	doc, root := newBundle()

	kv, err := keyinfo.NewECKeyValue(pub)
	if err != nil {
		return nil, err
	}

	ki := root.CreateElement("ds:KeyInfo").CreateElement("ds:KeyValue")
	if _, err := kv.Marshal(ki, "dsig11"); err != nil {
		return nil, err
	}

	b64, err := dsig.NewTransform(dsig.Base64)
	if err != nil {
		return nil, err
	}

	cfg := dsig.Config{Dereferencer: dsig.NewDocumentDereferencer(doc)}

	var refs []*dsig.Reference

	for _, o := range objects {
		obj, err := dsig.NewObject(
			dsig.OptObjectID(o.id),
			dsig.OptObjectEncoding(dsig.Base64),
			dsig.OptObjectText(o.text),
		)
		if err != nil {
			return nil, err
		}
		obj.Marshal(root, "ds")

		r, err := dsig.NewReference(o.dm,
			dsig.OptReferenceURI("#"+o.id),
			dsig.OptReferenceType(dsig.Namespace+"Object"),
			dsig.OptReferenceTransforms(b64),
			dsig.OptReferenceConfig(cfg),
		)
		if err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}

	m, err := dsig.NewManifest(refs, dsig.OptManifestID("manifest"))
	if err != nil {
		return nil, err
	}

	if err := m.DigestAll(ctx); err != nil {
		return nil, err
	}

	m.Marshal(root, "ds")

	return doc, nil
}

func generateDocuments(ctx context.Context) error {
	pub, err := getPublicKey("ecdsa-p256-public.pem")
	if err != nil {
		return err
	}

	objects := []object{
		{id: "obj-1", text: "YWJj", dm: dsig.DigestSHA256},
		{id: "obj-2", text: "ZGVm", dm: dsig.DigestSHA512},
		{id: "obj-3", text: "Z2hp", dm: dsig.DigestSHA1},
	}

	docs := []struct {
		path  string
		docFn func() (*etree.Document, error)
	}{
		{
			path: "signed.xml",
			docFn: func() (*etree.Document, error) {
				return signedBundle(ctx, pub, objects)
			},
		},
		{
			path: "tampered.xml",
			docFn: func() (*etree.Document, error) {
				doc, err := signedBundle(ctx, pub, objects)
				if err != nil {
					return nil, err
				}

				// Modify an object after its digest value was recorded.
				doc.FindElement("//Object[@Id='obj-2']").SetText("ZGVn")

				return doc, nil
			},
		},
		{
			path: "unsigned.xml",
			docFn: func() (*etree.Document, error) {
				doc, root := newBundle()

				o, err := dsig.NewObject(dsig.OptObjectID("obj-1"), dsig.OptObjectText("YWJj"))
				if err != nil {
					return nil, err
				}
				o.Marshal(root, "ds")

				return doc, nil
			},
		},
	}

	for _, d := range docs {
		doc, err := d.docFn()
		if err != nil {
			return err
		}

		doc.Indent(2)

		if err := doc.WriteToFile(d.path); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	if err := generateDocuments(context.Background()); err != nil {
		log.Fatal(err)
	}
}
