// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsigtool

import (
	"crypto/ecdsa"
	"fmt"
	"os"

	"github.com/apptainer/xmldsig/pkg/keyinfo"
	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// loadPublicKey reads the PEM encoded EC public key at path.
func loadPublicKey(path string) (*ecdsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read public key")
	}

	pub, err := cryptoutils.UnmarshalPEMToPublicKey(b)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse public key")
	}

	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.Wrapf(errKeyNotEC, "unexpected key type %T", pub)
	}
	return ecPub, nil
}

// KeyValue displays the ECKeyValue element for the PEM encoded public key at path. If id is not
// empty, it is set as the Id of the element.
func (a *App) KeyValue(path, id string) error {
	pub, err := loadPublicKey(path)
	if err != nil {
		return err
	}

	var opts []keyinfo.ECKeyValueOpt
	if id != "" {
		opts = append(opts, keyinfo.OptECKeyValueID(id))
	}

	kv, err := keyinfo.NewECKeyValue(pub, opts...)
	if err != nil {
		return err
	}

	doc := etree.NewDocument()
	if _, err := kv.Marshal(&doc.Element, "dsig11"); err != nil {
		return err
	}
	doc.Indent(2)

	if _, err := doc.WriteTo(a.opts.out); err != nil {
		return err
	}
	return nil
}

// keyValueSummary returns a one line description of kv.
func keyValueSummary(kv *keyinfo.ECKeyValue) string {
	return fmt.Sprintf("%v (%v)", kv.Curve().Name(), kv.Curve().OID())
}
