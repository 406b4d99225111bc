// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package keyinfo implements KeyInfo content carrying elliptic curve public keys.
package keyinfo

import (
	"crypto/ecdsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/apptainer/xmldsig/pkg/curve"
	"github.com/apptainer/xmldsig/pkg/ecpoint"
	"github.com/beevik/etree"
)

// Namespace11 is the XML Signature 1.1 namespace, which ECKeyValue and its children belong to.
const Namespace11 = "http://www.w3.org/2009/xmldsig11#"

// oidURNPrefix is prepended to the dotted OID in the NamedCurve URI attribute.
const oidURNPrefix = "urn:oid:"

var (
	errNilKey                  = errors.New("nil key")
	errCurveUnsupported        = errors.New("curve unsupported")
	errPointNotOnCurve         = errors.New("point not on curve")
	errECParametersUnsupported = errors.New("ECParameters not supported")
	errNamedCurveURIInvalid    = errors.New("invalid NamedCurve URI")
	errUnexpectedElement       = errors.New("unexpected element")
	errMissingElement          = errors.New("missing element")
	errPublicKeyMalformed      = errors.New("public key malformed")
)

// ECKeyValue is an elliptic curve public key on a named curve.
type ECKeyValue struct {
	id    string
	curve curve.Curve
	point ecpoint.Point
}

// ECKeyValueOpt are used to configure an ECKeyValue.
type ECKeyValueOpt func(kv *ECKeyValue) error

// OptECKeyValueID sets the Id attribute of the ECKeyValue element.
func OptECKeyValueID(id string) ECKeyValueOpt {
	return func(kv *ECKeyValue) error {
		kv.id = id
		return nil
	}
}

// NewECKeyValue returns an ECKeyValue for pub. The curve of pub must be one of the registered
// named curves.
func NewECKeyValue(pub *ecdsa.PublicKey, opts ...ECKeyValueOpt) (*ECKeyValue, error) {
	if pub == nil || pub.Curve == nil {
		return nil, fmt.Errorf("keyinfo: %w", errNilKey)
	}

	c, ok := curve.ForElliptic(pub.Curve)
	if !ok {
		return nil, fmt.Errorf("keyinfo: %w: %v", errCurveUnsupported, pub.Curve.Params().Name)
	}

	kv := ECKeyValue{curve: c}
	if pub.X != nil && pub.Y != nil {
		kv.point = ecpoint.Point{X: new(big.Int).Set(pub.X), Y: new(big.Int).Set(pub.Y)}
	}

	for _, opt := range opts {
		if err := opt(&kv); err != nil {
			return nil, fmt.Errorf("keyinfo: %w", err)
		}
	}

	return &kv, nil
}

// ID returns the Id attribute, or the empty string if none is set.
func (kv *ECKeyValue) ID() string { return kv.id }

// Curve returns the named curve of the key.
func (kv *ECKeyValue) Curve() curve.Curve { return kv.curve }

// Point returns a copy of the public point.
func (kv *ECKeyValue) Point() ecpoint.Point {
	var p ecpoint.Point
	if kv.point.X != nil {
		p.X = new(big.Int).Set(kv.point.X)
	}
	if kv.point.Y != nil {
		p.Y = new(big.Int).Set(kv.point.Y)
	}
	return p
}

// PublicKey returns the key as an *ecdsa.PublicKey.
func (kv *ECKeyValue) PublicKey() (*ecdsa.PublicKey, error) {
	if !kv.curve.IsOnCurve(kv.point.X, kv.point.Y) {
		return nil, fmt.Errorf("keyinfo: %w", errPointNotOnCurve)
	}

	p := kv.Point()
	return &ecdsa.PublicKey{Curve: kv.curve.Elliptic(), X: p.X, Y: p.Y}, nil
}

// Marshal adds an ECKeyValue element for kv to parent, using the namespace prefix prefix for
// Namespace11. If prefix is empty, Namespace11 is declared as the default namespace.
func (kv *ECKeyValue) Marshal(parent *etree.Element, prefix string) (*etree.Element, error) {
	pk, err := ecpoint.Encode(kv.point, kv.curve)
	if err != nil {
		return nil, fmt.Errorf("keyinfo: %w", err)
	}

	el := parent.CreateElement(qualify(prefix, "ECKeyValue"))
	if prefix == "" {
		el.CreateAttr("xmlns", Namespace11)
	} else {
		el.CreateAttr("xmlns:"+prefix, Namespace11)
	}
	if kv.id != "" {
		el.CreateAttr("Id", kv.id)
	}

	nc := el.CreateElement(qualify(prefix, "NamedCurve"))
	nc.CreateAttr("URI", oidURNPrefix+kv.curve.OID())

	el.CreateElement(qualify(prefix, "PublicKey")).SetText(base64.StdEncoding.EncodeToString(pk))

	return el, nil
}

// UnmarshalECKeyValue parses the ECKeyValue element el.
//
// Only keys on a registered named curve are supported. An explicit ECParameters child is
// rejected.
func UnmarshalECKeyValue(el *etree.Element) (*ECKeyValue, error) {
	if err := checkElement(el, "ECKeyValue"); err != nil {
		return nil, fmt.Errorf("keyinfo: %w", err)
	}

	children := el.ChildElements()
	if len(children) == 0 {
		return nil, fmt.Errorf("keyinfo: %w: NamedCurve", errMissingElement)
	}

	var kv ECKeyValue
	kv.id = el.SelectAttrValue("Id", "")

	switch first := children[0]; {
	case first.Tag == "ECParameters" && first.NamespaceURI() == Namespace11:
		return nil, fmt.Errorf("keyinfo: %w", errECParametersUnsupported)

	case first.Tag == "NamedCurve" && first.NamespaceURI() == Namespace11:
		uri := first.SelectAttrValue("URI", "")
		if !strings.HasPrefix(uri, oidURNPrefix) {
			return nil, fmt.Errorf("keyinfo: %w: %q", errNamedCurveURIInvalid, uri)
		}

		oid := strings.TrimPrefix(uri, oidURNPrefix)

		c, ok := curve.FindCurve(oid)
		if !ok {
			return nil, fmt.Errorf("keyinfo: %w: %v", errCurveUnsupported, oid)
		}
		kv.curve = c

	default:
		return nil, fmt.Errorf("keyinfo: %w: %v", errUnexpectedElement, first.FullTag())
	}

	if len(children) < 2 {
		return nil, fmt.Errorf("keyinfo: %w: PublicKey", errMissingElement)
	}
	if err := checkElement(children[1], "PublicKey"); err != nil {
		return nil, fmt.Errorf("keyinfo: %w", err)
	}
	if len(children) > 2 {
		return nil, fmt.Errorf("keyinfo: %w: %v", errUnexpectedElement, children[2].FullTag())
	}

	b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(children[1].Text()), ""))
	if err != nil {
		return nil, fmt.Errorf("keyinfo: %w: %v", errPublicKeyMalformed, err)
	}

	p, err := ecpoint.Decode(b, kv.curve)
	if err != nil {
		return nil, fmt.Errorf("keyinfo: %w", err)
	}
	kv.point = p

	return &kv, nil
}

// checkElement verifies that el is named local in Namespace11.
func checkElement(el *etree.Element, local string) error {
	if el == nil {
		return fmt.Errorf("%w: %v", errMissingElement, local)
	}
	if el.Tag != local || el.NamespaceURI() != Namespace11 {
		return fmt.Errorf("%w: %v", errUnexpectedElement, el.FullTag())
	}
	return nil
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
