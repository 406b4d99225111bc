// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package sigvalue

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"io"

	"github.com/sigstore/sigstore/pkg/signature"
)

var errNilKey = errors.New("nil key")

// Size returns the size in bytes of each of r and s in an ECDSA signature value over c.
func Size(c elliptic.Curve) int {
	return (c.Params().N.BitLen() + 7) / 8
}

// ECDSASigner produces ECDSA signature values in fixed-width layout.
type ECDSASigner struct {
	sv   *signature.ECDSASignerVerifier
	size int
}

// NewECDSASigner returns an ECDSASigner that signs with priv, using hash function h.
func NewECDSASigner(priv *ecdsa.PrivateKey, h crypto.Hash) (*ECDSASigner, error) {
	if priv == nil {
		return nil, fmt.Errorf("sigvalue: %w", errNilKey)
	}

	sv, err := signature.LoadECDSASignerVerifier(priv, h)
	if err != nil {
		return nil, fmt.Errorf("sigvalue: %w", err)
	}

	return &ECDSASigner{
		sv:   sv,
		size: Size(priv.Curve),
	}, nil
}

// SignMessage signs the message read from r, and returns the signature value in fixed-width
// layout.
func (s *ECDSASigner) SignMessage(r io.Reader) ([]byte, error) {
	der, err := s.sv.SignMessage(r)
	if err != nil {
		return nil, fmt.Errorf("sigvalue: %w", err)
	}
	return ToFixedWidth(der, s.size)
}

// Verifier returns an ECDSAVerifier for the public half of the key used by s.
func (s *ECDSASigner) Verifier() *ECDSAVerifier {
	return &ECDSAVerifier{v: s.sv.ECDSAVerifier, size: s.size}
}

// ECDSAVerifier verifies ECDSA signature values in fixed-width layout.
type ECDSAVerifier struct {
	v    *signature.ECDSAVerifier
	size int
}

// NewECDSAVerifier returns an ECDSAVerifier that verifies with pub, using hash function h.
func NewECDSAVerifier(pub *ecdsa.PublicKey, h crypto.Hash) (*ECDSAVerifier, error) {
	if pub == nil {
		return nil, fmt.Errorf("sigvalue: %w", errNilKey)
	}

	v, err := signature.LoadECDSAVerifier(pub, h)
	if err != nil {
		return nil, fmt.Errorf("sigvalue: %w", err)
	}

	return &ECDSAVerifier{
		v:    v,
		size: Size(pub.Curve),
	}, nil
}

// VerifyMessage verifies that sig, in fixed-width layout, is a valid signature over the message
// read from r.
func (v *ECDSAVerifier) VerifyMessage(sig []byte, r io.Reader) error {
	der, err := ToMinimal(sig, v.size)
	if err != nil {
		return err
	}

	if err := v.v.VerifySignature(bytes.NewReader(der), r); err != nil {
		return fmt.Errorf("sigvalue: %w", err)
	}
	return nil
}
