// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package main

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/sha256"
	"fmt"
	"math/big"
	"os"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// seed returns the fixed seed of the key named name, so that the generated keys are stable.
func seed(name string) []byte {
	b := sha256.Sum256([]byte(name))
	return b[:]
}

// ecdsaKey returns the public key of the EC key named name on c.
func ecdsaKey(name string, c elliptic.Curve) *ecdsa.PublicKey {
	d := new(big.Int).SetBytes(seed(name))
	d.Mod(d, c.Params().N)

	x, y := c.ScalarBaseMult(d.Bytes()) //nolint:staticcheck // Fixed scalar, not a secret.
	return &ecdsa.PublicKey{Curve: c, X: x, Y: y}
}

func writeKeys() error {
	keys := []struct {
		pubPath string
		keyFn   func() crypto.PublicKey
	}{
		{
			pubPath: "ecdsa-p256-public.pem",
			keyFn: func() crypto.PublicKey {
				return ecdsaKey("ecdsa-p256", elliptic.P256())
			},
		},
		{
			pubPath: "ed25519-public.pem",
			keyFn: func() crypto.PublicKey {
				return ed25519.NewKeyFromSeed(seed("ed25519")).Public()
			},
		},
	}

	for _, key := range keys {
		pem, err := cryptoutils.MarshalPublicKeyToPEM(key.keyFn())
		if err != nil {
			return err
		}

		if err := os.WriteFile(key.pubPath, pem, 0o600); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	if err := writeKeys(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
