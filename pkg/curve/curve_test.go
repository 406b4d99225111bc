// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package curve

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var bigIntComparer = cmp.Comparer(func(x, y *big.Int) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.Cmp(y) == 0
})

func TestFindCurve(t *testing.T) {
	tests := []struct {
		name      string
		oid       string
		wantOK    bool
		wantName  string
		wantField int
	}{
		{"Secp256r1", OIDSecp256r1, true, "secp256r1 [NIST P-256, X9.62 prime256v1]", 256},
		{"Secp384r1", OIDSecp384r1, true, "secp384r1 [NIST P-384]", 384},
		{"Secp521r1", OIDSecp521r1, true, "secp521r1 [NIST P-521]", 521},
		{"BrainpoolP256r1", OIDBrainpoolP256r1, true, "brainpoolP256r1 [RFC 5639]", 256},
		{"BrainpoolP384r1", OIDBrainpoolP384r1, true, "brainpoolP384r1 [RFC 5639]", 384},
		{"BrainpoolP512r1", OIDBrainpoolP512r1, true, "brainpoolP512r1 [RFC 5639]", 512},
		{"Gost", OIDGost3410CryptoProA2001, true, "Gost3410-2001-CryptoPro-A", 256},
		{"Unknown", "1.2.3.4", false, "", 0},
		{"Empty", "", false, "", 0},
		{"URNPrefixed", "urn:oid:" + OIDSecp256r1, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := FindCurve(tt.oid)
			if got, want := ok, tt.wantOK; got != want {
				t.Fatalf("got ok %v, want %v", got, want)
			}

			if ok {
				if got, want := c.Name(), tt.wantName; got != want {
					t.Errorf("got name %q, want %q", got, want)
				}
				if got, want := c.FieldSize(), tt.wantField; got != want {
					t.Errorf("got field size %v, want %v", got, want)
				}
				if got, want := c.OID(), tt.oid; got != want {
					t.Errorf("got oid %v, want %v", got, want)
				}
			}
		})
	}
}

func TestLookupRoundTrip(t *testing.T) {
	for _, c := range Curves() {
		t.Run(c.OID(), func(t *testing.T) {
			oid, ok := FindObjectIdentifier(c.Params())
			if !ok {
				t.Fatal("curve parameters not found")
			}

			got, ok := FindCurve(oid)
			if !ok {
				t.Fatalf("curve %v not found", oid)
			}

			if got.OID() != c.OID() || got.Name() != c.Name() {
				t.Errorf("got curve %v, want %v", got.Name(), c.Name())
			}

			if diff := cmp.Diff(c.Params(), got.Params(), bigIntComparer); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindObjectIdentifierPartialMatch(t *testing.T) {
	base := secp256r1.Params()

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"FieldSize", func(p *Params) { p.FieldSize = 255 }},
		{"A", func(p *Params) { p.A.Sub(p.A, big.NewInt(1)) }},
		{"B", func(p *Params) { p.B.Add(p.B, big.NewInt(1)) }},
		{"P", func(p *Params) { p.P.Sub(p.P, big.NewInt(2)) }},
		{"Generator", func(p *Params) { p.Gy.Sub(p.P, p.Gy) }},
		{"Order", func(p *Params) { p.N.Sub(p.N, big.NewInt(1)) }},
		{"Cofactor", func(p *Params) { p.Cofactor = 4 }},
		{"MissingField", func(p *Params) { p.B = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := secp256r1.Params()
			tt.mutate(&p)

			if oid, ok := FindObjectIdentifier(p); ok {
				t.Errorf("got oid %v, want no match", oid)
			}
		})
	}

	if oid, ok := FindObjectIdentifier(base); !ok || oid != OIDSecp256r1 {
		t.Errorf("got oid %v (%v), want %v", oid, ok, OIDSecp256r1)
	}
}

func TestSameFieldSizeCurvesDistinct(t *testing.T) {
	oids := []string{OIDSecp256r1, OIDBrainpoolP256r1, OIDGost3410CryptoProA2001}

	for _, oid := range oids {
		c, _ := FindCurve(oid)
		got, ok := FindObjectIdentifier(c.Params())
		if !ok || got != oid {
			t.Errorf("got %v (%v), want %v", got, ok, oid)
		}
	}
}

func TestCurve_ParamsIsolated(t *testing.T) {
	c, _ := FindCurve(OIDSecp384r1)

	p := c.Params()
	p.P.SetInt64(7)
	c.N().SetInt64(11)

	if got := c.P(); got.Cmp(big.NewInt(7)) == 0 {
		t.Error("registry curve mutated through Params")
	}
	if got := c.N(); got.Cmp(big.NewInt(11)) == 0 {
		t.Error("registry curve mutated through N")
	}
}

func TestCurve_IsOnCurve(t *testing.T) {
	for _, c := range Curves() {
		t.Run(c.OID(), func(t *testing.T) {
			if !c.IsOnCurve(c.Gx(), c.Gy()) {
				t.Error("generator not on curve")
			}

			x, y := c.Elliptic().ScalarBaseMult([]byte{0x01, 0x02, 0x03, 0x04})
			if !c.IsOnCurve(x, y) {
				t.Error("scalar multiple not on curve")
			}

			if c.IsOnCurve(c.Gx(), new(big.Int).Add(c.Gy(), big.NewInt(1))) {
				t.Error("perturbed point reported on curve")
			}

			if c.IsOnCurve(c.P(), c.Gy()) {
				t.Error("out of range coordinate reported on curve")
			}

			if c.IsOnCurve(nil, c.Gy()) {
				t.Error("nil coordinate reported on curve")
			}
		})
	}
}

func TestForElliptic(t *testing.T) {
	for _, c := range Curves() {
		t.Run(c.OID(), func(t *testing.T) {
			p := ParamsFromElliptic(c.Elliptic())

			if diff := cmp.Diff(c.Params(), p, bigIntComparer); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}

			got, ok := ForElliptic(c.Elliptic())
			if !ok {
				t.Fatal("curve not found")
			}
			if got.OID() != c.OID() {
				t.Errorf("got oid %v, want %v", got.OID(), c.OID())
			}
		})
	}
}
