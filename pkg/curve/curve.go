// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package curve provides a closed registry of named elliptic curves over prime fields, keyed by
// object identifier.
package curve

import (
	"crypto/elliptic"
	"math/big"
)

// Params describes an elliptic curve y² = x³ + ax + b over the prime field of order P, with base
// point (Gx, Gy) of order N and the given cofactor.
type Params struct {
	FieldSize int // Size of the field, in bits.
	P         *big.Int
	A         *big.Int
	B         *big.Int
	Gx        *big.Int
	Gy        *big.Int
	N         *big.Int
	Cofactor  int
}

// Curve is an immutable named curve.
type Curve struct {
	name     string
	oid      string
	p        *big.Int
	a        *big.Int
	b        *big.Int
	gx       *big.Int
	gy       *big.Int
	n        *big.Int
	cofactor int
	ec       func() elliptic.Curve
}

// newCurve returns a Curve from hex encoded parameters. It panics if a parameter is malformed,
// and is only used to build the registry.
func newCurve(name, oid, p, a, b, x, y, n string, h int, ec func() elliptic.Curve) Curve {
	return Curve{
		name:     name,
		oid:      oid,
		p:        bigHex(p),
		a:        bigHex(a),
		b:        bigHex(b),
		gx:       bigHex(x),
		gy:       bigHex(y),
		n:        bigHex(n),
		cofactor: h,
		ec:       ec,
	}
}

func bigHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curve: malformed parameter " + s)
	}
	return v
}

// Name returns the descriptive name of c.
func (c Curve) Name() string { return c.name }

// OID returns the dotted object identifier of c.
func (c Curve) OID() string { return c.oid }

// FieldSize returns the size of the field of c in bits.
func (c Curve) FieldSize() int { return c.p.BitLen() }

// P returns the order of the underlying field.
func (c Curve) P() *big.Int { return new(big.Int).Set(c.p) }

// A returns the coefficient a of the curve equation.
func (c Curve) A() *big.Int { return new(big.Int).Set(c.a) }

// B returns the coefficient b of the curve equation.
func (c Curve) B() *big.Int { return new(big.Int).Set(c.b) }

// Gx returns the x coordinate of the base point.
func (c Curve) Gx() *big.Int { return new(big.Int).Set(c.gx) }

// Gy returns the y coordinate of the base point.
func (c Curve) Gy() *big.Int { return new(big.Int).Set(c.gy) }

// N returns the order of the base point.
func (c Curve) N() *big.Int { return new(big.Int).Set(c.n) }

// Cofactor returns the cofactor of c.
func (c Curve) Cofactor() int { return c.cofactor }

// Params returns a copy of the parameters of c.
func (c Curve) Params() Params {
	return Params{
		FieldSize: c.FieldSize(),
		P:         c.P(),
		A:         c.A(),
		B:         c.B(),
		Gx:        c.Gx(),
		Gy:        c.Gy(),
		N:         c.N(),
		Cofactor:  c.cofactor,
	}
}

// Elliptic returns an implementation of the group operations on c.
func (c Curve) Elliptic() elliptic.Curve {
	return c.ec()
}

// IsOnCurve reports whether (x, y) satisfies the curve equation of c. Coordinates outside [0, p)
// are rejected.
func (c Curve) IsOnCurve(x, y *big.Int) bool {
	if x == nil || y == nil {
		return false
	}
	if x.Sign() < 0 || x.Cmp(c.p) >= 0 || y.Sign() < 0 || y.Cmp(c.p) >= 0 {
		return false
	}

	// y² mod p
	lhs := new(big.Int).Mul(y, y)
	lhs.Mod(lhs, c.p)

	// x³ + ax + b mod p
	rhs := new(big.Int).Mul(x, x)
	rhs.Mul(rhs, x)
	ax := new(big.Int).Mul(c.a, x)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, c.b)
	rhs.Mod(rhs, c.p)

	return lhs.Cmp(rhs) == 0
}

// matches reports whether p describes c. Field size, curve equation, generator, order and
// cofactor must all be equal.
func (c Curve) matches(p Params) bool {
	if p.P == nil || p.A == nil || p.B == nil || p.Gx == nil || p.Gy == nil || p.N == nil {
		return false
	}

	fieldSizeEqual := c.FieldSize() == p.FieldSize
	curveEqual := c.p.Cmp(p.P) == 0 && c.a.Cmp(p.A) == 0 && c.b.Cmp(p.B) == 0
	generatorEqual := c.gx.Cmp(p.Gx) == 0 && c.gy.Cmp(p.Gy) == 0
	orderEqual := c.n.Cmp(p.N) == 0
	cofactorEqual := c.cofactor == p.Cofactor

	return fieldSizeEqual && curveEqual && generatorEqual && orderEqual && cofactorEqual
}

// ParamsFromElliptic derives Params from ec. The coefficient a is not carried by
// elliptic.CurveParams, so it is recovered from the base point, and the cofactor is recovered
// from the Hasse bound.
func ParamsFromElliptic(ec elliptic.Curve) Params {
	cp := ec.Params()
	p := cp.P

	// a = (gy² - gx³ - b) / gx mod p
	num := new(big.Int).Mul(cp.Gy, cp.Gy)
	gx3 := new(big.Int).Mul(cp.Gx, cp.Gx)
	gx3.Mul(gx3, cp.Gx)
	num.Sub(num, gx3)
	num.Sub(num, cp.B)
	num.Mod(num, p)

	a := new(big.Int)
	if inv := new(big.Int).ModInverse(cp.Gx, p); inv != nil {
		a.Mul(num, inv)
		a.Mod(a, p)
	}

	// h = round((p + 1) / n)
	h := new(big.Int).Add(p, big.NewInt(1))
	h.Add(h, new(big.Int).Rsh(cp.N, 1))
	h.Quo(h, cp.N)

	return Params{
		FieldSize: p.BitLen(),
		P:         new(big.Int).Set(p),
		A:         a,
		B:         new(big.Int).Set(cp.B),
		Gx:        new(big.Int).Set(cp.Gx),
		Gy:        new(big.Int).Set(cp.Gy),
		N:         new(big.Int).Set(cp.N),
		Cofactor:  int(h.Int64()),
	}
}
