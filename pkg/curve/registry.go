// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package curve

import (
	"crypto/elliptic"

	"github.com/ProtonMail/go-crypto/brainpool"
)

// Object identifiers of the registered curves.
const (
	OIDSecp256r1              = "1.2.840.10045.3.1.7"
	OIDSecp384r1              = "1.3.132.0.34"
	OIDSecp521r1              = "1.3.132.0.35"
	OIDBrainpoolP256r1        = "1.3.36.3.3.2.8.1.1.7"
	OIDBrainpoolP384r1        = "1.3.36.3.3.2.8.1.1.11"
	OIDBrainpoolP512r1        = "1.3.36.3.3.2.8.1.1.13"
	OIDGost3410CryptoProA2001 = "1.2.643.2.2.35.1"
)

//nolint:lll
var (
	secp256r1 = newCurve(
		"secp256r1 [NIST P-256, X9.62 prime256v1]",
		OIDSecp256r1,
		"FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF",
		"FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFC",
		"5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B",
		"6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296",
		"4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5",
		"FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551",
		1,
		elliptic.P256,
	)

	secp384r1 = newCurve(
		"secp384r1 [NIST P-384]",
		OIDSecp384r1,
		"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFF",
		"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFC",
		"B3312FA7E23EE7E4988E056BE3F82D19181D9C6EFE8141120314088F5013875AC656398D8A2ED19D2A85C8EDD3EC2AEF",
		"AA87CA22BE8B05378EB1C71EF320AD746E1D3B628BA79B9859F741E082542A385502F25DBF55296C3A545E3872760AB7",
		"3617DE4A96262C6F5D9E98BF9292DC29F8F41DBD289A147CE9DA3113B5F0B8C00A60B1CE1D7E819D7A431D7C90EA0E5F",
		"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC7634D81F4372DDF581A0DB248B0A77AECEC196ACCC52973",
		1,
		elliptic.P384,
	)

	secp521r1 = newCurve(
		"secp521r1 [NIST P-521]",
		OIDSecp521r1,
		"01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF",
		"01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC",
		"0051953EB9618E1C9A1F929A21A0B68540EEA2DA725B99B315F3B8B489918EF109E156193951EC7E937B1652C0BD3BB1BF073573DF883D2C34F1EF451FD46B503F00",
		"00C6858E06B70404E9CD9E3ECB662395B4429C648139053FB521F828AF606B4D3DBAA14B5E77EFE75928FE1DC127A2FFA8DE3348B3C1856A429BF97E7E31C2E5BD66",
		"011839296A789A3BC0045C8A5FB42C7D1BD998F54449579B446817AFBD17273E662C97EE72995EF42640C550B9013FAD0761353C7086A272C24088BE94769FD16650",
		"01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFA51868783BF2F966B7FCC0148F709A5D03BB5C9B8899C47AEBB6FB71E91386409",
		1,
		elliptic.P521,
	)

	brainpoolP256r1 = newCurve(
		"brainpoolP256r1 [RFC 5639]",
		OIDBrainpoolP256r1,
		"A9FB57DBA1EEA9BC3E660A909D838D726E3BF623D52620282013481D1F6E5377",
		"7D5A0975FC2C3057EEF67530417AFFE7FB8055C126DC5C6CE94A4B44F330B5D9",
		"26DC5C6CE94A4B44F330B5D9BBD77CBF958416295CF7E1CE6BCCDC18FF8C07B6",
		"8BD2AEB9CB7E57CB2C4B482FFC81B7AFB9DE27E1E3BD23C23A4453BD9ACE3262",
		"547EF835C3DAC4FD97F8461A14611DC9C27745132DED8E545C1D54C72F046997",
		"A9FB57DBA1EEA9BC3E660A909D838D718C397AA3B561A6F7901E0E82974856A7",
		1,
		brainpool.P256r1,
	)

	brainpoolP384r1 = newCurve(
		"brainpoolP384r1 [RFC 5639]",
		OIDBrainpoolP384r1,
		"8CB91E82A3386D280F5D6F7E50E641DF152F7109ED5456B412B1DA197FB71123ACD3A729901D1A71874700133107EC53",
		"7BC382C63D8C150C3C72080ACE05AFA0C2BEA28E4FB22787139165EFBA91F90F8AA5814A503AD4EB04A8C7DD22CE2826",
		"04A8C7DD22CE28268B39B55416F0447C2FB77DE107DCD2A62E880EA53EEB62D57CB4390295DBC9943AB78696FA504C11",
		"1D1C64F068CF45FFA2A63A81B7C13F6B8847A3E77EF14FE3DB7FCAFE0CBD10E8E826E03436D646AAEF87B2E247D4AF1E",
		"8ABE1D7520F9C2A45CB1EB8E95CFD55262B70B29FEEC5864E19C054FF99129280E4646217791811142820341263C5315",
		"8CB91E82A3386D280F5D6F7E50E641DF152F7109ED5456B31F166E6CAC0425A7CF3AB6AF6B7FC3103B883202E9046565",
		1,
		brainpool.P384r1,
	)

	brainpoolP512r1 = newCurve(
		"brainpoolP512r1 [RFC 5639]",
		OIDBrainpoolP512r1,
		"AADD9DB8DBE9C48B3FD4E6AE33C9FC07CB308DB3B3C9D20ED6639CCA703308717D4D9B009BC66842AECDA12AE6A380E62881FF2F2D82C68528AA6056583A48F3",
		"7830A3318B603B89E2327145AC234CC594CBDD8D3DF91610A83441CAEA9863BC2DED5D5AA8253AA10A2EF1C98B9AC8B57F1117A72BF2C7B9E7C1AC4D77FC94CA",
		"3DF91610A83441CAEA9863BC2DED5D5AA8253AA10A2EF1C98B9AC8B57F1117A72BF2C7B9E7C1AC4D77FC94CADC083E67984050B75EBAE5DD2809BD638016F723",
		"81AEE4BDD82ED9645A21322E9C4C6A9385ED9F70B5D916C1B43B62EEF4D0098EFF3B1F78E2D0D48D50D1687B93B97D5F7C6D5047406A5E688B352209BCB9F822",
		"7DDE385D566332ECC0EABFA9CF7822FDF209F70024A57B1AA000C55B881F8111B2DCDE494A5F485E5BCA4BD88A2763AED1CA2B2FA8F0540678CD1E0F3AD80892",
		"AADD9DB8DBE9C48B3FD4E6AE33C9FC07CB308DB3B3C9D20ED6639CCA70330870553E5C414CA92619418661197FAC10471DB1D381085DDADDB58796829CA90069",
		1,
		brainpool.P512r1,
	)

	gost3410CryptoProA2001 = newCurve(
		"Gost3410-2001-CryptoPro-A",
		OIDGost3410CryptoProA2001,
		"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFD97",
		"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFD94",
		"A6",
		"1",
		"8D91E471E0989CDA27DF505A453F2B7635294F2DDF23E3B122ACC99C9E9F1E14",
		"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF6C611070995AD10045841B09B761B893",
		1,
		gostCryptoProA,
	)
)

// registry lists the supported curves, in lookup order.
var registry = []Curve{
	secp256r1,
	secp384r1,
	secp521r1,
	brainpoolP256r1,
	brainpoolP384r1,
	brainpoolP512r1,
	gost3410CryptoProA2001,
}

// gostParams holds the generic group implementation of the GOST curve. Its a coefficient is
// p - 3, which is what elliptic.CurveParams assumes.
var gostParams = &elliptic.CurveParams{
	P:       bigHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFD97"),
	N:       bigHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF6C611070995AD10045841B09B761B893"),
	B:       bigHex("A6"),
	Gx:      bigHex("1"),
	Gy:      bigHex("8D91E471E0989CDA27DF505A453F2B7635294F2DDF23E3B122ACC99C9E9F1E14"),
	BitSize: 256,
	Name:    "Gost3410-2001-CryptoPro-A",
}

func gostCryptoProA() elliptic.Curve { return gostParams }

// Curves returns the registered curves.
func Curves() []Curve {
	cs := make([]Curve, len(registry))
	copy(cs, registry)
	return cs
}

// FindObjectIdentifier returns the object identifier of the registered curve described by p.
// If no registered curve matches, false is returned.
func FindObjectIdentifier(p Params) (string, bool) {
	for _, c := range registry {
		if c.matches(p) {
			return c.oid, true
		}
	}
	return "", false
}

// FindCurve returns the registered curve with object identifier oid. If no registered curve
// matches, false is returned.
func FindCurve(oid string) (Curve, bool) {
	for _, c := range registry {
		if c.oid == oid {
			return c, true
		}
	}
	return Curve{}, false
}

// ForElliptic returns the registered curve implemented by ec.
func ForElliptic(ec elliptic.Curve) (Curve, bool) {
	oid, ok := FindObjectIdentifier(ParamsFromElliptic(ec))
	if !ok {
		return Curve{}, false
	}
	return FindCurve(oid)
}
