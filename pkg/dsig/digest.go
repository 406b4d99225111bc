// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"crypto"
	_ "crypto/md5" // register hash
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"errors"
	"hash"

	_ "golang.org/x/crypto/ripemd160" //nolint:staticcheck
	_ "golang.org/x/crypto/sha3"
)

// DigestMethod is a digest algorithm identifier.
type DigestMethod string

// Digest algorithm identifiers.
const (
	DigestSHA1      DigestMethod = "http://www.w3.org/2000/09/xmldsig#sha1"
	DigestSHA224    DigestMethod = "http://www.w3.org/2001/04/xmldsig-more#sha224"
	DigestSHA256    DigestMethod = "http://www.w3.org/2001/04/xmlenc#sha256"
	DigestSHA384    DigestMethod = "http://www.w3.org/2001/04/xmldsig-more#sha384"
	DigestSHA512    DigestMethod = "http://www.w3.org/2001/04/xmlenc#sha512"
	DigestSHA3_224  DigestMethod = "http://www.w3.org/2007/05/xmldsig-more#sha3-224"
	DigestSHA3_256  DigestMethod = "http://www.w3.org/2007/05/xmldsig-more#sha3-256"
	DigestSHA3_384  DigestMethod = "http://www.w3.org/2007/05/xmldsig-more#sha3-384"
	DigestSHA3_512  DigestMethod = "http://www.w3.org/2007/05/xmldsig-more#sha3-512"
	DigestRIPEMD160 DigestMethod = "http://www.w3.org/2001/04/xmlenc#ripemd160"
	DigestMD5       DigestMethod = "http://www.w3.org/2001/04/xmldsig-more#md5"
)

var errHashUnavailable = errors.New("hash algorithm unavailable")

var digestAlgorithms = map[DigestMethod]crypto.Hash{
	DigestSHA1:      crypto.SHA1,
	DigestSHA224:    crypto.SHA224,
	DigestSHA256:    crypto.SHA256,
	DigestSHA384:    crypto.SHA384,
	DigestSHA512:    crypto.SHA512,
	DigestSHA3_224:  crypto.SHA3_224,
	DigestSHA3_256:  crypto.SHA3_256,
	DigestSHA3_384:  crypto.SHA3_384,
	DigestSHA3_512:  crypto.SHA3_512,
	DigestRIPEMD160: crypto.RIPEMD160,
	DigestMD5:       crypto.MD5,
}

// forbiddenDigests are rejected when parsing under secure validation.
var forbiddenDigests = map[DigestMethod]bool{
	DigestMD5: true,
}

// DigestMethods returns the digest algorithms supported by the default DigestService.
func DigestMethods() []DigestMethod {
	return []DigestMethod{
		DigestSHA1, DigestSHA224, DigestSHA256, DigestSHA384, DigestSHA512,
		DigestSHA3_224, DigestSHA3_256, DigestSHA3_384, DigestSHA3_512,
		DigestRIPEMD160, DigestMD5,
	}
}

// Hash returns the hash function identified by dm.
func (dm DigestMethod) Hash() (crypto.Hash, bool) {
	h, ok := digestAlgorithms[dm]
	return h, ok
}

// DigestService provides hash accumulators by digest algorithm.
type DigestService interface {
	New(dm DigestMethod) (hash.Hash, error)
}

// DigestServiceFunc is an adapter to allow the use of ordinary functions as a DigestService.
type DigestServiceFunc func(dm DigestMethod) (hash.Hash, error)

// New calls f(dm).
func (f DigestServiceFunc) New(dm DigestMethod) (hash.Hash, error) { return f(dm) }

// defaultDigests maps identifiers to crypto.Hash values. If the hash function is not linked into
// the binary, an AlgorithmUnavailableError is returned.
var defaultDigests DigestService = DigestServiceFunc(func(dm DigestMethod) (hash.Hash, error) {
	h, ok := dm.Hash()
	if !ok {
		return nil, &AlgorithmUnavailableError{Algorithm: string(dm)}
	}
	if !h.Available() {
		return nil, &AlgorithmUnavailableError{Algorithm: string(dm), Err: errHashUnavailable}
	}
	return h.New(), nil
})
