// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"bytes"
	"context"
	"encoding/base64"
	"hash"
	"io"
	"net/url"
	"slices"

	"github.com/containerd/log"
	"go.uber.org/multierr"
)

// Reference binds the data identified by a URI to a digest value, through an ordered list of
// transforms.
//
// A Reference is not safe for concurrent use.
type Reference struct {
	uri    string
	hasURI bool
	typ    string
	id     string
	dm     DigestMethod

	applied     []Transform // Transforms already applied to appliedData.
	transforms  []Transform // Transforms applied when digesting.
	appliedData Data

	digestValue     []byte
	calcDigestValue []byte
	digested        bool
	validated       bool
	status          bool

	derefData   Data
	digestInput []byte

	md  hash.Hash
	cfg Config
}

// ReferenceOpt are used to configure a Reference.
type ReferenceOpt func(r *Reference) error

// OptReferenceURI sets the URI of the Reference. An empty uri identifies the whole document.
func OptReferenceURI(uri string) ReferenceOpt {
	return func(r *Reference) error {
		r.uri = uri
		r.hasURI = true
		return nil
	}
}

// OptReferenceType sets the Type of the Reference.
func OptReferenceType(typ string) ReferenceOpt {
	return func(r *Reference) error {
		r.typ = typ
		return nil
	}
}

// OptReferenceID sets the Id of the Reference.
func OptReferenceID(id string) ReferenceOpt {
	return func(r *Reference) error {
		r.id = id
		return nil
	}
}

// OptReferenceTransforms appends ts to the transforms applied when digesting.
func OptReferenceTransforms(ts ...Transform) ReferenceOpt {
	return func(r *Reference) error {
		r.transforms = append(r.transforms, ts...)
		return nil
	}
}

// OptReferenceAppliedTransforms specifies that ts have already been applied by the caller,
// producing result. When digesting, result is used in place of dereferencing the URI. ts are
// listed ahead of any other transforms.
//
// If result is an *OctetStreamData, its stream is read into memory by the first call to Digest,
// and is not closed.
func OptReferenceAppliedTransforms(ts []Transform, result Data) ReferenceOpt {
	return func(r *Reference) error {
		r.applied = slices.Clone(ts)
		r.appliedData = result
		return nil
	}
}

// OptReferenceDigestValue sets the digest value of the Reference, and marks it as digested.
func OptReferenceDigestValue(b []byte) ReferenceOpt {
	return func(r *Reference) error {
		r.digestValue = bytes.Clone(b)
		r.digested = true
		return nil
	}
}

// OptReferenceConfig sets the configuration used to digest and validate the Reference.
func OptReferenceConfig(cfg Config) ReferenceOpt {
	return func(r *Reference) error {
		r.cfg = cfg
		return nil
	}
}

// NewReference returns a Reference using digest method dm, configured by opts.
//
// By default, the Reference has no URI, and no transforms. To set the URI, use OptReferenceURI.
// To set transforms, use OptReferenceTransforms or OptReferenceAppliedTransforms.
func NewReference(dm DigestMethod, opts ...ReferenceOpt) (*Reference, error) {
	if dm == "" {
		return nil, &StructuralError{Err: errNilDigestMethod}
	}

	r := Reference{dm: dm}

	for _, opt := range opts {
		if err := opt(&r); err != nil {
			return nil, err
		}
	}

	if err := checkURI(r.uri); err != nil {
		return nil, err
	}

	return &r, nil
}

// checkURI returns a StructuralError if uri is non-empty and not a valid URI reference.
func checkURI(uri string) error {
	if uri == "" {
		return nil
	}
	if _, err := url.Parse(uri); err != nil {
		return &StructuralError{Msg: errInvalidURI.Error(), Err: err}
	}
	return nil
}

// URI returns the URI of r, or the empty string if none is set.
func (r *Reference) URI() string { return r.uri }

// HasURI reports whether r has a URI, which may be empty.
func (r *Reference) HasURI() bool { return r.hasURI }

// Type returns the Type of r, or the empty string if none is set.
func (r *Reference) Type() string { return r.typ }

// ID returns the Id of r, or the empty string if none is set.
func (r *Reference) ID() string { return r.id }

// DigestMethod returns the digest method of r.
func (r *Reference) DigestMethod() DigestMethod { return r.dm }

// Transforms returns all transforms of r, including applied transforms, and any canonicalization
// transform inserted when r was digested.
func (r *Reference) Transforms() []Transform {
	ts := make([]Transform, 0, len(r.applied)+len(r.transforms))
	ts = append(ts, r.applied...)
	return append(ts, r.transforms...)
}

// DigestValue returns a copy of the digest value of r, or nil if none is set.
func (r *Reference) DigestValue() []byte { return bytes.Clone(r.digestValue) }

// CalculatedDigestValue returns a copy of the digest value calculated by Validate, or nil if r
// has not been validated.
func (r *Reference) CalculatedDigestValue() []byte { return bytes.Clone(r.calcDigestValue) }

// IsDigested reports whether r has a digest value that was calculated or supplied directly.
func (r *Reference) IsDigested() bool { return r.digested }

// IsValidated reports whether r has been validated.
func (r *Reference) IsValidated() bool { return r.validated }

// DereferencedData returns the data that was dereferenced by the most recent call to Digest or
// Validate. Nil is returned unless Config.CacheReference is set.
func (r *Reference) DereferencedData() Data {
	switch d := r.derefData.(type) {
	case *octetSnapshot:
		return d.data()
	case *NodeSetData:
		if d.Root != nil {
			return &NodeSetData{Root: d.Root.Copy()}
		}
	case *BinaryData:
		return NewBinaryData(d.b)
	}
	return r.derefData
}

// DigestInput returns the octets that were digested by the most recent call to Digest or
// Validate. Nil is returned unless Config.CacheReference is set.
func (r *Reference) DigestInput() io.Reader {
	if r.digestInput == nil {
		return nil
	}
	return bytes.NewReader(bytes.Clone(r.digestInput))
}

// Digest calculates the digest value of r and stores it, returning the transforms of r.
//
// If the data reaching the digest stage is a tree, a canonicalization transform is applied, and
// is appended to the transforms of r so that they reflect what was digested. Calling Digest again
// recalculates the digest value.
func (r *Reference) Digest(ctx context.Context) ([]Transform, error) {
	data, err := r.appliedInput()
	if err != nil {
		return nil, err
	}
	if data == nil {
		if data, err = r.dereference(ctx); err != nil {
			return nil, err
		}
	}

	dv, err := r.digest(ctx, data, true)
	if err != nil {
		return nil, err
	}

	r.digestValue = dv
	r.digested = true

	log.G(ctx).WithField("uri", r.uri).Debug("Reference digesting completed")

	return r.Transforms(), nil
}

// Validate calculates the digest value of r, and reports whether it matches the stored digest
// value. A mismatch is not an error.
//
// The outcome is retained. Subsequent calls return it without dereferencing or digesting again.
func (r *Reference) Validate(ctx context.Context) (bool, error) {
	if r.validated {
		return r.status, nil
	}

	data, err := r.dereference(ctx)
	if err != nil {
		return false, err
	}

	dv, err := r.digest(ctx, data, false)
	if err != nil {
		return false, err
	}
	r.calcDigestValue = dv

	log.G(ctx).WithFields(log.Fields{
		"uri":      r.uri,
		"expected": base64.StdEncoding.EncodeToString(r.digestValue),
		"actual":   base64.StdEncoding.EncodeToString(dv),
	}).Debug("Reference digest calculated")

	r.status = bytes.Equal(r.digestValue, dv)
	r.validated = true

	return r.status, nil
}

// appliedInput returns a fresh view of the data supplied by OptReferenceAppliedTransforms, or nil
// if none was supplied.
func (r *Reference) appliedInput() (Data, error) {
	switch d := r.appliedData.(type) {
	case *OctetStreamData:
		b, err := io.ReadAll(d.Stream)
		if err != nil {
			return nil, &DereferenceError{URI: r.uri, Err: err}
		}
		s := &octetSnapshot{b: b, uri: d.URI, mimeType: d.MimeType}
		r.appliedData = s
		return s.data(), nil

	case *octetSnapshot:
		return d.data(), nil
	}
	return r.appliedData, nil
}

// dereference resolves the URI of r using the configured Dereferencer.
func (r *Reference) dereference(ctx context.Context) (Data, error) {
	d := r.cfg.Dereferencer
	if d == nil {
		return nil, &DereferenceError{URI: r.uri, Err: errNoDereferencer}
	}

	data, err := d.Dereference(ctx, r)
	if err != nil {
		return nil, &DereferenceError{URI: r.uri, Err: err}
	}

	log.G(ctx).WithFields(log.Fields{
		"uri":          r.uri,
		"dereferencer": typeName(d),
		"data":         typeName(data),
	}).Debug("Reference dereferenced")

	return data, nil
}

// hash returns the hash accumulator of r, reset for use.
func (r *Reference) hash() (hash.Hash, error) {
	if r.md == nil {
		md, err := r.cfg.digests().New(r.dm)
		if err != nil {
			return nil, err
		}
		r.md = md
	}

	r.md.Reset()
	return r.md, nil
}

// digest applies the transforms of r to data, and returns the digest of the result. When sign is
// set, an inserted canonicalization transform is added to the transforms of r.
func (r *Reference) digest(ctx context.Context, data Data, sign bool) (dv []byte, err error) {
	md, err := r.hash()
	if err != nil {
		return nil, err
	}

	var w io.Writer = md

	var input *bytes.Buffer
	if r.cfg.CacheReference {
		in, cached, err := snapshot(data)
		if err != nil {
			return nil, &DereferenceError{URI: r.uri, Err: err}
		}
		data, r.derefData = in, cached

		input = &bytes.Buffer{}
		w = io.MultiWriter(md, input)
	}

	defer func() {
		err = multierr.Append(err, closeData(data))
	}()

	out, err := applyTransforms(ctx, r.transforms, data, w)
	if err != nil {
		return nil, err
	}

	if out == nil && len(r.transforms) == 0 {
		log.G(ctx).WithField("uri", r.uri).Warn(
			"The input to the digest operation is nil. This may be due to a problem with the Reference URI or its Transforms.") //nolint:lll
	}

	if ns, ok := out.(*NodeSetData); ok {
		c := autoCanonicalizer(r.cfg.UseC14N11)

		log.G(ctx).WithFields(log.Fields{
			"uri":       r.uri,
			"algorithm": c.Algorithm(),
		}).Debug("Canonicalizing node-set before digest")

		if out, err = c.Transform(ctx, ns, w); err != nil {
			return nil, err
		}

		if sign {
			r.transforms = append(r.transforms, c)
		}
	}

	if out != nil {
		err := writeData(w, out)
		if out != data {
			err = multierr.Append(err, closeData(out))
		}
		if err != nil {
			return nil, err
		}
	}

	if input != nil {
		r.digestInput = input.Bytes()
	}

	return md.Sum(nil), nil
}

// closeData closes the stream held by d, if it is closable.
func closeData(d Data) error {
	if sd, ok := d.(*OctetStreamData); ok {
		if c, ok := sd.Stream.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}

// Equal reports whether r and o have the same digest method, Id, URI, Type, digest value and
// transforms.
func (r *Reference) Equal(o *Reference) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil {
		return false
	}

	return r.dm == o.dm &&
		r.id == o.id &&
		r.hasURI == o.hasURI &&
		r.uri == o.uri &&
		r.typ == o.typ &&
		bytes.Equal(r.digestValue, o.digestValue) &&
		slices.EqualFunc(r.Transforms(), o.Transforms(), transformsEqual)
}

// transformsEqual reports whether a and b have the same algorithm and parameters.
func transformsEqual(a, b Transform) bool {
	if a.Algorithm() != b.Algorithm() {
		return false
	}
	return paramsString(a.Params()) == paramsString(b.Params())
}
