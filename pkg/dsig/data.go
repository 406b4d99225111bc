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
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// Data is the result of dereferencing a URI, or of applying a transform. The types understood by
// the engine are *NodeSetData, *OctetStreamData and *BinaryData.
type Data any

// NodeSetData is an XML subtree that has not yet been serialized.
type NodeSetData struct {
	Root *etree.Element
}

// OctetStreamData is a stream of octets.
type OctetStreamData struct {
	Stream   io.Reader
	URI      string // URI the stream was read from, if known.
	MimeType string // MIME type of the stream, if known.
}

// BinaryData holds octets that have already been materialized.
type BinaryData struct {
	b []byte
}

// NewBinaryData returns BinaryData holding a copy of b.
func NewBinaryData(b []byte) *BinaryData {
	return &BinaryData{b: bytes.Clone(b)}
}

// Bytes returns a copy of the octets held by d.
func (d *BinaryData) Bytes() []byte {
	return bytes.Clone(d.b)
}

// readOctets returns the octets held by d. If d is a tree, errUnrecognizedData is returned.
func readOctets(d Data) ([]byte, error) {
	switch d := d.(type) {
	case *OctetStreamData:
		return io.ReadAll(d.Stream)
	case *BinaryData:
		return d.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %T", errUnrecognizedData, d)
}

// readTree returns the root element held by d, parsing it if d holds octets.
func readTree(d Data) (*etree.Element, error) {
	if ns, ok := d.(*NodeSetData); ok {
		return ns.Root, nil
	}

	b, err := readOctets(d)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: document has no root element", errUnrecognizedData)
	}
	return doc.Root(), nil
}

// writeData writes the octets held by d to w. A tree must be canonicalized before it is written.
func writeData(w io.Writer, d Data) error {
	switch d := d.(type) {
	case *OctetStreamData:
		_, err := io.Copy(w, d.Stream)
		return err
	case *BinaryData:
		_, err := w.Write(d.b)
		return err
	}
	return fmt.Errorf("%w: %T", errUnrecognizedData, d)
}

// snapshot returns a copy of d that is unaffected by later reads of, or changes to, d. Streams
// are read fully into memory. The returned Data replaces d as the input of any further
// processing.
func snapshot(d Data) (Data, Data, error) {
	switch d := d.(type) {
	case *NodeSetData:
		if d.Root == nil {
			return d, d, nil
		}
		return d, &NodeSetData{Root: d.Root.Copy()}, nil

	case *OctetStreamData:
		b, err := io.ReadAll(d.Stream)
		if err != nil {
			return nil, nil, err
		}
		if c, ok := d.Stream.(io.Closer); ok {
			if err := c.Close(); err != nil {
				return nil, nil, err
			}
		}

		in := &OctetStreamData{Stream: bytes.NewReader(b), URI: d.URI, MimeType: d.MimeType}
		return in, &octetSnapshot{b: b, uri: d.URI, mimeType: d.MimeType}, nil

	case *BinaryData:
		return d, NewBinaryData(d.b), nil
	}
	return d, d, nil
}

// octetSnapshot retains a stream that has been read into memory.
type octetSnapshot struct {
	b        []byte
	uri      string
	mimeType string
}

// data returns a fresh stream over the retained octets.
func (s *octetSnapshot) data() *OctetStreamData {
	return &OctetStreamData{Stream: bytes.NewReader(s.b), URI: s.uri, MimeType: s.mimeType}
}
