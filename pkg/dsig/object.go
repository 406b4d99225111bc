// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Object is an Object element, which carries arbitrary content that References may point at.
type Object struct {
	id       string
	mimeType string
	encoding string
	text     string
	elements []*etree.Element
}

// ObjectOpt are used to configure an Object.
type ObjectOpt func(o *Object) error

// OptObjectID sets the Id of the Object.
func OptObjectID(id string) ObjectOpt {
	return func(o *Object) error {
		o.id = id
		return nil
	}
}

// OptObjectGeneratedID sets the Id of the Object to a newly generated unique value.
func OptObjectGeneratedID() ObjectOpt {
	return func(o *Object) error {
		id, err := uuid.NewRandom()
		if err != nil {
			return err
		}
		o.id = "id-" + id.String()
		return nil
	}
}

// OptObjectMimeType sets the MimeType of the Object.
func OptObjectMimeType(mimeType string) ObjectOpt {
	return func(o *Object) error {
		o.mimeType = mimeType
		return nil
	}
}

// OptObjectEncoding sets the Encoding of the Object, such as Base64.
func OptObjectEncoding(encoding string) ObjectOpt {
	return func(o *Object) error {
		o.encoding = encoding
		return nil
	}
}

// OptObjectContent appends copies of els to the content of the Object.
func OptObjectContent(els ...*etree.Element) ObjectOpt {
	return func(o *Object) error {
		for _, el := range els {
			o.elements = append(o.elements, el.Copy())
		}
		return nil
	}
}

// OptObjectText sets the character content of the Object, which precedes any element content.
func OptObjectText(text string) ObjectOpt {
	return func(o *Object) error {
		o.text = text
		return nil
	}
}

// NewObject returns an Object configured by opts.
func NewObject(opts ...ObjectOpt) (*Object, error) {
	var o Object

	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	return &o, nil
}

// ID returns the Id of o, or the empty string if none is set.
func (o *Object) ID() string { return o.id }

// MimeType returns the MimeType of o, or the empty string if none is set.
func (o *Object) MimeType() string { return o.mimeType }

// Encoding returns the Encoding of o, or the empty string if none is set.
func (o *Object) Encoding() string { return o.encoding }

// Text returns the character content of o.
func (o *Object) Text() string { return o.text }

// Content returns copies of the element content of o.
func (o *Object) Content() []*etree.Element {
	els := make([]*etree.Element, 0, len(o.elements))
	for _, el := range o.elements {
		els = append(els, el.Copy())
	}
	return els
}

// Marshal adds an Object element for o to parent.
func (o *Object) Marshal(parent *etree.Element, prefix string) *etree.Element {
	el := parent.CreateElement(qualify(prefix, "Object"))
	declareNamespace(el, prefix, Namespace)

	if o.id != "" {
		el.CreateAttr("Id", o.id)
	}
	if o.mimeType != "" {
		el.CreateAttr("MimeType", o.mimeType)
	}
	if o.encoding != "" {
		el.CreateAttr("Encoding", o.encoding)
	}

	if o.text != "" {
		el.SetText(o.text)
	}
	for _, child := range o.elements {
		el.AddChild(child.Copy())
	}

	return el
}

// UnmarshalObject parses the Object element el.
func UnmarshalObject(el *etree.Element) (*Object, error) {
	if err := expectElement(el, "Object"); err != nil {
		return nil, err
	}

	o := Object{
		id:       el.SelectAttrValue("Id", ""),
		mimeType: el.SelectAttrValue("MimeType", ""),
		encoding: el.SelectAttrValue("Encoding", ""),
		text:     el.Text(),
	}

	for _, child := range el.ChildElements() {
		o.elements = append(o.elements, child.Copy())
	}

	return &o, nil
}
