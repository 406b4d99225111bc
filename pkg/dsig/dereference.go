// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/russellhaering/goxmldsig/etreeutils"
)

// Dereferencer resolves the URI of a Reference to Data.
type Dereferencer interface {
	Dereference(ctx context.Context, r *Reference) (Data, error)
}

// DereferencerFunc is an adapter to allow the use of ordinary functions as a Dereferencer.
type DereferencerFunc func(ctx context.Context, r *Reference) (Data, error)

// Dereference calls f(ctx, r).
func (f DereferencerFunc) Dereference(ctx context.Context, r *Reference) (Data, error) {
	return f(ctx, r)
}

// idAttributes are the attribute names searched when resolving a same-document reference.
var idAttributes = []string{"Id", "ID", "id"}

// DocumentDereferencer resolves same-document references against an XML document:
//
//	""                    the whole document
//	"#xpointer(/)"        the whole document
//	"#id"                 the element carrying the ID
//	"#xpointer(id('id'))" the element carrying the ID
//
// Elements are returned as detached copies carrying the namespace declarations in scope at their
// original location.
type DocumentDereferencer struct {
	root *etree.Element
}

// NewDocumentDereferencer returns a DocumentDereferencer over doc.
func NewDocumentDereferencer(doc *etree.Document) *DocumentDereferencer {
	return &DocumentDereferencer{root: doc.Root()}
}

// newElementDereferencer returns a DocumentDereferencer over the document containing el.
func newElementDereferencer(el *etree.Element) *DocumentDereferencer {
	for el.Parent() != nil && el.Parent().Tag != "" {
		el = el.Parent()
	}
	return &DocumentDereferencer{root: el}
}

// Dereference resolves the URI of r.
func (d *DocumentDereferencer) Dereference(_ context.Context, r *Reference) (Data, error) {
	if !r.HasURI() {
		return nil, fmt.Errorf("%w: URI not present", errUnsupportedURI)
	}
	if d.root == nil {
		return nil, fmt.Errorf("%w: document has no root element", errIDNotFound)
	}

	uri := r.URI()

	switch {
	case uri == "", uri == "#xpointer(/)":
		el, err := detach(d.root)
		if err != nil {
			return nil, err
		}
		return &NodeSetData{Root: el}, nil

	case strings.HasPrefix(uri, "#xpointer(id(") && strings.HasSuffix(uri, "))"):
		id := strings.TrimSuffix(strings.TrimPrefix(uri, "#xpointer(id("), "))")
		if len(id) < 2 || (id[0] != '\'' && id[0] != '"') || id[len(id)-1] != id[0] {
			return nil, fmt.Errorf("%w: %v", errUnsupportedURI, uri)
		}
		return d.element(id[1 : len(id)-1])

	case strings.HasPrefix(uri, "#") && !strings.HasPrefix(uri, "#xpointer("):
		return d.element(uri[1:])
	}

	return nil, fmt.Errorf("%w: %v", errUnsupportedURI, uri)
}

// element returns the element with ID id.
func (d *DocumentDereferencer) element(id string) (Data, error) {
	var found []*etree.Element

	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, name := range idAttributes {
			if a := el.SelectAttr(name); a != nil && a.Space == "" && a.Value == id {
				found = append(found, el)
				break
			}
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(d.root)

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %v", errIDNotFound, id)
	case 1:
		el, err := detach(found[0])
		if err != nil {
			return nil, err
		}
		return &NodeSetData{Root: el}, nil
	}
	return nil, fmt.Errorf("%w: %v", errDuplicateID, id)
}

// detach returns a copy of el with the namespace declarations in scope for el.
func detach(el *etree.Element) (*etree.Element, error) {
	ctx, err := etreeutils.NSBuildParentContext(el)
	if err != nil {
		return nil, err
	}
	return etreeutils.NSDetatch(ctx, el)
}
