// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package dsigtool implements the dsigtool commands.
package dsigtool

import (
	"io"
	"os"

	"github.com/apptainer/xmldsig/pkg/dsig"
	"github.com/beevik/etree"
)

// appOpts contains configured options.
type appOpts struct {
	out              io.Writer
	secureValidation bool
	useC14N11        bool
	digestMethod     dsig.DigestMethod
}

// AppOpt are used to configure optional behavior.
type AppOpt func(*appOpts) error

// App holds state and configured options.
type App struct {
	opts appOpts
}

// OptAppOutput specifies that output should be written to w.
func OptAppOutput(w io.Writer) AppOpt {
	return func(o *appOpts) error {
		o.out = w
		return nil
	}
}

// OptAppSecureValidation specifies whether References are parsed with secure validation.
func OptAppSecureValidation(b bool) AppOpt {
	return func(o *appOpts) error {
		o.secureValidation = b
		return nil
	}
}

// OptAppC14N11 specifies whether trees are canonicalized with C14N 1.1, rather than C14N 1.0,
// before they are digested.
func OptAppC14N11(b bool) AppOpt {
	return func(o *appOpts) error {
		o.useC14N11 = b
		return nil
	}
}

// OptAppDigestMethod specifies the digest method of created References.
func OptAppDigestMethod(dm dsig.DigestMethod) AppOpt {
	return func(o *appOpts) error {
		o.digestMethod = dm
		return nil
	}
}

// New creates a new App configured with opts.
func New(opts ...AppOpt) (*App, error) {
	a := App{
		opts: appOpts{
			out:          os.Stdout,
			digestMethod: dsig.DigestSHA256,
		},
	}

	for _, opt := range opts {
		if err := opt(&a.opts); err != nil {
			return nil, err
		}
	}

	return &a, nil
}

// config returns the Reference configuration of a, resolving URIs against doc.
func (a *App) config(doc *etree.Document) dsig.Config {
	return dsig.Config{
		SecureValidation: a.opts.secureValidation,
		UseC14N11:        a.opts.useC14N11,
		Dereferencer:     dsig.NewDocumentDereferencer(doc),
	}
}
