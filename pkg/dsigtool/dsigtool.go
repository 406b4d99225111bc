// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package dsigtool adds dsigtool commands to a parent cobra.Command.
package dsigtool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apptainer/xmldsig/internal/app/dsigtool"
	"github.com/apptainer/xmldsig/pkg/dsig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errDigestUnsupported = errors.New("digest algorithm not supported")

// command contains options and command state.
type command struct {
	opts commandOpts
	app  *dsigtool.App
}

// digestMethod returns the digest method named name. The name of a method is the fragment of its
// algorithm identifier, such as "sha256" or "sha3-256".
func digestMethod(name string) (dsig.DigestMethod, error) {
	for _, dm := range dsig.DigestMethods() {
		if _, frag, ok := strings.Cut(string(dm), "#"); ok && strings.EqualFold(frag, name) {
			return dm, nil
		}
	}
	return "", fmt.Errorf("%w: %v", errDigestUnsupported, name)
}

// initApp initializes the dsigtool app.
func (c *command) initApp(cmd *cobra.Command, _ []string) error {
	opts := []dsigtool.AppOpt{
		dsigtool.OptAppOutput(cmd.OutOrStdout()),
		dsigtool.OptAppSecureValidation(c.opts.secureValidation),
		dsigtool.OptAppC14N11(c.opts.c14n11),
	}

	if c.opts.digest != "" {
		dm, err := digestMethod(c.opts.digest)
		if err != nil {
			return err
		}
		opts = append(opts, dsigtool.OptAppDigestMethod(dm))
	}

	app, err := dsigtool.New(opts...)
	c.app = app
	return err
}

// commandOpts contains configured options.
type commandOpts struct {
	rootPath         string
	secureValidation bool
	c14n11           bool
	digest           string
}

// CommandOpt are used to configure optional command behavior.
type CommandOpt func(*commandOpts) error

// OptWithSecureValidation sets the default of the secure validation flag.
func OptWithSecureValidation(b bool) CommandOpt {
	return func(co *commandOpts) error {
		co.secureValidation = b
		return nil
	}
}

// addGlobalFlags declares the command line flags shared by all commands.
func addGlobalFlags(fs *pflag.FlagSet, co *commandOpts) {
	fs.BoolVar(&co.secureValidation, "secure-validation", co.secureValidation,
		"reject forbidden algorithms and excessive transforms")
	fs.BoolVar(&co.c14n11, "c14n11", co.c14n11,
		"canonicalize trees with C14N 1.1 before digesting")
}

// AddCommands adds dsigtool commands to cmd according to opts.
//
// A set of commands are provided to inspect the elliptic curves, key values and signature values
// used by XML Signature, and to create and verify Manifests over the Objects of a document.
func AddCommands(cmd *cobra.Command, opts ...CommandOpt) error {
	c := command{
		opts: commandOpts{
			rootPath:         cmd.CommandPath(),
			secureValidation: true,
		},
	}

	for _, opt := range opts {
		if err := opt(&c.opts); err != nil {
			return err
		}
	}

	addGlobalFlags(cmd.PersistentFlags(), &c.opts)

	cmd.AddCommand(
		c.getCurves(),
		c.getPoint(),
		c.getKeyValue(),
		c.getSigValue(),
		c.getVerify(),
		c.getManifest(),
	)

	return nil
}
