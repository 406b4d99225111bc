// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsigtool

import (
	"github.com/spf13/cobra"
)

// getCurves returns a command that lists the supported elliptic curves.
func (c *command) getCurves() *cobra.Command {
	return &cobra.Command{
		Use:     "curves",
		Short:   "List elliptic curves",
		Long:    "List the elliptic curves that may be named by an ECKeyValue.",
		Example: c.opts.rootPath + " curves",
		Args:    cobra.ExactArgs(0),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Curves()
		},
		DisableFlagsInUseLine: true,
	}
}

// getPoint returns a command that decodes an encoded elliptic curve point.
func (c *command) getPoint() *cobra.Command {
	return &cobra.Command{
		Use:     "point <curve_oid> <point>",
		Short:   "Decode curve point",
		Long:    "Decode a base64 encoded elliptic curve point, and display its coordinates.",
		Example: c.opts.rootPath + " point 1.2.840.10045.3.1.7 BGsX0fLhLEJH...",
		Args:    cobra.ExactArgs(2),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.DecodePoint(args[0], args[1])
		},
		DisableFlagsInUseLine: true,
	}
}
