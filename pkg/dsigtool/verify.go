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

// getVerify returns a command that validates the References of a document.
func (c *command) getVerify() *cobra.Command {
	return &cobra.Command{
		Use:     "verify <xml_path>",
		Short:   "Validate references",
		Long:    "Validate the digest of each Reference in an XML document.",
		Example: c.opts.rootPath + " verify signed.xml",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Verify(cmd.Context(), args[0])
		},
		DisableFlagsInUseLine: true,
	}
}
