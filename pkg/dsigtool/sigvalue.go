// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsigtool

import (
	"strings"

	"github.com/spf13/cobra"
)

// getSigValueExamples returns sigvalue command examples based on rootPath.
func getSigValueExamples(rootPath string) string {
	examples := []string{
		rootPath + " sigvalue fixed 3006020101020102",
		rootPath + " sigvalue der --size 2 00010002",
	}
	return strings.Join(examples, "\n")
}

// getSigValue returns a command that converts between signature value layouts.
func (c *command) getSigValue() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:     "sigvalue",
		Short:   "Convert signature values",
		Long:    "Convert ECDSA signature values between the DER and fixed width layouts.",
		Example: getSigValueExamples(c.opts.rootPath),
	}

	cmd.PersistentFlags().IntVar(&size, "size", 32, "size of each integer in the fixed width layout")

	cmd.AddCommand(
		&cobra.Command{
			Use:     "fixed <hex>",
			Short:   "Convert DER to fixed width",
			Long:    "Convert a hex encoded DER signature value to the fixed width layout.",
			Args:    cobra.ExactArgs(1),
			PreRunE: c.initApp,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.app.SignatureToFixedWidth(args[0], size)
			},
		},
		&cobra.Command{
			Use:     "der <hex>",
			Short:   "Convert fixed width to DER",
			Long:    "Convert a hex encoded fixed width signature value to the DER layout.",
			Args:    cobra.ExactArgs(1),
			PreRunE: c.initApp,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.app.SignatureToDER(args[0], size)
			},
		},
	)

	return cmd
}
