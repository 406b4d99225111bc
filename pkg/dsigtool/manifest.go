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

// getManifest returns a command that creates and validates Manifests.
func (c *command) getManifest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Create and validate manifests",
		Long:  "Create a document holding a Manifest over a set of files, or validate such a document.",
	}

	create := &cobra.Command{
		Use:     "create <path>...",
		Short:   "Create manifest",
		Long:    "Create a document holding each file as an Object, and a Manifest that references them.",
		Example: c.opts.rootPath + " manifest create --digest sha512 a.bin b.bin > bundle.xml",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.CreateManifest(cmd.Context(), args)
		},
	}
	create.Flags().StringVar(&c.opts.digest, "digest", "sha256", "digest algorithm of each reference")

	verify := &cobra.Command{
		Use:     "verify <xml_path>",
		Short:   "Validate manifests",
		Long:    "Validate each Manifest in an XML document.",
		Example: c.opts.rootPath + " manifest verify bundle.xml",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.VerifyManifest(cmd.Context(), args[0])
		},
		DisableFlagsInUseLine: true,
	}

	cmd.AddCommand(create, verify)

	return cmd
}
