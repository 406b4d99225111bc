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

// getKeyValue returns a command that displays an ECKeyValue for a public key.
func (c *command) getKeyValue() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:     "keyvalue <key_path>",
		Short:   "Display key value",
		Long:    "Display the ECKeyValue element of a PEM encoded EC public key.",
		Example: c.opts.rootPath + " keyvalue --id key-1 public.pem",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.initApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.KeyValue(args[0], id)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "value of the Id attribute")

	return cmd
}
