// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/apptainer/xmldsig/pkg/curve"
	"github.com/apptainer/xmldsig/pkg/dsig"
	"github.com/apptainer/xmldsig/pkg/dsigtool"
	"github.com/apptainer/xmldsig/pkg/keyinfo"
	"github.com/containerd/log"
	"github.com/spf13/cobra"
)

var (
	version = "unknown"
	date    = ""
	builtBy = ""
	commit  = ""
	state   = ""
)

// digestNames returns the short names of the supported digest methods.
func digestNames() []string {
	dms := dsig.DigestMethods()

	names := make([]string, 0, len(dms))
	for _, dm := range dms {
		name := string(dm)
		if i := strings.LastIndex(name, "#"); i >= 0 {
			name = name[i+1:]
		}
		names = append(names, name)
	}
	return names
}

// writeVersion writes the build of dsigtool, followed by the algorithms it understands.
func writeVersion(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "dsigtool:\t%v (%v, %v/%v)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	if commit != "" {
		rev := commit
		if state != "" {
			rev += " (" + state + ")"
		}
		if date != "" {
			rev += " at " + date
		}
		if builtBy != "" {
			rev += " by " + builtBy
		}
		fmt.Fprintf(tw, "Built from:\t%v\n", rev)
	}

	fmt.Fprintf(tw, "Namespaces:\t%v\n", strings.Join([]string{dsig.Namespace, keyinfo.Namespace11}, " "))
	fmt.Fprintf(tw, "Digests:\t%v\n", strings.Join(digestNames(), " "))
	fmt.Fprintf(tw, "Curves:\t%v registered\n", len(curve.Curves()))

	return tw.Flush()
}

func getVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display dsigtool version and supported algorithms",
		Long: `Display the dsigtool release and the revision it was built from, followed by the XML
Signature namespaces and algorithms that dsigtool understands.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout())
		},
		DisableFlagsInUseLine: true,
	}
}

func main() {
	var level, format string

	root := cobra.Command{
		Use:   "dsigtool",
		Short: "dsigtool is a program for XML Signature reference processing",
		Long: `A set of commands are provided to inspect the elliptic curves, key values and
signature values used by XML Signature, and to create and verify Manifests over
the Objects of a document.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.SetLevel(level); err != nil {
				return err
			}
			return log.SetFormat(log.OutputFormat(format))
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&format, "log-format", string(log.TextFormat), "log format (text, json)")

	root.AddCommand(getVersion())

	if err := dsigtool.AddCommands(&root); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
