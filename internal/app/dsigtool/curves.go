// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsigtool

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"text/tabwriter"

	"github.com/apptainer/xmldsig/pkg/curve"
	"github.com/apptainer/xmldsig/pkg/ecpoint"
)

// Curves displays the registered elliptic curves.
func (a *App) Curves() error {
	tw := tabwriter.NewWriter(a.opts.out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "OID\tFIELD SIZE\tNAME")

	for _, c := range curve.Curves() {
		fmt.Fprintf(tw, "%v\t%v\t%v\n", c.OID(), c.FieldSize(), c.Name())
	}

	return tw.Flush()
}

// DecodePoint displays the coordinates of the base64 encoded point s, on the curve identified
// by oid.
func (a *App) DecodePoint(oid, s string) error {
	c, ok := curve.FindCurve(oid)
	if !ok {
		return fmt.Errorf("%w: %v", errCurveUnsupported, oid)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("while decoding point: %w", err)
	}

	p, err := ecpoint.Decode(b, c)
	if err != nil {
		return err
	}

	if !c.IsOnCurve(p.X, p.Y) {
		return errPointNotOnCurve
	}

	n := ecpoint.EncodedLen(c) / 2

	tw := tabwriter.NewWriter(a.opts.out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Curve:\t%v\n", c.Name())
	fmt.Fprintf(tw, "X:\t%v\n", hex.EncodeToString(p.X.FillBytes(make([]byte, n))))
	fmt.Fprintf(tw, "Y:\t%v\n", hex.EncodeToString(p.Y.FillBytes(make([]byte, n))))

	return tw.Flush()
}
