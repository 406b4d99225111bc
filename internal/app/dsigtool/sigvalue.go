// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsigtool

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/apptainer/xmldsig/pkg/sigvalue"
)

// decodeHex decodes s, ignoring whitespace and colon separators.
func decodeHex(s string) ([]byte, error) {
	s = strings.NewReplacer(":", "", " ", "", "\n", "", "\t", "").Replace(s)

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("while decoding signature value: %w", err)
	}
	return b, nil
}

// SignatureToFixedWidth displays the DER encoded signature value s in the fixed width layout,
// with each integer padded to size bytes.
func (a *App) SignatureToFixedWidth(s string, size int) error {
	der, err := decodeHex(s)
	if err != nil {
		return err
	}

	b, err := sigvalue.ToFixedWidth(der, size)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.opts.out, hex.EncodeToString(b))
	return err
}

// SignatureToDER displays the fixed width signature value s in the DER layout. Each integer in s
// must be size bytes.
func (a *App) SignatureToDER(s string, size int) error {
	b, err := decodeHex(s)
	if err != nil {
		return err
	}

	der, err := sigvalue.ToMinimal(b, size)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.opts.out, hex.EncodeToString(der))
	return err
}
