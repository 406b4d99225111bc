// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsig

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
)

// applyTransforms applies ts to data in order. Only the final transform is given w, so that it
// may write its output directly to the digest.
func applyTransforms(ctx context.Context, ts []Transform, data Data, w io.Writer) (Data, error) {
	for i, t := range ts {
		var sink io.Writer
		if i == len(ts)-1 {
			sink = w
		}

		out, err := t.Transform(ctx, data, sink)
		if err != nil {
			var te *TransformError
			if !errors.As(err, &te) {
				err = &TransformError{Algorithm: t.Algorithm(), Err: err}
			}
			return nil, err
		}

		// Intermediate streams are consumed by the next transform.
		if i > 0 && out != data {
			if err := closeData(data); err != nil {
				return nil, multierr.Append(&TransformError{Algorithm: t.Algorithm(), Err: err}, closeData(out))
			}
		}

		data = out
	}
	return data, nil
}

// paramsString returns the serialized children of the Transform element params.
func paramsString(params *etree.Element) string {
	if params == nil {
		return ""
	}

	doc := etree.NewDocument()
	for _, child := range params.ChildElements() {
		doc.AddChild(child.Copy())
	}

	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
