// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

/*
Package dsig implements the digest and validation of XML Signature References.

Digest

To digest data, create a Reference with a digest method, the URI of the data, and a source of
data:

	r, err := dsig.NewReference(dsig.DigestSHA256,
		dsig.OptReferenceURI("#obj"),
		dsig.OptReferenceConfig(dsig.Config{Dereferencer: dsig.NewDocumentDereferencer(doc)}),
	)

Then calculate the digest value. The returned transforms include any canonicalization transform
that was applied to an XML tree before it was digested, and should be recorded with the
Reference:

	ts, err := r.Digest(ctx)

Finally, add the Reference to a document:

	r.Marshal(signedInfo, "ds")

Validate

To validate a Reference, parse it from a document:

	r, err := dsig.UnmarshalReference(el, dsig.Config{SecureValidation: true})

Then compare the digest value it carries with the digest of the data it points at:

	ok, err := r.Validate(ctx)

A mismatch is reported as false, rather than as an error. The outcome is retained, so that
repeated calls to Validate do not dereference or digest the data again.
*/
package dsig
