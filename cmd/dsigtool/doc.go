// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

/*
Dsigtool is a program for XML Signature reference processing.

A set of commands are provided to inspect the elliptic curves, key values and signature values
used by XML Signature, and to create and verify Manifests over the Objects of a document.
*/
package main
