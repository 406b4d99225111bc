// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

//go:build mage

package main

import (
	"github.com/apptainer/xmldsig/internal/pkg/git"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const cmdPackage = "./cmd/dsigtool"

// Aliases defines command-line aliases exposed by Mage.
var Aliases = map[string]interface{}{
	"build":   Build.All,
	"cover":   Cover.All,
	"install": Install.All,
	"test":    Test.All,
}

// ldFlags returns linker flags that embed build information for HEAD of the working directory.
func ldFlags() (string, error) {
	d, err := git.Describe(".")
	if err != nil {
		return "", err
	}

	return d.LDFlags("mage")
}

// goWithLDFlags runs the go sub-command verb on cmdPackage, embedding build information.
func goWithLDFlags(verb string) error {
	flags, err := ldFlags()
	if err != nil {
		return err
	}

	return sh.RunV(mg.GoCmd(), verb, "-trimpath", "-ldflags", flags, cmdPackage)
}

type Build mg.Namespace

// All compiles all assets.
func (ns Build) All() {
	mg.Deps(ns.Source)
}

// Source compiles all source code.
func (Build) Source() error {
	return goWithLDFlags("build")
}

type Install mg.Namespace

// All installs all assets.
func (ns Install) All() {
	mg.Deps(ns.Bin)
}

// Bin installs binary to GOBIN.
func (Install) Bin() error {
	return goWithLDFlags("install")
}

type Test mg.Namespace

// All runs all tests.
func (ns Test) All() {
	mg.Deps(ns.Unit)
}

// Unit runs all unit tests.
func (Test) Unit() error {
	return sh.RunV(mg.GoCmd(), "test", "-race", "./...")
}

type Cover mg.Namespace

// All runs all tests, writing coverage profile to the specified path.
func (ns Cover) All(path string) {
	mg.Deps(mg.F(ns.Unit, path))
}

// Unit runs all unit tests, writing coverage profile to the specified path.
func (Cover) Unit(path string) error {
	return sh.RunV(mg.GoCmd(), "test", "-race", "-covermode", "atomic", "-coverprofile", path, "./...")
}
