// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

package dsigtool

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/apptainer/xmldsig/internal/app/dsigtool"
	"github.com/apptainer/xmldsig/pkg/dsig"
	"github.com/apptainer/xmldsig/pkg/sigvalue"
	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
)

var (
	documents = filepath.Join("..", "..", "test", "documents")
	keys      = filepath.Join("..", "..", "test", "keys")
)

func runCommand(t *testing.T, cmd *cobra.Command, args []string, wantErr error) {
	t.Helper()

	var out, err bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&err)

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.SetArgs(args)

	if got, want := cmd.Execute(), wantErr; !errors.Is(got, want) {
		t.Fatalf("got error %v, want %v", got, want)
	}

	g := goldie.New(t,
		goldie.WithTestNameForDir(true),
		goldie.WithSubTestNameForDir(true),
	)
	g.Assert(t, "out", out.Bytes())
	g.Assert(t, "err", err.Bytes())
}

func TestAddCommands(t *testing.T) {
	cmd := &cobra.Command{
		Use: "dsigtool",
	}

	if err := AddCommands(cmd, OptWithSecureValidation(false)); err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	want := []string{"curves", "keyvalue", "manifest", "point", "sigvalue", "verify"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("unexpected commands (-want +got):\n%v", diff)
	}

	f := cmd.PersistentFlags().Lookup("secure-validation")
	if f == nil {
		t.Fatal("secure-validation flag not found")
	}
	if got, want := f.DefValue, "false"; got != want {
		t.Errorf("got default %v, want %v", got, want)
	}

	if cmd.PersistentFlags().Lookup("c14n11") == nil {
		t.Error("c14n11 flag not found")
	}
}

func Test_digestMethod(t *testing.T) {
	tests := []struct {
		name    string
		want    dsig.DigestMethod
		wantErr error
	}{
		{name: "sha1", want: dsig.DigestSHA1},
		{name: "sha256", want: dsig.DigestSHA256},
		{name: "SHA512", want: dsig.DigestSHA512},
		{name: "sha3-256", want: dsig.DigestSHA3_256},
		{name: "ripemd160", want: dsig.DigestRIPEMD160},
		{name: "sha0", wantErr: errDigestUnsupported},
		{name: "", wantErr: errDigestUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := digestMethod(tt.name)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_command_getCurves(t *testing.T) {
	c := &command{}

	cmd := c.getCurves()

	runCommand(t, cmd, []string{}, nil)
}

func Test_command_getPoint(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "Generator",
			args: []string{
				"1.2.840.10045.3.1.7",
				"BGsX0fLhLEJH+Lzm5WOkQPJ3A32BLeszoPShOUXYmMKWT+NC4v4af5uO5+tKfA+eFivOM1drMV7Oy7ZAaDe/UfU=",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &command{}

			cmd := c.getPoint()

			runCommand(t, cmd, tt.args, nil)
		})
	}
}

func Test_command_getKeyValue(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name: "P256",
			args: []string{filepath.Join(keys, "ecdsa-p256-public.pem")},
		},
		{
			name: "P256WithID",
			args: []string{"--id", "key-1", filepath.Join(keys, "ecdsa-p256-public.pem")},
		},
		{
			name:    "NotExist",
			args:    []string{"not-exist.pem"},
			wantErr: os.ErrNotExist,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &command{}

			cmd := c.getKeyValue()

			runCommand(t, cmd, tt.args, tt.wantErr)
		})
	}
}

func Test_command_getSigValue(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name: "Fixed",
			args: []string{"fixed", "--size", "2", "3006020101020102"},
		},
		{
			name: "DER",
			args: []string{"der", "--size", "2", "00010002"},
		},
		{
			name:    "FixedSizeTooLarge",
			args:    []string{"fixed", "--size", "4611686018427387904", "3006020101020102"},
			wantErr: &sigvalue.FormatError{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &command{}

			cmd := c.getSigValue()

			runCommand(t, cmd, tt.args, tt.wantErr)
		})
	}
}

func Test_command_getVerify(t *testing.T) {
	tests := []struct {
		name    string
		opts    commandOpts
		path    string
		wantErr error
	}{
		{
			name: "Signed",
			opts: commandOpts{secureValidation: true},
			path: filepath.Join(documents, "signed.xml"),
		},
		{
			name:    "Tampered",
			opts:    commandOpts{secureValidation: true},
			path:    filepath.Join(documents, "tampered.xml"),
			wantErr: dsigtool.ErrReferencesInvalid,
		},
		{
			name:    "NotExist",
			path:    filepath.Join(documents, "not-exist.xml"),
			wantErr: os.ErrNotExist,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &command{opts: tt.opts}

			cmd := c.getVerify()

			runCommand(t, cmd, []string{tt.path}, tt.wantErr)
		})
	}
}

func Test_command_getManifest(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name: "Verify",
			args: []string{"verify", filepath.Join(documents, "signed.xml")},
		},
		{
			name:    "VerifyTampered",
			args:    []string{"verify", filepath.Join(documents, "tampered.xml")},
			wantErr: dsigtool.ErrReferencesInvalid,
		},
		{
			name:    "CreateDigestUnsupported",
			args:    []string{"create", "--digest", "sha0", filepath.Join(documents, "signed.xml")},
			wantErr: errDigestUnsupported,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &command{}

			cmd := c.getManifest()

			runCommand(t, cmd, tt.args, tt.wantErr)
		})
	}
}
