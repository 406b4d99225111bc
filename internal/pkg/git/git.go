// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package git derives build information for dsigtool from the state of a git repository.
package git

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blang/semver/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

var errTagNotFound = errors.New("semantic version tag not found")

// tagVersions returns the semantic versions tagged in r, keyed by the hash of the tagged commit.
// Tags that do not parse as a semantic version are ignored.
func tagVersions(r *git.Repository) (map[plumbing.Hash]semver.Version, error) {
	iter, err := r.Tags()
	if err != nil {
		return nil, err
	}

	versions := make(map[plumbing.Hash]semver.Version)

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		v, err := semver.Parse(strings.TrimPrefix(ref.Name().Short(), "v"))
		if err != nil {
			return nil
		}

		switch tag, err := r.TagObject(ref.Hash()); {
		case err == nil:
			versions[tag.Target] = v
		case errors.Is(err, plumbing.ErrObjectNotFound):
			versions[ref.Hash()] = v
		default:
			return err
		}
		return nil
	})
	return versions, err
}

// Description describes a commit relative to the nearest reachable semantic version tag.
type Description struct {
	clean  bool
	commit *object.Commit
	tag    *semver.Version
	n      uint64
}

// DescribeRevision returns a Description of rev in r.
func DescribeRevision(r *git.Repository, rev plumbing.Revision) (*Description, error) {
	h, err := r.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}

	c, err := r.CommitObject(*h)
	if err != nil {
		return nil, err
	}

	versions, err := tagVersions(r)
	if err != nil {
		return nil, err
	}

	d := Description{commit: c}

	commits, err := r.Log(&git.LogOptions{
		Order: git.LogOrderCommitterTime,
		From:  c.Hash,
	})
	if err != nil {
		return nil, err
	}

	err = commits.ForEach(func(c *object.Commit) error {
		if v, ok := versions[c.Hash]; ok {
			d.tag = &v
			return storer.ErrStop
		}
		d.n++
		return nil
	})
	if err != nil {
		return nil, err
	}

	w, err := r.Worktree()
	switch {
	case errors.Is(err, git.ErrIsBareRepository):
		d.clean = true
	case err != nil:
		return nil, err
	default:
		status, err := w.Status()
		if err != nil {
			return nil, err
		}
		d.clean = status.IsClean()
	}

	return &d, nil
}

// Describe returns a Description of HEAD of the git repository at path.
func Describe(path string) (*Description, error) {
	r, err := git.PlainOpen(path)
	if err != nil {
		return nil, err
	}

	return DescribeRevision(r, plumbing.Revision(plumbing.HEAD))
}

// IsClean reports whether the working tree is free of local modifications.
func (d *Description) IsClean() bool { return d.clean }

// CommitHash returns the hash of the described commit.
func (d *Description) CommitHash() string { return d.commit.Hash.String() }

// CommitTime returns the committer time of the described commit.
func (d *Description) CommitTime() time.Time { return d.commit.Committer.When }

// Version returns a semantic version for the described commit. If the commit is tagged directly,
// the tagged version is returned. Otherwise, a development version is derived that sorts after
// the nearest tag:
//
//   - v0.1.2-alpha.1 with one commit since gives 0.1.2-alpha.1.0.devel.1
//   - v0.1.2 with one commit since gives 0.1.3-0.devel.1
//   - v0.1.3 with no commits since gives 0.1.3
func (d *Description) Version() (semver.Version, error) {
	if d.tag == nil {
		return semver.Version{}, errTagNotFound
	}

	v := *d.tag
	if d.n == 0 {
		return v, nil
	}

	if len(v.Pre) == 0 {
		v.Patch++
	}

	v.Pre = append(v.Pre,
		semver.PRVersion{VersionNum: 0, IsNum: true},
		semver.PRVersion{VersionStr: "devel"},
		semver.PRVersion{VersionNum: d.n, IsNum: true},
	)
	return v, nil
}

// LDFlags returns linker flags that set the build information variables of package main.
func (d *Description) LDFlags(builtBy string) (string, error) {
	vars := []string{
		"main.builtBy=" + builtBy,
		"main.commit=" + d.CommitHash(),
		"main.date=" + d.CommitTime().UTC().Format(time.RFC3339),
	}

	switch v, err := d.Version(); {
	case err == nil:
		vars = append(vars, "main.version="+v.String())
	case !errors.Is(err, errTagNotFound):
		return "", err
	}

	if !d.IsClean() {
		vars = append(vars, "main.state=dirty")
	}

	var sb strings.Builder
	for i, v := range vars {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "-X %v", v)
	}
	return sb.String(), nil
}
