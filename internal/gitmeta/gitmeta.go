// SPDX-License-Identifier: Apache-2.0

// Package gitmeta resolves the current git commit of a workflow's target
// directory, recorded as metadata.source_commit so a workflow snapshot
// records what revision of the tree it was created against.
package gitmeta

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// CommitSHA returns the HEAD commit SHA of the git repository containing
// dir, searching parent directories for .git the way git itself does. A
// directory that is not inside a git repository is not an error: it
// returns "" and a nil error, since a workflow need not live in a repo.
func CommitSHA(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("opening git repository at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, git.ErrReferenceNotFound) {
			// Repository exists but has no commits yet.
			return "", nil
		}
		return "", fmt.Errorf("resolving HEAD for %s: %w", dir, err)
	}

	return head.Hash().String(), nil
}
