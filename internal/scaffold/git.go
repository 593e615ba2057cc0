// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultBranch is the branch new repositories start on.
const DefaultBranch = "main"

// InsideRepository reports whether dir, or one of its parents, is a git work tree.
func InsideRepository(dir string) (bool, error) {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, git.ErrRepositoryNotExists):
		return false, nil
	default:
		return false, fmt.Errorf("detecting git repository at %s: %w", dir, err)
	}
}

// InitRepository creates a git repository in dir with HEAD on DefaultBranch.
// Nothing is done when dir is already inside a repository; the returned bool
// reports whether a repository was created.
func InitRepository(dir string) (bool, error) {
	inside, err := InsideRepository(filepath.Dir(dir))
	if err != nil || inside {
		return false, err
	}

	_, err = git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch),
		},
	})
	if err != nil {
		return false, fmt.Errorf("initializing git repository: %w", err)
	}
	return true, nil
}
