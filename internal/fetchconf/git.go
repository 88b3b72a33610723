package fetchconf

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Git is the subset of git operations the fetcher needs.
type Git interface {
	// RemoteBranches lists the branch names advertised by the remote.
	RemoteBranches(ctx context.Context, url string) ([]string, error)
	// CloneBranch clones only the given branch into dir.
	CloneBranch(ctx context.Context, url, branch, dir string) error
	// CloneCommit clones the whole repository into dir and checks out commit.
	CloneCommit(ctx context.Context, url, commit, dir string) error
}

// GoGit implements Git on top of go-git, without needing a git binary.
type GoGit struct{}

func (GoGit) RemoteBranches(ctx context.Context, url string) ([]string, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{url},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("cannot list references of %s: %w", url, err)
	}

	var branches []string
	for _, ref := range refs {
		if ref.Name().IsBranch() {
			branches = append(branches, ref.Name().Short())
		}
	}
	return branches, nil
}

func (GoGit) CloneBranch(ctx context.Context, url, branch, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
	})
	if err != nil {
		return fmt.Errorf("cannot clone branch %s of %s: %w", branch, url, err)
	}
	return nil
}

func (GoGit) CloneCommit(ctx context.Context, url, commit, dir string) error {
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		return fmt.Errorf("cannot clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(commit))
	if err != nil {
		return fmt.Errorf("cannot resolve commit %s in %s: %w", commit, url, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	err = worktree.Checkout(&git.CheckoutOptions{Hash: *hash})
	if err != nil {
		return fmt.Errorf("cannot check out %s: %w", commit, err)
	}
	return nil
}
