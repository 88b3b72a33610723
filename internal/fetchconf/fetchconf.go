// Package fetchconf copies the rpminspect configuration kept in a package's
// dist-git repository next to the test run.
package fetchconf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ConfigFiles are looked up at the root of the repository, in this order.
var ConfigFiles = []string{"rpminspect.yaml", "rpminspect.json", "rpminspect.dson"}

// ErrNoRevision is returned when neither a branch nor a commit can be
// checked out. It is not retried.
var ErrNoRevision = errors.New("no branch or commit to check out")

type Fetcher struct {
	git        Git
	retries    int
	retryDelay time.Duration
}

func NewFetcher(git Git, retries int, retryDelay time.Duration) *Fetcher {
	if retries < 1 {
		retries = 1
	}
	return &Fetcher{
		git:        git,
		retries:    retries,
		retryDelay: retryDelay,
	}
}

// Fetch clones repoURL at the first of branches that exists on the remote,
// or at commit when none does, and copies the configuration files found
// into destDir. The names of the copied files are returned. The whole
// operation is retried when it fails.
func (f *Fetcher) Fetch(ctx context.Context, repoURL string, branches []string, commit, destDir string) ([]string, error) {
	var copied []string
	operation := func() error {
		var err error
		copied, err = f.fetch(ctx, repoURL, branches, commit, destDir)
		if errors.Is(err, context.Canceled) || errors.Is(err, ErrNoRevision) {
			return backoff.Permanent(err)
		}
		return err
	}

	attempt := 0
	notify := func(err error, wait time.Duration) {
		attempt++
		logrus.WithError(err).Warnf("Fetching configuration failed (attempt %d of %d), retrying in %v", attempt, f.retries, wait)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(f.retryDelay), uint64(f.retries-1)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return copied, nil
}

func (f *Fetcher) selectBranch(ctx context.Context, repoURL string, branches []string) (string, error) {
	remote, err := f.git.RemoteBranches(ctx, repoURL)
	if err != nil {
		return "", err
	}
	existing := make(map[string]bool, len(remote))
	for _, b := range remote {
		existing[b] = true
	}
	for _, b := range branches {
		if existing[b] {
			return b, nil
		}
	}
	return "", nil
}

func (f *Fetcher) fetch(ctx context.Context, repoURL string, branches []string, commit, destDir string) ([]string, error) {
	branch, err := f.selectBranch(ctx, repoURL, branches)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "rpminspect-config-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	if branch != "" {
		logrus.Infof("Cloning %s (branch: %s)...", repoURL, branch)
		err = f.git.CloneBranch(ctx, repoURL, branch, tmpDir)
	} else {
		if commit == "" {
			return nil, fmt.Errorf("none of the branches %v exist in %s: %w", branches, repoURL, ErrNoRevision)
		}
		logrus.Infof("Cloning %s (commit: %s)...", repoURL, commit)
		err = f.git.CloneCommit(ctx, repoURL, commit, tmpDir)
	}
	if err != nil {
		return nil, err
	}

	return copyConfigFiles(tmpDir, destDir)
}

func copyConfigFiles(repoDir, destDir string) ([]string, error) {
	var copied []string
	for _, name := range ConfigFiles {
		src := filepath.Join(repoDir, name)
		info, err := os.Stat(src)
		if err != nil || !info.Mode().IsRegular() {
			logrus.Infof("No %s in the repository...", name)
			continue
		}

		logrus.Infof("%s file found!", name)
		content, err := os.ReadFile(src)
		if err != nil {
			return copied, err
		}
		if err := validate(name, content); err != nil {
			logrus.WithError(err).Warnf("%s does not parse, rpminspect will likely reject it", name)
		}
		if err := os.WriteFile(filepath.Join(destDir, name), content, info.Mode().Perm()); err != nil {
			return copied, err
		}
		copied = append(copied, name)
	}
	return copied, nil
}

func validate(name string, content []byte) error {
	switch filepath.Ext(name) {
	case ".yaml":
		var v interface{}
		return yaml.Unmarshal(content, &v)
	case ".json":
		if !json.Valid(content) {
			return errors.New("invalid JSON")
		}
	}
	return nil
}
