// Package buildsource finds the dist-git URL and commit a Koji build or
// task was built from.
package buildsource

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fedora-ci/rpminspect-runner/internal/koji"
)

var ErrNoSource = errors.New("no source URL recorded")

// Source is printed as JSON by rpminspect-source-url.
type Source struct {
	SourceURL string `json:"source_url"`
	Commit    string `json:"commit"`
}

// ParseOriginalURL splits a Koji source URL such as
// git+https://src.fedoraproject.org/rpms/bash.git#0123abcd.
func ParseOriginalURL(originalURL string) (*Source, error) {
	url := strings.TrimPrefix(originalURL, "git+")
	repo, commit, found := strings.Cut(url, "#")
	if !found || repo == "" || commit == "" {
		return nil, fmt.Errorf("cannot parse source URL %q: expected <repository>#<commit>", originalURL)
	}
	// anything past a second '#' is not part of the commit
	commit, _, _ = strings.Cut(commit, "#")

	return &Source{
		SourceURL: repo,
		Commit:    commit,
	}, nil
}

// Hub is the part of the Koji API the resolver needs.
type Hub interface {
	GetBuild(nvr string) (*koji.BuildInfo, error)
	GetTaskInfo(taskID int, request bool) (*koji.TaskInfo, error)
	ListBuilds(taskID int) ([]koji.BuildInfo, error)
}

type Resolver struct {
	hub Hub
}

func NewResolver(hub Hub) *Resolver {
	return &Resolver{hub: hub}
}

// IsTaskID reports whether the argument names a task rather than a build.
func IsTaskID(buildOrTaskID string) bool {
	if buildOrTaskID == "" {
		return false
	}
	for _, c := range buildOrTaskID {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Resolve accepts either a build NVR or a numeric task ID.
func (r *Resolver) Resolve(buildOrTaskID string) (*Source, error) {
	var originalURL string
	var err error
	if IsTaskID(buildOrTaskID) {
		originalURL, err = r.originalURLFromTask(buildOrTaskID)
	} else {
		originalURL, err = r.originalURLFromBuild(buildOrTaskID)
	}
	if err != nil {
		return nil, err
	}
	if originalURL == "" {
		return nil, fmt.Errorf("%s: %w", buildOrTaskID, ErrNoSource)
	}

	return ParseOriginalURL(originalURL)
}

func (r *Resolver) originalURLFromBuild(nvr string) (string, error) {
	build, err := r.hub.GetBuild(nvr)
	if err != nil {
		return "", err
	}
	return build.OriginalURL(), nil
}

func (r *Resolver) originalURLFromTask(id string) (string, error) {
	taskID, err := strconv.Atoi(id)
	if err != nil {
		return "", fmt.Errorf("invalid task ID %s: %w", id, err)
	}

	task, err := r.hub.GetTaskInfo(taskID, true)
	if err != nil {
		return "", err
	}

	// regular and scratch builds carry the source as the first argument
	if len(task.Request) > 0 {
		if url, ok := task.Request[0].(string); ok {
			return url, nil
		}
	}

	// builds imported by Konflux only link the task to a build
	logrus.Debugf("Task %d has no source in its request, looking up its builds", taskID)
	builds, err := r.hub.ListBuilds(taskID)
	if err != nil {
		return "", err
	}
	if len(builds) == 0 {
		return "", fmt.Errorf("task %d: no builds found: %w", taskID, ErrNoSource)
	}

	return builds[0].OriginalURL(), nil
}
