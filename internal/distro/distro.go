// Package distro maps distribution names used by the CI into the Koji tags
// rpminspect compares against.
package distro

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedDistro = errors.New("unsupported distribution")
	ErrUnknownBranch     = errors.New("unknown branch")
)

const (
	fedoraIDPrefix = "FEDORA"
	rawhideBranch  = "rawhide"
)

var activeStates = map[string]bool{
	"current": true,
	"pending": true,
	"frozen":  true,
}

// Tags are the two lines printed by rpminspect-distro-tags.
type Tags struct {
	// DistTag is the %{dist} value without the leading dot, e.g. fc42.
	DistTag string
	// UpdatesTag is the Koji tag holding the previous builds, e.g. f42-updates.
	UpdatesTag string
}

// ActiveFedora keeps the Fedora releases that are still maintained or in
// development. Flatpak and container releases use their own ID prefixes.
func ActiveFedora(releases []Release) []Release {
	var active []Release
	for _, r := range releases {
		if r.IDPrefix == fedoraIDPrefix && activeStates[r.State] {
			active = append(active, r)
		}
	}
	return active
}

// Branch returns the dist-git branch of a distribution name such as
// fedora-42 (f42) or fedora-rawhide (rawhide).
func Branch(distroName string) (string, error) {
	version, ok := strings.CutPrefix(distroName, "fedora-")
	if !ok || version == "" {
		// TODO: epel and eln need their own alias sources
		return "", fmt.Errorf("%s: %w", distroName, ErrUnsupportedDistro)
	}
	if version == rawhideBranch {
		return rawhideBranch, nil
	}
	return "f" + version, nil
}

// Lookup resolves distroName against the given releases.
func Lookup(distroName string, releases []Release) (*Tags, error) {
	branch, err := Branch(distroName)
	if err != nil {
		return nil, err
	}

	for _, r := range ActiveFedora(releases) {
		if r.Branch != branch {
			continue
		}
		return &Tags{
			DistTag:    "fc" + r.Version,
			UpdatesTag: "f" + r.Version + "-updates",
		}, nil
	}

	return nil, fmt.Errorf("%s: %w %s", distroName, ErrUnknownBranch, branch)
}
