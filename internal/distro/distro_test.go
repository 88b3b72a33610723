package distro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReleases = []Release{
	{Name: "F43", Version: "43", IDPrefix: "FEDORA", Branch: "rawhide", State: "pending"},
	{Name: "F43F", Version: "43", IDPrefix: "FEDORA-FLATPAK", Branch: "rawhide", State: "pending"},
	{Name: "F42", Version: "42", IDPrefix: "FEDORA", Branch: "f42", State: "current"},
	{Name: "F42C", Version: "42", IDPrefix: "FEDORA-CONTAINER", Branch: "f42", State: "current"},
	{Name: "F41", Version: "41", IDPrefix: "FEDORA", Branch: "f41", State: "current"},
	{Name: "F40", Version: "40", IDPrefix: "FEDORA", Branch: "f40", State: "disabled"},
	{Name: "EPEL-10.0", Version: "10.0", IDPrefix: "FEDORA-EPEL", Branch: "epel10.0", State: "current"},
}

func TestBranch(t *testing.T) {
	cases := []struct {
		name   string
		branch string
		err    error
	}{
		{"fedora-42", "f42", nil},
		{"fedora-rawhide", "rawhide", nil},
		{"fedora-", "", ErrUnsupportedDistro},
		{"epel-10", "", ErrUnsupportedDistro},
		{"eln", "", ErrUnsupportedDistro},
	}

	for _, c := range cases {
		branch, err := Branch(c.name)
		if c.err != nil {
			assert.ErrorIs(t, err, c.err, c.name)
			continue
		}
		require.NoError(t, err, c.name)
		assert.Equal(t, c.branch, branch)
	}
}

func TestActiveFedora(t *testing.T) {
	var names []string
	for _, r := range ActiveFedora(testReleases) {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"F43", "F42", "F41"}, names)
}

func TestLookup(t *testing.T) {
	tags, err := Lookup("fedora-42", testReleases)
	require.NoError(t, err)
	assert.Equal(t, &Tags{DistTag: "fc42", UpdatesTag: "f42-updates"}, tags)

	tags, err = Lookup("fedora-rawhide", testReleases)
	require.NoError(t, err)
	assert.Equal(t, &Tags{DistTag: "fc43", UpdatesTag: "f43-updates"}, tags)
}

func TestLookupInactive(t *testing.T) {
	_, err := Lookup("fedora-40", testReleases)
	require.ErrorIs(t, err, ErrUnknownBranch)

	_, err = Lookup("fedora-99", testReleases)
	require.ErrorIs(t, err, ErrUnknownBranch)
}

func TestLookupUnsupported(t *testing.T) {
	_, err := Lookup("epel-10", testReleases)
	require.ErrorIs(t, err, ErrUnsupportedDistro)
}
