package rpminspect

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.True(t, config.IncludePassingFindings)
	require.Equal(t, []string{"OK", "INFO", "WAIVED"}, config.ExemptOutcomes)
	require.Equal(t, defaultNames, config.Names)

	// callers get their own copy of the table
	config.Names["xml-files"] = "changed"
	require.Equal(t, "xml", defaultNames["xml-files"])
}

func TestLoadConfigEmpty(t *testing.T) {
	config, err := LoadConfig("testdata/empty-config.toml")
	require.NoError(t, err)
	require.NotNil(t, config)
	require.Equal(t, DefaultConfig(), *config)
}

func TestLoadConfigNonExisting(t *testing.T) {
	config, err := LoadConfig("testdata/non-existing-config.toml")
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
	require.Nil(t, config)
}

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig("testdata/config.toml")
	require.NoError(t, err)
	require.NotNil(t, config)

	require.False(t, config.IncludePassingFindings)
	require.Equal(t, []string{"OK", "INFO", "WAIVED", "DIAG"}, config.ExemptOutcomes)
	require.Equal(t, "xmlfiles", config.Names["xml-files"])
	require.Equal(t, "spdx-license", config.Names["license"])
	// untouched entries of the built-in table survive
	require.Equal(t, "elf", config.Names["elf-object-properties"])
}

func TestLoadConfigUnknownKey(t *testing.T) {
	config, err := LoadConfig("testdata/unknown-key.toml")
	require.ErrorContains(t, err, "include_passing")
	require.Nil(t, config)
}
