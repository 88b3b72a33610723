package rpminspect

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	OutcomeOK     = "OK"
	OutcomeInfo   = "INFO"
	OutcomeWaived = "WAIVED"
)

// defaultNames maps the inspection names used by current rpminspect
// releases to the names the CI results have always been published under.
var defaultNames = map[string]string{
	"added-files":           "addedfiles",
	"abi-diff":              "abidiff",
	"bad-functions":         "badfuncs",
	"changed-files":         "changedfiles",
	"config-files":          "config",
	"desktop-entry-files":   "desktop",
	"dist-tag":              "disttag",
	"doc-files":             "doc",
	"dso-dependencies":      "dsodeps",
	"elf-object-properties": "elf",
	"empty-rpm":             "emptyrpm",
	"file-size":             "filesize",
	"header-metadata":       "metadata",
	"java-bytecode":         "javabytecode",
	"kernel-modules":        "kmod",
	"kmi-diff":              "kmidiff",
	"lost-payload":          "lostpayload",
	"man-pages":             "manpage",
	"mime-types":            "types",
	"moved-files":           "movedfiles",
	"path-migration":        "pathmigration",
	"removed-files":         "removedfiles",
	"rpm-dependencies":      "rpmdeps",
	"shell-syntax":          "shellsyntax",
	"spec-file-name":        "specname",
	"udev-rules":            "udevrules",
	"xml-files":             "xml",
}

// Config is the immutable input of a Transformer.
type Config struct {
	// Names translates report keys into the names used for the output
	// files and the section header. Keys without an entry are kept as is.
	Names map[string]string
	// ExemptOutcomes are the results that never fail an inspection.
	ExemptOutcomes []string
	// IncludePassingFindings controls whether OK and INFO findings are
	// written into the result body. They are always numbered and always
	// considered for the status.
	IncludePassingFindings bool
}

func DefaultConfig() Config {
	names := make(map[string]string, len(defaultNames))
	for k, v := range defaultNames {
		names[k] = v
	}
	return Config{
		Names:                  names,
		ExemptOutcomes:         []string{OutcomeOK, OutcomeInfo, OutcomeWaived},
		IncludePassingFindings: true,
	}
}

type configFile struct {
	IncludePassingFindings *bool             `toml:"include_passing_findings"`
	ExemptOutcomes         []string          `toml:"exempt_outcomes"`
	Names                  map[string]string `toml:"names"`
}

// LoadConfig reads a TOML configuration file on top of DefaultConfig.
// Entries under [names] are merged into the built-in table.
func LoadConfig(path string) (*Config, error) {
	var file configFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	config := DefaultConfig()
	if file.IncludePassingFindings != nil {
		config.IncludePassingFindings = *file.IncludePassingFindings
	}
	if file.ExemptOutcomes != nil {
		config.ExemptOutcomes = file.ExemptOutcomes
	}
	for k, v := range file.Names {
		config.Names[k] = v
	}

	return &config, nil
}
