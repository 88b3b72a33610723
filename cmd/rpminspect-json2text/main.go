package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedora-ci/rpminspect-runner/internal/common"
	"github.com/fedora-ci/rpminspect-runner/internal/rpminspect"
)

const toolName = "rpminspect-json2text"

type options struct {
	configFile     string
	includePassing bool
	debug          bool
}

func newCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   toolName + " RESULTSDIR RPMINSPECTJSON",
		Short: "Split rpminspect JSON results into per-inspection result and status files",
		Long: "Writes <inspection>_result with the human readable findings and <inspection>_status\n" +
			"with 0 (passed) or 1 (failed) into RESULTSDIR for every inspection found in\n" +
			"RPMINSPECTJSON. RESULTSDIR must exist.",
		Args:          cobra.ExactArgs(2),
		Version:       common.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			common.ConfigureLogger(logrus.StandardLogger(), cmd.ErrOrStderr(), toolName, opts.debug)

			config := rpminspect.DefaultConfig()
			if opts.configFile != "" {
				loaded, err := rpminspect.LoadConfig(opts.configFile)
				if err != nil {
					return fmt.Errorf("cannot load config file %s: %w", opts.configFile, err)
				}
				config = *loaded
			}
			if cmd.Flags().Changed("include-passing") {
				config.IncludePassingFindings = opts.includePassing
			}

			resultsDir, resultsJSON := args[0], args[1]
			logrus.Debugf("Converting %s into %s", resultsJSON, resultsDir)

			return rpminspect.NewTransformer(config).Transform(resultsJSON, resultsDir)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "TOML file with name translations and output options")
	cmd.Flags().BoolVar(&opts.includePassing, "include-passing", true, "include OK and INFO findings in the result files")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
