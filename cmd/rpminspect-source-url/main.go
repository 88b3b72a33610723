package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedora-ci/rpminspect-runner/internal/buildsource"
	"github.com/fedora-ci/rpminspect-runner/internal/common"
	"github.com/fedora-ci/rpminspect-runner/internal/koji"
)

const toolName = "rpminspect-source-url"

func defaultHubURL() string {
	if url, ok := os.LookupEnv("KOJI_HUB_URL"); ok && url != "" {
		return url
	}
	return koji.DefaultHubURL
}

func newCommand() *cobra.Command {
	var hubURL string
	var debug bool

	cmd := &cobra.Command{
		Use:           toolName + " BUILD-OR-TASK-ID",
		Short:         "Print the source URL and commit of a Koji build NVR or task ID as JSON",
		Args:          cobra.ExactArgs(1),
		Version:       common.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.StandardLogger()
			common.ConfigureLogger(logger, cmd.ErrOrStderr(), toolName, debug)

			hub, err := koji.New(hubURL, koji.CreateRetryableTransport(logger))
			if err != nil {
				return fmt.Errorf("cannot create koji client for %s: %w", hubURL, err)
			}
			if debug {
				version, err := hub.GetAPIVersion()
				if err != nil {
					return fmt.Errorf("cannot query koji hub %s: %w", hubURL, err)
				}
				logrus.Debugf("Koji hub %s speaks API version %d", hubURL, version)
			}

			source, err := buildsource.NewResolver(hub).Resolve(args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(source, "", "    ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&hubURL, "hub", defaultHubURL(), "Koji hub URL (defaults to $KOJI_HUB_URL)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
