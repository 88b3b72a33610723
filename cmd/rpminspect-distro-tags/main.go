package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedora-ci/rpminspect-runner/internal/common"
	"github.com/fedora-ci/rpminspect-runner/internal/distro"
)

const toolName = "rpminspect-distro-tags"

func newCommand() *cobra.Command {
	var bodhiURL string
	var debug bool

	cmd := &cobra.Command{
		Use:   toolName + " DISTRO-NAME",
		Short: "Print the disttag and the updates tag of a distribution, e.g. fedora-42 or fedora-rawhide",
		Example: "  $ " + toolName + " fedora-42\n" +
			"  fc42\n" +
			"  f42-updates",
		Args:          cobra.ExactArgs(1),
		Version:       common.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.StandardLogger()
			common.ConfigureLogger(logger, cmd.ErrOrStderr(), toolName, debug)

			// fail early on names no release list can resolve
			if _, err := distro.Branch(args[0]); err != nil {
				return err
			}

			releases, err := distro.NewBodhiClient(bodhiURL, logger).Releases(cmd.Context())
			if err != nil {
				return fmt.Errorf("cannot list releases: %w", err)
			}

			tags, err := distro.Lookup(args[0], releases)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tags.DistTag)
			fmt.Fprintln(cmd.OutOrStdout(), tags.UpdatesTag)
			return nil
		},
	}

	cmd.Flags().StringVar(&bodhiURL, "bodhi", distro.DefaultBodhiURL, "Bodhi instance to read releases from")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
