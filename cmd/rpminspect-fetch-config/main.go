package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedora-ci/rpminspect-runner/internal/common"
	"github.com/fedora-ci/rpminspect-runner/internal/fetchconf"
)

const toolName = "rpminspect-fetch-config"

type options struct {
	dest       string
	retries    int
	retryDelay time.Duration
	debug      bool
}

func splitBranches(branches string) []string {
	var result []string
	for _, b := range strings.Split(branches, ",") {
		if b = strings.TrimSpace(b); b != "" {
			result = append(result, b)
		}
	}
	return result
}

func newCommand(git fetchconf.Git) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   toolName + " REPO-URL BRANCHES COMMIT",
		Short: "Copy rpminspect configuration files from a dist-git repository",
		Long: "Clones REPO-URL at the first of the comma separated BRANCHES that exists, or at\n" +
			"COMMIT when none does, and copies rpminspect.yaml, rpminspect.json and\n" +
			"rpminspect.dson from the repository root into the destination directory.",
		Args:          cobra.ExactArgs(3),
		Version:       common.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			common.ConfigureLogger(logrus.StandardLogger(), cmd.ErrOrStderr(), toolName, opts.debug)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			fetcher := fetchconf.NewFetcher(git, opts.retries, opts.retryDelay)
			copied, err := fetcher.Fetch(ctx, args[0], splitBranches(args[1]), args[2], opts.dest)
			if err != nil {
				return err
			}
			logrus.Debugf("Copied %v into %s", copied, opts.dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.dest, "dest", "d", ".", "directory to copy the configuration files into")
	cmd.Flags().IntVar(&opts.retries, "retries", 10, "number of attempts before giving up")
	cmd.Flags().DurationVar(&opts.retryDelay, "retry-delay", time.Minute, "delay between attempts")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

func main() {
	if err := newCommand(fetchconf.GoGit{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
