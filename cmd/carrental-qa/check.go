package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carrental-io/carrental-qa/internal/preflight"
)

var errUnreachable = errors.New("environment not ready")

func newCheckCmd() *cobra.Command {
	var waitFor time.Duration
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the API, frontend and shop answer",
		Long: `Check probes every configured target with a TCP dial followed by an HTTP GET.
Any HTTP status counts as reachable. With --wait, unreachable targets are
retried until they answer or the duration elapses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			targets := preflight.Targets(cfg)

			var results []preflight.Result
			if waitFor > 0 {
				for _, t := range targets {
					res, _ := preflight.Wait(cmd.Context(), t, time.Second, waitFor)
					results = append(results, res)
				}
			} else {
				results = preflight.ProbeAll(cmd.Context(), targets)
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Reachable {
					okColor.Fprint(out, "✓ ")
				} else {
					failColor.Fprint(out, "✗ ")
				}
				fmt.Fprintln(out, r.String())
			}
			if !preflight.AllReachable(results) {
				return errUnreachable
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&waitFor, "wait", 0, "Keep probing unreachable targets for up to this long")
	return cmd
}
