package cli

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var errUnreachable = errors.New("identity registry unreachable")

func newCheckConnectionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-connection",
		Short: "Check that the identity registry is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			c, err := build(cmd.Context(), cfg, logger, prometheus.NewRegistry(), staticFlags{}, false)
			if err != nil {
				return err
			}
			defer c.close()

			if !c.service.CheckConnection(cmd.Context()) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "unreachable")
				return errUnreachable
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "reachable")
			return err
		},
	}
}
