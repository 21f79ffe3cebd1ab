package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"catalog-audit/internal/app"
)

func newLatestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "latest VERSION...",
		Short: "Print the highest of the given semantic versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.Logger.WithContext(cmd.Context())
			result, err := newAppService().Latest(ctx, app.LatestRequest{Versions: args})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Version)
			return err
		},
	}
}
