package command

import (
	"fmt"

	"mrp/internal/microservices/http-api/server"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Session token housekeeping",
}

var tokensSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired session tokens once and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.close()

		tokens, closeTokens, err := e.tokenStore(ctx)
		if err != nil {
			return err
		}
		defer closeTokens()

		n, err := server.NewServices(e.cfg, e.db, tokens, e.log).Sessions.CleanupExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired tokens\n", n)
		return nil
	},
}

func init() {
	tokensCmd.AddCommand(tokensSweepCmd)
	rootCmd.AddCommand(tokensCmd)
}
