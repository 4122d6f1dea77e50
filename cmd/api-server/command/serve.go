package command

import (
	"os/signal"
	"syscall"

	"mrp/database"
	"mrp/internal/microservices/http-api/server"
	"mrp/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.close()

		if migrateOnStart {
			if err := database.MigrateUp(e.db, e.log); err != nil {
				return err
			}
		}

		tokens, closeTokens, err := e.tokenStore(ctx)
		if err != nil {
			return err
		}
		defer closeTokens()

		if e.cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		svc := server.NewServices(e.cfg, e.db, tokens, e.log)
		go service.RunTokenSweeper(ctx, svc.Sessions, e.cfg.TokenSweepInterval,
			e.log.With().Str("component", "token-sweeper").Logger())

		e.log.Info().
			Str("env", e.cfg.GoEnv).
			Str("session_store", e.cfg.SessionStore).
			Str("token_format", e.cfg.TokenFormat).
			Msg("starting mrp")

		if err := server.New(e.cfg, e.db, svc, e.log).Run(ctx); err != nil {
			return err
		}
		e.log.Info().Msg("server stopped gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}
