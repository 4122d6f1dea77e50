package command

// root.go defines the mrp root command and the setup shared by subcommands.

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mrp/database"
	"mrp/internal/config"
	"mrp/internal/logging"
	"mrp/internal/microservices/http-api/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var logLevel string // overrides LOG_LEVEL when set

var rootCmd = &cobra.Command{
	Use:   "mrp",
	Short: "mrp - media ratings platform server",
	Long: `mrp serves the media ratings platform HTTP API and carries the
maintenance tasks around it:
- serve: run the API
- migrate: apply or roll back schema migrations
- tokens: housekeeping for session tokens

Configuration comes from the environment (and .env when present).`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// env bundles what every subcommand needs: config, logger and database.
type env struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if err := database.Close(e.db); err != nil {
		e.log.Warn().Err(err).Msg("closing database")
	}
}

// tokenStore picks the session token backend named by SESSION_STORE.
// The returned cleanup closes the redis client when one was opened.
func (e *env) tokenStore(ctx context.Context) (repository.TokenRepository, func(), error) {
	if e.cfg.SessionStore != config.SessionStoreRedis {
		return repository.NewTokenRepository(e.db), func() {}, nil
	}

	client, err := database.ConnectRedis(ctx, e.cfg.RedisURL, e.log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			e.log.Warn().Err(err).Msg("closing redis")
		}
	}
	return repository.NewRedisTokenRepository(client), cleanup, nil
}
