package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/orgsvc/orgsvc/cmd"
	"github.com/orgsvc/orgsvc/pkg/backend"
	"github.com/orgsvc/orgsvc/pkg/config"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/migrate"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// Command is the serve command.
var Command = &cobra.Command{
	Use:                "serve",
	Short:              "Serve the registration and organisation API",
	Args:               cobra.NoArgs,
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		cfg := config.FromContext(ctx)
		logger := log.FromContext(ctx).WithPrefix("serve")

		if !cfg.Exist() {
			if err := cfg.WriteConfig(); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}
			logger.Info("wrote default config", "path", cfg.ConfigPath())
		}

		dbx := db.FromContext(ctx)
		if err := migrate.Migrate(ctx, dbx); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}
		version, err := migrate.Version(ctx, dbx)
		if err != nil {
			return fmt.Errorf("schema version: %w", err)
		}

		be := backend.FromContext(ctx)
		logger.Info("starting orgsvc",
			"schema", version,
			"public_url", cfg.HTTP.PublicURL,
			"signing", be.Tokens().Algorithm(),
			"token_ttl", be.Tokens().TTL(),
			"add_member_policy", be.AddMemberPolicy())

		s, err := NewServer(ctx)
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() { errc <- s.Start() }()

		select {
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	},
}
