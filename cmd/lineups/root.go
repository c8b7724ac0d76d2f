package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-lineups/internal/ingest"
	"github.com/stitts-dev/dfs-lineups/internal/lineup"
	"github.com/stitts-dev/dfs-lineups/internal/services"
	"github.com/stitts-dev/dfs-lineups/pkg/config"
	"github.com/stitts-dev/dfs-lineups/pkg/database"
	"github.com/stitts-dev/dfs-lineups/pkg/logger"
)

// createRootCommand creates the main root command that shows help by default.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lineups",
		Short:         "Salary-capped lineup search",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (defaults to .env lookup)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		createRecommendCommand(),
		createValuesCommand(),
		createImportCommand(),
		createTestCommand(),
	)

	return rootCmd
}

// settings is everything a subcommand needs from the configuration.
type settings struct {
	cfg   *config.Config
	rules lineup.Rules
	opts  lineup.Options
	log   *logrus.Logger
}

// loadSettings reads the config named by --config. Logs go to stderr so
// stdout carries only command output.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if logLevel == "" {
		logLevel = "warn"
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, fmt.Errorf("invalid contest rules: %w", err)
	}
	opts, err := cfg.SearchOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid search options: %w", err)
	}

	return &settings{
		cfg:   cfg,
		rules: rules,
		opts:  opts,
		log:   logger.InitLoggerWithOutput(logLevel, cfg.IsDevelopment(), cmd.ErrOrStderr()),
	}, nil
}

// openSlates connects to the configured slate store. The caller closes db.
func (s *settings) openSlates() (*services.SlateService, *database.DB, error) {
	db, err := database.NewConnection(s.cfg.DatabaseURL, false)
	if err != nil {
		return nil, nil, err
	}
	return services.NewSlateService(db, s.log), db, nil
}

// loadPool reads the player pool from a CSV file argument or a stored slate.
func (s *settings) loadPool(ctx context.Context, args []string, slate string) ([]lineup.Player, error) {
	switch {
	case slate != "" && len(args) > 0:
		return nil, errors.New("pass either a CSV file or --slate, not both")
	case slate != "":
		slates, db, err := s.openSlates()
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return slates.Load(ctx, slate, s.rules)
	case len(args) == 1:
		return ingest.LoadFile(args[0], s.rules)
	default:
		return nil, errors.New("a CSV file or --slate is required")
	}
}
