package main

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/mintaka-labs/pennywise"
	"github.com/mintaka-labs/pennywise/internal/logging"
	mcpadapter "github.com/mintaka-labs/pennywise/pkg/adapters/mcp"
	"github.com/mintaka-labs/pennywise/pkg/adapters/memory"
	"github.com/mintaka-labs/pennywise/pkg/adapters/sqlite"
	"github.com/mintaka-labs/pennywise/pkg/adapters/wit"
	"github.com/mintaka-labs/pennywise/pkg/runner"
	"github.com/mintaka-labs/pennywise/pkg/session"
)

type mcpConfig struct {
	WitToken   string `env:"WIT_TOKEN"`
	Locale     string `env:"PENNYWISE_LOCALE" envDefault:"en"`
	LedgerPath string `env:"PENNYWISE_LEDGER_PATH" envDefault:"pennywise.db"`
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose Penny as an MCP server over stdio",
	Long:  `Serves the Model Context Protocol over standard input and output so agent hosts can send messages, read conversation contexts and list expenses as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg mcpConfig
		if err := env.Parse(&cfg); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
		if cfg.WitToken == "" {
			return fmt.Errorf("WIT_TOKEN is required")
		}

		// stdout carries the protocol, so logs go to stderr only.
		logger := logging.New(slog.LevelWarn)

		ledger, err := sqlite.Open(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer ledger.Close()

		bot, err := pennywise.New(wit.New(cfg.WitToken, wit.WithLogger(logger)),
			pennywise.WithLocale(cfg.Locale),
			pennywise.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("initialize bot: %w", err)
		}

		manager := session.NewManager(memory.NewStore(), session.WithLogger(logger))
		turns := runner.New(bot, manager, ledger, runner.WithLogger(logger))

		return mcpadapter.NewServer(turns).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
