package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mintaka-labs/pennywise"
	"github.com/mintaka-labs/pennywise/internal/logging"
	"github.com/mintaka-labs/pennywise/internal/presentation/tui"
	"github.com/mintaka-labs/pennywise/pkg/adapters/memory"
	"github.com/mintaka-labs/pennywise/pkg/adapters/sqlite"
	"github.com/mintaka-labs/pennywise/pkg/adapters/wit"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/ports"
	"github.com/mintaka-labs/pennywise/pkg/runner"
	"github.com/mintaka-labs/pennywise/pkg/session"
)

var chatFlags struct {
	token      string
	userID     string
	userName   string
	ledgerPath string
	locale     string
	verbose    bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Penny from your terminal",
	Long:  `Starts an interactive conversation with Penny. Contexts live in memory for the duration of the session; expenses are recorded in a local SQLite file unless --db is empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := chatFlags.token
		if token == "" {
			token = os.Getenv("WIT_TOKEN")
		}
		if token == "" {
			return fmt.Errorf("a wit.ai token is required (--token or WIT_TOKEN)")
		}

		logger := logging.NewNop()
		if chatFlags.verbose {
			logger = logging.New(slog.LevelDebug)
		}

		var ledger ports.Ledger
		if chatFlags.ledgerPath != "" {
			sq, err := sqlite.Open(chatFlags.ledgerPath)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer sq.Close()
			ledger = sq
		} else {
			ledger = memory.NewLedger()
		}

		bot, err := pennywise.New(wit.New(token, wit.WithLogger(logger)),
			pennywise.WithLocale(chatFlags.locale),
			pennywise.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("initialize bot: %w", err)
		}

		manager := session.NewManager(memory.NewStore(), session.WithLogger(logger))
		turns := runner.New(bot, manager, ledger, runner.WithLogger(logger))

		return chatLoop(cmd, turns)
	},
}

func chatLoop(cmd *cobra.Command, turns *runner.Runner) error {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		tui.PrintBanner(pennywise.Version)
		fmt.Println("Type a message, or \"exit\" to leave.")
		fmt.Println()
	}
	render := tui.NewRenderer()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("you> ")
		}
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		result, err := turns.Turn(cmd.Context(), runner.Message{
			UserID:   chatFlags.userID,
			UserName: chatFlags.userName,
			Text:     text,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInactiveContext) {
				fmt.Println("This account has been deleted. Goodbye.")
				return nil
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		for _, msg := range result.Messages {
			out, rerr := render(msg)
			if rerr != nil {
				out = msg + "\n"
			}
			fmt.Print(out)
		}

		if !result.Context.IsActive {
			return nil
		}
	}
	return scanner.Err()
}

func init() {
	chatCmd.Flags().StringVar(&chatFlags.token, "token", "", "wit.ai server access token (defaults to WIT_TOKEN)")
	chatCmd.Flags().StringVar(&chatFlags.userID, "user", "local", "user identifier for the conversation")
	chatCmd.Flags().StringVar(&chatFlags.userName, "name", "", "display name Penny greets you by")
	chatCmd.Flags().StringVar(&chatFlags.ledgerPath, "db", "pennywise.db", "SQLite file for expenses (empty keeps them in memory)")
	chatCmd.Flags().StringVar(&chatFlags.locale, "locale", "en", "reply language (en, pt-BR)")
	chatCmd.Flags().BoolVar(&chatFlags.verbose, "verbose", false, "log engine activity to stderr")
	rootCmd.AddCommand(chatCmd)
}
