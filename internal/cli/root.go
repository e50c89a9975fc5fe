package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	defaults := DefaultConfig()
	v := newViper()

	rootCmd := &cobra.Command{
		Use:   "roomctl",
		Short: "CLI tool for the game room API",
		Long: `roomctl is a CLI tool for interacting with the game room JSON API.

It can create tictactoe and chess rooms, claim the second seat, submit
moves and watch a room's snapshots as they are committed.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig(v)
			if err != nil {
				return err
			}
			cfg = loaded

			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("server", defaults.ServerURL, "Server URL (env: ROOMCTL_SERVER)")
	flags.String("token", "", "Session token (env: ROOMCTL_TOKEN)")
	flags.String("token-file", defaults.TokenFile, "Token file path (env: ROOMCTL_TOKEN_FILE)")
	flags.StringP("output", "o", defaults.Output, "Output format: text, json")
	flags.BoolP("verbose", "v", false, "Verbose output")
	_ = v.BindPFlags(flags)

	// Add subcommands
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newMovesCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command. An interrupt cancels the command's
// context, which ends streams cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
