// Package commands wires the lightverify CLI: a cobra root command with a
// verify subcommand, configured the way the teacher's own root command
// binds flags through viper before any subcommand runs.
package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCommand constructs the lightverify CLI entry point.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lightverify",
		Short: "Verify a Tendermint/CometBFT commit against a validator set",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == VersionCmd.Name() {
				return nil
			}
			return viper.BindPFlags(cmd.Flags())
		},
	}
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error, disabled")
	cmd.AddCommand(VerifyCmd, VersionCmd)
	return cmd
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}
