package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/fieldcheck/auth"
	"github.com/reoring/fieldcheck/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "fieldcheck",
	Short:         "Validate signup and sign-in bodies",
	Long:          `fieldcheck validates request bodies against the auth schemas, prints their JSON Schema and serves them over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errInvalid marks a body that failed validation; the message is already printed.
var errInvalid = errors.New("invalid body")

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides FIELDCHECK_LOG_LEVEL")
}

func newLogger(cmd *cobra.Command, fallback, role string) *logger.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = fallback
	}
	return logger.New(cmd.ErrOrStderr(), role, logger.ParseLevel(level))
}

func lookupSchema(name string) error {
	if _, ok := auth.Lookup(name); !ok {
		return fmt.Errorf("unknown schema %q (known: %v)", name, auth.Names())
	}
	return nil
}
