// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Exit codes understood by the automation that drives duck.
const (
	ExitActivityFound = 0
	ExitNoActivity    = 1
	ExitUserMissing   = 2
	ExitCheckFailed   = 3
)

var rootCmd = &cobra.Command{
	Use:   "duck",
	Short: "A CLI tool that checks for daily GitHub activity.",
	Long: `duck (Daily User Commit Keeper) checks whether a GitHub user produced
any public commit or pull-request activity on the current UTC day and reports
the result through its exit code. It can also send an HTML reminder email
when the day is still empty.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Make .env values visible to the config layer before any command runs.
	cobra.OnInitialize(func() { _ = godotenv.Load() })

	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the command logger: discard everything unless --verbose.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}
