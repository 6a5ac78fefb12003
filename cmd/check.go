// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/duckhq/duck/internal/config"
	"github.com/duckhq/duck/internal/gateway"
	"github.com/duckhq/duck/internal/usecase"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks for today's commits and pull requests",
	Long: `Checks whether the configured GitHub user pushed any public commit or
touched any pull request on the current UTC day. Exit codes: 0 activity found,
1 no activity, 2 username missing, 3 the check itself failed.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCheck(cmd))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd)
}

// addCheckFlags registers the flags shared by check and notify.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("user", "u", "", "GitHub username to check")
	cmd.Flags().String("token", "", "GitHub Personal Access Token")
	cmd.Flags().Int("max-event-pages", 0, "Maximum number of event pages to fetch")
	cmd.Flags().Int("max-pr-pages", 0, "Maximum number of pull request pages to fetch")
	cmd.Flags().String("config", config.FileName, "Path to the TOML configuration file")
}

// resolveConfig turns the command's flags plus environment and file into a
// resolved Config.
func resolveConfig(cmd *cobra.Command, logger *log.Logger) config.Config {
	var flags config.Flags
	flags.Username, _ = cmd.Flags().GetString("user")
	flags.Token, _ = cmd.Flags().GetString("token")
	flags.MaxEventPages, _ = cmd.Flags().GetInt("max-event-pages")
	flags.MaxPRPages, _ = cmd.Flags().GetInt("max-pr-pages")
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, flags, logger)
}

// checkActivity runs the combined today-check and returns the summary along
// with the exit code it maps to.
func checkActivity(cfg config.Config, logger *log.Logger) (usecase.Summary, int) {
	githubGateway, err := gateway.NewGitHubGateway(cfg.Token, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
		return usecase.Summary{}, ExitCheckFailed
	}
	checker := usecase.NewChecker(githubGateway, logger)

	summary, err := checker.ActiveToday(context.Background(), cfg.Username, cfg.MaxEventPages, cfg.MaxPRPages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to check activity for %q: %v\n", cfg.Username, err)
		return usecase.Summary{}, ExitCheckFailed
	}
	if summary.Any() {
		return summary, ExitActivityFound
	}
	return summary, ExitNoActivity
}

func runCheck(cmd *cobra.Command) int {
	logger := newLogger(cmd)
	cfg := resolveConfig(cmd, logger)
	if cfg.Username == "" {
		fmt.Fprintln(os.Stderr, "Error: GitHub username required. Provide it via --user, GITHUB_USERNAME, or duck.toml.")
		return ExitUserMissing
	}

	today := time.Now().UTC().Format("2006-01-02")
	summary, code := checkActivity(cfg, logger)
	switch code {
	case ExitActivityFound:
		fmt.Printf("QUACK! Activity found for %q today (%s UTC): commits=%t prs=%t\n",
			cfg.Username, today, summary.Commits, summary.PullRequests)
	case ExitNoActivity:
		fmt.Printf("No commits or PRs found for %q today (%s UTC). Time to make some contributions.\n",
			cfg.Username, today)
	}
	return code
}
