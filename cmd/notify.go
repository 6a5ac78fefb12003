// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/duckhq/duck/internal/notify"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Checks for today's activity and sends a reminder email if there is none",
	Long: `Runs the same activity check as "duck check". When no activity is found,
renders the HTML reminder and writes it to --output and/or sends it over SMTP
with --send. The exit code still reports the check result: 1 means no
activity (even after a successful send), 3 means the check or delivery failed.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runNotify(cmd))
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	addCheckFlags(notifyCmd)
	notifyCmd.Flags().String("message", "No GitHub activity detected today. Don't break your streak!", "Notification message")
	notifyCmd.Flags().String("subject", "", "Email subject (defaults to the configured one)")
	notifyCmd.Flags().String("recipient", "", "Email recipient (defaults to the configured one)")
	notifyCmd.Flags().String("sender", "", "Email sender address (defaults to the configured one)")
	notifyCmd.Flags().String("output", "", "Write the rendered HTML to this file")
	notifyCmd.Flags().Bool("send", false, "Send the email via SMTP")
}

func runNotify(cmd *cobra.Command) int {
	logger := newLogger(cmd)
	cfg := resolveConfig(cmd, logger)
	if cfg.Username == "" {
		fmt.Fprintln(os.Stderr, "Error: GitHub username required. Provide it via --user, GITHUB_USERNAME, or duck.toml.")
		return ExitUserMissing
	}

	summary, code := checkActivity(cfg, logger)
	if code == ExitCheckFailed {
		return code
	}
	today := time.Now().UTC().Format("2006-01-02")
	if code == ExitActivityFound {
		fmt.Printf("QUACK! Activity found for %q today (%s UTC): commits=%t prs=%t. No reminder needed.\n",
			cfg.Username, today, summary.Commits, summary.PullRequests)
		return code
	}

	message, _ := cmd.Flags().GetString("message")
	html, err := notify.RenderReminder(cfg.Username, message, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render reminder: %v\n", err)
		return ExitCheckFailed
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
			return ExitCheckFailed
		}
		if err := os.WriteFile(output, []byte(html), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write reminder to %s: %v\n", output, err)
			return ExitCheckFailed
		}
		logger.Printf("Reminder HTML written to %s", output)
	}

	if send, _ := cmd.Flags().GetBool("send"); send {
		smtp := cfg.SMTP
		if recipient, _ := cmd.Flags().GetString("recipient"); recipient != "" {
			smtp.Recipient = recipient
		}
		if sender, _ := cmd.Flags().GetString("sender"); sender != "" {
			smtp.Sender = sender
		}
		subject := smtp.Subject
		if s, _ := cmd.Flags().GetString("subject"); s != "" {
			subject = s
		}
		mailer := notify.NewMailer(smtp, logger)
		if err := mailer.Send(subject, html); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send reminder: %v\n", err)
			return ExitCheckFailed
		}
	}

	fmt.Printf("No commits or PRs found for %q today (%s UTC). Reminder generated.\n", cfg.Username, today)
	return ExitNoActivity
}
