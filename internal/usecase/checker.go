// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/duckhq/duck/internal/domain"
	"github.com/duckhq/duck/internal/gateway"
)

// Default pagination budgets, also used by the config layer as the ultimate
// fallback. PR search is expensive upstream, so its default is smaller.
const (
	DefaultMaxEventPages = 5
	DefaultMaxPRPages    = 2
)

// Checker is the use case for deciding whether a user produced any qualifying
// GitHub activity in a date window. It composes fetching and classification.
//
// Every check returns a tri-state outcome: (true, nil) means activity was
// found, (false, nil) means the day was genuinely quiet, and a non-nil error
// means the check itself failed. Callers must not collapse the last two.
type Checker struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewChecker creates a new Checker instance.
func NewChecker(fetcher gateway.Fetcher, logger *log.Logger) *Checker {
	return &Checker{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// CommitsInLastNDays reports whether the user pushed to any public branch
// within the last n UTC calendar days, today included.
func (c *Checker) CommitsInLastNDays(ctx context.Context, username string, days, maxEventPages int) (bool, error) {
	c.logger.Printf("Checking for commits in the last %d days for user %q", days, username)
	today := c.now().UTC()
	start := today.AddDate(0, 0, -(days - 1))

	events, err := c.fetcher.FetchUserEvents(ctx, username, maxEventPages)
	if err != nil {
		return false, fmt.Errorf("checking commits for %s: %w", username, err)
	}
	if len(events) == 0 {
		c.logger.Printf("No public events found for %q within the page budget.", username)
		return false, nil
	}
	return domain.HasPushInRange(events, start, today), nil
}

// CommitsToday is the single-day specialization of CommitsInLastNDays.
func (c *Checker) CommitsToday(ctx context.Context, username string, maxEventPages int) (bool, error) {
	return c.CommitsInLastNDays(ctx, username, 1, maxEventPages)
}

// PullRequestsInLastNDays reports whether any pull request involving the user
// was created or updated within the last n UTC calendar days, today included.
//
// The check is best-effort: results are sorted by most recent update and
// bounded by maxPRPages, so when the user has more PRs than the page budget
// can retrieve, older-but-still-qualifying PRs may be missed. That truncation
// is a stated limitation of the contract, not an error.
func (c *Checker) PullRequestsInLastNDays(ctx context.Context, username string, days, maxPRPages int) (bool, error) {
	c.logger.Printf("Checking for PRs in the last %d days involving user %q", days, username)
	today := c.now().UTC()
	start := today.AddDate(0, 0, -(days - 1))

	prs, err := c.fetcher.FetchUserPullRequests(ctx, username, gateway.RoleInvolves, maxPRPages, "updated", "desc")
	if err != nil {
		return false, fmt.Errorf("checking pull requests for %s: %w", username, err)
	}
	if len(prs) == 0 {
		c.logger.Printf("No PRs found involving %q within the page budget.", username)
		return false, nil
	}
	return domain.HasPullRequestActivityInRange(prs, start, today), nil
}

// PullRequestsToday is the single-day specialization of PullRequestsInLastNDays.
func (c *Checker) PullRequestsToday(ctx context.Context, username string, maxPRPages int) (bool, error) {
	return c.PullRequestsInLastNDays(ctx, username, 1, maxPRPages)
}

// Summary holds the two independent activity signals for one day.
type Summary struct {
	Commits      bool
	PullRequests bool
}

// Any is the boolean projection for simple callers: either signal counts as
// qualifying activity.
func (s Summary) Any() bool {
	return s.Commits || s.PullRequests
}

// ActiveToday runs the commits check and the PR check for the current UTC
// date. The two checks share no state, so they run concurrently; both are
// always computed independently, never derived from one another. Any failed
// check fails the whole call.
func (c *Checker) ActiveToday(ctx context.Context, username string, maxEventPages, maxPRPages int) (Summary, error) {
	var summary Summary

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		found, err := c.CommitsToday(egCtx, username, maxEventPages)
		summary.Commits = found
		return err
	})
	eg.Go(func() error {
		found, err := c.PullRequestsToday(egCtx, username, maxPRPages)
		summary.PullRequests = found
		return err
	})
	if err := eg.Wait(); err != nil {
		return Summary{}, err
	}
	c.logger.Printf("Activity summary for %q: commits=%t prs=%t", username, summary.Commits, summary.PullRequests)
	return summary, nil
}
