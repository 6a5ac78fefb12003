// Package gateway provides a gateway to the GitHub API,
// wrapping the REST client with pagination and error classification.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/duckhq/duck/internal/domain"
)

const (
	perPage = 100

	// The search endpoint is noticeably heavier server-side than the event
	// stream, so it gets a longer per-request budget.
	eventsTimeout = 10 * time.Second
	searchTimeout = 15 * time.Second
)

// ErrEmptyUsername is returned before any network call when the caller
// supplies no username.
var ErrEmptyUsername = errors.New("github username cannot be empty")

// Role is the relationship of the queried user to a pull request in the
// search query. RoleInvolves is the broadest: author OR assignee OR mentioned
// OR reviewer.
type Role string

const (
	RoleAuthor   Role = "author"
	RoleAssignee Role = "assignee"
	RoleMentions Role = "mentions"
	RoleInvolves Role = "involves"
)

// Fetcher defines the behavior of a gateway for fetching activity data from GitHub.
//
// Both fetch calls are all-or-nothing: a hard failure on any page aborts the
// whole call with an error and never returns a partial list, since a broken
// page in the middle of the stream would make "no activity" indistinguishable
// from "we stopped looking too early". Individual malformed items inside an
// otherwise good page are dropped with a warning instead.
type Fetcher interface {
	FetchUserEvents(ctx context.Context, username string, maxPages int) ([]domain.Event, error)
	FetchUserPullRequests(ctx context.Context, username string, role Role, maxPages int, sort, order string) ([]domain.PullRequest, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client *github.Client
	logger *log.Logger
}

// NewGitHubGateway creates a GitHubGateway. The token is optional; without it
// requests go out unauthenticated and are subject to the much lower
// anonymous rate limit.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	httpClient := &http.Client{Transport: rateLimitWaiter}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient.Transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}
	return &GitHubGateway{
		client: github.NewClient(httpClient),
		logger: logger,
	}, nil
}

// FetchUserEvents walks the user's public event stream page by page, following
// the Link header's rel="next" cursor, up to maxPages pages. The loop
// terminates after at most maxPages requests even if the server always
// reports a next page.
func (g *GitHubGateway) FetchUserEvents(ctx context.Context, username string, maxPages int) ([]domain.Event, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	g.logger.Printf("Fetching public events for user: %s. Max pages: %d", username, maxPages)

	next := fmt.Sprintf("users/%s/events/public?per_page=%d", username, perPage)
	var events []domain.Event
	for page := 1; next != "" && page <= maxPages; page++ {
		body, resp, err := g.getJSON(ctx, next, eventsTimeout)
		if err != nil {
			return nil, g.describeAPIError(err, fmt.Sprintf("public events for %s, page %d", username, page))
		}

		var pageItems []json.RawMessage
		if err := json.Unmarshal(body, &pageItems); err != nil {
			return nil, fmt.Errorf("expected a list of events on page %d: %w", page, err)
		}
		for _, item := range pageItems {
			event, perr := domain.ParseEvent(item, page)
			if perr != nil {
				g.logger.Printf("warning: skipping event: %v", perr)
				continue
			}
			events = append(events, event)
		}
		g.logger.Printf("Fetched %d events from page %d. Total so far: %d.", len(pageItems), page, len(events))

		next = ""
		if resp.NextPage != 0 {
			next = fmt.Sprintf("users/%s/events/public?per_page=%d&page=%d", username, perPage, resp.NextPage)
		}
	}
	g.logger.Printf("Finished fetching events for %s. Total: %d.", username, len(events))
	return events, nil
}

// searchPage is the expected top-level shape of a search response. Items is a
// pointer so that a response without an items list at all can be told apart
// from an empty final page.
type searchPage struct {
	TotalCount int                `json:"total_count"`
	Items      *[]json.RawMessage `json:"items"`
}

// FetchUserPullRequests searches pull requests involving the user via the
// numbered-page issue search protocol. The search API does not reliably emit
// a next-page cursor on a final page, so the loop also stops on an empty page
// (authoritative even when total_count disagrees, to tolerate
// eventual-consistency skew in the server's own count) or once the
// accumulated records reach the reported total count.
func (g *GitHubGateway) FetchUserPullRequests(ctx context.Context, username string, role Role, maxPages int, sort, order string) ([]domain.PullRequest, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	query := fmt.Sprintf("%s:%s is:pr", role, username)
	g.logger.Printf("Fetching PRs for %s (%s). Query: %q. Max pages: %d", username, role, query, maxPages)

	var prs []domain.PullRequest
	for page := 1; page <= maxPages; page++ {
		params := url.Values{
			"q":        {query},
			"sort":     {sort},
			"order":    {order},
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}
		body, resp, err := g.getJSON(ctx, "search/issues?"+params.Encode(), searchTimeout)
		if err != nil {
			return nil, g.describeAPIError(err, fmt.Sprintf("PR search for %s, page %d", username, page))
		}

		var result searchPage
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("expected a search result object on page %d: %w", page, err)
		}
		if result.Items == nil {
			return nil, fmt.Errorf("search response on page %d is missing its items list", page)
		}

		items := *result.Items
		for _, item := range items {
			pr, perr := domain.ParsePullRequest(item, page)
			if perr != nil {
				g.logger.Printf("warning: skipping pull request: %v", perr)
				continue
			}
			prs = append(prs, pr)
		}
		g.logger.Printf("Fetched %d PRs from page %d. Total so far: %d.", len(items), page, len(prs))

		if len(items) == 0 || resp.NextPage == 0 {
			break
		}
		if result.TotalCount > 0 && len(prs) >= result.TotalCount {
			break
		}
	}
	g.logger.Printf("Finished fetching PRs for %s (%s). Total: %d.", username, role, len(prs))
	return prs, nil
}

// getJSON issues one bounded request and returns the raw response body along
// with the pagination metadata parsed from the Link header.
func (g *GitHubGateway) getJSON(ctx context.Context, urlStr string, timeout time.Duration) (json.RawMessage, *github.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := g.client.NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, nil, err
	}
	var body json.RawMessage
	resp, err := g.client.Do(ctx, req, &body)
	if err != nil {
		return nil, resp, err
	}
	return body, resp, nil
}

// describeAPIError maps transport and protocol failures onto the diagnostic
// taxonomy. All branches collapse to the same outcome for the caller, a
// failed fetch; only the message and logged context differ.
func (g *GitHubGateway) describeAPIError(err error, scope string) error {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		g.logger.Printf("Rate limit info: Limit: %d, Remaining: %d, Reset: %s",
			rateLimitErr.Rate.Limit, rateLimitErr.Rate.Remaining, rateLimitErr.Rate.Reset.Time)
		return fmt.Errorf("forbidden (403) for %s: rate limited or insufficient token scopes: %w", scope, err)
	}

	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		switch apiErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("unauthorized (401) for %s: ensure the token is valid and has appropriate scopes: %w", scope, err)
		case http.StatusForbidden:
			g.logger.Printf("Rate limit info: Limit: %s, Remaining: %s, Reset: %s",
				apiErr.Response.Header.Get("X-RateLimit-Limit"),
				apiErr.Response.Header.Get("X-RateLimit-Remaining"),
				apiErr.Response.Header.Get("X-RateLimit-Reset"))
			return fmt.Errorf("forbidden (403) for %s: this might be rate limiting or insufficient token scopes: %w", scope, err)
		case http.StatusNotFound:
			return fmt.Errorf("resource not found (404) for %s: %w", scope, err)
		}
		return fmt.Errorf("HTTP %d for %s: %w", apiErr.Response.StatusCode, scope, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request for %s timed out: %w", scope, err)
	}
	return fmt.Errorf("request for %s failed: %w", scope, err)
}
