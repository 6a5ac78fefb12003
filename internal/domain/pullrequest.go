package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PullRequestUser is the nested author shape carried by search results for
// the PR author, assignees and requested reviewers.
type PullRequestUser struct {
	Login   string `json:"login"`
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url,omitempty"`
}

// PullRequest is a pull request as returned by the issue search endpoint.
// State and Locked are passed through as reported, not validated further.
// Immutable once constructed.
type PullRequest struct {
	ID                 int64             `json:"id"`
	HTMLURL            string            `json:"html_url"`
	Number             int               `json:"number"`
	Title              string            `json:"title"`
	State              string            `json:"state"`
	Locked             bool              `json:"locked"`
	User               *PullRequestUser  `json:"user,omitempty"`
	Body               string            `json:"body,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	ClosedAt           *time.Time        `json:"closed_at,omitempty"`
	MergedAt           *time.Time        `json:"merged_at,omitempty"`
	Assignees          []PullRequestUser `json:"assignees,omitempty"`
	RequestedReviewers []PullRequestUser `json:"requested_reviewers,omitempty"`
	RepositoryURL      string            `json:"repository_url,omitempty"`
}

type rawPullRequest struct {
	ID                 *int64            `json:"id"`
	HTMLURL            *string           `json:"html_url"`
	Number             *int              `json:"number"`
	Title              *string           `json:"title"`
	State              *string           `json:"state"`
	Locked             *bool             `json:"locked"`
	User               *PullRequestUser  `json:"user"`
	Body               *string           `json:"body"`
	CreatedAt          *string           `json:"created_at"`
	UpdatedAt          *string           `json:"updated_at"`
	ClosedAt           *string           `json:"closed_at"`
	MergedAt           *string           `json:"merged_at"`
	Assignees          []PullRequestUser `json:"assignees"`
	RequestedReviewers []PullRequestUser `json:"requested_reviewers"`
	RepositoryURL      *string           `json:"repository_url"`
}

// ParsePullRequest validates one raw search result item. A record missing any
// required field is rejected so the caller can drop it with a warning instead
// of failing the page.
func ParsePullRequest(raw json.RawMessage, page int) (PullRequest, error) {
	var item rawPullRequest
	if err := json.Unmarshal(raw, &item); err != nil {
		return PullRequest{}, fmt.Errorf("pull request on page %d does not match the expected shape: %w", page, err)
	}

	required := []struct {
		name string
		ok   bool
	}{
		{"id", item.ID != nil},
		{"html_url", item.HTMLURL != nil},
		{"number", item.Number != nil},
		{"title", item.Title != nil},
		{"state", item.State != nil},
		{"locked", item.Locked != nil},
		{"created_at", item.CreatedAt != nil},
		{"updated_at", item.UpdatedAt != nil},
	}
	for _, f := range required {
		if !f.ok {
			return PullRequest{}, fmt.Errorf("pull request on page %d is missing required field %q", page, f.name)
		}
	}

	createdAt, err := ParseTimestamp(*item.CreatedAt)
	if err != nil {
		return PullRequest{}, fmt.Errorf("pull request %d on page %d: created_at: %w", *item.ID, page, err)
	}
	updatedAt, err := ParseTimestamp(*item.UpdatedAt)
	if err != nil {
		return PullRequest{}, fmt.Errorf("pull request %d on page %d: updated_at: %w", *item.ID, page, err)
	}
	closedAt, err := parseOptionalTimestamp(item.ClosedAt)
	if err != nil {
		return PullRequest{}, fmt.Errorf("pull request %d on page %d: closed_at: %w", *item.ID, page, err)
	}
	mergedAt, err := parseOptionalTimestamp(item.MergedAt)
	if err != nil {
		return PullRequest{}, fmt.Errorf("pull request %d on page %d: merged_at: %w", *item.ID, page, err)
	}

	pr := PullRequest{
		ID:                 *item.ID,
		HTMLURL:            *item.HTMLURL,
		Number:             *item.Number,
		Title:              *item.Title,
		State:              *item.State,
		Locked:             *item.Locked,
		User:               item.User,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
		ClosedAt:           closedAt,
		MergedAt:           mergedAt,
		Assignees:          item.Assignees,
		RequestedReviewers: item.RequestedReviewers,
	}
	if item.Body != nil {
		pr.Body = *item.Body
	}
	if item.RepositoryURL != nil {
		pr.RepositoryURL = *item.RepositoryURL
	}
	return pr, nil
}

func parseOptionalTimestamp(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := ParseTimestamp(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
