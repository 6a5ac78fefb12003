package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalPR = `{
	"id": 999, "html_url": "https://github.com/org/repo/pull/12", "number": 12,
	"title": "Add retries", "state": "open", "locked": false,
	"created_at": "2026-08-30T08:00:00Z", "updated_at": "2026-08-31T09:00:00Z"
}`

func TestParsePullRequest(t *testing.T) {
	t.Run("minimal valid pull request", func(t *testing.T) {
		pr, err := ParsePullRequest(json.RawMessage(minimalPR), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(999), pr.ID)
		assert.Equal(t, "https://github.com/org/repo/pull/12", pr.HTMLURL)
		assert.Equal(t, 12, pr.Number)
		assert.Equal(t, "Add retries", pr.Title)
		assert.Equal(t, "open", pr.State)
		assert.False(t, pr.Locked)
		assert.Equal(t, time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC), pr.CreatedAt)
		assert.Equal(t, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), pr.UpdatedAt)
		assert.Nil(t, pr.User)
		assert.Nil(t, pr.ClosedAt)
		assert.Nil(t, pr.MergedAt)
		assert.Empty(t, pr.Assignees)
		assert.Empty(t, pr.RequestedReviewers)
		assert.Empty(t, pr.RepositoryURL)
	})

	t.Run("full pull request", func(t *testing.T) {
		raw := `{
			"id": 1000, "html_url": "https://github.com/org/repo/pull/13", "number": 13,
			"title": "Drop legacy path", "state": "closed", "locked": true,
			"user": {"login": "duck", "id": 7, "html_url": "https://github.com/duck"},
			"created_at": "2026-08-28T08:00:00Z", "updated_at": "2026-08-31T09:00:00Z",
			"closed_at": "2026-08-31T09:00:00Z", "merged_at": "2026-08-31T09:00:00Z",
			"assignees": [{"login": "alex", "id": 8}],
			"requested_reviewers": [{"login": "sam", "id": 9}],
			"repository_url": "https://api.github.com/repos/org/repo"
		}`
		pr, err := ParsePullRequest(json.RawMessage(raw), 1)
		require.NoError(t, err)
		require.NotNil(t, pr.User)
		assert.Equal(t, "duck", pr.User.Login)
		require.NotNil(t, pr.ClosedAt)
		require.NotNil(t, pr.MergedAt)
		require.Len(t, pr.Assignees, 1)
		assert.Equal(t, "alex", pr.Assignees[0].Login)
		require.Len(t, pr.RequestedReviewers, 1)
		assert.Equal(t, "sam", pr.RequestedReviewers[0].Login)
		assert.Equal(t, "https://api.github.com/repos/org/repo", pr.RepositoryURL)
	})

	t.Run("null optional timestamps stay absent", func(t *testing.T) {
		raw := `{
			"id": 1001, "html_url": "https://github.com/org/repo/pull/14", "number": 14,
			"title": "WIP", "state": "open", "locked": false,
			"created_at": "2026-08-31T08:00:00Z", "updated_at": "2026-08-31T08:00:00Z",
			"closed_at": null, "merged_at": null
		}`
		pr, err := ParsePullRequest(json.RawMessage(raw), 1)
		require.NoError(t, err)
		assert.Nil(t, pr.ClosedAt)
		assert.Nil(t, pr.MergedAt)
	})

	requiredFields := []string{"id", "html_url", "number", "title", "state", "locked", "created_at", "updated_at"}
	for _, field := range requiredFields {
		t.Run(fmt.Sprintf("missing %s is rejected", field), func(t *testing.T) {
			var item map[string]any
			require.NoError(t, json.Unmarshal([]byte(minimalPR), &item))
			delete(item, field)
			raw, err := json.Marshal(item)
			require.NoError(t, err)

			_, err = ParsePullRequest(raw, 3)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), fmt.Sprintf("missing required field %q", field))
		})
	}

	t.Run("wrong primitive type is rejected", func(t *testing.T) {
		raw := `{
			"id": "not-a-number", "html_url": "https://github.com/org/repo/pull/15", "number": 15,
			"title": "Bad id", "state": "open", "locked": false,
			"created_at": "2026-08-31T08:00:00Z", "updated_at": "2026-08-31T08:00:00Z"
		}`
		_, err := ParsePullRequest(json.RawMessage(raw), 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not match the expected shape")
	})

	t.Run("unparseable updated_at is rejected", func(t *testing.T) {
		raw := `{
			"id": 1002, "html_url": "https://github.com/org/repo/pull/16", "number": 16,
			"title": "Bad date", "state": "open", "locked": false,
			"created_at": "2026-08-31T08:00:00Z", "updated_at": "soon"
		}`
		_, err := ParsePullRequest(json.RawMessage(raw), 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "updated_at")
	})
}

func TestPullRequest_RoundTrip(t *testing.T) {
	pr, err := ParsePullRequest(json.RawMessage(minimalPR), 1)
	require.NoError(t, err)

	out, err := json.Marshal(pr)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, float64(999), fields["id"])
	assert.Equal(t, "https://github.com/org/repo/pull/12", fields["html_url"])
	assert.Equal(t, float64(12), fields["number"])
	assert.Equal(t, "Add retries", fields["title"])
	assert.Equal(t, "open", fields["state"])
	assert.Equal(t, false, fields["locked"])
	assert.Equal(t, "2026-08-30T08:00:00Z", fields["created_at"])
	assert.Equal(t, "2026-08-31T09:00:00Z", fields["updated_at"])

	for _, absent := range []string{"user", "body", "closed_at", "merged_at", "assignees", "requested_reviewers", "repository_url"} {
		assert.NotContains(t, fields, absent)
	}
}
