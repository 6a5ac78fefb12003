package domain

import "time"

// dateOnly truncates an instant to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func inDateRange(t, start, end time.Time) bool {
	d := dateOnly(t)
	return !d.Before(dateOnly(start)) && !d.After(dateOnly(end))
}

// HasPushInRange reports whether at least one PushEvent has a UTC calendar
// date within [start, end], inclusive on both ends. A nil or empty event list
// yields false, never an error.
func HasPushInRange(events []Event, start, end time.Time) bool {
	for _, event := range events {
		if event.Type == PushEventType && inDateRange(event.CreatedAt, start, end) {
			return true
		}
	}
	return false
}

// HasPushOn is the single-day specialization of HasPushInRange.
func HasPushOn(events []Event, day time.Time) bool {
	return HasPushInRange(events, day, day)
}

// HasPullRequestActivityInRange reports whether at least one pull request was
// created or updated (either independently qualifies) within [start, end],
// inclusive on both ends. A nil or empty list yields false.
func HasPullRequestActivityInRange(prs []PullRequest, start, end time.Time) bool {
	for _, pr := range prs {
		if inDateRange(pr.CreatedAt, start, end) || inDateRange(pr.UpdatedAt, start, end) {
			return true
		}
	}
	return false
}
