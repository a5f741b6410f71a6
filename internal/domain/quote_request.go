// Package domain contains the quote-request model, intake outcomes and
// business errors. Nothing here knows about HTTP, databases or mail relays.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the format of QuoteRequest.SubmissionDay.
const DayLayout = "2006-01-02"

// QuoteStatus is the lifecycle state of a quote request.
type QuoteStatus string

// Quote request statuses.
const (
	StatusNew       QuoteStatus = "new"
	StatusContacted QuoteStatus = "contacted"
	StatusQuoted    QuoteStatus = "quoted"
	StatusClosed    QuoteStatus = "closed"
	StatusNeedsInfo QuoteStatus = "needs_info"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []QuoteStatus{
	StatusNew,
	StatusContacted,
	StatusNeedsInfo,
	StatusQuoted,
	StatusClosed,
}

var statusTransitions = map[QuoteStatus][]QuoteStatus{
	StatusNew:       {StatusContacted, StatusNeedsInfo, StatusClosed},
	StatusContacted: {StatusQuoted, StatusNeedsInfo, StatusClosed},
	StatusNeedsInfo: {StatusContacted, StatusQuoted, StatusClosed},
	StatusQuoted:    {StatusClosed, StatusNeedsInfo},
	StatusClosed:    nil,
}

// Valid reports whether s is a known status.
func (s QuoteStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// ParseQuoteStatus converts user input into a QuoteStatus.
func ParseQuoteStatus(raw string) (QuoteStatus, error) {
	s := QuoteStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", NewValidationErrorWithValue("status", "unknown status", raw)
	}

	return s, nil
}

// Note is an internal staff comment attached to a quote request.
type Note struct {
	ID          string
	AuthorID    string
	AuthorEmail string
	Content     string
	CreatedAt   time.Time
}

// QuoteRequest is a persisted inbound request for a price quotation.
//
// Email and Phone are stored normalized. No two requests share
// (Email, Phone, SubmissionDay).
type QuoteRequest struct {
	ID             string
	Name           string
	Company        string
	Phone          string
	Messenger      string
	Email          string
	ProductName    string
	Quantity       string
	ProjectDetails string
	IPAddress      string
	UserAgent      string
	Status         QuoteStatus
	Notes          []Note
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SubmissionDay  string

	// Notification bookkeeping, written after each delivery attempt.
	NotifiedAt     *time.Time
	NotifyError    string
	NotifyAttempts int
}

// TransitionTo moves the request to next if the workflow allows it.
func (q *QuoteRequest) TransitionTo(next QuoteStatus, now time.Time) error {
	if !next.Valid() {
		return NewValidationErrorWithValue("status", "unknown status", string(next))
	}

	if !q.Status.CanTransitionTo(next) {
		return NewConflictError("quote request", fmt.Sprintf("cannot move from %s to %s", q.Status, next))
	}

	q.Status = next
	q.UpdatedAt = now

	return nil
}

// NewStaleStatusError reports that another update moved quote request id
// away from the status a transition was computed from.
func NewStaleStatusError(id string, from QuoteStatus) error {
	return NewConflictError("quote request", fmt.Sprintf("%s is no longer %s", id, from))
}

// SubmissionDayOf returns the UTC calendar day of t in DayLayout.
func SubmissionDayOf(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// StartOfDay returns midnight UTC of the day containing t.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips formatting characters, keeping digits and a leading '+'.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	b.Grow(len(phone))

	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.', r == '(', r == ')':
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
