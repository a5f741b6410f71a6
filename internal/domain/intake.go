package domain

import "time"

// Submission is the raw public form payload.
type Submission struct {
	Name           string
	Company        string
	Phone          string
	Messenger      string
	Email          string
	ProductName    string
	Quantity       string
	ProjectDetails string

	// Honeypot holds decoy field values keyed by field name. Humans never see
	// these fields, so any non-blank value marks the submission as automated.
	Honeypot map[string]string

	// RenderedAt is when the form was served to the client. Zero means the
	// client did not send it.
	RenderedAt time.Time
}

// RequestMeta carries transport facts about a submission.
type RequestMeta struct {
	IP         string
	UserAgent  string
	ReceivedAt time.Time
}

// Outcome classifies the result of a submission.
type Outcome string

// Submission outcomes.
const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomeRateLimited   Outcome = "rate_limited"
	OutcomeBot           Outcome = "bot"
	OutcomeQuotaExceeded Outcome = "quota_exceeded"
	OutcomeDuplicate     Outcome = "duplicate"
)

// Rejection reasons recorded alongside an Outcome.
const (
	ReasonHoneypot         = "honeypot"
	ReasonTooFast          = "too_fast"
	ReasonStale            = "stale"
	ReasonMissingTimestamp = "missing_timestamp"
	ReasonRecentDuplicate  = "recent_duplicate"
	ReasonUniqueConflict   = "unique_conflict"
	ReasonIPLimit          = "ip_limit"
	ReasonEmailQuota       = "email_quota"
)

// Result is the business outcome of SubmitQuote. Rejections are values, not errors.
type Result struct {
	Outcome Outcome
	QuoteID string
	Reason  string
}

// Accepted reports whether the submission was persisted.
func (r Result) Accepted() bool {
	return r.Outcome == OutcomeAccepted
}

// Accepted returns a result for a persisted submission.
func Accepted(id string) Result {
	return Result{Outcome: OutcomeAccepted, QuoteID: id}
}

// Rejected returns a rejection result.
func Rejected(outcome Outcome, reason string) Result {
	return Result{Outcome: outcome, Reason: reason}
}

// InsertResult is what a repository reports for an insert that reached the store.
// A unique-constraint violation is a Conflict result, not an error.
type InsertResult struct {
	ID       string
	Conflict bool
}

// InsertSucceeded returns a successful insert result.
func InsertSucceeded(id string) InsertResult {
	return InsertResult{ID: id}
}

// InsertConflicted returns a unique-conflict insert result.
func InsertConflicted() InsertResult {
	return InsertResult{Conflict: true}
}

// RecipientKind distinguishes staff alerts from requester confirmations.
type RecipientKind string

// Recipient kinds.
const (
	RecipientStaff     RecipientKind = "staff"
	RecipientRequester RecipientKind = "requester"
)

// Recipient is a notification target.
type Recipient struct {
	Address string
	Kind    RecipientKind
}

// StaffRecipients wraps staff addresses as recipients.
func StaffRecipients(addresses []string) []Recipient {
	out := make([]Recipient, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, Recipient{Address: a, Kind: RecipientStaff})
	}

	return out
}
