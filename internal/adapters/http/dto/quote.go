package dto

import (
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
)

// SubmitQuoteRequest is the public quote form. It carries no validation tags:
// the intake service validates fields after the abuse checks.
type SubmitQuoteRequest struct {
	Name           string `json:"name"`
	Company        string `json:"company"`
	Phone          string `json:"phone"`
	Messenger      string `json:"messenger"`
	Email          string `json:"email"`
	ProductName    string `json:"productName"`
	Quantity       string `json:"quantity"`
	ProjectDetails string `json:"projectDetails"`

	// RenderedAt is the Unix time in milliseconds at which the form was shown.
	RenderedAt int64 `json:"renderedAt"`

	// Decoy fields. They are hidden in the storefront and must stay empty.
	Website   string `json:"website"`
	FaxNumber string `json:"fax_number"`
}

// ToSubmission converts the form to the domain payload.
func (r *SubmitQuoteRequest) ToSubmission() domain.Submission {
	sub := domain.Submission{
		Name:           r.Name,
		Company:        r.Company,
		Phone:          r.Phone,
		Messenger:      r.Messenger,
		Email:          r.Email,
		ProductName:    r.ProductName,
		Quantity:       r.Quantity,
		ProjectDetails: r.ProjectDetails,
		Honeypot: map[string]string{
			"website":    r.Website,
			"fax_number": r.FaxNumber,
		},
	}

	if r.RenderedAt > 0 {
		sub.RenderedAt = time.UnixMilli(r.RenderedAt).UTC()
	}

	return sub
}

// SubmitQuoteResponse is returned for an accepted submission.
type SubmitQuoteResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// NoteResponse is an internal note.
type NoteResponse struct {
	ID          string    `json:"id"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// QuoteResponse is the admin view of a quote request.
type QuoteResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Company        string         `json:"company,omitempty"`
	Phone          string         `json:"phone"`
	Messenger      string         `json:"messenger,omitempty"`
	Email          string         `json:"email"`
	ProductName    string         `json:"productName,omitempty"`
	Quantity       string         `json:"quantity,omitempty"`
	ProjectDetails string         `json:"projectDetails,omitempty"`
	IPAddress      string         `json:"ipAddress,omitempty"`
	UserAgent      string         `json:"userAgent,omitempty"`
	Status         string         `json:"status"`
	Notes          []NoteResponse `json:"notes"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	NotifiedAt     *time.Time     `json:"notifiedAt,omitempty"`
	NotifyError    string         `json:"notifyError,omitempty"`
	NotifyAttempts int            `json:"notifyAttempts"`
}

// NewQuoteResponse maps a domain quote request.
func NewQuoteResponse(q *domain.QuoteRequest) QuoteResponse {
	notes := make([]NoteResponse, len(q.Notes))
	for i, n := range q.Notes {
		notes[i] = NewNoteResponse(&n)
	}

	return QuoteResponse{
		ID:             q.ID,
		Name:           q.Name,
		Company:        q.Company,
		Phone:          q.Phone,
		Messenger:      q.Messenger,
		Email:          q.Email,
		ProductName:    q.ProductName,
		Quantity:       q.Quantity,
		ProjectDetails: q.ProjectDetails,
		IPAddress:      q.IPAddress,
		UserAgent:      q.UserAgent,
		Status:         string(q.Status),
		Notes:          notes,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
		NotifiedAt:     q.NotifiedAt,
		NotifyError:    q.NotifyError,
		NotifyAttempts: q.NotifyAttempts,
	}
}

// NewNoteResponse maps a note.
func NewNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:          n.ID,
		AuthorEmail: n.AuthorEmail,
		Content:     n.Content,
		CreatedAt:   n.CreatedAt,
	}
}

// ListQuotesRequest holds the admin listing query.
type ListQuotesRequest struct {
	PaginationRequest

	Status string `form:"status" validate:"omitempty,oneof=new contacted quoted closed needs_info"`
}

// UpdateStatusRequest moves a request through the workflow.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted quoted closed needs_info"`
}

// AddNoteRequest attaches an internal note.
type AddNoteRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

// LoginRequest holds admin credentials.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

// SummaryResponse counts requests per status.
type SummaryResponse struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// NewSummaryResponse maps the per-status counts.
func NewSummaryResponse(counts map[domain.QuoteStatus]int) SummaryResponse {
	resp := SummaryResponse{Counts: make(map[string]int, len(counts))}

	for status, n := range counts {
		resp.Counts[string(status)] = n
		resp.Total += n
	}

	return resp
}
