package mongodb

import (
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
)

type noteDocument struct {
	ID          string    `bson:"id"`
	AuthorID    string    `bson:"authorId,omitempty"`
	AuthorEmail string    `bson:"authorEmail,omitempty"`
	Content     string    `bson:"content"`
	CreatedAt   time.Time `bson:"createdAt"`
}

type quoteDocument struct {
	ID             string         `bson:"_id"`
	Name           string         `bson:"name"`
	Company        string         `bson:"company,omitempty"`
	Phone          string         `bson:"phone"`
	Messenger      string         `bson:"messenger,omitempty"`
	Email          string         `bson:"email"`
	ProductName    string         `bson:"productName,omitempty"`
	Quantity       string         `bson:"quantity,omitempty"`
	ProjectDetails string         `bson:"projectDetails,omitempty"`
	IPAddress      string         `bson:"ipAddress,omitempty"`
	UserAgent      string         `bson:"userAgent,omitempty"`
	Status         string         `bson:"status"`
	Notes          []noteDocument `bson:"notes"`
	CreatedAt      time.Time      `bson:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt"`
	SubmissionDay  string         `bson:"submissionDay"`
	NotifiedAt     *time.Time     `bson:"notifiedAt,omitempty"`
	NotifyError    string         `bson:"notifyError,omitempty"`
	NotifyAttempts int            `bson:"notifyAttempts"`
}

type adminDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	Active       bool      `bson:"active"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func toQuoteDocument(q *domain.QuoteRequest) quoteDocument {
	notes := make([]noteDocument, len(q.Notes))
	for i, n := range q.Notes {
		notes[i] = toNoteDocument(n)
	}

	return quoteDocument{
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
		CreatedAt:      q.CreatedAt.UTC(),
		UpdatedAt:      q.UpdatedAt.UTC(),
		SubmissionDay:  q.SubmissionDay,
		NotifiedAt:     q.NotifiedAt,
		NotifyError:    q.NotifyError,
		NotifyAttempts: q.NotifyAttempts,
	}
}

func (d quoteDocument) toDomain() *domain.QuoteRequest {
	notes := make([]domain.Note, len(d.Notes))
	for i, n := range d.Notes {
		notes[i] = domain.Note{
			ID:          n.ID,
			AuthorID:    n.AuthorID,
			AuthorEmail: n.AuthorEmail,
			Content:     n.Content,
			CreatedAt:   n.CreatedAt.UTC(),
		}
	}

	q := &domain.QuoteRequest{
		ID:             d.ID,
		Name:           d.Name,
		Company:        d.Company,
		Phone:          d.Phone,
		Messenger:      d.Messenger,
		Email:          d.Email,
		ProductName:    d.ProductName,
		Quantity:       d.Quantity,
		ProjectDetails: d.ProjectDetails,
		IPAddress:      d.IPAddress,
		UserAgent:      d.UserAgent,
		Status:         domain.QuoteStatus(d.Status),
		Notes:          notes,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
		SubmissionDay:  d.SubmissionDay,
		NotifyError:    d.NotifyError,
		NotifyAttempts: d.NotifyAttempts,
	}

	if d.NotifiedAt != nil {
		t := d.NotifiedAt.UTC()
		q.NotifiedAt = &t
	}

	return q
}

func toNoteDocument(n domain.Note) noteDocument {
	return noteDocument{
		ID:          n.ID,
		AuthorID:    n.AuthorID,
		AuthorEmail: n.AuthorEmail,
		Content:     n.Content,
		CreatedAt:   n.CreatedAt.UTC(),
	}
}

func (d adminDocument) toDomain() *domain.AdminUser {
	return &domain.AdminUser{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Active:       d.Active,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}
