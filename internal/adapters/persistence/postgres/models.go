package postgres

import (
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
)

type quoteRow struct {
	ID             string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name           string     `gorm:"column:name;not null"`
	Company        string     `gorm:"column:company"`
	Phone          string     `gorm:"column:phone;not null;uniqueIndex:ux_quote_email_phone_day,priority:2"`
	Messenger      string     `gorm:"column:messenger"`
	Email          string     `gorm:"column:email;not null;uniqueIndex:ux_quote_email_phone_day,priority:1;index:ix_quote_email_created,priority:1"`
	ProductName    string     `gorm:"column:product_name"`
	Quantity       string     `gorm:"column:quantity"`
	ProjectDetails string     `gorm:"column:project_details;type:text"`
	IPAddress      string     `gorm:"column:ip_address;type:varchar(64)"`
	UserAgent      string     `gorm:"column:user_agent;type:text"`
	Status         string     `gorm:"column:status;not null;default:'new';index:ix_quote_status_created,priority:1"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null;index:ix_quote_email_created,priority:2;index:ix_quote_status_created,priority:2;index:ix_quote_created_id,priority:1,sort:desc"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;not null"`
	SubmissionDay  string     `gorm:"column:submission_day;type:char(10);not null;uniqueIndex:ux_quote_email_phone_day,priority:3"`
	NotifiedAt     *time.Time `gorm:"column:notified_at"`
	NotifyError    string     `gorm:"column:notify_error;type:text"`
	NotifyAttempts int        `gorm:"column:notify_attempts;not null;default:0"`
	Notes          []noteRow  `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

func (quoteRow) TableName() string {
	return "quote_requests"
}

type noteRow struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	QuoteID     string    `gorm:"column:quote_id;type:varchar(36);not null;index"`
	AuthorID    string    `gorm:"column:author_id"`
	AuthorEmail string    `gorm:"column:author_email"`
	Content     string    `gorm:"column:content;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (noteRow) TableName() string {
	return "quote_notes"
}

type adminRow struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:ux_admin_email"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null"`
	Active       bool      `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (adminRow) TableName() string {
	return "admin_users"
}

func toQuoteRow(q *domain.QuoteRequest) *quoteRow {
	return &quoteRow{
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
		CreatedAt:      q.CreatedAt.UTC(),
		UpdatedAt:      q.UpdatedAt.UTC(),
		SubmissionDay:  q.SubmissionDay,
		NotifiedAt:     q.NotifiedAt,
		NotifyError:    q.NotifyError,
		NotifyAttempts: q.NotifyAttempts,
	}
}

func (r *quoteRow) toDomain() *domain.QuoteRequest {
	q := &domain.QuoteRequest{
		ID:             r.ID,
		Name:           r.Name,
		Company:        r.Company,
		Phone:          r.Phone,
		Messenger:      r.Messenger,
		Email:          r.Email,
		ProductName:    r.ProductName,
		Quantity:       r.Quantity,
		ProjectDetails: r.ProjectDetails,
		IPAddress:      r.IPAddress,
		UserAgent:      r.UserAgent,
		Status:         domain.QuoteStatus(r.Status),
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
		SubmissionDay:  r.SubmissionDay,
		NotifyError:    r.NotifyError,
		NotifyAttempts: r.NotifyAttempts,
	}

	if r.NotifiedAt != nil {
		t := r.NotifiedAt.UTC()
		q.NotifiedAt = &t
	}

	if len(r.Notes) > 0 {
		q.Notes = make([]domain.Note, len(r.Notes))
		for i, n := range r.Notes {
			q.Notes[i] = domain.Note{
				ID:          n.ID,
				AuthorID:    n.AuthorID,
				AuthorEmail: n.AuthorEmail,
				Content:     n.Content,
				CreatedAt:   n.CreatedAt.UTC(),
			}
		}
	}

	return q
}

func (r *adminRow) toDomain() *domain.AdminUser {
	return &domain.AdminUser{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}
