package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest holds the paging query parameters.
type PaginationRequest struct {
	// Cursor is the opaque NextCursor of a previous page.
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"  validate:"omitempty,gte=1,lte=100"`
}

// PaginatedResponse is one page of items.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// cursorData is the wire form of ports.Cursor.
type cursorData struct {
	CreatedAt time.Time `json:"t"`
	ID        string    `json:"id"`
}

// EncodeCursor encodes a keyset position. A nil cursor encodes to "".
func EncodeCursor(c *ports.Cursor) string {
	if c == nil {
		return ""
	}

	b, err := json.Marshal(cursorData{CreatedAt: c.CreatedAt.UTC(), ID: c.ID})
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor decodes a cursor. An empty string means the first page and
// returns nil without error.
func DecodeCursor(encoded string) (*ports.Cursor, error) {
	if encoded == "" {
		return nil, nil //nolint:nilnil // first page
	}

	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data cursorData
	if err := json.Unmarshal(b, &data); err != nil || data.ID == "" || data.CreatedAt.IsZero() {
		return nil, ErrInvalidCursor
	}

	return &ports.Cursor{CreatedAt: data.CreatedAt, ID: data.ID}, nil
}

// NewPage maps a repository page, building the next cursor from its last item.
func NewPage[T any](page *ports.QuotePage, mapper func(*domain.QuoteRequest) T) *PaginatedResponse[T] {
	items := make([]T, len(page.Items))
	for i, q := range page.Items {
		items[i] = mapper(q)
	}

	resp := &PaginatedResponse[T]{Items: items, HasMore: page.HasMore}

	if page.HasMore && len(page.Items) > 0 {
		last := page.Items[len(page.Items)-1]
		resp.NextCursor = EncodeCursor(&ports.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return resp
}
