package paging

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrInvalidCursor = errors.New("invalid cursor")

type OffsetPage[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type CursorPage[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// Cursor marks the last entry of a page in (CreatedAt, ID) descending order.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// Before reports whether an entry sorts after the cursor in newest-first
// order, i.e. belongs on the next page.
func (c Cursor) Before(createdAt time.Time, id string) bool {
	if createdAt.Equal(c.CreatedAt) {
		return id < c.ID
	}
	return createdAt.Before(c.CreatedAt)
}

func EncodeCursor(cursor Cursor) string {
	data, err := json.Marshal(cursor)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor parses a cursor. An empty string is the start of the list and
// returns ok=false.
func DecodeCursor(encoded string) (cursor Cursor, ok bool, err error) {
	if encoded == "" {
		return Cursor{}, false, nil
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return Cursor{}, false, ErrInvalidCursor
	}
	if err := json.Unmarshal(data, &cursor); err != nil {
		return Cursor{}, false, ErrInvalidCursor
	}
	return cursor, true, nil
}

// Normalize clamps page and pageSize the way list endpoints expect: pages
// start at 1, sizes default to DefaultPageSize and never exceed MaxPageSize.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// Offset slices one page out of items, which must already be in display
// order.
func Offset[T any](items []T, page, pageSize int) *OffsetPage[T] {
	page, pageSize = Normalize(page, pageSize)
	total := len(items)

	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}

	return &OffsetPage[T]{
		Items:      append([]T{}, items[start:end]...),
		Total:      int64(total),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
