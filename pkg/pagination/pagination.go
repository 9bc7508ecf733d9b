// Package pagination normalizes page sizes and encodes keyset cursors for
// newest-first listings.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Params is a keyset request: page size plus the opaque token from the previous page.
type Params struct {
	Limit  int
	Cursor string
}

// Page is an offset request for short, position-ordered listings such as the menu.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the clamped limit and the row offset. Pages are 1-based.
func (p Page) Offset() (limit, offset int) {
	limit = NormalizeLimit(p.Limit)
	if p.Number > 1 {
		offset = (p.Number - 1) * limit
	}
	return limit, offset
}

// Cursor points at the last row of a page ordered by (created_at, id) descending.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit maps non-positive values to DefaultLimit and caps at MaxLimit.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer fetches one extra row so callers can tell whether another page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders c as a URL-safe token.
func EncodeCursor(c Cursor) string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + "." + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor reverses EncodeCursor. A blank token means the first page and yields nil.
func ParseCursor(token string) (*Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	nanos, id, ok := strings.Cut(string(raw), ".")
	if !ok {
		return nil, ErrInvalidCursor
	}
	ts, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp: %v", ErrInvalidCursor, err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %v", ErrInvalidCursor, err)
	}
	return &Cursor{CreatedAt: time.Unix(0, ts).UTC(), ID: parsed}, nil
}
