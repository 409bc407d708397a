// Package pagination implements the keyset cursors behind the catalog and
// ledger listings. A cursor pins the (created_at, id) pair of the last row on
// a page; the next query resumes strictly after that pair, so rows written
// while a client pages through never shift the earlier pages.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit applies when the client sends no limit.
	DefaultLimit = 25
	// MaxLimit caps the rows any single page may request.
	MaxLimit = 100
)

// Params carries the limit and cursor query parameters of a listing request.
type Params struct {
	Limit  int
	Cursor string
}

// PageSize clamps the requested limit into the allowed range.
func (p Params) PageSize() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// FetchSize is PageSize plus one sentinel row, so a full fetch proves
// another page exists.
func (p Params) FetchSize() int {
	return p.PageSize() + 1
}

// After decodes the request cursor. A blank cursor means the first page and
// yields nil without error.
func (p Params) After() (*Cursor, error) {
	value := strings.TrimSpace(p.Cursor)
	if value == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	fields := strings.SplitN(string(raw), "|", 2)
	if len(fields) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}

// Cursor marks the last row a client has seen.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode renders the cursor as an opaque token for the response envelope.
func (c Cursor) Encode() string {
	token := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(token))
}
