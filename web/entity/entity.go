// Package entity defines the request and response shapes of the web layer.
package entity

import (
	"math"
	"strconv"
	"strings"
)

// Msg is the success envelope.
type Msg struct {
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

// ErrorMsg is the failure envelope. Error carries the cause of a 5xx, Errors
// the per-field problems of a validation failure.
type ErrorMsg struct {
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field    string `json:"field"`
	Msg      string `json:"msg"`
	Location string `json:"location"`
}

// Locations reported in FieldError.
const (
	LocationBody   = "body"
	LocationParams = "params"
	LocationQuery  = "query"
)

type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is a parsed page/limit/order query.
type Page struct {
	Page  int
	Limit int
	Desc  bool
}

// ParsePage reads page, limit and order leniently: bad values fall back to
// defaults and limit is clamped to MaxPageLimit.
func ParsePage(page, limit, order string) Page {
	p := Page{Page: 1, Limit: DefaultPageLimit, Desc: true}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = min(n, MaxPageLimit)
	}
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		p.Desc = false
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderBy returns the ORDER BY clause for column.
func (p Page) OrderBy(column string) string {
	if p.Desc {
		return column + " DESC"
	}
	return column + " ASC"
}

func (p Page) Meta(total int64) *PageMeta {
	return &PageMeta{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}
