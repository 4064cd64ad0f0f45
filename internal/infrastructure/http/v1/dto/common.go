// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"
)

// IDResponse is returned when only the created ID matters.
type IDResponse struct {
	ID string `json:"id"`
}

// ErrorResponse documents the error body rendered by the error middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse wraps items, rendering nil as an empty list.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// DateRangeQuery is the optional from/to filter of list and report endpoints.
type DateRangeQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}
