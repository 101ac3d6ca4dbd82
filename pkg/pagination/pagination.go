package pagination

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/siamdocs/quarry/pkg/query"
)

// SortFields unmarshals from either a comma-separated sort expression
// ("title,-created_at") or an array of SortField objects.
type SortFields []query.SortField

func (s *SortFields) UnmarshalJSON(data []byte) error {
	var expr string
	if err := json.Unmarshal(data, &expr); err == nil {
		*s = query.ParseSortFields(expr)
		return nil
	}

	var fields []query.SortField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = fields
	return nil
}

// PageRequest is a client request for one page of a listing, with optional
// search and sort.
type PageRequest struct {
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Search   *string    `json:"search,omitempty"`
	Sort     SortFields `json:"sort,omitempty"`
}

// Normalize clamps the request into the bounds cfg allows.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset is the number of records preceding this page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery builds a normalized PageRequest from the page,
// page_size, search, and sort URL query parameters.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))
	pageSize, _ := strconv.Atoi(values.Get("page_size"))

	var search *string
	if s := values.Get("search"); s != "" {
		search = &s
	}

	req := PageRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		Sort:     query.ParseSortFields(values.Get("sort")),
	}
	req.Normalize(cfg)
	return req
}

// PageResult is one page of data with its pagination metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult wraps data with computed total pages. Data is never nil so
// the JSON encoding is always an array.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
