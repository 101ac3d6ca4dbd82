package items

import (
	"net/url"

	"github.com/jackc/pgx/v5"

	"github.com/siamdocs/quarry/pkg/query"
)

var projection = query.
	NewProjectionMap("public", "knowledge_items", "i").
	Project("id", "ID").
	Project("source_type", "SourceType").
	Project("status", "Status").
	Project("title", "Title").
	Project("metadata", "Metadata").
	Project("created_at", "CreatedAt")

var detailProjection = query.
	NewProjectionMap("public", "knowledge_items", "i").
	Project("id", "ID").
	Project("source_type", "SourceType").
	Project("status", "Status").
	Project("title", "Title").
	Project("metadata", "Metadata").
	Project("created_at", "CreatedAt").
	Project("full_content", "FullContent")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for item queries. Nil fields
// are ignored. Status and SourceType use exact matching; Title uses
// case-insensitive contains matching.
type Filters struct {
	Status     *string `json:"status,omitempty"`
	SourceType *string `json:"source_type,omitempty"`
	Title      *string `json:"title,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("SourceType", f.SourceType).
		WhereContains("Title", f.Title)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if st := values.Get("source_type"); st != "" {
		f.SourceType = &st
	}
	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	return f
}

func scanItem(row pgx.Row) (Item, error) {
	var i Item
	err := row.Scan(
		&i.ID,
		&i.SourceType,
		&i.Status,
		&i.Title,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

func scanDetail(row pgx.Row) (ItemDetail, error) {
	var d ItemDetail
	err := row.Scan(
		&d.ID,
		&d.SourceType,
		&d.Status,
		&d.Title,
		&d.Metadata,
		&d.CreatedAt,
		&d.FullContent,
	)
	return d, err
}

func scanChunk(row pgx.Row) (Chunk, error) {
	var c Chunk
	err := row.Scan(
		&c.ID,
		&c.Sequence,
		&c.Text,
		&c.Metadata,
	)
	return c, err
}
