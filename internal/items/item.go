// Package items implements the knowledge item domain: read access to
// committed documents and their chunks, and deletion of both rows and the
// archived source blob.
package items

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Item is a committed document's summary row.
type Item struct {
	ID         uuid.UUID       `json:"id"`
	SourceType string          `json:"source_type"`
	Status     string          `json:"status"`
	Title      string          `json:"title"`
	Metadata   json.RawMessage `json:"metadata"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ItemDetail is an Item with its full clean text.
type ItemDetail struct {
	Item
	FullContent string `json:"full_content"`
}

// Chunk is a persisted retrieval unit belonging to an item.
type Chunk struct {
	ID       int64           `json:"id"`
	Sequence int             `json:"sequence"`
	Text     string          `json:"text"`
	Metadata json.RawMessage `json:"metadata"`
}
