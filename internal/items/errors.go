package items

import "errors"

var (
	ErrItemNotFound = errors.New("knowledge item not found")
	ErrItemExists   = errors.New("knowledge item already exists")
)
