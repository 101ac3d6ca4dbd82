package extraction

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document has no extractable text")
)
