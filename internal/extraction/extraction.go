// Package extraction converts source documents into normalized plain text.
// Format support covers pdf, docx, markdown, html, csv, and plain text;
// dispatch is by file extension.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the file extensions the extractor can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// IsSupported reports whether the extractor handles the file's extension.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Service extracts and normalizes document text from local file paths.
type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger.With("system", "extraction")}
}

// Extract reads the document at ref, extracts its text per format, and
// normalizes the result. An unsupported extension or an extraction failure
// returns an error; the workflow treats that as fatal for the run.
func (s *Service) Extract(ctx context.Context, ref string) (string, error) {
	ext := strings.ToLower(filepath.Ext(ref))

	var (
		raw string
		err error
	)
	switch ext {
	case ".txt":
		raw, err = extractText(ref)
	case ".md", ".markdown":
		raw, err = extractMarkdown(ref)
	case ".csv":
		raw, err = extractCSV(ref)
	case ".html", ".htm":
		raw, err = extractHTML(ref)
	case ".pdf":
		raw, err = extractPDF(ref)
	case ".docx":
		raw, err = extractDOCX(ref)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}

	clean := Normalize(raw)
	if clean == "" {
		return "", fmt.Errorf("%w: no text content in %s", ErrEmptyDocument, filepath.Base(ref))
	}

	s.logger.InfoContext(
		ctx, "document extracted",
		"file", filepath.Base(ref),
		"format", ext,
		"chars", len(clean),
	)

	return clean, nil
}
