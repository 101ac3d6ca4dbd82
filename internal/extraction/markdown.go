package extraction

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractMarkdown walks the goldmark AST so code fences, emphasis markers,
// and link syntax do not leak into the clean text. Heading text is kept as
// its own line: the structural splitter keys on it.
func extractMarkdown(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var buf strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var block string
		if heading, ok := n.(*ast.Heading); ok {
			block = string(heading.Text(src))
		} else {
			block = nodeText(n, src)
		}
		if block == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(block)
	}
	return buf.String(), nil
}

// nodeText renders a node's text content. Nodes with children yield only
// the walked inline text; raw source lines are used solely for leaf blocks
// such as code fences, so block content is never emitted twice.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer

	if n.Type() == ast.TypeBlock && n.ChildCount() == 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}

		part := nodeText(c, src)
		if part == "" {
			continue
		}
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(part)
	}

	return strings.TrimSpace(buf.String())
}
