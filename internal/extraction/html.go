package extraction

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// extractHTML walks body content, keeping headings and text blocks and
// skipping script, style, and chrome elements.
func extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder
	appendBlock := func(t string) {
		if t == "" {
			return
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(t)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				appendBlock(textContent(n))
				return
			case "p", "li", "td", "blockquote", "pre":
				appendBlock(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return buf.String(), nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
