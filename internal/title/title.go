// Package title extracts the page title from rendered HTML.
package title

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoTitle indicates the rendered page has no <title> element.
var ErrNoTitle = errors.New("no title found in rendered page")

// Extract returns the text content of the first <title> element in rendered.
func Extract(rendered string) (string, error) {
	return FromReader(strings.NewReader(rendered))
}

// FromReader parses r as HTML and returns the text of its first <title> element.
// An empty <title></title> counts as present and yields "".
func FromReader(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse rendered page: %w", err)
	}
	n := findTitle(doc)
	if n == nil {
		return "", ErrNoTitle
	}
	return textContent(n), nil
}

func findTitle(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "title" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != nil {
			return t
		}
	}
	return nil
}

// textContent concatenates all text nodes beneath n without trimming.
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
	return buf.String()
}
