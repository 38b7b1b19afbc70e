// Package viewtest queries rendered HTML the way a user reads it: by visible text.
package viewtest

import (
	"io"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses r as an HTML document, failing the test on error.
func Parse(t testing.TB, r io.Reader) *html.Node {
	t.Helper()

	doc, err := html.Parse(r)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// QueryAllByText returns the innermost elements whose trimmed text equals text.
func QueryAllByText(root *html.Node, text string) []*html.Node {
	var found []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type != html.ElementNode || n.DataAtom == atom.Title || n.DataAtom == atom.Head {
			return
		}
		if strings.TrimSpace(Text(n)) != text {
			return
		}
		for _, f := range found {
			if isAncestor(n, f) {
				return
			}
		}
		found = append(found, n)
	}
	walk(root)

	return found
}

// QueryByText returns the single element with the given text, or nil.
func QueryByText(root *html.Node, text string) *html.Node {
	if found := QueryAllByText(root, text); len(found) == 1 {
		return found[0]
	}
	return nil
}

// GetByText is QueryByText that fails the test unless exactly one element matches.
func GetByText(t testing.TB, root *html.Node, text string) *html.Node {
	t.Helper()

	found := QueryAllByText(root, text)
	if len(found) != 1 {
		t.Fatalf("expected exactly one element with text %q, found %d", text, len(found))
	}
	return found[0]
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(Text(c))
	}
	return sb.String()
}

// Closest returns n or its nearest ancestor with the given tag.
func Closest(n *html.Node, tag atom.Atom) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.DataAtom == tag {
			return n
		}
	}
	return nil
}

// Attr returns the value of the attribute key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isAncestor(ancestor, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
