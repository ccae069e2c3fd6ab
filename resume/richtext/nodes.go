package richtext

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// parseFragment parses fragment as body content under a detached container.
func parseFragment(fragment string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

func renderChildren(root *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return buf.String(), nil
}

func newElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

func newText(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

func isElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

var blockTags = []string{"p", "div", "ul", "ol", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "table"}

func isBlock(n *html.Node) bool {
	return isElement(n, blockTags...)
}

// textNodes returns the text nodes under root in document order.
func textNodes(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// runeLen counts the text runes under n.
func runeLen(n *html.Node) int {
	total := 0
	for _, t := range textNodes(n) {
		total += utf8.RuneCountInString(t.Data)
	}
	return total
}

// offsets maps every node under root to the text offset where it starts.
func offsets(root *html.Node) map[*html.Node]int {
	out := make(map[*html.Node]int)
	pos := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		out[n] = pos
		if n.Type == html.TextNode {
			pos += utf8.RuneCountInString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func hasAncestor(n, root *html.Node, tags []string) bool {
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if isElement(p, tags...) {
			return true
		}
	}
	return false
}

// unwrap replaces n with its children.
func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// moveChildren moves every child of from to the end of to.
func moveChildren(from, to *html.Node) {
	for c := from.FirstChild; c != nil; c = from.FirstChild {
		from.RemoveChild(c)
		to.AppendChild(c)
	}
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}
