package richtext

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PlainText returns the text content of an HTML fragment. Selection offsets
// index into this text, so it walks the same tree the commands edit.
func PlainText(fragment string) (string, error) {
	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, tn := range textNodes(root) {
		b.WriteString(tn.Data)
	}
	return b.String(), nil
}

type segment struct {
	node     *html.Node
	from, to int
}

// toggleInline wraps the selected text in tag. When every selected run is
// already inside tag (or an alias), the enclosing elements are unwrapped.
func toggleInline(fragment string, sel Range, tag string, aliases ...string) (string, error) {
	if sel.Collapsed() {
		return fragment, nil
	}
	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	var segs []segment
	offset := 0
	for _, tn := range textNodes(root) {
		n := utf8.RuneCountInString(tn.Data)
		from := max(sel.Start-offset, 0)
		to := min(sel.End-offset, n)
		if from < to && strings.TrimSpace(string([]rune(tn.Data)[from:to])) != "" {
			segs = append(segs, segment{node: tn, from: from, to: to})
		}
		offset += n
	}
	if len(segs) == 0 {
		return fragment, nil
	}

	tags := append([]string{tag}, aliases...)
	formatted := true
	for _, s := range segs {
		if !hasAncestor(s.node, root, tags) {
			formatted = false
			break
		}
	}

	if formatted {
		seen := make(map[*html.Node]struct{})
		for _, s := range segs {
			for p := s.node.Parent; p != nil && p != root; p = p.Parent {
				if isElement(p, tags...) {
					seen[p] = struct{}{}
				}
			}
		}
		for n := range seen {
			unwrap(n)
		}
		return renderChildren(root)
	}

	for _, s := range segs {
		if hasAncestor(s.node, root, tags) {
			continue
		}
		wrapSegment(s, tag)
	}
	return renderChildren(root)
}

func wrapSegment(s segment, tag string) {
	runes := []rune(s.node.Data)
	parent := s.node.Parent
	el := newElement(tag)
	el.AppendChild(newText(string(runes[s.from:s.to])))
	if s.from > 0 {
		parent.InsertBefore(newText(string(runes[:s.from])), s.node)
	}
	parent.InsertBefore(el, s.node)
	if s.to < len(runes) {
		parent.InsertBefore(newText(string(runes[s.to:])), s.node)
	}
	parent.RemoveChild(s.node)
}

type block struct {
	nodes      []*html.Node
	start, end int
}

func (b block) single() *html.Node {
	if len(b.nodes) == 1 {
		return b.nodes[0]
	}
	return nil
}

func (b block) blank() bool {
	for _, n := range b.nodes {
		switch {
		case n.Type == html.TextNode && strings.TrimSpace(n.Data) == "":
		case isElement(n, "br"):
		default:
			return false
		}
	}
	return true
}

// splitBlocks groups the top-level nodes into blocks: each block element is
// its own block, and runs of inline content end at a <br>.
func splitBlocks(root *html.Node) []block {
	var blocks []block
	var run []*html.Node
	flush := func() {
		if len(run) > 0 {
			blocks = append(blocks, block{nodes: run})
			run = nil
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case isBlock(c):
			flush()
			blocks = append(blocks, block{nodes: []*html.Node{c}})
		case isElement(c, "br"):
			run = append(run, c)
			flush()
		default:
			run = append(run, c)
		}
	}
	flush()

	pos := 0
	for i := range blocks {
		blocks[i].start = pos
		for _, n := range blocks[i].nodes {
			pos += runeLen(n)
		}
		blocks[i].end = pos
	}
	return blocks
}

// touched returns the index span of non-blank blocks the selection reaches.
func touched(blocks []block, sel Range) (first, last int) {
	first, last = -1, -1
	for i, b := range blocks {
		if b.blank() {
			continue
		}
		hit := max(b.start, sel.Start) < min(b.end, sel.End)
		if sel.Collapsed() {
			hit = b.start <= sel.Start && sel.Start <= b.end
		}
		if hit {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		for i := len(blocks) - 1; i >= 0; i-- {
			if !blocks[i].blank() {
				return i, i
			}
		}
	}
	return first, last
}

// toggleList turns the selected blocks into items of a listTag list, or
// unwraps them back into paragraphs when they already are such a list.
func toggleList(fragment string, sel Range, listTag string) (string, error) {
	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	blocks := splitBlocks(root)
	first, last := touched(blocks, sel)
	if first < 0 {
		return "<" + listTag + "><li></li></" + listTag + ">", nil
	}
	span := blocks[first : last+1]

	sameList := true
	for _, b := range span {
		if b.blank() {
			continue
		}
		if !isElement(b.single(), listTag) {
			sameList = false
			break
		}
	}

	if sameList {
		for _, b := range span {
			list := b.single()
			if list == nil {
				continue
			}
			for li := list.FirstChild; li != nil; li = li.NextSibling {
				if !isElement(li, "li") {
					continue
				}
				p := newElement("p")
				moveChildren(li, p)
				root.InsertBefore(p, list)
			}
			detach(list)
		}
		return renderChildren(root)
	}

	list := newElement(listTag)
	root.InsertBefore(list, span[0].nodes[0])
	for _, b := range span {
		if b.blank() {
			for _, n := range b.nodes {
				detach(n)
			}
			continue
		}
		if el := b.single(); isElement(el, "ul", "ol") {
			for li := el.FirstChild; li != nil; li = el.FirstChild {
				el.RemoveChild(li)
				if isElement(li, "li") {
					list.AppendChild(li)
				}
			}
			detach(el)
			continue
		}
		li := newElement("li")
		if el := b.single(); isBlock(el) {
			moveChildren(el, li)
			detach(el)
		} else {
			for _, n := range b.nodes {
				detach(n)
				if isElement(n, "br") {
					continue
				}
				li.AppendChild(n)
			}
		}
		list.AppendChild(li)
	}
	return renderChildren(root)
}

var formatSelector = "b, strong, i, em, u"

// removeFormat unwraps inline formatting elements. A collapsed selection
// clears the whole fragment; otherwise only elements the selection touches.
func removeFormat(fragment string, sel Range) (string, error) {
	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	formats := goquery.NewDocumentFromNode(root).Find(formatSelector)
	if !sel.Collapsed() {
		starts := offsets(root)
		formats = formats.FilterFunction(func(_ int, s *goquery.Selection) bool {
			n := s.Get(0)
			start := starts[n]
			end := start + runeLen(n)
			return start < sel.End && end > sel.Start
		})
	}
	formats.Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithSelection(s.Contents())
	})
	return renderChildren(root)
}
