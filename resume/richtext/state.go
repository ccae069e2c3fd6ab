// Package richtext models the rich-text fragment editor as a value: the
// stored HTML plus a selection over its text content. Formatting commands
// are pure functions from one State to the next.
package richtext

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnknownCommand is returned for command names outside the toolbar set.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one toolbar formatting action.
type Command string

const (
	Bold          Command = "bold"
	Italic        Command = "italic"
	Underline     Command = "underline"
	UnorderedList Command = "insertUnorderedList"
	OrderedList   Command = "insertOrderedList"
	RemoveFormat  Command = "removeFormat"
)

// Commands lists the toolbar in display order.
var Commands = []Command{Bold, Italic, Underline, UnorderedList, OrderedList, RemoveFormat}

// ParseCommand resolves a command name, case-insensitively.
func ParseCommand(raw string) (Command, error) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range Commands {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, raw)
}

// Range is a half-open span of rune offsets into the fragment's text content.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Collapsed reports whether the range selects nothing.
func (r Range) Collapsed() bool { return r.Start == r.End }

// State is the editor's document and selection.
type State struct {
	HTML      string `json:"html"`
	Selection Range  `json:"selection"`
}

// NewState returns a state over fragment with a collapsed selection at the end.
func NewState(fragment string) (State, error) {
	text, err := PlainText(fragment)
	if err != nil {
		return State{}, err
	}
	n := utf8.RuneCountInString(text)
	return State{HTML: fragment, Selection: Range{Start: n, End: n}}, nil
}

// Select returns a copy of s with the selection clamped to the text bounds.
func (s State) Select(start, end int) (State, error) {
	text, err := PlainText(s.HTML)
	if err != nil {
		return State{}, err
	}
	s.Selection = clampRange(Range{Start: start, End: end}, utf8.RuneCountInString(text))
	return s, nil
}

// Apply runs cmd against s and returns the resulting state.
func Apply(s State, cmd Command) (State, error) {
	s, err := s.Select(s.Selection.Start, s.Selection.End)
	if err != nil {
		return State{}, err
	}
	var html string
	switch cmd {
	case Bold:
		html, err = toggleInline(s.HTML, s.Selection, "b", "strong")
	case Italic:
		html, err = toggleInline(s.HTML, s.Selection, "i", "em")
	case Underline:
		html, err = toggleInline(s.HTML, s.Selection, "u")
	case UnorderedList:
		html, err = toggleList(s.HTML, s.Selection, "ul")
	case OrderedList:
		html, err = toggleList(s.HTML, s.Selection, "ol")
	case RemoveFormat:
		html, err = removeFormat(s.HTML, s.Selection)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	if err != nil {
		return s, err
	}
	return s.withHTML(html)
}

func (s State) withHTML(fragment string) (State, error) {
	s.HTML = fragment
	return s.Select(s.Selection.Start, s.Selection.End)
}

func clampRange(r Range, n int) Range {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End < 0 {
		r.End = 0
	}
	if r.Start > n {
		r.Start = n
	}
	if r.End > n {
		r.End = n
	}
	return r
}
