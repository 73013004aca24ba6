// Package sanitizer normalizes free-text payload fields before they are
// persisted. The core never interprets these fields; sanitization only keeps
// the on-disk records tidy and single-line safe.
package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reWhitespace  = regexp.MustCompile(`\s+`)
	reControl     = regexp.MustCompile(`[\x00-\x1f\x7f]+`)
	reMultiSpaces = regexp.MustCompile(` {2,}`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControl(s string) string {
	return reControl.ReplaceAllString(s, " ")
}

func collapseWhitespace(s string) string {
	return reWhitespace.ReplaceAllString(s, " ")
}

// SanitizeLabel normalizes short labels such as locations and package names.
func SanitizeLabel(input string) string {
	p := Pipeline{
		stripControl,
		collapseWhitespace,
		trim,
	}
	return p.Apply(input)
}

// SanitizeFreeText normalizes longer free text such as booking notes.
// Newlines are flattened since records are one line on disk.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		stripControl,
		func(s string) string { return reMultiSpaces.ReplaceAllString(s, " ") },
		trim,
	}
	return p.Apply(input)
}
