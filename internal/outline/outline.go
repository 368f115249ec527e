// Package outline turns the entries collected during a build into the AsciiDoc
// source of the index page.
package outline

import (
	"strings"
)

// DefaultHeading is the document title of the synthesized index.
const DefaultHeading = "Index"

// Entry is one line of the index outline. Level is the nesting level derived from the
// entry's source path; Target is empty for directory entries.
type Entry struct {
	Level  int
	Label  string
	Target string
}

// IsLink reports whether the entry cross-references a rendered document.
func (e Entry) IsLink() bool { return e.Target != "" }

// Line renders the entry as an AsciiDoc list item nested Level+1 deep. The label
// always stays on one line; inside a cross-reference "]" is escaped.
func (e Entry) Line() string {
	stars := strings.Repeat("*", max(e.Level, 0)+1)
	label := collapseSpace(e.Label)
	if e.IsLink() {
		return stars + " xref:" + e.Target + "[" + linkLabels.Replace(label) + "]"
	}
	return stars + " " + label
}

var linkLabels = strings.NewReplacer("]", `\]`)

// collapseSpace replaces every whitespace run, newlines included, with one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Synthesize builds the outline document: a level-0 heading, a blank line, then one
// list item per entry in the order given.
func Synthesize(heading string, entries []Entry) string {
	if heading == "" {
		heading = DefaultHeading
	}
	var b strings.Builder
	b.WriteString("= ")
	b.WriteString(heading)
	b.WriteString("\n\n")
	for _, e := range entries {
		b.WriteString(e.Line())
		b.WriteByte('\n')
	}
	return b.String()
}
