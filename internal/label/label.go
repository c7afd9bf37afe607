package label

import (
	"regexp"
	"strings"
)

// Importance classifies a section's action guidance.
type Importance int

const (
	Forbidden     Importance = 0 // do not take / contraindicated
	Warning       Importance = 1 // take with caution
	Informational Importance = 2 // everything else
)

// Content is the body of a section: either plain prose or an ordered
// list of subsection fragments. Exactly one of the two concrete types
// implements it; consumers switch on the concrete type.
type Content interface {
	isContent()
}

// Plain is section prose with no subsection markers.
type Plain string

// Subsections is the ordered fragment list of a section that contains
// subsection markers. Free prose between markers appears as its own
// fragment in document order.
type Subsections []string

func (Plain) isContent()       {}
func (Subsections) isContent() {}

// Section pairs a heading (numbering prefix retained) with its content.
type Section struct {
	Heading string
	Content Content
}

// Document is an ordered mapping from heading to content. A later
// heading with identical text overwrites the earlier value but keeps
// the original position, mirroring insertion-ordered map semantics.
type Document struct {
	sections []Section
	index    map[string]int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{index: make(map[string]int)}
}

// Put inserts or overwrites the content for a heading.
func (d *Document) Put(heading string, content Content) {
	if i, ok := d.index[heading]; ok {
		d.sections[i].Content = content
		return
	}
	d.index[heading] = len(d.sections)
	d.sections = append(d.sections, Section{Heading: heading, Content: content})
}

// Sections returns the sections in document order.
func (d *Document) Sections() []Section {
	return d.sections
}

// Len returns the number of distinct headings.
func (d *Document) Len() int {
	return len(d.sections)
}

// Row is one annotated fragment of label text.
type Row struct {
	Section    string     `json:"section"`
	Content    string     `json:"content"`
	Importance Importance `json:"section_importance"`
	Topics     []int      `json:"topics"`

	// Populated only by the personalization pass.
	PastMedicine    []int `json:"past_medicine,omitempty"`
	DiseaseInterest []int `json:"disease_interest,omitempty"`
}

// Table is the flat annotation output, one row per fragment.
type Table []Row

var numberingPattern = regexp.MustCompile(`^\d+[.)]\s*`)

// StripNumbering removes a single leading "<digits>. " or "<digits>) "
// token. Applied identically to headings and content fragments.
func StripNumbering(s string) string {
	return numberingPattern.ReplaceAllString(s, "")
}

// JoinContent flattens content back to a single string, used when a
// whole section needs to be treated as one text.
func JoinContent(c Content) string {
	switch v := c.(type) {
	case Plain:
		return string(v)
	case Subsections:
		return strings.Join(v, "\n")
	}
	return ""
}
