package segment

import (
	"regexp"
	"strings"

	"github.com/haemilia/Ybigta-HDMedi/internal/label"
)

// Korean medicine labels are linearly formatted: top-level sections are
// numbered "1. 제목", subsections are marked "1)", circled digits ① to ⑳,
// or single-syllable ordinals like "가.". Split recovers the hierarchy
// from that formatting alone.

var (
	// A heading is a full line of the form "<digits>. <title>". The title
	// may not contain a colon, so inline "항목: 값" lines stay in the
	// section body instead of opening a new section.
	headingPattern = regexp.MustCompile(`^\d+\.\s[^:\n]+$`)

	// Subsection markers, recognized only inside an open section.
	subsectionPattern = regexp.MustCompile(`^(\d+\)|[①-⑳])\s.*|^[가-힣]\.\s.*`)
)

// Split converts raw label text into an ordered section document.
// Empty input yields an empty document; lines appearing before the
// first heading have no section to belong to and are dropped.
func Split(text string) *label.Document {
	doc := label.NewDocument()
	if text == "" {
		return doc
	}

	var (
		heading     string
		hasHeading  bool
		content     strings.Builder
		subsections []string
	)

	flush := func() {
		if !hasHeading {
			return
		}
		if len(subsections) > 0 {
			// Trailing prose after the last marker is still part of the
			// section; keep it as a final fragment.
			if buf := strings.TrimSpace(content.String()); buf != "" {
				subsections = append(subsections, buf)
			}
			doc.Put(heading, label.Subsections(subsections))
		} else {
			doc.Put(heading, label.Plain(strings.TrimSpace(content.String())))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case headingPattern.MatchString(line):
			flush()
			heading = strings.TrimRight(line, " \t\r")
			hasHeading = true
			content.Reset()
			subsections = nil

		case hasHeading && subsectionPattern.MatchString(line):
			// Prose accumulated since the last marker becomes its own
			// fragment, in order, before the marker line.
			if content.Len() > 0 {
				if buf := strings.TrimSpace(content.String()); buf != "" {
					subsections = append(subsections, buf)
				}
			}
			subsections = append(subsections, strings.TrimRight(line, " \t\r"))
			content.Reset()

		default:
			content.WriteString("\n")
			content.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	return doc
}
