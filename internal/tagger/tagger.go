package tagger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/haemilia/Ybigta-HDMedi/internal/keywords"
	"github.com/haemilia/Ybigta-HDMedi/internal/label"
)

// Tag annotates every fragment of a segmented document with an
// importance level and topic ids. Topic ids are assigned by position in
// cfg.Topics, starting at 0, and returned as a name → id registry
// alongside the table. A malformed topic pattern fails the whole call.
func Tag(doc *label.Document, cfg keywords.Config) (label.Table, map[string]int, error) {
	topicIDs := make(map[string]int, len(cfg.Topics))
	compiled := make([][]*regexp.Regexp, len(cfg.Topics))
	for i, topic := range cfg.Topics {
		topicIDs[topic.Name] = i
		for _, pattern := range topic.Patterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, nil, fmt.Errorf("topic %q: %w", topic.Name, err)
			}
			compiled[i] = append(compiled[i], re)
		}
	}

	table := label.Table{}
	for _, sec := range doc.Sections() {
		title := label.StripNumbering(sec.Heading)

		// Topics matched at the heading level apply to every fragment of
		// the section and are not re-tested per fragment.
		headingSet := make(map[int]struct{})
		var headingIDs []int
		for i := range compiled {
			if matchAny(compiled[i], title) {
				headingSet[i] = struct{}{}
				headingIDs = append(headingIDs, i)
			}
		}

		emit := func(fragment string) {
			frag := label.StripNumbering(fragment)
			ids := make([]int, 0, len(headingIDs))
			ids = append(ids, headingIDs...)
			for i := range compiled {
				if _, tagged := headingSet[i]; tagged {
					continue
				}
				if matchAny(compiled[i], frag) {
					ids = append(ids, i)
				}
			}
			table = append(table, label.Row{
				Section:    title,
				Content:    frag,
				Importance: tagImportance(title, frag, cfg.Forbid, cfg.Warning),
				Topics:     ids,
			})
		}

		switch c := sec.Content.(type) {
		case label.Plain:
			emit(string(c))
		case label.Subsections:
			for _, sub := range c {
				emit(sub)
			}
		}
	}

	return table, topicIDs, nil
}

// tagImportance classifies a row by literal, case-sensitive keyword
// containment. The section title is tested first, forbid before
// warning; if the title carries no importance keyword the fragment
// itself is tested, since the actionable phrasing ("~하지 마십시오")
// often sits in the body under a neutral title.
func tagImportance(title, fragment string, forbid, warning []string) label.Importance {
	if containsAny(title, forbid) {
		return label.Forbidden
	}
	if containsAny(title, warning) {
		return label.Warning
	}
	if containsAny(fragment, forbid) {
		return label.Forbidden
	}
	if containsAny(fragment, warning) {
		return label.Warning
	}
	return label.Informational
}

func containsAny(s string, kws []string) bool {
	for _, kw := range kws {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
