package personal

import (
	"fmt"
	"regexp"

	"github.com/haemilia/Ybigta-HDMedi/internal/label"
)

// Context carries the user-specific inputs of the personalization pass.
type Context struct {
	PriorMedications []string `json:"prior_medications"`
	DiseaseInterests []string `json:"diseases_of_interest"`
}

// Empty reports whether there is nothing to personalize.
func (c Context) Empty() bool {
	return len(c.PriorMedications) == 0 && len(c.DiseaseInterests) == 0
}

// KeywordSet is one dynamically-generated keyword category. Order of a
// []KeywordSet determines dynamic id assignment, the same way topic
// order determines static ids.
type KeywordSet struct {
	Name     string
	Keywords []string
}

// Registry maps dynamically assigned category names to their ids.
// Either map may be empty when that category was absent from the
// request.
type Registry struct {
	Medicine map[string]int `json:"medicine"`
	Disease  map[string]int `json:"disease"`
}

// diseaseSynonyms maps canonical disease names to the keyword lists
// used to find mentions in label text. Matching a request against
// either the canonical name or any synonym resolves to the full list.
var diseaseSynonyms = []KeywordSet{
	{Name: "고혈압", Keywords: []string{"고혈압", "혈압"}},
	{Name: "당뇨병", Keywords: []string{"당뇨병", "당뇨", "혈당"}},
	{Name: "천식", Keywords: []string{"천식", "기관지천식"}},
	{Name: "심장질환", Keywords: []string{"심장질환", "심질환", "심장"}},
	{Name: "신장질환", Keywords: []string{"신장질환", "신부전", "신장", "콩팥"}},
	{Name: "간질환", Keywords: []string{"간질환", "간장애", "간염"}},
	{Name: "녹내장", Keywords: []string{"녹내장", "안압"}},
	{Name: "갑상선질환", Keywords: []string{"갑상선질환", "갑상선"}},
	{Name: "위궤양", Keywords: []string{"위궤양", "소화성궤양", "궤양"}},
}

// Resolve expands the user context into ordered keyword sets. Each
// prior medication becomes a singleton set keyed by itself. Each
// disease of interest is resolved against the synonym table; unknown
// names fall back to a singleton set.
func Resolve(ctx Context) (medications, diseases []KeywordSet) {
	for _, name := range ctx.PriorMedications {
		medications = append(medications, KeywordSet{Name: name, Keywords: []string{name}})
	}
	for _, name := range ctx.DiseaseInterests {
		diseases = append(diseases, resolveDisease(name))
	}
	return medications, diseases
}

func resolveDisease(name string) KeywordSet {
	for _, entry := range diseaseSynonyms {
		for _, syn := range entry.Keywords {
			if name == syn {
				return entry
			}
		}
	}
	return KeywordSet{Name: name, Keywords: []string{name}}
}

// Augment adds per-row medication and disease ids to an existing
// table, in place, and returns the dynamic id registry. startID is the
// first free id above the static topic range, i.e. the number of
// static topics; dynamic ids never collide with static ones.
// Medication ids are assigned first, disease ids continue after them.
// An empty category reserves no ids and leaves its field unset.
func Augment(table label.Table, medications, diseases []KeywordSet, startID int) (Registry, error) {
	reg := Registry{
		Medicine: make(map[string]int),
		Disease:  make(map[string]int),
	}

	if len(medications) > 0 {
		ids, err := applySets(table, medications, startID, func(row *label.Row, id int) {
			row.PastMedicine = append(row.PastMedicine, id)
		})
		if err != nil {
			return Registry{}, fmt.Errorf("prior medications: %w", err)
		}
		reg.Medicine = ids
	}

	if len(diseases) > 0 {
		ids, err := applySets(table, diseases, startID+len(reg.Medicine), func(row *label.Row, id int) {
			row.DiseaseInterest = append(row.DiseaseInterest, id)
		})
		if err != nil {
			return Registry{}, fmt.Errorf("diseases of interest: %w", err)
		}
		reg.Disease = ids
	}

	return reg, nil
}

// applySets assigns sequential ids to the keyword sets and tags every
// row whose section or content matches a set. Each id is added to a
// row at most once, even when both fields match.
func applySets(table label.Table, sets []KeywordSet, firstID int, add func(*label.Row, int)) (map[string]int, error) {
	ids := make(map[string]int, len(sets))
	for offset, set := range sets {
		id := firstID + offset
		ids[set.Name] = id

		var patterns []*regexp.Regexp
		for _, kw := range set.Keywords {
			re, err := regexp.Compile("(?i)" + kw)
			if err != nil {
				return nil, fmt.Errorf("keyword set %q: %w", set.Name, err)
			}
			patterns = append(patterns, re)
		}

		for i := range table {
			row := &table[i]
			if matchAny(patterns, row.Section) || matchAny(patterns, row.Content) {
				add(row, id)
			}
		}
	}
	return ids, nil
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
