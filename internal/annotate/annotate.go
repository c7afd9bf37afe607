package annotate

import (
	"github.com/haemilia/Ybigta-HDMedi/internal/keywords"
	"github.com/haemilia/Ybigta-HDMedi/internal/label"
	"github.com/haemilia/Ybigta-HDMedi/internal/personal"
	"github.com/haemilia/Ybigta-HDMedi/internal/segment"
	"github.com/haemilia/Ybigta-HDMedi/internal/tagger"
)

// Result is one medicine's complete annotation output: the tagged
// rows plus the id registries needed to interpret them.
type Result struct {
	Rows   label.Table    `json:"rows"`
	Topics map[string]int `json:"topics"`

	// Populated only when a personalization context was supplied.
	Medicine map[string]int `json:"medicine,omitempty"`
	Disease  map[string]int `json:"disease,omitempty"`
}

// Annotate runs the full pass over one medicine's label text:
// segmentation, static topic tagging, and, when a user context is
// present, the personalization extension. Dynamic ids start right
// above the static topic range.
func Annotate(text string, cfg keywords.Config, user *personal.Context) (Result, error) {
	doc := segment.Split(text)

	rows, topicIDs, err := tagger.Tag(doc, cfg)
	if err != nil {
		return Result{}, err
	}
	res := Result{Rows: rows, Topics: topicIDs}

	if user != nil && !user.Empty() {
		medications, diseases := personal.Resolve(*user)
		reg, err := personal.Augment(rows, medications, diseases, len(cfg.Topics))
		if err != nil {
			return Result{}, err
		}
		res.Medicine = reg.Medicine
		res.Disease = reg.Disease
	}

	return res, nil
}
