package annotate

import (
	"reflect"
	"testing"

	"github.com/haemilia/Ybigta-HDMedi/internal/keywords"
	"github.com/haemilia/Ybigta-HDMedi/internal/label"
	"github.com/haemilia/Ybigta-HDMedi/internal/personal"
)

const sampleText = "1. 경고\n소아는 복용하지 마십시오\n2. 일반적 주의\n① 고혈압 환자는 의사와 상의\n② 아스피린과 병용 시 신중히 투여"

func TestAnnotate_StaticOnly(t *testing.T) {
	res, err := Annotate(sampleText, keywords.Default(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(res.Rows))
	}
	if res.Medicine != nil || res.Disease != nil {
		t.Error("expected no dynamic registries without a user context")
	}

	// Section 1 is a warning heading containing a forbid phrase in the body.
	if res.Rows[0].Importance != label.Warning {
		t.Errorf("expected warning importance from 경고 title, got %d", res.Rows[0].Importance)
	}
	if !contains(res.Rows[0].Topics, res.Topics["child"]) {
		t.Errorf("expected child topic on row 0, got %v", res.Rows[0].Topics)
	}
}

func TestAnnotate_WithUserContext(t *testing.T) {
	user := &personal.Context{
		PriorMedications: []string{"아스피린"},
		DiseaseInterests: []string{"고혈압"},
	}
	cfg := keywords.Default()

	res, err := Annotate(sampleText, cfg, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Dynamic ids start right above the five static topics.
	if got := res.Medicine["아스피린"]; got != 5 {
		t.Errorf("expected medication id 5, got %d", got)
	}
	if got := res.Disease["고혈압"]; got != 6 {
		t.Errorf("expected disease id 6, got %d", got)
	}

	// Row 1 mentions 고혈압, row 2 mentions 아스피린.
	if !reflect.DeepEqual(res.Rows[1].DiseaseInterest, []int{6}) {
		t.Errorf("expected disease id 6 on row 1, got %v", res.Rows[1].DiseaseInterest)
	}
	if !reflect.DeepEqual(res.Rows[2].PastMedicine, []int{5}) {
		t.Errorf("expected medication id 5 on row 2, got %v", res.Rows[2].PastMedicine)
	}

	// Dynamic ids never collide with static topic ids.
	for name, id := range res.Topics {
		if id >= 5 {
			t.Errorf("static topic %q has id %d in the dynamic range", name, id)
		}
	}
}

func TestAnnotate_EmptyText(t *testing.T) {
	res, err := Annotate("", keywords.Default(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("expected empty table, got %d rows", len(res.Rows))
	}
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
