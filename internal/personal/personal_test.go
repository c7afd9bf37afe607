package personal

import (
	"reflect"
	"testing"

	"github.com/haemilia/Ybigta-HDMedi/internal/label"
)

func TestResolve_Medications(t *testing.T) {
	meds, _ := Resolve(Context{PriorMedications: []string{"아스피린", "와파린"}})
	if len(meds) != 2 {
		t.Fatalf("expected 2 medication sets, got %d", len(meds))
	}
	if meds[0].Name != "아스피린" || !reflect.DeepEqual(meds[0].Keywords, []string{"아스피린"}) {
		t.Errorf("expected singleton set for 아스피린, got %+v", meds[0])
	}
}

func TestResolve_DiseaseSynonyms(t *testing.T) {
	_, diseases := Resolve(Context{DiseaseInterests: []string{"고혈압"}})
	if len(diseases) != 1 {
		t.Fatalf("expected 1 disease set, got %d", len(diseases))
	}
	want := KeywordSet{Name: "고혈압", Keywords: []string{"고혈압", "혈압"}}
	if !reflect.DeepEqual(diseases[0], want) {
		t.Errorf("expected %+v, got %+v", want, diseases[0])
	}
}

func TestResolve_DiseaseBySynonymName(t *testing.T) {
	// A request naming a synonym resolves to the canonical entry.
	_, diseases := Resolve(Context{DiseaseInterests: []string{"혈당"}})
	if diseases[0].Name != "당뇨병" {
		t.Errorf("expected canonical name 당뇨병, got %q", diseases[0].Name)
	}
}

func TestResolve_UnknownDiseaseFallsBack(t *testing.T) {
	_, diseases := Resolve(Context{DiseaseInterests: []string{"희귀질환X"}})
	want := KeywordSet{Name: "희귀질환X", Keywords: []string{"희귀질환X"}}
	if !reflect.DeepEqual(diseases[0], want) {
		t.Errorf("expected singleton fallback, got %+v", diseases[0])
	}
}

func TestAugment_AssignsDisjointIDs(t *testing.T) {
	table := label.Table{
		{Section: "경고", Content: "고혈압 환자는 복용 전 상담", Importance: label.Warning, Topics: []int{4}},
		{Section: "상호작용", Content: "아스피린과 병용하지 말 것", Importance: label.Informational, Topics: []int{}},
	}
	meds, diseases := Resolve(Context{
		PriorMedications: []string{"아스피린"},
		DiseaseInterests: []string{"고혈압"},
	})

	reg, err := Augment(table, meds, diseases, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reg.Medicine["아스피린"]; got != 5 {
		t.Errorf("expected medication id 5, got %d", got)
	}
	if got := reg.Disease["고혈압"]; got != 6 {
		t.Errorf("expected disease id 6, got %d", got)
	}

	// Row 0 mentions 고혈압, row 1 mentions 아스피린.
	if !reflect.DeepEqual(table[0].DiseaseInterest, []int{6}) {
		t.Errorf("expected disease id 6 on row 0, got %v", table[0].DiseaseInterest)
	}
	if table[0].PastMedicine != nil {
		t.Errorf("expected no medication ids on row 0, got %v", table[0].PastMedicine)
	}
	if !reflect.DeepEqual(table[1].PastMedicine, []int{5}) {
		t.Errorf("expected medication id 5 on row 1, got %v", table[1].PastMedicine)
	}
}

func TestAugment_SynonymMatchesContent(t *testing.T) {
	// "혈압" alone must attract the 고혈압 id via the synonym list.
	table := label.Table{
		{Section: "일반적 주의", Content: "혈압이 낮아질 수 있음", Topics: []int{}},
	}
	_, diseases := Resolve(Context{DiseaseInterests: []string{"고혈압"}})

	reg, err := Augment(table, nil, diseases, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(table[0].DiseaseInterest, []int{reg.Disease["고혈압"]}) {
		t.Errorf("expected synonym match on row 0, got %v", table[0].DiseaseInterest)
	}
}

func TestAugment_EmptyMedicationsReservesNoIDs(t *testing.T) {
	table := label.Table{{Section: "경고", Content: "고혈압 주의", Topics: []int{}}}
	_, diseases := Resolve(Context{DiseaseInterests: []string{"고혈압"}})

	reg, err := Augment(table, nil, diseases, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg.Medicine) != 0 {
		t.Errorf("expected empty medicine registry, got %v", reg.Medicine)
	}
	// Disease ids start directly at startID when no medications exist.
	if got := reg.Disease["고혈압"]; got != 5 {
		t.Errorf("expected disease id 5, got %d", got)
	}
	if table[0].PastMedicine != nil {
		t.Errorf("expected unset medication field, got %v", table[0].PastMedicine)
	}
}

func TestAugment_ConfigurableStartID(t *testing.T) {
	// The dynamic range starts wherever the static range ends.
	table := label.Table{{Section: "경고", Content: "아스피린 병용 주의", Topics: []int{}}}
	meds, _ := Resolve(Context{PriorMedications: []string{"아스피린"}})

	reg, err := Augment(table, meds, nil, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reg.Medicine["아스피린"]; got != 7 {
		t.Errorf("expected medication id 7, got %d", got)
	}
}

func TestAugment_NoDuplicateIDsPerRow(t *testing.T) {
	// Section and content both match; the id must appear once.
	table := label.Table{
		{Section: "아스피린 상호작용", Content: "아스피린과 병용 금지", Topics: []int{}},
	}
	meds, _ := Resolve(Context{PriorMedications: []string{"아스피린"}})

	_, err := Augment(table, meds, nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(table[0].PastMedicine, []int{5}) {
		t.Errorf("expected single id 5, got %v", table[0].PastMedicine)
	}
}
