package label

import "testing"

func TestStripNumbering(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1. 경고", "경고"},
		{"12. 기타", "기타"},
		{"3) 항목", "항목"},
		{"1.경고", "경고"},
		{"경고", "경고"},
		{"① 항목", "① 항목"},
		{"", ""},
		{"1. 2. 경고", "2. 경고"}, // only one leading token is removed
	}
	for _, tt := range tests {
		if got := StripNumbering(tt.in); got != tt.want {
			t.Errorf("StripNumbering(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDocument_PutKeepsOrder(t *testing.T) {
	doc := NewDocument()
	doc.Put("1. 경고", Plain("a"))
	doc.Put("2. 금기", Plain("b"))
	doc.Put("3. 보관", Plain("c"))

	secs := doc.Sections()
	if len(secs) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(secs))
	}
	want := []string{"1. 경고", "2. 금기", "3. 보관"}
	for i, w := range want {
		if secs[i].Heading != w {
			t.Errorf("section[%d]: expected %q, got %q", i, w, secs[i].Heading)
		}
	}
}

func TestDocument_PutOverwritesInPlace(t *testing.T) {
	doc := NewDocument()
	doc.Put("1. 경고", Plain("old"))
	doc.Put("2. 금기", Plain("b"))
	doc.Put("1. 경고", Subsections{"① new"})

	if doc.Len() != 2 {
		t.Fatalf("expected 2 sections after overwrite, got %d", doc.Len())
	}
	first := doc.Sections()[0]
	if first.Heading != "1. 경고" {
		t.Errorf("expected overwritten heading to keep position 0, got %q", first.Heading)
	}
	subs, ok := first.Content.(Subsections)
	if !ok || len(subs) != 1 || subs[0] != "① new" {
		t.Errorf("expected new content after overwrite, got %#v", first.Content)
	}
}

func TestJoinContent(t *testing.T) {
	if got := JoinContent(Plain("abc")); got != "abc" {
		t.Errorf("expected %q, got %q", "abc", got)
	}
	if got := JoinContent(Subsections{"a", "b"}); got != "a\nb" {
		t.Errorf("expected %q, got %q", "a\nb", got)
	}
}
