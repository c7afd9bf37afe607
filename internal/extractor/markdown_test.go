package extractor

import (
	"strings"
	"testing"
)

func TestMarkdownExtractor_HeadingsBecomeLines(t *testing.T) {
	input := "## 1. 경고\n\n복용하지 마십시오\n\n## 2. 금기\n\n내용입니다\n"
	e := &MarkdownExtractor{}
	got, err := e.Extract(strings.NewReader(input), "label.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "1. 경고\n복용하지 마십시오\n2. 금기\n내용입니다"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownExtractor_StripsEmphasis(t *testing.T) {
	e := &MarkdownExtractor{}
	got, err := e.Extract(strings.NewReader("**굵은** 글씨와 *기울임*"), "label.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "굵은 글씨와 기울임" {
		t.Errorf("expected markup stripped, got %q", got)
	}
}

func TestMarkdownExtractor_Empty(t *testing.T) {
	e := &MarkdownExtractor{}
	got, err := e.Extract(strings.NewReader(""), "label.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
