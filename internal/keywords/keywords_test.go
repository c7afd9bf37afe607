package keywords

import (
	"strings"
	"testing"
)

func TestParse_PreservesTopicOrder(t *testing.T) {
	input := `{
		"forbid": ["금기"],
		"zebra": ["얼룩말"],
		"warning": ["주의"],
		"apple": ["사과"],
		"mango": ["망고"]
	}`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Topics keep file order, not lexical order, with the reserved
	// importance keys filtered out wherever they appear.
	want := []string{"zebra", "apple", "mango"}
	if len(cfg.Topics) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(cfg.Topics))
	}
	for i, w := range want {
		if cfg.Topics[i].Name != w {
			t.Errorf("topic[%d]: expected %q, got %q", i, w, cfg.Topics[i].Name)
		}
	}
	if len(cfg.Forbid) != 1 || cfg.Forbid[0] != "금기" {
		t.Errorf("unexpected forbid list: %q", cfg.Forbid)
	}
	if len(cfg.Warning) != 1 || cfg.Warning[0] != "주의" {
		t.Errorf("unexpected warning list: %q", cfg.Warning)
	}
}

func TestParse_MissingImportanceKeys(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`{"child": ["소아"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Forbid != nil || cfg.Warning != nil {
		t.Errorf("expected empty importance lists, got forbid=%q warning=%q", cfg.Forbid, cfg.Warning)
	}
	if len(cfg.Topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(cfg.Topics))
	}
}

func TestParse_NotAnObject(t *testing.T) {
	if _, err := Parse(strings.NewReader(`["a","b"]`)); err == nil {
		t.Error("expected error for non-object config")
	}
}

func TestParse_NonStringList(t *testing.T) {
	if _, err := Parse(strings.NewReader(`{"child": 3}`)); err == nil {
		t.Error("expected error for non-array keyword list")
	}
}

func TestValidate_BadPattern(t *testing.T) {
	cfg := Config{Topics: []Topic{{Name: "broken", Patterns: []string{"("}}}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected pattern compile error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected error to name the topic, got %v", err)
	}
}

func TestDefault_CompilesAndOrders(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed to validate: %v", err)
	}
	want := []string{"allergy", "child", "pregnancy", "elderly", "disease"}
	if len(cfg.Topics) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(cfg.Topics))
	}
	for i, w := range want {
		if cfg.Topics[i].Name != w {
			t.Errorf("topic[%d]: expected %q, got %q", i, w, cfg.Topics[i].Name)
		}
	}
}
