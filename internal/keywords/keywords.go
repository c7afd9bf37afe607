package keywords

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
)

// Topic is a named keyword category. Patterns are case-insensitive
// regular expressions matched against section and fragment text.
type Topic struct {
	Name     string
	Patterns []string
}

// Config is a keyword configuration. Forbid and Warning hold literal
// importance keywords; Topics holds every other category, in file order.
// Topic order matters: it determines the integer ids the tagger assigns.
type Config struct {
	Forbid  []string
	Warning []string
	Topics  []Topic
}

// Reserved keys that carry importance keywords rather than topics.
const (
	forbidKey  = "forbid"
	warningKey = "warning"
)

// Parse reads a JSON object mapping keyword-list names to string
// arrays. Unlike a plain map decode, it walks the token stream so that
// topic order follows key order in the file.
func Parse(r io.Reader) (Config, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return Config{}, fmt.Errorf("read keyword config: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Config{}, fmt.Errorf("keyword config: expected a JSON object, got %v", tok)
	}

	var cfg Config
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Config{}, fmt.Errorf("read keyword config: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Config{}, fmt.Errorf("keyword config: unexpected token %v", keyTok)
		}

		var list []string
		if err := dec.Decode(&list); err != nil {
			return Config{}, fmt.Errorf("keyword list %q: %w", key, err)
		}

		switch key {
		case forbidKey:
			cfg.Forbid = list
		case warningKey:
			cfg.Warning = list
		default:
			cfg.Topics = append(cfg.Topics, Topic{Name: key, Patterns: list})
		}
	}
	if _, err := dec.Token(); err != nil {
		return Config{}, fmt.Errorf("read keyword config: %w", err)
	}

	return cfg, nil
}

// Load reads a keyword configuration from a JSON file.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open keyword config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate compiles every topic pattern so that malformed regular
// expressions are reported at load time instead of mid-annotation.
func (c Config) Validate() error {
	for _, topic := range c.Topics {
		for _, pattern := range topic.Patterns {
			if _, err := regexp.Compile("(?i)" + pattern); err != nil {
				return fmt.Errorf("topic %q: %w", topic.Name, err)
			}
		}
	}
	return nil
}

// Default returns the built-in keyword configuration used when no
// keyword file is supplied. Callers can override every list; nothing
// here is global state. Topic order fixes the id scheme:
// allergy=0, child=1, pregnancy=2, elderly=3, disease=4.
func Default() Config {
	return Config{
		Forbid:  []string{"하지 말 것", "하지 마십시오", "금기"},
		Warning: []string{"신중", "주의", "경고"},
		Topics: []Topic{
			{Name: "allergy", Patterns: []string{"과민반응", "과민증", "알레르기", "알러지"}},
			{Name: "child", Patterns: []string{"소아", "영아", "신생아", "유아", "어린이"}},
			{Name: "pregnancy", Patterns: []string{"임부", "임산부", "임신", "수유"}},
			{Name: "elderly", Patterns: []string{"고령자", "노인", "고령"}},
			{Name: "disease", Patterns: []string{"환자", "질환", "병력", "장애"}},
		},
	}
}
