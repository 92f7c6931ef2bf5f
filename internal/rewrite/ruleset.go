package rewrite

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed rules/*.yaml
var builtinRules embed.FS

var ErrUnknownLanguage = errors.New("no rule set for language")

// RuleSet is an ordered, immutable list of compiled rules.
type RuleSet struct {
	Language string
	Rules    []Rule
}

// rule table file layout
type ruleFile struct {
	Language    string     `yaml:"language"`
	Description string     `yaml:"description"`
	Rules       [][]string `yaml:"rules"`
}

// ReplaceOne runs every rule over line, in order.
func (rs *RuleSet) ReplaceOne(line string) string {
	for _, r := range rs.Rules {
		line = r.Apply(line)
	}
	return line
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.Rules)
}

// Languages lists the built-in rule sets.
func Languages() []string {
	entries, err := fs.Glob(builtinRules, "rules/*.yaml")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(e, "rules/"), ".yaml")
		langs = append(langs, name)
	}
	sort.Strings(langs)
	return langs
}

var languageWords = map[string]string{
	"anglais":  "en",
	"english":  "en",
	"francais": "fr",
	"français": "fr",
	"french":   "fr",
}

// NormalizeLanguage maps a selector such as "FR", "fr-CA" or "french" to
// the base language code used to name rule sets.
func NormalizeLanguage(sel string) (string, error) {
	sel = strings.ToLower(strings.TrimSpace(sel))
	if code, ok := languageWords[sel]; ok {
		return code, nil
	}
	tag, err := language.Parse(sel)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrUnknownLanguage, sel, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// Load compiles the built-in rule set for lang and appends the rules of
// every extra file, in order.
func Load(lang string, extraFiles ...string) (*RuleSet, error) {
	code, err := NormalizeLanguage(lang)
	if err != nil {
		return nil, err
	}

	data, err := builtinRules.ReadFile("rules/" + code + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w %q (available: %s)",
			ErrUnknownLanguage, lang, strings.Join(Languages(), ", "))
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("built-in %s rules: %w", code, err)
	}

	for _, path := range extraFiles {
		extra, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		rules = append(rules, extra...)
	}

	return &RuleSet{Language: code, Rules: rules}, nil
}

// LoadFile compiles a user rule file.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes a YAML rule table and compiles each pair.
func ParseRules(data []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, pair := range file.Rules {
		if len(pair) != 2 {
			return nil, fmt.Errorf("rule %d: expected [pattern, replacement], got %d items", i+1, len(pair))
		}
		r, err := ParseRule(pair[0], pair[1])
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
