package memory

import (
	"regexp"
	"strings"
)

var resetPhrases = []string{"forget", "clear memory"}

// Rule extracts one category. Patterns are tried in order and the first
// match wins; MaxLen rejects captures that reach that many characters.
type Rule struct {
	Category Category
	Patterns []*regexp.Regexp
	MaxLen   int
}

func (r Rule) match(text string) (string, bool) {
	for _, pattern := range r.Patterns {
		groups := pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		if r.MaxLen > 0 && len(groups[1]) >= r.MaxLen {
			return "", false
		}

		value := strings.TrimSpace(groups[1])
		if value == "" {
			return "", false
		}

		return value, true
	}

	return "", false
}

var DefaultRules = []Rule{
	{
		Category: Identity,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`i\s*(?:am|'m|’m)\s+([a-z\s]+)`),
		},
		MaxLen: 50,
	},
	{
		Category: AcademicScore,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`scored\s+(\d+%?)`),
			regexp.MustCompile(`got\s+(\d+%?)`),
		},
	},
	{
		Category: Goal,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`i\s+want\s+to\s+be(?:come)?\s+a\s+([a-z\s]+)`),
		},
	},
	{
		Category: Struggle,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`i\s+feel\s+like\s+a\s+([a-z\s]+)`),
		},
	},
}

type Extractor struct {
	rules []Rule
}

func NewExtractor(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// Extract evaluates every rule independently against the case-folded utterance.
func (e *Extractor) Extract(utterance string) Extraction {
	text := strings.ToLower(utterance)

	for _, phrase := range resetPhrases {
		if strings.Contains(text, phrase) {
			return Extraction{Reset: true}
		}
	}

	var result Extraction
	for _, rule := range e.rules {
		if value, ok := rule.match(text); ok {
			result.Facts = append(result.Facts, Fact{
				Category: rule.Category,
				Value:    value,
			})
		}
	}

	return result
}
