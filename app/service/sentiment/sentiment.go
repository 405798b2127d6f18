// Package sentiment scores utterances with an AFINN-style word list.
package sentiment

import (
	"bufio"
	"strconv"
	"strings"
	"unicode"

	_ "embed"

	"github.com/samber/oops"
)

//go:embed afinn.txt
var afinnList string

type Label string

const (
	VeryPositive     Label = "very positive"
	SlightlyPositive Label = "slightly positive"
	Neutral          Label = "neutral"
	SlightlyNegative Label = "slightly negative"
	Concerning       Label = "negative/concerning"
)

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "dont": true, "don't": true,
	"cant": true, "can't": true, "cannot": true, "isnt": true, "isn't": true,
	"wasnt": true, "wasn't": true, "aint": true, "ain't": true, "wont": true,
	"won't": true, "didnt": true, "didn't": true, "doesnt": true, "doesn't": true,
	"arent": true, "aren't": true, "couldnt": true, "couldn't": true, "shouldnt": true,
	"shouldn't": true, "neither": true, "nor": true, "nothing": true,
}

type Result struct {
	Score    int      `json:"score"`
	Label    Label    `json:"label"`
	Feedback string   `json:"feedback"`
	Positive []string `json:"positive,omitempty"`
	Negative []string `json:"negative,omitempty"`
}

type Analyzer struct {
	lexicon map[string]int
}

func New() (*Analyzer, error) {
	lexicon, err := parseLexicon(afinnList)
	if err != nil {
		return nil, err
	}

	return &Analyzer{lexicon: lexicon}, nil
}

func parseLexicon(data string) (map[string]int, error) {
	lexicon := make(map[string]int)

	scanner := bufio.NewScanner(strings.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		word, value, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, oops.In("sentiment").Errorf("malformed lexicon line %d", line)
		}

		score, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, oops.In("sentiment").Wrapf(err, "lexicon line %d", line)
		}

		lexicon[word] = score
	}

	return lexicon, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
}

// Analyze sums word scores; a negator directly before a word flips its sign.
func (a *Analyzer) Analyze(text string) Result {
	var result Result

	tokens := tokenize(text)
	for i, token := range tokens {
		token = strings.ReplaceAll(token, "’", "'")

		score, ok := a.lexicon[strings.Trim(token, "'")]
		if !ok || score == 0 {
			continue
		}

		if i > 0 && negators[strings.ReplaceAll(tokens[i-1], "’", "'")] {
			score = -score
		}

		result.Score += score
		if score > 0 {
			result.Positive = append(result.Positive, token)
		} else {
			result.Negative = append(result.Negative, token)
		}
	}

	result.Label = LabelFor(result.Score)
	result.Feedback = FeedbackFor(result.Label)

	return result
}

func LabelFor(score int) Label {
	switch {
	case score > 2:
		return VeryPositive
	case score > 0:
		return SlightlyPositive
	case score == 0:
		return Neutral
	case score >= -2:
		return SlightlyNegative
	default:
		return Concerning
	}
}

func FeedbackFor(label Label) string {
	switch label {
	case VeryPositive:
		return "Positive mood detected! 😊"
	case SlightlyPositive:
		return "Slightly positive mood."
	case SlightlyNegative:
		return "Slightly negative mood."
	case Concerning:
		return "You seem upset. If you want to talk, I'm here for you."
	default:
		return "Neutral mood."
	}
}
