package conversation

import (
	"fmt"
	"strings"

	_ "embed"
)

//go:embed persona_prompt.txt
var personaPromptTemplate string

// CrisisHelpline must stay verbatim inside persona_prompt.txt.
const CrisisHelpline = "iCall: +91 9152987821"

const DefaultLanguage = "en"

var languageNames = map[string]string{
	"hi": "Hindi",
	"ta": "Tamil",
	"bn": "Bengali",
	"mr": "Marathi",
}

// Languages lists the codes the chat accepts, default first.
var Languages = []string{DefaultLanguage, "hi", "ta", "bn", "mr"}

func LanguageName(code string) string {
	if code == DefaultLanguage {
		return "English"
	}
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "the selected language"
}

// ComposePrompt renders the persona with the formatted facts and, for
// non-default languages, a reply language directive.
func ComposePrompt(facts, language string) string {
	prompt := strings.ReplaceAll(personaPromptTemplate, "{facts}", facts)

	if language != "" && language != DefaultLanguage {
		prompt += fmt.Sprintf("\n\nIMPORTANT: Reply in %s unless the user switches back to English.",
			LanguageName(language))
	}

	return prompt
}
