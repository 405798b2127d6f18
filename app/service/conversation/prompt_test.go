package conversation

import (
	"innervoice/app/service/memory"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposePromptEmptyMemory(t *testing.T) {
	prompt := ComposePrompt(memory.NewStore().Format(), DefaultLanguage)

	assert.Contains(t, prompt, "Known context about the user:\nNone yet.\n")
	assert.Contains(t, prompt, CrisisHelpline)
	assert.NotContains(t, prompt, "IMPORTANT: Reply in")
	assert.NotContains(t, prompt, "{facts}")
}

func TestComposePromptListsFacts(t *testing.T) {
	store := memory.NewStore()
	store.Set(memory.Identity, "a student")
	store.Set(memory.Goal, "teacher")

	prompt := ComposePrompt(store.Format(), DefaultLanguage)

	assert.Contains(t, prompt, "- Identity: a student\n- Goal: teacher")
	assert.NotContains(t, prompt, "None yet.")
}

func TestComposePromptLanguageDirective(t *testing.T) {
	tests := map[string]string{
		"hi": "Hindi",
		"ta": "Tamil",
		"bn": "Bengali",
		"mr": "Marathi",
		"fr": "the selected language",
	}

	for code, name := range tests {
		prompt := ComposePrompt("None yet.", code)
		assert.True(t, strings.HasSuffix(prompt,
			"IMPORTANT: Reply in "+name+" unless the user switches back to English."), code)
	}

	assert.NotContains(t, ComposePrompt("None yet.", ""), "IMPORTANT")
}
