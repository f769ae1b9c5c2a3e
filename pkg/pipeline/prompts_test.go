package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeChatPrompt(t *testing.T) {
	prompt := freeChatPrompt("I like trains")

	assert.Contains(t, prompt, "You are Genie")
	assert.Contains(t, prompt, "Student: I like trains")
	assert.Contains(t, prompt, "End your response with a single, suitable emoji.")
	assert.Contains(t, prompt, "Genie:")
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"hi-IN", "Hindi"},
		{"mr-IN", "Marathi"},
		{"gu-IN", "Gujarati"},
		{"ta-IN", "Tamil"},
		{"pa-IN", "Punjabi"},
		{"fr-FR", "the requested language"},
		{"", "the requested language"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, languageName(tt.code), tt.code)
	}
}

func TestTranslationPrompt(t *testing.T) {
	prompt := translationPrompt("Good morning!", "Hindi")

	assert.Contains(t, prompt, "into Hindi")
	assert.Contains(t, prompt, "ONLY the translation in the native script")
	assert.Contains(t, prompt, "DO NOT include transliteration")
	assert.Contains(t, prompt, "English Text: 'Good morning!'")
}

func TestKnownScenario(t *testing.T) {
	assert.True(t, KnownScenario("school"))
	assert.True(t, KnownScenario("store"))
	assert.True(t, KnownScenario("home"))
	assert.False(t, KnownScenario("spaceship"))
	assert.False(t, KnownScenario(""))
}
