package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeechText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "Hello there, friend!",
			want:  "Hello there, friend!",
		},
		{
			name: "parenthesis truncation wins over later rules",
			// Everything from the first '(' is dropped before quote or
			// emoji stripping can see it.
			input: "Hello 'world' (aside) 😊 bye",
			want:  "Hello",
		},
		{
			name:  "stage direction removed",
			input: "Welcome to my shop! (smiles warmly)",
			want:  "Welcome to my shop!",
		},
		{
			name:  "single quoted aside removed",
			input: "Say 'hello' to everyone",
			want:  "Say  to everyone",
		},
		{
			name:  "double quoted aside removed",
			input: `The word "apple" starts with A`,
			want:  "The word  starts with A",
		},
		{
			name:  "quote stripping is non-greedy",
			input: "'a' keep 'b'",
			want:  "keep",
		},
		{
			name:  "unbalanced quote left alone",
			input: "it's a nice day",
			want:  "it's a nice day",
		},
		{
			name:  "emoji stripped",
			input: "Great job! 🎉🐶",
			want:  "Great job!",
		},
		{
			name:  "emoji in the middle",
			input: "Good 😊 morning",
			want:  "Good  morning",
		},
		{
			name:  "dingbat range stripped",
			input: "Done ✂ cutting",
			want:  "Done  cutting",
		},
		{
			name:  "native script preserved",
			input: "नमस्ते! आप कैसे हैं? 😊",
			want:  "नमस्ते! आप कैसे हैं?",
		},
		{
			name:  "paren first character yields empty",
			input: "(whispers) hello",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpeechText(tt.input))
		})
	}
}

func TestSpeechText_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello 'world' (aside) 😊 bye",
		"Great job! 🎉",
		"Say 'hello' to everyone",
	}
	for _, in := range inputs {
		once := SpeechText(in)
		assert.Equal(t, once, SpeechText(once))
	}
}
