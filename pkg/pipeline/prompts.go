package pipeline

import "fmt"

// freeChatPrompt builds the single-shot prompt that fixes the Genie persona
// around the literal user text.
func freeChatPrompt(userText string) string {
	return "You are Genie, a friendly, patient, and encouraging AI English tutor for children. " +
		"Keep your answers short, simple, and cheerful. Ask a follow-up question to keep the conversation going. " +
		"End your response with a single, suitable emoji.\n\n" +
		"Student: " + userText + "\n" +
		"Genie:"
}

// languageNames maps target language codes to the human name used in the
// translation prompt.
var languageNames = map[string]string{
	"hi-IN": "Hindi",
	"mr-IN": "Marathi",
	"gu-IN": "Gujarati",
	"ta-IN": "Tamil",
	"pa-IN": "Punjabi",
}

// languageName returns the prompt label for a language code. Unrecognized
// codes get a generic label rather than failing the turn.
func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "the requested language"
}

// translationPrompt builds the fixed translation instruction. Output must be
// native script only, no transliteration, phrased for a child.
func translationPrompt(text, targetLanguageName string) string {
	return fmt.Sprintf(
		"Translate the following English text for a child into %s. "+
			"Provide ONLY the translation in the native script. DO NOT include transliteration.\n\n"+
			"English Text: '%s'",
		targetLanguageName, text,
	)
}
