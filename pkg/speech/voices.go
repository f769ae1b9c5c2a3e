package speech

// DefaultVoice is used when a language code has no registered voice.
const DefaultVoice = "en-US-Wavenet-D"

// voiceNames maps supported language codes to their Wavenet voice. Voice
// selection is an exact match on the code; everything else speaks English.
var voiceNames = map[string]string{
	"en-US": "en-US-Wavenet-D",
	"hi-IN": "hi-IN-Wavenet-A",
	"mr-IN": "mr-IN-Wavenet-A",
	"gu-IN": "gu-IN-Wavenet-A",
	"ta-IN": "ta-IN-Wavenet-A",
	"pa-IN": "pa-IN-Wavenet-A",
}

// VoiceFor returns the voice name for a language code, falling back to
// DefaultVoice for unrecognized codes.
func VoiceFor(languageCode string) string {
	if name, ok := voiceNames[languageCode]; ok {
		return name
	}
	return DefaultVoice
}
