package pipeline

import (
	"regexp"
	"strings"
)

// quotedSpanRE removes paired single- or double-quoted spans, non-greedy.
// Unbalanced quotes are left alone; this is best-effort removal of quoted
// asides, not a parser.
var quotedSpanRE = regexp.MustCompile(`'.*?'|".*?"`)

// emojiRE covers the common emoji blocks plus misc symbols and dingbats.
var emojiRE = regexp.MustCompile(`[` +
	`\x{1F600}-\x{1F64F}` + // emoticons
	`\x{1F300}-\x{1F5FF}` + // symbols & pictographs
	`\x{1F680}-\x{1F6FF}` + // transport & map symbols
	`\x{1F700}-\x{1F77F}` + // alchemical symbols
	`\x{1F780}-\x{1F7FF}` + // geometric shapes extended
	`\x{1F800}-\x{1F8FF}` + // supplemental arrows-C
	`\x{1F900}-\x{1F9FF}` + // supplemental symbols & pictographs
	`\x{1FA00}-\x{1FA6F}` + // chess symbols
	`\x{1FA70}-\x{1FAFF}` + // symbols & pictographs extended-A
	`\x{2702}-\x{27B0}` + // dingbats
	`\x{24C2}-\x{1F251}` +
	`]+`)

// SpeechText reduces display text to what should actually be spoken:
//
//  1. truncate at the first '(': parenthetical stage directions are not
//     spoken; this rule runs first and wins over the others
//  2. strip paired-quote spans: quoted asides are not spoken
//  3. strip emoji
//
// The text shown to the client is never altered; only the synthesis input.
func SpeechText(text string) string {
	if i := strings.IndexByte(text, '('); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	text = quotedSpanRE.ReplaceAllString(text, "")
	text = emojiRE.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
