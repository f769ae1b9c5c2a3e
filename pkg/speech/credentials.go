// Package speech wraps the Google Cloud speech-to-text and text-to-speech
// clients behind the pipeline's capability interfaces.
package speech

import (
	"strings"

	"google.golang.org/api/option"
)

// CredentialOption turns the configured credential into a client option.
// The credential is either an inline service-account JSON blob or a path to
// a key file; an inline blob is detected by its leading '{'.
func CredentialOption(credential string) option.ClientOption {
	if strings.HasPrefix(strings.TrimSpace(credential), "{") {
		return option.WithCredentialsJSON([]byte(credential))
	}
	return option.WithCredentialsFile(credential)
}
