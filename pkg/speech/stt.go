package speech

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// Client capture format: browsers deliver MediaRecorder blobs as
// WEBM/Opus at 48kHz mono. Recognition is English-only; the reply is
// translated afterwards, not the input.
const (
	sttSampleRateHertz = 48000
	sttLanguageCode    = "en-US"
)

// GoogleTranscriber converts recorded audio blobs to text using Google
// Cloud Speech-to-Text.
type GoogleTranscriber struct {
	client *speech.Client
}

// NewGoogleTranscriber creates a speech client with the given credential.
func NewGoogleTranscriber(ctx context.Context, credential string) (*GoogleTranscriber, error) {
	client, err := speech.NewClient(ctx, CredentialOption(credential))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &GoogleTranscriber{client: client}, nil
}

// Transcribe runs synchronous recognition on one complete audio blob and
// returns the top transcript, or "" when nothing was recognized.
func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_WEBM_OPUS,
			SampleRateHertz: sttSampleRateHertz,
			LanguageCode:    sttLanguageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return "", nil
	}
	return resp.Results[0].Alternatives[0].Transcript, nil
}

// Close cleans up the speech client connection.
func (t *GoogleTranscriber) Close() error {
	return t.client.Close()
}
