package speech

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// GoogleSynthesizer converts text to MP3 audio using Google Cloud
// Text-to-Speech.
type GoogleSynthesizer struct {
	client *texttospeech.Client
}

// NewGoogleSynthesizer creates a text-to-speech client with the given
// credential.
func NewGoogleSynthesizer(ctx context.Context, credential string) (*GoogleSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx, CredentialOption(credential))
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	return &GoogleSynthesizer{client: client}, nil
}

// Synthesize renders text as MP3 audio in the voice registered for the
// language code.
func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         VoiceFor(languageCode),
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize request failed: %w", err)
	}
	return resp.AudioContent, nil
}

// Close cleans up the text-to-speech client connection.
func (s *GoogleSynthesizer) Close() error {
	return s.client.Close()
}
