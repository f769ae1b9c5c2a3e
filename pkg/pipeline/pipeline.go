// Package pipeline turns one child utterance into one spoken tutoring reply.
//
// A turn flows through: empty-input guard → roleplay/free-chat routing →
// generation → translation → speech-text sanitization → synthesis. The
// pipeline owns the per-connection roleplay state machine; external services
// are injected as capability interfaces so the tested logic stays vendor-free.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/genietutor/genie-relay/internal/observability"
	"github.com/genietutor/genie-relay/pkg/llm"
	"github.com/genietutor/genie-relay/pkg/session"
)

// Conversation modes.
const (
	ModeRoleplay = "roleplay"
	ModeFreeChat = "freechat"
)

// Fixed user-facing texts. These are spoken, so they stay short and warm.
const (
	emptyInputReply = "I didn't hear anything. Could you speak up, please? 😊"
	blockedReply    = "I'm sorry, I can't talk about that topic. Let's discuss something else!"
	roleplayAck     = "Okay, I'm ready to start the roleplay!"
)

// Transcriber converts one recorded audio blob to English text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer renders text as compressed audio in the voice registered for
// the language code.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
}

// TurnRequest is the unit of work entering the pipeline.
type TurnRequest struct {
	ConnectionID string
	UserText     string
	Mode         string
	Scenario     string
	Language     string
}

// TurnResult is delivered back to the originating connection. TranslatedText
// is the full, unsanitized text for on-screen display; the audio was
// synthesized from its sanitized form.
type TurnResult struct {
	Audio           []byte
	TranslatedText  string
	OriginalEnglish string
}

// Pipeline sequences generation, translation and synthesis for each turn.
type Pipeline struct {
	sessions  session.Store
	generator llm.Provider
	synth     Synthesizer
	logger    zerolog.Logger
}

// Config wires the pipeline's collaborators. Generator and Synthesizer may
// be nil when their credentials are missing; turns then fail at call time
// rather than at startup.
type Config struct {
	Sessions    session.Store
	Generator   llm.Provider
	Synthesizer Synthesizer
	Logger      zerolog.Logger
}

// New creates a pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Pipeline{
		sessions:  cfg.Sessions,
		generator: cfg.Generator,
		synth:     cfg.Synthesizer,
		logger:    cfg.Logger,
	}, nil
}

// HandleTurn transforms one request into one result. Generation and
// translation failures are recovered inline as spoken fallback text.
// Synthesis failures propagate to the caller, which reports a generic
// server error without dropping the connection.
func (p *Pipeline) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	start := time.Now()
	turnID := uuid.NewString()
	logger := p.logger.With().
		Str("turnId", turnID).
		Str("connectionId", req.ConnectionID).
		Str("mode", req.Mode).
		Str("language", req.Language).
		Logger()

	if p.generator == nil || p.synth == nil {
		observability.RecordTurn(req.Mode, "error", time.Since(start))
		return nil, fmt.Errorf("generation or synthesis capability is not configured, check server logs")
	}

	english := p.englishReply(ctx, req, logger)

	translated := p.Translate(ctx, english, req.Language)

	speechText := SpeechText(translated)

	audio, err := p.synth.Synthesize(ctx, speechText, req.Language)
	if err != nil {
		observability.RecordTurn(req.Mode, "error", time.Since(start))
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	observability.RecordTurn(req.Mode, "ok", time.Since(start))
	observability.RecordSynthesisBytes(len(audio))
	logger.Info().
		Int("audioBytes", len(audio)).
		Dur("duration", time.Since(start)).
		Msg("Turn completed")

	return &TurnResult{
		Audio:           audio,
		TranslatedText:  translated,
		OriginalEnglish: english,
	}, nil
}

// englishReply produces the English response text for a turn. The
// empty-input guard takes precedence over mode routing and leaves any
// existing session untouched.
func (p *Pipeline) englishReply(ctx context.Context, req TurnRequest, logger zerolog.Logger) string {
	if strings.TrimSpace(req.UserText) == "" {
		logger.Debug().Msg("Empty input, skipping generation")
		return emptyInputReply
	}

	if req.Mode == ModeRoleplay && KnownScenario(req.Scenario) {
		return p.roleplayReply(ctx, req, logger)
	}
	return p.freeChatReply(ctx, req, logger)
}

// roleplayReply runs a persona-driven turn with retained history. A new
// session is seeded when none exists or the client switched scenarios, so
// history never leaks across scenarios.
func (p *Pipeline) roleplayReply(ctx context.Context, req TurnRequest, logger zerolog.Logger) string {
	sess, ok := p.sessions.Get(req.ConnectionID)
	if !ok || sess.Scenario != req.Scenario {
		sess = &session.Session{
			Scenario: req.Scenario,
			History: []session.Turn{
				{Role: session.RoleUser, Text: scenarioContexts[req.Scenario]},
				{Role: session.RoleModel, Text: roleplayAck},
			},
		}
		logger.Info().Str("scenario", req.Scenario).Msg("Seeded roleplay session")
	}

	// History excludes the current user text; providers send it separately.
	reply, err := p.generator.Chat(ctx, toMessages(sess.History), req.UserText)
	sess.Append(session.RoleUser, req.UserText)
	if err != nil {
		p.sessions.Put(req.ConnectionID, sess)
		p.publishSessionCount()
		return p.generationFallback(err, logger)
	}

	sess.Append(session.RoleModel, reply)
	p.sessions.Put(req.ConnectionID, sess)
	p.publishSessionCount()
	return reply
}

// freeChatReply runs a single-shot, historyless turn. Entering free chat
// (or roleplay with an unknown scenario) discards any roleplay session so
// stale history can never be restored implicitly.
func (p *Pipeline) freeChatReply(ctx context.Context, req TurnRequest, logger zerolog.Logger) string {
	p.sessions.Delete(req.ConnectionID)
	p.publishSessionCount()

	reply, err := p.generator.Complete(ctx, freeChatPrompt(req.UserText))
	if err != nil {
		return p.generationFallback(err, logger)
	}
	return reply
}

// generationFallback maps generation failures to spoken text: a fixed
// apology for content-safety rejections, an error description otherwise.
func (p *Pipeline) generationFallback(err error, logger zerolog.Logger) string {
	if errors.Is(err, llm.ErrBlocked) {
		logger.Warn().Msg("Generation blocked by content safety policy")
		return blockedReply
	}
	logger.Error().Err(err).Msg("Generation failed")
	return fmt.Sprintf("An error occurred: %v", err)
}

// Translate renders English text in the target language. English-family
// codes and an unavailable generator pass the text through unchanged, and
// any translation failure falls back to the original text. Translation
// never aborts the pipeline.
func (p *Pipeline) Translate(ctx context.Context, text, languageCode string) string {
	if strings.HasPrefix(languageCode, "en") || p.generator == nil {
		return text
	}

	translated, err := p.generator.Complete(ctx, translationPrompt(text, languageName(languageCode)))
	if err != nil {
		p.logger.Warn().Err(err).Str("language", languageCode).Msg("Translation failed, using English text")
		return text
	}
	return translated
}

// publishSessionCount updates the session gauge when the store can count.
func (p *Pipeline) publishSessionCount() {
	if counter, ok := p.sessions.(interface{ Count() int }); ok {
		observability.SetActiveSessions(counter.Count())
	}
}

func toMessages(turns []session.Turn) []llm.Message {
	msgs := make([]llm.Message, len(turns))
	for i, t := range turns {
		msgs[i] = llm.Message{Role: t.Role, Content: t.Text}
	}
	return msgs
}
