package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genietutor/genie-relay/pkg/llm"
	"github.com/genietutor/genie-relay/pkg/pipeline"
	"github.com/genietutor/genie-relay/pkg/session"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Complete(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) Chat(context.Context, []llm.Message, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) Name() string { return "fake" }

type fakeSynth struct {
	err error
}

func (f *fakeSynth) Synthesize(_ context.Context, text, _ string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio:" + text), nil
}

type fakeTranscriber struct {
	transcript string
	err        error
}

func (f *fakeTranscriber) Transcribe(context.Context, []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type testGateway struct {
	server *Server
	store  *session.MemoryStore
	conn   *websocket.Conn
}

func newTestGateway(t *testing.T, gen llm.Provider, synth pipeline.Synthesizer, transcriber pipeline.Transcriber) *testGateway {
	t.Helper()

	store := session.NewMemoryStore()
	pipe, err := pipeline.New(pipeline.Config{
		Sessions:    store,
		Generator:   gen,
		Synthesizer: synth,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)

	srv, err := NewServer(Config{
		Host:        "127.0.0.1",
		Port:        1, // not bound; the test drives the handler directly
		Pipeline:    pipe,
		Transcriber: transcriber,
		Sessions:    store,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)

	httpSrv := httptest.NewServer(http.HandlerFunc(srv.handleWebSocket))
	t.Cleanup(httpSrv.Close)

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &testGateway{server: srv, store: store, conn: conn}
}

func (g *testGateway) send(t *testing.T, event string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, g.conn.WriteJSON(Envelope{Event: event, Data: data}))
}

func (g *testGateway) receive(t *testing.T) Envelope {
	t.Helper()
	require.NoError(t, g.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env Envelope
	require.NoError(t, g.conn.ReadJSON(&env))
	return env
}

func TestGateway_TextMessageRoundTrip(t *testing.T) {
	g := newTestGateway(t, &fakeGenerator{reply: "Dogs are great! 🐶"}, &fakeSynth{}, nil)

	g.send(t, EventTextMessage, TextMessagePayload{
		Text:     "I like dogs",
		Mode:     pipeline.ModeFreeChat,
		Language: "en-US",
	})

	env := g.receive(t)
	require.Equal(t, EventAudioResponse, env.Event)

	var resp AudioResponsePayload
	require.NoError(t, json.Unmarshal(env.Data, &resp))

	assert.Equal(t, "Dogs are great! 🐶", resp.OriginalEnglish)
	assert.Equal(t, resp.OriginalEnglish, resp.TranslatedText, "English is passthrough")
	assert.Equal(t, []byte("audio:Dogs are great!"), resp.AudioData, "speech text has emoji stripped")
}

func TestGateway_AudioBlobEmitsTranscriptionThenResponse(t *testing.T) {
	g := newTestGateway(t, &fakeGenerator{reply: "Hello!"}, &fakeSynth{}, &fakeTranscriber{transcript: "hi genie"})

	g.send(t, EventFinalAudioBlob, AudioBlobPayload{
		AudioData: []byte{0x1a, 0x45, 0xdf, 0xa3},
		Mode:      pipeline.ModeFreeChat,
		Language:  "en-US",
	})

	first := g.receive(t)
	require.Equal(t, EventTranscription, first.Event)
	var tr TranscriptionPayload
	require.NoError(t, json.Unmarshal(first.Data, &tr))
	assert.Equal(t, "hi genie", tr.Text)

	second := g.receive(t)
	assert.Equal(t, EventAudioResponse, second.Event)
}

func TestGateway_MissingTranscriberReportsAudioError(t *testing.T) {
	g := newTestGateway(t, &fakeGenerator{reply: "ok"}, &fakeSynth{}, nil)

	g.send(t, EventFinalAudioBlob, AudioBlobPayload{
		AudioData: []byte{0x00},
		Mode:      pipeline.ModeFreeChat,
		Language:  "en-US",
	})

	env := g.receive(t)
	require.Equal(t, EventBackendMessage, env.Event)

	var msg BackendMessagePayload
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "Error processing audio.", msg.Message)
	assert.Contains(t, msg.Error, "not configured")
}

func TestGateway_TranscriptionFailureReportsAudioError(t *testing.T) {
	g := newTestGateway(t, &fakeGenerator{reply: "ok"}, &fakeSynth{}, &fakeTranscriber{err: errors.New("recognize failed")})

	g.send(t, EventFinalAudioBlob, AudioBlobPayload{
		AudioData: []byte{0x00},
		Mode:      pipeline.ModeFreeChat,
		Language:  "en-US",
	})

	env := g.receive(t)
	require.Equal(t, EventBackendMessage, env.Event)

	var msg BackendMessagePayload
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "Error processing audio.", msg.Message)
	assert.Contains(t, msg.Error, "recognize failed")
}

func TestGateway_PipelineFailureKeepsConnectionOpen(t *testing.T) {
	g := newTestGateway(t, &fakeGenerator{reply: "ok"}, &fakeSynth{err: errors.New("voice down")}, nil)

	g.send(t, EventTextMessage, TextMessagePayload{
		Text:     "hello",
		Mode:     pipeline.ModeFreeChat,
		Language: "en-US",
	})

	env := g.receive(t)
	require.Equal(t, EventBackendMessage, env.Event)

	var msg BackendMessagePayload
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "An error occurred on the server.", msg.Message)

	// The connection survives the failure and serves the next turn.
	g.server.pipe = g.mustPipeline(t, &fakeGenerator{reply: "ok"}, &fakeSynth{})
	g.send(t, EventTextMessage, TextMessagePayload{
		Text:     "hello again",
		Mode:     pipeline.ModeFreeChat,
		Language: "en-US",
	})
	env = g.receive(t)
	assert.Equal(t, EventAudioResponse, env.Event)
}

func (g *testGateway) mustPipeline(t *testing.T, gen llm.Provider, synth pipeline.Synthesizer) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.New(pipeline.Config{
		Sessions:    g.store,
		Generator:   gen,
		Synthesizer: synth,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)
	return p
}

func TestGateway_MalformedEvent(t *testing.T) {
	g := newTestGateway(t, &fakeGenerator{reply: "ok"}, &fakeSynth{}, nil)

	require.NoError(t, g.conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	env := g.receive(t)
	require.Equal(t, EventBackendMessage, env.Event)

	var msg BackendMessagePayload
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "Malformed event.", msg.Message)
}

func TestGateway_UnknownEvent(t *testing.T) {
	g := newTestGateway(t, &fakeGenerator{reply: "ok"}, &fakeSynth{}, nil)

	g.send(t, "mystery_event", map[string]string{})

	env := g.receive(t)
	require.Equal(t, EventBackendMessage, env.Event)

	var msg BackendMessagePayload
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Contains(t, msg.Error, "mystery_event")
}

func TestGateway_DisconnectDeletesSession(t *testing.T) {
	g := newTestGateway(t, &fakeGenerator{reply: "ok"}, &fakeSynth{}, nil)

	g.send(t, EventTextMessage, TextMessagePayload{
		Text:     "hello",
		Mode:     pipeline.ModeRoleplay,
		Scenario: "school",
		Language: "en-US",
	})
	env := g.receive(t)
	require.Equal(t, EventAudioResponse, env.Event)
	require.Equal(t, 1, g.store.Count())

	g.conn.Close()

	assert.Eventually(t, func() bool {
		return g.store.Count() == 0
	}, 5*time.Second, 10*time.Millisecond, "disconnect must discard the roleplay session")
}

func TestNewServer_Validation(t *testing.T) {
	store := session.NewMemoryStore()
	pipe, err := pipeline.New(pipeline.Config{Sessions: store, Logger: zerolog.Nop()})
	require.NoError(t, err)

	t.Run("rejects invalid port", func(t *testing.T) {
		_, err := NewServer(Config{Port: 0, Pipeline: pipe, Sessions: store})
		assert.Error(t, err)
	})

	t.Run("rejects missing pipeline", func(t *testing.T) {
		_, err := NewServer(Config{Port: 8080, Sessions: store})
		assert.Error(t, err)
	})

	t.Run("rejects missing session store", func(t *testing.T) {
		_, err := NewServer(Config{Port: 8080, Pipeline: pipe})
		assert.Error(t, err)
	})
}
