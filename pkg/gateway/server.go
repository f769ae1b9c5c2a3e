// Package gateway is the relay's websocket transport: it accepts child
// utterances as audio blobs or text events, runs them through the tutoring
// pipeline, and streams the spoken reply back to the same connection.
package gateway

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/genietutor/genie-relay/internal/observability"
	"github.com/genietutor/genie-relay/pkg/pipeline"
	"github.com/genietutor/genie-relay/pkg/session"
)

//go:embed index.html
var landingPage []byte

// Server is the relay's websocket gateway.
type Server struct {
	host           string
	port           int
	server         *http.Server
	upgrader       websocket.Upgrader
	clients        *ClientRegistry
	pipe           *pipeline.Pipeline
	transcriber    pipeline.Transcriber
	sessions       session.Store
	logger         zerolog.Logger
	isShuttingDown bool
	shutdownMu     sync.RWMutex
	inFlightReqs   sync.WaitGroup
}

// Config holds server configuration. Transcriber may be nil when speech
// credentials are missing; audio events then fail at call time.
type Config struct {
	Host        string
	Port        int
	Pipeline    *pipeline.Pipeline
	Transcriber pipeline.Transcriber
	Sessions    session.Store
	Logger      zerolog.Logger
}

// NewServer creates a gateway server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}

	return &Server{
		host:        cfg.Host,
		port:        cfg.Port,
		clients:     NewClientRegistry(),
		pipe:        cfg.Pipeline,
		transcriber: cfg.Transcriber,
		sessions:    cfg.Sessions,
		logger:      cfg.Logger,
		upgrader: websocket.Upgrader{
			// Browser clients connect from arbitrary origins.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}, nil
}

// Start starts the gateway server. It returns once the listener goroutine
// is launched.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", observability.MetricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: mux,
	}

	s.logger.Info().Str("host", s.host).Int("port", s.port).Msg("Starting gateway server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Gateway server error")
		}
	}()

	return nil
}

// Stop gracefully stops the gateway server.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("Shutting down gateway server")

	// Wait for in-flight turns with timeout.
	done := make(chan struct{})
	go func() {
		s.inFlightReqs.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("All in-flight turns completed")
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("Shutdown timeout reached, forcing close")
	}

	for _, client := range s.clients.GetAll() {
		client.Conn.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info().Msg("Gateway server stopped")
	return nil
}

// handleIndex serves the static landing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(landingPage)
}

// handleWebSocket upgrades the connection and runs its event loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.shutdownMu.RLock()
	if s.isShuttingDown {
		s.shutdownMu.RUnlock()
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.shutdownMu.RUnlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	clientID, _ := gonanoid.New()
	client := &Client{
		ID:           clientID,
		Conn:         conn,
		ConnectedAt:  time.Now(),
		LastActivity: time.Now(),
		IPAddress:    r.RemoteAddr,
	}

	s.clients.Add(client)
	observability.SetActiveConnections(s.clients.Count())

	s.logger.Info().
		Str("connectionId", clientID).
		Str("ip", r.RemoteAddr).
		Msg("Client connected")

	go s.handleClient(client)
}

// handleClient reads events from one connection until it closes. Events
// from the same connection are processed inline, one at a time; different
// connections interleave freely on their own goroutines.
func (s *Server) handleClient(client *Client) {
	defer func() {
		client.Conn.Close()
		s.clients.Remove(client.ID)
		s.sessions.Delete(client.ID)
		observability.SetActiveConnections(s.clients.Count())
		if counter, ok := s.sessions.(interface{ Count() int }); ok {
			observability.SetActiveSessions(counter.Count())
		}
		s.logger.Info().Str("connectionId", client.ID).Msg("Client disconnected")
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error().Err(err).Str("connectionId", client.ID).Msg("WebSocket error")
			}
			break
		}

		s.clients.UpdateActivity(client.ID)
		s.handleEvent(client, message)
	}
}

// handleEvent dispatches one inbound event.
func (s *Server) handleEvent(client *Client, message []byte) {
	s.inFlightReqs.Add(1)
	defer s.inFlightReqs.Done()

	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		s.sendBackendMessage(client, "Malformed event.", err)
		return
	}

	switch env.Event {
	case EventTextMessage:
		s.handleTextMessage(client, env.Data)
	case EventFinalAudioBlob:
		s.handleAudioBlob(client, env.Data)
	default:
		s.sendBackendMessage(client, "Unknown event.", fmt.Errorf("unrecognized event: %q", env.Event))
	}
}

// handleTextMessage runs the pipeline directly on typed input.
func (s *Server) handleTextMessage(client *Client, data json.RawMessage) {
	var payload TextMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendBackendMessage(client, "Malformed text_message payload.", err)
		return
	}

	s.logger.Debug().
		Str("connectionId", client.ID).
		Str("mode", payload.Mode).
		Msg("Text message received")

	s.runTurn(client, payload.Text, payload.Mode, payload.Scenario, payload.Language)
}

// handleAudioBlob transcribes the recording, reports the transcript, then
// runs the pipeline with it. Transcription failures are reported as audio
// processing errors; the connection stays open.
func (s *Server) handleAudioBlob(client *Client, data json.RawMessage) {
	var payload AudioBlobPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendBackendMessage(client, "Malformed final_audio_blob payload.", err)
		return
	}

	if s.transcriber == nil {
		observability.RecordTranscription("error")
		s.sendBackendMessage(client, "Error processing audio.", fmt.Errorf("transcription capability is not configured"))
		return
	}

	transcript, err := s.transcriber.Transcribe(context.Background(), payload.AudioData)
	if err != nil {
		observability.RecordTranscription("error")
		s.logger.Error().Err(err).Str("connectionId", client.ID).Msg("Transcription failed")
		s.sendBackendMessage(client, "Error processing audio.", err)
		return
	}
	observability.RecordTranscription("ok")

	if err := client.Send(EventTranscription, TranscriptionPayload{Text: transcript}); err != nil {
		s.logger.Error().Err(err).Str("connectionId", client.ID).Msg("Failed to send transcription")
	}

	s.logger.Info().
		Str("connectionId", client.ID).
		Str("transcript", transcript).
		Msg("Audio transcribed")

	s.runTurn(client, transcript, payload.Mode, payload.Scenario, payload.Language)
}

// runTurn executes one pipeline run and delivers the result or a generic
// error event to the originating connection.
func (s *Server) runTurn(client *Client, text, mode, scenario, language string) {
	result, err := s.pipe.HandleTurn(context.Background(), pipeline.TurnRequest{
		ConnectionID: client.ID,
		UserText:     text,
		Mode:         mode,
		Scenario:     scenario,
		Language:     language,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("connectionId", client.ID).Msg("Turn failed")
		s.sendBackendMessage(client, "An error occurred on the server.", err)
		return
	}

	if err := client.Send(EventAudioResponse, AudioResponsePayload{
		AudioData:       result.Audio,
		TranslatedText:  result.TranslatedText,
		OriginalEnglish: result.OriginalEnglish,
	}); err != nil {
		s.logger.Error().Err(err).Str("connectionId", client.ID).Msg("Failed to send audio response")
		return
	}

	s.logger.Info().
		Str("connectionId", client.ID).
		Str("language", language).
		Msg("Sent response")
}

func (s *Server) sendBackendMessage(client *Client, message string, cause error) {
	errText := ""
	if cause != nil {
		errText = cause.Error()
	}
	if err := client.Send(EventBackendMessage, BackendMessagePayload{
		Message: message,
		Error:   errText,
	}); err != nil {
		s.logger.Error().Err(err).Str("connectionId", client.ID).Msg("Failed to send backend message")
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	return s.clients.Count()
}
