package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Inbound event names.
const (
	EventTextMessage    = "text_message"
	EventFinalAudioBlob = "final_audio_blob"
)

// Outbound event names.
const (
	EventTranscription  = "transcription"
	EventAudioResponse  = "audio_response"
	EventBackendMessage = "backend_message"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// TextMessagePayload is the body of a text_message event.
type TextMessagePayload struct {
	Text     string `json:"text"`
	Mode     string `json:"mode"`
	Scenario string `json:"scenario"`
	Language string `json:"language"`
}

// AudioBlobPayload is the body of a final_audio_blob event. AudioData is a
// complete WEBM/Opus recording (48kHz mono expected); JSON carries it
// base64-encoded.
type AudioBlobPayload struct {
	AudioData []byte `json:"audio_data"`
	Mode      string `json:"mode"`
	Scenario  string `json:"scenario"`
	Language  string `json:"language"`
}

// TranscriptionPayload is emitted after audio input is recognized, before
// the pipeline runs.
type TranscriptionPayload struct {
	Text string `json:"text"`
}

// AudioResponsePayload is the pipeline's terminal success output.
type AudioResponsePayload struct {
	AudioData       []byte `json:"audio_data"`
	TranslatedText  string `json:"translated_text"`
	OriginalEnglish string `json:"original_english"`
}

// BackendMessagePayload is emitted on any caught failure, in place of an
// audio_response. The connection stays open.
type BackendMessagePayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client is one connected websocket peer.
type Client struct {
	ID           string
	Conn         *websocket.Conn
	ConnectedAt  time.Time
	LastActivity time.Time
	IPAddress    string

	writeMu sync.Mutex
}

// Send writes one event to the client. Writes are serialized because the
// websocket connection allows a single concurrent writer.
func (c *Client) Send(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(Envelope{Event: event, Data: data})
}
