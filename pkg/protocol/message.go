// Package protocol defines the WebSocket message types exchanged between
// the aria server and its browser clients. The browser captures speech and
// synthesizes replies; the server owns all state and decides what to say.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Browser → Server messages
	TypeTranscript MessageType = "transcript" // Recognized speech
	TypeVoices     MessageType = "voices"     // Available synthesis voices
	TypeListening  MessageType = "listening"  // Mic listening state

	// Server → Browser messages
	TypeTurn  MessageType = "turn"  // One conversation turn
	TypeSpeak MessageType = "speak" // Text to synthesize
	TypeOpen  MessageType = "open"  // URL to open in a new tab
	TypeTodos MessageType = "todos" // To-do list snapshot
	TypeState MessageType = "state" // Full assistant state snapshot

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Browser → Server Message Types
// =============================================================================

// TranscriptData carries one recognized utterance
type TranscriptData struct {
	Text string `json:"text"`
}

// VoiceInfo describes one synthesis voice the browser offers
type VoiceInfo struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// VoicesData announces the browser's available voices
type VoicesData struct {
	Voices []VoiceInfo `json:"voices"`
}

// ListeningData reports whether the mic is capturing
type ListeningData struct {
	Active bool `json:"active"`
}

// =============================================================================
// Server → Browser Message Types
// =============================================================================

// TurnData is one heard/spoken exchange
type TurnData struct {
	Heard  string `json:"heard"`
	Spoken string `json:"spoken"`
}

// SpeakData asks the browser to synthesize text
type SpeakData struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"` // Voice name, empty for default
}

// OpenData asks the browser to open a URL
type OpenData struct {
	URL string `json:"url"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
