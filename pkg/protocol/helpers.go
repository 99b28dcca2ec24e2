package protocol

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewTranscriptMessage creates a transcript message
func NewTranscriptMessage(text string) (*Message, error) {
	return NewMessage(TypeTranscript, TranscriptData{Text: text})
}

// NewVoicesMessage creates a voices announcement message
func NewVoicesMessage(voices []VoiceInfo) (*Message, error) {
	return NewMessage(TypeVoices, VoicesData{Voices: voices})
}

// NewListeningMessage creates a listening state message
func NewListeningMessage(active bool) (*Message, error) {
	return NewMessage(TypeListening, ListeningData{Active: active})
}

// NewTurnMessage creates a turn message
func NewTurnMessage(heard, spoken string) (*Message, error) {
	return NewMessage(TypeTurn, TurnData{Heard: heard, Spoken: spoken})
}

// NewSpeakMessage creates a speak message
func NewSpeakMessage(text, voice string) (*Message, error) {
	return NewMessage(TypeSpeak, SpeakData{Text: text, Voice: voice})
}

// NewOpenMessage creates an open-URL message
func NewOpenMessage(url string) (*Message, error) {
	return NewMessage(TypeOpen, OpenData{URL: url})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: 0, // Will be set by NewMessage
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetTranscriptData extracts transcript data from a message
func (m *Message) GetTranscriptData() (*TranscriptData, error) {
	var data TranscriptData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetVoicesData extracts voices data from a message
func (m *Message) GetVoicesData() (*VoicesData, error) {
	var data VoicesData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetListeningData extracts listening data from a message
func (m *Message) GetListeningData() (*ListeningData, error) {
	var data ListeningData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTurnData extracts turn data from a message
func (m *Message) GetTurnData() (*TurnData, error) {
	var data TurnData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetSpeakData extracts speak data from a message
func (m *Message) GetSpeakData() (*SpeakData, error) {
	var data SpeakData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetOpenData extracts open-URL data from a message
func (m *Message) GetOpenData() (*OpenData, error) {
	var data OpenData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
