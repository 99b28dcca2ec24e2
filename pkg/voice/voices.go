// Package voice tracks the speech-synthesis voices the browser client
// reports and resolves voice-switch requests against them.
//
// Synthesis itself happens in the browser; the server only chooses a
// voice name and sends it back with the text to speak.
package voice

import (
	"strings"
	"sync"
)

// Voice describes one synthesis voice enumerated by the client platform.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Speaker delivers a spoken response to the client.
// VoiceName is empty unless a voice-switch rule selected an override.
type Speaker interface {
	Speak(text, voiceName string)
}

// Registry holds the current voice set. The set is immutable per session
// except for the platform's change notification, which replaces it whole.
type Registry struct {
	mu     sync.RWMutex
	voices []Voice
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Set replaces the voice set with the platform's latest enumeration.
func (r *Registry) Set(voices []Voice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voices = append([]Voice(nil), voices...)
}

// List returns a copy of the current voice set.
func (r *Registry) List() []Voice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Voice(nil), r.voices...)
}

// Count returns the number of known voices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.voices)
}

// FindGender returns the first voice whose name contains the gender hint
// (case-insensitive) restricted to the given language tag. The bool is
// false when no such voice exists.
func (r *Registry) FindGender(gender, lang string) (Voice, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hint := strings.ToLower(gender)
	for _, v := range r.voices {
		if v.Lang != lang {
			continue
		}
		if strings.Contains(strings.ToLower(v.Name), hint) {
			return v, true
		}
	}
	return Voice{}, false
}
