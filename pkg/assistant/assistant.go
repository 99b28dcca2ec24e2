// Package assistant is aria's application controller. A single goroutine
// owns all mutable state; transcripts, voice updates, and remote-call
// completions are applied to it one at a time through the actor mailbox.
//
// Local commands (to-do mutations, voice switches, website opens) complete
// synchronously within the transcript's turn. Remote commands emit their
// acknowledgement turn immediately, run the service call in a goroutine,
// and deliver the outcome back onto the loop as a second turn.
package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/ariavoice/aria/pkg/intent"
	"github.com/ariavoice/aria/pkg/services"
	"github.com/ariavoice/aria/pkg/todo"
	"github.com/ariavoice/aria/pkg/voice"
)

// Turn is one heard/spoken exchange. Completion turns from remote calls
// have an empty Heard.
type Turn struct {
	Heard  string    `json:"heard"`
	Spoken string    `json:"spoken"`
	At     time.Time `json:"at"`
}

// Loading tracks in-flight remote calls, one flag per service.
type Loading struct {
	Weather    bool `json:"weather"`
	News       bool `json:"news"`
	Wikipedia  bool `json:"wikipedia"`
	Dictionary bool `json:"dictionary"`
	Video      bool `json:"video"`
	Email      bool `json:"email"`
}

// State is the assistant's full view of the session.
type State struct {
	Listening  bool                      `json:"listening"`
	VoiceName  string                    `json:"voice,omitempty"`
	Turns      []Turn                    `json:"turns"`
	Todos      []todo.Task               `json:"todos"`
	Weather    *services.WeatherReport   `json:"weather,omitempty"`
	News       []services.Article        `json:"news,omitempty"`
	Wikipedia  *services.PageSummary     `json:"wikipedia,omitempty"`
	Dictionary *services.DictionaryEntry `json:"dictionary,omitempty"`
	Videos     []services.Video          `json:"videos,omitempty"`
	NowPlaying string                    `json:"now_playing,omitempty"`
	Loading    Loading                   `json:"loading"`
}

// Service interfaces, one per remote client. A nil client disables the
// feature; the command then answers with the service's apology.

type WeatherService interface {
	Fetch(ctx context.Context, city string) (*services.WeatherReport, error)
}

type NewsService interface {
	Fetch(ctx context.Context, query string) ([]services.Article, error)
}

type WikipediaService interface {
	Fetch(ctx context.Context, query string) (*services.PageSummary, error)
}

type DictionaryService interface {
	Fetch(ctx context.Context, word string) (*services.DictionaryEntry, error)
}

type VideoService interface {
	Search(ctx context.Context, query string) ([]services.Video, error)
}

type EmailService interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Services bundles the remote clients handed to the assistant.
type Services struct {
	Weather    WeatherService
	News       NewsService
	Wikipedia  WikipediaService
	Dictionary DictionaryService
	Video      VideoService
	Email      EmailService
}

// Notifier delivers assistant output to connected clients.
type Notifier interface {
	NotifyTurn(turn Turn)
	NotifySpeak(text, voiceName string)
	NotifyOpen(url string)
	NotifyTodos(tasks []todo.Task)
	NotifyState(state State)
}

const (
	mailboxSize = 64

	// maxTurns bounds the retained transcript.
	maxTurns = 50
)

// Assistant owns the session state. All fields below mailbox are touched
// only from the Run goroutine.
type Assistant struct {
	interp   *intent.Interpreter
	store    todo.Store
	voices   *voice.Registry
	services Services
	notifier Notifier

	mailbox chan func()

	ctx   context.Context
	state State
}

// New creates an assistant. Run must be called before any handler.
func New(interp *intent.Interpreter, store todo.Store, voices *voice.Registry, svcs Services, notifier Notifier) *Assistant {
	return &Assistant{
		interp:   interp,
		store:    store,
		voices:   voices,
		services: svcs,
		notifier: notifier,
		mailbox:  make(chan func(), mailboxSize),
	}
}

// Run is the actor loop. It blocks until ctx is cancelled.
func (a *Assistant) Run(ctx context.Context) error {
	a.ctx = ctx

	watch, cancel := a.store.Watch()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fn := <-a.mailbox:
			fn()

		case snapshot := <-watch:
			a.state.Todos = snapshot
			a.notifier.NotifyTodos(snapshot)
			a.notifyState()
		}
	}
}

// post schedules fn on the actor loop.
func (a *Assistant) post(fn func()) {
	a.mailbox <- fn
}

// HandleTranscript feeds one recognized utterance to the assistant.
func (a *Assistant) HandleTranscript(text string) {
	a.post(func() { a.handleTranscript(text) })
}

// SetVoices replaces the voice registry with the client's enumeration.
func (a *Assistant) SetVoices(voices []voice.Voice) {
	a.post(func() {
		a.voices.Set(voices)
	})
}

// SetListening updates the mic state. Starting while already listening
// is a no-op.
func (a *Assistant) SetListening(active bool) {
	a.post(func() {
		if active && a.state.Listening {
			return
		}
		a.state.Listening = active
		a.notifyState()
	})
}

// Snapshot returns a copy of the current state.
func (a *Assistant) Snapshot() State {
	reply := make(chan State, 1)
	a.post(func() {
		reply <- a.copyState()
	})
	return <-reply
}

// handleTranscript runs on the actor loop.
func (a *Assistant) handleTranscript(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	res := a.interp.Interpret(text, intent.Context{
		Tasks:  a.state.Todos,
		Voices: a.voices.List(),
	})

	// A voice switch takes effect before its acknowledgement is spoken.
	if res.Action != nil && res.Action.Kind == intent.ActSwitchVoice {
		a.state.VoiceName = res.Action.Slots[intent.SlotVoice]
	}

	a.emitTurn(text, res.Response)

	if res.Action != nil {
		a.dispatch(res.Action)
	}
	a.notifyState()
}

// emitTurn records a turn and pushes it to clients, spoken with the
// currently selected voice.
func (a *Assistant) emitTurn(heard, spoken string) {
	turn := Turn{Heard: heard, Spoken: spoken, At: time.Now()}

	a.state.Turns = append(a.state.Turns, turn)
	if len(a.state.Turns) > maxTurns {
		a.state.Turns = a.state.Turns[len(a.state.Turns)-maxTurns:]
	}

	a.notifier.NotifyTurn(turn)
	a.notifier.NotifySpeak(spoken, a.state.VoiceName)
}

func (a *Assistant) notifyState() {
	a.notifier.NotifyState(a.copyState())
}

// copyState clones the state so readers never alias the actor's slices.
func (a *Assistant) copyState() State {
	s := a.state
	s.Turns = append([]Turn(nil), a.state.Turns...)
	s.Todos = append([]todo.Task(nil), a.state.Todos...)
	s.News = append([]services.Article(nil), a.state.News...)
	s.Videos = append([]services.Video(nil), a.state.Videos...)
	return s
}
