package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariavoice/aria/pkg/intent"
	"github.com/ariavoice/aria/pkg/services"
	"github.com/ariavoice/aria/pkg/todo"
	"github.com/ariavoice/aria/pkg/voice"
)

// recordingNotifier captures everything the assistant pushes out.
type recordingNotifier struct {
	mu     sync.Mutex
	turns  []Turn
	speaks []string
	voices []string
	opens  []string

	turnCh chan Turn
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{turnCh: make(chan Turn, 16)}
}

func (n *recordingNotifier) NotifyTurn(turn Turn) {
	n.mu.Lock()
	n.turns = append(n.turns, turn)
	n.mu.Unlock()
	n.turnCh <- turn
}

func (n *recordingNotifier) NotifySpeak(text, voiceName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.speaks = append(n.speaks, text)
	n.voices = append(n.voices, voiceName)
}

func (n *recordingNotifier) NotifyOpen(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opens = append(n.opens, url)
}

func (n *recordingNotifier) NotifyTodos(tasks []todo.Task) {}

func (n *recordingNotifier) NotifyState(state State) {}

func (n *recordingNotifier) waitTurn(t *testing.T) Turn {
	t.Helper()
	select {
	case turn := <-n.turnCh:
		return turn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for turn")
		return Turn{}
	}
}

func (n *recordingNotifier) lastVoice() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.voices) == 0 {
		return ""
	}
	return n.voices[len(n.voices)-1]
}

// Fake service clients with pluggable behavior.

type fakeWeather struct {
	report *services.WeatherReport
	err    error
}

func (f *fakeWeather) Fetch(ctx context.Context, city string) (*services.WeatherReport, error) {
	return f.report, f.err
}

type fakeVideo struct {
	videos []services.Video
	err    error
}

func (f *fakeVideo) Search(ctx context.Context, query string) ([]services.Video, error) {
	return f.videos, f.err
}

type fakeEmail struct {
	mu        sync.Mutex
	recipient string
	subject   string
	body      string
	err       error
}

func (f *fakeEmail) Send(ctx context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipient = recipient
	f.subject = subject
	f.body = body
	return f.err
}

// newTestAssistant builds an assistant on a temp store and starts its loop.
func newTestAssistant(t *testing.T, svcs Services) (*Assistant, *recordingNotifier, todo.Store) {
	t.Helper()

	store, err := todo.NewJSONStore(filepath.Join(t.TempDir(), "todos.json"))
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}

	notifier := newRecordingNotifier()
	a := New(intent.New("en-US"), store, voice.NewRegistry(), svcs, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go a.Run(ctx)

	return a, notifier, store
}

func TestGreetingTurn(t *testing.T) {
	a, notifier, _ := newTestAssistant(t, Services{})

	a.HandleTranscript("hello")
	turn := notifier.waitTurn(t)

	if turn.Heard != "hello" {
		t.Errorf("Heard = %q, want hello", turn.Heard)
	}
	if turn.Spoken != "Hello there! How can I assist you?" {
		t.Errorf("Spoken = %q", turn.Spoken)
	}
}

func TestAddTaskPersists(t *testing.T) {
	a, notifier, store := newTestAssistant(t, Services{})

	a.HandleTranscript("add a todo buy milk")
	turn := notifier.waitTurn(t)

	if !strings.Contains(turn.Spoken, `"buy milk"`) {
		t.Errorf("Spoken = %q, want task acknowledgement", turn.Spoken)
	}

	// The snapshot round-trips through the actor, so the mutation and
	// the watch update are both applied by the time it answers.
	state := a.Snapshot()
	if len(state.Todos) != 1 {
		t.Fatalf("len(Todos) = %d, want 1", len(state.Todos))
	}
	if state.Todos[0].Text != "buy milk" {
		t.Errorf("Text = %q, want buy milk", state.Todos[0].Text)
	}
	if len(store.List()) != 1 {
		t.Errorf("store has %d tasks, want 1", len(store.List()))
	}
}

func TestCompleteTaskOutOfRange(t *testing.T) {
	a, notifier, store := newTestAssistant(t, Services{})

	a.HandleTranscript("add a todo wash car")
	notifier.waitTurn(t)
	a.Snapshot() // let the watch snapshot land

	a.HandleTranscript("complete todo 5")
	turn := notifier.waitTurn(t)

	if !strings.Contains(turn.Spoken, "couldn't find a to-do item") {
		t.Errorf("Spoken = %q, want bounds error", turn.Spoken)
	}
	if store.List()[0].Done {
		t.Error("out-of-range complete must not mutate")
	}
}

func TestCompleteTask(t *testing.T) {
	a, notifier, store := newTestAssistant(t, Services{})

	a.HandleTranscript("add a todo wash car")
	notifier.waitTurn(t)
	a.Snapshot()

	a.HandleTranscript("complete todo 1")
	turn := notifier.waitTurn(t)

	if !strings.Contains(turn.Spoken, "marked") {
		t.Errorf("Spoken = %q", turn.Spoken)
	}
	state := a.Snapshot()
	if !store.List()[0].Done {
		t.Error("task should be done in store")
	}
	if !state.Todos[0].Done {
		t.Error("task should be done in assistant snapshot")
	}
}

func TestWeatherTwoPhase(t *testing.T) {
	weather := &fakeWeather{report: &services.WeatherReport{
		City:        "Paris",
		Description: "clear sky",
		Temperature: 21.6,
		WindSpeed:   3.2,
		Humidity:    40,
	}}
	a, notifier, _ := newTestAssistant(t, Services{Weather: weather})

	a.HandleTranscript("what is the weather in paris")

	ack := notifier.waitTurn(t)
	if ack.Spoken != "Fetching weather for paris..." {
		t.Errorf("ack Spoken = %q", ack.Spoken)
	}

	done := notifier.waitTurn(t)
	want := "The weather in Paris is clear sky with a temperature of 22 degrees Celsius. Wind speed is 3 meters per second, and humidity is 40 percent."
	if done.Spoken != want {
		t.Errorf("completion Spoken = %q\nwant %q", done.Spoken, want)
	}
	if done.Heard != "" {
		t.Errorf("completion Heard = %q, want empty", done.Heard)
	}

	state := a.Snapshot()
	if state.Loading.Weather {
		t.Error("loading flag should be cleared")
	}
	if state.Weather == nil || state.Weather.City != "Paris" {
		t.Errorf("Weather = %+v", state.Weather)
	}
}

func TestWeatherFailureClearsResult(t *testing.T) {
	a, notifier, _ := newTestAssistant(t, Services{
		Weather: &fakeWeather{err: errors.New("boom")},
	})

	a.HandleTranscript("what is the weather in atlantis")
	notifier.waitTurn(t) // ack

	done := notifier.waitTurn(t)
	if done.Spoken != "Sorry, I couldn't get the weather for atlantis." {
		t.Errorf("Spoken = %q", done.Spoken)
	}

	state := a.Snapshot()
	if state.Weather != nil {
		t.Error("failed fetch must clear the weather result")
	}
	if state.Loading.Weather {
		t.Error("loading flag should be cleared on failure")
	}
}

func TestMissingServiceApologizes(t *testing.T) {
	a, notifier, _ := newTestAssistant(t, Services{})

	a.HandleTranscript("tell me the news")
	notifier.waitTurn(t) // ack

	done := notifier.waitTurn(t)
	if done.Spoken != "Sorry, I couldn't find any news." {
		t.Errorf("Spoken = %q", done.Spoken)
	}
}

func TestVideoPlayAutoplays(t *testing.T) {
	video := &fakeVideo{videos: []services.Video{
		{ID: "abc123", Title: "First Result"},
		{ID: "def456", Title: "Second Result"},
	}}
	a, notifier, _ := newTestAssistant(t, Services{Video: video})

	a.HandleTranscript("play lofi beats")
	notifier.waitTurn(t) // ack

	found := notifier.waitTurn(t)
	if found.Spoken != `I found "First Result" and more videos on YouTube.` {
		t.Errorf("found Spoken = %q", found.Spoken)
	}

	playing := notifier.waitTurn(t)
	if playing.Spoken != `Now playing "First Result".` {
		t.Errorf("playing Spoken = %q", playing.Spoken)
	}

	state := a.Snapshot()
	if state.NowPlaying != "abc123" {
		t.Errorf("NowPlaying = %q, want abc123", state.NowPlaying)
	}
}

func TestSendEmail(t *testing.T) {
	email := &fakeEmail{}
	a, notifier, _ := newTestAssistant(t, Services{Email: email})

	a.HandleTranscript("send an email to a@b.com with subject hi and message hello there")
	notifier.waitTurn(t) // ack

	done := notifier.waitTurn(t)
	if done.Spoken != "Email sent successfully to a@b.com!" {
		t.Errorf("Spoken = %q", done.Spoken)
	}

	email.mu.Lock()
	defer email.mu.Unlock()
	if email.recipient != "a@b.com" || email.subject != "hi" || email.body != "hello there" {
		t.Errorf("sent = %q / %q / %q", email.recipient, email.subject, email.body)
	}
}

func TestSwitchVoicePersists(t *testing.T) {
	a, notifier, _ := newTestAssistant(t, Services{})

	a.SetVoices([]voice.Voice{
		{Name: "Google US English Female", Lang: "en-US"},
	})

	a.HandleTranscript("switch to female voice")
	turn := notifier.waitTurn(t)
	if turn.Spoken != "Switching to a female voice." {
		t.Errorf("Spoken = %q", turn.Spoken)
	}

	// The acknowledgement itself already uses the new voice.
	if notifier.lastVoice() != "Google US English Female" {
		t.Errorf("voice = %q", notifier.lastVoice())
	}

	a.HandleTranscript("hello")
	notifier.waitTurn(t)
	if notifier.lastVoice() != "Google US English Female" {
		t.Errorf("voice after switch = %q", notifier.lastVoice())
	}
}

func TestOpenWebsite(t *testing.T) {
	a, notifier, _ := newTestAssistant(t, Services{})

	a.HandleTranscript("open website example.com")
	notifier.waitTurn(t)

	a.Snapshot() // drain the mailbox so the open was delivered

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.opens) != 1 || notifier.opens[0] != "http://example.com" {
		t.Errorf("opens = %v", notifier.opens)
	}
}

func TestStartListeningIdempotent(t *testing.T) {
	a, _, _ := newTestAssistant(t, Services{})

	a.SetListening(true)
	a.SetListening(true)
	if !a.Snapshot().Listening {
		t.Error("Listening should be true")
	}

	a.SetListening(false)
	if a.Snapshot().Listening {
		t.Error("Listening should be false")
	}
}

func TestEmptyTranscriptIgnored(t *testing.T) {
	a, notifier, _ := newTestAssistant(t, Services{})

	a.HandleTranscript("   ")
	a.HandleTranscript("hello")

	turn := notifier.waitTurn(t)
	if turn.Heard != "hello" {
		t.Errorf("Heard = %q, blank transcript should produce no turn", turn.Heard)
	}
}

func TestTurnsBounded(t *testing.T) {
	a, notifier, _ := newTestAssistant(t, Services{})

	for i := 0; i < maxTurns+10; i++ {
		a.HandleTranscript("hello")
		notifier.waitTurn(t)
	}

	if n := len(a.Snapshot().Turns); n != maxTurns {
		t.Errorf("len(Turns) = %d, want %d", n, maxTurns)
	}
}
