// Package intent is aria's command interpreter: a pure function mapping
// one transcribed utterance plus the current application state to a
// response and, for side-effecting commands, a typed action.
//
// Rules are evaluated in a fixed order and the first rule whose trigger
// phrase appears in the transcript wins. The order is load-bearing:
// several triggers overlap ("what is" is a substring of the weather
// trigger), and ties resolve to the earlier rule. A matched trigger is
// terminal even when slot extraction fails; the rule then answers with
// its own clarification prompt instead of falling through.
package intent

import (
	"strings"
	"time"

	"github.com/ariavoice/aria/pkg/todo"
	"github.com/ariavoice/aria/pkg/voice"
)

// Kind identifies the action a matched command requests.
type Kind string

const (
	ActAddTask      Kind = "add_task"
	ActCompleteTask Kind = "complete_task"
	ActDeleteTask   Kind = "delete_task"
	ActWeather      Kind = "weather"
	ActNews         Kind = "news"
	ActLookup       Kind = "lookup"
	ActDefine       Kind = "define"
	ActVideoSearch  Kind = "video_search"
	ActVideoPlay    Kind = "video_play"
	ActSendEmail    Kind = "send_email"
	ActSwitchVoice  Kind = "switch_voice"
	ActOpenWebsite  Kind = "open_website"
)

// Action is the side effect a command requests, with its extracted slots.
// It is produced once per transcript and consumed once by the controller;
// the interpreter itself never performs I/O.
type Action struct {
	Kind  Kind              `json:"kind"`
	Slots map[string]string `json:"slots"`
}

// Slot names used across actions.
const (
	SlotTask      = "task"
	SlotTaskID    = "id"
	SlotIndex     = "index"
	SlotCity      = "city"
	SlotQuery     = "query"
	SlotWord      = "word"
	SlotRecipient = "recipient"
	SlotSubject   = "subject"
	SlotBody      = "body"
	SlotVoice     = "voice"
	SlotURL       = "url"
)

// Result is the interpreter's answer for one transcript. Response is
// never empty; Action is nil when the command needs no side effect.
type Result struct {
	Response string
	Action   *Action
}

// Context is the application state the interpreter reads. Tasks are in
// creation order; voice enumeration comes from the client platform.
type Context struct {
	Tasks  []todo.Task
	Voices []voice.Voice
}

// Interpreter evaluates the fixed rule list against transcripts.
type Interpreter struct {
	// Locale restricts voice-switch lookups to one language tag.
	Locale string

	// Now supplies the clock for the time rule.
	Now func() time.Time
}

// New creates an interpreter for the given locale.
func New(locale string) *Interpreter {
	return &Interpreter{
		Locale: locale,
		Now:    time.Now,
	}
}

// Interpret maps a transcript and the current state to a result.
// Matching is case-insensitive; the fallback echoes the transcript
// verbatim, so every branch terminates in a determinate response.
func (in *Interpreter) Interpret(transcript string, ctx Context) Result {
	lower := strings.ToLower(transcript)

	for _, r := range rules {
		if r.matches(lower) {
			return r.handle(in, lower, ctx)
		}
	}

	return Result{
		Response: `I understand you said "` + transcript + `". I am still learning, but for now, I can tell time and manage your to-do list.`,
	}
}

func respond(text string) Result {
	return Result{Response: text}
}

func act(text string, kind Kind, slots map[string]string) Result {
	return Result{
		Response: text,
		Action:   &Action{Kind: kind, Slots: slots},
	}
}
