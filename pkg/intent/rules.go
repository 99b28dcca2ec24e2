package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ariavoice/aria/pkg/todo"
	"github.com/ariavoice/aria/pkg/voice"
)

// rule pairs trigger phrases with a handler. Triggers are substring
// matches against the lowered transcript; handlers own slot extraction
// and the clarification prompt for their intent.
type rule struct {
	name     string
	triggers []string
	// pattern is an extra trigger for phrasings a substring cannot
	// express, e.g. "what does ... mean".
	pattern *regexp.Regexp
	handle  func(in *Interpreter, lower string, ctx Context) Result
}

// matches reports whether the rule triggers on the lowered transcript.
func (r rule) matches(lower string) bool {
	for _, trigger := range r.triggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return r.pattern != nil && r.pattern.MatchString(lower)
}

// Slot grammars. Applied to the lowered transcript after the trigger
// matched; failure is answered by the rule, never by a later rule.
var (
	addTaskRe    = regexp.MustCompile(`(?:add|create)\s+a\s+to\s*do\s+(?:item\s+)?(.*?)(?:\.|$)`)
	completeRe   = regexp.MustCompile(`(?:mark|complete)\s+todo\s+(\d+)`)
	deleteRe     = regexp.MustCompile(`(?:delete|remove)\s+todo\s+(\d+)`)
	weatherRe    = regexp.MustCompile(`what is the weather in (.+)`)
	newsTopicRe  = regexp.MustCompile(`(?:what is the news about|tell me the news about)\s+(.+)`)
	defineRe     = regexp.MustCompile(`define\s+(.+)`)
	whatMeansRe  = regexp.MustCompile(`what does\s+(.+)\s+mean`)
	videoRe      = regexp.MustCompile(`(?:search youtube for|find on youtube)\s+(.+)`)
	playRe       = regexp.MustCompile(`play\s+(.+)`)
	emailRe      = regexp.MustCompile(`send an email to\s+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\s+with subject\s+(.+?)\s+and message\s+(.+)`)
	openSiteRe   = regexp.MustCompile(`open website (.*?)(?:\.|$)`)
)

// rules is the ordered intent table. First match wins; do not reorder
// without revisiting every overlapping trigger below it.
var rules = []rule{
	{
		name:     "greeting",
		triggers: []string{"hello", "hi assistant"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			return respond("Hello there! How can I assist you?")
		},
	},
	{
		name:     "time",
		triggers: []string{"what time is it"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			return respond(fmt.Sprintf("The current time is %s.", in.Now().Format("3:04:05 PM")))
		},
	},
	{
		name:     "add-task",
		triggers: []string{"add a todo", "add to do", "create a todo"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			m := addTaskRe.FindStringSubmatch(lower)
			if m == nil || strings.TrimSpace(m[1]) == "" {
				return respond("What would you like to add to your to-do list?")
			}
			task := strings.TrimSpace(m[1])
			return act(
				fmt.Sprintf("Okay, I've added %q to your to-do list.", task),
				ActAddTask,
				map[string]string{SlotTask: task},
			)
		},
	},
	{
		name:     "list-tasks",
		triggers: []string{"show my todo list", "what are my todos"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			if len(ctx.Tasks) == 0 {
				return respond("You don't have any to-do items yet.")
			}
			items := make([]string, len(ctx.Tasks))
			for i, t := range ctx.Tasks {
				items[i] = fmt.Sprintf("%d. %s", i+1, t.Text)
			}
			return respond(fmt.Sprintf("Here are your to-do items: %s.", strings.Join(items, ", ")))
		},
	},
	{
		name:     "complete-task",
		triggers: []string{"mark todo as complete", "complete todo"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			m := completeRe.FindStringSubmatch(lower)
			if m == nil {
				return respond("Which to-do item would you like to mark as complete? Please say 'mark todo as complete number X'.")
			}
			idx, task, ok := taskAt(ctx, m[1])
			if !ok {
				return respond("I couldn't find a to-do item with that number. Please specify a valid number.")
			}
			return act(
				fmt.Sprintf("Okay, I've marked %q as complete.", task.Text),
				ActCompleteTask,
				map[string]string{SlotTaskID: task.ID, SlotIndex: strconv.Itoa(idx + 1)},
			)
		},
	},
	{
		name:     "delete-task",
		triggers: []string{"delete todo", "remove todo"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			m := deleteRe.FindStringSubmatch(lower)
			if m == nil {
				return respond("Which to-do item would you like to delete? Please say 'delete todo number X'.")
			}
			idx, task, ok := taskAt(ctx, m[1])
			if !ok {
				return respond("I couldn't find a to-do item with that number. Please specify a valid number.")
			}
			return act(
				fmt.Sprintf("I've removed %q from your to-do list.", task.Text),
				ActDeleteTask,
				map[string]string{SlotTaskID: task.ID, SlotIndex: strconv.Itoa(idx + 1)},
			)
		},
	},
	{
		name:     "weather",
		triggers: []string{"what is the weather in"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			m := weatherRe.FindStringSubmatch(lower)
			if m == nil || strings.TrimSpace(m[1]) == "" {
				return respond("For which city would you like to know the weather?")
			}
			city := strings.TrimSpace(m[1])
			return act(
				fmt.Sprintf("Fetching weather for %s...", city),
				ActWeather,
				map[string]string{SlotCity: city},
			)
		},
	},
	{
		name:     "news",
		triggers: []string{"what is the news", "tell me the news"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			// No topic means top headlines, not a clarification.
			if m := newsTopicRe.FindStringSubmatch(lower); m != nil {
				topic := strings.TrimSpace(m[1])
				return act(
					fmt.Sprintf("Fetching news about %s...", topic),
					ActNews,
					map[string]string{SlotQuery: topic},
				)
			}
			return act("Fetching top headlines...", ActNews, map[string]string{SlotQuery: ""})
		},
	},
	{
		name:     "encyclopedia",
		triggers: []string{"tell me about", "who is", "what is"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			var query string
			switch {
			case strings.Contains(lower, "tell me about"):
				query = strings.Replace(lower, "tell me about", "", 1)
			case strings.Contains(lower, "who is"):
				query = strings.Replace(lower, "who is", "", 1)
			default:
				query = strings.Replace(lower, "what is", "", 1)
			}
			query = strings.TrimSpace(query)
			if query == "" {
				return respond("What topic or person would you like to know about?")
			}
			return act(
				fmt.Sprintf("Searching Wikipedia for %q...", query),
				ActLookup,
				map[string]string{SlotQuery: query},
			)
		},
	},
	{
		name:     "dictionary",
		triggers: []string{"define"},
		pattern:  whatMeansRe,
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			var word string
			if m := defineRe.FindStringSubmatch(lower); m != nil {
				word = strings.TrimSpace(m[1])
			} else if m := whatMeansRe.FindStringSubmatch(lower); m != nil {
				word = strings.TrimSpace(m[1])
			}
			if word == "" {
				return respond("Which word would you like me to define?")
			}
			return act(
				fmt.Sprintf("Looking up %q in the dictionary...", word),
				ActDefine,
				map[string]string{SlotWord: word},
			)
		},
	},
	{
		name:     "video-search",
		triggers: []string{"search youtube for", "find on youtube"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			m := videoRe.FindStringSubmatch(lower)
			if m == nil || strings.TrimSpace(m[1]) == "" {
				return respond("What would you like to search for on YouTube?")
			}
			query := strings.TrimSpace(m[1])
			return act(
				fmt.Sprintf("Searching YouTube for %q...", query),
				ActVideoSearch,
				map[string]string{SlotQuery: query},
			)
		},
	},
	{
		name:     "video-play",
		triggers: []string{"play"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			m := playRe.FindStringSubmatch(lower)
			if m == nil || strings.TrimSpace(m[1]) == "" {
				return respond("What would you like me to play?")
			}
			query := strings.TrimSpace(m[1])
			return act(
				fmt.Sprintf("Searching YouTube for %q...", query),
				ActVideoPlay,
				map[string]string{SlotQuery: query},
			)
		},
	},
	{
		name:     "send-email",
		triggers: []string{"send an email to"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			// All three slots come from one pattern; a partial match is
			// a full failure, never a partial send.
			m := emailRe.FindStringSubmatch(lower)
			if m == nil {
				return respond("I couldn't understand the email command. Please say 'send an email to [recipient email] with subject [subject] and message [body]'.")
			}
			recipient := strings.TrimSpace(m[1])
			subject := strings.TrimSpace(m[2])
			body := strings.TrimSpace(m[3])
			return act(
				fmt.Sprintf("Sending email to %s...", recipient),
				ActSendEmail,
				map[string]string{SlotRecipient: recipient, SlotSubject: subject, SlotBody: body},
			)
		},
	},
	{
		name:     "switch-voice-female",
		triggers: []string{"switch to female voice"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			v, ok := findVoice(ctx.Voices, "female", in.Locale)
			if !ok {
				return respond("Sorry, a suitable female voice is not available.")
			}
			return act(
				"Switching to a female voice.",
				ActSwitchVoice,
				map[string]string{SlotVoice: v.Name},
			)
		},
	},
	{
		name:     "switch-voice-male",
		triggers: []string{"switch to male voice"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			v, ok := findVoice(ctx.Voices, "male", in.Locale)
			if !ok {
				return respond("Sorry, a suitable male voice is not available.")
			}
			return act(
				"Switching to a male voice.",
				ActSwitchVoice,
				map[string]string{SlotVoice: v.Name},
			)
		},
	},
	{
		name:     "open-website",
		triggers: []string{"open website"},
		handle: func(in *Interpreter, lower string, ctx Context) Result {
			m := openSiteRe.FindStringSubmatch(lower)
			if m == nil || strings.TrimSpace(m[1]) == "" {
				return respond("Which website would you like to open? Please say 'open website example dot com'.")
			}
			url := strings.TrimSpace(m[1])
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				url = "http://" + url
			}
			return act(
				fmt.Sprintf("Opening %s.", url),
				ActOpenWebsite,
				map[string]string{SlotURL: url},
			)
		},
	},
}

// taskAt resolves a 1-based spoken index to a task. The capture is \d+
// so Atoi cannot fail; an out-of-range index returns ok=false and the
// caller answers with the bounds error, performing no mutation.
func taskAt(ctx Context, spoken string) (int, todo.Task, bool) {
	n, err := strconv.Atoi(spoken)
	if err != nil {
		return 0, todo.Task{}, false
	}
	idx := n - 1
	if idx < 0 || idx >= len(ctx.Tasks) {
		return 0, todo.Task{}, false
	}
	return idx, ctx.Tasks[idx], true
}

// findVoice returns the first voice whose name contains the gender hint,
// restricted to the given language tag.
func findVoice(voices []voice.Voice, gender, lang string) (voice.Voice, bool) {
	for _, v := range voices {
		if v.Lang != lang {
			continue
		}
		if strings.Contains(strings.ToLower(v.Name), gender) {
			return v, true
		}
	}
	return voice.Voice{}, false
}
