package assistant

import (
	"fmt"
	"math"

	"github.com/ariavoice/aria/internal/log"
	"github.com/ariavoice/aria/pkg/intent"
	"github.com/ariavoice/aria/pkg/services"
)

// dispatch performs the side effect of a matched command. Runs on the
// actor loop; remote calls leave the loop via goroutines and return
// through the mailbox.
func (a *Assistant) dispatch(action *intent.Action) {
	slots := action.Slots

	switch action.Kind {
	case intent.ActAddTask:
		if _, err := a.store.Add(slots[intent.SlotTask]); err != nil {
			log.Error("failed to add task", "error", err)
		}
		a.refreshTodos()

	case intent.ActCompleteTask:
		if err := a.store.SetDone(slots[intent.SlotTaskID], true); err != nil {
			log.Error("failed to complete task", "id", slots[intent.SlotTaskID], "error", err)
		}
		a.refreshTodos()

	case intent.ActDeleteTask:
		if err := a.store.Remove(slots[intent.SlotTaskID]); err != nil {
			log.Error("failed to delete task", "id", slots[intent.SlotTaskID], "error", err)
		}
		a.refreshTodos()

	case intent.ActWeather:
		a.fetchWeather(slots[intent.SlotCity])

	case intent.ActNews:
		a.fetchNews(slots[intent.SlotQuery])

	case intent.ActLookup:
		a.fetchWikipedia(slots[intent.SlotQuery])

	case intent.ActDefine:
		a.fetchDefinition(slots[intent.SlotWord])

	case intent.ActVideoSearch:
		a.searchVideos(slots[intent.SlotQuery], false)

	case intent.ActVideoPlay:
		a.searchVideos(slots[intent.SlotQuery], true)

	case intent.ActSendEmail:
		a.sendEmail(slots[intent.SlotRecipient], slots[intent.SlotSubject], slots[intent.SlotBody])

	case intent.ActSwitchVoice:
		// Applied before the acknowledgement turn was emitted.

	case intent.ActOpenWebsite:
		a.notifier.NotifyOpen(slots[intent.SlotURL])

	default:
		log.Warn("unhandled action", "kind", string(action.Kind))
	}
}

func (a *Assistant) fetchWeather(city string) {
	a.state.Loading.Weather = true
	go func() {
		var report *services.WeatherReport
		var err error
		if a.services.Weather == nil {
			err = services.ErrNotConfigured
		} else {
			report, err = a.services.Weather.Fetch(a.ctx, city)
		}
		a.post(func() {
			a.state.Loading.Weather = false
			if err != nil {
				log.Error("weather fetch failed", "city", city, "error", err)
				a.state.Weather = nil
				a.emitTurn("", fmt.Sprintf("Sorry, I couldn't get the weather for %s.", city))
			} else {
				a.state.Weather = report
				a.emitTurn("", weatherText(report))
			}
			a.notifyState()
		})
	}()
}

func (a *Assistant) fetchNews(query string) {
	a.state.Loading.News = true
	go func() {
		var articles []services.Article
		var err error
		if a.services.News == nil {
			err = services.ErrNotConfigured
		} else {
			articles, err = a.services.News.Fetch(a.ctx, query)
		}
		a.post(func() {
			a.state.Loading.News = false
			if err != nil {
				log.Error("news fetch failed", "query", query, "error", err)
				a.state.News = nil
				scope := ""
				if query != "" {
					scope = " about " + query
				}
				a.emitTurn("", fmt.Sprintf("Sorry, I couldn't find any news%s.", scope))
			} else {
				a.state.News = articles
				a.emitTurn("", fmt.Sprintf("Here's the top news: %q and more.", articles[0].Title))
			}
			a.notifyState()
		})
	}()
}

func (a *Assistant) fetchWikipedia(query string) {
	a.state.Loading.Wikipedia = true
	go func() {
		var page *services.PageSummary
		var err error
		if a.services.Wikipedia == nil {
			err = services.ErrNotConfigured
		} else {
			page, err = a.services.Wikipedia.Fetch(a.ctx, query)
		}
		a.post(func() {
			a.state.Loading.Wikipedia = false
			if err != nil {
				log.Error("wikipedia fetch failed", "query", query, "error", err)
				a.state.Wikipedia = nil
				a.emitTurn("", fmt.Sprintf("Sorry, I couldn't find a Wikipedia page for %q.", query))
			} else {
				a.state.Wikipedia = page
				a.emitTurn("", "According to Wikipedia, "+page.Summary)
			}
			a.notifyState()
		})
	}()
}

func (a *Assistant) fetchDefinition(word string) {
	a.state.Loading.Dictionary = true
	go func() {
		var entry *services.DictionaryEntry
		var err error
		if a.services.Dictionary == nil {
			err = services.ErrNotConfigured
		} else {
			entry, err = a.services.Dictionary.Fetch(a.ctx, word)
		}
		a.post(func() {
			a.state.Loading.Dictionary = false
			if err != nil {
				log.Error("dictionary fetch failed", "word", word, "error", err)
				a.state.Dictionary = nil
				a.emitTurn("", fmt.Sprintf("Sorry, I couldn't find a definition for %q.", word))
			} else {
				a.state.Dictionary = entry
				a.emitTurn("", fmt.Sprintf("The definition of %s is: %s", entry.Word, entry.Definitions[0].Meanings[0]))
			}
			a.notifyState()
		})
	}()
}

func (a *Assistant) searchVideos(query string, autoPlayFirst bool) {
	a.state.Loading.Video = true
	go func() {
		var videos []services.Video
		var err error
		if a.services.Video == nil {
			err = services.ErrNotConfigured
		} else {
			videos, err = a.services.Video.Search(a.ctx, query)
		}
		a.post(func() {
			a.state.Loading.Video = false
			if err != nil {
				log.Error("video search failed", "query", query, "error", err)
				a.state.Videos = nil
				a.state.NowPlaying = ""
				a.emitTurn("", fmt.Sprintf("Sorry, I couldn't find any YouTube videos for %q.", query))
			} else {
				a.state.Videos = videos
				a.emitTurn("", fmt.Sprintf("I found %q and more videos on YouTube.", videos[0].Title))
				if autoPlayFirst {
					a.state.NowPlaying = videos[0].ID
					a.emitTurn("", fmt.Sprintf("Now playing %q.", videos[0].Title))
				}
			}
			a.notifyState()
		})
	}()
}

func (a *Assistant) sendEmail(recipient, subject, body string) {
	a.state.Loading.Email = true
	go func() {
		var err error
		if a.services.Email == nil {
			err = services.ErrNotConfigured
		} else {
			err = a.services.Email.Send(a.ctx, recipient, subject, body)
		}
		a.post(func() {
			a.state.Loading.Email = false
			if err != nil {
				log.Error("email send failed", "recipient", recipient, "error", err)
				a.emitTurn("", "Sorry, I couldn't send the email. Please check the email configuration.")
			} else {
				a.emitTurn("", fmt.Sprintf("Email sent successfully to %s!", recipient))
			}
			a.notifyState()
		})
	}()
}

// refreshTodos re-reads the store after a voice-driven mutation so the
// very next transcript interprets against the new list. The watch
// channel re-delivers the same snapshot; applying it twice is harmless.
func (a *Assistant) refreshTodos() {
	a.state.Todos = a.store.List()
	a.notifier.NotifyTodos(a.state.Todos)
}

// weatherText phrases a report the way it is read aloud. Values are
// rounded for speech; the full precision stays in the state payload.
func weatherText(r *services.WeatherReport) string {
	return fmt.Sprintf(
		"The weather in %s is %s with a temperature of %d degrees Celsius. Wind speed is %d meters per second, and humidity is %d percent.",
		r.City,
		r.Description,
		int(math.Round(r.Temperature)),
		int(math.Round(r.WindSpeed)),
		r.Humidity,
	)
}
