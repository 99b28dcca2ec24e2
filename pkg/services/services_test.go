package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "London", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "London",
			"sys": {"country": "GB"},
			"main": {"temp": 18.4, "feels_like": 17.9, "humidity": 72},
			"weather": [{"description": "light rain", "icon": "10d"}],
			"wind": {"speed": 4.6}
		}`))
	}))
	defer srv.Close()

	client := NewWeatherClient("test-key", srv.URL)
	report, err := client.Fetch(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, "London", report.City)
	assert.Equal(t, "GB", report.Country)
	assert.Equal(t, "light rain", report.Description)
	assert.InDelta(t, 18.4, report.Temperature, 0.001)
	assert.Equal(t, 72, report.Humidity)
}

func TestWeatherUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
	}))
	defer srv.Close()

	client := NewWeatherClient("test-key", srv.URL)
	_, err := client.Fetch(context.Background(), "Nowhereville")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city not found")
}

func TestWeatherNotConfigured(t *testing.T) {
	client := NewWeatherClient("", "")
	_, err := client.Fetch(context.Background(), "London")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestWeatherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	client := NewWeatherClient("test-key", srv.URL)
	_, err := client.Fetch(context.Background(), "London")
	assert.Error(t, err)
}

func TestNewsHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top-headlines", r.URL.Path)
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		assert.Empty(t, r.URL.Query().Get("q"))

		w.Write([]byte(`{"status": "ok", "articles": [
			{"title": "First story", "description": "d1", "url": "u1", "source": {"name": "Wire"}},
			{"title": "Second story", "description": "d2", "url": "u2", "source": {"name": "Post"}}
		]}`))
	}))
	defer srv.Close()

	client := NewNewsClient("test-key", srv.URL)
	articles, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "First story", articles[0].Title)
	assert.Equal(t, "Wire", articles[0].Source)
}

func TestNewsWithQueryUsesEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "space", r.URL.Query().Get("q"))

		w.Write([]byte(`{"status": "ok", "articles": [
			{"title": "Launch day", "source": {"name": "Wire"}}
		]}`))
	}))
	defer srv.Close()

	client := NewNewsClient("test-key", srv.URL)
	articles, err := client.Fetch(context.Background(), "space")
	require.NoError(t, err)
	require.Len(t, articles, 1)
}

func TestNewsEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "articles": []}`))
	}))
	defer srv.Close()

	client := NewNewsClient("test-key", srv.URL)
	_, err := client.Fetch(context.Background(), "nothing matches this")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestWikipediaFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page/summary/alan_turing", r.URL.Path)

		w.Write([]byte(`{
			"title": "Alan Turing",
			"extract": "Alan Turing was an English mathematician.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Alan_Turing"}}
		}`))
	}))
	defer srv.Close()

	client := NewWikipediaClient(srv.URL)
	summary, err := client.Fetch(context.Background(), "alan turing")
	require.NoError(t, err)
	assert.Equal(t, "Alan Turing", summary.Title)
	assert.Contains(t, summary.Summary, "mathematician")
	assert.Contains(t, summary.FullURL, "wiki/Alan_Turing")
}

func TestWikipediaNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"title": "Not found."}`))
	}))
	defer srv.Close()

	client := NewWikipediaClient(srv.URL)
	_, err := client.Fetch(context.Background(), "zzzz qqqq")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestDictionaryFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entries/en/serendipity", r.URL.Path)

		w.Write([]byte(`[{
			"word": "serendipity",
			"meanings": [{
				"partOfSpeech": "noun",
				"definitions": [
					{"definition": "A fortunate accident."},
					{"definition": "Luck in discovery."}
				]
			}]
		}]`))
	}))
	defer srv.Close()

	client := NewDictionaryClient(srv.URL)
	entry, err := client.Fetch(context.Background(), "serendipity")
	require.NoError(t, err)
	require.Len(t, entry.Definitions, 1)
	assert.Equal(t, "noun", entry.Definitions[0].PartOfSpeech)
	assert.Len(t, entry.Definitions[0].Meanings, 2)
	assert.Equal(t, "A fortunate accident.", entry.Definitions[0].Meanings[0])
}

func TestDictionaryNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"title": "No Definitions Found"}`))
	}))
	defer srv.Close()

	client := NewDictionaryClient(srv.URL)
	_, err := client.Fetch(context.Background(), "qwzx")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME("a@b.com", "Hi", "Hello there"))
	assert.Contains(t, raw, "To: a@b.com\r\n")
	assert.Contains(t, raw, "Subject: Hi\r\n")
	assert.Contains(t, raw, "\r\n\r\nHello there")
}
