// Package config provides the explicit startup configuration for aria.
// All external identifiers and keys are resolved once at startup and
// passed down as a struct; nothing reads the environment after that.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults for the daemon.
const (
	DefaultListenAddr = ":8080"
	DefaultLocale     = "en-US"
	DefaultStoreFile  = "todos.json"
)

// Config holds everything the daemon needs to run.
type Config struct {
	// ListenAddr is the HTTP listen address (host:port or :port).
	ListenAddr string

	// Locale restricts speech recognition and voice selection (BCP 47 tag).
	Locale string

	// StorePath is the JSON file backing the to-do store.
	StorePath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// OpenWeatherKey authenticates against OpenWeatherMap.
	OpenWeatherKey string

	// NewsAPIKey authenticates against NewsAPI.org.
	NewsAPIKey string

	// YouTubeKey is the YouTube Data API key.
	YouTubeKey string

	// GmailCredentialsPath points at the OAuth client JSON for Gmail send.
	GmailCredentialsPath string

	// GmailTokenPath points at the stored OAuth token for Gmail send.
	GmailTokenPath string

	// WeatherBaseURL overrides the OpenWeatherMap endpoint (tests).
	WeatherBaseURL string

	// NewsBaseURL overrides the NewsAPI endpoint (tests).
	NewsBaseURL string

	// WikipediaBaseURL overrides the Wikipedia REST endpoint (tests).
	WikipediaBaseURL string

	// DictionaryBaseURL overrides the dictionary endpoint (tests).
	DictionaryBaseURL string

	// StaticDir is the directory served as the browser client.
	StaticDir string
}

// FromEnv builds a Config from environment variables, falling back to
// defaults. Call godotenv.Load before this if a .env file is in use.
func FromEnv() Config {
	return Config{
		ListenAddr:           envOr("ARIA_LISTEN", DefaultListenAddr),
		Locale:               envOr("ARIA_LOCALE", DefaultLocale),
		StorePath:            envOr("ARIA_STORE", defaultStorePath()),
		LogLevel:             envOr("ARIA_LOG_LEVEL", "info"),
		OpenWeatherKey:       os.Getenv("OPENWEATHER_API_KEY"),
		NewsAPIKey:           os.Getenv("NEWS_API_KEY"),
		YouTubeKey:           os.Getenv("YOUTUBE_API_KEY"),
		GmailCredentialsPath: os.Getenv("GMAIL_CREDENTIALS"),
		GmailTokenPath:       os.Getenv("GMAIL_TOKEN"),
		StaticDir:            envOr("ARIA_STATIC_DIR", "./web"),
	}
}

// Validate checks for configuration that would prevent startup.
// Missing service keys are not fatal; the matching feature degrades to
// an error response instead.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.StorePath == "" {
		return fmt.Errorf("store path must not be empty")
	}
	return nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultStoreFile
	}
	return filepath.Join(home, ".aria", DefaultStoreFile)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
