// ariad is the aria assistant daemon: it serves the browser client,
// owns the session WebSocket, and runs the command interpreter loop.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ariavoice/aria/internal/config"
	"github.com/ariavoice/aria/internal/log"
	"github.com/ariavoice/aria/pkg/assistant"
	"github.com/ariavoice/aria/pkg/intent"
	"github.com/ariavoice/aria/pkg/services"
	"github.com/ariavoice/aria/pkg/todo"
	"github.com/ariavoice/aria/pkg/voice"
	"github.com/ariavoice/aria/pkg/web"
)

func main() {
	envFile := pflag.String("env-file", "", "load environment from this file before reading config")
	listen := pflag.String("listen", "", "listen address (overrides ARIA_LISTEN)")
	storePath := pflag.String("store", "", "to-do store path (overrides ARIA_STORE)")
	logLevel := pflag.String("log-level", "", "debug, info, warn, or error (overrides ARIA_LOG_LEVEL)")
	pflag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Error("failed to load env file", "path", *envFile, "error", err)
			os.Exit(1)
		}
	} else {
		// A .env in the working directory is optional.
		godotenv.Load()
	}

	cfg := config.FromEnv()
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log.Init(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := todo.NewJSONStore(cfg.StorePath)
	if err != nil {
		log.Error("failed to open to-do store", "path", cfg.StorePath, "error", err)
		os.Exit(1)
	}
	log.Info("to-do store ready", "path", cfg.StorePath, "tasks", len(store.List()))

	srv := web.NewServer(cfg.ListenAddr, cfg.StaticDir, store)
	a := assistant.New(intent.New(cfg.Locale), store, voice.NewRegistry(), buildServices(ctx, cfg), srv)
	srv.Attach(a)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("web server stopped", "error", err)
			stop()
		}
	}()

	log.Info("aria ready", "addr", cfg.ListenAddr, "locale", cfg.Locale)

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("assistant loop ended", "error", err)
	}

	if err := srv.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("shutdown complete")
}

// buildServices constructs the remote clients. A missing key leaves the
// client usable but unconfigured (REST services) or absent (Google
// APIs); either way the feature degrades to a spoken apology.
func buildServices(ctx context.Context, cfg config.Config) assistant.Services {
	svcs := assistant.Services{
		Weather:    services.NewWeatherClient(cfg.OpenWeatherKey, cfg.WeatherBaseURL),
		News:       services.NewNewsClient(cfg.NewsAPIKey, cfg.NewsBaseURL),
		Wikipedia:  services.NewWikipediaClient(cfg.WikipediaBaseURL),
		Dictionary: services.NewDictionaryClient(cfg.DictionaryBaseURL),
	}

	if cfg.OpenWeatherKey == "" {
		log.Warn("OPENWEATHER_API_KEY not set, weather disabled")
	}
	if cfg.NewsAPIKey == "" {
		log.Warn("NEWS_API_KEY not set, news disabled")
	}

	if cfg.YouTubeKey == "" {
		log.Warn("YOUTUBE_API_KEY not set, video search disabled")
	} else if vc, err := services.NewVideoClient(ctx, cfg.YouTubeKey); err != nil {
		log.Warn("failed to create video client, video search disabled", "error", err)
	} else {
		svcs.Video = vc
	}

	if cfg.GmailCredentialsPath == "" || cfg.GmailTokenPath == "" {
		log.Warn("gmail credentials not set, email disabled")
	} else if ec, err := services.NewEmailClient(ctx, cfg.GmailCredentialsPath, cfg.GmailTokenPath); err != nil {
		log.Warn("failed to create email client, email disabled", "error", err)
	} else {
		svcs.Email = ec
	}

	return svcs
}
