// Package services contains the remote information and messaging clients
// aria's controller invokes for fetch-style intents: weather, news,
// encyclopedia lookup, dictionary lookup, video search, and email send.
//
// Every client exposes one call taking a context and returning a result
// or an error. There are no retries; a transport or backend failure
// surfaces as a single error and the caller decides what to say.
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotConfigured is returned when a client's API key or credential
// is missing. The feature degrades to a spoken error; nothing is fatal.
var ErrNotConfigured = errors.New("service not configured")

// ErrNoResults is returned when the upstream answered but had nothing
// matching the query.
var ErrNoResults = errors.New("no results")

// apiError is the error-field contract shared by the upstream APIs:
// failure is a non-2xx status plus a message payload.
type apiError struct {
	// OpenWeatherMap and NewsAPI both use "message"; some services use
	// "error". Whichever is present wins.
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e apiError) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// decode reads a JSON response body, mapping non-2xx statuses to errors
// carrying the upstream message when one is present.
func decode(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.text() != "" {
			return fmt.Errorf("upstream error (%d): %s", resp.StatusCode, apiErr.text())
		}
		return fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
