package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ariavoice/aria/internal/httpc"
)

// DefaultDictionaryBaseURL is the free dictionary API root.
const DefaultDictionaryBaseURL = "https://api.dictionaryapi.dev/api/v2"

// DefinitionGroup holds the meanings for one part of speech.
type DefinitionGroup struct {
	PartOfSpeech string   `json:"part_of_speech"`
	Meanings     []string `json:"meanings"`
}

// DictionaryEntry is a dictionary lookup result for one word.
type DictionaryEntry struct {
	Word        string            `json:"original_word"`
	Definitions []DefinitionGroup `json:"definitions"`
}

// DictionaryClient fetches definitions from dictionaryapi.dev.
// No API key is required.
type DictionaryClient struct {
	baseURL string
	http    *http.Client
}

// NewDictionaryClient creates a dictionary client. An empty baseURL
// uses dictionaryapi.dev.
func NewDictionaryClient(baseURL string) *DictionaryClient {
	if baseURL == "" {
		baseURL = DefaultDictionaryBaseURL
	}
	return &DictionaryClient{
		baseURL: baseURL,
		http:    httpc.Client,
	}
}

type dictionaryAPIEntry struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Fetch returns the definitions of a word grouped by part of speech.
func (c *DictionaryClient) Fetch(ctx context.Context, word string) (*DictionaryEntry, error) {
	endpoint := c.baseURL + "/entries/en/" + url.PathEscape(word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNoResults
	}

	var raw []dictionaryAPIEntry
	if err := decode(resp, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoResults
	}

	entry := &DictionaryEntry{Word: word}
	for _, m := range raw[0].Meanings {
		group := DefinitionGroup{PartOfSpeech: m.PartOfSpeech}
		for _, d := range m.Definitions {
			group.Meanings = append(group.Meanings, d.Definition)
		}
		if len(group.Meanings) > 0 {
			entry.Definitions = append(entry.Definitions, group)
		}
	}
	if len(entry.Definitions) == 0 {
		return nil, ErrNoResults
	}
	return entry, nil
}
