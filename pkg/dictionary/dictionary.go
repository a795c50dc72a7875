package dictionary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotFound is returned when the dictionary file does not exist.
var ErrNotFound = errors.New("dictionary: file not found")

// JMdictEntry matches the structure of jmdict-simplified entries.
// Every slice may be empty; consumers apply their own defaults.
type JMdictEntry struct {
	Id    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string        `json:"partOfSpeech"`
	Gloss        []JMdictGloss   `json:"gloss"`
	Examples     []JMdictExample `json:"examples"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' if missing
}

// JMdictExample is a Tatoeba sentence pair attached to a sense
// (only present in the jmdict-examples-* releases).
type JMdictExample struct {
	Source    JMdictExampleSource     `json:"source"`
	Text      string                  `json:"text"`
	Sentences []JMdictExampleSentence `json:"sentences"`
}

type JMdictExampleSource struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// JMdictExampleSentence is one side of an example. Older releases spell the
// language key "land"; both are accepted.
type JMdictExampleSentence struct {
	Lang string `json:"lang"`
	Land string `json:"land"`
	Text string `json:"text"`
}

// Language returns the sentence's language code.
func (s JMdictExampleSentence) Language() string {
	if s.Lang != "" {
		return s.Lang
	}
	return s.Land
}

// LoadJMdictSimplified reads a JSON file ({"words": [...]} or a bare array)
// and returns its entries in file order. An empty word list is not an error.
func LoadJMdictSimplified(path string) ([]JMdictEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []JMdictEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary array: %w", err)
		}
		return entries, nil
	}

	var wrapper struct {
		Words []JMdictEntry `json:"words"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary object: %w", err)
	}
	return wrapper.Words, nil
}
