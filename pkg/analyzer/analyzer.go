// Package analyzer wraps the kagome morphological tagger and turns its token
// stream into per-chapter vocabulary candidates.
package analyzer

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/japaniel/yomideck/pkg/japanese"
)

// placeholder is what the IPA dictionary reports for an unknown feature.
const placeholder = "*"

// Token represents a single analyzed unit of text.
type Token struct {
	Surface string // The text as it appears (e.g. "行っ")
	// Lemma is the dictionary form (e.g. "行く"). Empty when the tagger had
	// no base form feature at all; "*" when it reported the placeholder.
	Lemma         string
	Reading       string   // The pronunciation (katakana, e.g. "イッ")
	PartsOfSpeech []string // e.g. ["動詞", "自立", "*", "*"] (Kagome POS labels)
	// PrimaryPOS stores the first (primary) part of speech if available.
	PrimaryPOS string
}

// Tagger produces the ordered token stream for a piece of text.
type Tagger interface {
	Analyze(text string) ([]Token, error)
}

// Analyzer is the kagome-backed Tagger. It is safe for concurrent use.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a new tokenizer instance over the IPA dictionary.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms.
func (a *Analyzer) Analyze(text string) ([]Token, error) {
	tokens := a.t.Tokenize(text)
	result := make([]Token, 0, len(tokens))

	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// Kagome IPA features:
		// 0: Part of Speech
		// 1-3: Sub-POS
		// 4: Conjugation Type
		// 5: Conjugation Form
		// 6: Base Form (Lemma)
		// 7: Reading
		// 8: Pronunciation
		features := token.Features()

		var lemma, reading, primaryPOS string
		if len(features) > 6 {
			lemma = features[6]
		}
		if len(features) > 7 && features[7] != placeholder {
			reading = features[7]
		}
		if len(features) > 0 {
			primaryPOS = features[0]
		}

		result = append(result, Token{
			Surface:       token.Surface,
			Lemma:         lemma,
			Reading:       reading,
			PartsOfSpeech: features,
			PrimaryPOS:    primaryPOS,
		})
	}

	return result, nil
}

// ExcludedPOS are the grammatical categories dropped unless particles are
// requested: particle, auxiliary verb, symbol, interjection, supplementary symbol.
var ExcludedPOS = map[string]bool{
	"助詞":   true,
	"助動詞":  true,
	"記号":   true,
	"感動詞":  true,
	"補助記号": true,
}

// Word returns the form a token is counted and looked up under: its lemma
// when the tagger produced a real one, otherwise its surface.
func (t Token) Word() string {
	if t.Lemma != "" && t.Lemma != placeholder {
		return t.Lemma
	}
	return t.Surface
}

// Candidates filters tokens down to vocabulary candidates, in stream order.
// Tokens without Japanese script are always dropped; tokens in ExcludedPOS
// are dropped unless includeParticles is set.
func Candidates(tokens []Token, includeParticles bool) []string {
	var words []string
	for _, t := range tokens {
		if !japanese.ContainsJapanese(t.Surface) {
			continue
		}
		if !includeParticles && ExcludedPOS[t.PrimaryPOS] {
			continue
		}
		words = append(words, t.Word())
	}
	return words
}
