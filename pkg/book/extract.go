package book

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Extractor turns markup into plain text.
type Extractor interface {
	Text(markup []byte) (string, error)
}

// NewExtractor returns the extractor registered under name ("html" or "readability").
func NewExtractor(name string) (Extractor, error) {
	switch name {
	case "", "html":
		return HTMLExtractor{}, nil
	case "readability":
		return ReadabilityExtractor{}, nil
	}
	return nil, fmt.Errorf("unknown extractor %q", name)
}

// HTMLExtractor concatenates every text node of the document, skipping
// script and style elements.
type HTMLExtractor struct{}

func (HTMLExtractor) Text(markup []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(SanitizeRuby(markup)))
	if err != nil {
		return "", err
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			out.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out.String(), nil
}

// ReadabilityExtractor keeps only the main article content of each file.
// Useful for books whose XHTML carries heavy navigation chrome.
type ReadabilityExtractor struct{}

var readabilityBase = &url.URL{Scheme: "file", Path: "/"}

func (ReadabilityExtractor) Text(markup []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(SanitizeRuby(markup)), readabilityBase)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// NormalizeText collapses every whitespace run to one space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NFKCExtractor applies NFKC to the text of the wrapped extractor, folding
// half-width katakana and compatibility characters. It is opt-in: folded
// text can pass the length and script checks that the raw text fails.
type NFKCExtractor struct {
	Extractor
}

func (e NFKCExtractor) Text(markup []byte) (string, error) {
	text, err := e.Extractor.Text(markup)
	if err != nil {
		return "", err
	}
	return norm.NFKC.String(text), nil
}

var (
	// (?s) allows dot to match newlines
	// (?i) makes it case-insensitive
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses (<rp>...</rp>)
// from markup, so furigana is not counted twice (e.g. "漢字" becoming "漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	cleaned = reRP.ReplaceAll(cleaned, []byte{})
	return cleaned
}
