package book

import (
	"unicode/utf8"

	"github.com/japaniel/yomideck/pkg/japanese"
)

const (
	// DefaultTitle names content that precedes the first outline entry.
	DefaultTitle = "Front Matter"

	minChapterRunes  = 20
	scriptProbeRunes = 50
)

// Skip reasons reported for spine items that produce no chapter text.
const (
	ReasonMissing    = "missing"
	ReasonNotContent = "not a document"
	ReasonUnreadable = "unreadable"
	ReasonTooShort   = "too short"
	ReasonNoJapanese = "no japanese text"
)

// Chapter is a run of consecutive spine items sharing one outline title.
type Chapter struct {
	Title string
	Text  string
	Order int
}

// Skipped records a spine item that contributed no text.
type Skipped struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Reason string `yaml:"reason"`
}

// AssembleChapters walks the spine in reading order. Each accepted item
// either extends the last chapter (same current title) or starts a new one.
// The current title changes only on items listed in toc, so untitled files
// inherit the heading of the file before them.
func AssembleChapters(doc Document, toc TOCMap, ext Extractor) ([]Chapter, []Skipped) {
	var chapters []Chapter
	var skipped []Skipped
	currentTitle := DefaultTitle

	for _, id := range doc.Spine() {
		item, ok := doc.Item(id)
		if !ok {
			skipped = append(skipped, Skipped{ID: id, Reason: ReasonMissing})
			continue
		}
		if !item.IsDocument() {
			skipped = append(skipped, Skipped{ID: id, Name: item.Name(), Reason: ReasonNotContent})
			continue
		}

		var text string
		markup, err := item.Content()
		if err == nil {
			text, err = ext.Text(markup)
		}
		text = NormalizeText(text)

		if title, ok := toc[item.Name()]; ok {
			currentTitle = title
		}

		if reason := rejectReason(text, err); reason != "" {
			skipped = append(skipped, Skipped{ID: id, Name: item.Name(), Reason: reason})
			continue
		}

		if n := len(chapters); n > 0 && chapters[n-1].Title == currentTitle {
			chapters[n-1].Text += "\n" + text
			continue
		}
		chapters = append(chapters, Chapter{Title: currentTitle, Text: text, Order: len(chapters)})
	}
	return chapters, skipped
}

func rejectReason(text string, err error) string {
	if err != nil {
		return ReasonUnreadable
	}
	if utf8.RuneCountInString(text) < minChapterRunes {
		return ReasonTooShort
	}
	if !japanese.ContainsJapanese(prefix(text, scriptProbeRunes)) {
		return ReasonNoJapanese
	}
	return ""
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
