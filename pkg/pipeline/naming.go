package pipeline

import (
	"fmt"

	"github.com/japaniel/yomideck/pkg/anki"
)

// DefaultOrdinalWidth pads chapter numbers to two digits ("01").
const DefaultOrdinalWidth = 2

// NoteRecord is one vocabulary note before it is written to a package.
type NoteRecord struct {
	Word    string `yaml:"word"`
	Reading string `yaml:"reading"`
	Meaning string `yaml:"meaning"`
	// Source is the "Ch.<ordinal> (Freq: <count>)" label.
	Source  string `yaml:"source"`
	Example string `yaml:"example,omitempty"`
}

// Fields returns the note fields in vocabulary model order.
func (n NoteRecord) Fields() []string {
	fields := make([]string, 5)
	fields[anki.FieldWord] = n.Word
	fields[anki.FieldReading] = n.Reading
	fields[anki.FieldMeaning] = n.Meaning
	fields[anki.FieldFrequency] = n.Source
	fields[anki.FieldExample] = n.Example
	return fields
}

// ChapterDeck is the sub-deck built for one chapter.
type ChapterDeck struct {
	Ordinal string
	Title   string
	Name    string
	ID      int64
	Notes   []NoteRecord
}

// AnkiDeck converts the deck for the package writer.
func (d ChapterDeck) AnkiDeck() anki.Deck {
	out := anki.Deck{ID: d.ID, Name: d.Name, Notes: make([]anki.Note, 0, len(d.Notes))}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, anki.Note{GUID: anki.NoteGUID(n.Word), Fields: n.Fields()})
	}
	return out
}

// Ordinal returns the 1-based chapter number of index i, zero padded to
// width digits. Numbers wider than width are not truncated.
func Ordinal(i, width int) string {
	if width <= 0 {
		width = DefaultOrdinalWidth
	}
	return fmt.Sprintf("%0*d", width, i+1)
}

// DeckName returns "<book> Vocab::<ordinal>_<chapter>".
func DeckName(bookTitle, ordinal, chapterTitle string) string {
	return fmt.Sprintf("%s Vocab::%s_%s", bookTitle, ordinal, chapterTitle)
}

// SourceLabel returns the note's frequency label, "Ch.<ordinal> (Freq: <count>)".
func SourceLabel(ordinal string, count int) string {
	return fmt.Sprintf("Ch.%s (Freq: %d)", ordinal, count)
}
