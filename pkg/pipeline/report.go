package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/yomideck/pkg/book"
)

// Report summarizes a run for humans and scripts.
type Report struct {
	Book       string           `yaml:"book"`
	Output     string           `yaml:"output,omitempty"`
	Chapters   int              `yaml:"chapters"`
	Notes      int              `yaml:"notes"`
	LedgerSize int              `yaml:"ledger_size"`
	Unresolved int              `yaml:"unresolved"`
	Decks      []ReportDeck     `yaml:"decks"`
	Omitted    []OmittedChapter `yaml:"omitted,omitempty"`
	Skipped    []book.Skipped   `yaml:"skipped,omitempty"`
}

// ReportDeck is one written deck.
type ReportDeck struct {
	Name  string `yaml:"name"`
	ID    int64  `yaml:"id"`
	Notes int    `yaml:"notes"`
}

// NewReport collects the report of a run over chapters chapters.
func NewReport(res *Result, chapters int, skipped []book.Skipped, output string) Report {
	r := Report{
		Output:   output,
		Chapters: chapters,
		Skipped:  skipped,
	}
	if res == nil {
		return r
	}
	r.Book = res.BookTitle
	r.Notes = res.Notes()
	r.LedgerSize = res.LedgerSize
	r.Unresolved = res.Unresolved
	r.Omitted = res.Omitted
	for _, d := range res.Decks {
		r.Decks = append(r.Decks, ReportDeck{Name: d.Name, ID: d.ID, Notes: len(d.Notes)})
	}
	return r
}

// WriteReport writes r as YAML to path.
func WriteReport(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		f.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
