// Package pipeline turns assembled chapters into per-chapter vocabulary
// decks. Chapters are tokenized in parallel; ranking, deduplication and
// dictionary resolution run in document order.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/japaniel/yomideck/pkg/analyzer"
	"github.com/japaniel/yomideck/pkg/anki"
	"github.com/japaniel/yomideck/pkg/book"
	"github.com/japaniel/yomideck/pkg/dictionary"
	"github.com/japaniel/yomideck/pkg/logger"
	"github.com/japaniel/yomideck/pkg/vocab"
)

var (
	// ErrNoChapters is returned when the document produced no chapters.
	ErrNoChapters = errors.New("pipeline: no chapters")
	// ErrNoDecks is returned when every chapter ended up without notes.
	ErrNoDecks = errors.New("pipeline: no cards generated")
)

// Pipeline holds the run settings. The zero value is not usable; set at
// least Tagger.
type Pipeline struct {
	Tagger analyzer.Tagger
	// Dict may be nil, in which case no word resolves.
	Dict             *dictionary.Index
	IncludeParticles bool
	Workers          int
	OrdinalWidth     int
	// Logger is used for per-chapter messages. nil means no logging.
	Logger *logger.Logger
	// OnProgress is called after each chapter is processed, in document order.
	OnProgress func(done, total int)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// New returns a pipeline with the default worker count and ordinal width.
func New(tagger analyzer.Tagger, dict *dictionary.Index) *Pipeline {
	return &Pipeline{
		Tagger:       tagger,
		Dict:         dict,
		Workers:      4,
		OrdinalWidth: DefaultOrdinalWidth,
	}
}

// OmittedChapter is a chapter that produced no new resolvable words.
type OmittedChapter struct {
	Ordinal string `yaml:"ordinal"`
	Title   string `yaml:"title"`
	Name    string `yaml:"deck"`
}

// Result is the outcome of a run.
type Result struct {
	BookTitle string
	Decks     []ChapterDeck
	Omitted   []OmittedChapter
	// LedgerSize is the number of distinct words claimed, resolved or not.
	LedgerSize int
	Unresolved int
}

// Notes returns the total number of notes over all decks.
func (r *Result) Notes() int {
	n := 0
	for _, d := range r.Decks {
		n += len(d.Notes)
	}
	return n
}

// AnkiDecks converts the decks for the package writer.
func (r *Result) AnkiDecks() []anki.Deck {
	out := make([]anki.Deck, 0, len(r.Decks))
	for _, d := range r.Decks {
		out = append(out, d.AnkiDeck())
	}
	return out
}

// tokenized is the per-chapter output of a worker.
type tokenized struct {
	index int
	words []string
	err   error
}

// Run builds the decks of bookTitle from chapters. The result is identical
// for any worker count. When no chapter yields a note, Run returns the
// partial result together with ErrNoDecks.
func (p *Pipeline) Run(ctx context.Context, bookTitle string, chapters []book.Chapter) (*Result, error) {
	if len(chapters) == 0 {
		return nil, ErrNoChapters
	}
	if p.Tagger == nil {
		return nil, errors.New("pipeline: no tagger")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := p.Logger
	if log == nil {
		log = logger.Nop()
	}
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	var wp WorkerPoolInterface
	if p.PoolFactory != nil {
		wp = p.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}
	wp.Start(ctx)
	defer func() {
		// Cancel first so workers blocked on resultCh can exit.
		cancel()
		wp.Close()
	}()

	resultCh := make(chan tokenized, workers*2)
	submitErrCh := make(chan error, 1)

	go func() {
		defer close(submitErrCh)
		for i := range chapters {
			idx := i
			job := func(ctx context.Context) error {
				res := p.tokenize(idx, chapters[idx])
				select {
				case resultCh <- res:
				case <-ctx.Done():
				}
				return nil
			}
			if err := wp.SubmitCtx(ctx, job); err != nil {
				submitErrCh <- err
				return
			}
		}
	}()

	c := &consumer{
		p:         p,
		log:       log,
		ledger:    vocab.NewLedger(),
		result:    &Result{BookTitle: bookTitle},
		bookTitle: bookTitle,
		width:     p.OrdinalWidth,
	}

	// Reorder buffer: workers finish out of order, chapters are consumed by index.
	buffer := make(map[int]tokenized)
	next := 0
	for next < len(chapters) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case err, ok := <-submitErrCh:
			if !ok {
				submitErrCh = nil
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("submit chapter: %w", err)
		case res := <-resultCh:
			if res.err != nil {
				return nil, res.err
			}
			buffer[res.index] = res

			for {
				item, ok := buffer[next]
				if !ok {
					break
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				delete(buffer, next)
				c.consume(next, chapters[next], item.words)
				next++
				if p.OnProgress != nil {
					p.OnProgress(next, len(chapters))
				}
			}
		}
	}

	c.result.LedgerSize = c.ledger.Len()
	log.Info("chapters processed",
		"book", bookTitle,
		"chapters", len(chapters),
		"decks", len(c.result.Decks),
		"notes", c.result.Notes(),
		"ledger", c.result.LedgerSize,
		"unresolved", c.result.Unresolved)

	if len(c.result.Decks) == 0 {
		return c.result, ErrNoDecks
	}
	return c.result, nil
}

func (p *Pipeline) tokenize(index int, ch book.Chapter) tokenized {
	tokens, err := p.Tagger.Analyze(ch.Text)
	if err != nil {
		return tokenized{index: index, err: fmt.Errorf("tokenize chapter %d %q: %w", index+1, ch.Title, err)}
	}
	return tokenized{index: index, words: analyzer.Candidates(tokens, p.IncludeParticles)}
}

// consumer owns the ledger; it only runs on the Run goroutine.
type consumer struct {
	p         *Pipeline
	log       *logger.Logger
	ledger    *vocab.Ledger
	result    *Result
	bookTitle string
	width     int
}

func (c *consumer) consume(index int, ch book.Chapter, words []string) {
	ordinal := Ordinal(index, c.width)
	name := DeckName(c.bookTitle, ordinal, ch.Title)
	deck := ChapterDeck{
		Ordinal: ordinal,
		Title:   ch.Title,
		Name:    name,
		ID:      anki.StableID(name),
	}

	for _, r := range vocab.Rank(words) {
		// Claimed before lookup: an unresolved word is not retried later.
		if !c.ledger.Claim(r.Word) {
			continue
		}
		res, ok := c.p.Dict.Resolve(r.Word)
		if !ok {
			c.result.Unresolved++
			continue
		}
		deck.Notes = append(deck.Notes, NoteRecord{
			Word:    r.Word,
			Reading: res.Reading,
			Meaning: res.Meaning,
			Source:  SourceLabel(ordinal, r.Count),
			Example: res.Example,
		})
	}

	if len(deck.Notes) == 0 {
		c.result.Omitted = append(c.result.Omitted, OmittedChapter{Ordinal: ordinal, Title: ch.Title, Name: name})
		c.log.Debug("chapter has no new words", "deck", name)
		return
	}
	c.result.Decks = append(c.result.Decks, deck)
	c.log.Debug("chapter deck built", "deck", name, "notes", len(deck.Notes), "candidates", len(words))
}
