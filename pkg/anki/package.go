package anki

import (
	"archive/zip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/yomideck/pkg/db"
)

const (
	collectionEntry = "collection.anki2"
	mediaEntry      = "media"
)

// Note is one note of a deck. Fields follow the model's field order.
type Note struct {
	GUID   string
	Fields []string
	Tags   []string
}

// Deck is a named deck and its notes. Names containing "::" are nested by
// Anki on import.
type Deck struct {
	ID    int64
	Name  string
	Notes []Note
}

// Package is the content of one .apkg file.
type Package struct {
	Model *Model
	Decks []Deck
	// Now stamps note ids and modification times. nil means time.Now.
	Now func() time.Time
	// BatchSize is the number of notes written per transaction.
	BatchSize int
}

// OutputPath returns "<dir>/<title>_Vocab.apkg". Path separators in title are
// replaced so the package always lands in dir.
func OutputPath(dir, title string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(title)
	return filepath.Join(dir, name+"_Vocab.apkg")
}

// WriteToFile builds the collection in a temporary directory and zips it
// to path. path is replaced only once the package is complete.
func (p *Package) WriteToFile(ctx context.Context, path string) error {
	if p.Model == nil {
		return errors.New("anki: package has no model")
	}

	tmpDir, err := os.MkdirTemp("", "yomideck-apkg-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	colPath := filepath.Join(tmpDir, collectionEntry)
	if err := p.writeCollection(ctx, colPath); err != nil {
		return err
	}
	return writeArchive(path, colPath)
}

func (p *Package) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Package) writeCollection(ctx context.Context, colPath string) error {
	conn, err := sql.Open("sqlite3", colPath)
	if err != nil {
		return fmt.Errorf("open collection: %w", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	if err := db.InitDB(conn); err != nil {
		return fmt.Errorf("init collection: %w", err)
	}

	now := p.now()
	total := 0
	for _, d := range p.Decks {
		total += len(d.Notes)
	}

	col, err := collection(p.Model, p.Decks, total+1, now)
	if err != nil {
		return err
	}
	if err := db.InsertCollection(conn, col); err != nil {
		return err
	}

	batch := p.BatchSize
	if batch <= 0 {
		batch = 100
	}
	bw := db.NewBatchWriter(conn, batch, 0)

	// Ids are millisecond stamps counting up from now, as Anki assigns them.
	nextID := now.UnixMilli()
	id := func() int64 {
		nextID++
		return nextID
	}

	due := int64(0)
	for _, d := range p.Decks {
		for _, n := range d.Notes {
			if err := ctx.Err(); err != nil {
				_ = bw.Close()
				return err
			}
			if len(n.Fields) != len(p.Model.Fields) {
				_ = bw.Close()
				return fmt.Errorf("anki: note %q has %d fields, model %q has %d",
					n.GUID, len(n.Fields), p.Model.Name, len(p.Model.Fields))
			}

			due++
			note := db.Note{
				ID:        id(),
				GUID:      n.GUID,
				ModelID:   p.Model.ID,
				Modified:  now.Unix(),
				Tags:      joinTags(n.Tags),
				Fields:    n.Fields,
				SortField: n.Fields[p.Model.SortField],
			}
			cards := make([]db.Card, len(p.Model.Templates))
			for ord := range cards {
				cards[ord] = db.Card{ID: id(), NoteID: note.ID, DeckID: d.ID, Ordinal: ord, Modified: now.Unix(), Due: due}
			}

			if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
				if err := db.InsertNote(tx, note); err != nil {
					return err
				}
				for _, c := range cards {
					if err := db.InsertCard(tx, c); err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				_ = bw.Close()
				return err
			}
		}
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	return nil
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

func writeArchive(path, colPath string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".apkg-*")
	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	if err := addFile(zw, collectionEntry, colPath); err != nil {
		return err
	}
	w, err := zw.Create(mediaEntry)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "{}"); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish package: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move package into place: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	return nil
}
