package db

import (
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// FieldSeparator joins note fields in notes.flds.
const FieldSeparator = "\x1f"

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Checksum returns the notes.csum value for a sort field: the first 8 hex
// digits of its SHA-1, as an integer.
func Checksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

func exec(db DBExecutor, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	_, err = db.Exec(query, args...)
	return err
}

// InsertCollection writes the col row.
func InsertCollection(db DBExecutor, c Collection) error {
	q := sq.Insert("col").
		Columns("id", "crt", "mod", "scm", "ver", "dty", "usn", "ls", "conf", "models", "decks", "dconf", "tags").
		Values(c.ID, c.Created, c.Modified, c.Schema, SchemaVersion, 0, 0, 0, c.Conf, c.Models, c.Decks, c.DConf, c.Tags)
	if err := exec(db, q); err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

// InsertNote writes a note. Fields must be non-empty; the checksum is derived
// from SortField when Checksum is zero.
func InsertNote(db DBExecutor, n Note) error {
	if len(n.Fields) == 0 {
		return fmt.Errorf("note %d has no fields", n.ID)
	}
	if strings.TrimSpace(n.GUID) == "" {
		return fmt.Errorf("note %d has no guid", n.ID)
	}
	csum := n.Checksum
	if csum == 0 {
		csum = Checksum(n.SortField)
	}
	q := sq.Insert("notes").
		Columns("id", "guid", "mid", "mod", "usn", "tags", "flds", "sfld", "csum", "flags", "data").
		Values(n.ID, n.GUID, n.ModelID, n.Modified, -1, n.Tags, strings.Join(n.Fields, FieldSeparator), n.SortField, csum, 0, "")
	if err := exec(db, q); err != nil {
		return fmt.Errorf("insert note %q: %w", n.SortField, err)
	}
	return nil
}

// InsertCard writes a new, unscheduled card.
func InsertCard(db DBExecutor, c Card) error {
	q := sq.Insert("cards").
		Columns("id", "nid", "did", "ord", "mod", "usn", "type", "queue", "due",
			"ivl", "factor", "reps", "lapses", "left", "odue", "odid", "flags", "data").
		Values(c.ID, c.NoteID, c.DeckID, c.Ordinal, c.Modified, -1, 0, 0, c.Due,
			0, 0, 0, 0, 0, 0, 0, 0, "")
	if err := exec(db, q); err != nil {
		return fmt.Errorf("insert card for note %d: %w", c.NoteID, err)
	}
	return nil
}

// GetCollection reads the col row.
func GetCollection(db DBExecutor) (Collection, error) {
	query, args, err := sq.Select("id", "crt", "mod", "scm", "conf", "models", "decks", "dconf", "tags").
		From("col").Limit(1).ToSql()
	if err != nil {
		return Collection{}, err
	}
	var c Collection
	err = db.QueryRow(query, args...).Scan(&c.ID, &c.Created, &c.Modified, &c.Schema, &c.Conf, &c.Models, &c.Decks, &c.DConf, &c.Tags)
	if err != nil {
		return Collection{}, fmt.Errorf("read collection: %w", err)
	}
	return c, nil
}

// ListNotes returns all notes ordered by id.
func ListNotes(db DBExecutor) ([]Note, error) {
	query, args, err := sq.Select("id", "guid", "mid", "mod", "tags", "flds", "sfld", "csum").
		From("notes").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		var flds string
		if err := rows.Scan(&n.ID, &n.GUID, &n.ModelID, &n.Modified, &n.Tags, &flds, &n.SortField, &n.Checksum); err != nil {
			return nil, err
		}
		n.Fields = strings.Split(flds, FieldSeparator)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCards returns the cards of one deck, or of every deck when deckID is 0,
// ordered by due position.
func ListCards(db DBExecutor, deckID int64) ([]Card, error) {
	b := sq.Select("id", "nid", "did", "ord", "mod", "due").From("cards").OrderBy("did", "due")
	if deckID != 0 {
		b = b.Where(sq.Eq{"did": deckID})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.NoteID, &c.DeckID, &c.Ordinal, &c.Modified, &c.Due); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
