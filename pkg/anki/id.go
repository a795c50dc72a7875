// Package anki writes Anki .apkg packages: a note model, decks of notes and
// the zipped SQLite collection that holds them.
package anki

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// DefaultDeckID is the id of the Default deck every collection carries.
const DefaultDeckID int64 = 1

// noteNamespace scopes note GUIDs to this tool.
var noteNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/japaniel/yomideck/notes"))

// StableID derives a deck or model id from key: FNV-1a 64 folded to 31
// bits. The result is never 0 or DefaultDeckID.
func StableID(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := h.Sum64()
	id := int64((sum ^ (sum >> 31)) & 0x7fffffff)
	if id <= DefaultDeckID {
		id += 2
	}
	return id
}

// NoteGUID returns the GUID of the note for word. The same word always gets
// the same GUID, so importing a regenerated package updates notes in place.
func NoteGUID(word string) string {
	return uuid.NewSHA1(noteNamespace, []byte(word)).String()
}
