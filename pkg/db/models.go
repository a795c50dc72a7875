package db

// Collection is the single row of the col table. The JSON columns are
// stored verbatim.
type Collection struct {
	ID       int64
	Created  int64 // seconds
	Modified int64 // milliseconds
	Schema   int64 // milliseconds
	Conf     string
	Models   string
	Decks    string
	DConf    string
	Tags     string
}

// Note is one row of the notes table.
type Note struct {
	ID        int64
	GUID      string
	ModelID   int64
	Modified  int64 // seconds
	Tags      string
	Fields    []string
	SortField string
	Checksum  int64
}

// Card is one row of the cards table. Only new cards are written, so the
// scheduling columns other than Due stay zero.
type Card struct {
	ID       int64
	NoteID   int64
	DeckID   int64
	Ordinal  int
	Modified int64 // seconds
	Due      int64
}
