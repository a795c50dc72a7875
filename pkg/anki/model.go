package anki

// Field is a named note field.
type Field struct {
	Name string
}

// Template is a card template. Each template produces one card per note.
type Template struct {
	Name string
	QFmt string
	AFmt string
}

// Model is an Anki note type.
type Model struct {
	ID        int64
	Name      string
	Fields    []Field
	Templates []Template
	CSS       string
	// SortField is the index of the field shown in the browser sort column.
	SortField int
}

// Vocabulary note fields, in model order.
const (
	FieldWord = iota
	FieldReading
	FieldMeaning
	FieldFrequency
	FieldExample
)

const vocabCSS = `.card { font-family: "Hiragino Kaku Gothic Pro", "Meiryo", sans-serif; font-size: 22px; text-align: center; color: #333; background-color: white; }
.nightMode .card { background-color: #2f2f31; color: #f0f0f0; }
.jp-word { font-size: 56px; font-weight: bold; margin-bottom: 10px; line-height: 1.2; }
.jp-reading { font-size: 28px; color: #555; }
.separator { border: 0; border-bottom: 2px solid #ddd; margin: 20px auto; width: 80%; }
.section-label { font-size: 14px; color: #888; text-transform: uppercase; letter-spacing: 1px; margin-top: 15px; margin-bottom: 5px; text-align: left; }
.meaning-box { text-align: left; font-size: 22px; line-height: 1.5; padding: 0 15px; }
.example-box { text-align: left; margin-top: 15px; padding: 15px; background-color: rgba(0,0,0,0.05); border-radius: 8px; font-size: 18px; line-height: 1.6; }
.freq-tag { font-size: 12px; color: #999; margin-top: 30px; font-family: monospace; }
`

const recognitionFront = `<div class="jp-word">{{Word}}</div>`

const recognitionBack = `<div class="jp-word">{{Word}}</div>
<div class="jp-reading">{{Reading}}</div>
<hr class="separator">
<div class="section-label">Meaning</div>
<div class="meaning-box">{{Meaning}}</div>
{{#Example}}
<div class="example-box"><div class="section-label" style="margin-top:0;">Context</div>{{Example}}</div>
{{/Example}}
<div class="freq-tag">Source: {{Frequency}}</div>
`

// VocabModel returns the vocabulary note type: Word, Reading, Meaning,
// Frequency and Example fields with a single recognition card. Its id is
// StableID(key).
func VocabModel(key, name string) *Model {
	return &Model{
		ID:   StableID(key),
		Name: name,
		Fields: []Field{
			{Name: "Word"},
			{Name: "Reading"},
			{Name: "Meaning"},
			{Name: "Frequency"},
			{Name: "Example"},
		},
		Templates: []Template{{
			Name: "Recognition",
			QFmt: recognitionFront,
			AFmt: recognitionBack,
		}},
		CSS:       vocabCSS,
		SortField: FieldWord,
	}
}
