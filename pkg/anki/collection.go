package anki

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/japaniel/yomideck/pkg/db"
)

type modelField struct {
	Name   string        `json:"name"`
	Ord    int           `json:"ord"`
	Font   string        `json:"font"`
	Size   int           `json:"size"`
	Media  []interface{} `json:"media"`
	RTL    bool          `json:"rtl"`
	Sticky bool          `json:"sticky"`
}

type modelTemplate struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
	DID   *int64 `json:"did"`
}

type modelJSON struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	USN       int             `json:"usn"`
	SortF     int             `json:"sortf"`
	DID       int64           `json:"did"`
	Tmpls     []modelTemplate `json:"tmpls"`
	Flds      []modelField    `json:"flds"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	LatexSVG  bool            `json:"latexsvg"`
	Req       [][]interface{} `json:"req"`
	Tags      []string        `json:"tags"`
	Vers      []interface{}   `json:"vers"`
}

type deckJSON struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Desc             string `json:"desc"`
	Mod              int64  `json:"mod"`
	USN              int    `json:"usn"`
	Dyn              int    `json:"dyn"`
	Conf             int64  `json:"conf"`
	Collapsed        bool   `json:"collapsed"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	ExtendNew        int    `json:"extendNew"`
	ExtendRev        int    `json:"extendRev"`
	NewToday         [2]int `json:"newToday"`
	RevToday         [2]int `json:"revToday"`
	LrnToday         [2]int `json:"lrnToday"`
	TimeToday        [2]int `json:"timeToday"`
}

const latexPre = `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}
`

const latexPost = `\end{document}`

// defaultDeckConf is the "Default" options group, as a fresh collection has it.
var defaultDeckConf = map[string]interface{}{
	"1": map[string]interface{}{
		"id":       1,
		"name":     "Default",
		"mod":      0,
		"usn":      0,
		"maxTaken": 60,
		"autoplay": true,
		"timer":    0,
		"replayq":  true,
		"dyn":      false,
		"new": map[string]interface{}{
			"bury":          true,
			"delays":        []float64{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"rev": map[string]interface{}{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
		"lapse": map[string]interface{}{
			"delays":      []float64{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
	},
}

func (m *Model) toJSON(deckID int64, mod time.Time) modelJSON {
	out := modelJSON{
		ID:        m.ID,
		Name:      m.Name,
		Mod:       mod.Unix(),
		USN:       -1,
		SortF:     m.SortField,
		DID:       deckID,
		CSS:       m.CSS,
		LatexPre:  latexPre,
		LatexPost: latexPost,
		Tags:      []string{},
		Vers:      []interface{}{},
	}
	for i, f := range m.Fields {
		out.Flds = append(out.Flds, modelField{Name: f.Name, Ord: i, Font: "Arial", Size: 20, Media: []interface{}{}})
	}
	for i, t := range m.Templates {
		out.Tmpls = append(out.Tmpls, modelTemplate{Name: t.Name, Ord: i, QFmt: t.QFmt, AFmt: t.AFmt})
		// A card is generated when the sort field is non-empty.
		out.Req = append(out.Req, []interface{}{i, "any", []int{m.SortField}})
	}
	return out
}

func newDeckJSON(id int64, name string, mod time.Time) deckJSON {
	return deckJSON{
		ID:               id,
		Name:             name,
		Mod:              mod.Unix(),
		USN:              -1,
		Conf:             1,
		BrowserCollapsed: true,
		ExtendNew:        10,
		ExtendRev:        50,
	}
}

// collection builds the col row for a package with the given decks.
func collection(m *Model, decks []Deck, nextPos int, now time.Time) (db.Collection, error) {
	firstDeck := DefaultDeckID
	if len(decks) > 0 {
		firstDeck = decks[0].ID
	}

	models := map[string]modelJSON{
		strconv.FormatInt(m.ID, 10): m.toJSON(firstDeck, now),
	}
	deckMap := map[string]deckJSON{
		strconv.FormatInt(DefaultDeckID, 10): newDeckJSON(DefaultDeckID, "Default", now),
	}
	for _, d := range decks {
		deckMap[strconv.FormatInt(d.ID, 10)] = newDeckJSON(d.ID, d.Name, now)
	}
	conf := map[string]interface{}{
		"activeDecks":   []int64{DefaultDeckID},
		"curDeck":       DefaultDeckID,
		"newSpread":     0,
		"collapseTime":  1200,
		"timeLim":       0,
		"estTimes":      true,
		"dueCounts":     true,
		"curModel":      m.ID,
		"nextPos":       nextPos,
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
	}

	col := db.Collection{
		ID:       1,
		Created:  now.Unix(),
		Modified: now.UnixMilli(),
		Schema:   now.UnixMilli(),
		Tags:     "{}",
	}
	for _, part := range []struct {
		dst *string
		v   interface{}
	}{
		{&col.Conf, conf},
		{&col.Models, models},
		{&col.Decks, deckMap},
		{&col.DConf, defaultDeckConf},
	} {
		b, err := json.Marshal(part.v)
		if err != nil {
			return db.Collection{}, fmt.Errorf("encode collection: %w", err)
		}
		*part.dst = string(b)
	}
	return col, nil
}
