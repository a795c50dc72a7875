package dictionary

import (
	"html"
	"strings"
)

// Unknown fills reading and meaning when the entry has nothing better.
const Unknown = "Unknown"

// Resolution is the presentable part of a dictionary entry.
type Resolution struct {
	Reading string
	Meaning string
	// Example is an HTML snippet (Japanese line, English line below), or "".
	Example string
}

// Resolve looks word up and describes its first entry. ok is false when the
// index has no entry for the word.
func (ix *Index) Resolve(word string) (Resolution, bool) {
	entries := ix.Lookup(word)
	if len(entries) == 0 {
		return Resolution{}, false
	}
	return Describe(entries[0]), true
}

// Describe extracts reading, meaning and the first usable example of an entry.
func Describe(entry JMdictEntry) Resolution {
	res := Resolution{Reading: Unknown, Meaning: Unknown}
	switch {
	case len(entry.Kana) > 0:
		res.Reading = entry.Kana[0].Text
	case len(entry.Kanji) > 0:
		res.Reading = entry.Kanji[0].Text
	}

	if len(entry.Sense) == 0 {
		return res
	}

	glosses := make([]string, 0, len(entry.Sense[0].Gloss))
	for _, g := range entry.Sense[0].Gloss {
		glosses = append(glosses, g.Text)
	}
	res.Meaning = strings.Join(glosses, "; ")

	for _, sense := range entry.Sense {
		for _, ex := range sense.Examples {
			jp, en := sentence(ex, "jpn"), sentence(ex, "eng")
			if jp != "" && en != "" {
				res.Example = formatExample(jp, en)
				return res
			}
		}
	}
	return res
}

func sentence(ex JMdictExample, lang string) string {
	for _, s := range ex.Sentences {
		if s.Language() == lang {
			return s.Text
		}
	}
	return ""
}

func formatExample(jp, en string) string {
	return html.EscapeString(jp) + "<br><small style='color: #666;'>" + html.EscapeString(en) + "</small>"
}
