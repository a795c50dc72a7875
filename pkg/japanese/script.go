// Package japanese holds small script helpers shared by the extraction,
// tokenization and dictionary layers.
package japanese

// ContainsJapanese reports whether s has at least one hiragana, katakana,
// CJK unified ideograph or prolonged sound mark (ー).
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if IsJapaneseRune(r) {
			return true
		}
	}
	return false
}

// IsJapaneseRune reports whether r falls in one of the Japanese blocks used
// for detection.
func IsJapaneseRune(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana, includes ー (U+30FC)
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	}
	return r == 'ー'
}
