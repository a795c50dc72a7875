package japanese

import "testing"

func TestContainsJapanese(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"hello world", false},
		{"12345 !?", false},
		{"は", true},
		{"カタカナ", true},
		{"漢字", true},
		{"ー", true},
		{"Chapter 1 第一章", true},
		{"、。「」", false}, // CJK punctuation is outside the detection blocks
	}
	for _, tt := range tests {
		if got := ContainsJapanese(tt.in); got != tt.want {
			t.Errorf("ContainsJapanese(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
