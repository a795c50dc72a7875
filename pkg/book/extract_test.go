package book

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLExtractor(t *testing.T) {
	markup := []byte(`
	<html>
		<head><title>第一章</title><style>p { color: red; }</style></head>
		<body>
			<h1>Chapter 1</h1>
			<p>This is the <b>first</b> paragraph.</p>
			<script>var x = "ignored";</script>
			<p><ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>を読む。</p>
		</body>
	</html>`)

	text, err := HTMLExtractor{}.Text(markup)
	require.NoError(t, err)

	assert.Equal(t, "第一章 Chapter 1 This is the first paragraph. 漢字を読む。", NormalizeText(text))
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  a \n\t b  ", "a b"},
		{"全角　スペース", "全角 スペース"},
		{"ｶﾀｶﾅ", "ｶﾀｶﾅ"},
		{"㍻", "㍻"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in), tt.in)
	}
}

func TestNFKCExtractor(t *testing.T) {
	text, err := NFKCExtractor{HTMLExtractor{}}.Text([]byte("<p>ｶﾀｶﾅ ㍻</p>"))
	require.NoError(t, err)
	assert.Equal(t, "カタカナ 平成", NormalizeText(text))

	_, err = NFKCExtractor{failingExtractor{}}.Text(nil)
	assert.Error(t, err)
}

type failingExtractor struct{}

func (failingExtractor) Text([]byte) (string, error) { return "", errors.New("bad markup") }

func TestNewExtractor(t *testing.T) {
	e, err := NewExtractor("html")
	require.NoError(t, err)
	assert.IsType(t, HTMLExtractor{}, e)

	e, err = NewExtractor("readability")
	require.NoError(t, err)
	assert.IsType(t, ReadabilityExtractor{}, e)

	_, err = NewExtractor("pdf")
	assert.Error(t, err)
}

func TestReadabilityExtractorDropsRuby(t *testing.T) {
	body := "<html><head><title>t</title></head><body><article>"
	for i := 0; i < 20; i++ {
		body += "<p><ruby>漢字<rt>かんじ</rt></ruby>を読むのは楽しいことです。毎日少しずつ練習しています。</p>"
	}
	body += "</article></body></html>"

	text, err := ReadabilityExtractor{}.Text([]byte(body))
	require.NoError(t, err)
	assert.Contains(t, text, "漢字を読む")
	assert.NotContains(t, text, "かんじ")
}

func TestSanitizeRuby(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple Ruby",
			input:    "<ruby>漢字<rt>かんじ</rt></ruby>",
			expected: "<ruby>漢字</ruby>",
		},
		{
			name:     "Ruby with RP",
			input:    "<ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>",
			expected: "<ruby>漢字</ruby>",
		},
		{
			name:     "Multiple Ruby",
			input:    "<ruby>私<rt>わたし</rt></ruby>は<ruby>猫<rt>ねこ</rt></ruby>である",
			expected: "<ruby>私</ruby>は<ruby>猫</ruby>である",
		},
		{
			name:     "Attributes in tags",
			input:    "<ruby class='test'>漢字<rt class='reading'>かんじ</rt></ruby>",
			expected: "<ruby class='test'>漢字</ruby>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeRuby([]byte(tt.input))
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}
