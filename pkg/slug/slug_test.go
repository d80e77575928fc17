package slug

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBase(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"arabic and latin", "اختبار Test", "اختبار-test"},
		{"punctuation stripped", "Hello, World!", "hello-world"},
		{"whitespace runs collapse", "a \t\n b", "a-b"},
		{"mixed hyphen and spaces", "a - -  b", "a-b"},
		{"surrounding space trimmed", "   Go Lang   ", "go-lang"},
		{"leading hyphen kept", "-abc", "-abc"},
		{"trailing stripped char leaves hyphen", "abc !", "abc-"},
		{"accents removed after lowercase", "Café", "caf"},
		{"digits kept", "Top 10 Tips", "top-10-tips"},
		{"arabic punctuation inside range kept", "ما هو؟", "ما-هو؟"},
		{"no-break space is whitespace", "a\u00a0b", "a-b"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Base(tt.title))
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate("اختبار Test", 1700000000000)
	b := Generate("اختبار Test", 1700000000000)

	assert.Equal(t, a, b)
	assert.Equal(t, "اختبار-test-1700000000000", a)
}

func TestBase_TruncatesTo200Runes(t *testing.T) {
	title := strings.Repeat("ب", 150) + " " + strings.Repeat("x", 150)

	got := Base(title)

	assert.Equal(t, MaxBaseLength, utf8.RuneCountInString(got))
	assert.True(t, strings.HasPrefix(got, strings.Repeat("ب", 150)+"-"))
}

func TestBase_TruncateOnHyphenBoundary(t *testing.T) {
	title := strings.Repeat("a", 199) + " bcd"

	got := Base(title)

	assert.Equal(t, strings.Repeat("a", 199)+"-", got)
}

func TestGenerate_Properties(t *testing.T) {
	titles := []string{
		"اختبار Test",
		"مقال عن الذكاء الاصطناعي: مقدمة (الجزء 1)",
		strings.Repeat("Long Title With Symbols #$% ", 30),
		"ÀÉÎÕÜ ñ ç",
		"emoji 🚀 title",
		"\u200b zero width",
	}

	for _, title := range titles {
		d := NewDisambiguator()
		suffix := "-" + strconv.FormatInt(d, 10)
		got := Generate(title, d)

		assert.True(t, strings.HasSuffix(got, suffix), title)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxBaseLength+utf8.RuneCountInString(suffix), title)
		for _, r := range got {
			assert.Truef(t, IsValidRune(r), "unexpected rune %q in %q", r, got)
		}
	}
}

func TestNewDisambiguator_StrictlyIncreasing(t *testing.T) {
	prev := NewDisambiguator()
	for i := 0; i < 1000; i++ {
		next := NewDisambiguator()
		assert.Greater(t, next, prev)
		prev = next
	}
}
