// Package slug builds URL slugs for Arabic/English titles.
package slug

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxBaseLength is the rune limit of the title part of a slug
const MaxBaseLength = 200

var lastDisambiguator atomic.Int64

// Generate returns the slug for title with the given disambiguator appended.
// The result is deterministic for identical inputs.
func Generate(title string, disambiguator int64) string {
	return Base(title) + "-" + strconv.FormatInt(disambiguator, 10)
}

// Base returns the normalized title part of a slug, without disambiguator.
//
// Steps: lowercase, trim, drop everything except Arabic (U+0600-U+06FF),
// a-z, 0-9, whitespace and '-', turn each run of whitespace/hyphens into
// a single '-', cut to MaxBaseLength runes.
func Base(title string) string {
	lower := cases.Lower(language.Und).String(title)
	lower = strings.TrimFunc(lower, isSpace)

	var b strings.Builder
	b.Grow(len(lower))

	n := 0
	pending := false
	for _, r := range lower {
		if n >= MaxBaseLength {
			break
		}
		switch {
		case isSpace(r) || r == '-':
			pending = true
		case isKept(r):
			if pending {
				b.WriteByte('-')
				n++
				pending = false
				if n >= MaxBaseLength {
					return b.String()
				}
			}
			b.WriteRune(r)
			n++
		}
	}
	if pending && n < MaxBaseLength {
		b.WriteByte('-')
	}
	return b.String()
}

// NewDisambiguator returns the current epoch milliseconds, bumped so that
// no two calls in this process return the same value.
func NewDisambiguator() int64 {
	for {
		now := time.Now().UnixMilli()
		last := lastDisambiguator.Load()
		if now <= last {
			now = last + 1
		}
		if lastDisambiguator.CompareAndSwap(last, now) {
			return now
		}
	}
}

// IsValidRune reports whether r may appear in a generated slug
func IsValidRune(r rune) bool {
	return isKept(r) || r == '-'
}

func isKept(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9')
}

// isSpace matches the ECMAScript whitespace and line terminator set
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}
