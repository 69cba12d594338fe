// Package sanitize validates and normalizes free-form text before it is sent
// to a generative model.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
)

const (
	MinLength = 2
	MaxLength = 500

	// DangerousChars are rejected by Validate and removed by Normalize.
	DangerousChars = "<>'\"`;\\"
)

const (
	fullwidthFirst  = 0xFF01
	fullwidthLast   = 0xFF5E
	fullwidthOffset = 0xFEE0
)

// emoji covers pictographic blocks plus the joiners, variation selectors
// and tag characters that glue emoji sequences together.
var emoji = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1},
		{Lo: 0x20e3, Hi: 0x20e3, Stride: 1},
		{Lo: 0x231a, Hi: 0x231b, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23fa, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
		{Lo: 0x2b00, Hi: 0x2bff, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3299, Stride: 2},
		{Lo: 0xfe00, Hi: 0xfe0f, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1},
		{Lo: 0xe0020, Hi: 0xe007f, Stride: 1},
	},
}

func IsEmoji(r rune) bool {
	return unicode.Is(emoji, r)
}

func isDangerous(r rune) bool {
	return strings.ContainsRune(DangerousChars, r)
}

func toHalfwidth(r rune) rune {
	if r >= fullwidthFirst && r <= fullwidthLast {
		return r - fullwidthOffset
	}
	return r
}

// Validate reports an *ai.InputError when text is too short, too long,
// contains a dangerous character or consists of emoji only.
func Validate(text string) error {
	if utf8.RuneCountInString(text) > MaxLength {
		return ai.NewInputError("text must be at most %d characters", MaxLength)
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinLength {
		return ai.NewInputError("text must be at least %d characters", MinLength)
	}
	if strings.ContainsAny(text, DangerousChars) {
		return ai.NewInputError("text contains characters that are not allowed")
	}

	withoutEmoji := strings.Map(func(r rune) rune {
		if IsEmoji(r) {
			return -1
		}
		return r
	}, text)
	if strings.TrimSpace(withoutEmoji) == "" {
		return ai.NewInputError("text must contain more than emoji")
	}
	return nil
}

// Normalize converts fullwidth ASCII variants to standard width, drops
// dangerous characters and emoji, and collapses whitespace runs to a single
// space. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	// Fullwidth conversion runs first so that e.g. U+FF1C becomes '<' and
	// is then removed with the rest of the dangerous set.
	t := transform.Chain(
		runes.Map(toHalfwidth),
		runes.Remove(runes.Predicate(isDangerous)),
		runes.Remove(runes.Predicate(IsEmoji)),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		// Only reachable on invalid UTF-8; fall back to the raw text.
		out = text
	}
	return strings.Join(strings.Fields(out), " ")
}
