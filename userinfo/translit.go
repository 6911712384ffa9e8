package userinfo

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folds maps letters that survive mark stripping to their conventional ASCII
// spelling, e.g. ß -> ss, ø -> o.
var folds = map[rune]string{
	'ß': "ss",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O",
	'đ': "d", 'Đ': "D",
	'ð': "d", 'Ð': "D",
	'þ': "th", 'Þ': "Th",
	'ł': "l", 'Ł': "L",
	'ħ': "h", 'Ħ': "H",
	'ŧ': "t", 'Ŧ': "T",
	'ŋ': "n", 'Ŋ': "N",
	'ı': "i",
	'ſ': "s",
}

// stripMarks decomposes and removes combining marks, so "jürgen" becomes
// "jurgen" before any further folding.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Transliterate converts s to ASCII by best effort. Diacritics collapse to
// their base letter, known ligatures and special letters fold to their
// conventional spelling, and anything without a reasonable ASCII equivalent
// is dropped.
func Transliterate(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if rep, ok := folds[r]; ok {
			b.WriteString(rep)
		}
	}
	return b.String()
}
