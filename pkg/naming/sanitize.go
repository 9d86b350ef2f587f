// Package naming builds sequence names for output formats: it sanitizes
// free-text field values, assembles names from record fields, and makes them
// unique, optionally within a length budget.
package naming

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// translit maps extended-Latin characters to ASCII replacements.
var translit = map[rune]string{
	'ƒ': "f", 'Š': "S", 'Œ': "OE", 'Ž': "Z", 'š': "s", 'œ': "oe", 'ž': "z", 'Ÿ': "Y",
	'¡': "i", '¢': "c", 'ª': "a", '²': "2", '³': "3", 'µ': "u", '¹': "1", 'º': "o",
	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Ä': "Ae", 'Å': "A", 'Æ': "Ae", 'Ç': "C",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E", 'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I",
	'Ð': "D", 'Ñ': "N", 'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ö': "Oe", '×': "x",
	'Ø': "O", 'Ù': "U", 'Ú': "U", 'Û': "U", 'Ü': "Ue", 'Ý': "Y", 'ß': "ss",
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "ae", 'å': "a", 'æ': "a", 'ç': "c",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ð': "d", 'ñ': "n", 'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "oe",
	'ù': "ue", 'ú': "ue", 'û': "ue", 'ü': "ue", 'ý': "y", 'ÿ': "y",
}

// Sanitize turns s into an identifier made of ASCII letters, digits and
// single underscores.
//
// The input is NFKC-normalized, extended-Latin characters are transliterated,
// and every run of other characters becomes one "_". Leading and trailing
// underscores are dropped.
func Sanitize(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	emit := func(r rune) {
		if isAlnum(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			return
		}
		pending = true
	}

	for _, r := range s {
		if repl, ok := translit[r]; ok {
			for _, rr := range repl {
				emit(rr)
			}
			continue
		}
		emit(r)
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
