package codegen

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// translitTable maps Cyrillic letters to Latin sequences. Display names in
// the authoring UI are frequently Russian; generated identifiers must stay
// within the target language's identifier alphabet.
var translitTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// sanitizeIdentifier converts an arbitrary display name into a valid C++
// identifier: transliterate Cyrillic, strip combining marks left over from
// decomposition, collapse everything else to underscores, guard a leading
// digit, lowercase the result.
func sanitizeIdentifier(name string) string {
	decomposed := norm.NFD.String(strings.TrimSpace(name))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark from NFD decomposition
		}
		lower := unicode.ToLower(r)
		if lat, ok := translitTable[lower]; ok {
			b.WriteString(lat)
			lastUnderscore = false
			continue
		}
		switch {
		case lower >= 'a' && lower <= 'z', lower >= '0' && lower <= '9':
			b.WriteRune(lower)
			lastUnderscore = false
		case lower == '_':
			b.WriteRune('_')
			lastUnderscore = true
		case lower == ' ' || lower == '-' || lower == '.':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	id := strings.Trim(b.String(), "_")
	if id == "" {
		return "var"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "v_" + id
	}
	return id
}
