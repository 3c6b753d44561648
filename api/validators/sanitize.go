package validators

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

// SearchTerm reads a free-text query parameter: whitespace runs collapse to one space and the
// result is cut to maxRunes without splitting a character.
func SearchTerm(r *http.Request, key string, maxRunes int) string {
	term := strings.Join(strings.Fields(r.URL.Query().Get(key)), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(term) <= maxRunes {
		return term
	}
	runes := []rune(term)
	return strings.TrimSpace(string(runes[:maxRunes]))
}
