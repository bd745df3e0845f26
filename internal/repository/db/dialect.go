package db

import (
	"strconv"
	"strings"
)

// Dialect hides SQL differences between drivers / Masque les différences SQL entre drivers
type Dialect interface {
	// Type returns the database type / Retourne le type de BD
	Type() DatabaseType

	// Rebind rewrites '?' placeholders for the driver / Réécrit les '?' pour le driver
	Rebind(query string) string

	// SupportsReturning reports INSERT ... RETURNING support / Indique le support de RETURNING
	SupportsReturning() bool

	// TranslateError maps driver errors to the sentinels above / Traduit les erreurs du driver
	TranslateError(err error) error
}

// RebindDollar rewrites '?' to '$1', '$2', ... outside string literals.
// Réécrit '?' en '$1', '$2', ... hors des littéraux.
func RebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// LikeEscape is the escape character used by ContainsPattern / Caractère d'échappement LIKE
const LikeEscape = '!'

// ContainsPattern builds a lower-cased LIKE pattern matching s anywhere, with wildcards escaped.
// Construit un motif LIKE en minuscules, jokers échappés.
func ContainsPattern(s string) string {
	var b strings.Builder
	b.WriteByte('%')
	for _, r := range strings.ToLower(s) {
		if r == '%' || r == '_' || r == LikeEscape {
			b.WriteRune(LikeEscape)
		}
		b.WriteRune(r)
	}
	b.WriteByte('%')
	return b.String()
}

// ContainsAny builds an OR-ed case-insensitive substring filter over columns.
// Construit un filtre OR insensible à la casse sur les colonnes.
func ContainsAny(columns []string, s string) (string, []any) {
	if len(columns) == 0 {
		return "", nil
	}

	pattern := ContainsPattern(s)
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, "LOWER("+col+") LIKE ? ESCAPE '"+string(LikeEscape)+"'")
		args = append(args, pattern)
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}
