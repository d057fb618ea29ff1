package insight

import (
	"strings"
	"unicode"
)

// RejectedQueryMessage is the fixed error recorded when a query fails the
// guard. Part of the envelope contract.
const RejectedQueryMessage = "Only SELECT queries are allowed."

// Permits reports whether queryText is a read-only retrieval statement.
// The check is a syntactic allow-list: after trimming leading whitespace
// the text must start with SELECT, case-insensitively. It is not a parser
// and does not detect mutations disguised inside a SELECT body; that is an
// accepted limitation, matching the guarantees the rest of the system
// relies on (single registered relation, no attached databases).
func Permits(queryText string) bool {
	trimmed := strings.TrimLeftFunc(queryText, unicode.IsSpace)
	return len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "select")
}
