package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// datetimeLayouts are the accepted timestamp formats, in match order.
// Values are normalized to canonicalDatetime before insertion.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

const canonicalDatetime = "2006-01-02 15:04:05"

// inferColumnTypes inspects every non-empty value of each column and picks
// the narrowest type all of them satisfy.
func inferColumnTypes(headers []string, records [][]string) []Column {
	columns := make([]Column, len(headers))

	for i, h := range headers {
		columns[i] = Column{Name: h, Type: inferType(records, i)}
	}

	return columns
}

func inferType(records [][]string, col int) ColumnType {
	sawValue := false
	isInt, isReal, isBool, isDatetime := true, true, true, true

	for _, rec := range records {
		if col >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[col])
		if v == "" {
			continue
		}
		sawValue = true

		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isReal {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isReal = false
			}
		}
		if isBool && !isBoolLiteral(v) {
			isBool = false
		}
		if isDatetime && parseDatetime(v) == nil {
			isDatetime = false
		}

		if !isInt && !isReal && !isBool && !isDatetime {
			return TypeText
		}
	}

	if !sawValue {
		return TypeText
	}

	switch {
	case isInt:
		return TypeInteger
	case isReal:
		return TypeReal
	case isBool:
		return TypeBoolean
	case isDatetime:
		return TypeDatetime
	default:
		return TypeText
	}
}

func isBoolLiteral(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	}
	return false
}

// parseDatetime returns the parsed time, or nil if v matches no layout
func parseDatetime(v string) *time.Time {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// describeColumns builds a fallback schema description when no sidecar
// schema file is configured.
func describeColumns(tableName string, columns []Column, rowCount int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Table '%s' with %d rows and the following columns:\n", tableName, rowCount))
	for _, c := range columns {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", c.Name, strings.ToLower(string(c.Type))))
	}
	return sb.String()
}
