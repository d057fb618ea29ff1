package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"insightql/insight"
)

// Renderer writes answers and task results to the terminal
type Renderer struct {
	term *glamour.TermRenderer
}

func NewRenderer() *Renderer {
	term, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	return &Renderer{term: term}
}

// Answer renders the narrated answer as markdown. Falls back to the raw
// text if the terminal renderer is unavailable.
func (r *Renderer) Answer(answer string) string {
	if r.term == nil {
		return answer
	}
	out, err := r.term.Render(answer)
	if err != nil {
		return answer
	}
	return out
}

// TaskTable formats one task's rows as a plain text table. Failed tasks
// render their error message instead.
func (r *Renderer) TaskTable(task insight.TaskResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("── %s ──\n", task.TaskName))
	if task.TaskDescription != "" {
		sb.WriteString(task.TaskDescription + "\n")
	}

	if len(task.Rows) == 0 {
		sb.WriteString("(no rows)\n")
		return sb.String()
	}

	if msg, ok := task.Rows[0]["error"].(string); ok && len(task.Rows) == 1 {
		if _, hasQuery := task.Rows[0]["query_received"]; hasQuery {
			sb.WriteString(fmt.Sprintf("error: %s\n", msg))
			return sb.String()
		}
	}

	cols := columnOrder(task.Rows[0])
	widths := make([]int, len(cols))
	cells := make([][]string, 0, len(task.Rows))

	for i, c := range cols {
		widths[i] = len(c)
	}
	for _, row := range task.Rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = formatCell(row[c])
			if len(line[i]) > widths[i] {
				widths[i] = len(line[i])
			}
		}
		cells = append(cells, line)
	}

	writeLine := func(values []string) {
		for i, v := range values {
			sb.WriteString(fmt.Sprintf("%-*s  ", widths[i], v))
		}
		sb.WriteString("\n")
	}

	writeLine(cols)
	for _, line := range cells {
		writeLine(line)
	}

	return sb.String()
}

func columnOrder(row insight.Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func formatCell(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
