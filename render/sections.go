package render

import "strings"

// Section is one titled part of a narrated answer
type Section struct {
	Title string
	Body  string
}

// SplitSections turns a markdown answer into titled sections. Bold-only
// lines (**Title**) and markdown headings (# Title) are treated as
// boundaries; content before the first header lands in an "Overview"
// section.
func SplitSections(text string) []Section {
	var sections []Section
	currentTitle := "Overview"
	var currentLines []string

	flush := func() {
		body := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if body != "" {
			sections = append(sections, Section{Title: currentTitle, Body: body})
		}
		currentLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)

		isBoldHeader := strings.HasPrefix(stripped, "**") &&
			strings.HasSuffix(stripped, "**") &&
			len(stripped) > 4
		isMdHeader := strings.HasPrefix(stripped, "#")

		if !isBoldHeader && !isMdHeader {
			currentLines = append(currentLines, line)
			continue
		}

		flush()

		var headerText string
		if isBoldHeader {
			headerText = strings.TrimSpace(strings.Trim(stripped, "* "))
		} else {
			headerText = strings.TrimSpace(strings.TrimLeft(stripped, "#"))
		}
		if headerText != "" {
			currentTitle = headerText
		}
	}

	flush()
	return sections
}
