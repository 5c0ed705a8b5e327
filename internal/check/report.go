package check

import (
	"fmt"
	"strings"
)

// categoryOrder fixes the section order in rendered reports.
var categoryOrder = []Category{
	CategorySpelling,
	CategoryCliche,
	CategoryBuzzword,
	CategoryPassive,
	CategoryPronoun,
	CategoryContact,
	CategoryLength,
}

var categoryTitles = map[Category]string{
	CategorySpelling: "Spelling",
	CategoryCliche:   "Cliches",
	CategoryBuzzword: "Buzzwords",
	CategoryPassive:  "Passive voice",
	CategoryPronoun:  "Personal pronouns",
	CategoryContact:  "Contact details",
	CategoryLength:   "Length",
}

// Markdown renders the report for terminal display (the TUI feeds this
// through glamour).
func (r *Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Resume check: %d/100 (%s)\n\n", r.Score, r.Grade)
	fmt.Fprintf(&sb, "%d words, %d findings\n\n", r.WordCount, len(r.Findings))

	if len(r.Findings) == 0 {
		sb.WriteString("No issues found.\n")
		return sb.String()
	}

	for _, cat := range categoryOrder {
		var matches []Finding
		for _, f := range r.Findings {
			if f.Category == cat {
				matches = append(matches, f)
			}
		}
		if len(matches) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s (%d)\n\n", categoryTitles[cat], len(matches))
		for _, f := range matches {
			if f.Suggestion != "" {
				fmt.Fprintf(&sb, "- `%s`: %s\n", f.Match, f.Suggestion)
			} else {
				fmt.Fprintf(&sb, "- `%s`\n", f.Match)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
