package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/hylla/tablero/internal/domain"
)

// markdownRenderer renders markdown for the detail overlay and recreates the renderer when wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown into ANSI-styled terminal text at the requested wrap width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	wrapWidth := max(24, width)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}
	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// itemMarkdown describes an item as a field table.
func itemMarkdown(item domain.Item) string {
	return detailMarkdown(item.Name, [][2]string{
		{"ID", item.ID},
		{"Email", item.Email},
		{"Role", string(item.Role)},
		{"Status", string(item.Status)},
		{"Created", item.CreatedAt.String()},
	}, "")
}

// employeeMarkdown describes an employee as a field table.
func employeeMarkdown(emp domain.Employee) string {
	return detailMarkdown(emp.Name, [][2]string{
		{"ID", emp.ID},
		{"Email", emp.Email},
		{"Phone", emp.Phone},
		{"Position", emp.Position},
		{"Department", string(emp.Department)},
		{"Hired", emp.HireDate.String()},
		{"Status", string(emp.Status)},
	}, "")
}

// opportunityMarkdown describes an opportunity; the description is rendered as markdown body text.
func opportunityMarkdown(opp domain.Opportunity) string {
	return detailMarkdown(opp.Title, [][2]string{
		{"ID", opp.ID},
		{"Client", opp.Client},
		{"Value", formatMoney(opp.Value)},
		{"Stage", string(opp.Status)},
		{"Priority", string(opp.Priority)},
		{"Deadline", opp.Deadline.String()},
	}, opp.Description)
}

func detailMarkdown(title string, rows [][2]string, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n| Field | Value |\n| --- | --- |\n", escapeCell(title))
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], escapeCell(row[1]))
	}
	if body = strings.TrimSpace(body); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// formatMoney renders a currency amount with thousands separators.
func formatMoney(v float64) string {
	return "$" + humanize.Commaf(v)
}
