package clipboard

import (
	"html"
	"strings"
)

// renderHTML builds the text/html flavour of a copy so rich-text editors
// paste a table instead of tab-separated text.
func renderHTML(rows [][]string) string {
	var b strings.Builder
	b.WriteString("<table>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(strings.ReplaceAll(html.EscapeString(cell), "\n", "<br>"))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}
