package converter

import (
	"html"
	"strconv"
	"strings"

	"github.com/nconklindev/xlsx2vcf/internal/types"
)

// ColumnLabels returns the generic header labels for a preview. Labels are
// sized to the first row only; wider rows render extra unlabeled cells.
func ColumnLabels(t types.Table) []string {
	if len(t) == 0 {
		return nil
	}
	labels := make([]string, len(t[0]))
	for i := range labels {
		labels[i] = "Column " + strconv.Itoa(i+1)
	}
	return labels
}

// PreviewText is the text a cell shows in the preview. Falsy values,
// including numeric zero, render as an empty string.
func PreviewText(c types.Cell) string {
	if !c.Truthy() {
		return ""
	}
	return c.Text()
}

// RenderPreview renders every row of the table, heading row included, as
// an HTML table.
func RenderPreview(t types.Table) string {
	var sb strings.Builder

	sb.WriteString("<table><thead><tr>")
	for _, label := range ColumnLabels(t) {
		sb.WriteString("<th>" + label + "</th>")
	}
	sb.WriteString("</tr></thead><tbody>")

	for _, row := range t {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>" + html.EscapeString(PreviewText(cell)) + "</td>")
		}
		sb.WriteString("</tr>")
	}

	sb.WriteString("</tbody></table>")
	return sb.String()
}
