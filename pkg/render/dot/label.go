package dot

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/christophertubbs/erdantic/pkg/erd"
)

// Row colors and wrapping limits for the HTML-like table labels.
const (
	headerRowColor      = "#f3f797"
	descriptionRowColor = "#fcffcc"
	oddRowColor         = "#FFFFFF"
	evenRowColor        = "#e3e3e3"

	fieldCharacterLimit  = 40
	headerCharacterLimit = 100
)

// Labeler lets a model supply its own DOT node label. The returned string
// must be a complete DOT label value, including the angle-bracket wrapping
// for HTML-like labels.
type Labeler interface {
	DotLabel() string
}

// Label returns the DOT node label for a model. Models implementing
// [Labeler] control their own label; everything else gets the standard
// table rendering from [TableLabel].
func Label(m erd.Model) string {
	if l, ok := m.(Labeler); ok {
		return l.DotLabel()
	}
	return TableLabel(m)
}

// TableLabel builds the HTML-like table label for a model: a header row
// with the model name, an optional italic description row, and one row per
// field. Field rows alternate background colors and carry west and east
// ports named after the field, so edges can anchor on the owning row.
func TableLabel(m erd.Model) string {
	fields := m.Fields()

	columns := 2
	if hasFieldDescriptions(fields) {
		columns = 3
	}

	var rows strings.Builder
	fmt.Fprintf(&rows, `<tr><td bgcolor="%s" port="_root" colspan="%d"><b>%s</b></td></tr>`,
		headerRowColor, columns, html.EscapeString(m.Name()))

	if desc := m.Description(); desc != "" {
		// Only the summary paragraph; drop everything after a blank line.
		if i := strings.Index(desc, "\n\n"); i >= 0 {
			desc = desc[:i]
		}
		fmt.Fprintf(&rows, `<tr><td bgcolor="%s" port="description" colspan="%d"><i>%s</i></td></tr>`,
			descriptionRowColor, columns, wrapLines(html.EscapeString(desc), headerCharacterLimit))
	}

	for i, f := range fields {
		color := evenRowColor
		if i%2 == 0 {
			color = oddRowColor
		}
		// Ports are DOT attribute values, not HTML text; they stay raw so
		// edge tailports resolve to the same name.
		port := f.Name()
		name := html.EscapeString(f.Name())
		typeName := html.EscapeString(f.Type().String())
		if columns == 3 {
			desc := wrapLines(html.EscapeString(f.Description()), fieldCharacterLimit)
			fmt.Fprintf(&rows, `<tr><td bgcolor="%s" port="%s_w"><b>%s</b></td><td bgcolor="%s">%s</td><td bgcolor="%s" port="%s_e">%s</td></tr>`,
				color, port, name, color, typeName, color, port, desc)
		} else {
			fmt.Fprintf(&rows, `<tr><td bgcolor="%s" port="%s_w">%s</td><td bgcolor="%s" port="%s_e">%s</td></tr>`,
				color, port, name, color, port, typeName)
		}
	}

	return `<<table border="0" cellborder="1" cellpadding="5" cellspacing="0">` + rows.String() + `</table>>`
}

// hasFieldDescriptions reports whether any field carries a description,
// which decides between the 2- and 3-column table layouts.
func hasFieldDescriptions(fields []erd.Field) bool {
	for _, f := range fields {
		if f.Description() != "" {
			return true
		}
	}
	return false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// wrapLines breaks a description into lines of at most limit characters so
// long text does not stretch its table row. Word boundaries are preserved;
// a single word longer than the limit stays on its own line.
func wrapLines(s string, limit int) string {
	if len(s) < limit {
		return s
	}

	s = whitespaceRun.ReplaceAllString(s, " ")

	var lines []string
	var current string
	for _, word := range strings.Split(s, " ") {
		switch {
		case current == "":
			current = word
		case len(current)+len(word)+1 > limit:
			lines = append(lines, current)
			current = word
		default:
			current += " " + word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n<br></br>")
}
