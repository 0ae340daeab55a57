package tablerender

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BorderStyle controls text table border characters.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
		cross: "┼",
	},
	BorderASCII: {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topTee: "+", bottomTee: "+", leftTee: "+", rightTee: "+",
		cross: "+",
	},
	BorderHeavy: {
		topLeft: "┏", topRight: "┓", bottomLeft: "┗", bottomRight: "┛",
		horizontal: "━", vertical: "┃",
		topTee: "┳", bottomTee: "┻", leftTee: "┣", rightTee: "┫",
		cross: "╋",
	},
	BorderDouble: {
		topLeft: "╔", topRight: "╗", bottomLeft: "╚", bottomRight: "╝",
		horizontal: "═", vertical: "║",
		topTee: "╦", bottomTee: "╩", leftTee: "╠", rightTee: "╣",
		cross: "╬",
	},
}

type alignment int

const (
	alignLeft alignment = iota
	alignCenter
)

type textCell struct {
	text strings.Builder
	span int
}

type textRow struct {
	cells []*textCell
}

// TextSink is a Sink that lays a rendered table out as a text table. It
// buffers the table and writes it when the table element is closed. Header
// rows come first, body groups are separated by rule lines, footer rows come
// last, and the caption becomes a title line. After a table is written the
// sink is empty again and accepts the next table.
type TextSink struct {
	w      io.Writer
	border BorderStyle

	stack     []string
	inCaption bool
	section   string
	row       *textRow
	cell      *textCell

	caption strings.Builder
	header  []*textRow
	footer  []*textRow
	groups  [][]*textRow
}

// NewTextSink returns a TextSink writing to w.
func NewTextSink(w io.Writer, border BorderStyle) *TextSink {
	return &TextSink{w: w, border: border}
}

func (t *TextSink) StartElement(name string) error {
	t.stack = append(t.stack, name)
	switch name {
	case "caption":
		t.inCaption = true
	case "thead", "tfoot":
		t.section = name
	case "tbody":
		t.section = name
		t.groups = append(t.groups, nil)
	case "tr":
		t.row = &textRow{}
	case "td", "th":
		if t.row != nil {
			t.cell = &textCell{span: 1}
			t.row.cells = append(t.row.cells, t.cell)
		}
	}
	return nil
}

func (t *TextSink) WriteAttribute(name, value string) error {
	if len(t.stack) == 0 {
		return fmt.Errorf("%w: %s", ErrNoOpenTag, name)
	}
	if name == "colspan" && t.cell != nil {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			t.cell.span = n
		}
	}
	return nil
}

func (t *TextSink) WriteText(text string) error {
	switch {
	case t.inCaption:
		t.caption.WriteString(text)
	case t.cell != nil:
		t.cell.text.WriteString(text)
	}
	return nil
}

func (t *TextSink) WriteRaw(markup string) error {
	if t.cell != nil {
		t.cell.text.WriteString(markup)
	}
	return nil
}

func (t *TextSink) EndElement(name string) error {
	if len(t.stack) == 0 || t.stack[len(t.stack)-1] != name {
		return fmt.Errorf("%w: </%s>", ErrUnbalanced, name)
	}
	t.stack = t.stack[:len(t.stack)-1]
	switch name {
	case "caption":
		t.inCaption = false
	case "td", "th":
		t.cell = nil
	case "tr":
		t.endRow()
	case "table":
		return t.flush()
	}
	return nil
}

func (t *TextSink) endRow() {
	row := t.row
	t.row = nil
	if row == nil {
		return
	}
	switch t.section {
	case "thead":
		t.header = append(t.header, row)
	case "tfoot":
		t.footer = append(t.footer, row)
	default:
		if len(t.groups) == 0 {
			t.groups = append(t.groups, nil)
		}
		last := len(t.groups) - 1
		t.groups[last] = append(t.groups[last], row)
	}
}

// --- Layout ---

// textLine is one laid out row: either cells per column or a single
// full-width text.
type textLine struct {
	cells []string
	full  string
	wide  bool
}

func cellText(c *textCell) string {
	return strings.Join(strings.Fields(c.text.String()), " ")
}

func (t *TextSink) colCount() int {
	n := 0
	count := func(rows []*textRow) {
		for _, row := range rows {
			span := 0
			for _, c := range row.cells {
				span += c.span
			}
			n = max(n, span)
		}
	}
	count(t.header)
	for _, g := range t.groups {
		count(g)
	}
	count(t.footer)
	return n
}

func toLines(rows []*textRow, numCols int) []textLine {
	lines := make([]textLine, 0, len(rows))
	for _, row := range rows {
		if numCols > 1 && len(row.cells) == 1 && row.cells[0].span >= numCols {
			lines = append(lines, textLine{full: cellText(row.cells[0]), wide: true})
			continue
		}
		cells := make([]string, 0, numCols)
		for _, c := range row.cells {
			cells = append(cells, cellText(c))
			for range c.span - 1 {
				cells = append(cells, "")
			}
		}
		lines = append(lines, textLine{cells: cells})
	}
	return lines
}

func (t *TextSink) flush() error {
	numCols := t.colCount()
	header := toLines(t.header, numCols)
	footer := toLines(t.footer, numCols)
	var groups [][]textLine
	for _, g := range t.groups {
		if len(g) > 0 {
			groups = append(groups, toLines(g, numCols))
		}
	}

	title := strings.Join(strings.Fields(t.caption.String()), " ")
	t.reset()

	var all []textLine
	all = append(all, header...)
	for _, g := range groups {
		all = append(all, g...)
	}
	all = append(all, footer...)

	if t.border == BorderNone {
		return renderPlainTable(t.w, title, header, groups, footer, computeWidths(numCols, all))
	}
	// The title row is drawn across the whole table like a spanning row.
	if title != "" {
		all = append(all, textLine{full: title, wide: true})
	}
	return renderBorderedTable(t.w, title, header, groups, footer, computeWidths(numCols, all), borderSets[t.border])
}

// reset drops the buffered table so the sink can take another one.
func (t *TextSink) reset() {
	t.caption.Reset()
	t.header = nil
	t.footer = nil
	t.groups = nil
	t.section = ""
	t.row = nil
	t.cell = nil
	t.inCaption = false
}

func computeWidths(numCols int, lines []textLine) []int {
	widths := make([]int, numCols)
	for _, line := range lines {
		for i, cell := range line.cells {
			if w := runewidth.StringWidth(cell); i < numCols && w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Full-width rows widen the last column when they do not fit.
	for _, line := range lines {
		if !line.wide || numCols == 0 {
			continue
		}
		if need := runewidth.StringWidth(line.full) - (tableInnerWidth(widths) - 2); need > 0 {
			widths[numCols-1] += need
		}
	}
	return widths
}

// --- Plain table (BorderNone) ---

func renderPlainTable(w io.Writer, title string, header []textLine, groups [][]textLine, footer []textLine, widths []int) error {
	total := plainWidth(widths)
	if title != "" {
		if _, err := fmt.Fprintln(w, strings.TrimRight(alignCell(title, total, alignCenter), " ")); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		for _, line := range header {
			if err := writePlainLine(w, line, widths, total); err != nil {
				return err
			}
		}
		if err := writePlainSep(w, widths); err != nil {
			return err
		}
	}
	for i, group := range groups {
		if i > 0 {
			if err := writePlainSep(w, widths); err != nil {
				return err
			}
		}
		for _, line := range group {
			if err := writePlainLine(w, line, widths, total); err != nil {
				return err
			}
		}
	}
	if len(footer) > 0 {
		if err := writePlainSep(w, widths); err != nil {
			return err
		}
		for _, line := range footer {
			if err := writePlainLine(w, line, widths, total); err != nil {
				return err
			}
		}
	}
	return nil
}

func plainWidth(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w
	}
	if len(widths) > 1 {
		n += 2 * (len(widths) - 1)
	}
	return n
}

func writePlainSep(w io.Writer, widths []int) error {
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	_, err := fmt.Fprintln(w, strings.Join(sep, "  "))
	return err
}

func writePlainLine(w io.Writer, line textLine, widths []int, total int) error {
	if line.wide {
		_, err := fmt.Fprintln(w, strings.TrimRight(formatTableCell(line.full, total, alignCenter), " "))
		return err
	}
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(line.cells) {
			cell = line.cells[i]
		}
		parts[i] = formatTableCell(cell, width, alignLeft)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}

// --- Bordered table ---

func renderBorderedTable(w io.Writer, title string, header []textLine, groups [][]textLine, footer []textLine, widths []int, bc borderChars) error {
	if title != "" {
		// Full-width top border (no column separators).
		if err := drawHLine(w, widths, bc.topLeft, bc.horizontal, bc.horizontal, bc.topRight); err != nil {
			return err
		}
		if err := drawWideRow(w, title, widths, bc.vertical); err != nil {
			return err
		}
		// Transition to columns.
		if err := drawHLine(w, widths, bc.leftTee, bc.horizontal, bc.topTee, bc.rightTee); err != nil {
			return err
		}
	} else {
		if err := drawHLine(w, widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight); err != nil {
			return err
		}
	}

	sections := make([][]textLine, 0, len(groups)+2)
	if len(header) > 0 {
		sections = append(sections, header)
	}
	sections = append(sections, groups...)
	if len(footer) > 0 {
		sections = append(sections, footer)
	}
	for i, section := range sections {
		if i > 0 {
			if err := drawHLine(w, widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee); err != nil {
				return err
			}
		}
		for _, line := range section {
			var err error
			if line.wide {
				err = drawWideRow(w, line.full, widths, bc.vertical)
			} else {
				err = drawBorderedRow(w, line.cells, widths, bc.vertical)
			}
			if err != nil {
				return err
			}
		}
	}

	return drawHLine(w, widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
}

// tableInnerWidth returns the total character width between the outer vertical
// borders of a bordered table. Each cell contributes its width plus 2 (one
// space of padding on each side), and cells are separated by a single vertical
// border character.
func tableInnerWidth(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w + 2
	}
	if len(widths) > 1 {
		n += len(widths) - 1
	}
	return n
}

func drawHLine(w io.Writer, widths []int, left, fill, mid, right string) error {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func drawWideRow(w io.Writer, text string, widths []int, vert string) error {
	inner := max(tableInnerWidth(widths)-2, 0) // subtract 1-space padding on each side
	_, err := fmt.Fprintf(w, "%s %s %s\n", vert, formatTableCell(text, inner, alignCenter), vert)
	return err
}

func drawBorderedRow(w io.Writer, cells []string, widths []int, vert string) error {
	var sb strings.Builder
	sb.WriteString(vert)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(formatTableCell(cell, width, alignLeft))
		sb.WriteString(" ")
		if i < len(widths)-1 {
			sb.WriteString(vert)
		}
	}
	sb.WriteString(vert)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func formatTableCell(s string, width int, align alignment) string {
	if width > 0 && runewidth.StringWidth(s) > width {
		if width <= 3 {
			s = runewidth.Truncate(s, width, "")
		} else {
			s = runewidth.Truncate(s, width, "...")
		}
	}
	return alignCell(s, width, align)
}

func alignCell(s string, width int, align alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case alignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
