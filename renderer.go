package tablerender

import (
	"github.com/rs/zerolog"
)

// StyleResolver decides the class of a body cell from the column and the
// table-wide class handed out for the cell's position (empty when none).
type StyleResolver func(col *Column, tableClass string) (string, error)

// CellEncoder writes the content of one body cell.
type CellEncoder func(s Sink, col *Column, row int) error

// Renderer renders a Table in three phases: [Renderer.EncodeBegin],
// [Renderer.EncodeChildren] and [Renderer.EncodeEnd]. A Renderer holds no
// per-table state and may be shared; all state of one rendering lives in a
// [Pass].
type Renderer struct {
	log   zerolog.Logger
	style StyleResolver
	cell  CellEncoder
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for debug output. Default: disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithStyleResolver replaces the body cell class policy.
func WithStyleResolver(fn StyleResolver) Option {
	return func(r *Renderer) { r.style = fn }
}

// WithCellEncoder replaces the body cell content policy.
func WithCellEncoder(fn CellEncoder) Option {
	return func(r *Renderer) { r.cell = fn }
}

// New returns a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		log:   zerolog.Nop(),
		style: cellClass,
		cell:  encodeChildren,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func encodeChildren(s Sink, col *Column, row int) error {
	for _, child := range col.Children {
		if child == nil {
			continue
		}
		if err := child.Encode(s, row); err != nil {
			return err
		}
	}
	return nil
}

// Pass is the state of one rendering of one table. It is created by the
// driver, handed to the three phases in order, and closed by the end phase.
// A Pass must not be shared between goroutines.
type Pass struct {
	table *Table
	out   *stickySink

	meta     *columnMeta
	bodyRows []int
	parsed   bool
	closed   bool
}

// NewPass starts a rendering of t into s.
func NewPass(t *Table, s Sink) *Pass {
	return &Pass{table: t, out: &stickySink{Sink: s}}
}

// Table returns the table being rendered.
func (p *Pass) Table() *Table { return p.table }

// Err returns the first failure of the pass, if any.
func (p *Pass) Err() error { return p.out.err }

func (p *Pass) metaInfo() *columnMeta {
	if p.meta == nil {
		p.meta = newColumnMeta(p.table)
	}
	return p.meta
}

func (p *Pass) boundaries() ([]int, error) {
	if !p.parsed {
		rows, err := parseBodyRows(p.table.BodyRows)
		if err != nil {
			return nil, err
		}
		p.bodyRows = rows
		p.parsed = true
	}
	return p.bodyRows, nil
}

func (p *Pass) close() {
	p.meta = nil
	p.closed = true
}

// ready reports whether a phase should run. A closed or failed pass is an
// error; a hidden table renders nothing.
func (p *Pass) ready() (bool, error) {
	if p.closed {
		return false, ErrPassClosed
	}
	if p.out.err != nil {
		return false, p.out.err
	}
	return !p.table.Hidden, nil
}

func resetCursor(t *Table) error {
	if t.Data == nil {
		return nil
	}
	return t.Data.SetRowIndex(NoRow)
}

// EncodeBegin writes the table start tag, caption, column groups, header and
// footer.
func (r *Renderer) EncodeBegin(p *Pass) error {
	ok, err := p.ready()
	if !ok {
		return err
	}
	t := p.table
	if _, err := p.boundaries(); err != nil {
		return err
	}
	if err := resetCursor(t); err != nil {
		return err
	}
	info := p.metaInfo()
	r.log.Debug().
		Str("table", t.ID).
		Int("columns", len(info.columns)).
		Bool("headerFacets", info.hasHeaderFacets).
		Bool("footerFacets", info.hasFooterFacets).
		Msg("Encoding table start")

	w := p.out
	renderTableStart(w, t)
	renderCaption(w, t)
	renderColumnGroups(w, t)
	renderHeader(w, t, info)
	renderFooter(w, t, info)
	return w.err
}

// EncodeChildren writes the body groups. The data cursor is left at NoRow
// whether or not rendering succeeds.
func (r *Renderer) EncodeChildren(p *Pass) (err error) {
	ok, err := p.ready()
	if !ok {
		return err
	}
	t := p.table
	w := p.out

	info := p.metaInfo()
	if len(info.columns) == 0 {
		renderEmptyTableBody(w)
		return w.err
	}
	bodyRows, err := p.boundaries()
	if err != nil {
		return err
	}

	defer func() {
		if rerr := resetCursor(t); err == nil {
			err = rerr
		}
	}()

	var (
		processed int
		rowIndex  = max(t.First, 0) - 1
		groupOpen bool
		groupRows int
		groups    int
		rendered  int
	)
	openGroup := func() {
		renderTableBodyStart(w)
		groupOpen = true
		groupRows = 0
		groups++
	}
	if len(bodyRows) == 0 {
		openGroup()
	}
	for t.Data != nil {
		if t.Rows > 0 {
			processed++
			if processed > t.Rows {
				break
			}
		}
		rowIndex++
		if err := t.Data.SetRowIndex(rowIndex); err != nil {
			return err
		}
		if !t.Data.RowAvailable() {
			break
		}

		if len(bodyRows) > 0 {
			switch {
			case !groupOpen:
				openGroup()
			case groupRows > 0 && isBodyRow(bodyRows, rowIndex):
				renderTableBodyEnd(w)
				openGroup()
			}
		}

		renderRowStart(w, info.currentRowClass())
		if err := r.renderRow(w, info, rowIndex); err != nil {
			return err
		}
		renderRowEnd(w)
		if w.err != nil {
			return w.err
		}
		groupRows++
		rendered++
	}

	if rendered == 0 {
		if !groupOpen {
			openGroup()
		}
		renderEmptyTableRow(w, info.columns)
	}
	if groupOpen {
		renderTableBodyEnd(w)
	}
	r.log.Debug().
		Str("table", t.ID).
		Int("rows", rendered).
		Int("bodyGroups", groups).
		Msg("Encoded table rows")
	return w.err
}

func (r *Renderer) renderRow(w *stickySink, info *columnMeta, row int) error {
	info.newRow()
	for _, col := range info.columns {
		class, err := r.style(col, info.currentColumnClass())
		if err != nil {
			return err
		}
		cell := "td"
		if col.RowHeader {
			cell = "th"
		}
		w.StartElement(cell)
		if col.RowHeader {
			w.WriteAttribute("scope", "row")
		}
		if class != "" {
			w.WriteAttribute("class", class)
		}
		if w.err == nil {
			w.fail(r.cell(w, col, row))
		}
		w.EndElement(cell)
		w.WriteText("\n")
		if w.err != nil {
			return w.err
		}
	}
	return nil
}

// EncodeEnd discards the pass metadata, resets the data cursor and writes
// the table end tag. The pass cannot be used afterwards.
func (r *Renderer) EncodeEnd(p *Pass) error {
	ok, err := p.ready()
	p.close()
	if !ok {
		return err
	}
	t := p.table
	if err := resetCursor(t); err != nil {
		return err
	}
	renderTableEnd(p.out)
	r.log.Debug().Str("table", t.ID).Msg("Encoded table end")
	return p.out.err
}

// Render runs all three phases of a fresh pass. The data cursor is reset to
// NoRow and the pass closed even when a phase fails.
func (r *Renderer) Render(t *Table, s Sink) (err error) {
	p := NewPass(t, s)
	defer func() {
		p.close()
		if rerr := resetCursor(t); err == nil {
			err = rerr
		}
	}()
	if err := r.EncodeBegin(p); err != nil {
		return err
	}
	if err := r.EncodeChildren(p); err != nil {
		return err
	}
	return r.EncodeEnd(p)
}
