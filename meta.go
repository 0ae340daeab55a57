package tablerender

import (
	"fmt"
	"strings"
)

// columnMeta is derived from a table once per pass.
type columnMeta struct {
	columns         []*Column
	hasHeaderFacets bool
	hasFooterFacets bool

	columnClasses []string
	rowClasses    []string
	columnCounter int
	rowCounter    int
}

func newColumnMeta(t *Table) *columnMeta {
	m := &columnMeta{
		columnClasses: splitClasses(t.ColumnClasses),
		rowClasses:    splitClasses(t.RowClasses),
	}
	for _, col := range t.Columns {
		if col == nil || col.Hidden {
			continue
		}
		m.columns = append(m.columns, col)
		if col.Header != nil {
			m.hasHeaderFacets = true
		}
		if col.Footer != nil {
			m.hasFooterFacets = true
		}
	}
	return m
}

func splitClasses(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// newRow rewinds the column class position for the next row.
func (m *columnMeta) newRow() {
	m.columnCounter = 0
}

// currentColumnClass returns the table-wide class for the next cell of the
// current row and advances. Empty means none.
func (m *columnMeta) currentColumnClass() string {
	if m.columnCounter >= len(m.columnClasses) {
		m.columnCounter++
		return ""
	}
	class := m.columnClasses[m.columnCounter]
	m.columnCounter++
	return class
}

// currentRowClass returns the class for the next rendered row, cycling
// through the list.
func (m *columnMeta) currentRowClass() string {
	if len(m.rowClasses) == 0 {
		return ""
	}
	class := m.rowClasses[m.rowCounter]
	m.rowCounter = (m.rowCounter + 1) % len(m.rowClasses)
	return class
}

// cellClass resolves the class of a body cell. A table-wide column class and
// a column style class are mutually exclusive.
func cellClass(col *Column, tableClass string) (string, error) {
	if tableClass != "" && col.StyleClass != "" {
		return "", fmt.Errorf("%w: columnClasses %q on the table and styleClass %q on column %q",
			ErrClassConflict, tableClass, col.StyleClass, col.ID)
	}
	if tableClass != "" {
		return tableClass, nil
	}
	return col.StyleClass, nil
}
