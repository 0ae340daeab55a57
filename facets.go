package tablerender

import (
	"maps"
	"slices"
	"strconv"
)

// stickySink forwards to a Sink until the first failure and then drops every
// later call, returning that failure.
type stickySink struct {
	Sink
	err error
}

func (s *stickySink) fail(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

func (s *stickySink) StartElement(name string) error {
	if s.err == nil {
		s.fail(s.Sink.StartElement(name))
	}
	return s.err
}

func (s *stickySink) WriteAttribute(name, value string) error {
	if s.err == nil {
		s.fail(s.Sink.WriteAttribute(name, value))
	}
	return s.err
}

func (s *stickySink) WriteText(text string) error {
	if s.err == nil {
		s.fail(s.Sink.WriteText(text))
	}
	return s.err
}

func (s *stickySink) WriteRaw(markup string) error {
	if s.err == nil {
		s.fail(s.Sink.WriteRaw(markup))
	}
	return s.err
}

func (s *stickySink) EndElement(name string) error {
	if s.err == nil {
		s.fail(s.Sink.EndElement(name))
	}
	return s.err
}

func (s *stickySink) encode(c Component) {
	if s.err == nil && c != nil {
		s.fail(c.Encode(s, NoRow))
	}
}

func renderTableStart(w *stickySink, t *Table) {
	w.StartElement("table")
	if t.ID != "" {
		w.WriteAttribute("id", t.ID)
	}
	if t.StyleClass != "" {
		w.WriteAttribute("class", t.StyleClass)
	}
	if t.Style != "" {
		w.WriteAttribute("style", t.Style)
	}
	for _, name := range slices.Sorted(maps.Keys(t.Attributes)) {
		w.WriteAttribute(name, t.Attributes[name])
	}
	w.WriteText("\n")
}

func renderTableEnd(w *stickySink) {
	w.EndElement("table")
	w.WriteText("\n")
}

func renderCaption(w *stickySink, t *Table) {
	if t.Caption == nil {
		return
	}
	w.StartElement("caption")
	if t.CaptionClass != "" {
		w.WriteAttribute("class", t.CaptionClass)
	}
	if t.CaptionStyle != "" {
		w.WriteAttribute("style", t.CaptionStyle)
	}
	w.encode(t.Caption)
	w.EndElement("caption")
	w.WriteText("\n")
}

func renderColumnGroups(w *stickySink, t *Table) {
	w.encode(t.ColGroups)
}

// renderHeader writes the merged table header row before the per-column row.
func renderHeader(w *stickySink, t *Table, info *columnMeta) {
	if t.Header == nil && !info.hasHeaderFacets {
		return
	}
	w.StartElement("thead")
	w.WriteText("\n")
	if t.Header != nil {
		w.StartElement("tr")
		w.StartElement("th")
		if t.HeaderClass != "" {
			w.WriteAttribute("class", t.HeaderClass)
		}
		writeColspan(w, len(info.columns))
		w.WriteAttribute("scope", "colgroup")
		w.encode(t.Header)
		w.EndElement("th")
		renderRowEnd(w)
	}
	if info.hasHeaderFacets {
		w.StartElement("tr")
		w.WriteText("\n")
		for _, col := range info.columns {
			w.StartElement("th")
			if class := firstNonEmpty(col.HeaderClass, t.HeaderClass); class != "" {
				w.WriteAttribute("class", class)
			}
			w.WriteAttribute("scope", "col")
			w.encode(col.Header)
			w.EndElement("th")
			w.WriteText("\n")
		}
		renderRowEnd(w)
	}
	w.EndElement("thead")
	w.WriteText("\n")
}

// renderFooter writes the per-column footer row before the merged table
// footer row.
func renderFooter(w *stickySink, t *Table, info *columnMeta) {
	if t.Footer == nil && !info.hasFooterFacets {
		return
	}
	w.StartElement("tfoot")
	w.WriteText("\n")
	if info.hasFooterFacets {
		w.StartElement("tr")
		w.WriteText("\n")
		for _, col := range info.columns {
			w.StartElement("td")
			if class := firstNonEmpty(col.FooterClass, t.FooterClass); class != "" {
				w.WriteAttribute("class", class)
			}
			w.encode(col.Footer)
			w.EndElement("td")
			w.WriteText("\n")
		}
		renderRowEnd(w)
	}
	if t.Footer != nil {
		w.StartElement("tr")
		w.StartElement("td")
		if t.FooterClass != "" {
			w.WriteAttribute("class", t.FooterClass)
		}
		writeColspan(w, len(info.columns))
		w.encode(t.Footer)
		w.EndElement("td")
		renderRowEnd(w)
	}
	w.EndElement("tfoot")
	w.WriteText("\n")
}

func writeColspan(w *stickySink, columns int) {
	if columns > 1 {
		w.WriteAttribute("colspan", strconv.Itoa(columns))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func renderTableBodyStart(w *stickySink) {
	w.StartElement("tbody")
	w.WriteText("\n")
}

func renderTableBodyEnd(w *stickySink) {
	w.EndElement("tbody")
	w.WriteText("\n")
}

func renderRowStart(w *stickySink, class string) {
	w.StartElement("tr")
	if class != "" {
		w.WriteAttribute("class", class)
	}
	w.WriteText("\n")
}

func renderRowEnd(w *stickySink) {
	w.EndElement("tr")
	w.WriteText("\n")
}

// renderEmptyTableBody keeps a table without columns well formed.
func renderEmptyTableBody(w *stickySink) {
	w.StartElement("tbody")
	renderEmptyTableRow(w, nil)
	w.EndElement("tbody")
}

// renderEmptyTableRow keeps an empty data set at the table's column count.
func renderEmptyTableRow(w *stickySink, columns []*Column) {
	w.StartElement("tr")
	for range columns {
		w.StartElement("td")
		w.EndElement("td")
	}
	w.EndElement("tr")
}
