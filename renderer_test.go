package tablerender_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/tablerender"
)

// --- Fixtures ---

type item struct {
	Name string
	Qty  string
}

var threeItems = []item{{"a", "1"}, {"b", "2"}, {"c", "3"}}

func itemTable(items []item) (*tablerender.Table, *tablerender.Slice[item]) {
	src := tablerender.NewSlice(items)
	t := &tablerender.Table{
		Data: src,
		Columns: []*tablerender.Column{
			{ID: "name", Children: []tablerender.Component{
				tablerender.Value(src, func(i item) string { return i.Name }),
			}},
			{ID: "qty", Children: []tablerender.Component{
				tablerender.Value(src, func(i item) string { return i.Qty }),
			}},
		},
	}
	return t, src
}

func render(t *testing.T, table *tablerender.Table, opts ...tablerender.Option) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tablerender.New(opts...).Render(table, tablerender.NewMarkupWriter(&buf)))
	return buf.String()
}

func renderTree(t *testing.T, table *tablerender.Table) *etree.Document {
	t.Helper()
	sink := tablerender.NewTreeSink()
	require.NoError(t, tablerender.New().Render(table, sink))
	return sink.Document()
}

// groupSizes returns the number of rows in each body group.
func groupSizes(doc *etree.Document) []int {
	var sizes []int
	for _, body := range doc.FindElements("//tbody") {
		sizes = append(sizes, len(body.SelectElements("tr")))
	}
	return sizes
}

func itemRow(name, qty string) string {
	return "<tr>\n<td>" + name + "</td>\n<td>" + qty + "</td>\n</tr>\n"
}

// failAfterN fails on the (n+1)th call to Write.
type failAfterN struct {
	n     int
	calls int
}

func (f *failAfterN) Write(p []byte) (int, error) {
	if f.calls >= f.n {
		return 0, errWriteFailed
	}
	f.calls++
	return len(p), nil
}

var errWriteFailed = errors.New("write failed")

// failingCursor fails when asked to select row failAt.
type failingCursor struct {
	*tablerender.Slice[item]
	failAt int
}

var errCursorFailed = errors.New("cursor failed")

func (c *failingCursor) SetRowIndex(index int) error {
	if index == c.failAt {
		return errCursorFailed
	}
	return c.Slice.SetRowIndex(index)
}

// ============================================================
// Tests
// ============================================================

// --- Row iteration ---

func TestRenderTwoColumnsThreeRows(t *testing.T) {
	t.Parallel()
	table, src := itemTable(threeItems)
	out := render(t, table)
	want := "<table>\n<tbody>\n" +
		itemRow("a", "1") + itemRow("b", "2") + itemRow("c", "3") +
		"</tbody>\n</table>\n"
	assert.Equal(t, want, out)
	assert.Equal(t, tablerender.NoRow, src.RowIndex())
}

func TestRenderNoEligibleColumns(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems)
	for _, col := range table.Columns {
		col.Hidden = true
	}
	out := render(t, table)
	assert.Equal(t, "<table>\n<tbody><tr></tr></tbody></table>\n", out)
}

func TestRenderNoColumnsAtAll(t *testing.T) {
	t.Parallel()
	out := render(t, &tablerender.Table{Data: tablerender.NewSlice([]item{})})
	assert.Equal(t, "<table>\n<tbody><tr></tr></tbody></table>\n", out)
}

func TestRenderNoRows(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(nil)
	out := render(t, table)
	assert.Equal(t, "<table>\n<tbody>\n<tr><td></td><td></td></tr></tbody>\n</table>\n", out)
}

func TestRenderNoRowsSkipsHiddenColumns(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(nil)
	table.Columns[1].Hidden = true
	out := render(t, table)
	assert.Contains(t, out, "<tr><td></td></tr>")
}

func TestRenderNilData(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(nil)
	table.Data = nil
	out := render(t, table)
	assert.Contains(t, out, "<tr><td></td><td></td></tr>")
}

func TestRenderRowLimits(t *testing.T) {
	t.Parallel()
	items := []item{{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"}, {"e", "5"}}
	tests := map[string]struct {
		rows  int
		first int
		want  []string
	}{
		"unbounded":         {rows: 0, first: 0, want: []string{"a", "b", "c", "d", "e"}},
		"negative is all":   {rows: -1, first: 0, want: []string{"a", "b", "c", "d", "e"}},
		"limit":             {rows: 2, first: 0, want: []string{"a", "b"}},
		"offset":            {rows: 0, first: 3, want: []string{"d", "e"}},
		"offset and limit":  {rows: 2, first: 1, want: []string{"b", "c"}},
		"limit past end":    {rows: 10, first: 4, want: []string{"e"}},
		"negative offset":   {rows: 1, first: -3, want: []string{"a"}},
		"offset past end":   {rows: 0, first: 9, want: nil},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			table, src := itemTable(items)
			table.Rows = tt.rows
			table.First = tt.first
			doc := renderTree(t, table)

			var got []string
			for _, tr := range doc.FindElements("//tbody/tr") {
				cells := tr.SelectElements("td")
				if len(cells) > 0 && cells[0].Text() != "" {
					got = append(got, cells[0].Text())
				}
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tablerender.NoRow, src.RowIndex())
		})
	}
}

func TestRenderRowHeaderColumn(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	table.Columns[0].RowHeader = true
	out := render(t, table)
	assert.Contains(t, out, "<tr>\n<th scope=\"row\">a</th>\n<td>1</td>\n</tr>\n")
}

// --- Body groups ---

func TestRenderBodyRowsSplitsGroups(t *testing.T) {
	t.Parallel()
	items := []item{{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"}}
	table, _ := itemTable(items)
	table.BodyRows = "1,2"
	out := render(t, table)
	want := "<table>\n" +
		"<tbody>\n" + itemRow("a", "1") + "</tbody>\n" +
		"<tbody>\n" + itemRow("b", "2") + "</tbody>\n" +
		"<tbody>\n" + itemRow("c", "3") + itemRow("d", "4") + "</tbody>\n" +
		"</table>\n"
	assert.Equal(t, want, out)
}

func TestRenderBodyGroupCounts(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		bodyRows string
		rows     int
		first    int
		limit    int
		want     []int
	}{
		"no boundaries":          {bodyRows: "", rows: 4, want: []int{4}},
		"implicit group first":   {bodyRows: "1,2", rows: 4, want: []int{1, 1, 2}},
		"boundary on first row":  {bodyRows: "0,2", rows: 4, want: []int{2, 2}},
		"boundary never reached": {bodyRows: "7", rows: 4, want: []int{4}},
		"duplicates and spaces":  {bodyRows: "2, 2 ,3", rows: 4, want: []int{2, 1, 1}},
		"boundary before offset": {bodyRows: "0,3", rows: 5, first: 2, want: []int{1, 2}},
		"boundary past limit":    {bodyRows: "3", rows: 5, limit: 2, want: []int{2}},
		"no rows":                {bodyRows: "1", rows: 0, want: []int{1}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			items := make([]item, tt.rows)
			for i := range items {
				items[i] = item{Name: "n", Qty: "q"}
			}
			table, _ := itemTable(items)
			table.BodyRows = tt.bodyRows
			table.First = tt.first
			table.Rows = tt.limit
			assert.Equal(t, tt.want, groupSizes(renderTree(t, table)))
		})
	}
}

func TestRenderMalformedBodyRows(t *testing.T) {
	t.Parallel()
	table, src := itemTable(threeItems)
	table.BodyRows = "1,x"
	var buf bytes.Buffer
	err := tablerender.New().Render(table, tablerender.NewMarkupWriter(&buf))
	require.ErrorIs(t, err, tablerender.ErrMalformedBodyRows)
	assert.Empty(t, buf.String())
	assert.Equal(t, tablerender.NoRow, src.RowIndex())
}

// --- Classes ---

func TestRenderColumnClasses(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:2])
	table.ColumnClasses = "c1, c2"
	out := render(t, table)
	assert.Equal(t, 2, strings.Count(out, `<td class="c1">`))
	assert.Equal(t, 2, strings.Count(out, `<td class="c2">`))
	assert.Contains(t, out, "<td class=\"c1\">b</td>\n<td class=\"c2\">2</td>\n")
}

func TestRenderRowClassesCycle(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems)
	table.RowClasses = "odd,even"
	doc := renderTree(t, table)
	var got []string
	for _, tr := range doc.FindElements("//tbody/tr") {
		got = append(got, tr.SelectAttrValue("class", ""))
	}
	assert.Equal(t, []string{"odd", "even", "odd"}, got)
}

func TestRenderRowClassesSkipOffsetRows(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems)
	table.RowClasses = "odd,even"
	table.First = 1
	doc := renderTree(t, table)
	rows := doc.FindElements("//tbody/tr")
	require.Len(t, rows, 2)
	assert.Equal(t, "odd", rows[0].SelectAttrValue("class", ""))
	assert.Equal(t, "even", rows[1].SelectAttrValue("class", ""))
}

func TestRenderStyleClassWithoutTableClass(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	table.ColumnClasses = "c1"
	table.Columns[1].StyleClass = "num"
	out := render(t, table)
	assert.Contains(t, out, "<td class=\"c1\">a</td>\n<td class=\"num\">1</td>\n")
}

func TestRenderEmptyColumnClassToken(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	table.ColumnClasses = ",c2"
	table.Columns[0].StyleClass = "name"
	out := render(t, table)
	assert.Contains(t, out, "<td class=\"name\">a</td>\n<td class=\"c2\">1</td>\n")
}

func TestRenderClassConflict(t *testing.T) {
	t.Parallel()
	table, src := itemTable(threeItems)
	table.ColumnClasses = "c1,c2"
	table.Columns[1].StyleClass = "num"
	var buf bytes.Buffer
	err := tablerender.New().Render(table, tablerender.NewMarkupWriter(&buf))
	require.ErrorIs(t, err, tablerender.ErrClassConflict)
	assert.Contains(t, err.Error(), "columnClasses")
	assert.Contains(t, err.Error(), "styleClass")
	assert.Contains(t, err.Error(), `"qty"`)
	assert.NotContains(t, buf.String(), "<td class=\"c2\"")
	assert.NotContains(t, buf.String(), "<td class=\"num\"")
	assert.Equal(t, tablerender.NoRow, src.RowIndex())
}

func TestRenderCustomStyleResolver(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	table.ColumnClasses = "c1,c2"
	table.Columns[1].StyleClass = "num"
	resolver := func(col *tablerender.Column, tableClass string) (string, error) {
		return strings.TrimSpace(tableClass + " " + col.StyleClass), nil
	}
	out := render(t, table, tablerender.WithStyleResolver(resolver))
	assert.Contains(t, out, `<td class="c2 num">1</td>`)
}

func TestRenderCustomCellEncoder(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:2])
	enc := func(s tablerender.Sink, col *tablerender.Column, row int) error {
		return s.WriteText(col.ID + ":" + string(rune('0'+row)))
	}
	out := render(t, table, tablerender.WithCellEncoder(enc))
	assert.Contains(t, out, "<td>name:1</td>\n<td>qty:1</td>\n")
}

// --- Header, footer, caption, column groups ---

func TestRenderHeaderOnOneColumn(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems)
	table.Columns[0].Header = tablerender.Text("Name")
	out := render(t, table)
	assert.Contains(t, out, "<table>\n<thead>\n<tr>\n<th scope=\"col\">Name</th>\n<th scope=\"col\"></th>\n</tr>\n</thead>\n<tbody>\n")
	assert.NotContains(t, out, "colgroup")
	assert.NotContains(t, out, "<tfoot>")
}

func TestRenderHeaderAndFooter(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:2])
	table.HeaderClass = "hd"
	table.FooterClass = "ft"
	table.Header = tablerender.Text("People")
	table.Footer = tablerender.Text("2 people")
	table.Columns[0].Header = tablerender.Text("Name")
	table.Columns[0].HeaderClass = "name-h"
	table.Columns[0].Footer = tablerender.Text("Total")
	table.Columns[1].Header = tablerender.Text("Qty")
	table.Columns[1].Footer = tablerender.Text("3")
	table.Columns[1].FooterClass = "qty-f"

	out := render(t, table)
	want := "<table>\n" +
		"<thead>\n" +
		"<tr><th class=\"hd\" colspan=\"2\" scope=\"colgroup\">People</th></tr>\n" +
		"<tr>\n" +
		"<th class=\"name-h\" scope=\"col\">Name</th>\n" +
		"<th class=\"hd\" scope=\"col\">Qty</th>\n" +
		"</tr>\n" +
		"</thead>\n" +
		"<tfoot>\n" +
		"<tr>\n" +
		"<td class=\"ft\">Total</td>\n" +
		"<td class=\"qty-f\">3</td>\n" +
		"</tr>\n" +
		"<tr><td class=\"ft\" colspan=\"2\">2 people</td></tr>\n" +
		"</tfoot>\n" +
		"<tbody>\n" + itemRow("a", "1") + itemRow("b", "2") + "</tbody>\n" +
		"</table>\n"
	assert.Equal(t, want, out)
}

func TestRenderTableHeaderSingleColumn(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	table.Columns[1].Hidden = true
	table.Header = tablerender.Text("Names")
	table.Footer = tablerender.Text("End")
	out := render(t, table)
	assert.Contains(t, out, "<thead>\n<tr><th scope=\"colgroup\">Names</th></tr>\n</thead>\n")
	assert.Contains(t, out, "<tfoot>\n<tr><td>End</td></tr>\n</tfoot>\n")
	assert.NotContains(t, out, "colspan")
}

func TestRenderFooterOnlyColumns(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	table.Columns[1].Footer = tablerender.Text("sum")
	out := render(t, table)
	assert.Contains(t, out, "<tfoot>\n<tr>\n<td></td>\n<td>sum</td>\n</tr>\n</tfoot>\n")
	assert.NotContains(t, out, "<thead>")
}

func TestRenderHiddenColumnFacetsIgnored(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	table.Columns[1].Header = tablerender.Text("Qty")
	table.Columns[1].Hidden = true
	out := render(t, table)
	assert.NotContains(t, out, "<thead>")
	assert.NotContains(t, out, "Qty")
}

func TestRenderTableStartAttributes(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(nil)
	table.ID = "t1"
	table.StyleClass = "grid"
	table.Style = "width: 100%"
	table.Attributes = map[string]string{"summary": "s", "border": "1"}
	out := render(t, table)
	assert.True(t, strings.HasPrefix(out, "<table id=\"t1\" class=\"grid\" style=\"width: 100%\" border=\"1\" summary=\"s\">\n"), out)
}

func TestRenderCaption(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(nil)
	table.Caption = tablerender.Text("Items & more")
	table.CaptionClass = "cap"
	table.CaptionStyle = "color: red"
	out := render(t, table)
	assert.True(t, strings.HasPrefix(out, "<table>\n<caption class=\"cap\" style=\"color: red\">Items &amp; more</caption>\n<tbody>\n"), out)
}

func TestRenderColumnGroupsVerbatim(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(nil)
	table.ColGroups = tablerender.Raw(`<colgroup><col span="2"/></colgroup>`)
	table.Columns[0].Header = tablerender.Text("Name")
	out := render(t, table)
	assert.Contains(t, out, "<table>\n<colgroup><col span=\"2\"/></colgroup><thead>\n")
}

func TestRenderOrderHeaderFooterBeforeBody(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems)
	table.Caption = tablerender.Text("c")
	table.ColGroups = tablerender.Raw("<colgroup/>")
	table.Header = tablerender.Text("h")
	table.Footer = tablerender.Text("f")
	doc := renderTree(t, table)
	var tags []string
	for _, e := range doc.Root().ChildElements() {
		tags = append(tags, e.Tag)
	}
	assert.Equal(t, []string{"caption", "colgroup", "thead", "tfoot", "tbody"}, tags)
}

// --- Failures ---

func TestRenderSinkFailurePropagates(t *testing.T) {
	t.Parallel()
	for n := range 40 {
		table, src := itemTable(threeItems)
		table.Columns[0].Header = tablerender.Text("Name")
		w := &failAfterN{n: n}
		err := tablerender.New().Render(table, tablerender.NewMarkupWriter(w))
		require.ErrorIs(t, err, errWriteFailed, "n=%d", n)
		assert.Equal(t, tablerender.NoRow, src.RowIndex(), "n=%d", n)
	}
}

func TestRenderCursorFailurePropagates(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(nil)
	cur := &failingCursor{Slice: tablerender.NewSlice(threeItems), failAt: 2}
	table.Data = cur
	var buf bytes.Buffer
	err := tablerender.New().Render(table, tablerender.NewMarkupWriter(&buf))
	require.ErrorIs(t, err, errCursorFailed)
	assert.Equal(t, tablerender.NoRow, cur.RowIndex())
	assert.NotContains(t, buf.String(), "</table>")
}

func TestRenderContentFailurePropagates(t *testing.T) {
	t.Parallel()
	errContent := errors.New("content failed")
	table, src := itemTable(threeItems)
	table.Columns[1].Children = []tablerender.Component{
		tablerender.ComponentFunc(func(s tablerender.Sink, row int) error {
			if row == 1 {
				return errContent
			}
			return s.WriteText("ok")
		}),
	}
	var buf bytes.Buffer
	err := tablerender.New().Render(table, tablerender.NewMarkupWriter(&buf))
	require.ErrorIs(t, err, errContent)
	assert.Equal(t, tablerender.NoRow, src.RowIndex())
	assert.NotContains(t, buf.String(), ">c<")
}

// --- Passes ---

func TestRenderIdempotent(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems)
	table.BodyRows = "1"
	table.RowClasses = "odd,even"
	table.Columns[0].Header = tablerender.Text("Name")
	first := render(t, table)
	second := render(t, table)
	assert.Equal(t, first, second)
}

func TestPassPhases(t *testing.T) {
	t.Parallel()
	table, src := itemTable(threeItems)
	require.NoError(t, src.SetRowIndex(2))

	var buf bytes.Buffer
	r := tablerender.New()
	p := tablerender.NewPass(table, tablerender.NewMarkupWriter(&buf))
	assert.Same(t, table, p.Table())

	require.NoError(t, r.EncodeBegin(p))
	assert.Equal(t, tablerender.NoRow, src.RowIndex())
	assert.Equal(t, "<table>\n", buf.String())

	require.NoError(t, r.EncodeChildren(p))
	assert.Equal(t, tablerender.NoRow, src.RowIndex())

	require.NoError(t, r.EncodeEnd(p))
	assert.True(t, strings.HasSuffix(buf.String(), "</tbody>\n</table>\n"))
	assert.NoError(t, p.Err())

	require.ErrorIs(t, r.EncodeBegin(p), tablerender.ErrPassClosed)
	require.ErrorIs(t, r.EncodeChildren(p), tablerender.ErrPassClosed)
}

func TestPassDoesNotSeeStaleColumns(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	assert.Contains(t, render(t, table), "<td>1</td>")

	table.Columns[1].Hidden = true
	out := render(t, table)
	assert.NotContains(t, out, "<td>1</td>")
	assert.Contains(t, out, "<tr>\n<td>a</td>\n</tr>\n")
}

func TestPassMetadataFixedWithinPass(t *testing.T) {
	t.Parallel()
	table, _ := itemTable(threeItems[:1])
	table.Columns[0].Header = tablerender.Text("Name")

	var buf bytes.Buffer
	r := tablerender.New()
	p := tablerender.NewPass(table, tablerender.NewMarkupWriter(&buf))
	require.NoError(t, r.EncodeBegin(p))
	// Removing a column mid-pass does not change the column list.
	table.Columns[1].Hidden = true
	require.NoError(t, r.EncodeChildren(p))
	require.NoError(t, r.EncodeEnd(p))
	assert.Contains(t, buf.String(), "<td>1</td>")
}

func TestRenderHiddenTable(t *testing.T) {
	t.Parallel()
	table, src := itemTable(threeItems)
	table.Hidden = true
	out := render(t, table)
	assert.Empty(t, out)
	assert.Equal(t, tablerender.NoRow, src.RowIndex())
}

func TestRenderSeqSourceTwice(t *testing.T) {
	t.Parallel()
	src := tablerender.NewSeq(func(yield func(item) bool) {
		for _, it := range threeItems {
			if !yield(it) {
				return
			}
		}
	})
	defer src.Stop()
	table := &tablerender.Table{
		Data: src,
		Columns: []*tablerender.Column{
			{Children: []tablerender.Component{tablerender.Value(src, func(i item) string { return i.Name })}},
		},
	}
	first := render(t, table)
	second := render(t, table)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, strings.Count(first, "<tr>"))
	assert.Equal(t, 3, src.RowCount())
}

func TestRenderLogsRows(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	table, _ := itemTable(threeItems)
	table.ID = "items"
	table.BodyRows = "2"
	render(t, table, tablerender.WithLogger(logger))
	out := logs.String()
	assert.Contains(t, out, "Encoded table rows")
	assert.Contains(t, out, `"rows":3`)
	assert.Contains(t, out, `"bodyGroups":2`)
	assert.Contains(t, out, `"table":"items"`)
}
