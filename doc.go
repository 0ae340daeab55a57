// Package tablerender renders a repeating data collection as a table.
//
// A [Table] holds column definitions, named facets (caption, header, footer,
// column groups) and a data [Cursor]. A [Renderer] walks the cursor and
// writes markup to a [Sink] in three phases:
//
//   - [Renderer.EncodeBegin] writes the table start tag, caption, column
//     groups, header and footer
//   - [Renderer.EncodeChildren] writes one or more body groups of rows
//   - [Renderer.EncodeEnd] writes the table end tag
//
// All state of one rendering lives in a [Pass]. [Renderer.Render] runs the
// three phases of a fresh pass:
//
//	src := tablerender.NewSlice(people)
//	t := &tablerender.Table{
//		Data: src,
//		Columns: []*tablerender.Column{
//			{Header: tablerender.Text("Name"), Children: []tablerender.Component{
//				tablerender.Value(src, func(p Person) string { return p.Name }),
//			}},
//		},
//	}
//	err := tablerender.New().Render(t, tablerender.NewMarkupWriter(os.Stdout))
//
// # Body Groups
//
// [Table.BodyRows] lists row indices that each start a new body group. Rows
// before the first listed index form their own group. Without it all rows go
// in one group.
//
// # Classes
//
// [Table.ColumnClasses] hands classes to body cells by column position and
// [Table.RowClasses] cycles classes over the rendered rows. A column that
// receives a table-wide class must not also set [Column.StyleClass]; the
// renderer fails with [ErrClassConflict].
//
// # Sinks
//
//   - [MarkupWriter]: HTML to an io.Writer
//   - [TreeSink]: an etree element tree, written as indented XML
//   - [TextSink]: a box-drawn text table
//
// # Definitions
//
// [LoadConfig] reads a [TableConfig] from YAML or TOML and [BuildTable] binds
// it to a data source. Column values are Go text/template expressions.
//
// For quick output, [Write] and [Marshal] build a table from items that
// implement [Rower], with optional [Headed], [Footered], [Titled] and
// [Classed].
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrClassConflict]: table-wide column class and column style class on
//     the same cell
//   - [ErrMalformedBodyRows]: a body row token is not an integer
//   - [ErrUnbalanced]: an end tag does not match the open element
//   - [ErrUnsupportedFormat]: unknown output format
//   - [ErrUnsupportedConfig]: unknown table definition syntax
//   - [ErrInvalidTemplate]: invalid column template
//
// Errors from a Sink or Cursor are returned unchanged.
package tablerender
