package tablerender

// Table is the tabular component. Facets are named slots; a nil slot is an
// absent facet.
type Table struct {
	ID         string
	Hidden     bool
	StyleClass string
	Style      string
	// Attributes are passed through to the table element in key order.
	Attributes map[string]string

	HeaderClass  string
	FooterClass  string
	CaptionClass string
	CaptionStyle string
	// ColumnClasses is a comma-separated list of classes handed to body
	// cells by column position.
	ColumnClasses string
	// RowClasses is a comma-separated list of classes cycled over the
	// rendered body rows.
	RowClasses string
	// BodyRows is a comma-separated list of row indices that each start a
	// new body group.
	BodyRows string

	// Rows limits the number of rows rendered. Zero or negative means all.
	Rows int
	// First is the number of leading rows to skip.
	First int

	Caption   Component
	Header    Component
	Footer    Component
	ColGroups Component

	Columns []*Column
	Data    Cursor
}

// Column describes one table column.
type Column struct {
	ID        string
	Hidden    bool
	RowHeader bool

	HeaderClass string
	FooterClass string
	StyleClass  string

	Header Component
	Footer Component

	// Children are encoded into the column's cell for every row.
	Children []Component
}
