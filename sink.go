package tablerender

// Sink is an ordered, append-only markup writer. Calls must arrive in
// document order; a sink has no way to revise what it already accepted.
type Sink interface {
	StartElement(name string) error
	// WriteAttribute adds an attribute to the most recently started element.
	// It is only valid before any content is written into that element.
	WriteAttribute(name, value string) error
	WriteText(text string) error
	// WriteRaw writes markup verbatim.
	WriteRaw(markup string) error
	EndElement(name string) error
}
