package tablerender

import (
	"fmt"
	"strings"
	"text/template"
)

// Component is content placed in a facet or in a column body. Encode is
// called with the row being rendered, or NoRow for header, footer, caption
// and column-group content.
type Component interface {
	Encode(s Sink, row int) error
}

// ComponentFunc adapts a function to a Component.
type ComponentFunc func(s Sink, row int) error

func (f ComponentFunc) Encode(s Sink, row int) error { return f(s, row) }

// Text returns a Component that writes escaped text.
func Text(text string) Component {
	return ComponentFunc(func(s Sink, _ int) error {
		return s.WriteText(text)
	})
}

// Raw returns a Component that writes markup verbatim.
func Raw(markup string) Component {
	return ComponentFunc(func(s Sink, _ int) error {
		return s.WriteRaw(markup)
	})
}

// Group encodes its components in order.
func Group(components ...Component) Component {
	return ComponentFunc(func(s Sink, row int) error {
		for _, c := range components {
			if err := c.Encode(s, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// Value returns a Component that writes fn applied to the item at the row
// being rendered. Nothing is written when the row is not in src.
func Value[T any](src RowSource[T], fn func(T) string) Component {
	return ComponentFunc(func(s Sink, row int) error {
		item, ok := src.At(row)
		if !ok {
			return nil
		}
		return s.WriteText(fn(item))
	})
}

// Template returns a Component that executes a Go text/template against the
// item at the row being rendered and writes the result as text.
func Template[T any](src RowSource[T], tmplStr string) (Component, error) {
	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	return ComponentFunc(func(s Sink, row int) error {
		item, ok := src.At(row)
		if !ok {
			return nil
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, item); err != nil {
			return err
		}
		return s.WriteText(sb.String())
	}), nil
}
