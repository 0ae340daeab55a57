package tablerender

import (
	"fmt"
	"html"
	"io"
)

// MarkupWriter is a Sink that writes HTML to an io.Writer. Start tags are
// closed lazily so attributes can follow StartElement. Text and attribute
// values are escaped; WriteRaw is not.
type MarkupWriter struct {
	w       io.Writer
	open    []string
	pending bool
}

// NewMarkupWriter returns a MarkupWriter writing to w.
func NewMarkupWriter(w io.Writer) *MarkupWriter {
	return &MarkupWriter{w: w}
}

func (m *MarkupWriter) closeStart() error {
	if !m.pending {
		return nil
	}
	m.pending = false
	_, err := io.WriteString(m.w, ">")
	return err
}

func (m *MarkupWriter) StartElement(name string) error {
	if err := m.closeStart(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(m.w, "<%s", name); err != nil {
		return err
	}
	m.open = append(m.open, name)
	m.pending = true
	return nil
}

func (m *MarkupWriter) WriteAttribute(name, value string) error {
	if !m.pending {
		return fmt.Errorf("%w: %s", ErrNoOpenTag, name)
	}
	_, err := fmt.Fprintf(m.w, ` %s="%s"`, name, html.EscapeString(value))
	return err
}

func (m *MarkupWriter) WriteText(text string) error {
	if err := m.closeStart(); err != nil {
		return err
	}
	_, err := io.WriteString(m.w, html.EscapeString(text))
	return err
}

func (m *MarkupWriter) WriteRaw(markup string) error {
	if err := m.closeStart(); err != nil {
		return err
	}
	_, err := io.WriteString(m.w, markup)
	return err
}

func (m *MarkupWriter) EndElement(name string) error {
	if len(m.open) == 0 || m.open[len(m.open)-1] != name {
		return fmt.Errorf("%w: </%s> does not close %s", ErrUnbalanced, name, m.innermost())
	}
	if err := m.closeStart(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(m.w, "</%s>", name); err != nil {
		return err
	}
	m.open = m.open[:len(m.open)-1]
	return nil
}

// Depth returns the number of elements still open.
func (m *MarkupWriter) Depth() int { return len(m.open) }

func (m *MarkupWriter) innermost() string {
	if len(m.open) == 0 {
		return "any element"
	}
	return "<" + m.open[len(m.open)-1] + ">"
}
