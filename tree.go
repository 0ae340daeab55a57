package tablerender

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// TreeSink is a Sink that builds an element tree. Raw markup must be a
// well-formed XML fragment.
type TreeSink struct {
	doc  *etree.Document
	cur  *etree.Element
	last *etree.Element
}

// NewTreeSink returns an empty TreeSink.
func NewTreeSink() *TreeSink {
	doc := etree.NewDocument()
	return &TreeSink{doc: doc, cur: &doc.Element}
}

// Document returns the tree built so far.
func (t *TreeSink) Document() *etree.Document { return t.doc }

func (t *TreeSink) StartElement(name string) error {
	t.cur = t.cur.CreateElement(name)
	t.last = t.cur
	return nil
}

func (t *TreeSink) WriteAttribute(name, value string) error {
	if t.last == nil {
		return fmt.Errorf("%w: %s", ErrNoOpenTag, name)
	}
	t.last.CreateAttr(name, value)
	return nil
}

func (t *TreeSink) WriteText(text string) error {
	t.last = nil
	t.cur.CreateText(text)
	return nil
}

func (t *TreeSink) WriteRaw(markup string) error {
	t.last = nil
	frag := etree.NewDocument()
	if err := frag.ReadFromString("<fragment>" + markup + "</fragment>"); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedMarkup, err)
	}
	root := frag.Root()
	for _, tok := range append([]etree.Token(nil), root.Child...) {
		t.cur.AddChild(tok)
	}
	return nil
}

func (t *TreeSink) EndElement(name string) error {
	if t.cur.Tag != name || t.cur.Parent() == nil {
		return fmt.Errorf("%w: </%s> does not close <%s>", ErrUnbalanced, name, t.cur.Tag)
	}
	t.cur = t.cur.Parent()
	t.last = nil
	return nil
}

// WriteTo writes the tree as indented XML. Whitespace-only text written by
// the renderer is replaced by the indentation.
func (t *TreeSink) WriteTo(w io.Writer) (int64, error) {
	t.doc.Indent(2)
	return t.doc.WriteTo(w)
}
