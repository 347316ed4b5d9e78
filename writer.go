package xmlrw

import (
	"io"
	"os"

	"github.com/lestrrat-go/pdebug"
	"github.com/lestrrat-go/xmlrw/internal/engine"
	"github.com/pkg/errors"
)

// Writer is a forward-only cursor that emits an XML document node by
// node. It enforces well-formedness as it goes: elements nest, names
// are legal, namespace declarations are consistent, and nothing
// follows the end of the document. A Writer must not be copied after
// first use.
//
// Output is buffered; EndDocument and Close flush it.
type Writer struct {
	noCopy noCopy
	eng    engine.DocumentWriter
	owned  io.Closer
}

// OpenWriter creates a Writer over the file at path, creating or
// truncating it. The file is owned by the Writer and released by
// Close.
func OpenWriter(path string, options ...WriterOption) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, `failed to open file "%s"`, path)
	}
	if pdebug.Enabled {
		pdebug.Printf("Writing to file '%s'", path)
	}
	w, err := NewWriter(f, options...)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.owned = f
	return w, nil
}

// NewWriter creates a Writer over dst. The stream is borrowed, not
// owned: Close flushes it but never closes it.
func NewWriter(dst io.Writer, options ...WriterOption) (*Writer, error) {
	indent := ""
	for _, o := range options {
		switch o.Ident().(type) {
		case identIndent:
			indent = o.Value().(string)
		}
	}

	sz, err := engine.NewSerializer(dst, indent)
	if err != nil {
		return nil, errors.Wrap(err, `failed to create XML writer`)
	}
	return &Writer{eng: sz}, nil
}

func (w *Writer) wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var d *engine.Defect
	if errors.As(err, &d) {
		return ErrWriteError{Code: d.Code, Err: d.Cause}
	}
	return ErrWriteError{Err: err}
}

// StartDocument emits the XML declaration, always declaring version
// 1.0 and UTF-8; sa selects the standalone pseudo-attribute. The
// declaration must come before anything else, and at most once.
func (w *Writer) StartDocument(sa Standalone) error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.StartDocument(engine.Standalone(sa)))
}

// EndDocument closes every element still open, innermost first,
// terminates the output with a newline, and flushes it. Nothing can
// be written after it.
func (w *Writer) EndDocument() error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.EndDocument())
}

// StartElement opens an element. Prefix and namespace URI may both be
// empty for a name with no explicit qualification; a non-empty prefix
// with an empty URI uses whatever the prefix is bound to in the
// enclosing scope. A prefix/URI pair not yet in scope is declared on
// this element.
func (w *Writer) StartElement(prefix, local, uri string) error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.StartElement(prefix, local, uri))
}

// EndElement closes the innermost open element. An element closed
// before any content was written collapses to the self-closing form.
func (w *Writer) EndElement() error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.EndElement())
}

// Attribute adds an attribute to the element whose start tag is still
// open; it fails once content has been written. Passing a namespace
// URI with an empty prefix reuses a prefix already bound to that URI,
// since attributes never take the default namespace.
func (w *Writer) Attribute(prefix, local, uri, value string) error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.Attribute(prefix, local, uri, value))
}

// Text emits character data inside the current element, escaping
// markup characters as needed.
func (w *Writer) Text(v string) error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.Text(v))
}

// CData emits a CDATA section inside the current element. The payload
// must not contain the section terminator.
func (w *Writer) CData(v string) error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.CData(v))
}

// Comment emits a comment. The text must not contain '--' or end
// with '-'.
func (w *Writer) Comment(text string) error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.Comment(text))
}

// ProcessingInstruction emits a processing instruction. Any casing of
// "xml" is rejected as a target, and the data must not contain the
// terminator.
func (w *Writer) ProcessingInstruction(target, data string) error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.ProcessingInstruction(target, data))
}

// Flush forces buffered output to the underlying stream without
// closing anything.
func (w *Writer) Flush() error {
	if w.eng == nil {
		return ErrWriterClosed
	}
	return w.wrapWriteError(w.eng.Flush())
}

// Close flushes buffered output and releases the Writer. A stream
// handed to NewWriter is left open; a file opened by OpenWriter is
// closed. Close is idempotent. Elements still open are not closed;
// use EndDocument for that.
func (w *Writer) Close() error {
	if w.eng == nil {
		return nil
	}
	err := w.eng.Flush()
	w.eng = nil
	if c := w.owned; c != nil {
		w.owned = nil
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return ErrWriteError{Err: err}
	}
	return nil
}
