package xmlrw

import (
	"io"
	"log/slog"
	"os"

	"github.com/lestrrat-go/pdebug"
	"github.com/lestrrat-go/xmlrw/internal/engine"
	"github.com/pkg/errors"
)

// the null logger is a logger that does nothing
var nullLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Reader is a forward-only pull cursor over an XML document. Read
// advances it one node at a time; the accessors describe the node it
// currently sits on. A Reader must not be copied after first use.
//
// Reading is strictly incremental: input is consumed as nodes are
// requested, so a defect in the document is only discovered once the
// cursor reaches it.
type Reader struct {
	noCopy    noCopy
	eng       engine.DocumentReader
	tok       *engine.Token
	attr      int
	owned     io.Closer
	exhausted bool
	tlog      *slog.Logger
}

// OpenReader creates a Reader over the file at path. The file is
// owned by the Reader and released by Close.
func OpenReader(path string, options ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, `failed to open file "%s"`, path)
	}
	if pdebug.Enabled {
		pdebug.Printf("Reading from file '%s'", path)
	}
	r, err := NewReader(f, options...)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.owned = f
	return r, nil
}

// NewReader creates a Reader over src. The stream is borrowed, not
// owned: Close never closes it. No input is consumed until the first
// Read call.
func NewReader(src io.Reader, options ...ReaderOption) (*Reader, error) {
	maxDepth := engine.DefaultMaxDepth
	prohibitDTD := false
	tlog := nullLogger
	for _, o := range options {
		switch o.Ident().(type) {
		case identMaxDepth:
			maxDepth = o.Value().(int)
		case identProhibitDTD:
			prohibitDTD = o.Value().(bool)
		case identTraceLogger:
			tlog = o.Value().(*slog.Logger)
		}
	}

	tk, err := engine.NewTokenizer(src, maxDepth, prohibitDTD)
	if err != nil {
		return nil, errors.Wrap(err, `failed to create XML reader`)
	}
	return &Reader{eng: tk, attr: -1, tlog: tlog}, nil
}

// Read advances the cursor to the next node in document order. It
// returns true when positioned on a node, and false with a nil error
// once the document has been consumed; after that it keeps returning
// false. If the cursor sits on an attribute, Read resumes from the
// attribute's element as if the attributes had never been visited.
func (r *Reader) Read() (bool, error) {
	if r.eng == nil {
		return false, ErrReaderClosed
	}
	if r.exhausted {
		return false, nil
	}

	tok, err := r.eng.Next()
	if err != nil {
		return false, r.wrapParseError(err)
	}
	r.attr = -1
	if tok == nil {
		r.tok = nil
		r.exhausted = true
		r.tlog.Debug("read", slog.Bool("exhausted", true))
		return false, nil
	}
	r.tok = tok
	r.tlog.Debug("read",
		slog.String("type", NodeType(tok.Kind).String()),
		slog.String("name", tok.QName()),
		slog.Int("line", r.eng.LineNumber()),
	)
	return true, nil
}

func (r *Reader) wrapParseError(err error) error {
	var d *engine.Defect
	if errors.As(err, &d) {
		return ErrParseError{
			Code:       d.Code,
			Column:     d.Column,
			Err:        d.Cause,
			Line:       d.LineText,
			LineNumber: d.Line,
		}
	}
	return ErrParseError{
		Err:        err,
		Column:     r.eng.Column(),
		LineNumber: r.eng.LineNumber(),
	}
}

// NodeType reports the kind of the current node, or NoneNode when the
// cursor has no current node (before the first Read, after
// exhaustion, or after Close).
func (r *Reader) NodeType() NodeType {
	if r.tok == nil {
		return NoneNode
	}
	if r.attr >= 0 {
		return AttributeNode
	}
	return NodeType(r.tok.Kind)
}

// IsEmptyElement reports whether the current node is an element in
// the self-closing form. It is false on every other kind of node; a
// self-closing element produces no end element node.
func (r *Reader) IsEmptyElement() bool {
	return r.tok != nil && r.attr < 0 && r.tok.Kind == engine.KindElement && r.tok.Empty
}

// LocalName returns the local part of the current node's name. Node
// kinds that carry no name yield an empty string.
func (r *Reader) LocalName() (string, error) {
	if r.eng == nil {
		return "", ErrReaderClosed
	}
	if r.tok == nil {
		return "", ErrNoElementName
	}
	if r.attr >= 0 {
		return r.tok.Attrs[r.attr].Local, nil
	}
	return r.tok.Local, nil
}

// QualifiedName returns the current node's name as it appeared in the
// document, prefix included. Node kinds that carry no name yield an
// empty string.
func (r *Reader) QualifiedName() (string, error) {
	if r.eng == nil {
		return "", ErrReaderClosed
	}
	if r.tok == nil {
		return "", ErrNoElementName
	}
	if r.attr >= 0 {
		return r.tok.Attrs[r.attr].QName(), nil
	}
	return r.tok.QName(), nil
}

// Value returns the current node's value: character data for text,
// CDATA, comment and whitespace nodes, the data for a processing
// instruction, and the value for an attribute. Node kinds that carry
// no value yield an empty string.
func (r *Reader) Value() (string, error) {
	if r.eng == nil {
		return "", ErrReaderClosed
	}
	if r.tok == nil {
		return "", ErrNoValue
	}
	if r.attr >= 0 {
		return r.tok.Attrs[r.attr].Value, nil
	}
	return r.tok.Value, nil
}

// MoveToFirstAttribute positions the cursor on the first attribute of
// the current node, reporting false when it has none. The XML
// declaration exposes version, encoding and standalone this way, and
// namespace declarations are visited like any other attribute.
func (r *Reader) MoveToFirstAttribute() (bool, error) {
	if r.eng == nil {
		return false, ErrReaderClosed
	}
	if r.tok == nil || len(r.tok.Attrs) == 0 {
		return false, nil
	}
	r.attr = 0
	return true, nil
}

// MoveToNextAttribute positions the cursor on the next attribute.
// When the cursor is not on an attribute it behaves like
// MoveToFirstAttribute. Past the last attribute it reports false and
// the cursor stays where it is.
func (r *Reader) MoveToNextAttribute() (bool, error) {
	if r.eng == nil {
		return false, ErrReaderClosed
	}
	if r.attr < 0 {
		return r.MoveToFirstAttribute()
	}
	if r.attr+1 >= len(r.tok.Attrs) {
		return false, nil
	}
	r.attr++
	return true, nil
}

// Line reports the 1-based line number of the position the underlying
// scan currently sits at. It is 0 when no position is available:
// before the first Read, or after Close.
func (r *Reader) Line() int {
	if r.eng == nil {
		return 0
	}
	return r.eng.LineNumber()
}

// Col reports the column of the position the underlying scan
// currently sits at, with the same zero convention as Line.
func (r *Reader) Col() int {
	if r.eng == nil {
		return 0
	}
	return r.eng.Column()
}

// Close releases the Reader. A stream handed to NewReader is left
// open; a file opened by OpenReader is closed. Close is idempotent.
func (r *Reader) Close() error {
	if r.eng == nil {
		return nil
	}
	r.eng = nil
	r.tok = nil
	r.attr = -1
	if c := r.owned; c != nil {
		r.owned = nil
		return c.Close()
	}
	return nil
}
