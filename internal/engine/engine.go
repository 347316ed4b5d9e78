// Package engine implements the streaming machinery behind the public
// cursors: a pull tokenizer that decomposes a UTF-8 XML byte stream
// into nodes one call at a time, and a serializer that emits markup
// while enforcing nesting and namespace legality. The package reports
// violations as *Defect values carrying a numeric code; rendering the
// code as a human readable message is the caller's business.
package engine

import "fmt"

// Namespace URIs with fixed, reserved meanings.
const (
	XMLNamespaceURI   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespaceURI = "http://www.w3.org/2000/xmlns/"
)

// MaxNameLength caps a single name token so that a malicious document
// cannot make the tokenizer buffer without bound.
const MaxNameLength = 50000

// DefaultMaxDepth is the element nesting limit applied unless the
// caller picks another one.
const DefaultMaxDepth = 256

// Standalone is the tri-state standalone pseudo-attribute of the XML
// declaration.
type Standalone int

const (
	StandaloneOmit Standalone = iota
	StandaloneYes
	StandaloneNo
)

// DocumentReader is the capability the read cursor binds to: advance
// to the next node, and report where the scan currently sits.
type DocumentReader interface {
	Next() (*Token, error)
	LineNumber() int
	Column() int
}

// DocumentWriter is the capability the write cursor binds to. Every
// method reports legality violations as *Defect and transport problems
// as plain errors.
type DocumentWriter interface {
	StartDocument(sa Standalone) error
	EndDocument() error
	StartElement(prefix, local, uri string) error
	EndElement() error
	Attribute(prefix, local, uri, value string) error
	Text(s string) error
	CData(s string) error
	Comment(text string) error
	ProcessingInstruction(target, data string) error
	Flush() error
}

var (
	_ DocumentReader = (*Tokenizer)(nil)
	_ DocumentWriter = (*Serializer)(nil)
)

// Defect describes a well-formedness or legality violation. Code is a
// stable numeric identifier; position fields are populated by the
// tokenizer and left zero by the serializer, which has no notion of an
// input position.
type Defect struct {
	Code     uint32
	Line     int
	Column   int
	LineText string
	Cause    error
}

func (d *Defect) Error() string {
	if d.Cause != nil {
		return fmt.Sprintf("xml defect %#010x at line %d, column %d: %s", d.Code, d.Line, d.Column, d.Cause)
	}
	return fmt.Sprintf("xml defect %#010x at line %d, column %d", d.Code, d.Line, d.Column)
}

func (d *Defect) Unwrap() error {
	return d.Cause
}
