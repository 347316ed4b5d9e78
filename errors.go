package xmlrw

import (
	"errors"
	"fmt"
)

var (
	// ErrReaderClosed is returned by operations on a closed Reader.
	ErrReaderClosed = errors.New("reader is closed")
	// ErrWriterClosed is returned by operations on a closed Writer.
	ErrWriterClosed = errors.New("writer is closed")
	// ErrNoElementName is returned by the name accessors when the
	// reader has no current node.
	ErrNoElementName = errors.New("failed to get element name")
	// ErrNoValue is returned by Value when the reader has no current
	// node.
	ErrNoValue = errors.New("failed to get a value")
)

// ErrParseError describes why a document could not be read: a numeric
// defect code, the position the defect was detected at, and the text
// of the offending line when one is available. A zero Code means the
// failure did not come from the document itself; Err then carries the
// underlying cause.
type ErrParseError struct {
	Code       uint32
	Column     int
	Err        error
	Line       string
	LineNumber int
}

// Message resolves the defect code against the built-in message
// tables. Codes that fall into a gap of the tables yield an empty
// string; they are still valid defects.
func (e ErrParseError) Message() string {
	return readerMessage(e.Code)
}

func (e ErrParseError) Error() string {
	msg := e.Message()
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	s := fmt.Sprintf("%s at line %d, column %d", msg, e.LineNumber, e.Column)
	if e.Line != "" {
		s = s + fmt.Sprintf("\n -> '%s' <-- around here", e.Line)
	}
	return s
}

func (e ErrParseError) Unwrap() error {
	return e.Err
}

// ErrWriteError describes why a node could not be written. A zero
// Code means the failure came from the output stream rather than from
// the requested operation; Err then carries the underlying cause.
type ErrWriteError struct {
	Code uint32
	Err  error
}

// Message resolves the defect code against the built-in message
// tables, yielding an empty string for codes in a table gap.
func (e ErrWriteError) Message() string {
	return writerMessage(e.Code)
}

func (e ErrWriteError) Error() string {
	msg := e.Message()
	switch {
	case msg == "" && e.Err != nil:
		return e.Err.Error()
	case msg != "" && e.Err != nil:
		return msg + ": " + e.Err.Error()
	case msg == "":
		return "write error"
	}
	return msg
}

func (e ErrWriteError) Unwrap() error {
	return e.Err
}
