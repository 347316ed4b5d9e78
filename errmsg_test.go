package xmlrw

import (
	"errors"
	"testing"

	"github.com/lestrrat-go/xmlrw/internal/engine"
	"github.com/stretchr/testify/require"
)

func TestReaderMessages(t *testing.T) {
	inputs := map[uint32]string{
		engine.CodeUnexpectedEOF:   "unexpected end of input",
		engine.CodeQuote:           "quote expected",
		engine.CodeElementMatch:    "well-formedness constraint: element type match",
		engine.CodeUniqueAttribute: "well-formedness constraint: unique attribute spec",
		engine.CodeMaxElementDepth: "element depth exceeds limit in XmlReaderProperty_MaxElementDepth",
		// this one carries a typo that consumers match on; it stays
		engine.CodeXMLNamespaceURIReserved: `xml namespace URI (http://www.w3.org/XML/1998/namespace) must bee assigned only to prefix "xml"`,
		engine.CodeCharRefDigit:            "character in character entity is not a decimal digit as was expected",
		engine.CodeCharRefValue:            "character entity has invalid Unicode value",
	}
	for code, msg := range inputs {
		require.Equal(t, msg, readerMessage(code), "message for %#x", code)
	}
}

func TestWriterMessages(t *testing.T) {
	inputs := map[uint32]string{
		engine.CodeWritePrefixConflict:     "namespace prefix is already declared with a different namespace",
		engine.CodeWriteDuplicateAttribute: "duplicate attribute",
		engine.CodeWriteUndeclaredNamespace: "namespace is not declared",
		engine.CodeWriteInvalidAction:       "performing the requested action would result in invalid XML document",
		// character entity codes resolve through either table
		engine.CodeCharRefHexDigit: "character in character entity is not a hexadecimal digit as was expected",
	}
	for code, msg := range inputs {
		require.Equal(t, msg, writerMessage(code), "message for %#x", code)
	}
}

func TestMessageGaps(t *testing.T) {
	// codes inside a table hole are valid defects with no message
	gaps := []uint32{
		engine.ReaderDefectBase | 0x05,
		engine.ReaderDefectBase | 0x2E,
		engine.ReaderDefectBase | 0x51,
		engine.ReaderDefectBase | 0x60,
		engine.WriterDefectBase | 0x0D,
		engine.MiscDefectBase | 0x01,
	}
	for _, code := range gaps {
		require.Equal(t, "", readerMessage(code), "reader gap %#x", code)
	}
	require.Equal(t, "", writerMessage(engine.WriterDefectBase|0x0D), "writer gap")

	// a code outside every known block has no message either
	require.Equal(t, "", readerMessage(0xC00D0001), "unknown block")
	require.Equal(t, "", writerMessage(0xC00D0001), "unknown block")
	require.Equal(t, "", readerMessage(0), "zero code")
}

func TestErrParseErrorRendering(t *testing.T) {
	e := ErrParseError{
		Code:       engine.CodeQuote,
		LineNumber: 3,
		Column:     5,
		Line:       `<a b=c/>`,
	}
	require.Equal(t,
		"quote expected at line 3, column 5\n -> '<a b=c/>' <-- around here",
		e.Error(), "full rendering with line excerpt")

	e.Line = ""
	require.Equal(t, "quote expected at line 3, column 5", e.Error(), "rendering without excerpt")

	cause := errors.New("stream hiccup")
	e = ErrParseError{Err: cause, LineNumber: 1, Column: 1}
	require.Contains(t, e.Error(), "stream hiccup", "cause fills in when the code has no message")
	require.ErrorIs(t, e, cause, "cause is reachable through Unwrap")
}

func TestErrWriteErrorRendering(t *testing.T) {
	e := ErrWriteError{Code: engine.CodeWriteInvalidAction}
	require.Equal(t,
		"performing the requested action would result in invalid XML document",
		e.Error(), "message-only rendering")

	cause := errors.New("no element is open")
	e = ErrWriteError{Code: engine.CodeWriteInvalidAction, Err: cause}
	require.Equal(t,
		"performing the requested action would result in invalid XML document: no element is open",
		e.Error(), "message plus cause")
	require.ErrorIs(t, e, cause, "cause is reachable through Unwrap")

	e = ErrWriteError{Err: cause}
	require.Equal(t, "no element is open", e.Error(), "cause-only rendering")

	e = ErrWriteError{}
	require.Equal(t, "write error", e.Error(), "zero value still renders")
}
