package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizerSequence(t *testing.T) {
	tok, err := NewTokenizer(strings.NewReader(`<a m="1"><n:b xmlns:n="http://example.com/n"/>text</a>`), 0, false)
	require.NoError(t, err, "NewTokenizer should succeed")

	tk, err := tok.Next()
	require.NoError(t, err, "Next should succeed")
	require.Equal(t, KindElement, tk.Kind, "first token is the root element")
	require.Equal(t, "a", tk.Local, "root local name")
	require.False(t, tk.Empty, "root has content")
	require.Len(t, tk.Attrs, 1, "root has one attribute")
	require.Equal(t, Attr{Local: "m", Value: "1"}, tk.Attrs[0], "attribute fields")

	tk, err = tok.Next()
	require.NoError(t, err, "Next should succeed")
	require.Equal(t, KindElement, tk.Kind, "second token is the child element")
	require.Equal(t, "n", tk.Prefix, "child prefix")
	require.Equal(t, "b", tk.Local, "child local name")
	require.Equal(t, "n:b", tk.QName(), "qualified name")
	require.True(t, tk.Empty, "child is empty")
	require.Len(t, tk.Attrs, 1, "the declaration is an attribute of the token")
	require.Equal(t, Attr{Prefix: "xmlns", Local: "n", Value: "http://example.com/n"}, tk.Attrs[0], "declaration attribute")

	tk, err = tok.Next()
	require.NoError(t, err, "Next should succeed")
	require.Equal(t, KindText, tk.Kind, "text token")
	require.Equal(t, "text", tk.Value, "text value")

	tk, err = tok.Next()
	require.NoError(t, err, "Next should succeed")
	require.Equal(t, KindEndElement, tk.Kind, "end element token")
	require.Equal(t, "a", tk.Local, "end element name")

	// exhaustion is quiet and sticky
	for i := 0; i < 2; i++ {
		tk, err = tok.Next()
		require.NoError(t, err, "Next past the end should not fail")
		require.Nil(t, tk, "Next past the end should produce nothing")
	}
}

func TestTokenizerNilSource(t *testing.T) {
	_, err := NewTokenizer(nil, 0, false)
	require.Error(t, err, "a nil source is rejected up front")
}

func TestTokenizerPosition(t *testing.T) {
	tok, err := NewTokenizer(strings.NewReader("<a>\n<b>\n</b>\n</a>"), 0, false)
	require.NoError(t, err, "NewTokenizer should succeed")

	require.Equal(t, 0, tok.LineNumber(), "no line before the first Next")
	require.Equal(t, 0, tok.Column(), "no column before the first Next")

	_, err = tok.Next()
	require.NoError(t, err, "Next should succeed")
	require.Equal(t, 1, tok.LineNumber(), "after the root start tag")

	_, err = tok.Next() // whitespace
	require.NoError(t, err, "Next should succeed")
	_, err = tok.Next() // <b>
	require.NoError(t, err, "Next should succeed")
	require.Equal(t, 2, tok.LineNumber(), "position advances with the scan")
}

func TestTokenizerDefectFields(t *testing.T) {
	tok, err := NewTokenizer(strings.NewReader("<a>\n</b>"), 0, false)
	require.NoError(t, err, "NewTokenizer should succeed")

	_, err = tok.Next()
	require.NoError(t, err, "root start tag parses")
	tk, err := tok.Next()
	require.NoError(t, err, "the newline is a whitespace node")
	require.Equal(t, KindWhitespace, tk.Kind, "whitespace kind")

	_, err = tok.Next()
	require.Error(t, err, "mismatched end tag is a defect")

	var d *Defect
	require.True(t, errors.As(err, &d), "error should be a Defect")
	require.Equal(t, CodeElementMatch, d.Code, "defect code")
	require.Equal(t, 2, d.Line, "defect line")
	require.Contains(t, d.LineText, "</b>", "offending line text")
	require.Error(t, d.Cause, "the mismatch carries a cause")
	require.Contains(t, d.Cause.Error(), "closing tag does not match ('b' != 'a')", "cause names both tags")
	require.Contains(t, d.Error(), "0xc00cee3b", "rendering includes the code")
	require.Contains(t, d.Error(), "at line 2", "rendering includes the position")
}

func TestTokenizerDepthUnlimited(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		b.WriteString("<d>")
	}
	for i := 0; i < 100; i++ {
		b.WriteString("</d>")
	}

	tok, err := NewTokenizer(strings.NewReader(b.String()), 0, false)
	require.NoError(t, err, "NewTokenizer should succeed")
	for {
		tk, err := tok.Next()
		require.NoError(t, err, "a depth limit of zero means no limit")
		if tk == nil {
			break
		}
	}
}

func TestTokenizerEmptyInput(t *testing.T) {
	tok, err := NewTokenizer(strings.NewReader(""), 0, false)
	require.NoError(t, err, "NewTokenizer should succeed")

	for i := 0; i < 2; i++ {
		_, err = tok.Next()
		require.Error(t, err, "an empty document has no root (call %d)", i+1)
		var d *Defect
		require.True(t, errors.As(err, &d), "error should be a Defect")
		require.Equal(t, CodeUnexpectedEOF, d.Code, "defect code")
	}
}

func TestTokenizerBadSignature(t *testing.T) {
	tok, err := NewTokenizer(bytes.NewReader([]byte{0xff, 0xfe, '<', 0x00}), 0, false)
	require.NoError(t, err, "NewTokenizer should succeed")

	_, err = tok.Next()
	require.Error(t, err, "a UTF-16 signature is rejected")
	var d *Defect
	require.True(t, errors.As(err, &d), "error should be a Defect")
	require.Equal(t, CodeEncodingSwitch, d.Code, "defect code")

	// a failed start is terminal
	tk, err := tok.Next()
	require.NoError(t, err, "Next after a failed start does not fail again")
	require.Nil(t, tk, "nothing more is produced")
}
