package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lestrrat-go/xmlrw"
	"github.com/stretchr/testify/require"
)

func runEcho(t *testing.T, input string, dropBlanks bool, wopts ...xmlrw.WriterOption) (string, error) {
	t.Helper()

	r, err := xmlrw.NewReader(strings.NewReader(input))
	require.NoError(t, err, "NewReader should succeed")
	defer r.Close()

	var out bytes.Buffer
	w, err := xmlrw.NewWriter(&out, wopts...)
	require.NoError(t, err, "NewWriter should succeed")
	defer w.Close()

	if err := echo(r, w, dropBlanks); err != nil {
		return "", err
	}
	return out.String(), nil
}

func TestEchoGolden(t *testing.T) {
	const decl = "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"

	data := map[string]struct {
		input      string
		dropBlanks bool
		expected   string
	}{
		"passthrough": {
			input:    decl + `<root><child a="1">text</child></root>`,
			expected: decl + `<root><child a="1">text</child></root>` + "\n",
		},
		"declaration injected": {
			input:    `<r/>`,
			expected: decl + `<r/>` + "\n",
		},
		"standalone carried over": {
			input:    "<?xml version=\"1.0\" standalone=\"yes\"?>\n<r/>",
			expected: "<?xml version=\"1.0\" encoding=\"utf-8\" standalone=\"yes\"?>\n<r/>\n",
		},
		"declaration moves to first use": {
			input:    `<a xmlns:p="u"><p:b/></a>`,
			expected: decl + `<a><p:b xmlns:p="u"/></a>` + "\n",
		},
		"default namespace": {
			input:    `<r xmlns="du"><c>t</c></r>`,
			expected: decl + `<r xmlns="du"><c>t</c></r>` + "\n",
		},
		"prefixed attribute": {
			input:    `<r xmlns:p="u" p:a="1"/>`,
			expected: decl + `<r xmlns:p="u" p:a="1"/>` + "\n",
		},
		"inner whitespace survives": {
			input:    "<r>\n  <c/>\n</r>",
			expected: decl + "<r>\n  <c/>\n</r>\n",
		},
		"noblanks": {
			input:      "<r>\n  <c/>\n</r>",
			dropBlanks: true,
			expected:   decl + `<r><c/></r>` + "\n",
		},
		"comment and pi": {
			input:    `<!-- c --><?app run?><r/>`,
			expected: decl + `<!-- c --><?app run?><r/>` + "\n",
		},
		"doctype dropped": {
			input:    `<!DOCTYPE r><r/>`,
			expected: decl + `<r/>` + "\n",
		},
		"cdata": {
			input:    `<r><![CDATA[a < b]]></r>`,
			expected: decl + `<r><![CDATA[a < b]]></r>` + "\n",
		},
	}

	for name, tc := range data {
		t.Run(name, func(t *testing.T) {
			t.Logf("checking %q", tc.input)
			out, err := runEcho(t, tc.input, tc.dropBlanks)
			require.NoError(t, err, "echo should succeed")
			require.Equal(t, tc.expected, out, "echoed output")
		})
	}
}

func TestEchoFormat(t *testing.T) {
	out, err := runEcho(t, `<r><a>x</a><b/></r>`, true, xmlrw.WithIndent("  "))
	require.NoError(t, err, "echo should succeed")

	expected := "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n" +
		"<r>\n" +
		"  <a>x</a>\n" +
		"  <b/>\n" +
		"</r>\n"
	require.Equal(t, expected, out, "formatted output")
}

func TestEchoParseError(t *testing.T) {
	_, err := runEcho(t, `<a><b></a>`, false)
	require.Error(t, err, "mismatched tags should fail")

	var pe xmlrw.ErrParseError
	require.True(t, errors.As(err, &pe), "error should be an ErrParseError")
	require.Equal(t, uint32(0xC00CEE3B), pe.Code, "defect code")
}
