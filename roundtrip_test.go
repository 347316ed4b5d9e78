package xmlrw_test

import (
	"bytes"
	"testing"

	"github.com/lestrrat-go/xmlrw"
	"github.com/stretchr/testify/assert"
)

type node struct {
	typ   xmlrw.NodeType
	qname string
	value string
}

func collect(t *testing.T, src []byte) []node {
	t.Helper()

	r, err := xmlrw.NewReader(bytes.NewReader(src))
	if !assert.NoError(t, err, "NewReader succeeds") {
		return nil
	}
	defer r.Close()

	var nodes []node
	for {
		ok, err := r.Read()
		if !assert.NoError(t, err, "Read succeeds") {
			return nil
		}
		if !ok {
			break
		}
		n := node{typ: r.NodeType()}
		switch n.typ {
		case xmlrw.ElementNode, xmlrw.EndElementNode, xmlrw.ProcessingInstructionNode:
			n.qname, err = r.QualifiedName()
			if !assert.NoError(t, err, "QualifiedName succeeds") {
				return nil
			}
		}
		switch n.typ {
		case xmlrw.TextNode, xmlrw.CDATASectionNode, xmlrw.CommentNode,
			xmlrw.ProcessingInstructionNode, xmlrw.WhitespaceNode:
			n.value, err = r.Value()
			if !assert.NoError(t, err, "Value succeeds") {
				return nil
			}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func TestRoundTrip(t *testing.T) {
	var out bytes.Buffer
	w, err := xmlrw.NewWriter(&out)
	if !assert.NoError(t, err, "NewWriter succeeds") {
		return
	}

	const u = "http://example.com/rt"
	steps := []func() error{
		func() error { return w.StartDocument(xmlrw.StandaloneOmit) },
		func() error { return w.StartElement("p", "root", u) },
		func() error { return w.Attribute("", "id", "", "r1") },
		func() error { return w.Comment(" c ") },
		func() error { return w.StartElement("", "child", "") },
		func() error { return w.Text("a&b") },
		func() error { return w.EndElement() },
		func() error { return w.StartElement("", "data", "") },
		func() error { return w.CData("1<2") },
		func() error { return w.EndElement() },
		func() error { return w.ProcessingInstruction("app", "do it") },
		func() error { return w.EndDocument() },
	}
	for i, step := range steps {
		if !assert.NoError(t, step(), "write step %d succeeds", i) {
			return
		}
	}

	nodes := collect(t, out.Bytes())
	expected := []node{
		{typ: xmlrw.XMLDeclarationNode},
		{typ: xmlrw.ElementNode, qname: "p:root"},
		{typ: xmlrw.CommentNode, value: " c "},
		{typ: xmlrw.ElementNode, qname: "child"},
		{typ: xmlrw.TextNode, value: "a&b"},
		{typ: xmlrw.EndElementNode, qname: "child"},
		{typ: xmlrw.ElementNode, qname: "data"},
		{typ: xmlrw.CDATASectionNode, value: "1<2"},
		{typ: xmlrw.EndElementNode, qname: "data"},
		{typ: xmlrw.ProcessingInstructionNode, qname: "app", value: "do it"},
		{typ: xmlrw.EndElementNode, qname: "p:root"},
		{typ: xmlrw.WhitespaceNode, value: "\n"},
	}
	if !assert.Equal(t, expected, nodes, "what was written reads back node for node") {
		return
	}
}

func TestRoundTripEscapes(t *testing.T) {
	// values that force escaping on the way out must read back as the
	// original text
	values := map[string]string{
		"markup":   "a<b>c&d",
		"quotes":   `say "hi" & 'bye'`,
		"newlines": "l1\nl2",
	}
	for name, v := range values {
		t.Logf("checking %s", name)
		var out bytes.Buffer
		w, err := xmlrw.NewWriter(&out)
		if !assert.NoError(t, err, "NewWriter succeeds") {
			return
		}
		if !assert.NoError(t, w.StartElement("", "r", ""), "StartElement succeeds") {
			return
		}
		if !assert.NoError(t, w.Attribute("", "a", "", v), "Attribute succeeds") {
			return
		}
		if !assert.NoError(t, w.Text(v), "Text succeeds") {
			return
		}
		if !assert.NoError(t, w.EndDocument(), "EndDocument succeeds") {
			return
		}

		r, err := xmlrw.NewReader(bytes.NewReader(out.Bytes()))
		if !assert.NoError(t, err, "NewReader succeeds") {
			return
		}
		ok, err := r.Read()
		if !assert.NoError(t, err, "Read succeeds") || !assert.True(t, ok, "a node is read") {
			return
		}
		ok, err = r.MoveToFirstAttribute()
		if !assert.NoError(t, err, "MoveToFirstAttribute succeeds") || !assert.True(t, ok, "attribute exists") {
			return
		}
		got, err := r.Value()
		if !assert.NoError(t, err, "Value succeeds") {
			return
		}
		if !assert.Equal(t, v, got, "attribute value survives the trip") {
			return
		}

		ok, err = r.Read()
		if !assert.NoError(t, err, "Read succeeds") || !assert.True(t, ok, "a node is read") {
			return
		}
		if !assert.Equal(t, xmlrw.TextNode, r.NodeType(), "text node follows") {
			return
		}
		got, err = r.Value()
		if !assert.NoError(t, err, "Value succeeds") {
			return
		}
		if !assert.Equal(t, v, got, "text value survives the trip") {
			return
		}
		r.Close()
	}
}
