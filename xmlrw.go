// Package xmlrw provides a matched pair of streaming XML cursors: a
// pull Reader that decomposes a document into nodes one Read call at
// a time, and a forward-only Writer that emits a document while
// enforcing well-formedness. Both consume and produce UTF-8 only.
package xmlrw

import (
	"strconv"

	"github.com/lestrrat-go/xmlrw/internal/engine"
)

const Version = "1.0.0"

// Namespace URIs with fixed, reserved meanings.
const (
	XMLNamespaceURI   = engine.XMLNamespaceURI
	XMLNSNamespaceURI = engine.XMLNSNamespaceURI
)

// NodeType identifies the kind of the node a Reader is positioned on.
// The numeric values are stable identifiers that external consumers
// persist; the gaps between them are intentional and must never be
// filled or renumbered.
type NodeType int

const (
	NoneNode                  NodeType = 0
	ElementNode               NodeType = 1
	AttributeNode             NodeType = 2
	TextNode                  NodeType = 3
	CDATASectionNode          NodeType = 4
	ProcessingInstructionNode NodeType = 7
	CommentNode               NodeType = 8
	DocumentTypeNode          NodeType = 10
	WhitespaceNode            NodeType = 13
	EndElementNode            NodeType = 15
	XMLDeclarationNode        NodeType = 17
)

func (t NodeType) String() string {
	switch t {
	case NoneNode:
		return "None"
	case ElementNode:
		return "Element"
	case AttributeNode:
		return "Attribute"
	case TextNode:
		return "Text"
	case CDATASectionNode:
		return "CDATA"
	case ProcessingInstructionNode:
		return "ProcessingInstruction"
	case CommentNode:
		return "Comment"
	case DocumentTypeNode:
		return "DocumentType"
	case WhitespaceNode:
		return "Whitespace"
	case EndElementNode:
		return "EndElement"
	case XMLDeclarationNode:
		return "XMLDeclaration"
	default:
		return "NodeType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Standalone is the tri-state standalone pseudo-attribute of the XML
// declaration: omitted entirely, "yes", or "no".
type Standalone int

const (
	StandaloneOmit Standalone = Standalone(engine.StandaloneOmit)
	StandaloneYes  Standalone = Standalone(engine.StandaloneYes)
	StandaloneNo   Standalone = Standalone(engine.StandaloneNo)
)

func (s Standalone) String() string {
	switch s {
	case StandaloneYes:
		return "yes"
	case StandaloneNo:
		return "no"
	default:
		return "omit"
	}
}

// noCopy makes `go vet -copylocks` flag any cursor that is copied by
// value after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
