package engine

// Kind identifies the kind of a Token. The numeric values are stable
// identifiers shared with external consumers; the gaps between them
// are intentional and must be preserved.
type Kind int

const (
	KindNone                  Kind = 0
	KindElement               Kind = 1
	KindAttribute             Kind = 2
	KindText                  Kind = 3
	KindCDATA                 Kind = 4
	KindProcessingInstruction Kind = 7
	KindComment               Kind = 8
	KindDocumentType          Kind = 10
	KindWhitespace            Kind = 13
	KindEndElement            Kind = 15
	KindXMLDeclaration        Kind = 17
)

// Token is a single node pulled out of the document. Which fields are
// meaningful depends on Kind: elements and end-elements carry a name,
// text-like kinds carry a value, processing instructions carry both
// (target in Local, data in Value).
type Token struct {
	Kind   Kind
	Prefix string
	Local  string
	Value  string
	Empty  bool
	Attrs  []Attr
}

// Attr is one attribute of an element start tag, in document order.
// Namespace declarations appear here as ordinary attributes, exactly
// as they appear in the document; the pseudo-attributes of the XML
// declaration (version, encoding, standalone) are reported the same
// way.
type Attr struct {
	Prefix string
	Local  string
	Value  string
}

// QName returns the name as it appeared in the document.
func (t *Token) QName() string {
	if t.Prefix == "" {
		return t.Local
	}
	return t.Prefix + ":" + t.Local
}

func (a *Attr) QName() string {
	if a.Prefix == "" {
		return a.Local
	}
	return a.Prefix + ":" + a.Local
}
