package engine

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lestrrat-go/strcursor"
	"github.com/lestrrat-go/xmlrw/internal/debug"
	"github.com/lestrrat-go/xmlrw/internal/dedup"
	"github.com/lestrrat-go/xmlrw/internal/encoding"
	"github.com/lestrrat-go/xmlrw/internal/pool"
	"github.com/lestrrat-go/xmlrw/internal/stack"
)

type openElement struct {
	prefix   string
	local    string
	bindings int
}

// Tokenizer decomposes a UTF-8 XML byte stream into Tokens, one Next
// call at a time. It consumes input incrementally, so a Token is
// produced as soon as its markup has been read; nothing past the
// current node is interpreted. The input signature is sniffed lazily
// on the first Next call, which keeps construction free of I/O.
type Tokenizer struct {
	src         io.Reader
	in          *bufio.Reader
	cursor      strcursor.Cursor
	scopes      stack.ScopeStack
	elems       stack.Stack[openElement]
	maxDepth    int
	prohibitDTD bool
	atStart     bool
	sawRoot     bool
	sawDoctype  bool
	done        bool
}

// NewTokenizer creates a Tokenizer that reads from src. A maxDepth of
// zero or less disables the element nesting limit.
func NewTokenizer(src io.Reader, maxDepth int, prohibitDTD bool) (*Tokenizer, error) {
	if src == nil {
		return nil, errors.New("nil input stream")
	}
	t := &Tokenizer{
		src:         src,
		maxDepth:    maxDepth,
		prohibitDTD: prohibitDTD,
		atStart:     true,
	}
	t.scopes.Push(stack.Binding{Prefix: "xml", URI: XMLNamespaceURI})
	return t, nil
}

// LineNumber reports the 1-based line the scan currently sits on, or
// zero before any input has been consumed.
func (t *Tokenizer) LineNumber() int {
	if t.cursor == nil {
		return 0
	}
	return t.cursor.LineNumber()
}

// Column reports the column the scan currently sits on, or zero
// before any input has been consumed.
func (t *Tokenizer) Column() int {
	if t.cursor == nil {
		return 0
	}
	return t.cursor.Column()
}

func (t *Tokenizer) error(code uint32) error {
	return t.errorCause(code, nil)
}

func (t *Tokenizer) errorCause(code uint32, cause error) error {
	d := &Defect{Code: code, Line: 1, Column: 1, Cause: cause}
	if t.cursor != nil {
		d.Line = t.cursor.LineNumber()
		d.Column = t.cursor.Column()
		d.LineText = t.cursor.Line()
	}
	return d
}

func (t *Tokenizer) curPeek(n int) rune {
	return t.cursor.PeekN(n)
}

func (t *Tokenizer) curAdvance(n int) {
	_ = t.cursor.Advance(n)
}

func (t *Tokenizer) curConsumePrefix(s string) bool {
	return t.cursor.ConsumeString(s)
}

func (t *Tokenizer) curHasPrefix(s string) bool {
	return t.cursor.HasPrefixString(s)
}

func (t *Tokenizer) curDone() bool {
	return t.cursor.Done()
}

/*
 * Skip whitespace in the input stream.
 *
 * [3] S ::= (#x20 | #x9 | #xD | #xA)+
 *
 * Reports whether any whitespace was consumed.
 */
func (t *Tokenizer) skipBlanks() bool {
	n := 0
	for isBlankCh(t.curPeek(1)) {
		t.curAdvance(1)
		n++
	}
	return n > 0
}

// Next returns the next node in document order. Once the document has
// been fully consumed it returns (nil, nil), and keeps doing so.
func (t *Tokenizer) Next() (*Token, error) {
	if t.done {
		return nil, nil
	}
	if t.cursor == nil {
		if err := t.start(); err != nil {
			t.done = true
			return nil, err
		}
	}

	if t.curDone() {
		if t.elems.Len() > 0 || !t.sawRoot {
			return nil, t.error(CodeUnexpectedEOF)
		}
		t.done = true
		return nil, nil
	}

	atStart := t.atStart
	t.atStart = false

	if t.curPeek(1) != '<' {
		return t.parseCharData()
	}

	switch {
	case atStart && t.curHasPrefix("<?xml") && isBlankCh(t.curPeek(6)):
		return t.parseXMLDecl()
	case t.curHasPrefix("</"):
		return t.parseEndTag()
	case t.curHasPrefix("<!--"):
		return t.parseComment()
	case t.curHasPrefix("<![CDATA["):
		if t.elems.Len() == 0 {
			return nil, t.error(CodeSyntax)
		}
		return t.parseCDSect()
	case t.curHasPrefix("<!DOCTYPE"):
		return t.parseDocTypeDecl()
	case t.curHasPrefix("<?"):
		return t.parsePI()
	case t.curHasPrefix("<!"):
		return nil, t.error(CodeSyntax)
	default:
		return t.parseStartTag()
	}
}

// Input signatures that identify an encoding this layer does not
// consume. The first group is recognized but unswitchable UTF-16; the
// second is anything else we can identify well enough to reject.
var (
	patUTF16LE2B = []byte{0xff, 0xfe}
	patUTF16BE2B = []byte{0xfe, 0xff}
	patUTF16LE4B = []byte{'<', 0x00, '?', 0x00}
	patUTF16BE4B = []byte{0x00, '<', 0x00, '?'}
	patUCS4BE    = []byte{0x00, 0x00, 0x00, '<'}
	patUCS4LE    = []byte{'<', 0x00, 0x00, 0x00}
	patUCS42143  = []byte{0x00, 0x00, '<', 0x00}
	patUCS43412  = []byte{0x00, '<', 0x00, 0x00}
	patUCS4BEBOM = []byte{0x00, 0x00, 0xfe, 0xff}
	patUCS4LEBOM = []byte{0xff, 0xfe, 0x00, 0x00}
	patEBCDIC    = []byte{0x4c, 0x6f, 0xa7, 0x94}
	patUTF8BOM   = []byte{0xef, 0xbb, 0xbf}
)

// start sniffs the input signature and builds the rune cursor. A UTF-8
// byte order mark is consumed; any other recognizable signature means
// the document is not in an encoding this layer consumes.
func (t *Tokenizer) start() error {
	t.in = bufio.NewReader(t.src)
	sig, _ := t.in.Peek(4)

	switch {
	case bytes.HasPrefix(sig, patUCS4BEBOM), bytes.HasPrefix(sig, patUCS4LEBOM),
		bytes.HasPrefix(sig, patUCS4BE), bytes.HasPrefix(sig, patUCS4LE),
		bytes.HasPrefix(sig, patUCS42143), bytes.HasPrefix(sig, patUCS43412),
		bytes.HasPrefix(sig, patEBCDIC):
		return t.error(CodeInputSignature)
	case bytes.HasPrefix(sig, patUTF16LE4B), bytes.HasPrefix(sig, patUTF16BE4B),
		bytes.HasPrefix(sig, patUTF16LE2B), bytes.HasPrefix(sig, patUTF16BE2B):
		return t.error(CodeEncodingSwitch)
	case bytes.HasPrefix(sig, patUTF8BOM):
		if _, err := t.in.Discard(len(patUTF8BOM)); err != nil {
			return t.errorCause(CodeUnexpectedEOF, err)
		}
	}

	t.cursor = strcursor.NewRuneCursor(t.in)
	return nil
}

/*
 * parse an XML declaration.
 *
 * [23] XMLDecl ::= '<?xml' VersionInfo EncodingDecl? SDDecl? S? '?>'
 *
 * [24] VersionInfo ::= S 'version' Eq ("'" VersionNum "'" | '"' VersionNum '"')
 *
 * [26] VersionNum ::= '1.' [0-9]+
 *
 * [32] SDDecl ::= S 'standalone' Eq
 *                 (("'" ('yes' | 'no') "'") | ('"' ('yes' | 'no') '"'))
 *
 * The declaration is surfaced as a node of its own; version, encoding
 * and standalone become its pseudo-attributes.
 */
func (t *Tokenizer) parseXMLDecl() (*Token, error) {
	if debug.Enabled {
		debug.Printf("START parseXMLDecl")
		defer debug.Printf("END   parseXMLDecl")
	}

	t.curAdvance(5) // <?xml
	t.skipBlanks()

	if !t.curConsumePrefix("version") {
		return nil, t.error(CodeXMLDecl)
	}
	if err := t.parseEq(); err != nil {
		return nil, err
	}
	ver, err := t.parseQuotedLiteral()
	if err != nil {
		return nil, err
	}
	if !isVersionNum(ver) {
		return nil, t.error(CodeXMLDecl)
	}
	attrs := []Attr{{Local: "version", Value: ver}}

	hadBlank := t.skipBlanks()
	if t.curHasPrefix("encoding") {
		if !hadBlank {
			return nil, t.error(CodeWhitespace)
		}
		t.curAdvance(len("encoding"))
		if err := t.parseEq(); err != nil {
			return nil, err
		}
		label, err := t.parseQuotedLiteral()
		if err != nil {
			return nil, err
		}
		if !isEncName(label) {
			return nil, t.error(CodeEncodingName)
		}
		if !encoding.IsUTF8(label) {
			// The label may be real, but this layer reads UTF-8 only.
			if encoding.Load(label) != nil {
				return nil, t.errorCause(CodeEncodingSwitch, fmt.Errorf("cannot switch to encoding '%s'", label))
			}
			return nil, t.errorCause(CodeEncoding, fmt.Errorf("unsupported encoding '%s'", label))
		}
		attrs = append(attrs, Attr{Local: "encoding", Value: label})
		hadBlank = t.skipBlanks()
	}

	if t.curHasPrefix("standalone") {
		if !hadBlank {
			return nil, t.error(CodeWhitespace)
		}
		t.curAdvance(len("standalone"))
		if err := t.parseEq(); err != nil {
			return nil, err
		}
		sa, err := t.parseQuotedLiteral()
		if err != nil {
			return nil, err
		}
		if sa != "yes" && sa != "no" {
			return nil, t.error(CodeXMLDecl)
		}
		attrs = append(attrs, Attr{Local: "standalone", Value: sa})
		t.skipBlanks()
	}

	if !t.curConsumePrefix("?>") {
		if t.curDone() {
			return nil, t.error(CodeUnexpectedEOF)
		}
		if t.curPeek(1) == '?' {
			return nil, t.error(CodeQuestionMark)
		}
		return nil, t.error(CodeXMLDecl)
	}

	return &Token{Kind: KindXMLDeclaration, Local: "xml", Attrs: attrs}, nil
}

/*
 * parse the Eq production between an attribute name and its value.
 *
 * [25] Eq ::= S? '=' S?
 */
func (t *Tokenizer) parseEq() error {
	t.skipBlanks()
	if !t.curConsumePrefix("=") {
		if t.curDone() {
			return t.error(CodeUnexpectedEOF)
		}
		return t.error(CodeEqual)
	}
	t.skipBlanks()
	return nil
}

// parseQuotedLiteral reads a quote-delimited literal without reference
// expansion. Used for declaration pseudo-attributes and DTD literals.
func (t *Tokenizer) parseQuotedLiteral() (string, error) {
	q := t.curPeek(1)
	if q != '"' && q != '\'' {
		return "", t.error(CodeQuote)
	}
	t.curAdvance(1)

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	for {
		if t.curDone() {
			return "", t.error(CodeUnexpectedEOF)
		}
		r := t.curPeek(1)
		if r == q {
			t.curAdvance(1)
			return string(buf), nil
		}
		if !isChar(r) {
			return "", t.error(CodeXMLCharacter)
		}
		t.curAdvance(1)
		buf = utf8.AppendRune(buf, r)
	}
}

/*
 * parse an XML processing instruction.
 *
 * [16] PI ::= '<?' PITarget (S (Char* - (Char* '?>' Char*)))? '?>'
 *
 * [17] PITarget ::= Name - (('X' | 'x') ('M' | 'm') ('L' | 'l'))
 */
func (t *Tokenizer) parsePI() (*Token, error) {
	if debug.Enabled {
		debug.Printf("START parsePI")
		defer debug.Printf("END   parsePI")
	}

	t.curAdvance(2) // <?
	if t.curDone() {
		return nil, t.error(CodeUnexpectedEOF)
	}
	if !isNameStartChar(t.curPeek(1)) {
		return nil, t.error(CodePI)
	}
	target, err := t.parseName()
	if err != nil {
		return nil, err
	}
	if strings.ContainsRune(target, ':') {
		return nil, t.error(CodeColonInName)
	}
	if strings.EqualFold(target, "xml") {
		if target == "xml" {
			// A declaration-shaped PI anywhere but the very first
			// bytes of the document.
			return nil, t.error(CodeDeclNotFirst)
		}
		return nil, t.error(CodeLeadingXML)
	}

	if t.curConsumePrefix("?>") {
		return &Token{Kind: KindProcessingInstruction, Local: target}, nil
	}
	if !isBlankCh(t.curPeek(1)) {
		if t.curDone() {
			return nil, t.error(CodeUnexpectedEOF)
		}
		return nil, t.error(CodeWhitespace)
	}
	t.skipBlanks()

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	for !t.curConsumePrefix("?>") {
		if t.curDone() {
			return nil, t.error(CodeUnexpectedEOF)
		}
		r := t.curPeek(1)
		if !isChar(r) {
			return nil, t.error(CodeXMLCharacter)
		}
		t.curAdvance(1)
		if r == '\r' {
			if t.curPeek(1) == '\n' {
				t.curAdvance(1)
			}
			r = '\n'
		}
		buf = utf8.AppendRune(buf, r)
	}
	return &Token{Kind: KindProcessingInstruction, Local: target, Value: string(buf)}, nil
}

/*
 * parse an XML comment.
 *
 * [15] Comment ::= '<!--' ((Char - '-') | ('-' (Char - '-')))* '-->'
 */
func (t *Tokenizer) parseComment() (*Token, error) {
	if debug.Enabled {
		debug.Printf("START parseComment")
		defer debug.Printf("END   parseComment")
	}

	t.curAdvance(4) // <!--

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	for !t.curConsumePrefix("-->") {
		if t.curHasPrefix("--") {
			return nil, t.error(CodeComment)
		}
		if t.curDone() {
			return nil, t.error(CodeUnexpectedEOF)
		}
		r := t.curPeek(1)
		if !isChar(r) {
			return nil, t.error(CodeXMLCharacter)
		}
		t.curAdvance(1)
		if r == '\r' {
			if t.curPeek(1) == '\n' {
				t.curAdvance(1)
			}
			r = '\n'
		}
		buf = utf8.AppendRune(buf, r)
	}
	return &Token{Kind: KindComment, Value: string(buf)}, nil
}

/*
 * parse a CDATA section.
 *
 * [18] CDSect  ::= CDStart CData CDEnd
 * [19] CDStart ::= '<![CDATA['
 * [20] CData   ::= (Char* - (Char* ']]>' Char*))
 * [21] CDEnd   ::= ']]>'
 */
func (t *Tokenizer) parseCDSect() (*Token, error) {
	t.curAdvance(9) // <![CDATA[

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	for !t.curConsumePrefix("]]>") {
		if t.curDone() {
			return nil, t.error(CodeUnexpectedEOF)
		}
		r := t.curPeek(1)
		if !isChar(r) {
			return nil, t.error(CodeXMLCharacter)
		}
		t.curAdvance(1)
		if r == '\r' {
			if t.curPeek(1) == '\n' {
				t.curAdvance(1)
			}
			r = '\n'
		}
		buf = utf8.AppendRune(buf, r)
	}
	return &Token{Kind: KindCDATA, Value: string(buf)}, nil
}

/*
 * parse a DOCTYPE declaration. The internal subset and any external
 * identifiers are scanned for well-formedness but not interpreted.
 *
 * [28] doctypedecl ::= '<!DOCTYPE' S Name (S ExternalID)? S?
 *                      ('[' intSubset ']' S?)? '>'
 *
 * [75] ExternalID ::= 'SYSTEM' S SystemLiteral
 *                   | 'PUBLIC' S PubidLiteral S SystemLiteral
 */
func (t *Tokenizer) parseDocTypeDecl() (*Token, error) {
	if debug.Enabled {
		debug.Printf("START parseDocTypeDecl")
		defer debug.Printf("END   parseDocTypeDecl")
	}

	if t.prohibitDTD {
		return nil, t.error(CodeDTDProhibited)
	}
	if t.sawRoot || t.sawDoctype {
		return nil, t.error(CodeDocTypeDecl)
	}

	t.curAdvance(9) // <!DOCTYPE
	if !t.skipBlanks() {
		return nil, t.error(CodeWhitespace)
	}
	if t.curDone() {
		return nil, t.error(CodeUnexpectedEOF)
	}
	if !isNameStartChar(t.curPeek(1)) {
		return nil, t.error(CodeName)
	}
	name, err := t.parseName()
	if err != nil {
		return nil, err
	}

	hadBlank := t.skipBlanks()
	switch {
	case t.curHasPrefix("SYSTEM"), t.curHasPrefix("PUBLIC"):
		if !hadBlank {
			return nil, t.error(CodeWhitespace)
		}
		if t.curConsumePrefix("PUBLIC") {
			if !t.skipBlanks() {
				return nil, t.error(CodeWhitespace)
			}
			pubid, err := t.parseQuotedLiteral()
			if err != nil {
				return nil, err
			}
			if !isPubidLiteral(pubid) {
				return nil, t.error(CodePublicID)
			}
			if !t.skipBlanks() {
				return nil, t.error(CodeWhitespace)
			}
		} else {
			t.curAdvance(len("SYSTEM"))
			if !t.skipBlanks() {
				return nil, t.error(CodeWhitespace)
			}
		}
		if _, err := t.parseQuotedLiteral(); err != nil {
			return nil, err
		}
		t.skipBlanks()
	}

	if t.curConsumePrefix("[") {
		if err := t.skipInternalSubset(); err != nil {
			return nil, err
		}
		t.skipBlanks()
	}

	if !t.curConsumePrefix(">") {
		if t.curDone() {
			return nil, t.error(CodeUnexpectedEOF)
		}
		return nil, t.error(CodeDocTypeDecl)
	}
	t.sawDoctype = true
	return &Token{Kind: KindDocumentType, Local: name}, nil
}

// skipInternalSubset consumes the internal subset up to and including
// the closing ']'. Quoted literals may contain ']' freely, so quote
// state has to be tracked.
func (t *Tokenizer) skipInternalSubset() error {
	for {
		if t.curDone() {
			return t.error(CodeUnexpectedEOF)
		}
		r := t.curPeek(1)
		switch {
		case r == ']':
			t.curAdvance(1)
			return nil
		case r == '"' || r == '\'':
			t.curAdvance(1)
			for {
				if t.curDone() {
					return t.error(CodeUnexpectedEOF)
				}
				c := t.curPeek(1)
				if !isChar(c) {
					return t.error(CodeXMLCharacter)
				}
				t.curAdvance(1)
				if c == r {
					break
				}
			}
		case !isChar(r):
			return t.error(CodeXMLCharacter)
		default:
			t.curAdvance(1)
		}
	}
}

/*
 * parse an element start tag, including attributes and the namespace
 * declarations the tag carries.
 *
 * [40] STag ::= '<' Name (S Attribute)* S? '>'
 *
 * [44] EmptyElemTag ::= '<' Name (S Attribute)* S? '/>'
 */
func (t *Tokenizer) parseStartTag() (*Token, error) {
	if debug.Enabled {
		debug.Printf("START parseStartTag")
		defer debug.Printf("END   parseStartTag")
	}

	if t.elems.Len() == 0 && t.sawRoot {
		return nil, t.error(CodeRootElement)
	}

	t.curAdvance(1) // <
	prefix, local, err := t.parseQName()
	if err != nil {
		return nil, err
	}

	var attrs []Attr
	var seen dedup.Set[string]
	empty := false

	for {
		hadBlank := t.skipBlanks()
		if t.curDone() {
			return nil, t.error(CodeUnexpectedEOF)
		}
		if t.curConsumePrefix(">") {
			break
		}
		if t.curConsumePrefix("/") {
			if !t.curConsumePrefix(">") {
				if t.curDone() {
					return nil, t.error(CodeUnexpectedEOF)
				}
				return nil, t.error(CodeGreaterThan)
			}
			empty = true
			break
		}
		if !hadBlank {
			return nil, t.error(CodeWhitespace)
		}

		aprefix, alocal, err := t.parseQName()
		if err != nil {
			return nil, err
		}
		if err := t.parseEq(); err != nil {
			return nil, err
		}
		value, err := t.parseAttValue()
		if err != nil {
			return nil, err
		}
		a := Attr{Prefix: aprefix, Local: alocal, Value: value}
		if !seen.Add(a.QName()) {
			return nil, t.errorCause(CodeUniqueAttribute, fmt.Errorf("attribute '%s' appears more than once", a.QName()))
		}
		attrs = append(attrs, a)
	}

	return t.finishStartTag(prefix, local, attrs, empty)
}

// finishStartTag applies the namespace declarations the tag carries,
// resolves every prefix in it, and commits the element to the open
// element stack (or, for an empty element, unwinds its scope right
// away).
func (t *Tokenizer) finishStartTag(prefix, local string, attrs []Attr, empty bool) (*Token, error) {
	var decls []stack.Binding
	for _, a := range attrs {
		switch {
		case a.Prefix == "xmlns":
			if a.Local == "xmlns" {
				return nil, t.error(CodeXMLNSPrefixReserved)
			}
			if a.Local == "xml" && a.Value != XMLNamespaceURI {
				return nil, t.error(CodeXMLPrefixReserved)
			}
			if a.Value == XMLNamespaceURI && a.Local != "xml" {
				return nil, t.error(CodeXMLNamespaceURIReserved)
			}
			if a.Value == XMLNSNamespaceURI {
				return nil, t.error(CodeXMLNSURIReserved)
			}
			if a.Value == "" {
				return nil, t.error(CodeEmptyNamespaceURI)
			}
			decls = append(decls, stack.Binding{Prefix: a.Local, URI: a.Value})
		case a.Prefix == "" && a.Local == "xmlns":
			if a.Value == XMLNamespaceURI {
				return nil, t.error(CodeXMLNamespaceURIReserved)
			}
			if a.Value == XMLNSNamespaceURI {
				return nil, t.error(CodeXMLNSURIReserved)
			}
			decls = append(decls, stack.Binding{Prefix: "", URI: a.Value})
		}
	}

	// Declarations are in scope for the tag that carries them, its own
	// attributes included, so they are pushed before any prefix in the
	// tag is resolved.
	for _, b := range decls {
		t.scopes.Push(b)
	}
	fail := func(err error) (*Token, error) {
		t.scopes.Pop(len(decls))
		return nil, err
	}

	if prefix == "xmlns" {
		return fail(t.error(CodeXMLNSPrefixReserved))
	}
	if prefix != "" {
		if _, ok := t.scopes.Lookup(prefix); !ok {
			return fail(t.errorCause(CodeUndeclaredPrefix, fmt.Errorf("prefix '%s' is not declared", prefix)))
		}
	}

	var expanded dedup.Set[[2]string]
	for _, a := range attrs {
		var uri string
		switch {
		case a.Prefix == "xmlns", a.Prefix == "" && a.Local == "xmlns":
			uri = XMLNSNamespaceURI
		case a.Prefix == "":
			// Unprefixed attributes are in no namespace; the default
			// namespace does not apply to them.
		default:
			b, ok := t.scopes.Lookup(a.Prefix)
			if !ok {
				return fail(t.errorCause(CodeUndeclaredPrefix, fmt.Errorf("prefix '%s' is not declared", a.Prefix)))
			}
			uri = b.URI
		}
		if !expanded.Add([2]string{uri, a.Local}) {
			return fail(t.errorCause(CodeUniqueAttribute, fmt.Errorf("attribute '%s' appears more than once", a.QName())))
		}
		if uri == XMLNamespaceURI && a.Local == "space" && a.Value != "default" && a.Value != "preserve" {
			return fail(t.error(CodeXMLSpace))
		}
	}

	if t.maxDepth > 0 && t.elems.Len() >= t.maxDepth {
		return fail(t.error(CodeMaxElementDepth))
	}

	if empty {
		t.scopes.Pop(len(decls))
	} else {
		t.elems.Push(openElement{prefix: prefix, local: local, bindings: len(decls)})
	}
	t.sawRoot = true

	if debug.Enabled {
		debug.Printf("element %s (empty=%t, depth=%d)", (&Token{Prefix: prefix, Local: local}).QName(), empty, t.elems.Len())
	}
	return &Token{Kind: KindElement, Prefix: prefix, Local: local, Empty: empty, Attrs: attrs}, nil
}

/*
 * parse an element end tag.
 *
 * [42] ETag ::= '</' Name S? '>'
 */
func (t *Tokenizer) parseEndTag() (*Token, error) {
	if debug.Enabled {
		debug.Printf("START parseEndTag")
		defer debug.Printf("END   parseEndTag")
	}

	t.curAdvance(2) // </
	prefix, local, err := t.parseQName()
	if err != nil {
		return nil, err
	}
	t.skipBlanks()
	if !t.curConsumePrefix(">") {
		if t.curDone() {
			return nil, t.error(CodeUnexpectedEOF)
		}
		return nil, t.error(CodeGreaterThan)
	}

	if t.elems.Len() == 0 {
		return nil, t.errorCause(CodeElementMatch, fmt.Errorf("closing tag '%s' has no matching start tag", (&Token{Prefix: prefix, Local: local}).QName()))
	}
	top := t.elems.Top()
	if top.prefix != prefix || top.local != local {
		open := &Token{Prefix: top.prefix, Local: top.local}
		closing := &Token{Prefix: prefix, Local: local}
		return nil, t.errorCause(CodeElementMatch, fmt.Errorf("closing tag does not match ('%s' != '%s')", closing.QName(), open.QName()))
	}
	t.scopes.Pop(top.bindings)
	t.elems.Pop()

	return &Token{Kind: KindEndElement, Prefix: prefix, Local: local}, nil
}

/*
 * parse an attribute value.
 *
 * [10] AttValue ::= '"' ([^<&"] | Reference)* '"'
 *                 | "'" ([^<&'] | Reference)* "'"
 *
 * Whitespace characters are normalized to #x20; characters that enter
 * the value through a character reference are exempt from that.
 */
func (t *Tokenizer) parseAttValue() (string, error) {
	q := t.curPeek(1)
	if q != '"' && q != '\'' {
		return "", t.error(CodeQuote)
	}
	t.curAdvance(1)

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	for {
		if t.curDone() {
			return "", t.error(CodeUnexpectedEOF)
		}
		r := t.curPeek(1)
		switch {
		case r == q:
			t.curAdvance(1)
			return string(buf), nil
		case r == '<':
			return "", t.error(CodeLessThanInAttValue)
		case r == '&':
			s, err := t.parseReference()
			if err != nil {
				return "", err
			}
			buf = append(buf, s...)
		case r == '\t' || r == '\n':
			t.curAdvance(1)
			buf = append(buf, ' ')
		case r == '\r':
			t.curAdvance(1)
			if t.curPeek(1) == '\n' {
				t.curAdvance(1)
			}
			buf = append(buf, ' ')
		case !isChar(r):
			return "", t.error(CodeXMLCharacter)
		default:
			t.curAdvance(1)
			buf = utf8.AppendRune(buf, r)
		}
	}
}

/*
 * parse character data between markup. Line ends are normalized to a
 * single #xA, and a run that is nothing but whitespace is reported as
 * a whitespace node rather than a text node. Outside the root element
 * only whitespace is allowed.
 *
 * [14] CharData ::= [^<&]* - ([^<&]* ']]>' [^<&]*)
 */
func (t *Tokenizer) parseCharData() (*Token, error) {
	if t.elems.Len() == 0 {
		if !isBlankCh(t.curPeek(1)) {
			return nil, t.error(CodeSyntax)
		}
		buf := pool.ByteSlice().Get()
		defer func() { pool.ByteSlice().Put(buf) }()
		for isBlankCh(t.curPeek(1)) {
			r := t.curPeek(1)
			t.curAdvance(1)
			if r == '\r' {
				if t.curPeek(1) == '\n' {
					t.curAdvance(1)
				}
				r = '\n'
			}
			buf = utf8.AppendRune(buf, r)
		}
		return &Token{Kind: KindWhitespace, Value: string(buf)}, nil
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	blanksOnly := true
	for !t.curDone() {
		r := t.curPeek(1)
		if r == '<' {
			break
		}
		switch {
		case r == '&':
			s, err := t.parseReference()
			if err != nil {
				return nil, err
			}
			buf = append(buf, s...)
			// A reference makes the run significant even when it
			// expands to whitespace.
			blanksOnly = false
		case r == ']' && t.curHasPrefix("]]>"):
			return nil, t.error(CodeCDATAEnd)
		case r == '\r':
			t.curAdvance(1)
			if t.curPeek(1) == '\n' {
				t.curAdvance(1)
			}
			buf = append(buf, '\n')
		case !isChar(r):
			return nil, t.error(CodeXMLCharacter)
		default:
			t.curAdvance(1)
			buf = utf8.AppendRune(buf, r)
			if !isBlankCh(r) {
				blanksOnly = false
			}
		}
	}

	kind := KindText
	if blanksOnly {
		kind = KindWhitespace
	}
	return &Token{Kind: kind, Value: string(buf)}, nil
}

var predefinedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"apos": "'",
	"quot": `"`,
}

/*
 * parse an entity or character reference and return its expansion.
 * Only the five predefined entities are expanded; anything else is an
 * undeclared entity, since no DTD is ever interpreted.
 *
 * [66] CharRef   ::= '&#' [0-9]+ ';' | '&#x' [0-9a-fA-F]+ ';'
 *
 * [68] EntityRef ::= '&' Name ';'
 */
func (t *Tokenizer) parseReference() (string, error) {
	t.curAdvance(1) // &

	if t.curConsumePrefix("#") {
		hex := t.curConsumePrefix("x")
		val := 0
		digits := 0
		for {
			if t.curDone() {
				return "", t.error(CodeUnexpectedEOF)
			}
			r := t.curPeek(1)
			if r == ';' {
				t.curAdvance(1)
				break
			}
			var d int
			switch {
			case r >= '0' && r <= '9':
				d = int(r - '0')
			case hex && r >= 'a' && r <= 'f':
				d = int(r-'a') + 10
			case hex && r >= 'A' && r <= 'F':
				d = int(r-'A') + 10
			default:
				if hex {
					return "", t.error(CodeCharRefHexDigit)
				}
				return "", t.error(CodeCharRefDigit)
			}
			t.curAdvance(1)
			digits++
			if hex {
				val = val*16 + d
			} else {
				val = val*10 + d
			}
			if val > unicode.MaxRune {
				val = unicode.MaxRune + 1
			}
		}
		if digits == 0 {
			if hex {
				return "", t.error(CodeCharRefHexDigit)
			}
			return "", t.error(CodeCharRefDigit)
		}
		if val > unicode.MaxRune || !isChar(rune(val)) {
			return "", t.error(CodeCharRefValue)
		}
		return string(rune(val)), nil
	}

	if t.curDone() {
		return "", t.error(CodeUnexpectedEOF)
	}
	if !isNameStartChar(t.curPeek(1)) {
		return "", t.error(CodeName)
	}
	name, err := t.parseName()
	if err != nil {
		return "", err
	}
	if !t.curConsumePrefix(";") {
		return "", t.error(CodeSemicolon)
	}
	exp, ok := predefinedEntities[name]
	if !ok {
		return "", t.errorCause(CodeUndeclaredEntity, fmt.Errorf("entity '%s' is not declared", name))
	}
	return exp, nil
}

/*
 * parse an XML name.
 *
 * [4] NameChar ::= Letter | Digit | '.' | '-' | '_' | ':' |
 *                  CombiningChar | Extender
 *
 * [5] Name ::= (Letter | '_' | ':') (NameChar)*
 */
func (t *Tokenizer) parseName() (string, error) {
	if t.curDone() {
		return "", t.error(CodeUnexpectedEOF)
	}
	if !isNameStartChar(t.curPeek(1)) {
		return "", t.error(CodeNameCharacter)
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	for isNameChar(t.curPeek(1)) {
		r := t.curPeek(1)
		t.curAdvance(1)
		buf = utf8.AppendRune(buf, r)
		if len(buf) > MaxNameLength {
			return "", t.errorCause(CodeNameCharacter, errors.New("name exceeds maximum length"))
		}
	}
	return string(buf), nil
}

/*
 * parse a namespace-qualified name and split it into its prefix and
 * local part.
 *
 * [7] QName ::= PrefixedName | UnprefixedName
 *
 * [8] PrefixedName ::= Prefix ':' LocalPart
 */
func (t *Tokenizer) parseQName() (string, string, error) {
	name, err := t.parseName()
	if err != nil {
		return "", "", err
	}
	i := strings.IndexByte(name, ':')
	if i < 0 {
		return "", name, nil
	}
	if strings.IndexByte(name[i+1:], ':') >= 0 {
		return "", "", t.error(CodeMultipleColons)
	}
	if i == 0 || i == len(name)-1 {
		return "", "", t.error(CodeQualifiedNameCharacter)
	}
	return name[:i], name[i+1:], nil
}

func isBlankCh(c rune) bool {
	return c == 0x20 || (0x9 <= c && c <= 0xa) || c == 0xd
}

func isChar(r rune) bool {
	if r == utf8.RuneError {
		return false
	}

	c := uint32(r)
	if c < 0x100 {
		return (0x9 <= c && c <= 0xa) || c == 0xd || 0x20 <= c
	}
	return (0x100 <= c && c <= 0xd7ff) || (0xe000 <= c && c <= 0xfffd) || (0x10000 <= c && c <= 0x10ffff)
}

func isNameStartChar(r rune) bool {
	return r == '_' || r == ':' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return r == '.' || r == '-' || r == '_' || r == ':' ||
		unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Extender)
}

/*
 * [26] VersionNum ::= '1.' [0-9]+
 */
func isVersionNum(s string) bool {
	if !strings.HasPrefix(s, "1.") || len(s) < 3 {
		return false
	}
	for _, r := range s[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

/*
 * [81] EncName ::= [A-Za-z] ([A-Za-z0-9._] | '-')*
 */
func isEncName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		alpha := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		if i == 0 {
			if !alpha {
				return false
			}
			continue
		}
		if !alpha && !(r >= '0' && r <= '9') && r != '.' && r != '_' && r != '-' {
			return false
		}
	}
	return true
}

/*
 * [13] PubidChar ::= #x20 | #xD | #xA | [a-zA-Z0-9] | [-'()+,./:=?;!*#@$_%]
 */
func isPubidLiteral(s string) bool {
	for _, r := range s {
		switch {
		case r == 0x20 || r == 0xd || r == 0xa:
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-'()+,./:=?;!*#@$_%", r):
		default:
			return false
		}
	}
	return true
}
