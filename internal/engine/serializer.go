package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lestrrat-go/xmlrw/internal/debug"
	"github.com/lestrrat-go/xmlrw/internal/dedup"
	"github.com/lestrrat-go/xmlrw/internal/pool"
	"github.com/lestrrat-go/xmlrw/internal/stack"
)

// wrElement is one entry of the open element stack. While open is
// true the start tag has not been closed with '>' yet, and attributes
// may still be added to it.
type wrElement struct {
	prefix   string
	local    string
	bindings int
	attrs    dedup.Set[[2]string]
	open     bool
	hasText  bool
	children int
}

// Serializer emits markup to a buffered stream, one node per call,
// while enforcing the nesting and namespace discipline a well-formed
// document requires. Namespace declarations are emitted automatically
// the first time a prefix/URI pair is used in a scope where it is not
// already bound.
type Serializer struct {
	out        *bufio.Writer
	scopes     stack.ScopeStack
	elems      stack.Stack[wrElement]
	indent     string
	docStarted bool
	docEnded   bool
	wroteAny   bool
}

// NewSerializer creates a Serializer over dst. A non-empty indent
// turns on pretty-printing: structural children are placed on their
// own lines, indented once per nesting level, except inside elements
// that carry text content.
func NewSerializer(dst io.Writer, indent string) (*Serializer, error) {
	if dst == nil {
		return nil, errors.New("nil output stream")
	}
	s := &Serializer{
		out:    bufio.NewWriter(dst),
		indent: indent,
	}
	s.scopes.Push(stack.Binding{Prefix: "xml", URI: XMLNamespaceURI})
	return s, nil
}

func (s *Serializer) defect(code uint32) error {
	return &Defect{Code: code}
}

func (s *Serializer) defectCause(code uint32, cause error) error {
	return &Defect{Code: code, Cause: cause}
}

func (s *Serializer) emit(buf []byte) error {
	_, err := s.out.Write(buf)
	return err
}

// Flush forces out everything buffered so far. Open elements stay
// open; use EndDocument to unwind them.
func (s *Serializer) Flush() error {
	return s.out.Flush()
}

// StartDocument emits the XML declaration. The document is always
// declared as version 1.0 in UTF-8; sa picks the standalone
// pseudo-attribute, or omits it. A declaration must be the first
// thing written, and there can only be one.
func (s *Serializer) StartDocument(sa Standalone) error {
	if s.docEnded || s.docStarted || s.wroteAny {
		return s.defect(CodeWriteInvalidAction)
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	buf = append(buf, `<?xml version="1.0" encoding="utf-8"`...)
	switch sa {
	case StandaloneYes:
		buf = append(buf, ` standalone="yes"`...)
	case StandaloneNo:
		buf = append(buf, ` standalone="no"`...)
	}
	buf = append(buf, '?', '>', '\n')

	s.docStarted = true
	s.wroteAny = true
	return s.emit(buf)
}

// EndDocument closes every element still open, innermost first, then
// terminates the output with a newline and flushes it. Nothing more
// can be written afterwards.
func (s *Serializer) EndDocument() error {
	if s.docEnded {
		return s.defect(CodeWriteInvalidAction)
	}
	for s.elems.Len() > 0 {
		if err := s.EndElement(); err != nil {
			return err
		}
	}
	if err := s.emit([]byte{'\n'}); err != nil {
		return err
	}
	s.docEnded = true
	return s.out.Flush()
}

// closeOpenTag finishes the pending start tag, if any, so content can
// follow it.
func (s *Serializer) closeOpenTag(buf []byte) []byte {
	if top := s.elems.Top(); top != nil && top.open {
		buf = append(buf, '>')
		top.open = false
	}
	return buf
}

func (s *Serializer) breakLine(buf []byte, depth int) []byte {
	buf = append(buf, '\n')
	for i := 0; i < depth; i++ {
		buf = append(buf, s.indent...)
	}
	return buf
}

// StartElement opens an element. Prefix and URI may both be empty for
// a name with no explicit namespace qualification; a non-empty prefix
// with an empty URI refers to whatever the prefix is bound to in the
// enclosing scope. A new prefix/URI pair is declared on this element,
// and conflicts with an existing binding of the same prefix are
// rejected.
func (s *Serializer) StartElement(prefix, local, uri string) error {
	if s.docEnded {
		return s.defect(CodeWriteInvalidAction)
	}
	if err := s.checkName(prefix, local); err != nil {
		return err
	}
	if err := s.checkReserved(prefix, uri); err != nil {
		return err
	}

	bindings := 0
	switch {
	case prefix == "" && uri == "":
		// no qualification
	case uri == "":
		if _, ok := s.scopes.Lookup(prefix); !ok {
			return s.defectCause(CodeWriteUndeclaredNamespace, fmt.Errorf("prefix '%s' is not declared", prefix))
		}
	default:
		added, err := s.scopes.Declare(stack.Binding{Prefix: prefix, URI: uri})
		if err != nil {
			return s.defectCause(CodeWritePrefixConflict, err)
		}
		if added {
			bindings++
		}
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	buf = s.closeOpenTag(buf)
	if parent := s.elems.Top(); parent != nil {
		parent.children++
		if s.indent != "" && !parent.hasText {
			buf = s.breakLine(buf, s.elems.Len())
		}
	}

	buf = append(buf, '<')
	buf = appendQName(buf, prefix, local)
	if bindings > 0 {
		buf = appendNSDecl(buf, prefix, uri)
	}

	s.elems.Push(wrElement{
		prefix:   prefix,
		local:    local,
		bindings: bindings,
		open:     true,
	})
	s.wroteAny = true

	if debug.Enabled {
		debug.Printf("start element %s (depth=%d)", local, s.elems.Len())
	}
	return s.emit(buf)
}

// EndElement closes the innermost open element. An element with no
// content collapses to the empty-element form.
func (s *Serializer) EndElement() error {
	if s.docEnded {
		return s.defect(CodeWriteInvalidAction)
	}
	top := s.elems.Top()
	if top == nil {
		return s.defectCause(CodeWriteInvalidAction, errors.New("no element is open"))
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	if top.open {
		buf = append(buf, '/', '>')
	} else {
		if s.indent != "" && top.children > 0 && !top.hasText {
			buf = s.breakLine(buf, s.elems.Len()-1)
		}
		buf = append(buf, '<', '/')
		buf = appendQName(buf, top.prefix, top.local)
		buf = append(buf, '>')
	}

	s.scopes.Pop(top.bindings)
	s.elems.Pop()
	return s.emit(buf)
}

// Attribute adds an attribute to the element whose start tag is still
// open. An empty prefix with a non-empty URI reuses a prefix already
// bound to that URI, since attributes never take the default
// namespace. Two attributes with the same expanded name are rejected.
func (s *Serializer) Attribute(prefix, local, uri, value string) error {
	if s.docEnded {
		return s.defect(CodeWriteInvalidAction)
	}
	top := s.elems.Top()
	if top == nil || !top.open {
		return s.defectCause(CodeWriteInvalidAction, errors.New("no start tag is open"))
	}
	if err := s.checkName(prefix, local); err != nil {
		return err
	}
	if prefix == "" && local == "xmlns" {
		return s.defect(CodeWriteXMLNSPrefix)
	}
	if err := s.checkReserved(prefix, uri); err != nil {
		return err
	}
	if prefix == "xml" && local == "space" && value != "default" && value != "preserve" {
		return s.defect(CodeWriteXMLSpaceValue)
	}
	if err := s.checkText(value); err != nil {
		return err
	}

	effPrefix := prefix
	effURI := uri
	bindingAdded := false
	switch {
	case prefix == "" && uri == "":
		// no namespace
	case prefix == "":
		b, ok := s.scopes.LookupURI(uri)
		if !ok || !s.resolvesTo(b.Prefix, uri) {
			return s.defectCause(CodeWriteUndeclaredNamespace, fmt.Errorf("no prefix is bound to '%s'", uri))
		}
		effPrefix = b.Prefix
	case uri == "":
		b, ok := s.scopes.Lookup(prefix)
		if !ok {
			return s.defectCause(CodeWriteUndeclaredNamespace, fmt.Errorf("prefix '%s' is not declared", prefix))
		}
		effURI = b.URI
	default:
		added, err := s.scopes.Declare(stack.Binding{Prefix: prefix, URI: uri})
		if err != nil {
			return s.defectCause(CodeWritePrefixConflict, err)
		}
		bindingAdded = added
	}

	if !top.attrs.Add([2]string{effURI, local}) {
		return s.defectCause(CodeWriteDuplicateAttribute, fmt.Errorf("attribute '%s' appears more than once", local))
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	if bindingAdded {
		top.bindings++
		buf = appendNSDecl(buf, effPrefix, uri)
	}
	buf = append(buf, ' ')
	buf = appendQName(buf, effPrefix, local)
	buf = append(buf, '=', '"')
	buf = appendEscapedAttr(buf, value)
	buf = append(buf, '"')
	return s.emit(buf)
}

// Text emits character data inside the innermost open element. Markup
// characters are escaped; a carriage return is emitted as a character
// reference so it survives a read back.
func (s *Serializer) Text(v string) error {
	if s.docEnded {
		return s.defect(CodeWriteInvalidAction)
	}
	top := s.elems.Top()
	if top == nil {
		return s.defectCause(CodeWriteInvalidAction, errors.New("text is not allowed outside the root element"))
	}
	if err := s.checkText(v); err != nil {
		return err
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	buf = s.closeOpenTag(buf)
	if v != "" {
		top.hasText = true
		buf = appendEscapedText(buf, v)
	}
	return s.emit(buf)
}

// CData emits a CDATA section. The payload cannot contain the section
// terminator; it is not split.
func (s *Serializer) CData(v string) error {
	if s.docEnded {
		return s.defect(CodeWriteInvalidAction)
	}
	top := s.elems.Top()
	if top == nil {
		return s.defectCause(CodeWriteInvalidAction, errors.New("CDATA is not allowed outside the root element"))
	}
	if err := s.checkText(v); err != nil {
		return err
	}
	if strings.Contains(v, "]]>") {
		return s.defectCause(CodeWriteInvalidAction, errors.New("CDATA content contains ']]>'"))
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	buf = s.closeOpenTag(buf)
	top.hasText = true
	buf = append(buf, "<![CDATA["...)
	buf = append(buf, v...)
	buf = append(buf, "]]>"...)
	return s.emit(buf)
}

// Comment emits a comment. The text cannot contain '--' or end with
// '-'; there is no way to escape either inside a comment.
func (s *Serializer) Comment(text string) error {
	if s.docEnded {
		return s.defect(CodeWriteInvalidAction)
	}
	if err := s.checkText(text); err != nil {
		return err
	}
	if strings.Contains(text, "--") || strings.HasSuffix(text, "-") {
		return s.defectCause(CodeWriteInvalidAction, errors.New("comment text cannot be represented"))
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	buf = s.closeOpenTag(buf)
	if parent := s.elems.Top(); parent != nil {
		parent.children++
		if s.indent != "" && !parent.hasText {
			buf = s.breakLine(buf, s.elems.Len())
		}
	}
	buf = append(buf, "<!--"...)
	buf = append(buf, text...)
	buf = append(buf, "-->"...)
	s.wroteAny = true
	return s.emit(buf)
}

// ProcessingInstruction emits a PI. The target cannot be any casing of
// "xml", and the data cannot contain the terminator.
func (s *Serializer) ProcessingInstruction(target, data string) error {
	if s.docEnded {
		return s.defect(CodeWriteInvalidAction)
	}
	if !isNCName(target) {
		return s.defectCause(CodeWriteInvalidAction, fmt.Errorf("invalid processing instruction target '%s'", target))
	}
	if strings.EqualFold(target, "xml") {
		return s.defectCause(CodeWriteInvalidAction, errors.New("processing instruction target 'xml' is reserved"))
	}
	if err := s.checkText(data); err != nil {
		return err
	}
	if strings.Contains(data, "?>") {
		return s.defectCause(CodeWriteInvalidAction, errors.New("processing instruction data contains '?>'"))
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	buf = s.closeOpenTag(buf)
	if parent := s.elems.Top(); parent != nil {
		parent.children++
		if s.indent != "" && !parent.hasText {
			buf = s.breakLine(buf, s.elems.Len())
		}
	}
	buf = append(buf, '<', '?')
	buf = append(buf, target...)
	if data != "" {
		buf = append(buf, ' ')
		buf = append(buf, data...)
	}
	buf = append(buf, '?', '>')
	s.wroteAny = true
	return s.emit(buf)
}

func (s *Serializer) resolvesTo(prefix, uri string) bool {
	b, ok := s.scopes.Lookup(prefix)
	return ok && b.URI == uri
}

// checkName rejects element and attribute names the document could
// not carry. Names are colonless here; qualification goes through the
// separate prefix argument.
func (s *Serializer) checkName(prefix, local string) error {
	if !isNCName(local) {
		return s.defectCause(CodeWriteInvalidAction, fmt.Errorf("invalid name '%s'", local))
	}
	if prefix != "" && !isNCName(prefix) {
		return s.defectCause(CodeWriteInvalidAction, fmt.Errorf("invalid prefix '%s'", prefix))
	}
	return nil
}

// checkReserved enforces the fixed meanings of the xml and xmlns
// prefixes and their namespace URIs.
func (s *Serializer) checkReserved(prefix, uri string) error {
	if prefix == "xmlns" {
		return s.defect(CodeWriteXMLNSPrefix)
	}
	if prefix == "xml" && uri != "" && uri != XMLNamespaceURI {
		return s.defect(CodeWriteXMLPrefixURI)
	}
	if uri == XMLNamespaceURI && prefix != "xml" {
		return s.defect(CodeWriteXMLNamespaceURI)
	}
	if uri == XMLNSNamespaceURI {
		return s.defect(CodeWriteXMLNSNamespaceURI)
	}
	return nil
}

// checkText rejects strings that cannot appear in a document at all:
// malformed UTF-8 and characters outside the XML character range.
func (s *Serializer) checkText(v string) error {
	if !utf8.ValidString(v) {
		return s.defectCause(CodeWriteInvalidText, errors.New("text is not valid UTF-8"))
	}
	for _, r := range v {
		if !isChar(r) {
			return s.defectCause(CodeWriteInvalidText, fmt.Errorf("character %#x is not allowed", r))
		}
	}
	return nil
}

func isNCName(v string) bool {
	if v == "" {
		return false
	}
	for i, r := range v {
		if r == ':' {
			return false
		}
		if i == 0 {
			if !isNameStartChar(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func appendQName(buf []byte, prefix, local string) []byte {
	if prefix != "" {
		buf = append(buf, prefix...)
		buf = append(buf, ':')
	}
	return append(buf, local...)
}

func appendNSDecl(buf []byte, prefix, uri string) []byte {
	buf = append(buf, ` xmlns`...)
	if prefix != "" {
		buf = append(buf, ':')
		buf = append(buf, prefix...)
	}
	buf = append(buf, '=', '"')
	buf = appendEscapedAttr(buf, uri)
	return append(buf, '"')
}

func appendEscapedText(buf []byte, v string) []byte {
	for _, r := range v {
		switch r {
		case '&':
			buf = append(buf, "&amp;"...)
		case '<':
			buf = append(buf, "&lt;"...)
		case '>':
			buf = append(buf, "&gt;"...)
		case '\r':
			buf = append(buf, "&#13;"...)
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}

func appendEscapedAttr(buf []byte, v string) []byte {
	for _, r := range v {
		switch r {
		case '&':
			buf = append(buf, "&amp;"...)
		case '<':
			buf = append(buf, "&lt;"...)
		case '>':
			buf = append(buf, "&gt;"...)
		case '"':
			buf = append(buf, "&quot;"...)
		case '\t':
			buf = append(buf, "&#9;"...)
		case '\n':
			buf = append(buf, "&#10;"...)
		case '\r':
			buf = append(buf, "&#13;"...)
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}
