package xmlrw

import "github.com/lestrrat-go/xmlrw/internal/engine"

// The defect message tables. Messages are keyed by the low byte of
// the defect code; each table covers one code block. The holes are
// deliberate and must stay: a code inside a hole is still a valid
// defect, it just carries no message. Wording, including its quirks,
// is kept exactly as consumers have come to match on it.

var readerErrMsg = map[byte]string{
	0x01: "unexpected end of input",
	0x02: "unrecognized encoding",
	0x03: "unable to switch the encoding",
	0x04: "unrecognized input signature",
	0x21: "whitespace expected",
	0x22: "semicolon expected",
	0x23: "'>' expected",
	0x24: "quote expected",
	0x25: "equal expected",
	0x26: "well-formedness constraint: no '<' in attribute value",
	0x27: "hexadecimal digit expected",
	0x28: "'[' expected",
	0x29: "'(' expected",
	0x2A: "illegal XML character",
	0x2B: "illegal name character",
	0x2C: "incorrect document syntax",
	0x2D: "incorrect CDATA section syntax",
	0x2F: "incorrect comment syntax",
	0x30: "incorrect conditional section syntax",
	0x31: "incorrect ATTLIST declaration syntax",
	0x32: "incorrect DOCTYPE declaration syntax",
	0x33: "incorrect ELEMENT declaration syntax",
	0x34: "incorrect ENTITY declaration syntax",
	0x35: "incorrect NOTATION declaration syntax",
	0x36: "NDATA expected",
	0x37: "PUBLIC expected",
	0x38: "SYSTEM expected",
	0x39: "name expected",
	0x3A: "one root element",
	0x3B: "well-formedness constraint: element type match",
	0x3C: "well-formedness constraint: unique attribute spec",
	0x3D: "text/xmldecl not at the beginning of input",
	0x3E: `leading "xml"`,
	0x3F: "incorrect text declaration syntax",
	0x40: "incorrect XML declaration syntax",
	0x41: "incorrect encoding name syntax",
	0x42: "incorrect public identifier syntax",
	0x43: "well-formedness constraint: pes in internal subset",
	0x44: "well-formedness constraint: pes between declarations",
	0x45: "well-formedness constraint: no recursion",
	0x46: "entity content not well formed",
	0x47: "well-formedness constraint: undeclared entity",
	0x48: "well-formedness constraint: parsed entity",
	0x49: "well-formedness constraint: no external entity references",
	0x4A: "incorrect processing instruction syntax",
	0x4B: "incorrect system identifier syntax",
	0x4C: "'?' expected",
	0x4D: "no ']]>' in element content",
	0x4E: "not all chunks of value have been read",
	0x4F: "DTD was found but is prohibited",
	0x50: "xml:space attribute with invalid value",
	0x61: "illegal qualified name character",
	0x62: "multiple colons in qualified name",
	0x63: "colon in name",
	0x64: "declared prefix",
	0x65: "undeclared prefix",
	0x66: "nondefault namespace with empty URI",
	0x67: `"xml" prefix is reserved and must have the http://www.w3.org/XML/1998/namespace URI`,
	0x68: `"xmlns" prefix is reserved for use by XML`,
	0x69: `xml namespace URI (http://www.w3.org/XML/1998/namespace) must bee assigned only to prefix "xml"`,
	0x6A: "xmlns namespace URI (http://www.w3.org/2000/xmlns/) is reserved and must not be used",
	0x81: "element depth exceeds limit in XmlReaderProperty_MaxElementDepth",
	0x82: "entity expansion exceeds limit in XmlReaderProperty_MaxEntityExpansion",
}

var writerErrMsg = map[byte]string{
	0x01: "specified string is not whitespace",
	0x02: "namespace prefix is already declared with a different namespace",
	0x03: "it is not allowed to declare a namespace prefix with empty URI",
	0x04: "duplicate attribute",
	0x05: "can not redefine the xmlns prefix",
	0x06: "xml prefix must have the http://www.w3.org/XML/1998/namespace URI",
	0x07: `xml namespace URI (http://www.w3.org/XML/1998/namespace) must be assigned only to prefix "xml"`,
	0x08: "xmlns namespace URI (http://www.w3.org/2000/xmlns/) is reserved and must not be used",
	0x09: "namespace is not declared",
	0x0A: `invalid value of xml:space attribute (allowed values are "default" and "preserve")`,
	0x0B: "performing the requested action would result in invalid XML document",
	0x0C: "input contains invalid or incomplete surrogate pair",
}

var miscErrMsg = map[byte]string{
	0x1D: "character in character entity is not a decimal digit as was expected",
	0x1E: "character in character entity is not a hexadecimal digit as was expected",
	0x1F: "character entity has invalid Unicode value",
}

func readerMessage(code uint32) string {
	switch code &^ 0xFF {
	case engine.ReaderDefectBase:
		return readerErrMsg[byte(code)]
	case engine.MiscDefectBase:
		return miscErrMsg[byte(code)]
	}
	return ""
}

func writerMessage(code uint32) string {
	switch code &^ 0xFF {
	case engine.WriterDefectBase:
		return writerErrMsg[byte(code)]
	case engine.MiscDefectBase:
		return miscErrMsg[byte(code)]
	}
	return ""
}
