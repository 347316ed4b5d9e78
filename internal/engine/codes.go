package engine

// Defect codes follow the XmlLite HRESULT layout: reader defects live
// in the 0xC00CEExx block, writer defects in 0xC00CEFxx, and a handful
// of character-entity defects in the legacy 0xC00CE0xx block. The
// numeric values are wire-stable; consumers persist and compare them,
// so they must never be renumbered.
const (
	ReaderDefectBase uint32 = 0xC00CEE00
	WriterDefectBase uint32 = 0xC00CEF00
	MiscDefectBase   uint32 = 0xC00CE000
)

// Reader-side defects.
const (
	CodeUnexpectedEOF           = ReaderDefectBase | 0x01
	CodeEncoding                = ReaderDefectBase | 0x02
	CodeEncodingSwitch          = ReaderDefectBase | 0x03
	CodeInputSignature          = ReaderDefectBase | 0x04
	CodeWhitespace              = ReaderDefectBase | 0x21
	CodeSemicolon               = ReaderDefectBase | 0x22
	CodeGreaterThan             = ReaderDefectBase | 0x23
	CodeQuote                   = ReaderDefectBase | 0x24
	CodeEqual                   = ReaderDefectBase | 0x25
	CodeLessThanInAttValue      = ReaderDefectBase | 0x26
	CodeXMLCharacter            = ReaderDefectBase | 0x2A
	CodeNameCharacter           = ReaderDefectBase | 0x2B
	CodeSyntax                  = ReaderDefectBase | 0x2C
	CodeCDSect                  = ReaderDefectBase | 0x2D
	CodeComment                 = ReaderDefectBase | 0x2F
	CodeDocTypeDecl             = ReaderDefectBase | 0x32
	CodeName                    = ReaderDefectBase | 0x39
	CodeRootElement             = ReaderDefectBase | 0x3A
	CodeElementMatch            = ReaderDefectBase | 0x3B
	CodeUniqueAttribute         = ReaderDefectBase | 0x3C
	CodeDeclNotFirst            = ReaderDefectBase | 0x3D
	CodeLeadingXML              = ReaderDefectBase | 0x3E
	CodeXMLDecl                 = ReaderDefectBase | 0x40
	CodeEncodingName            = ReaderDefectBase | 0x41
	CodePublicID                = ReaderDefectBase | 0x42
	CodeUndeclaredEntity        = ReaderDefectBase | 0x47
	CodePI                      = ReaderDefectBase | 0x4A
	CodeQuestionMark            = ReaderDefectBase | 0x4C
	CodeCDATAEnd                = ReaderDefectBase | 0x4D
	CodeDTDProhibited           = ReaderDefectBase | 0x4F
	CodeXMLSpace                = ReaderDefectBase | 0x50
	CodeQualifiedNameCharacter  = ReaderDefectBase | 0x61
	CodeMultipleColons          = ReaderDefectBase | 0x62
	CodeColonInName             = ReaderDefectBase | 0x63
	CodeUndeclaredPrefix        = ReaderDefectBase | 0x65
	CodeEmptyNamespaceURI       = ReaderDefectBase | 0x66
	CodeXMLPrefixReserved       = ReaderDefectBase | 0x67
	CodeXMLNSPrefixReserved     = ReaderDefectBase | 0x68
	CodeXMLNamespaceURIReserved = ReaderDefectBase | 0x69
	CodeXMLNSURIReserved        = ReaderDefectBase | 0x6A
	CodeMaxElementDepth         = ReaderDefectBase | 0x81
)

// Writer-side defects.
const (
	CodeWritePrefixConflict      = WriterDefectBase | 0x02
	CodeWriteDuplicateAttribute  = WriterDefectBase | 0x04
	CodeWriteXMLNSPrefix         = WriterDefectBase | 0x05
	CodeWriteXMLPrefixURI        = WriterDefectBase | 0x06
	CodeWriteXMLNamespaceURI     = WriterDefectBase | 0x07
	CodeWriteXMLNSNamespaceURI   = WriterDefectBase | 0x08
	CodeWriteUndeclaredNamespace = WriterDefectBase | 0x09
	CodeWriteXMLSpaceValue       = WriterDefectBase | 0x0A
	CodeWriteInvalidAction       = WriterDefectBase | 0x0B
	CodeWriteInvalidText         = WriterDefectBase | 0x0C
)

// Character-entity defects shared by both sides.
const (
	CodeCharRefDigit    = MiscDefectBase | 0x1D
	CodeCharRefHexDigit = MiscDefectBase | 0x1E
	CodeCharRefValue    = MiscDefectBase | 0x1F
)
