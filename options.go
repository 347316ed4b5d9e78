package xmlrw

import (
	"log/slog"

	"github.com/lestrrat-go/option"
)

type Option = option.Interface

type identIndent struct{}
type identMaxDepth struct{}
type identProhibitDTD struct{}
type identTraceLogger struct{}

// ReaderOption is an option accepted when constructing a Reader.
type ReaderOption interface {
	Option
	readerOption()
}

type readerOption struct{ Option }

func (*readerOption) readerOption() {}

// WriterOption is an option accepted when constructing a Writer.
type WriterOption interface {
	Option
	writerOption()
}

type writerOption struct{ Option }

func (*writerOption) writerOption() {}

// WithMaxDepth specifies the maximum element nesting depth the reader
// accepts before reporting a defect. Zero or a negative value removes
// the limit. The default is 256.
func WithMaxDepth(n int) ReaderOption {
	return &readerOption{option.New(identMaxDepth{}, n)}
}

// WithProhibitDTD makes the reader reject documents that carry a
// DOCTYPE declaration. By default the declaration is scanned and
// surfaced as a node.
func WithProhibitDTD(v bool) ReaderOption {
	return &readerOption{option.New(identProhibitDTD{}, v)}
}

// WithTraceLogger makes the reader log every node transition to l at
// debug level.
func WithTraceLogger(l *slog.Logger) ReaderOption {
	return &readerOption{option.New(identTraceLogger{}, l)}
}

// WithIndent turns on pretty-printed output, using s once per nesting
// level. Elements with text content are left alone so character data
// survives a round trip.
func WithIndent(s string) WriterOption {
	return &writerOption{option.New(identIndent{}, s)}
}
