package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/lestrrat-go/xmlrw"
	"github.com/lestrrat-go/xmlrw/internal/cliutil"
)

type cmdopts struct {
	Format   bool   `long:"format"`
	Indent   string `long:"indent" default:"  "`
	NoBlanks bool   `long:"noblanks"`
	NoOut    bool   `long:"noout"`
	MaxDepth int    `long:"maxdepth" default:"256"`
	NoDTD    bool   `long:"nodtd"`
	Trace    bool   `long:"trace"`
	Version  bool   `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("xmlrw-lint: using xmlrw version %s\n", xmlrw.Version)
}

func showUsage() {
	fmt.Printf(`Usage : xmlrw-lint [options] XMLfiles ...
	Parse the XML files and print them back out
	--format   : reindent the output (implies --noblanks)
	--indent   : indentation unit used by --format
	--noblanks : drop whitespace-only text nodes
	--noout    : parse only, print nothing
	--maxdepth : maximum element nesting depth
	--nodtd    : reject documents carrying a DOCTYPE declaration
	--trace    : log every node read to stderr
	--version  : display the version of the XML library used
`)
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	inputCh := make(chan io.Reader)
	errCh := make(chan error, 1)
	switch {
	case len(args) > 0: // filename present
		go func() {
			defer close(inputCh)
			for _, f := range args {
				fh, err := os.Open(f)
				if err != nil {
					errCh <- err
					return
				}
				inputCh <- fh
			}
		}()
	case !cliutil.IsTty(os.Stdin.Fd()):
		go func() {
			defer close(inputCh)
			inputCh <- os.Stdin
		}()
	default:
		showUsage()
		return 1
	}

	for in := range inputCh {
		err := process(in, &opts)
		if c, ok := in.(io.Closer); ok && in != os.Stdin {
			c.Close()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
	}

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "%s", err)
		return 1
	default:
	}

	return 0
}

func process(in io.Reader, opts *cmdopts) error {
	ropts := []xmlrw.ReaderOption{
		xmlrw.WithMaxDepth(opts.MaxDepth),
		xmlrw.WithProhibitDTD(opts.NoDTD),
	}
	if opts.Trace {
		l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		ropts = append(ropts, xmlrw.WithTraceLogger(l))
	}

	r, err := xmlrw.NewReader(in, ropts...)
	if err != nil {
		return err
	}
	defer r.Close()

	if opts.NoOut {
		return drain(r)
	}

	var wopts []xmlrw.WriterOption
	if opts.Format {
		wopts = append(wopts, xmlrw.WithIndent(opts.Indent))
	}
	w, err := xmlrw.NewWriter(os.Stdout, wopts...)
	if err != nil {
		return err
	}
	defer w.Close()

	return echo(r, w, opts.NoBlanks || opts.Format)
}

func drain(r *xmlrw.Reader) error {
	for {
		ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// nsScope mirrors the namespace bindings the input document declares,
// so that names can be handed to the writer fully resolved. xmlns
// attributes themselves are never echoed; the writer declares each
// binding at its first point of use instead.
type nsScope struct {
	parent *nsScope
	decls  map[string]string
}

func (s *nsScope) lookup(prefix string) string {
	for cur := s; cur != nil; cur = cur.parent {
		if uri, ok := cur.decls[prefix]; ok {
			return uri
		}
	}
	return ""
}

type xattr struct {
	prefix string
	local  string
	value  string
}

func echo(r *xmlrw.Reader, w *xmlrw.Writer, dropBlanks bool) error {
	scope := &nsScope{decls: map[string]string{
		"":    "",
		"xml": xmlrw.XMLNamespaceURI,
	}}
	depth := 0
	started := false

	for {
		ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		nt := r.NodeType()
		if !started && nt != xmlrw.XMLDeclarationNode {
			if err := w.StartDocument(xmlrw.StandaloneOmit); err != nil {
				return err
			}
			started = true
		}

		switch nt {
		case xmlrw.XMLDeclarationNode:
			sa, err := readStandalone(r)
			if err != nil {
				return err
			}
			if err := w.StartDocument(sa); err != nil {
				return err
			}
			started = true
		case xmlrw.ElementNode:
			if err := echoElement(r, w, &scope, &depth); err != nil {
				return err
			}
		case xmlrw.EndElementNode:
			if err := w.EndElement(); err != nil {
				return err
			}
			scope = scope.parent
			depth--
		case xmlrw.TextNode:
			v, err := r.Value()
			if err != nil {
				return err
			}
			if err := w.Text(v); err != nil {
				return err
			}
		case xmlrw.WhitespaceNode:
			// top-level whitespace is implied by the writer's own
			// layout and cannot be echoed as text
			if depth == 0 || dropBlanks {
				continue
			}
			v, err := r.Value()
			if err != nil {
				return err
			}
			if err := w.Text(v); err != nil {
				return err
			}
		case xmlrw.CDATASectionNode:
			v, err := r.Value()
			if err != nil {
				return err
			}
			if err := w.CData(v); err != nil {
				return err
			}
		case xmlrw.CommentNode:
			v, err := r.Value()
			if err != nil {
				return err
			}
			if err := w.Comment(v); err != nil {
				return err
			}
		case xmlrw.ProcessingInstructionNode:
			target, err := r.LocalName()
			if err != nil {
				return err
			}
			data, err := r.Value()
			if err != nil {
				return err
			}
			if err := w.ProcessingInstruction(target, data); err != nil {
				return err
			}
		case xmlrw.DocumentTypeNode:
			// the writer has no DTD support; dropped from the output
		}
	}
	return w.EndDocument()
}

// readStandalone walks the declaration's pseudo-attributes for the
// standalone flag.
func readStandalone(r *xmlrw.Reader) (xmlrw.Standalone, error) {
	sa := xmlrw.StandaloneOmit
	more, err := r.MoveToFirstAttribute()
	for err == nil && more {
		local, lerr := r.LocalName()
		if lerr != nil {
			return sa, lerr
		}
		if local == "standalone" {
			v, verr := r.Value()
			if verr != nil {
				return sa, verr
			}
			if v == "yes" {
				sa = xmlrw.StandaloneYes
			} else {
				sa = xmlrw.StandaloneNo
			}
		}
		more, err = r.MoveToNextAttribute()
	}
	return sa, err
}

func echoElement(r *xmlrw.Reader, w *xmlrw.Writer, scopep **nsScope, depthp *int) error {
	empty := r.IsEmptyElement()
	prefix, local, err := splitName(r)
	if err != nil {
		return err
	}

	decls := map[string]string{}
	var attrs []xattr

	more, err := r.MoveToFirstAttribute()
	for err == nil && more {
		ap, al, aerr := splitName(r)
		if aerr != nil {
			return aerr
		}
		v, verr := r.Value()
		if verr != nil {
			return verr
		}
		switch {
		case ap == "" && al == "xmlns":
			decls[""] = v
		case ap == "xmlns":
			decls[al] = v
		default:
			attrs = append(attrs, xattr{prefix: ap, local: al, value: v})
		}
		more, err = r.MoveToNextAttribute()
	}
	if err != nil {
		return err
	}

	scope := &nsScope{parent: *scopep, decls: decls}

	if err := w.StartElement(prefix, local, scope.lookup(prefix)); err != nil {
		return err
	}
	for _, a := range attrs {
		var uri string
		if a.prefix != "" {
			uri = scope.lookup(a.prefix)
		}
		if err := w.Attribute(a.prefix, a.local, uri, a.value); err != nil {
			return err
		}
	}

	if empty {
		return w.EndElement()
	}
	*scopep = scope
	*depthp++
	return nil
}

// splitName recovers the prefix from the qualified name; the reader
// reports the two name forms but not the prefix on its own.
func splitName(r *xmlrw.Reader) (string, string, error) {
	local, err := r.LocalName()
	if err != nil {
		return "", "", err
	}
	qname, err := r.QualifiedName()
	if err != nil {
		return "", "", err
	}
	if p, rest, ok := strings.Cut(qname, ":"); ok && rest == local {
		return p, local, nil
	}
	return "", local, nil
}
