//go:build debug

package debug

import (
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
)

const Enabled = true

// Trace output goes to stderr so it interleaves with nothing the
// program writes to stdout.
var logger = log.New(os.Stderr, "xmlrw: ", 0)

func Printf(f string, args ...interface{}) {
	logger.Printf(f, args...)
}

// Dump pretty-prints the given values with go-spew.
func Dump(v ...interface{}) {
	spew.Dump(v...)
}
