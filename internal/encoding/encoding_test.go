package encoding_test

import (
	"testing"

	"github.com/lestrrat-go/xmlrw/internal/encoding"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/unicode"
)

func TestIsUTF8(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF-8", "utf8", "Utf8"} {
		if !assert.True(t, encoding.IsUTF8(name), "%s is utf-8", name) {
			return
		}
	}
	for _, name := range []string{"utf-16", "iso-8859-1", ""} {
		if !assert.False(t, encoding.IsUTF8(name), "%s is not utf-8", name) {
			return
		}
	}
}

func TestLoad(t *testing.T) {
	if !assert.Equal(t, unicode.UTF8, encoding.Load("UTF-8"), "utf-8 resolves") {
		return
	}
	if !assert.NotNil(t, encoding.Load("shift_jis"), "shift_jis resolves") {
		return
	}
	if !assert.NotNil(t, encoding.Load("ISO-8859-1"), "iso-8859-1 resolves") {
		return
	}
	if !assert.Nil(t, encoding.Load("bogus-encoding"), "unknown label resolves to nil") {
		return
	}
}
