package render

import (
	"fmt"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFont is the name of the font every FontLibrary starts with.
const DefaultFont = "lmroman10"

// FontLibrary maps font names to parsed fonts for the glyph cache.
type FontLibrary struct {
	fonts map[string]*sfnt.Font
}

// NewFontLibrary creates a library preloaded with the Latin Modern roman
// face under DefaultFont.
func NewFontLibrary() *FontLibrary {
	l := &FontLibrary{fonts: make(map[string]*sfnt.Font)}
	// The embedded font data is known good; a parse failure here is a
	// build problem, not a runtime condition.
	if err := l.Register(DefaultFont, lmroman10regular.TTF); err != nil {
		panic(fmt.Sprintf("render: default font: %v", err))
	}
	return l
}

// Register parses TTF/OTF bytes and stores the font under name.
func (l *FontLibrary) Register(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", name, err)
	}
	l.fonts[name] = f
	return nil
}

// Lookup returns the font registered under name.
func (l *FontLibrary) Lookup(name string) (*sfnt.Font, bool) {
	f, ok := l.fonts[name]
	return f, ok
}
