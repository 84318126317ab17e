/*
Package imgflip is a library for mirroring raw IMG images horizontally and/or
vertically while keeping the original byte order of the file.
*/
package imgflip

import (
	"io"
	"log"
	"strings"

	"github.com/bodgit/imgflip/img"
)

// Flip selects the axes to mirror an image around.
type Flip struct {
	Horizontal bool
	Vertical   bool
}

func (f Flip) apply(g *img.Grid) {
	if f.Horizontal {
		g.FlipHorizontal()
	}
	if f.Vertical {
		g.FlipVertical()
	}
}

func (f Flip) String() string {
	var s []string
	if f.Horizontal {
		s = append(s, "horizontal")
	}
	if f.Vertical {
		s = append(s, "vertical")
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "+")
}

// Converter converts IMG files, optionally recording every conversion in a
// catalog.
type Converter struct {
	catalog *Catalog
	logger  *log.Logger
}

// New returns a Converter. Both catalog and logger may be nil.
func New(catalog *Catalog, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Converter{
		catalog: catalog,
		logger:  logger,
	}
}
