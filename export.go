package imgflip

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

const maxColors = 256

// Export decodes the IMG file src and writes it to dst as a PNG image. If
// colors is non-zero the image is reduced to a palette of at most that many
// colors first.
func (c *Converter) Export(src, dst string, colors int) error {
	if colors < 0 || colors > maxColors {
		return fmt.Errorf("colors must be between 0 and %d", maxColors)
	}

	m, _, err := c.decodeFile(src)
	if err != nil {
		return err
	}

	c.logger.Printf("%s: %s\n", src, m.Header)

	out, err := m.ToImage()
	if err != nil {
		return err
	}

	if colors > 0 {
		b := out.Bounds()
		q := quantize.MedianCutQuantizer{}
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), out))
		draw.Draw(pm, b, out, b.Min, draw.Src)
		out = pm

		c.logger.Printf("%s: reduced to %d colors\n", src, len(pm.Palette))
	}

	return writeFile(dst, func(w io.Writer) error {
		return png.Encode(w, out)
	})
}
