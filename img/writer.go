package img

import (
	"bufio"
	"io"
)

func writeFull(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	return err
}

func putPixel(b []byte, v uint64) {
	for i := range b {
		b[i] = byte(v)
		v >>= 8
	}
}

type encoder struct {
	w *bufio.Writer

	bpp int

	// One row of raw pixels
	tmp []byte
}

func (e *encoder) encode(m *Image) error {
	if err := EncodeHeader(e.w, m.Header); err != nil {
		return err
	}

	g := m.Grid
	e.tmp = make([]byte, g.Width*e.bpp)
	for y := 0; y < g.Height; y++ {
		for x, v := range g.Row(y) {
			putPixel(e.tmp[x*e.bpp:(x+1)*e.bpp], v)
		}
		if err := writeFull(e.w, e.tmp); err != nil {
			return err
		}
	}

	return e.w.Flush()
}

// Encode writes the image m to w in IMG format. The header is written in
// the byte order given by its marker, the pixels are written verbatim.
func Encode(w io.Writer, m *Image) error {
	h := m.Header
	if !h.Order.valid() {
		return ErrInvalidMarker
	}
	bpp, ok := h.Format.BytesPerPixel()
	if !ok {
		return ErrUnsupportedFormat
	}
	if m.Grid == nil || h.Width == 0 || h.Height == 0 ||
		m.Grid.Width != int(h.Width) || m.Grid.Height != int(h.Height) {
		return ErrInvalidDimension
	}

	e := encoder{
		w:   bufio.NewWriter(w),
		bpp: bpp,
	}

	return e.encode(m)
}
