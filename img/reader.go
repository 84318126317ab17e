package img

import (
	"io"
)

// Image is a decoded IMG file.
type Image struct {
	Header Header
	Grid   *Grid
}

// New returns a zeroed image for the given header. It fails if the header
// would not pass decoding.
func New(h Header) (*Image, error) {
	if !h.Order.valid() {
		return nil, ErrInvalidMarker
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, ErrInvalidDimension
	}
	if _, ok := h.Format.BytesPerPixel(); !ok {
		return nil, ErrUnsupportedFormat
	}
	return &Image{
		Header: h,
		Grid:   NewGrid(int(h.Width), int(h.Height)),
	}, nil
}

const maxPreallocPixels = 1 << 20

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func pixelValue(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

type decoder struct {
	r io.Reader

	bpp   int
	image *Image

	// One row of raw pixels
	tmp []byte
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	h, bpp, err := DecodeHeader(r)
	if err != nil {
		return err
	}
	d.bpp = bpp

	if configOnly {
		d.image = &Image{Header: h}
		return nil
	}

	// Grow the grid only as rows arrive, the header size is untrusted
	g := &Grid{
		Width:  int(h.Width),
		Height: int(h.Height),
		Pix:    make([]uint64, 0, min(int(h.Width)*int(h.Height), maxPreallocPixels)),
	}
	d.tmp = make([]byte, g.Width*d.bpp)
	for y := 0; y < g.Height; y++ {
		if err := readFull(d.r, d.tmp); err != nil {
			if err != io.ErrUnexpectedEOF {
				return err
			}
			return ErrTruncated
		}
		for x := 0; x < g.Width; x++ {
			g.Pix = append(g.Pix, pixelValue(d.tmp[x*d.bpp:(x+1)*d.bpp]))
		}
	}
	d.image = &Image{Header: h, Grid: g}

	var extra [1]byte
	switch _, err := io.ReadFull(d.r, extra[:]); err {
	case io.EOF:
		return nil
	case nil:
		return ErrTrailingData
	default:
		return err
	}
}

// Decode reads an IMG file from r. The whole of r must be consumed by the
// image, any trailing data is an error.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the header of an IMG file without reading the
// pixels.
func DecodeConfig(r io.Reader) (Header, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Header{}, err
	}
	return d.image.Header, nil
}
