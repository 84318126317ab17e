package img

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

// Header describes an IMG file. Width, Height and Format always hold the
// native values, any byte swapping happens when reading and writing.
type Header struct {
	Order  ByteOrder
	Width  uint16
	Height uint16
	Format Format
}

func (h Header) String() string {
	return fmt.Sprintf("%s %dx%d format %d (%s)", h.Order, h.Width, h.Height, uint16(h.Format), h.Format)
}

func swap16(v uint16) uint16 {
	return bits.ReverseBytes16(v)
}

// fields returns the on-disk form of the header values.
func (h Header) fields() [4]uint16 {
	f := [4]uint16{uint16(h.Order), h.Width, h.Height, uint16(h.Format)}
	if h.Order == BigEndian {
		for i := 1; i < len(f); i++ {
			f[i] = swap16(f[i])
		}
	}
	return f
}

func readField(r io.Reader) (uint16, error) {
	var tmp [2]byte
	if err := readFull(r, tmp[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, ErrShortHeader
		}
		return 0, err
	}
	return binary.LittleEndian.Uint16(tmp[:]), nil
}

// DecodeHeader reads and validates a header from r. It returns the header
// along with the number of bytes used by each pixel.
func DecodeHeader(r io.Reader) (Header, int, error) {
	var h Header

	order, err := readField(r)
	if err != nil {
		return h, 0, err
	}
	h.Order = ByteOrder(order)
	if !h.Order.valid() {
		return h, 0, ErrInvalidMarker
	}

	var f [3]uint16
	for i := range f {
		if f[i], err = readField(r); err != nil {
			return h, 0, err
		}
		if h.Order == BigEndian {
			f[i] = swap16(f[i])
		}
	}
	h.Width, h.Height, h.Format = f[0], f[1], Format(f[2])

	if h.Width == 0 || h.Height == 0 {
		return h, 0, ErrInvalidDimension
	}

	n, ok := h.Format.BytesPerPixel()
	if !ok {
		return h, 0, ErrUnsupportedFormat
	}

	return h, n, nil
}

// EncodeHeader writes h to w, restoring the on-disk byte order of the
// fields.
func EncodeHeader(w io.Writer, h Header) error {
	var tmp [headerSize]byte
	for i, v := range h.fields() {
		binary.LittleEndian.PutUint16(tmp[i<<1:], v)
	}
	return writeFull(w, tmp[:])
}

// MarshalBinary returns the 8 byte on-disk form of the header.
func (h Header) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	if err := EncodeHeader(b, h); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes and validates a header from its on-disk form.
// Any bytes after the header are ignored.
func (h *Header) UnmarshalBinary(b []byte) error {
	tmp, _, err := DecodeHeader(bytes.NewReader(b))
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}
