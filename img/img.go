/*
Package img implements a decoder and encoder for the raw IMG image format.

A file starts with an 8 byte header made up of four 16-bit fields: a byte
order marker, the width, the height and the pixel format. The marker is
either "II" or "MM"; with "MM" the three remaining fields are stored byte
swapped. The header is followed by the pixels, row by row from the top and
left to right within a row, each pixel taking a fixed number of bytes that
depends on the format. The pixel bytes are stored verbatim regardless of the
marker. Nothing may follow the last pixel.
*/
package img

import (
	"errors"
	"fmt"
)

const headerSize = 8

var (
	// ErrShortHeader is returned when the input ends inside the header.
	ErrShortHeader = errors.New("img: short header")
	// ErrInvalidMarker is returned for an unrecognised byte order marker.
	ErrInvalidMarker = errors.New("img: invalid byte order marker")
	// ErrInvalidDimension is returned when the width or height is zero.
	ErrInvalidDimension = errors.New("img: invalid image dimensions")
	// ErrUnsupportedFormat is returned for a format code with no known
	// pixel size.
	ErrUnsupportedFormat = errors.New("img: unsupported pixel format")
	// ErrTruncated is returned when the input ends before the last pixel.
	ErrTruncated = errors.New("img: not enough image data")
	// ErrTrailingData is returned when data follows the last pixel.
	ErrTrailingData = errors.New("img: too much image data")
)

// ByteOrder is the marker stored in the first two bytes of the header.
type ByteOrder uint16

const (
	// LittleEndian is the "II" marker.
	LittleEndian ByteOrder = 0x4949
	// BigEndian is the "MM" marker, the width, height and format fields
	// are byte swapped on disk.
	BigEndian ByteOrder = 0x4d4d
)

func (o ByteOrder) valid() bool {
	return o == LittleEndian || o == BigEndian
}

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "II"
	case BigEndian:
		return "MM"
	default:
		return fmt.Sprintf("ByteOrder(%#04x)", uint16(o))
	}
}

// Format is the pixel format code. The low two bits select the number of
// channels and the next three bits the channel depth.
type Format uint16

var bytesPerPixel = map[Format]int{
	0:  1,
	2:  3,
	3:  4,
	12: 1,
	14: 3,
	15: 4,
	16: 2,
	18: 6,
	19: 8,
}

// BytesPerPixel returns the number of bytes used to store one pixel and
// whether the format is known.
func (f Format) BytesPerPixel() (int, bool) {
	n, ok := bytesPerPixel[f]
	return n, ok
}

// Channels returns the number of channels per pixel, or 0 if the format is
// unknown.
func (f Format) Channels() int {
	if _, ok := f.BytesPerPixel(); !ok {
		return 0
	}
	switch f & 0x03 {
	case 0:
		return 1
	case 2:
		return 3
	default:
		return 4
	}
}

// BitsPerChannel returns the depth of each channel, or 0 if the format is
// unknown. Channels of less than 8 bits still occupy a whole byte.
func (f Format) BitsPerChannel() int {
	if _, ok := f.BytesPerPixel(); !ok {
		return 0
	}
	switch f >> 2 & 0x07 {
	case 0:
		return 1
	case 3:
		return 8
	default:
		return 16
	}
}

func (f Format) String() string {
	if _, ok := f.BytesPerPixel(); !ok {
		return fmt.Sprintf("Format(%d)", uint16(f))
	}
	return fmt.Sprintf("%dx%d-bit", f.Channels(), f.BitsPerChannel())
}
