package img

import (
	"image"
	"image/color"
)

// sample returns channel c of pixel v scaled to 16 bits.
func (f Format) sample(v uint64, c int) uint16 {
	switch f.BitsPerChannel() {
	case 1:
		if v>>(c<<3)&0x01 != 0 {
			return 0xffff
		}
		return 0
	case 8:
		s := uint16(v >> (c << 3) & 0xff)
		return s<<8 | s
	default:
		return uint16(v >> (c << 4))
	}
}

func (f Format) sample8(v uint64, c int) uint8 {
	return uint8(f.sample(v, c) >> 8)
}

// ToImage converts m into an image.Image suitable for the standard library
// encoders. Single channel formats become grey images, three channel formats
// are opaque and four channel formats carry a non-premultiplied alpha.
func (m *Image) ToImage() (image.Image, error) {
	f := m.Header.Format
	if _, ok := f.BytesPerPixel(); !ok {
		return nil, ErrUnsupportedFormat
	}

	g := m.Grid
	r := image.Rect(0, 0, g.Width, g.Height)
	deep := f.BitsPerChannel() > 8

	switch {
	case f.Channels() == 1 && deep:
		dst := image.NewGray16(r)
		g.each(func(x, y int, v uint64) {
			dst.SetGray16(x, y, color.Gray16{Y: f.sample(v, 0)})
		})
		return dst, nil
	case f.Channels() == 1:
		dst := image.NewGray(r)
		g.each(func(x, y int, v uint64) {
			dst.SetGray(x, y, color.Gray{Y: f.sample8(v, 0)})
		})
		return dst, nil
	case f.Channels() == 3 && deep:
		dst := image.NewRGBA64(r)
		g.each(func(x, y int, v uint64) {
			dst.SetRGBA64(x, y, color.RGBA64{R: f.sample(v, 0), G: f.sample(v, 1), B: f.sample(v, 2), A: 0xffff})
		})
		return dst, nil
	case f.Channels() == 3:
		dst := image.NewRGBA(r)
		g.each(func(x, y int, v uint64) {
			dst.SetRGBA(x, y, color.RGBA{R: f.sample8(v, 0), G: f.sample8(v, 1), B: f.sample8(v, 2), A: 0xff})
		})
		return dst, nil
	case deep:
		dst := image.NewNRGBA64(r)
		g.each(func(x, y int, v uint64) {
			dst.SetNRGBA64(x, y, color.NRGBA64{R: f.sample(v, 0), G: f.sample(v, 1), B: f.sample(v, 2), A: f.sample(v, 3)})
		})
		return dst, nil
	default:
		dst := image.NewNRGBA(r)
		g.each(func(x, y int, v uint64) {
			dst.SetNRGBA(x, y, color.NRGBA{R: f.sample8(v, 0), G: f.sample8(v, 1), B: f.sample8(v, 2), A: f.sample8(v, 3)})
		})
		return dst, nil
	}
}
