package img

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawFile(t *testing.T, h Header, payload []byte) []byte {
	t.Helper()
	b, err := h.MarshalBinary()
	require.NoError(t, err)
	return append(b, payload...)
}

func TestDecode(t *testing.T) {
	h := Header{LittleEndian, 2, 2, 0}
	m, err := Decode(bytes.NewReader(rawFile(t, h, []byte{1, 2, 3, 4})))
	require.NoError(t, err)

	assert.Equal(t, h, m.Header)
	assert.Equal(t, 2, m.Grid.Width)
	assert.Equal(t, 2, m.Grid.Height)
	assert.Equal(t, []uint64{1, 2, 3, 4}, m.Grid.Pix)
}

func TestDecodePixelBytesVerbatim(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		m, err := Decode(bytes.NewReader(rawFile(t, Header{order, 1, 1, 18}, payload)))
		require.NoError(t, err)
		assert.Equal(t, uint64(0x060504030201), m.Grid.At(0, 0), "order %s", order)
	}
}

func TestDecodeErrors(t *testing.T) {
	tables := []struct {
		name  string
		input []byte
		err   error
	}{
		{
			name:  "bad marker",
			input: []byte{'X', 'X', 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00},
			err:   ErrInvalidMarker,
		},
		{
			name:  "truncated",
			input: []byte{'I', 'I', 0x02, 0x00, 0x02, 0x00, 0x10, 0x00, 1, 0, 2, 0, 3, 0, 4},
			err:   ErrTruncated,
		},
		{
			name:  "no payload",
			input: []byte{'I', 'I', 0x02, 0x00, 0x02, 0x00, 0x10, 0x00},
			err:   ErrTruncated,
		},
		{
			name:  "trailing",
			input: []byte{'I', 'I', 0x02, 0x00, 0x02, 0x00, 0x10, 0x00, 1, 0, 2, 0, 3, 0, 4, 0, 0},
			err:   ErrTrailingData,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m, err := Decode(bytes.NewReader(table.input))
			assert.ErrorIs(t, err, table.err)
			assert.Nil(t, m)
		})
	}
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func TestDecodeUnsupportedFormatReadsNoPixels(t *testing.T) {
	r := &countingReader{r: bytes.NewReader([]byte{'I', 'I', 0x01, 0x00, 0x01, 0x00, 0x05, 0x00, 0xaa, 0xbb})}
	_, err := Decode(r)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, headerSize, r.n)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestDecodeReadError(t *testing.T) {
	h := Header{LittleEndian, 1, 1, 0}
	r := io.MultiReader(bytes.NewReader(rawFile(t, h, nil)), errReader{})
	_, err := Decode(r)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestDecodeConfig(t *testing.T) {
	h := Header{BigEndian, 5, 7, 19}
	// The pixels are not read so a missing payload is fine
	got, err := DecodeConfig(bytes.NewReader(rawFile(t, h, nil)))
	require.NoError(t, err)
	assert.Equal(t, h, got)

	_, err = DecodeConfig(bytes.NewReader([]byte{'I', 'I'}))
	assert.ErrorIs(t, err, ErrShortHeader)
}

func TestRoundTripAllFormats(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		for format, bpp := range bytesPerPixel {
			for _, size := range [][2]uint16{{1, 1}, {3, 5}, {16, 1}, {1, 9}} {
				h := Header{order, size[0], size[1], format}
				payload := make([]byte, int(size[0])*int(size[1])*bpp)
				rng.Read(payload)
				input := rawFile(t, h, payload)

				m, err := Decode(bytes.NewReader(input))
				require.NoError(t, err)

				for _, v := range m.Grid.Pix {
					if bpp < 8 {
						assert.Zero(t, v>>(uint(bpp)*8), "format %d", format)
					}
				}

				b := new(bytes.Buffer)
				require.NoError(t, Encode(b, m))
				assert.Equal(t, input, b.Bytes(), "format %d order %s", format, order)
			}
		}
	}
}

func TestEncodeValidation(t *testing.T) {
	m, err := New(Header{LittleEndian, 2, 3, 16})
	require.NoError(t, err)

	bad := *m
	bad.Header.Format = 1
	assert.ErrorIs(t, Encode(io.Discard, &bad), ErrUnsupportedFormat)

	bad = *m
	bad.Header.Order = 0
	assert.ErrorIs(t, Encode(io.Discard, &bad), ErrInvalidMarker)

	bad = *m
	bad.Grid = NewGrid(3, 2)
	assert.ErrorIs(t, Encode(io.Discard, &bad), ErrInvalidDimension)

	bad = *m
	bad.Grid = nil
	assert.ErrorIs(t, Encode(io.Discard, &bad), ErrInvalidDimension)
}

func TestEncodeWriteError(t *testing.T) {
	m, err := New(Header{LittleEndian, 64, 64, 19})
	require.NoError(t, err)
	assert.ErrorIs(t, Encode(&limitedWriter{n: 100}, m), io.ErrShortWrite)
}

func TestNew(t *testing.T) {
	_, err := New(Header{ByteOrder(1), 1, 1, 0})
	assert.ErrorIs(t, err, ErrInvalidMarker)
	_, err = New(Header{LittleEndian, 0, 1, 0})
	assert.ErrorIs(t, err, ErrInvalidDimension)
	_, err = New(Header{LittleEndian, 1, 1, 9})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	m, err := New(Header{BigEndian, 4, 2, 3})
	require.NoError(t, err)
	assert.Len(t, m.Grid.Pix, 8)
}

func TestDecodeOversizedHeaderTruncated(t *testing.T) {
	// 65535x65535 at 8 bytes per pixel followed by a single byte
	input := []byte{'I', 'I', 0xff, 0xff, 0xff, 0xff, 0x13, 0x00, 0x01}
	m, err := Decode(bytes.NewReader(input))
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Nil(t, m)

	input[0], input[1] = 'M', 'M'
	input[6], input[7] = 0x00, 0x13
	_, err = Decode(bytes.NewReader(input))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeLargeImage(t *testing.T) {
	// Bigger than the initial allocation
	h := Header{LittleEndian, 1100, 1000, 12}
	payload := make([]byte, 1100*1000)
	for i := range payload {
		payload[i] = byte(i)
	}

	m, err := Decode(bytes.NewReader(rawFile(t, h, payload)))
	require.NoError(t, err)
	require.Len(t, m.Grid.Pix, 1100*1000)
	assert.Equal(t, uint64(payload[len(payload)-1]), m.Grid.At(1099, 999))
	assert.Equal(t, uint64(payload[1100]), m.Grid.At(0, 1))
}
