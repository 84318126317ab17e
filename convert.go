package imgflip

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bodgit/imgflip/img"
	"github.com/cespare/xxhash/v2"
)

func (c *Converter) decodeFile(file string) (*img.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := xxhash.New()
	m, err := img.Decode(io.TeeReader(f, h))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", file, err)
	}

	return m, fmt.Sprintf("%016x", h.Sum64()), nil
}

// writeFile writes to a temporary file next to file and renames it into
// place once fn succeeds, otherwise the temporary file is removed.
func writeFile(file string, fn func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = fn(f); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if err = f.Chmod(0644); err != nil {
		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), file)
}

// Convert reads the IMG file src, mirrors it according to flip and writes
// the result to dst. dst is only created if the whole conversion succeeds.
func (c *Converter) Convert(src, dst string, flip Flip) (err error) {
	conv := Conversion{
		Source:      src,
		Destination: dst,
		Flip:        flip,
		Created:     time.Now(),
	}

	if c.catalog != nil {
		defer func() {
			if err != nil {
				conv.Err = err.Error()
			}
			if rerr := c.catalog.Record(conv); rerr != nil && err == nil {
				err = rerr
			}
		}()
	}

	m, hash, err := c.decodeFile(src)
	if err != nil {
		return err
	}
	conv.Hash, conv.Header = hash, &m.Header

	c.logger.Printf("%s: %s\n", src, m.Header)

	flip.apply(m.Grid)

	if err = writeFile(dst, func(w io.Writer) error {
		return img.Encode(w, m)
	}); err != nil {
		return err
	}

	c.logger.Printf("%s: wrote %s, flip %s\n", src, dst, flip)

	return nil
}

// Convert reads the IMG file src, optionally mirrors it horizontally and/or
// vertically and writes the result to dst.
func Convert(src, dst string, flipHorizontal, flipVertical bool) error {
	return New(nil, nil).Convert(src, dst, Flip{
		Horizontal: flipHorizontal,
		Vertical:   flipVertical,
	})
}

// FlipImage is like Convert but only reports whether the conversion
// succeeded.
func FlipImage(src, dst string, flipHorizontal, flipVertical bool) bool {
	return Convert(src, dst, flipHorizontal, flipVertical) == nil
}
