package img

// Grid holds the pixel values of an image in row-major order. Every value
// uses only as many low bytes as the pixel format allows.
type Grid struct {
	Width  int
	Height int
	Pix    []uint64
}

// NewGrid returns a zeroed grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]uint64, width*height),
	}
}

// At returns the pixel value at column x, row y.
func (g *Grid) At(x, y int) uint64 {
	return g.Pix[y*g.Width+x]
}

// Set stores the pixel value at column x, row y.
func (g *Grid) Set(x, y int, v uint64) {
	g.Pix[y*g.Width+x] = v
}

// Row returns row y as a slice sharing the grid's storage.
func (g *Grid) Row(y int) []uint64 {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

func (g *Grid) each(fn func(x, y int, v uint64)) {
	for y := 0; y < g.Height; y++ {
		for x, v := range g.Row(y) {
			fn(x, y, v)
		}
	}
}

// FlipHorizontal mirrors the grid around its vertical axis.
func (g *Grid) FlipHorizontal() {
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for i, j := 0, g.Width-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
}

// FlipVertical mirrors the grid around its horizontal axis.
func (g *Grid) FlipVertical() {
	for i, j := 0, g.Height-1; i < j; i, j = i+1, j-1 {
		top, bottom := g.Row(i), g.Row(j)
		for x := range top {
			top[x], bottom[x] = bottom[x], top[x]
		}
	}
}
