package video

const (
	// FrameWidth and FrameHeight size the shared screen buffer. It is larger
	// than the LCD so that debug views of the whole background fit in it.
	FrameWidth  = 256
	FrameHeight = 256

	// ScreenWidth and ScreenHeight are the visible LCD area, drawn in the
	// top-left corner of the frame.
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Frame is a buffer of post-palette shades, stored row by row.
type Frame [FrameWidth * FrameHeight]Shade

// At returns the shade at (x, y).
func (f *Frame) At(x, y int) Shade {
	return f[y*FrameWidth+x]
}

// Set stores a shade at (x, y).
func (f *Frame) Set(x, y int, s Shade) {
	f[y*FrameWidth+x] = s
}

// Fill sets every pixel to s.
func (f *Frame) Fill(s Shade) {
	for i := range f {
		f[i] = s
	}
}
