// Package debug turns emulator state into things a developer can look at:
// images, text dumps and digests of frames.
package debug

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/depechec0de/yagabor/yagabor/video"
)

// gray levels for White, LightGray, DarkGray and Black
var shadeGray = [4]uint8{255, 170, 85, 0}

// shade glyphs from lightest to darkest
var shadeGlyphs = [4]rune{'░', '▒', '▓', '█'}

// Glyph returns the block character used to draw a shade as text.
func Glyph(s video.Shade) rune {
	return shadeGlyphs[s&0x03]
}

// Image converts the top-left width x height corner of a frame to a grayscale
// image.
func Image(f *video.Frame, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: shadeGray[f.At(x, y)&0x03]})
		}
	}
	return img
}

// SavePNG writes the top-left width x height corner of a frame as a PNG.
func SavePNG(f *video.Frame, path string, width, height int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, Image(f, width, height)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Debug("Snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", width, height))
	return nil
}

// WriteText draws the top-left width x height corner of a frame with one
// glyph per pixel, preceded by a short comment header.
func WriteText(w io.Writer, f *video.Frame, frameNumber uint64, width, height int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Frame: %d\n", frameNumber)
	fmt.Fprintf(bw, "# Resolution: %dx%d pixels\n", width, height)
	fmt.Fprintf(bw, "# Legend: %c=white %c=light %c=dark %c=black\n",
		shadeGlyphs[0], shadeGlyphs[1], shadeGlyphs[2], shadeGlyphs[3])

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bw.WriteRune(Glyph(f.At(x, y)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
