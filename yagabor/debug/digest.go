package debug

import (
	"github.com/cespare/xxhash"
	"github.com/depechec0de/yagabor/yagabor/video"
)

// FrameDigest hashes the visible 160x144 area of a frame. Two frames with the
// same pixels on screen have the same digest.
func FrameDigest(f *video.Frame) uint64 {
	return RegionDigest(f, video.ScreenWidth, video.ScreenHeight)
}

// RegionDigest hashes the top-left width x height corner of a frame.
func RegionDigest(f *video.Frame, width, height int) uint64 {
	h := xxhash.New()
	row := make([]byte, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			row[x] = byte(f.At(x, y))
		}
		h.Write(row)
	}
	return h.Sum64()
}
