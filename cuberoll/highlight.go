package cuberoll

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/MaaXYZ/MaaCube/agent/go-service/config"
	"golang.org/x/image/draw"
)

const (
	markWidth        = 3
	maxSnapshotWidth = 1280
)

var markColor = color.RGBA{R: 255, G: 112, B: 0, A: 255}

// slotBounds is the union of a slot's line boxes.
func slotBounds(s config.Slot) image.Rectangle {
	var r image.Rectangle
	for _, l := range s.Lines {
		r = r.Union(image.Rect(l.X, l.Y, l.X+l.W, l.Y+l.H))
	}
	return r
}

// markSlots copies frame and outlines every matched slot.
func markSlots(frame image.Image, slots []config.Slot, matched []int) *image.RGBA {
	b := frame.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, frame, b.Min, draw.Src)
	for _, i := range matched {
		if i < 0 || i >= len(slots) {
			continue
		}
		box := slotBounds(slots[i]).Inset(-markWidth)
		outline(dst, box, markWidth)
	}
	return dst
}

func outline(dst *image.RGBA, r image.Rectangle, w int) {
	src := &image.Uniform{C: markColor}
	bands := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w),
		image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y),
		image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, band := range bands {
		draw.Draw(dst, band.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// scaleDown shrinks img to maxW pixels wide, keeping the aspect ratio.
func scaleDown(img image.Image, maxW int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW || b.Dx() == 0 {
		return img
	}
	h := b.Dy() * maxW / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxW, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// saveSnapshot writes img as dir/accepted_<runID>.png and returns the path.
func saveSnapshot(dir, runID string, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image is nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("accepted_%s.png", runID))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return path, nil
}
