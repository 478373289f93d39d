package imgutil

import (
	"image"

	"github.com/nfnt/resize"
)

// FitTo scales img to fill as much of a width x height viewport as possible
// while preserving its aspect ratio. Images are scaled up as well as down,
// matching how the slideshow fills the window.
func FitTo(img image.Image, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	if iw <= 0 || ih <= 0 {
		return img
	}

	var w, h int
	if width*ih > height*iw {
		// Viewport is wider than the image: match height.
		h = height
		w = iw * height / ih
	} else {
		// Viewport is taller than the image: match width.
		w = width
		h = ih * width / iw
	}
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
}
