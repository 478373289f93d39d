package controller

import "image"

// Display presents decoded slides. Implementations belong to the windowing
// layer; the controller only asks for the viewport size and hands over
// images already scaled to fit it.
type Display interface {
	// Size returns the viewport dimensions for the given fullscreen state.
	Size(fullscreen bool) (width, height int)

	// Show presents a scaled image together with its display metadata.
	Show(img image.Image, info ShowInfo)
}

// ShowInfo carries the metadata displayed alongside a slide.
type ShowInfo struct {
	PlaybackIndex int
	Path          string
	Name          string
	ParentDir     string
	Year          string
	Fullscreen    bool
}
