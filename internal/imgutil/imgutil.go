// Package imgutil decodes slideshow images and prepares them for display:
// EXIF orientation normalization at decode time, capture-year extraction,
// and viewport-fit scaling.
package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Photo is a decoded, orientation-corrected image with the metadata shown
// alongside it.
type Photo struct {
	Image image.Image
	Year  string // capture year from EXIF, "" when unknown
}

// DecodeOriented decodes raw image bytes, applies the EXIF orientation so the
// image displays upright, and extracts the capture year.
func DecodeOriented(data []byte) (*Photo, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	year := ""
	if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
		img = ApplyOrientation(img, orientationOf(x))
		if dt, err := x.DateTime(); err == nil {
			year = strconv.Itoa(dt.Year())
		}
	}

	return &Photo{Image: img, Year: year}, nil
}

// orientationOf returns the EXIF orientation code, or 1 when absent.
func orientationOf(x *exif.Exif) int {
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// ApplyOrientation maps an EXIF orientation code (1-8) to the transform that
// upright-normalizes the image. Code 1 and unknown codes return the image
// unchanged.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Rotate90(imaging.FlipH(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Rotate270(imaging.FlipH(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
