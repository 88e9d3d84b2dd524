package scraper

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// SplitVertical divides a page screenshot into its top and bottom halves.
// The top half typically holds title, description and pricing; the bottom
// holds delivery, seller, specifications and reviews. Both halves keep the
// full width; an odd pixel row goes to the bottom half.
func SplitVertical(screenshot []byte) (top []byte, bottom []byte, err error) {
	img, _, err := image.Decode(bytes.NewReader(screenshot))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode screenshot: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dy() < 2 {
		return nil, nil, fmt.Errorf("screenshot too small to segment: %dx%d", bounds.Dx(), bounds.Dy())
	}
	mid := bounds.Min.Y + bounds.Dy()/2

	topRect := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, mid)
	bottomRect := image.Rect(bounds.Min.X, mid, bounds.Max.X, bounds.Max.Y)

	top, err = encodeRegion(img, topRect)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode top segment: %v", err)
	}
	bottom, err = encodeRegion(img, bottomRect)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode bottom segment: %v", err)
	}
	return top, bottom, nil
}

// encodeRegion copies a rectangular region of the source image into a fresh
// buffer and encodes it as PNG.
func encodeRegion(src image.Image, rect image.Rectangle) ([]byte, error) {
	region := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(region, region.Bounds(), src, rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, region); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
