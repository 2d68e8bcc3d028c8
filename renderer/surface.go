package renderer

import "image"

// Surface is an offscreen bitmap holding painted text. Width and Height are
// logical pixels; the image is Width×Scale by Height×Scale device pixels.
type Surface struct {
	Image  *image.RGBA
	Width  float64
	Height float64
	Scale  float64
}

// PixelExtent converts a logical length to device pixels, rounding to the
// nearest pixel like the rasterizer does.
func PixelExtent(logical, scale float64) int {
	if logical <= 0 || scale <= 0 {
		return 0
	}
	return int(logical*scale + 0.5)
}

// NewEmpty returns a zero-area surface.
func NewEmpty(width, height, scale float64) *Surface {
	return &Surface{
		Image:  image.NewRGBA(image.Rect(0, 0, 0, 0)),
		Width:  width,
		Height: height,
		Scale:  scale,
	}
}

// Empty reports whether the surface has no pixels.
func (s *Surface) Empty() bool {
	if s == nil || s.Image == nil {
		return true
	}
	return s.Image.Bounds().Empty()
}

// PixelSize returns the device pixel dimensions.
func (s *Surface) PixelSize() (int, int) {
	if s.Empty() {
		return 0, 0
	}
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}
