package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
)

// DefaultJPEGQuality matches the stream's reference encoder setting.
const DefaultJPEGQuality = 90

// EncodeJPEG writes img as a JPEG with the given quality (1..100).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("render: jpeg quality %d outside 1..100", quality)
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// FrameEncoder turns quantised cells into JPEG frames, reusing its image and
// output buffer between calls. It is not safe for concurrent use.
type FrameEncoder struct {
	w, h    int
	quality int
	palette []color.RGBA
	img     *image.RGBA
	buf     bytes.Buffer
}

// NewFrameEncoder builds an encoder for w×h frames.
func NewFrameEncoder(w, h, quality int, palette []color.RGBA) (*FrameEncoder, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: frame size %dx%d", w, h)
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("render: jpeg quality %d outside 1..100", quality)
	}
	return &FrameEncoder{
		w:       w,
		h:       h,
		quality: quality,
		palette: palette,
		img:     image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

// Encode colours cells and returns the JPEG bytes. The slice is only valid
// until the next call.
func (e *FrameEncoder) Encode(cells []uint8) ([]byte, error) {
	if len(cells) != e.w*e.h {
		return nil, fmt.Errorf("render: got %d cells for a %dx%d frame", len(cells), e.w, e.h)
	}
	e.img = Colorize(e.img, e.w, e.h, cells, e.palette)
	e.buf.Reset()
	if err := EncodeJPEG(&e.buf, e.img, e.quality); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// Image returns the most recently coloured frame.
func (e *FrameEncoder) Image() *image.RGBA { return e.img }
