package render

import (
	"fmt"
	"image/color"

	"github.com/icza/mjpeg"
)

// Recorder appends coloured frames to an MJPEG AVI file.
type Recorder struct {
	enc    *FrameEncoder
	avi    mjpeg.AviWriter
	frames int
}

// NewRecorder creates the AVI at path.
func NewRecorder(path string, w, h, fps, quality int, palette []color.RGBA) (*Recorder, error) {
	enc, err := NewFrameEncoder(w, h, quality, palette)
	if err != nil {
		return nil, err
	}
	if fps <= 0 {
		fps = 60
	}
	avi, err := mjpeg.New(path, int32(w), int32(h), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("render: create %s: %w", path, err)
	}
	return &Recorder{enc: enc, avi: avi}, nil
}

// AddFrame encodes cells and appends them as one video frame.
func (r *Recorder) AddFrame(cells []uint8) error {
	data, err := r.enc.Encode(cells)
	if err != nil {
		return err
	}
	if err := r.avi.AddFrame(data); err != nil {
		return fmt.Errorf("render: add frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames reports how many frames were written.
func (r *Recorder) Frames() int { return r.frames }

// Close finalises the AVI index and header.
func (r *Recorder) Close() error { return r.avi.Close() }
