// Package seed produces initial Lenia fields: uniform noise or a grayscale
// image rescaled to [0,1].
package seed

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"lenia/internal/lenia"
	"lenia/pkg/core"
)

var (
	// ErrSeedMissing reports that the seed image does not exist.
	ErrSeedMissing = errors.New("seed: image not found")
	// ErrSeedShape reports a seed image whose dimensions differ from the grid.
	ErrSeedShape = errors.New("seed: image dimensions do not match the grid")
)

// Random returns a field of independent uniform values in [0,1).
func Random(size lenia.Size, seed int64) *lenia.Field {
	f := lenia.NewField(size)
	core.FillUnit(core.NewRand(seed), f.Data)
	return f
}

// LoadImage decodes the image at path and converts it to a field.
func LoadImage(path string, size lenia.Size) (*lenia.Field, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSeedMissing, path)
		}
		return nil, fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer fh.Close()

	f, err := Decode(fh, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode reads an image in any registered format. Colour images are reduced
// to luma; every sample v becomes v/255.
func Decode(r io.Reader, size lenia.Size) (*lenia.Field, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return FromImage(img, size)
}

// FromImage converts img to a field. The image bounds must be exactly size.
func FromImage(img image.Image, size lenia.Size) (*lenia.Field, error) {
	b := img.Bounds()
	if b.Dx() != size.W || b.Dy() != size.H {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSeedShape, b.Dx(), b.Dy(), size.W, size.H)
	}

	f := lenia.NewField(size)
	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < size.H; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+size.W]
			for x, v := range row {
				f.Data[y*size.W+x] = float32(v) / 255
			}
		}
		return f, nil
	}
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			v := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			f.Data[y*size.W+x] = float32(v) / 255
		}
	}
	return f, nil
}
