package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chesscore/internal/board"
)

// MinSize is the smallest diagram Image will draw.
const MinSize = 64

var labelColor = color.RGBA{0x40, 0x40, 0x40, 0xff}

var (
	fontOnce sync.Once
	fontData *opentype.Font
)

// labelFace returns a Go Regular face scaled to size, falling back to the
// built-in bitmap face if the font cannot be loaded.
func labelFace(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err == nil {
			fontData = f
		}
	})
	if fontData == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(fontData, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// Image rasterises the diagram of b into a size x size image, with file
// letters and rank digits in the corners of the edge squares.
func Image(b *board.Board, size int) (*image.RGBA, error) {
	if size < MinSize {
		return nil, fmt.Errorf("image size %d below minimum %d", size, MinSize)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(b)))
	if err != nil {
		return nil, fmt.Errorf("parse diagram: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	drawLabels(rgba, size)
	return rgba, nil
}

func drawLabels(dst *image.RGBA, size int) {
	cell := size / 8
	face := labelFace(float64(cell) / 4)
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	pad := cell / 16

	for f := board.AxisA; f <= board.AxisH; f++ {
		label := string(rune('a' + f))
		width := d.MeasureString(label).Ceil()
		d.Dot = fixed.P((int(f)+1)*cell-width-pad, size-pad)
		d.DrawString(label)
	}
	for r := board.AxisA; r <= board.AxisH; r++ {
		d.Dot = fixed.P(pad, (7-int(r))*cell+ascent+pad)
		d.DrawString(string(rune('1' + r)))
	}
}

// PNG writes the diagram of b as a size x size PNG.
func PNG(w io.Writer, b *board.Board, size int) error {
	img, err := Image(b, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
