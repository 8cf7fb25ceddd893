package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce   sync.Once
	parsedFont *truetype.Font
	fontErr    error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		parsedFont, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return parsedFont, fontErr
}

// Text draws text in c with its baseline starting at (x, y).
func Text(canvas *image.RGBA, x, y int, size float64, c color.Color, text string) error {
	f, err := loadFont()
	if err != nil {
		return err
	}
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.NewUniform(c),
		Face: truetype.NewFace(f, &truetype.Options{
			Size:    size,
			Hinting: font.HintingFull,
		}),
	}
	fontDrawer.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	fontDrawer.DrawString(text)
	return nil
}

// TextCentredOn draws text vertically centred on the line y, the way the
// offline stream card lays out its rows.
func TextCentredOn(canvas *image.RGBA, x, y int, size float64, c color.Color, text string) error {
	f, err := loadFont()
	if err != nil {
		return err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
	textBounds, _ := font.BoundString(face, text)
	textHeight := (textBounds.Max.Y - textBounds.Min.Y).Ceil()
	return Text(canvas, x, y+textHeight/2, size, c, text)
}

// Rect strokes the inside edge of r, clipped to canvas.
func Rect(canvas *image.RGBA, r image.Rectangle, stroke int, c color.Color) {
	r = r.Canon()
	if r.Empty() || stroke <= 0 {
		return
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+stroke),
		image.Rect(r.Min.X, r.Max.Y-stroke, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+stroke, r.Max.Y),
		image.Rect(r.Max.X-stroke, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(canvas, e.Intersect(canvas.Bounds()), src, image.Point{}, draw.Src)
	}
}
