package desktop

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/tomz197/reflex/internal/draw"
)

const strokeWidth = 1.5

// ebitenSurface draws onto the frame image ebiten hands to Draw.
type ebitenSurface struct {
	dst *ebiten.Image
}

var _ draw.Surface = (*ebitenSurface)(nil)

func (s *ebitenSurface) Size() (float64, float64) {
	if s.dst == nil {
		return 0, 0
	}
	b := s.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *ebitenSurface) Clear() {
	s.dst.Clear()
}

func (s *ebitenSurface) FillRect(x, y, w, h float64, c color.Color) {
	vector.FillRect(s.dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (s *ebitenSurface) FillCircle(cx, cy, r float64, c color.Color) {
	vector.FillCircle(s.dst, float32(cx), float32(cy), float32(r), c, true)
}

func (s *ebitenSurface) StrokeCircle(cx, cy, r float64, c color.Color) {
	vector.StrokeCircle(s.dst, float32(cx), float32(cy), float32(r), strokeWidth, c, true)
}

func (s *ebitenSurface) Line(x1, y1, x2, y2 float64, c color.Color) {
	vector.StrokeLine(s.dst, float32(x1), float32(y1), float32(x2), float32(y2), strokeWidth, c, true)
}

// Text draws with the 7x13 bitmap face; y is the top of the line, not the baseline.
func (s *ebitenSurface) Text(x, y float64, str string, c color.Color) {
	text.Draw(s.dst, str, basicfont.Face7x13, int(x), int(y)+basicfont.Face7x13.Ascent, c)
}
