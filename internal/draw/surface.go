package draw

import (
	"image/color"
	"unicode/utf8"
)

// Surface is an immediate-mode 2D drawing target in logical pixels.
// The game draws every visible entity onto it once per frame.
type Surface interface {
	// Size returns the current logical width and height.
	Size() (w, h float64)
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeCircle(cx, cy, r float64, c color.Color)
	Line(x1, y1, x2, y2 float64, c color.Color)
	// Text draws s with its top-left corner at (x, y).
	Text(x, y float64, s string, c color.Color)
}

// IsDark reports whether c reads as background on a monochrome target.
func IsDark(c color.Color) bool {
	if c == nil {
		return true
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return true
	}
	// Rec. 601 luma on 16-bit channels.
	luma := (299*r + 587*g + 114*b) / 1000
	return luma < 0x4000
}

type textItem struct {
	col, row int
	s        string
}

// TerminalSurface adapts a half-block Canvas to Surface. Shapes go to the canvas;
// text is written over it as a cell overlay when the frame is flushed.
type TerminalSurface struct {
	canvas       *Canvas
	cellW, cellH float64
	texts        []textItem
}

// Ensure TerminalSurface satisfies Surface.
var _ Surface = (*TerminalSurface)(nil)

// NewTerminalSurface creates a surface for a cols x rows terminal where each
// cell covers cellW x cellH logical pixels.
func NewTerminalSurface(cols, rows int, cellW, cellH float64) *TerminalSurface {
	return &TerminalSurface{
		canvas: NewScaledCanvas(cols, rows, float64(cols)*cellW, float64(rows)*cellH),
		cellW:  cellW,
		cellH:  cellH,
	}
}

// Resize adapts to a new terminal size. It returns true when the size changed,
// in which case the caller should clear the terminal.
func (s *TerminalSurface) Resize(cols, rows int) bool {
	if cols == s.canvas.TerminalWidth() && rows == s.canvas.TerminalHeight() {
		return false
	}
	s.canvas.Resize(cols, rows, float64(cols)*s.cellW, float64(rows)*s.cellH)
	return true
}

// Canvas exposes the underlying canvas.
func (s *TerminalSurface) Canvas() *Canvas {
	return s.canvas
}

// CellToLogical maps a 1-based terminal cell to the logical pixel at its center.
func (s *TerminalSurface) CellToLogical(col, row int) (x, y float64) {
	return (float64(col) - 0.5) * s.cellW, (float64(row) - 0.5) * s.cellH
}

// Size implements Surface.
func (s *TerminalSurface) Size() (float64, float64) {
	return s.canvas.LogicalWidth(), s.canvas.LogicalHeight()
}

// Clear implements Surface.
func (s *TerminalSurface) Clear() {
	s.canvas.Clear()
	s.texts = s.texts[:0]
}

// FillRect implements Surface. Dark fills erase.
func (s *TerminalSurface) FillRect(x, y, w, h float64, c color.Color) {
	s.canvas.FillRect(x, y, w, h, !IsDark(c))
}

// FillCircle implements Surface.
func (s *TerminalSurface) FillCircle(cx, cy, r float64, c color.Color) {
	if IsDark(c) {
		return
	}
	s.canvas.DrawCircle(cx, cy, r, true)
}

// StrokeCircle implements Surface.
func (s *TerminalSurface) StrokeCircle(cx, cy, r float64, c color.Color) {
	if IsDark(c) {
		return
	}
	s.canvas.DrawCircle(cx, cy, r, false)
}

// Line implements Surface.
func (s *TerminalSurface) Line(x1, y1, x2, y2 float64, c color.Color) {
	if IsDark(c) {
		return
	}
	s.canvas.DrawLine(Point{X: x1, Y: y1}, Point{X: x2, Y: y2})
}

// Text implements Surface. Text is clipped to the terminal.
func (s *TerminalSurface) Text(x, y float64, str string, _ color.Color) {
	if str == "" {
		return
	}
	col := int(x/s.cellW) + 1
	row := int(y/s.cellH) + 1
	if row < 1 || row > s.canvas.TerminalHeight() {
		return
	}
	if col < 1 {
		col = 1
	}
	room := s.canvas.TerminalWidth() - col + 1
	if room <= 0 {
		return
	}
	if utf8.RuneCountInString(str) > room {
		str = string([]rune(str)[:room])
	}
	s.texts = append(s.texts, textItem{col: col, row: row, s: str})
}

// Flush writes the frame: changed canvas cells first, then text on top.
// Cells under text are invalidated so the next frame repaints them.
func (s *TerminalSurface) Flush(cw *ChunkWriter) error {
	if err := s.canvas.Render(cw); err != nil {
		return err
	}
	for _, t := range s.texts {
		cw.WriteAt(t.col, t.row, t.s)
		s.canvas.Invalidate(t.col, t.row, utf8.RuneCountInString(t.s))
	}
	return cw.Flush()
}
