package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// House palette
var (
	colorBackTop    = color.RGBA{0x0B, 0x0E, 0x1A, 0xFF} // Deep navy
	colorBackBottom = color.RGBA{0x1C, 0x10, 0x38, 0xFF} // Dusk purple
	colorAccent     = color.RGBA{0xF5, 0xC2, 0x42, 0xFF} // Mint gold
	colorBorder     = color.RGBA{0xEE, 0xEA, 0xF7, 0xFF} // Chalk
	colorGlow       = color.RGBA{0x8A, 0x5C, 0xF6, 0xFF} // Violet glow
	colorInk        = color.RGBA{0xF8, 0xF8, 0xFC, 0xFF} // Text
	colorShade      = color.RGBA{0x14, 0x16, 0x24, 0xFF} // Placeholder fill
)

var (
	fontHeavy *truetype.Font
	fontBook  *truetype.Font
)

func init() {
	var err error
	if fontHeavy, err = truetype.Parse(gobold.TTF); err != nil {
		log.Fatalln("[canvas] Cannot Parse Bold Font:", err)
	}
	if fontBook, err = truetype.Parse(goregular.TTF); err != nil {
		log.Fatalln("[canvas] Cannot Parse Regular Font:", err)
	}
}

func faceHeavy(points float64) font.Face {
	return truetype.NewFace(fontHeavy, &truetype.Options{Size: points})
}

func faceBook(points float64) font.Face {
	return truetype.NewFace(fontBook, &truetype.Options{Size: points})
}

// Drawing surface every template renders against. Templates only ever touch
// these primitives, never the underlying graphics context, so the renderer
// set stays portable and testable.
type Surface struct {
	dc     *gg.Context
	Width  int
	Height int
}

func NewSurface(width, height int) *Surface {
	s := &Surface{dc: gg.NewContext(width, height), Width: width, Height: height}
	s.FillBackground()
	return s
}

func (s *Surface) Image() image.Image { return s.dc.Image() }
func (s *Surface) W() float64         { return float64(s.Width) }
func (s *Surface) H() float64         { return float64(s.Height) }

// Vertical brand gradient across the whole canvas
func (s *Surface) FillBackground() {
	grad := gg.NewLinearGradient(0, 0, 0, s.H())
	grad.AddColorStop(0, colorBackTop)
	grad.AddColorStop(1, colorBackBottom)
	s.dc.SetFillStyle(grad)
	s.dc.DrawRectangle(0, 0, s.W(), s.H())
	s.dc.Fill()
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

// Scale into the slot rectangle, cropping overflow (object-fit: cover)
func coverFit(img image.Image, w, h int) image.Image {
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

// Uniform alpha applied ahead of compositing, used by the crossfade
func fadeImage(img image.Image, alpha float64) image.Image {
	if alpha >= 1 {
		return img
	}
	b := img.Bounds()
	faded := image.NewRGBA(b)
	if alpha <= 0 {
		return faded
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(faded, b, img, b.Min, mask, image.Point{}, draw.Src)
	return faded
}

// Soft glow pass behind a slot, widest stroke first
func (s *Surface) glowStroke(x, y, w, h, radius float64) {
	r, g, b, _ := colorGlow.RGBA()
	for i := 3; i >= 1; i-- {
		s.dc.SetRGBA(float64(r)/65535, float64(g)/65535, float64(b)/65535, 0.10*float64(4-i))
		s.dc.SetLineWidth(float64(i * 4))
		s.dc.DrawRoundedRectangle(x, y, w, h, radius)
		s.dc.Stroke()
	}
}

// The three-pass border treatment every template shares: glow stroke, then
// the clipped image, then a crisp border on top.
func (s *Surface) DrawCover(img image.Image, x, y, w, h, radius float64) {
	s.glowStroke(x, y, w, h, radius)

	if img != nil {
		fitted := coverFit(img, int(w+0.5), int(h+0.5))
		s.dc.DrawRoundedRectangle(x, y, w, h, radius)
		s.dc.Clip()
		s.dc.DrawImage(fitted, int(x), int(y))
		s.dc.ResetClip()
	}

	s.dc.SetColor(colorBorder)
	s.dc.SetLineWidth(3)
	s.dc.DrawRoundedRectangle(x, y, w, h, radius)
	s.dc.Stroke()
}

// DrawCover with a uniform opacity, layers must be drawn back to front
func (s *Surface) DrawCoverAlpha(img image.Image, x, y, w, h, radius, alpha float64) {
	if img == nil || alpha <= 0 {
		return
	}
	fitted := coverFit(img, int(w+0.5), int(h+0.5))
	s.dc.DrawRoundedRectangle(x, y, w, h, radius)
	s.dc.Clip()
	s.dc.DrawImage(fadeImage(fitted, alpha), int(x), int(y))
	s.dc.ResetClip()
}

// Slot with no bitmap: dark fill and a question mark, geometry preserved
func (s *Surface) DrawPlaceholder(x, y, w, h, radius float64) {
	s.dc.SetColor(colorShade)
	s.dc.DrawRoundedRectangle(x, y, w, h, radius)
	s.dc.Fill()

	s.dc.SetFontFace(faceHeavy(h * 0.4))
	s.dc.SetColor(colorGlow)
	s.dc.DrawStringAnchored("?", x+w/2, y+h/2, 0.5, 0.5)

	s.dc.SetColor(colorBorder)
	s.dc.SetLineWidth(3)
	s.dc.DrawRoundedRectangle(x, y, w, h, radius)
	s.dc.Stroke()
}

// Reserved cell, outline only
func (s *Surface) DrawEmptyCell(x, y, w, h, radius float64) {
	s.dc.SetColor(colorShade)
	s.dc.SetLineWidth(2)
	s.dc.DrawRoundedRectangle(x, y, w, h, radius)
	s.dc.Stroke()
}

// Cover draw falling back to a placeholder when the bitmap is missing
func (s *Surface) DrawSlot(img image.Image, x, y, w, h, radius float64) {
	if img == nil {
		s.DrawPlaceholder(x, y, w, h, radius)
		return
	}
	s.DrawCover(img, x, y, w, h, radius)
}

// Halo text, same offset-stamp technique as the placeholder glyph outline
func (s *Surface) DrawGlowText(text string, x, y, points float64) {
	s.dc.SetFontFace(faceHeavy(points))
	s.dc.SetColor(colorGlow)
	n := 4
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			if dx*dx+dy*dy >= n*n {
				continue
			}
			s.dc.DrawStringAnchored(text, x+float64(dx), y+float64(dy), 0.5, 0.5)
		}
	}
	s.dc.SetColor(colorInk)
	s.dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

// Small pill label, used for status text
func (s *Surface) DrawLabel(text string, x, y, points float64) {
	if text == "" {
		return
	}
	s.dc.SetFontFace(faceBook(points))
	tw, th := s.dc.MeasureString(text)
	padX, padY := points*0.8, points*0.45

	s.dc.SetColor(colorShade)
	s.dc.DrawRoundedRectangle(x-tw/2-padX, y-th/2-padY, tw+padX*2, th+padY*2, (th+padY*2)/2)
	s.dc.Fill()
	s.dc.SetColor(colorAccent)
	s.dc.SetLineWidth(2)
	s.dc.DrawRoundedRectangle(x-tw/2-padX, y-th/2-padY, tw+padX*2, th+padY*2, (th+padY*2)/2)
	s.dc.Stroke()

	s.dc.SetColor(colorInk)
	s.dc.DrawStringAnchored(text, x, y+th*0.08, 0.5, 0.5)
}

// Full-width banner strip along the bottom edge
func (s *Surface) DrawWatermark(text string) {
	h := s.H() * 0.06
	s.dc.SetRGBA(0, 0, 0, 0.55)
	s.dc.DrawRectangle(0, s.H()-h, s.W(), h)
	s.dc.Fill()

	s.dc.SetFontFace(faceHeavy(h * 0.5))
	s.dc.SetColor(colorAccent)
	s.dc.DrawStringAnchored(text, s.W()/2, s.H()-h/2, 0.5, 0.5)
}

// Body copy wrapped inside a width, centered on x
func (s *Surface) DrawWrappedText(text string, x, y, width, points float64) {
	s.dc.SetFontFace(faceBook(points))
	s.dc.SetColor(colorInk)
	s.dc.DrawStringWrapped(text, x, y, 0.5, 0.5, width, 1.3, gg.AlignCenter)
}

// Four-point star, decorative. Text glyphs for these are spotty across
// fonts so they are drawn instead.
func (s *Surface) DrawSparkle(x, y, r float64) {
	s.dc.SetColor(colorAccent)
	s.dc.MoveTo(x, y-r)
	s.dc.QuadraticTo(x, y, x+r, y)
	s.dc.QuadraticTo(x, y, x, y+r)
	s.dc.QuadraticTo(x, y, x-r, y)
	s.dc.QuadraticTo(x, y, x, y-r)
	s.dc.ClosePath()
	s.dc.Fill()
}

// Right-pointing accent triangle
func (s *Surface) DrawArrow(x, y, size float64) {
	s.dc.SetColor(colorAccent)
	s.dc.MoveTo(x-size/2, y-size/2)
	s.dc.LineTo(x+size/2, y)
	s.dc.LineTo(x-size/2, y+size/2)
	s.dc.ClosePath()
	s.dc.Fill()
}

// Clip to an arbitrary polygon while fn draws, used by the split reveals
func (s *Surface) ClipPolygon(points [][2]float64, fn func()) {
	if len(points) < 3 {
		return
	}
	s.dc.MoveTo(points[0][0], points[0][1])
	for _, p := range points[1:] {
		s.dc.LineTo(p[0], p[1])
	}
	s.dc.ClosePath()
	s.dc.Clip()
	fn()
	s.dc.ResetClip()
}
