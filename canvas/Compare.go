package canvas

import "image"

type CompareVariant string

const (
	CompareSideBySide CompareVariant = "side-by-side" // Panels left and right
	CompareStacked    CompareVariant = "stacked"      // Panels top and bottom
	CompareDiagonal   CompareVariant = "diagonal"     // Split reveal along the diagonal
	CompareOverlay    CompareVariant = "overlay"      // Picture-in-picture frame
	CompareGlitch     CompareVariant = "glitch"       // Wipe with a noise band at the seam
	CompareCard       CompareVariant = "card"         // Reveal card, top/bottom split
	CompareTransition CompareVariant = "transition"   // Animated 4s crossfade cycle
)

var CompareVariants = []CompareVariant{
	CompareSideBySide, CompareStacked, CompareDiagonal, CompareOverlay,
	CompareGlitch, CompareCard, CompareTransition,
}

const (
	TRANSITION_CYCLE = 4000 // Milliseconds, four equal phases
	STATUS_WATERMARK = "Digital Renaissance"
)

// Opacity of the two layers at a point in the fixed 4 second cycle:
// before held, before fading out, after held, after fading in again.
// The two always sum to 1 and hit exactly 0/1 at phase boundaries.
func CrossfadeAlphas(timeMs int) (before, after float64) {
	phase := float64(timeMs%TRANSITION_CYCLE) / 1000.0
	switch {
	case phase < 1:
		return 1, 0
	case phase < 2:
		f := phase - 1
		return 1 - f, f
	case phase < 3:
		return 0, 1
	default:
		f := phase - 3
		return f, 1 - f
	}
}

// Deterministic noise for the glitch seam, no RNG so identical frames
// encode identically
func glitchOffset(y, timeMs int) int {
	h := uint32(y)*2654435761 + uint32(timeMs)*40503
	h ^= h >> 13
	return int(h % 24)
}

// Draw one complete before/after frame. Missing bitmaps degrade per slot,
// chrome (borders, caption, status, watermark) always renders.
func RenderCompare(s *Surface, variant CompareVariant, before, after image.Image, caption, status string, timeMs int) {
	w, h := s.W(), s.H()
	radius := h * 0.03

	switch variant {
	case CompareStacked:
		panelH := h * 0.38
		panelW := w * 0.72
		x := (w - panelW) / 2
		s.DrawSlot(before, x, h*0.06, panelW, panelH, radius)
		s.DrawSlot(after, x, h*0.50, panelW, panelH, radius)

	case CompareDiagonal:
		s.DrawSlot(before, w*0.05, h*0.08, w*0.9, h*0.78, radius)
		if after != nil {
			s.ClipPolygon([][2]float64{{w * 0.95, h * 0.08}, {w * 0.95, h * 0.86}, {w * 0.05, h * 0.86}}, func() {
				s.DrawCover(after, w*0.05, h*0.08, w*0.9, h*0.78, radius)
			})
		}

	case CompareOverlay:
		s.DrawSlot(after, w*0.05, h*0.08, w*0.9, h*0.78, radius)
		s.DrawSlot(before, w*0.62, h*0.55, w*0.3, h*0.28, radius*0.7)

	case CompareGlitch:
		seam := w * 0.5
		s.ClipPolygon([][2]float64{{0, 0}, {seam, 0}, {seam, h}, {0, h}}, func() {
			s.DrawCover(before, w*0.05, h*0.08, w*0.9, h*0.78, radius)
		})
		s.ClipPolygon([][2]float64{{seam, 0}, {w, 0}, {w, h}, {seam, h}}, func() {
			s.DrawCover(after, w*0.05, h*0.08, w*0.9, h*0.78, radius)
		})
		// Noise band over the seam
		band := w * 0.02
		for y := int(h * 0.08); y < int(h*0.86); y += 4 {
			off := float64(glitchOffset(y, timeMs)) - 12
			c := colorGlow
			if y%8 == 0 {
				c = colorAccent
			}
			s.FillRect(seam-band/2+off, float64(y), band, 3, c)
		}

	case CompareCard:
		cardX, cardY := w*0.1, h*0.05
		cardW, cardH := w*0.8, h*0.86
		s.FillRect(cardX, cardY, cardW, cardH, colorShade)
		s.DrawSlot(before, cardX+cardW*0.06, cardY+cardH*0.05, cardW*0.88, cardH*0.4, radius)
		s.DrawSlot(after, cardX+cardW*0.06, cardY+cardH*0.52, cardW*0.88, cardH*0.4, radius)

	case CompareTransition:
		ba, aa := CrossfadeAlphas(timeMs)
		x, y := w*0.08, h*0.08
		pw, ph := w*0.84, h*0.76
		s.glowStroke(x, y, pw, ph, radius)
		// Before then after, so alpha compositing holds either way round
		s.DrawCoverAlpha(before, x, y, pw, ph, radius, ba)
		s.DrawCoverAlpha(after, x, y, pw, ph, radius, aa)
		s.dc.SetColor(colorBorder)
		s.dc.SetLineWidth(3)
		s.dc.DrawRoundedRectangle(x, y, pw, ph, radius)
		s.dc.Stroke()

	default: // CompareSideBySide
		panelW := w * 0.44
		panelH := h * 0.62
		y := h * 0.12
		s.DrawSlot(before, w*0.04, y, panelW, panelH, radius)
		s.DrawSlot(after, w*0.52, y, panelW, panelH, radius)
		s.DrawArrow(w/2, y+panelH/2, w*0.025)
	}

	// Shared chrome
	if caption != "" {
		s.DrawGlowText(caption, w/2, h*0.93, h*0.045)
	}
	s.DrawLabel(labelFor(variant, status), w*0.85, h*0.045, h*0.02)
	if status == STATUS_WATERMARK {
		s.DrawWatermark(STATUS_WATERMARK)
	}
}

func labelFor(variant CompareVariant, status string) string {
	if status != "" {
		return status
	}
	if variant == CompareTransition {
		return "THEN > NOW"
	}
	return "BEFORE / AFTER"
}
