package canvas

import (
	"image"
	"image/gif"

	"golang.org/x/image/draw"
)

const (
	MIN_FRAME_DELAY     = 20 // Milliseconds, browsers clamp anything shorter
	DEFAULT_FRAME_DELAY = 50 // Milliseconds, used when a frame declares none
)

// A fully composited animation: one canvas-sized bitmap per source frame
// plus the cumulative time at which each becomes visible.
type Animation struct {
	Frames          []*image.RGBA
	Timestamps      []int // Milliseconds, strictly increasing from 0
	TotalDurationMs int   // Sum of all normalized frame delays
}

// GIF delays arrive in 100ths of a second. Zero means the encoder didn't
// bother, tiny values get clamped the same way browsers clamp them.
func NormalizeDelayMs(hundredths int) int {
	ms := hundredths * 10
	if ms <= 0 {
		return DEFAULT_FRAME_DELAY
	}
	if ms < MIN_FRAME_DELAY {
		return MIN_FRAME_DELAY
	}
	return ms
}

func frameUsable(frame *image.Paletted) bool {
	if frame == nil || len(frame.Pix) == 0 || len(frame.Palette) == 0 {
		return false
	}
	b := frame.Bounds()
	return b.Dx() > 0 && b.Dy() > 0
}

// Replay GIF disposal semantics onto a persistent surface sized to the
// logical screen. Each input frame yields one independent snapshot.
//
// Disposal 2 clears the previous frame's rectangle to transparent before the
// next draw. Disposal 3 (restore to previous) is approximated as
// leave-in-place, a known limitation for the rare GIFs that rely on it.
func Compose(decoded *gif.GIF) *Animation {
	width, height := decoded.Config.Width, decoded.Config.Height
	if width == 0 || height == 0 {
		// Some encoders leave the logical screen blank
		for _, frame := range decoded.Image {
			if frame == nil {
				continue
			}
			if b := frame.Bounds(); b.Max.X > width || b.Max.Y > height {
				width, height = max(width, b.Max.X), max(height, b.Max.Y)
			}
		}
	}
	if width == 0 || height == 0 {
		return nil
	}

	anim := &Animation{
		Frames:     make([]*image.RGBA, 0, len(decoded.Image)),
		Timestamps: make([]int, 0, len(decoded.Image)),
	}
	surface := image.NewRGBA(image.Rect(0, 0, width, height))
	elapsed := 0
	lastDelay := DEFAULT_FRAME_DELAY

	for i, frame := range decoded.Image {
		// Dispose of the previous frame before drawing this one
		if i > 0 && i-1 < len(decoded.Disposal) && decoded.Disposal[i-1] == gif.DisposalBackground {
			prev := decoded.Image[i-1]
			if prev != nil {
				draw.Draw(surface, prev.Bounds(), image.Transparent, image.Point{}, draw.Src)
			}
		}

		// A corrupt frame keeps the previous visual state on screen but
		// still occupies its slot on the time axis, advancing by the
		// last-known delay rather than its own declared one
		usable := frameUsable(frame)
		if usable {
			draw.Draw(surface, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		}
		snapshot := image.NewRGBA(surface.Bounds())
		copy(snapshot.Pix, surface.Pix)

		delay := lastDelay
		if usable && i < len(decoded.Delay) {
			delay = NormalizeDelayMs(decoded.Delay[i])
		}
		anim.Frames = append(anim.Frames, snapshot)
		anim.Timestamps = append(anim.Timestamps, elapsed)
		elapsed += delay
		lastDelay = delay
	}

	anim.TotalDurationMs = elapsed
	return anim
}
