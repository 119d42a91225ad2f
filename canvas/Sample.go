package canvas

import "image"

// Index of the frame active at an arbitrary query time, looping over the
// animation's native duration. Every source animates at its own rate while
// the encoder walks one shared output clock.
func FrameAt(timestamps []int, totalDurationMs, timeMs int) int {
	if len(timestamps) == 0 {
		return 0
	}
	total := totalDurationMs
	if total <= 0 {
		total = 1
	}
	looped := timeMs % total
	for i := len(timestamps) - 1; i >= 0; i-- {
		if timestamps[i] <= looped {
			return i
		}
	}
	return 0
}

func (a *Animation) FrameAtTime(timeMs int) *image.RGBA {
	if len(a.Frames) == 0 {
		return nil
	}
	return a.Frames[FrameAt(a.Timestamps, a.TotalDurationMs, timeMs)]
}
