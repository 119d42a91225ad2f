package canvas

import (
	"fmt"
	"image"
	"strings"
)

// Social post family. Each template fixes its slot count and proportional
// layout, decorative chrome varies per template.

type PostTemplate struct {
	Name  string
	Slots int
}

var PostTemplates = []PostTemplate{
	{"text", 0},
	{"solo", 1}, {"duo", 2}, {"trio", 3}, {"quad", 4}, {"six", 6}, {"eight", 8},
	{"gm", 1}, {"quote", 1}, {"stats", 1}, {"giveaway", 2},
	{"showcase", 3}, {"beforeafter", 2}, {"banner", 1},
}

func PostSlots(name string) (int, bool) {
	for _, t := range PostTemplates {
		if t.Name == name {
			return t.Slots, true
		}
	}
	return 0, false
}

type Stat struct {
	Label string
	Value string
}

// Parse a pipe-delimited stats string, "floor: 2.1E | owners: 4412"
func ParseStats(text string) []Stat {
	var stats []Stat
	for _, part := range strings.Split(text, "|") {
		label, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		label, value = strings.TrimSpace(label), strings.TrimSpace(value)
		if label == "" || value == "" {
			continue
		}
		stats = append(stats, Stat{Label: label, Value: value})
	}
	return stats
}

// Bitmap for a slot, nil when the job carries fewer sources
func first(sources []Source, slot, timeMs int) image.Image {
	if slot < 0 || slot >= len(sources) {
		return nil
	}
	return sources[slot].BitmapAt(timeMs)
}

// Evenly spaced row-of-slots helper shared by the N-up layouts
func postGrid(s *Surface, sources []Source, rows, cols, timeMs int, top, bottom float64) {
	w, h := s.W(), s.H()
	areaH := h * (bottom - top)
	gap := h * 0.02
	cell := min((w*0.9-float64(cols-1)*gap)/float64(cols), (areaH-float64(rows-1)*gap)/float64(rows))
	radius := cell * 0.08
	gridW := float64(cols)*cell + float64(cols-1)*gap
	gridH := float64(rows)*cell + float64(rows-1)*gap
	originX := (w - gridW) / 2
	originY := h*top + (areaH-gridH)/2

	slot := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := originX + float64(col)*(cell+gap)
			y := originY + float64(row)*(cell+gap)
			if slot < len(sources) {
				s.DrawSlot(sources[slot].BitmapAt(timeMs), x, y, cell, cell, radius)
			} else {
				s.DrawPlaceholder(x, y, cell, cell, radius)
			}
			slot++
		}
	}
}

// Draw one complete social post frame
func RenderPost(s *Surface, template string, sources []Source, text, status string, timeMs int) {
	w, h := s.W(), s.H()
	radius := h * 0.03

	switch template {
	case "text":
		s.DrawSparkle(w/2, h*0.18, h*0.05)
		if text != "" {
			s.DrawWrappedText(text, w/2, h*0.5, w*0.8, h*0.045)
		}

	case "solo":
		s.DrawSlot(first(sources, 0, timeMs), w*0.15, h*0.1, w*0.7, h*0.7, radius)

	case "duo":
		postGrid(s, sources, 1, 2, timeMs, 0.1, 0.85)
	case "trio":
		postGrid(s, sources, 1, 3, timeMs, 0.1, 0.85)
	case "quad":
		postGrid(s, sources, 2, 2, timeMs, 0.08, 0.87)
	case "six":
		postGrid(s, sources, 2, 3, timeMs, 0.08, 0.87)
	case "eight":
		postGrid(s, sources, 2, 4, timeMs, 0.08, 0.87)

	case "gm":
		s.DrawGlowText("GM", w/2, h*0.13, h*0.09)
		s.DrawSparkle(w*0.62, h*0.1, h*0.03)
		s.DrawSlot(first(sources, 0, timeMs), w*0.2, h*0.24, w*0.6, h*0.6, radius)

	case "quote":
		s.DrawGlowText("“", w*0.15, h*0.15, h*0.12)
		if text != "" {
			s.DrawWrappedText(text, w/2, h*0.32, w*0.76, h*0.04)
		}
		s.DrawSlot(first(sources, 0, timeMs), w*0.3, h*0.5, w*0.4, h*0.38, radius)

	case "stats":
		s.DrawSlot(first(sources, 0, timeMs), w*0.06, h*0.15, w*0.42, h*0.65, radius)
		stats := ParseStats(text)
		if len(stats) == 0 {
			stats = []Stat{{Label: "stats", Value: "n/a"}}
		}
		boxH := h * 0.12
		for i, st := range stats {
			if i >= 5 {
				break
			}
			y := h*0.15 + float64(i)*(boxH+h*0.025)
			s.FillRect(w*0.54, y, w*0.4, boxH, colorShade)
			s.DrawLabel(fmt.Sprintf("%s  %s", strings.ToUpper(st.Label), st.Value), w*0.74, y+boxH/2, h*0.022)
		}

	case "giveaway":
		s.DrawGlowText("GIVEAWAY", w/2, h*0.12, h*0.07)
		s.DrawSparkle(w*0.18, h*0.12, h*0.025)
		s.DrawSparkle(w*0.82, h*0.12, h*0.025)
		postGrid(s, sources, 1, 2, timeMs, 0.22, 0.85)

	case "showcase":
		s.DrawSlot(first(sources, 0, timeMs), w*0.08, h*0.1, w*0.55, h*0.72, radius)
		s.DrawSlot(first(sources, 1, timeMs), w*0.68, h*0.1, w*0.25, h*0.33, radius*0.8)
		s.DrawSlot(first(sources, 2, timeMs), w*0.68, h*0.49, w*0.25, h*0.33, radius*0.8)

	case "beforeafter":
		s.DrawSlot(first(sources, 0, timeMs), w*0.05, h*0.15, w*0.43, h*0.6, radius)
		s.DrawSlot(first(sources, 1, timeMs), w*0.52, h*0.15, w*0.43, h*0.6, radius)
		s.DrawLabel("BEFORE", w*0.265, h*0.82, h*0.022)
		s.DrawLabel("AFTER", w*0.735, h*0.82, h*0.022)

	case "banner":
		s.DrawSlot(first(sources, 0, timeMs), w*0.05, h*0.25, w*0.9, h*0.5, radius)

	default:
		s.DrawSlot(first(sources, 0, timeMs), w*0.15, h*0.1, w*0.7, h*0.7, radius)
	}

	// Shared chrome
	if text != "" && template != "text" && template != "quote" && template != "stats" {
		s.DrawGlowText(text, w/2, h*0.93, h*0.04)
	}
	if status != "" {
		s.DrawLabel(status, w*0.85, h*0.045, h*0.02)
	}
}
