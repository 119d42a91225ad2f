package canvas

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const (
	OUTPUT_FPS       = 30    // Fixed output frame rate for animated exports
	MAX_DURATION_MS  = 10000 // Output length ceiling regardless of sources
	MIN_DURATION_MS  = 1000  // Output length floor even when all sources are static
	GIF_COLORS       = 255   // Palette size per encoded GIF frame
	CANVAS_SQUARE_W  = 1080
	CANVAS_SQUARE_H  = 1080
	CANVAS_WIDE_W    = 1920
	CANVAS_WIDE_H    = 1080
	CANVAS_TALL_W    = 1080
	CANVAS_TALL_H    = 1350
)

// Draws one complete output frame for a point on the output clock
type FrameRenderer func(s *Surface, timeMs int)

// External container encoder, interfaced so tests never spawn a process
type VideoEncoder interface {
	Encode(framePattern string, fps int, outputPath string) error
}

// FFMPEG subprocess against a numbered PNG sequence
type FFmpeg struct {
	Path    string
	Timeout time.Duration
}

func (f FFmpeg) Encode(framePattern string, fps int, outputPath string) error {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var outputLogs bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Path, "-y",
		"-framerate", fmt.Sprint(fps),
		"-i", framePattern,
		"-vcodec", "libx264",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		outputPath,
	)
	cmd.Stdout = &outputLogs
	cmd.Stderr = &outputLogs
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		log.Printf("[encode] FFMPEG Exited With Code %d\n%s\n", exitCode, outputLogs.String())
		return fmt.Errorf("ffmpeg exited with code %d: %s", exitCode, lastLine(outputLogs.String()))
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// Canvas dimensions for an aspect ratio name
func CanvasSize(aspect string) (int, int) {
	switch aspect {
	case "landscape":
		return CANVAS_WIDE_W, CANVAS_WIDE_H
	case "portrait":
		return CANVAS_TALL_W, CANVAS_TALL_H
	default:
		return CANVAS_SQUARE_W, CANVAS_SQUARE_H
	}
}

// Output length for a set of sources: the longest native animation wins,
// clamped to [1s, 10s] to bound encoding cost. A fixed-cycle template
// overrides with its own length.
func GoverningDurationMs(sources []Source, fixedMs int) int {
	if fixedMs > 0 {
		return fixedMs
	}
	longest := 0
	for i := range sources {
		if d := sources[i].DurationMs(); d > longest {
			longest = d
		}
	}
	if longest == 0 {
		// All static, still emit a visible loop
		return MIN_DURATION_MS
	}
	if longest > MAX_DURATION_MS {
		return MAX_DURATION_MS
	}
	return longest
}

// ceil(durationMs / (1000/fps)) without the float round trip
func TotalFrames(durationMs, fps int) int {
	return (durationMs*fps + 999) / 1000
}

func frameTimeMs(index, fps int) int {
	return index * 1000 / fps
}

// Render exactly one frame at t=0 and return its PNG encoding
func EncodeStill(width, height int, render FrameRenderer) ([]byte, error) {
	s := NewSurface(width, height)
	render(s, 0)
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Image()); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Drive the frame loop into the in-process GIF encoder. Frames are
// quantized per frame so every frame keeps its own best palette.
func EncodeGIF(width, height, durationMs int, render FrameRenderer) ([]byte, error) {
	frames := TotalFrames(durationMs, OUTPUT_FPS)
	delay := 100 / OUTPUT_FPS // Hundredths of a second

	out := &gif.GIF{
		LoopCount: 0,
		Config:    image.Config{Width: width, Height: height},
	}
	quantizer := quantize.MedianCutQuantizer{}
	bounds := image.Rect(0, 0, width, height)

	for index := 0; index < frames; index++ {
		s := NewSurface(width, height)
		render(s, frameTimeMs(index, OUTPUT_FPS))

		palette := quantizer.Quantize(make([]color.Color, 0, GIF_COLORS), s.Image())
		paletted := image.NewPaletted(bounds, palette)
		draw.FloydSteinberg.Draw(paletted, bounds, s.Image(), image.Point{})

		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, fmt.Errorf("gif encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Identical frame loop, but frames land on disk as a numbered PNG sequence
// and the external encoder turns them into a container. The workspace is
// removed no matter how this returns.
func EncodeVideo(width, height, durationMs int, render FrameRenderer, workRoot string, encoder VideoEncoder) ([]byte, error) {
	ws, err := NewWorkspace(workRoot)
	if err != nil {
		return nil, err
	}
	defer ws.Remove()

	frames := TotalFrames(durationMs, OUTPUT_FPS)
	for index := 0; index < frames; index++ {
		s := NewSurface(width, height)
		render(s, frameTimeMs(index, OUTPUT_FPS))

		f, err := os.Create(ws.FramePath(index))
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", index, err)
		}
		err = png.Encode(f, s.Image())
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", index, err)
		}
	}

	if err := encoder.Encode(ws.FramePattern(), OUTPUT_FPS, ws.OutputPath()); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ws.OutputPath())
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	return data, nil
}
