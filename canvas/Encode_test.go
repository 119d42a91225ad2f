package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Animation of solid-colored full frames at a fixed per-frame delay
func solidAnimation(frames int, delayMs int, c color.RGBA) *Animation {
	anim := &Animation{}
	elapsed := 0
	for i := 0; i < frames; i++ {
		frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for p := 0; p < len(frame.Pix); p += 4 {
			frame.Pix[p+0] = c.R
			frame.Pix[p+1] = c.G
			frame.Pix[p+2] = c.B
			frame.Pix[p+3] = 0xFF
		}
		anim.Frames = append(anim.Frames, frame)
		anim.Timestamps = append(anim.Timestamps, elapsed)
		elapsed += delayMs
	}
	anim.TotalDurationMs = elapsed
	return anim
}

func solidStill(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for p := 0; p < len(img.Pix); p += 4 {
		img.Pix[p+0], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = c.R, c.G, c.B, 0xFF
	}
	return img
}

func TestGoverningDuration(t *testing.T) {
	static := Source{Kind: SourceStatic, Bitmap: solidStill(color.RGBA{R: 0xFF, A: 0xFF})}
	short := Source{Kind: SourceAnimated, Animation: solidAnimation(3, 100, color.RGBA{G: 0xFF, A: 0xFF})}
	long := Source{Kind: SourceAnimated, Animation: solidAnimation(200, 100, color.RGBA{B: 0xFF, A: 0xFF})}

	assert.Equal(t, MIN_DURATION_MS, GoverningDurationMs([]Source{static}, 0),
		"all-static jobs still loop for the floor duration")
	assert.Equal(t, 300, GoverningDurationMs([]Source{static, short}, 0),
		"longest animated source governs")
	assert.Equal(t, MAX_DURATION_MS, GoverningDurationMs([]Source{long}, 0),
		"native duration is capped at the ceiling")
	assert.Equal(t, TRANSITION_CYCLE, GoverningDurationMs([]Source{long}, TRANSITION_CYCLE),
		"fixed-cycle templates override source durations")
}

func TestTotalFrames(t *testing.T) {
	assert.Equal(t, 12, TotalFrames(400, 30))
	assert.Equal(t, 30, TotalFrames(1000, 30))
	assert.Equal(t, 300, TotalFrames(10000, 30))
	assert.Equal(t, 1, TotalFrames(1, 30), "always at least one frame for nonzero duration")
}

func TestEncodeStill(t *testing.T) {
	data, err := EncodeStill(64, 48, func(s *Surface, timeMs int) {
		assert.Equal(t, 0, timeMs, "stills render at t=0")
	})
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())
}

// The §8-style montage scenario: a 300ms and a 400ms animation plus one
// still on a 3x3 grid must produce exactly 12 output frames, each carrying
// all three sources at grid geometry.
func TestEncodeGIFGridScenario(t *testing.T) {
	red := color.RGBA{R: 0xFF, A: 0xFF}
	green := color.RGBA{G: 0xFF, A: 0xFF}
	blue := color.RGBA{B: 0xFF, A: 0xFF}
	sources := []Source{
		{Kind: SourceAnimated, Animation: solidAnimation(3, 100, red)},
		{Kind: SourceAnimated, Animation: solidAnimation(5, 80, green)},
		{Kind: SourceStatic, Bitmap: solidStill(blue)},
	}
	plan := BuildGridPlan(3, 3, len(sources))
	durationMs := GoverningDurationMs(sources, 0)
	require.Equal(t, 400, durationMs)

	const size = 270
	data, err := EncodeGIF(size, size, durationMs, func(s *Surface, timeMs int) {
		RenderGrid(s, plan, sources, nil, timeMs)
	})
	require.NoError(t, err)

	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, decoded.Image, 12, "ceil(400ms / (1000/30)) output frames")
	assert.Equal(t, 0, decoded.LoopCount, "loops forever")

	// Same layout math as the renderer
	margin, gap := size*0.05, size*0.02
	cell := (size - 2*margin - 2*gap) / 3
	gridW := 3*cell + 2*gap
	origin := (size - gridW) / 2
	center := func(col, row int) (int, int) {
		return int(origin + float64(col)*(cell+gap) + cell/2),
			int(origin + float64(row)*(cell+gap) + cell/2)
	}

	for i, frame := range decoded.Image {
		assert.Equal(t, 3, decoded.Delay[i], "1000/30ms per frame in 100ths")

		x, y := center(0, 0)
		r, _, _, _ := frame.At(x, y).RGBA()
		assert.Greater(t, r, uint32(0x8000), "frame %d cell (0,0) shows the red source", i)

		x, y = center(1, 0)
		_, g, _, _ := frame.At(x, y).RGBA()
		assert.Greater(t, g, uint32(0x8000), "frame %d cell (0,1) shows the green source", i)

		x, y = center(2, 0)
		_, _, b, _ := frame.At(x, y).RGBA()
		assert.Greater(t, b, uint32(0x8000), "frame %d cell (0,2) shows the still source", i)
	}
}

// Fake container encoder, records calls and can be told to fail
type fakeEncoder struct {
	calls   int
	fail    bool
	pattern string
}

func (f *fakeEncoder) Encode(framePattern string, fps int, outputPath string) error {
	f.calls++
	f.pattern = framePattern
	if f.fail {
		return errors.New("simulated encoder failure")
	}
	return os.WriteFile(outputPath, []byte("mp4-bytes"), 0660)
}

func TestEncodeVideoWritesFramesAndCleansUp(t *testing.T) {
	root := t.TempDir()
	enc := &fakeEncoder{}

	data, err := EncodeVideo(90, 90, 400, func(s *Surface, timeMs int) {}, root, enc)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4-bytes"), data)
	assert.Equal(t, 1, enc.calls)

	// The pattern covers the 12 frames that were written
	assert.Contains(t, enc.pattern, "frame_%04d.png")

	leftovers, err := filepath.Glob(filepath.Join(root, "job-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "workspace removed after success")
}

func TestEncodeVideoCleansUpOnEncoderFailure(t *testing.T) {
	root := t.TempDir()
	enc := &fakeEncoder{fail: true}

	_, err := EncodeVideo(90, 90, 400, func(s *Surface, timeMs int) {}, root, enc)
	require.Error(t, err)

	leftovers, err := filepath.Glob(filepath.Join(root, "job-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "workspace removed after failure")
}

func TestEncodeGIFDurationNeverExceedsCeiling(t *testing.T) {
	long := []Source{{Kind: SourceAnimated, Animation: solidAnimation(200, 100, color.RGBA{R: 0xFF, A: 0xFF})}}
	durationMs := GoverningDurationMs(long, 0)
	assert.Equal(t, MAX_DURATION_MS, durationMs)
	assert.Equal(t, 300, TotalFrames(durationMs, OUTPUT_FPS))
}
