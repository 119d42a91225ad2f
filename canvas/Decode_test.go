package canvas

import (
	"bytes"
	"image"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestGIF(t *testing.T, frames int) []byte {
	t.Helper()
	g := &gif.GIF{Config: image.Config{Width: 4, Height: 4}}
	for i := 0; i < frames; i++ {
		g.Image = append(g.Image, solidFrame(image.Rect(0, 0, 4, 4), uint8(1+i%3)))
		g.Delay = append(g.Delay, 10)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for p := 0; p < len(img.Pix); p += 4 {
		img.Pix[p], img.Pix[p+3] = 0xFF, 0xFF
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageSniffType(t *testing.T) {
	assert.Equal(t, IMAGE_GIF, ImageSniffType(encodeTestGIF(t, 2)))
	assert.Equal(t, IMAGE_PNG, ImageSniffType(encodeTestPNG(t)))
	assert.Equal(t, IMAGE_OTHER, ImageSniffType([]byte("certainly not pixels")))
	assert.Equal(t, IMAGE_OTHER, ImageSniffType(nil))
}

func TestDecodeAnimation(t *testing.T) {
	anim := DecodeAnimation(encodeTestGIF(t, 3))
	require.NotNil(t, anim)
	assert.Len(t, anim.Frames, 3)
	assert.Equal(t, 300, anim.TotalDurationMs)

	assert.Nil(t, DecodeAnimation(encodeTestPNG(t)), "PNG is not an animation")
	assert.Nil(t, DecodeAnimation([]byte("GIF89a garbage")), "corrupt container fails soft")
	assert.Nil(t, DecodeAnimation(nil))
}

func TestDecodeStatic(t *testing.T) {
	img := DecodeStatic(encodeTestPNG(t))
	require.NotNil(t, img)
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.NotZero(t, r)

	assert.NotNil(t, DecodeStatic(encodeTestGIF(t, 1)), "single GIF frame decodes as a still")
	assert.Nil(t, DecodeStatic([]byte("junk")))
}

func TestLoadSourceDegradation(t *testing.T) {
	gifBytes := encodeTestGIF(t, 2)
	pngBytes := encodeTestPNG(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/anim.gif":
			w.Write(gifBytes)
		case "/still.png":
			w.Write(pngBytes)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src := LoadSource(srv.URL+"/anim.gif", "")
	assert.Equal(t, SourceAnimated, src.Kind)
	assert.Equal(t, 200, src.DurationMs())

	src = LoadSource(srv.URL+"/still.png", "")
	assert.Equal(t, SourceStatic, src.Kind)
	assert.Zero(t, src.DurationMs())
	assert.NotNil(t, src.BitmapAt(123), "stills ignore the clock")

	src = LoadSource(srv.URL+"/gone.png", "hero")
	assert.Equal(t, SourceMissing, src.Kind)
	assert.Equal(t, "hero", src.Role)
	assert.Nil(t, src.BitmapAt(0))
}

// An oversized upstream body must never be buffered whole
func TestFetchBytesCapsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 1<<20)
		for written := 0; written <= FETCH_MAX_BYTES; written += len(chunk) {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	_, err := FetchBytes(srv.URL + "/huge.bin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")

	src := LoadSource(srv.URL+"/huge.bin", "")
	assert.Equal(t, SourceMissing, src.Kind, "oversized source degrades to missing")
}
