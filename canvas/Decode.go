package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/webp"
)

const (
	FETCH_TIMEOUT   = 10 * time.Second
	FETCH_MAX_BYTES = 20 << 20 // Upstream payload ceiling
)

type ImageType string

const (
	IMAGE_OTHER ImageType = "UNKNOWN"
	IMAGE_WEBP  ImageType = "WEBP"
	IMAGE_JPEG  ImageType = "JPG"
	IMAGE_PNG   ImageType = "PNG"
	IMAGE_GIF   ImageType = "GIF"
)

type SourceKind int

const (
	SourceMissing SourceKind = iota // Nothing loadable, render a placeholder
	SourceStatic                    // Single still bitmap
	SourceAnimated                  // Time-indexed frame set
)

// One image slot of a job. Exactly one of Bitmap/Animation is populated
// depending on Kind, a Missing source keeps its slot geometry and is drawn
// as a placeholder instead of aborting the job.
type Source struct {
	Kind      SourceKind
	Role      string
	Bitmap    image.Image
	Animation *Animation
}

var fetchClient = &http.Client{Timeout: FETCH_TIMEOUT}

// Classify the contents of a file based on it's starting bytes
// https://en.wikipedia.org/wiki/Magic_number_(programming)#Magic_numbers_in_files)
func ImageSniffType(d []byte) ImageType {
	switch {
	case len(d) > 3 && // JPEG
		d[0] == 0xFF && d[1] == 0xD8 && d[2] == 0xFF:
		return IMAGE_JPEG

	case len(d) > 8 && // PNG
		d[0] == 0x89 && d[1] == 0x50 && d[2] == 0x4E && d[3] == 0x47 &&
		d[4] == 0x0D && d[5] == 0x0A && d[6] == 0x1A && d[7] == 0x0A:
		return IMAGE_PNG

	case len(d) > 4 && // GIF
		d[0] == 0x47 && d[1] == 0x49 && d[2] == 0x46 && d[3] == 0x38:
		return IMAGE_GIF

	case len(d) > 12 && // WEBP
		d[0] == 0x52 && d[1] == 0x49 && d[2] == 0x46 && d[3] == 0x46 &&
		d[8] == 0x57 && d[9] == 0x45 && d[10] == 0x42 && d[11] == 0x50:
		return IMAGE_WEBP

	default:
		return IMAGE_OTHER
	}
}

// Fetch Remote Image Bytes, any non-2xx status or oversized payload counts
// as a failure
func FetchBytes(url string) ([]byte, error) {
	res, err := fetchClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, res.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(res.Body, FETCH_MAX_BYTES+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if len(data) > FETCH_MAX_BYTES {
		return nil, fmt.Errorf("fetch %s: payload exceeds %d bytes", url, FETCH_MAX_BYTES)
	}
	return data, nil
}

// Decode an animated GIF into a fully composited frame set. Fails soft:
// anything that is not a usable multi-frame GIF comes back nil and the
// caller falls through to the static decoders.
func DecodeAnimation(data []byte) *Animation {
	if ImageSniffType(data) != IMAGE_GIF {
		return nil
	}
	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil || len(decoded.Image) == 0 {
		return nil
	}

	// At least one structurally valid frame must survive filtering
	usable := 0
	for _, frame := range decoded.Image {
		if frameUsable(frame) {
			usable++
		}
	}
	if usable == 0 {
		return nil
	}
	return Compose(decoded)
}

// Decode a Single Still Image of any Supported Format
func DecodeStatic(data []byte) image.Image {
	var decoded image.Image
	var err error
	switch ImageSniffType(data) {
	case IMAGE_WEBP:
		decoded, err = webp.Decode(bytes.NewReader(data))
	case IMAGE_JPEG:
		decoded, err = jpeg.Decode(bytes.NewReader(data))
	case IMAGE_PNG:
		decoded, err = png.Decode(bytes.NewReader(data))
	case IMAGE_GIF:
		decoded, err = gif.Decode(bytes.NewReader(data))
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return decoded
}

// Resolve a URL into a Source, degrading animated -> static -> missing
func LoadSource(url, role string) Source {
	data, err := FetchBytes(url)
	if err != nil {
		return Source{Kind: SourceMissing, Role: role}
	}
	if anim := DecodeAnimation(data); anim != nil {
		return Source{Kind: SourceAnimated, Role: role, Animation: anim}
	}
	if still := DecodeStatic(data); still != nil {
		return Source{Kind: SourceStatic, Role: role, Bitmap: still}
	}
	return Source{Kind: SourceMissing, Role: role}
}

// Bitmap active at a point on the shared output clock
func (s *Source) BitmapAt(timeMs int) image.Image {
	switch s.Kind {
	case SourceAnimated:
		return s.Animation.FrameAtTime(timeMs)
	case SourceStatic:
		return s.Bitmap
	default:
		return nil
	}
}

// Native animation length, zero for stills and placeholders
func (s *Source) DurationMs() int {
	if s.Kind == SourceAnimated {
		return s.Animation.TotalDurationMs
	}
	return 0
}
