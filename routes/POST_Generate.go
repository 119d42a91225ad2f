package routes

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"mintworks/mediagen/canvas"
	"mintworks/mediagen/env"
)

// Swappable so tests never spawn a real encoder process
var videoEncoder canvas.VideoEncoder = canvas.FFmpeg{
	Path:    env.FFMPEG_PATH,
	Timeout: env.ENCODE_TIMEOUT,
}

type generateSource struct {
	URL   string `json:"url"`   // Direct Image URL
	Token string `json:"token"` // Token ID, resolved through the metadata collaborator
	Role  string `json:"role"`  // Slot Role: before/after/banner/logo or empty
}

type generateRequest struct {
	Template     string           `json:"template"`      // grid | compare-* | post-*
	GridShape    string           `json:"grid_shape"`    // RxC, grid templates only
	AspectRatio  string           `json:"aspect_ratio"`  // square | landscape | portrait
	Sources      []generateSource `json:"sources"`       //
	Text         string           `json:"text"`          // Caption / body / stats string
	StatusLabel  string           `json:"status_label"`  //
	OutputFormat string           `json:"output_format"` // png | gif | mp4
}

// The one parameterized pipeline behind every export shape:
// admit -> resolve -> decode -> render loop -> encode.
func POST_Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Parse Incoming JSON
	var req generateRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, env.MAX_BODY_BYTES))
	if err != nil {
		sendError(w, http.StatusBadRequest, "request body unreadable", err.Error())
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		sendError(w, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}

	format := req.OutputFormat
	if format == "" {
		format = "png"
	}
	var bucket env.GuardBucket
	switch format {
	case "png":
		bucket = env.GUARD_IMAGE
	case "gif":
		bucket = env.GUARD_GIF
	case "mp4":
		bucket = env.GUARD_VIDEO
	default:
		sendError(w, http.StatusBadRequest, "unsupported output format", format)
		return
	}

	// Rate Limiting
	address := getRealAddress(r)
	if ok, retryAfter := env.Jobs.Allow(bucket, address); !ok {
		sendRetryError(w, http.StatusTooManyRequests, "rate limited", retryAfter)
		return
	}

	// Concurrency Ceiling for Heavy Encodes
	heavy := format == "gif" || format == "mp4"
	if heavy {
		if !env.Jobs.AcquireHeavy() {
			sendRetryError(w, http.StatusServiceUnavailable, "server busy, retry", 15*time.Second)
			return
		}
		defer env.Jobs.ReleaseHeavy()
	}

	// Resolve Sources, degrading per URL rather than aborting
	sources, status := resolveSources(req.Sources, req.StatusLabel)

	// Pick Renderer
	render, slotsWanted, fixedMs, badTemplate := pickRenderer(&req, sources, status)
	if badTemplate != "" {
		sendError(w, http.StatusBadRequest, "unknown template", badTemplate)
		return
	}
	if slotsWanted > 0 {
		if len(sources) == 0 {
			sendError(w, http.StatusBadRequest, "missing required image", "template needs at least one source")
			return
		}
		loadable := 0
		for i := range sources {
			if sources[i].Kind != canvas.SourceMissing {
				loadable++
			}
		}
		if loadable == 0 {
			sendError(w, http.StatusBadRequest, "no loadable sources", "every source failed to fetch or decode")
			return
		}
	}

	// Encode
	width, height := canvas.CanvasSize(req.AspectRatio)
	durationMs := canvas.GoverningDurationMs(sources, fixedMs)
	started := time.Now()

	var data []byte
	var mime, ext string
	switch format {
	case "gif":
		data, err = canvas.EncodeGIF(width, height, durationMs, render)
		mime, ext = "image/gif", "gif"
	case "mp4":
		data, err = canvas.EncodeVideo(width, height, durationMs, render, env.DATA_DIRECTORY, videoEncoder)
		mime, ext = "video/mp4", "mp4"
	default:
		data, err = canvas.EncodeStill(width, height, render)
		mime, ext = "image/png", "png"
	}
	if err != nil {
		log.Println("[generate] Encode Error:", err)
		sendError(w, http.StatusInternalServerError, "encode failed", err.Error())
		return
	}
	log.Printf("[generate] %s %s %dx%d in %s\n", req.Template, format, width, height, time.Since(started))

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename=mediagen-%d.%s", time.Now().Unix(), ext))
	w.Write(data)
}

// Turn request sources into decoded slots. Token entries go through the
// metadata resolver first, and the first resolved Status attribute backfills
// an empty status label.
func resolveSources(in []generateSource, statusLabel string) ([]canvas.Source, string) {
	sources := make([]canvas.Source, 0, len(in))
	for _, src := range in {
		url := src.URL
		if src.Token != "" {
			meta, err := env.ResolveToken(src.Token)
			if err != nil {
				log.Println("[generate] Token Resolve Error:", err)
				sources = append(sources, canvas.Source{Kind: canvas.SourceMissing, Role: src.Role})
				continue
			}
			url = meta.Image
			if statusLabel == "" {
				statusLabel = meta.Attribute("status")
			}
		}
		sources = append(sources, canvas.LoadSource(url, src.Role))
	}
	return sources, statusLabel
}

// Resolve the template name into a frame renderer. fixedMs is nonzero only
// for templates with their own fixed animation cycle.
func pickRenderer(req *generateRequest, sources []canvas.Source, status string) (render canvas.FrameRenderer, slotsWanted, fixedMs int, badTemplate string) {
	switch {
	case req.Template == "grid":
		rows, cols := parseGridShape(req.GridShape)
		roles := make([]string, len(sources))
		for i := range sources {
			roles[i] = sources[i].Role
		}
		plan := canvas.PlanFromRoles(rows, cols, roles)
		render = func(s *canvas.Surface, timeMs int) {
			canvas.RenderGrid(s, plan, sources, nil, timeMs)
		}
		return render, 1, 0, ""

	case strings.HasPrefix(req.Template, "compare-"):
		variant := canvas.CompareVariant(strings.TrimPrefix(req.Template, "compare-"))
		found := false
		for _, v := range canvas.CompareVariants {
			if v == variant {
				found = true
				break
			}
		}
		if !found {
			return nil, 0, 0, req.Template
		}
		before, after := compareSlots(sources)
		caption := req.Text
		render = func(s *canvas.Surface, timeMs int) {
			var b, a image.Image
			if before != nil {
				b = before.BitmapAt(timeMs)
			}
			if after != nil {
				a = after.BitmapAt(timeMs)
			}
			canvas.RenderCompare(s, variant, b, a, caption, status, timeMs)
		}
		if variant == canvas.CompareTransition {
			fixedMs = canvas.TRANSITION_CYCLE
		}
		return render, 2, fixedMs, ""

	case strings.HasPrefix(req.Template, "post-"):
		name := strings.TrimPrefix(req.Template, "post-")
		slots, known := canvas.PostSlots(name)
		if !known {
			return nil, 0, 0, req.Template
		}
		text := req.Text
		render = func(s *canvas.Surface, timeMs int) {
			canvas.RenderPost(s, name, sources, text, status, timeMs)
		}
		return render, slots, 0, ""

	default:
		return nil, 0, 0, req.Template
	}
}

// Before/after by role first, positional as the fallback
func compareSlots(sources []canvas.Source) (before, after *canvas.Source) {
	for i := range sources {
		switch sources[i].Role {
		case "before":
			before = &sources[i]
		case "after":
			after = &sources[i]
		}
	}
	if before == nil && len(sources) > 0 {
		before = &sources[0]
	}
	if after == nil && len(sources) > 1 {
		after = &sources[1]
	}
	return before, after
}

// "3x3" -> 3, 3 with a clamped fallback
func parseGridShape(shape string) (rows, cols int) {
	rows, cols = 3, 3
	if n, err := fmt.Sscanf(shape, "%dx%d", &rows, &cols); err != nil || n != 2 {
		return 3, 3
	}
	if rows < 1 || rows > 8 || cols < 1 || cols > 8 {
		return 3, 3
	}
	return rows, cols
}
