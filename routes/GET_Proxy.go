package routes

import (
	"net/http"
	"strings"

	"mintworks/mediagen/canvas"
	"mintworks/mediagen/env"
)

// Relay a remote image for the browser canvas, which cannot read cross
// origin pixels directly. Same fetch rules as the render pipeline.
func GET_Proxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Rate Limiting
	address := getRealAddress(r)
	if ok, retryAfter := env.Jobs.Allow(env.GUARD_PROXY, address); !ok {
		sendRetryError(w, http.StatusTooManyRequests, "rate limited", retryAfter)
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" || !strings.HasPrefix(target, "http") {
		sendError(w, http.StatusBadRequest, "missing url parameter", "")
		return
	}

	data, err := canvas.FetchBytes(target)
	if err != nil {
		sendError(w, http.StatusBadRequest, "upstream fetch failed", err.Error())
		return
	}

	var mime string
	switch canvas.ImageSniffType(data) {
	case canvas.IMAGE_GIF:
		mime = "image/gif"
	case canvas.IMAGE_PNG:
		mime = "image/png"
	case canvas.IMAGE_JPEG:
		mime = "image/jpeg"
	case canvas.IMAGE_WEBP:
		mime = "image/webp"
	default:
		sendError(w, http.StatusBadRequest, "upstream payload is not an image", "")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
