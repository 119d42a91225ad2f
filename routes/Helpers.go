package routes

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"mintworks/mediagen/env"
)

// Retrieve the real IP address based on the environment variables
func getRealAddress(r *http.Request) string {
	var ip string
	if env.HTTP_PROXY_HEADER != "" {
		ip = r.Header.Get(env.HTTP_PROXY_HEADER)
		if ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip = host
	return ip
}

// Every failure is a JSON body, never a partial binary
func sendError(w http.ResponseWriter, status int, message, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Capacity rejections carry a retry hint
func sendRetryError(w http.ResponseWriter, status int, message string, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", fmt.Sprint(seconds))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":             message,
		"retryAfterSeconds": seconds,
	})
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
