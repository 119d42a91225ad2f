package routes

import (
	"net/http"

	"mintworks/mediagen/canvas"
)

// Service and template catalog for the front-end picker
func GET_Index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	compare := make([]string, 0, len(canvas.CompareVariants))
	for _, v := range canvas.CompareVariants {
		compare = append(compare, "compare-"+string(v))
	}
	post := make([]map[string]any, 0, len(canvas.PostTemplates))
	for _, t := range canvas.PostTemplates {
		post = append(post, map[string]any{"name": "post-" + t.Name, "slots": t.Slots})
	}

	sendJSON(w, http.StatusOK, map[string]any{
		"service": "mediagen",
		"formats": []string{"png", "gif", "mp4"},
		"aspects": []string{"square", "landscape", "portrait"},
		"templates": map[string]any{
			"grid":    []string{"grid"},
			"compare": compare,
			"post":    post,
		},
	})
}
