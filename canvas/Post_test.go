package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostTemplateCatalog(t *testing.T) {
	assert.Len(t, PostTemplates, 14)

	slots, ok := PostSlots("text")
	assert.True(t, ok)
	assert.Zero(t, slots)

	slots, ok = PostSlots("eight")
	assert.True(t, ok)
	assert.Equal(t, 8, slots)

	_, ok = PostSlots("hologram")
	assert.False(t, ok)
}

// Every template must render chrome even with no sources at all
func TestRenderPostSurvivesMissingSources(t *testing.T) {
	for _, tmpl := range PostTemplates {
		s := NewSurface(240, 240)
		RenderPost(s, tmpl.Name, nil, "caption", "status", 0)
		assert.NotNil(t, s.Image(), "template %s", tmpl.Name)
	}
}
