package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossfadePhaseBoundaries(t *testing.T) {
	cases := []struct {
		timeMs        int
		before, after float64
	}{
		{0, 1, 0},
		{1000, 1, 0},
		{2000, 0, 1},
		{3000, 0, 1},
	}
	for _, c := range cases {
		before, after := CrossfadeAlphas(c.timeMs)
		assert.Equal(t, c.before, before, "before alpha at %dms", c.timeMs)
		assert.Equal(t, c.after, after, "after alpha at %dms", c.timeMs)
	}
}

func TestCrossfadeAlphasSumToOne(t *testing.T) {
	for ms := 0; ms < TRANSITION_CYCLE*2; ms += 33 {
		before, after := CrossfadeAlphas(ms)
		assert.InDelta(t, 1.0, before+after, 1e-9, "alphas at %dms", ms)
		assert.GreaterOrEqual(t, before, 0.0)
		assert.LessOrEqual(t, before, 1.0)
	}
}

func TestCrossfadeMidFade(t *testing.T) {
	before, after := CrossfadeAlphas(1500)
	assert.InDelta(t, 0.5, before, 1e-9)
	assert.InDelta(t, 0.5, after, 1e-9)

	before, after = CrossfadeAlphas(3500)
	assert.InDelta(t, 0.5, before, 1e-9)
	assert.InDelta(t, 0.5, after, 1e-9)
}

// Chrome must render with both slots missing, geometry intact
func TestRenderCompareSurvivesMissingBitmaps(t *testing.T) {
	for _, variant := range CompareVariants {
		s := NewSurface(320, 320)
		RenderCompare(s, variant, nil, nil, "caption", STATUS_WATERMARK, 0)
		assert.NotNil(t, s.Image(), "variant %s", variant)
	}
}

func TestCompareLabels(t *testing.T) {
	assert.Equal(t, "BEFORE / AFTER", labelFor(CompareSideBySide, ""))
	assert.Equal(t, "THEN > NOW", labelFor(CompareTransition, ""))
	assert.Equal(t, "minted", labelFor(CompareGlitch, "minted"), "caller status wins")

	for _, variant := range CompareVariants {
		for _, r := range labelFor(variant, "") {
			assert.Less(t, r, rune(128), "labels stay ASCII for font coverage")
		}
	}
}

func TestParseStats(t *testing.T) {
	stats := ParseStats("floor: 2.1E | owners: 4412 |  listed :  77 ")
	assert.Equal(t, []Stat{
		{Label: "floor", Value: "2.1E"},
		{Label: "owners", Value: "4412"},
		{Label: "listed", Value: "77"},
	}, stats)

	assert.Empty(t, ParseStats("no delimiters here"))
	assert.Empty(t, ParseStats(""))
}
