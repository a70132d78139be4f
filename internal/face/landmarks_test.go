package face

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/geometry"
)

func TestLandmarks_Presentation(t *testing.T) {
	lm := Landmarks{
		Box: geometry.Box{X: 0.2, Y: 0.4, Width: 0.5, Height: 0.25},
		Regions: map[Region][]geometry.Point[geometry.Normalized]{
			Nose:      {{X: 0.5, Y: 0.5}},
			OuterLips: {{X: 0, Y: 0}, {X: 1, Y: 1}},
			LeftEye:   {},
		},
	}

	out := lm.Presentation()
	require.Len(t, out, 2, "empty regions are skipped")

	nose := out[Nose]
	require.Len(t, nose, 1)
	// image point (0.45, 0.525) swapped
	assert.InDelta(t, 0.525, nose[0].X, 1e-9)
	assert.InDelta(t, 0.45, nose[0].Y, 1e-9)

	lips := out[OuterLips]
	require.Len(t, lips, 2)
	assert.Equal(t, geometry.Pt[geometry.Presentation](0.4, 0.2), lips[0])
	assert.InDelta(t, 0.65, lips[1].X, 1e-9)
	assert.InDelta(t, 0.7, lips[1].Y, 1e-9)
}

func TestLandmarks_Image(t *testing.T) {
	lm := Landmarks{
		Box: geometry.UnitBox,
		Regions: map[Region][]geometry.Point[geometry.Normalized]{
			MedianLine: {{X: 0.5, Y: 0.1}, {X: 0.5, Y: 0.9}},
		},
	}
	assert.Equal(t, []geometry.Point[geometry.Image]{{X: 0.5, Y: 0.1}, {X: 0.5, Y: 0.9}}, lm.Image(MedianLine))
	assert.Empty(t, lm.Image(Nose))
	assert.Nil(t, lm.Region(Nose))
}

func TestLandmarks_PresentationBox(t *testing.T) {
	lm := Landmarks{Box: geometry.Box{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}}
	assert.Equal(t, geometry.Box{X: 0.2, Y: 0.1, Width: 0.4, Height: 0.3}, lm.PresentationBox())
}

func TestParseRegion(t *testing.T) {
	r, ok := ParseRegion("outer_lips")
	assert.True(t, ok)
	assert.Equal(t, OuterLips, r)

	_, ok = ParseRegion("chin")
	assert.False(t, ok)
}
