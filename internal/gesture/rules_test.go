package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/geometry"
)

func obs(x, y, conf float64) Observation {
	return Observation{Point: geometry.Pt[geometry.Math](x, y), Confidence: conf}
}

func TestClassify_OKSign(t *testing.T) {
	c := NewDefaultClassifier(DefaultThresholds())

	t.Run("touching tips with high confidence", func(t *testing.T) {
		js := Joints{
			ThumbTip: obs(0.50, 0.50, 0.9),
			IndexTip: obs(0.52, 0.51, 0.9),
		}
		assert.Equal(t, OKSign, c.Classify(js))
	})

	t.Run("low confidence thumb is treated as absent", func(t *testing.T) {
		js := Joints{
			ThumbTip: obs(0.50, 0.50, 0.8),
			IndexTip: obs(0.52, 0.51, 0.9),
		}
		assert.Equal(t, None, c.Classify(js))
	})

	t.Run("tips too far apart", func(t *testing.T) {
		js := Joints{
			ThumbTip: obs(0.40, 0.50, 0.9),
			IndexTip: obs(0.52, 0.51, 0.9),
		}
		assert.Equal(t, None, c.Classify(js))
	})
}

func TestClassify_SingleRules(t *testing.T) {
	c := NewDefaultClassifier(DefaultThresholds())

	tests := []struct {
		name   string
		joints Joints
		want   Label
	}{
		{
			name: "peace sign",
			joints: Joints{
				IndexTip:  obs(0.45, 0.6, 0.5),
				MiddleTip: obs(0.50, 0.5, 0.5),
				RingTip:   obs(0.55, 0.3, 0.5),
				PinkyTip:  obs(0.60, 0.35, 0.5),
			},
			want: PeaceSign,
		},
		{
			name: "rock sign",
			joints: Joints{
				Wrist:     obs(0.5, 0.5, 0.5),
				IndexTip:  obs(0.4, 0.8, 0.5),
				MiddleTip: obs(0.45, 0.3, 0.5),
				RingTip:   obs(0.55, 0.3, 0.5),
				PinkyTip:  obs(0.6, 0.8, 0.5),
			},
			want: RockSign,
		},
		{
			name: "thumbs up",
			joints: Joints{
				ThumbTip:  obs(0.5, 0.9, 0.5),
				IndexTip:  obs(0.5, 0.2, 0.5),
				MiddleTip: obs(0.5, 0.3, 0.5),
				RingTip:   obs(0.5, 0.4, 0.5),
				PinkyTip:  obs(0.5, 0.5, 0.5),
			},
			want: ThumbsUp,
		},
		{
			name: "fist",
			joints: Joints{
				Wrist:     obs(0.5, 0.5, 0.5),
				ThumbTip:  obs(0.55, 0.55, 0.5),
				IndexTip:  obs(0.5, 0.6, 0.5),
				MiddleTip: obs(0.5, 0.62, 0.5),
				RingTip:   obs(0.48, 0.6, 0.5),
				PinkyTip:  obs(0.45, 0.58, 0.5),
			},
			want: Fist,
		},
		{
			name:   "no joints",
			joints: Joints{},
			want:   None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.joints))
			assert.Equal(t, []Label{tt.want}, nonEmpty(c.Matches(tt.joints)))
		})
	}
}

// nonEmpty maps an empty match list to [None] so single-rule cases compare
// uniformly.
func nonEmpty(ls []Label) []Label {
	if len(ls) == 0 {
		return []Label{None}
	}
	return ls
}

func TestClassify_LastMatchWins(t *testing.T) {
	c := NewDefaultClassifier(DefaultThresholds())

	// Rock sign and call-me sign both hold; call-me comes later.
	js := Joints{
		Wrist:     obs(0.5, 0.5, 0.9),
		ThumbTip:  obs(0.1, 0.5, 0.9),
		IndexTip:  obs(0.5, 0.6, 0.9),
		MiddleTip: obs(0.45, 0.3, 0.9),
		RingTip:   obs(0.4, 0.4, 0.9),
		PinkyTip:  obs(0.6, 0.7, 0.9),
	}

	require.Equal(t, []Label{RockSign, CallMeSign}, c.Matches(js))
	assert.Equal(t, CallMeSign, c.Classify(js))

	t.Run("removing the later rule's joint leaves the earlier label", func(t *testing.T) {
		delete(js, ThumbTip)
		assert.Equal(t, RockSign, c.Classify(js))
	})
}

func TestClassify_OKSignOverriddenByFist(t *testing.T) {
	c := NewDefaultClassifier(DefaultThresholds())

	js := Joints{
		Wrist:     obs(0.5, 0.5, 0.95),
		ThumbTip:  obs(0.52, 0.6, 0.95),
		IndexTip:  obs(0.53, 0.62, 0.95),
		MiddleTip: obs(0.5, 0.6, 0.95),
		RingTip:   obs(0.47, 0.6, 0.95),
		PinkyTip:  obs(0.45, 0.58, 0.95),
	}

	matches := c.Matches(js)
	require.NotEmpty(t, matches)
	assert.Equal(t, OKSign, matches[0])
	assert.Equal(t, Fist, c.Classify(js))
}

func TestClassifier_CustomRuleOrder(t *testing.T) {
	always := func(Points) bool { return true }
	rules := []Rule{
		{Label: PeaceSign, Match: always},
		{Label: RockSign, Match: always},
	}

	assert.Equal(t, RockSign, NewClassifier(rules).Classify(Joints{}))

	rules[0], rules[1] = rules[1], rules[0]
	assert.Equal(t, PeaceSign, NewClassifier(rules).Classify(Joints{}))
}

func TestClassifier_ZeroConfidenceIsAbsent(t *testing.T) {
	c := NewDefaultClassifier(DefaultThresholds())
	js := Joints{
		IndexTip:  obs(0.45, 0.6, 0.5),
		MiddleTip: obs(0.50, 0.5, 0),
		RingTip:   obs(0.55, 0.3, 0.5),
		PinkyTip:  obs(0.60, 0.35, 0.5),
	}
	assert.Equal(t, None, c.Classify(js))
}

func TestParseJoint(t *testing.T) {
	for _, j := range AllJoints {
		parsed, err := ParseJoint(j.String())
		require.NoError(t, err)
		assert.Equal(t, j, parsed)
	}

	_, err := ParseJoint("elbow")
	assert.Error(t, err)
}

func TestLabel_String(t *testing.T) {
	assert.Equal(t, "ok_sign", OKSign.String())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "👍", ThumbsUp.Symbol())
	assert.Empty(t, None.Symbol())
}
