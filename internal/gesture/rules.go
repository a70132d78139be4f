package gesture

import "github.com/ayusman/mudra/internal/geometry"

// Label is a recognized hand gesture.
type Label int

const (
	None Label = iota
	OKSign
	PeaceSign
	RockSign
	CallMeSign
	ThumbsUp
	Fist
)

var labelNames = map[Label]string{
	None:       "none",
	OKSign:     "ok_sign",
	PeaceSign:  "peace_sign",
	RockSign:   "rock_sign",
	CallMeSign: "call_me_sign",
	ThumbsUp:   "thumbs_up",
	Fist:       "fist",
}

var labelSymbols = map[Label]string{
	OKSign:     "👌",
	PeaceSign:  "✌️",
	RockSign:   "🤘",
	CallMeSign: "🤙",
	ThumbsUp:   "👍",
	Fist:       "✊",
}

func (l Label) String() string {
	if s, ok := labelNames[l]; ok {
		return s
	}
	return "none"
}

// Symbol returns the display emoji for the label, empty for None.
func (l Label) Symbol() string {
	return labelSymbols[l]
}

// Thresholds tune the distance and confidence limits of the default rules.
type Thresholds struct {
	// OKConfidence is the confidence both thumb and index tip must exceed
	// for the OK sign.
	OKConfidence float64 `yaml:"ok_confidence" validate:"gte=0,lte=1"`
	// OKDistance is the thumb-to-index distance below which the tips touch.
	OKDistance float64 `yaml:"ok_distance" validate:"gt=0"`
	// FistRadius is how close every fingertip must be to the wrist for a fist.
	FistRadius float64 `yaml:"fist_radius" validate:"gt=0"`
	// JointConfidence is the confidence every other rule's joints must exceed.
	JointConfidence float64 `yaml:"joint_confidence" validate:"gte=0,lte=1"`
}

// DefaultThresholds returns the standard limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OKConfidence:    0.8,
		OKDistance:      0.1,
		FistRadius:      0.2,
		JointConfidence: 0,
	}
}

// Rule assigns Label when all Requires joints are present above
// MinConfidence and Match holds over their positions.
type Rule struct {
	Label         Label
	Requires      []Joint
	MinConfidence float64
	Match         func(p Points) bool
}

// DefaultRules returns the built-in rule list in evaluation order.
// Later rules take precedence over earlier ones.
func DefaultRules(th Thresholds) []Rule {
	fingers := []Joint{IndexTip, MiddleTip, RingTip, PinkyTip}
	with := func(extra ...Joint) []Joint {
		return append(append([]Joint{}, fingers...), extra...)
	}

	return []Rule{
		{
			Label:         OKSign,
			Requires:      []Joint{ThumbTip, IndexTip},
			MinConfidence: th.OKConfidence,
			Match: func(p Points) bool {
				return geometry.Distance(p[ThumbTip], p[IndexTip]) < th.OKDistance
			},
		},
		{
			Label:         PeaceSign,
			Requires:      fingers,
			MinConfidence: th.JointConfidence,
			Match: func(p Points) bool {
				return p[IndexTip].Y > p[MiddleTip].Y &&
					p[RingTip].Y < p[MiddleTip].Y &&
					p[PinkyTip].Y < p[MiddleTip].Y
			},
		},
		{
			Label:         RockSign,
			Requires:      with(Wrist),
			MinConfidence: th.JointConfidence,
			Match: func(p Points) bool {
				w := p[Wrist].Y
				return p[IndexTip].Y > w && p[PinkyTip].Y > w &&
					p[MiddleTip].Y < w && p[RingTip].Y < w
			},
		},
		{
			Label:         CallMeSign,
			Requires:      with(ThumbTip),
			MinConfidence: th.JointConfidence,
			Match: func(p Points) bool {
				return p[ThumbTip].X < p[IndexTip].X && // thumb out
					p[PinkyTip].X > p[RingTip].X && // pinky out
					p[MiddleTip].Y < p[RingTip].Y && // rest curled
					p[RingTip].Y < p[PinkyTip].Y
			},
		},
		{
			Label:         ThumbsUp,
			Requires:      with(ThumbTip),
			MinConfidence: th.JointConfidence,
			Match: func(p Points) bool {
				return p[ThumbTip].Y > p[IndexTip].Y &&
					p[IndexTip].Y < p[MiddleTip].Y &&
					p[RingTip].Y < p[PinkyTip].Y
			},
		},
		{
			Label:         Fist,
			Requires:      with(ThumbTip, Wrist),
			MinConfidence: th.JointConfidence,
			Match: func(p Points) bool {
				palm := p[Wrist]
				for _, j := range []Joint{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip} {
					if geometry.Distance(p[j], palm) >= th.FistRadius {
						return false
					}
				}
				return true
			},
		},
	}
}

// Classifier evaluates an ordered rule list against one hand.
// It holds no per-call state and is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier over the given rules.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// NewDefaultClassifier creates a Classifier with DefaultRules.
func NewDefaultClassifier(th Thresholds) *Classifier {
	return NewClassifier(DefaultRules(th))
}

// Classify runs every rule in order. Each rule that applies and matches
// overwrites the result, so the last matching rule wins. None is returned
// when nothing matches.
func (c *Classifier) Classify(js Joints) Label {
	label := None
	for _, r := range c.rules {
		if r.applies(js) {
			label = r.Label
		}
	}
	return label
}

// Matches returns every matching label in rule order.
func (c *Classifier) Matches(js Joints) []Label {
	var out []Label
	for _, r := range c.rules {
		if r.applies(js) {
			out = append(out, r.Label)
		}
	}
	return out
}

func (r Rule) applies(js Joints) bool {
	pts, ok := js.present(r.Requires, r.MinConfidence)
	if !ok {
		return false
	}
	return r.Match(pts)
}
