// Package gesture classifies static hand gestures from fingertip and wrist
// positions using an ordered list of geometric rules.
package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/geometry"
)

// Joint names a hand keypoint the rules look at.
type Joint int

const (
	Wrist Joint = iota
	ThumbTip
	IndexTip
	MiddleTip
	RingTip
	PinkyTip
	numJoints
)

var jointNames = [numJoints]string{
	Wrist:     "wrist",
	ThumbTip:  "thumb_tip",
	IndexTip:  "index_tip",
	MiddleTip: "middle_tip",
	RingTip:   "ring_tip",
	PinkyTip:  "pinky_tip",
}

// AllJoints lists every joint.
var AllJoints = []Joint{Wrist, ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

func (j Joint) String() string {
	if j < 0 || j >= numJoints {
		return fmt.Sprintf("joint(%d)", int(j))
	}
	return jointNames[j]
}

// ParseJoint returns the joint with the given name.
func ParseJoint(name string) (Joint, error) {
	for j, n := range jointNames {
		if n == name {
			return Joint(j), nil
		}
	}
	return 0, fmt.Errorf("unknown joint %q", name)
}

// Observation is one detected joint: its position and the detector's
// confidence in [0,1]. Positions are normalized with y growing upwards, so a
// raised fingertip has a larger Y than the wrist.
type Observation struct {
	Point      geometry.Point[geometry.Math]
	Confidence float64
}

// Joints holds the observations for one hand. A missing key means the
// detector did not report the joint.
type Joints map[Joint]Observation

// Points are the positions of the joints a rule asked for, all present.
type Points map[Joint]geometry.Point[geometry.Math]

// present returns the positions of the required joints if every one of them
// was observed with confidence strictly above floor.
func (js Joints) present(required []Joint, floor float64) (Points, bool) {
	pts := make(Points, len(required))
	for _, j := range required {
		obs, ok := js[j]
		if !ok || obs.Confidence <= floor {
			return nil, false
		}
		pts[j] = obs.Point
	}
	return pts, true
}
