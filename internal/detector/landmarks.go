// Package detector provides landmark detection interfaces and the raw hand and
// face types detectors produce.
package detector

import (
	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// jointIndex maps the classifier's joints to MediaPipe landmark indices.
var jointIndex = map[gesture.Joint]int{
	gesture.Wrist:     Wrist,
	gesture.ThumbTip:  ThumbTip,
	gesture.IndexTip:  IndexTip,
	gesture.MiddleTip: MiddleTip,
	gesture.RingTip:   RingTip,
	gesture.PinkyTip:  PinkyTip,
}

// Keypoint is one hand landmark in image-normalized coordinates (y grows
// downwards) with the detector's confidence.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Confidence float64 `json:"confidence"`
}

// HandLandmarks represents the 21 hand landmarks of one detected hand.
// Detected is false for landmarks the detector did not report.
type HandLandmarks struct {
	Points     [NumLandmarks]Keypoint `json:"points"`
	Detected   [NumLandmarks]bool     `json:"-"`
	Handedness string                 `json:"handedness"` // "Left" or "Right"
	Score      float64                `json:"score"`
}

// Joints converts the hand into the classifier's joint map. Image
// coordinates are flipped vertically so raised fingertips have larger y.
func (h *HandLandmarks) Joints() gesture.Joints {
	if h == nil {
		return nil
	}

	joints := make(gesture.Joints, len(jointIndex))
	for j, idx := range jointIndex {
		if !h.Detected[idx] {
			continue
		}
		kp := h.Points[idx]
		flipped := geometry.InvertVertical([]geometry.Point[geometry.Image]{{X: kp.X, Y: kp.Y}})
		joints[j] = gesture.Observation{Point: flipped[0], Confidence: kp.Confidence}
	}
	return joints
}

// Human is a detected person. Box is normalized with the origin top-left.
type Human struct {
	Box        geometry.Box `json:"box"`
	Confidence float64      `json:"confidence"`
}

// Detection is everything a detector found in one frame.
type Detection struct {
	Hands  []HandLandmarks
	Faces  []face.Landmarks
	Humans []Human
}

// Empty reports whether nothing was detected.
func (d *Detection) Empty() bool {
	return d == nil || (len(d.Hands) == 0 && len(d.Faces) == 0 && len(d.Humans) == 0)
}
