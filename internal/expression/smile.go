// Package expression classifies facial expressions from lip contours.
package expression

import (
	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/geometry"
)

// MinLipPoints is the smallest outer-lip contour the classifier will judge.
const MinLipPoints = 5

// Label is the outcome of expression classification.
type Label int

const (
	// Undetermined means the contour was too short to judge.
	Undetermined Label = iota
	NotSmiling
	Smiling
)

func (l Label) String() string {
	switch l {
	case Smiling:
		return "smiling"
	case NotSmiling:
		return "not_smiling"
	default:
		return "undetermined"
	}
}

// Symbol returns the display text for the label.
func (l Label) Symbol() string {
	switch l {
	case Smiling:
		return "😄 Smiling"
	case NotSmiling:
		return "😐 Not Smiling"
	default:
		return ""
	}
}

// Result carries the label together with the geometry it was derived from.
// Left, Right and Center are only meaningful when Label is not Undetermined.
type Result struct {
	Label   Label
	Left    geometry.Point[geometry.Math]
	Right   geometry.Point[geometry.Math]
	Center  geometry.Point[geometry.Math]
	Outline []geometry.Point[geometry.Presentation]
}

// Classify decides whether the outer-lip contour is smiling.
//
// The box-relative points are mapped into the face box and swapped into
// presentation space (returned as Outline). For the decision they are swapped
// back and vertically inverted into math space. The mouth is Smiling when both
// corners lie strictly above the contour center there.
func Classify(lips []geometry.Point[geometry.Normalized], box geometry.Box) Result {
	outline := geometry.SwapAxes(geometry.MapIntoBox(lips, box))
	res := Result{Outline: outline}
	if len(lips) < MinLipPoints {
		return res
	}

	mouth := geometry.Contour[geometry.Math](geometry.InvertVertical(geometry.UnswapAxes(outline)))
	res.Left, _ = geometry.MostLeftPoint(mouth)
	res.Right, _ = geometry.MostRightPoint(mouth)
	res.Center, _ = geometry.FindCenter(mouth)

	leftDiff := res.Left.Y - res.Center.Y
	rightDiff := res.Right.Y - res.Center.Y
	if leftDiff > 0 && rightDiff > 0 {
		res.Label = Smiling
	} else {
		res.Label = NotSmiling
	}
	return res
}

// ClassifyFace classifies the outer lips of a detected face.
func ClassifyFace(lm face.Landmarks) Result {
	return Classify(lm.Region(face.OuterLips), lm.Box)
}
