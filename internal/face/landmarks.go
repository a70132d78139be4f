// Package face holds the named landmark regions of a detected face and maps
// them into the spaces the classifiers and renderers work in.
package face

import "github.com/ayusman/mudra/internal/geometry"

// Region names one landmark contour of a face.
type Region string

// Regions reported by the face landmark detector.
const (
	FaceContour  Region = "face_contour"
	MedianLine   Region = "median_line"
	OuterLips    Region = "outer_lips"
	InnerLips    Region = "inner_lips"
	Nose         Region = "nose"
	NoseCrest    Region = "nose_crest"
	LeftEye      Region = "left_eye"
	RightEye     Region = "right_eye"
	LeftEyebrow  Region = "left_eyebrow"
	RightEyebrow Region = "right_eyebrow"
	LeftPupil    Region = "left_pupil"
	RightPupil   Region = "right_pupil"
)

// AllRegions lists every region in drawing order.
var AllRegions = []Region{
	FaceContour, MedianLine, OuterLips, InnerLips, Nose, NoseCrest,
	LeftEye, RightEye, LeftEyebrow, RightEyebrow, LeftPupil, RightPupil,
}

// ParseRegion returns the Region with the given name.
func ParseRegion(name string) (Region, bool) {
	for _, r := range AllRegions {
		if string(r) == name {
			return r, true
		}
	}
	return "", false
}

// Landmarks is one detected face: its image-space bounding box and the
// box-relative points of each region the detector reported.
type Landmarks struct {
	Box     geometry.Box
	Regions map[Region][]geometry.Point[geometry.Normalized]
}

// Region returns the points of region r, or nil if it was not detected.
func (l Landmarks) Region(r Region) []geometry.Point[geometry.Normalized] {
	return l.Regions[r]
}

// Image maps region r into image space.
func (l Landmarks) Image(r Region) []geometry.Point[geometry.Image] {
	return geometry.MapIntoBox(l.Regions[r], l.Box)
}

// Presentation maps every detected region into presentation space.
// Regions with no points are left out.
func (l Landmarks) Presentation() map[Region][]geometry.Point[geometry.Presentation] {
	out := make(map[Region][]geometry.Point[geometry.Presentation], len(l.Regions))
	for _, r := range AllRegions {
		points := l.Regions[r]
		if len(points) == 0 {
			continue
		}
		out[r] = geometry.SwapAxes(geometry.MapIntoBox(points, l.Box))
	}
	return out
}

// PresentationBox returns the face box as seen from presentation space.
func (l Landmarks) PresentationBox() geometry.Box {
	return l.Box.SwapAxes()
}
