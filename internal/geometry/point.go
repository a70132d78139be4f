// Package geometry provides coordinate-space aware points, the transforms
// between spaces, and contour analysis used by the expression and gesture
// classifiers.
//
// Every point carries its coordinate space as a type parameter. The spaces are:
//
//	Normalized    detector output relative to a box, both axes in [0,1]
//	Image         image-normalized coordinates, after mapping into a box
//	Presentation  image space with x and y swapped, as a render layer expects
//	Math          image space with the vertical axis inverted
//
// Points of different spaces are distinct types and cannot be assigned to one
// another. Moving between spaces goes through the transform functions in this
// package; an explicit Go conversion compiles but skips the geometry.
package geometry

import "math"

// Space is implemented by the marker types that tag a Point's coordinate space.
type Space interface {
	Normalized | Image | Presentation | Math
	spaceName() string
}

// Normalized marks detector coordinates relative to a bounding box.
type Normalized struct{}

// Image marks image-normalized coordinates.
type Image struct{}

// Presentation marks axis-swapped image coordinates.
type Presentation struct{}

// Math marks image coordinates with the vertical axis inverted.
type Math struct{}

func (Normalized) spaceName() string   { return "normalized" }
func (Image) spaceName() string        { return "image" }
func (Presentation) spaceName() string { return "presentation" }
func (Math) spaceName() string         { return "math" }

// SpaceName returns the name of the space S.
func SpaceName[S Space]() string {
	var s S
	return s.spaceName()
}

// Point is a 2D coordinate in space S.
type Point[S Space] struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for constructing a Point.
func Pt[S Space](x, y float64) Point[S] {
	return Point[S]{X: x, Y: y}
}

// Distance returns the Euclidean distance between two points of the same space.
func Distance[S Space](a, b Point[S]) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Box is an axis-aligned rectangle in image space.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// UnitBox covers the whole image.
var UnitBox = Box{Width: 1, Height: 1}

// SwapAxes returns the box with its x/y origin and width/height exchanged,
// i.e. the box as seen from presentation space.
func (b Box) SwapAxes() Box {
	return Box{X: b.Y, Y: b.X, Width: b.Height, Height: b.Width}
}
