package geometry

// MapIntoBox maps box-relative points into image space:
// x' = box.X + x*box.Width, y' = box.Y + y*box.Height.
// A zero-area box collapses every point onto the box origin.
func MapIntoBox(points []Point[Normalized], box Box) []Point[Image] {
	out := make([]Point[Image], len(points))
	for i, p := range points {
		out[i] = Point[Image]{
			X: box.X + p.X*box.Width,
			Y: box.Y + p.Y*box.Height,
		}
	}
	return out
}

// SwapAxes exchanges x and y of every point, moving image points into
// presentation space.
func SwapAxes(points []Point[Image]) []Point[Presentation] {
	return swap[Image, Presentation](points)
}

// UnswapAxes is the inverse of SwapAxes.
func UnswapAxes(points []Point[Presentation]) []Point[Image] {
	return swap[Presentation, Image](points)
}

// InvertVertical maps (x, y) to (x, 1-y), moving image points into math space.
func InvertVertical(points []Point[Image]) []Point[Math] {
	return invert[Image, Math](points)
}

// RevertVertical is the inverse of InvertVertical.
func RevertVertical(points []Point[Math]) []Point[Image] {
	return invert[Math, Image](points)
}

func swap[From, To Space](points []Point[From]) []Point[To] {
	out := make([]Point[To], len(points))
	for i, p := range points {
		out[i] = Point[To]{X: p.Y, Y: p.X}
	}
	return out
}

func invert[From, To Space](points []Point[From]) []Point[To] {
	out := make([]Point[To], len(points))
	for i, p := range points {
		out[i] = Point[To]{X: p.X, Y: 1 - p.Y}
	}
	return out
}
