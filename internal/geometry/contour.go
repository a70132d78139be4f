package geometry

// Contour is an ordered closed ring of points. Order is traversal order and
// neighbours wrap around at both ends.
type Contour[S Space] []Point[S]

// MostLeftIndex returns the index of the point with the smallest x.
// Ties go to the earliest point in traversal order. ok is false for an empty
// contour.
func MostLeftIndex[S Space](c Contour[S]) (index int, ok bool) {
	if len(c) == 0 {
		return 0, false
	}
	for i, p := range c {
		if p.X < c[index].X {
			index = i
		}
	}
	return index, true
}

// MostRightIndex returns the index of the point with the largest x.
// Ties go to the earliest point in traversal order.
func MostRightIndex[S Space](c Contour[S]) (index int, ok bool) {
	if len(c) == 0 {
		return 0, false
	}
	for i, p := range c {
		if p.X > c[index].X {
			index = i
		}
	}
	return index, true
}

// MostLeftPoint returns the leftmost point of the contour.
func MostLeftPoint[S Space](c Contour[S]) (Point[S], bool) {
	i, ok := MostLeftIndex(c)
	if !ok {
		return Point[S]{}, false
	}
	return c[i], true
}

// MostRightPoint returns the rightmost point of the contour.
func MostRightPoint[S Space](c Contour[S]) (Point[S], bool) {
	i, ok := MostRightIndex(c)
	if !ok {
		return Point[S]{}, false
	}
	return c[i], true
}

// FindCenter walks the ring from the leftmost and rightmost points at the same
// time and returns the first point both walkers agree on.
//
// Each walker picks its direction once, from its starting index: forward if
// the next point sits higher (larger y) than the previous one, backward
// otherwise. Per iteration the left walker steps and is compared against the
// right walker, then the right walker steps and they are compared again.
// Points are compared by exact value.
//
// When the walkers never land on equal points within len(c) iterations (two
// walkers moving the same way at a constant gap, for instance) the point at
// index 0 is returned. That fallback is a coarse approximation, not a
// geometric center.
func FindCenter[S Space](c Contour[S]) (Point[S], bool) {
	n := len(c)
	if n == 0 {
		return Point[S]{}, false
	}

	left, _ := MostLeftIndex(c)
	right, _ := MostRightIndex(c)
	leftStep := c.direction(left)
	rightStep := c.direction(right)

	for i := 0; i < n; i++ {
		left = c.wrap(left + leftStep)
		if c[left] == c[right] {
			return c[left], true
		}

		right = c.wrap(right + rightStep)
		if c[left] == c[right] {
			return c[left], true
		}
	}

	return c[0], true
}

// direction returns +1 when the ring rises after index i and -1 otherwise.
func (c Contour[S]) direction(i int) int {
	next := c[c.wrap(i+1)]
	prev := c[c.wrap(i-1)]
	if next.Y > prev.Y {
		return 1
	}
	return -1
}

func (c Contour[S]) wrap(i int) int {
	n := len(c)
	return ((i % n) + n) % n
}
