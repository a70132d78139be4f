package api

import (
	"fmt"
	"net/http"

	"github.com/ayusman/mudra/internal/geometry"
)

// xy is an untyped point on the wire. Its space travels alongside it.
type xy struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func typed[S geometry.Space](pts []xy) []geometry.Point[S] {
	out := make([]geometry.Point[S], len(pts))
	for i, p := range pts {
		out[i] = geometry.Pt[S](p.X, p.Y)
	}
	return out
}

func untyped[S geometry.Space](pts []geometry.Point[S]) []xy {
	out := make([]xy, len(pts))
	for i, p := range pts {
		out[i] = xy{X: p.X, Y: p.Y}
	}
	return out
}

// transformOp is one legal step between coordinate spaces.
type transformOp struct {
	from, to string
	apply    func(pts []xy, box geometry.Box) []xy
}

var (
	normalizedSpace   = geometry.SpaceName[geometry.Normalized]()
	imageSpace        = geometry.SpaceName[geometry.Image]()
	presentationSpace = geometry.SpaceName[geometry.Presentation]()
	mathSpace         = geometry.SpaceName[geometry.Math]()
)

var transformOps = map[string]transformOp{
	"box": {normalizedSpace, imageSpace, func(pts []xy, box geometry.Box) []xy {
		return untyped(geometry.MapIntoBox(typed[geometry.Normalized](pts), box))
	}},
	"swap": {imageSpace, presentationSpace, func(pts []xy, _ geometry.Box) []xy {
		return untyped(geometry.SwapAxes(typed[geometry.Image](pts)))
	}},
	"unswap": {presentationSpace, imageSpace, func(pts []xy, _ geometry.Box) []xy {
		return untyped(geometry.UnswapAxes(typed[geometry.Presentation](pts)))
	}},
	"invert": {imageSpace, mathSpace, func(pts []xy, _ geometry.Box) []xy {
		return untyped(geometry.InvertVertical(typed[geometry.Image](pts)))
	}},
	"revert": {mathSpace, imageSpace, func(pts []xy, _ geometry.Box) []xy {
		return untyped(geometry.RevertVertical(typed[geometry.Math](pts)))
	}},
}

// TransformHandler serves POST /api/transform.
type TransformHandler struct{}

// NewTransformHandler creates a new TransformHandler.
func NewTransformHandler() *TransformHandler {
	return &TransformHandler{}
}

type transformRequest struct {
	// Space is where Points start; normalized when omitted.
	Space  string        `json:"space" validate:"omitempty,oneof=normalized image presentation math"`
	Points []xy          `json:"points" validate:"max=4096"`
	Box    *geometry.Box `json:"box"`
	Ops    []string      `json:"ops" validate:"max=64"`
}

type transformResponse struct {
	Space  string `json:"space"`
	Points []xy   `json:"points"`
}

func (h *TransformHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req transformRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	resp, err := req.run()
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// run applies the ops in order. Each op must start in the space the
// previous one ended in.
func (req transformRequest) run() (transformResponse, error) {
	space := req.Space
	if space == "" {
		space = normalizedSpace
	}
	box := geometry.UnitBox
	if req.Box != nil {
		box = *req.Box
	}

	pts := req.Points
	if pts == nil {
		pts = []xy{}
	}

	for i, name := range req.Ops {
		op, ok := transformOps[name]
		if !ok {
			return transformResponse{}, fmt.Errorf("%w: op %d: unknown transform %q", errBadRequest, i, name)
		}
		if op.from != space {
			return transformResponse{}, fmt.Errorf("%w: op %d: %s needs %s points, have %s", errBadRequest, i, name, op.from, space)
		}
		pts = op.apply(pts, box)
		space = op.to
	}

	return transformResponse{Space: space, Points: pts}, nil
}
