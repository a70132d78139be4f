package api

import (
	"fmt"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/expression"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
)

// ExpressionHandler serves POST /api/classify/expression.
type ExpressionHandler struct{}

// NewExpressionHandler creates a new ExpressionHandler.
func NewExpressionHandler() *ExpressionHandler {
	return &ExpressionHandler{}
}

type classifyExpressionRequest struct {
	// Box defaults to the unit box when omitted.
	Box    *geometry.Box                          `json:"box"`
	Points []geometry.Point[geometry.Normalized] `json:"points" validate:"max=4096"`
}

func (h *ExpressionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req classifyExpressionRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	box := geometry.UnitBox
	if req.Box != nil {
		box = *req.Box
	}

	writeJSON(w, http.StatusOK, app.NewExpressionResult(expression.Classify(req.Points, box)))
}

// GestureHandler serves POST /api/classify/gesture.
type GestureHandler struct {
	classifier *gesture.Classifier
}

// NewGestureHandler creates a new GestureHandler using the given classifier.
func NewGestureHandler(c *gesture.Classifier) *GestureHandler {
	return &GestureHandler{classifier: c}
}

// jointRequest is one observed joint. A joint sent without a confidence
// is taken as certain.
type jointRequest struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Confidence *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
}

func (j jointRequest) confidence() float64 {
	if j.Confidence == nil {
		return 1
	}
	return *j.Confidence
}

type classifyGestureRequest struct {
	// Space is the vertical convention of the joints: "math" (y up, the
	// default) or "image" (y down, as detectors report them).
	Space  string                  `json:"space" validate:"omitempty,oneof=math image"`
	Joints map[string]jointRequest `json:"joints" validate:"dive"`
}

func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req classifyGestureRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	js, err := req.joints()
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, app.NewGestureResult(h.classifier.Classify(js), h.classifier.Matches(js)))
}

func (req classifyGestureRequest) joints() (gesture.Joints, error) {
	js := make(gesture.Joints, len(req.Joints))
	for name, j := range req.Joints {
		joint, err := gesture.ParseJoint(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}

		p := geometry.Pt[geometry.Math](j.X, j.Y)
		if req.Space == geometry.SpaceName[geometry.Image]() {
			p = geometry.InvertVertical([]geometry.Point[geometry.Image]{{X: j.X, Y: j.Y}})[0]
		}
		js[joint] = gesture.Observation{Point: p, Confidence: j.confidence()}
	}
	return js, nil
}
