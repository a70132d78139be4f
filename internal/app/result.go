package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/expression"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
)

// ExpressionResult is the published form of an expression classification.
type ExpressionResult struct {
	Label   string                                  `json:"label"`
	Symbol  string                                  `json:"symbol"`
	Left    *geometry.Point[geometry.Math]          `json:"left,omitempty"`
	Right   *geometry.Point[geometry.Math]          `json:"right,omitempty"`
	Center  *geometry.Point[geometry.Math]          `json:"center,omitempty"`
	Outline []geometry.Point[geometry.Presentation] `json:"outline"`
}

// NewExpressionResult converts a classification. Corner and center points
// are omitted when the expression is undetermined.
func NewExpressionResult(r expression.Result) ExpressionResult {
	out := ExpressionResult{
		Label:   r.Label.String(),
		Symbol:  r.Label.Symbol(),
		Outline: r.Outline,
	}
	if out.Outline == nil {
		out.Outline = []geometry.Point[geometry.Presentation]{}
	}
	if r.Label != expression.Undetermined {
		left, right, center := r.Left, r.Right, r.Center
		out.Left, out.Right, out.Center = &left, &right, &center
	}
	return out
}

// GestureResult is the published form of a gesture classification.
// Matches lists every rule that applied, in rule order.
type GestureResult struct {
	Label   string   `json:"label"`
	Symbol  string   `json:"symbol"`
	Matches []string `json:"matches"`
}

// NewGestureResult converts the folded label and the raw matches.
func NewGestureResult(label gesture.Label, matches []gesture.Label) GestureResult {
	out := GestureResult{
		Label:   label.String(),
		Symbol:  label.Symbol(),
		Matches: make([]string, len(matches)),
	}
	for i, m := range matches {
		out.Matches[i] = m.String()
	}
	return out
}

// HandResult is the gesture of one detected hand.
type HandResult struct {
	GestureResult
	Handedness string  `json:"handedness"`
	Score      float64 `json:"score"`
}

// Result is what the pipeline publishes for one processed frame.
type Result struct {
	FrameID    uuid.UUID        `json:"frame_id"`
	Timestamp  time.Time        `json:"timestamp"`
	Expression ExpressionResult `json:"expression"`
	Gesture    GestureResult    `json:"gesture"`
	Hands      []HandResult     `json:"hands"`
	Humans     []detector.Human `json:"humans"`
}

// Classify runs both classifiers over one detection. The frame expression
// comes from the first face; the frame gesture is the first hand that
// matched anything. People are passed through as detected.
func Classify(c *gesture.Classifier, det *detector.Detection) Result {
	res := Result{
		FrameID:    uuid.New(),
		Timestamp:  time.Now(),
		Expression: NewExpressionResult(expression.Classify(nil, geometry.UnitBox)),
		Gesture:    NewGestureResult(gesture.None, nil),
		Hands:      []HandResult{},
		Humans:     []detector.Human{},
	}
	if det == nil {
		return res
	}
	res.Humans = append(res.Humans, det.Humans...)

	if len(det.Faces) > 0 {
		res.Expression = NewExpressionResult(expression.ClassifyFace(det.Faces[0]))
	}

	found := false
	for i := range det.Hands {
		h := &det.Hands[i]
		js := h.Joints()
		label := c.Classify(js)
		hr := HandResult{
			GestureResult: NewGestureResult(label, c.Matches(js)),
			Handedness:    h.Handedness,
			Score:         h.Score,
		}
		res.Hands = append(res.Hands, hr)
		if !found && label != gesture.None {
			res.Gesture = hr.GestureResult
			found = true
		}
	}
	return res
}
