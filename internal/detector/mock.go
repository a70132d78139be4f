package detector

import (
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/geometry"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	det   Detection
	err   error
	delay time.Duration
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.det.Hands = hands
}

// SetFaces sets the faces that will be returned by Detect.
func (m *MockDetector) SetFaces(faces []face.Landmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.det.Faces = faces
}

// SetHumans sets the people that will be returned by Detect.
func (m *MockDetector) SetHumans(humans []Human) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.det.Humans = humans
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes every Detect call block for d before returning.
func (m *MockDetector) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured detection or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Detection, error) {
	m.mu.Lock()
	m.calls++
	det, err, delay := m.det, m.err, m.delay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return &det, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

func fullHand(points [NumLandmarks]Keypoint) HandLandmarks {
	h := HandLandmarks{Points: points, Handedness: "Right", Score: 0.95}
	for i := range h.Detected {
		h.Detected[i] = true
		h.Points[i].Confidence = 0.95
	}
	return h
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	var p [NumLandmarks]Keypoint

	p[Wrist] = Keypoint{X: 0.5, Y: 0.8}

	// Thumb extended upward (Y decreases going up)
	p[ThumbCMC] = Keypoint{X: 0.55, Y: 0.75}
	p[ThumbMCP] = Keypoint{X: 0.58, Y: 0.65}
	p[ThumbIP] = Keypoint{X: 0.58, Y: 0.50}
	p[ThumbTip] = Keypoint{X: 0.58, Y: 0.35}

	// Index finger curled, tip tucked lowest
	p[IndexMCP] = Keypoint{X: 0.55, Y: 0.70, Z: -0.02}
	p[IndexPIP] = Keypoint{X: 0.55, Y: 0.68, Z: -0.05}
	p[IndexDIP] = Keypoint{X: 0.52, Y: 0.70, Z: -0.04}
	p[IndexTip] = Keypoint{X: 0.50, Y: 0.72, Z: -0.02}

	p[MiddleMCP] = Keypoint{X: 0.50, Y: 0.68, Z: -0.02}
	p[MiddlePIP] = Keypoint{X: 0.50, Y: 0.66, Z: -0.05}
	p[MiddleDIP] = Keypoint{X: 0.47, Y: 0.68, Z: -0.04}
	p[MiddleTip] = Keypoint{X: 0.45, Y: 0.70, Z: -0.02}

	p[RingMCP] = Keypoint{X: 0.45, Y: 0.70, Z: -0.02}
	p[RingPIP] = Keypoint{X: 0.45, Y: 0.68, Z: -0.05}
	p[RingDIP] = Keypoint{X: 0.42, Y: 0.70, Z: -0.04}
	p[RingTip] = Keypoint{X: 0.40, Y: 0.72, Z: -0.02}

	p[PinkyMCP] = Keypoint{X: 0.40, Y: 0.72, Z: -0.02}
	p[PinkyPIP] = Keypoint{X: 0.40, Y: 0.70, Z: -0.05}
	p[PinkyDIP] = Keypoint{X: 0.37, Y: 0.71, Z: -0.04}
	p[PinkyTip] = Keypoint{X: 0.35, Y: 0.70, Z: -0.02}

	return fullHand(p)
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm.
// All fingers are extended; none of the built-in gestures match it.
func OpenPalmLandmarks() HandLandmarks {
	var p [NumLandmarks]Keypoint

	p[Wrist] = Keypoint{X: 0.5, Y: 0.8}

	p[ThumbCMC] = Keypoint{X: 0.55, Y: 0.75, Z: 0.02}
	p[ThumbMCP] = Keypoint{X: 0.62, Y: 0.70, Z: 0.03}
	p[ThumbIP] = Keypoint{X: 0.68, Y: 0.65, Z: 0.03}
	p[ThumbTip] = Keypoint{X: 0.73, Y: 0.60, Z: 0.03}

	p[IndexMCP] = Keypoint{X: 0.55, Y: 0.68}
	p[IndexPIP] = Keypoint{X: 0.57, Y: 0.55}
	p[IndexDIP] = Keypoint{X: 0.58, Y: 0.45}
	p[IndexTip] = Keypoint{X: 0.58, Y: 0.35}

	p[MiddleMCP] = Keypoint{X: 0.50, Y: 0.66}
	p[MiddlePIP] = Keypoint{X: 0.50, Y: 0.52}
	p[MiddleDIP] = Keypoint{X: 0.50, Y: 0.40}
	p[MiddleTip] = Keypoint{X: 0.50, Y: 0.28}

	p[RingMCP] = Keypoint{X: 0.45, Y: 0.68}
	p[RingPIP] = Keypoint{X: 0.43, Y: 0.55}
	p[RingDIP] = Keypoint{X: 0.42, Y: 0.45}
	p[RingTip] = Keypoint{X: 0.42, Y: 0.35}

	p[PinkyMCP] = Keypoint{X: 0.40, Y: 0.70}
	p[PinkyPIP] = Keypoint{X: 0.37, Y: 0.60}
	p[PinkyDIP] = Keypoint{X: 0.35, Y: 0.50}
	p[PinkyTip] = Keypoint{X: 0.34, Y: 0.42}

	return fullHand(p)
}

// SmilingFace returns a preset face whose outer lips curve upwards at the
// corners.
func SmilingFace() face.Landmarks {
	return face.Landmarks{
		Box: geometry.Box{X: 0.3, Y: 0.2, Width: 0.4, Height: 0.5},
		Regions: map[face.Region][]geometry.Point[geometry.Normalized]{
			face.OuterLips: {
				{X: 0.0, Y: 0.4},
				{X: 0.25, Y: 0.45},
				{X: 0.5, Y: 0.5},
				{X: 0.75, Y: 0.45},
				{X: 1.0, Y: 0.4},
				{X: 0.75, Y: 0.65},
				{X: 0.5, Y: 0.7},
				{X: 0.25, Y: 0.65},
			},
			face.Nose: {{X: 0.5, Y: 0.3}, {X: 0.45, Y: 0.4}, {X: 0.55, Y: 0.4}},
		},
	}
}
