// Package app runs the frame pipeline: capture, detect, classify, publish.
package app

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/log"
)

// subscriberBuffer is how many results a subscriber may fall behind before
// it starts losing them.
const subscriberBuffer = 8

// Config holds configuration options for the application.
type Config struct {
	// Camera configures the device opened by New. FPS overrides its rate.
	Camera     capture.Options
	FPS        int
	Thresholds gesture.Thresholds
	Detector   detector.Config
}

// Stats counts what the pipeline did with the frames it read.
type Stats struct {
	Processed int64 `json:"processed"`
	Dropped   int64 `json:"dropped"`
	Failed    int64 `json:"failed"`
}

// App owns the camera, the detector and the classifiers and fans results
// out to subscribers.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	classifier *gesture.Classifier
	busy       *semaphore.Weighted

	enabled atomic.Bool
	mu      sync.RWMutex

	subMu sync.Mutex
	subs  map[chan Result]struct{}

	last    Result
	hasLast bool
	preview []byte

	processed atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// New creates a new App with the given configuration. It uses the MediaPipe
// detector when the service script can be found and the mock detector
// otherwise.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = capture.DefaultFPS
	}
	config.Camera.FPS = config.FPS

	a := &App{
		config:     config,
		camera:     capture.NewDevice(config.Camera),
		classifier: gesture.NewDefaultClassifier(config.Thresholds),
		busy:       semaphore.NewWeighted(1),
		subs:       make(map[chan Result]struct{}),
	}
	a.enabled.Store(true)

	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Info(nil, "using MediaPipe landmark detection")
	} else {
		log.Warn(log.Fields{"error": err}, "MediaPipe not available, using mock detector")
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables classification. While disabled the
// pipeline keeps ticking but does not read the camera.
func (a *App) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
	log.Info(log.Fields{"enabled": enabled}, "detection toggled")
}

// IsEnabled returns whether classification is currently enabled.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// SetDetector sets the landmark detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SetCamera replaces the camera. It must be called before Run.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Classifier returns the gesture classifier the pipeline uses.
func (a *App) Classifier() *gesture.Classifier {
	return a.classifier
}

// Subscribe registers a new result listener. The returned function removes
// it and closes the channel.
func (a *App) Subscribe() (<-chan Result, func()) {
	ch := make(chan Result, subscriberBuffer)

	a.subMu.Lock()
	a.subs[ch] = struct{}{}
	a.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.subMu.Lock()
			delete(a.subs, ch)
			a.subMu.Unlock()
			close(ch)
		})
	}
}

// Last returns the most recently published result.
func (a *App) Last() (Result, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last, a.hasLast
}

// Preview returns the JPEG of the last processed frame with the detected
// landmarks drawn on it, or nil before the first frame.
func (a *App) Preview() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.preview
}

// Stats returns the frame counters.
func (a *App) Stats() Stats {
	return Stats{
		Processed: a.processed.Load(),
		Dropped:   a.dropped.Load(),
		Failed:    a.failed.Load(),
	}
}

// publish records res as the latest result and hands it to every
// subscriber that has room for it.
func (a *App) publish(res Result) {
	a.mu.Lock()
	a.last = res
	a.hasLast = true
	a.mu.Unlock()

	a.subMu.Lock()
	defer a.subMu.Unlock()
	for ch := range a.subs {
		select {
		case ch <- res:
		default:
			log.Debug(log.Fields{"frame_id": res.FrameID}, "subscriber behind, result dropped")
		}
	}
}
