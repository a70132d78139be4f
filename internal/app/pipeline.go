package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/log"
)

// Run opens the camera and processes frames until ctx is cancelled.
//
// Pipeline logic:
// 1. Read a frame every 1/FPS seconds
// 2. If a classification pass is still running, drop the frame
// 3. Otherwise detect landmarks and classify them in the background
// 4. Publish the result and refresh the preview
//
// On return the in-flight pass has finished and the camera and detector are
// closed.
func (a *App) Run(ctx context.Context) error {
	cam := a.Camera()
	if err := cam.Open(); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}
	cam.SetFPS(a.config.FPS)
	defer a.shutdown(cam)

	ticker := time.NewTicker(time.Second / time.Duration(a.config.FPS))
	defer ticker.Stop()

	log.Info(log.Fields{"fps": a.config.FPS}, "detection pipeline started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			a.tick(cam)
		}
	}
}

// tick reads one frame and starts a pass over it unless one is in flight.
func (a *App) tick(cam capture.Camera) {
	frame, err := cam.ReadFrame()
	if err != nil {
		a.failed.Add(1)
		log.Warn(log.Fields{"error": err}, "read frame")
		return
	}

	if !a.busy.TryAcquire(1) {
		frame.Close()
		a.dropped.Add(1)
		return
	}

	go func() {
		defer a.busy.Release(1)
		defer frame.Close()
		a.processFrame(frame)
	}()
}

func (a *App) processFrame(frame *gocv.Mat) {
	det, err := a.Detector().Detect(frame)
	if err != nil {
		a.failed.Add(1)
		log.Warn(log.Fields{"error": err}, "detect landmarks")
		return
	}

	res := Classify(a.classifier, det)

	if jpeg, err := renderPreview(frame, det, res); err != nil {
		log.Debug(log.Fields{"error": err}, "render preview")
	} else {
		a.mu.Lock()
		a.preview = jpeg
		a.mu.Unlock()
	}

	a.processed.Add(1)
	a.publish(res)
}

func (a *App) shutdown(cam capture.Camera) {
	// wait for the pass in flight
	if err := a.busy.Acquire(context.Background(), 1); err == nil {
		a.busy.Release(1)
	}

	if err := cam.Close(); err != nil {
		log.Warn(log.Fields{"error": err}, "close camera")
	}
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Warn(log.Fields{"error": err}, "close detector")
		}
	}

	st := a.Stats()
	log.Info(log.Fields{"processed": st.Processed, "dropped": st.Dropped, "failed": st.Failed}, "detection pipeline stopped")
}
