// Package capture reads frames for the recognition pipeline.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/log"
)

// Defaults for a device camera.
const (
	DefaultFPS         = 15
	DefaultWidth       = 640
	DefaultHeight      = 480
	DefaultReopenAfter = 30
)

var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrNoFrame is returned when the device delivered nothing usable.
	ErrNoFrame = errors.New("no frame available")
)

// Camera is a frame source for the pipeline.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller closes it.
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// Options configures a Device.
type Options struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int

	// ReopenAfter is how many empty reads in a row make the device get
	// reopened. Zero never reopens.
	ReopenAfter int
}

// DefaultOptions returns the options for device id at 640x480.
func DefaultOptions(id int) Options {
	return Options{
		DeviceID:    id,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		FPS:         DefaultFPS,
		ReopenAfter: DefaultReopenAfter,
	}
}

// withDefaults fills zero sizes and rates.
func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	return o
}

// Device captures from a local video device through OpenCV.
type Device struct {
	mu      sync.Mutex
	opts    Options
	capture *gocv.VideoCapture
	empty   int
}

// NewDevice creates a closed Device.
func NewDevice(opts Options) *Device {
	return &Device{opts: opts.withDefaults()}
}

// Open starts capturing. Opening an open device does nothing.
func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture != nil {
		return nil
	}
	return d.open()
}

func (d *Device) open() error {
	vc, err := gocv.OpenVideoCapture(d.opts.DeviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", d.opts.DeviceID, err)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(d.opts.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(d.opts.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(d.opts.FPS))

	d.capture = vc
	d.empty = 0

	// Devices round the requested size to a mode they support.
	log.Info(log.Fields{
		"device": d.opts.DeviceID,
		"width":  int(vc.Get(gocv.VideoCaptureFrameWidth)),
		"height": int(vc.Get(gocv.VideoCaptureFrameHeight)),
		"fps":    d.opts.FPS,
	}, "camera opened")
	return nil
}

// Close releases the device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.close()
}

func (d *Device) close() error {
	if d.capture == nil {
		return nil
	}
	err := d.capture.Close()
	d.capture = nil
	log.Info(log.Fields{"device": d.opts.DeviceID}, "camera closed")
	return err
}

// ReadFrame grabs the next frame. After ReopenAfter empty reads in a row the
// device is closed and opened again, which recovers most USB cameras that
// stalled or were replugged.
func (d *Device) ReadFrame() (*gocv.Mat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := d.capture.Read(&mat); ok && !mat.Empty() {
		d.empty = 0
		return &mat, nil
	}
	mat.Close()

	if d.stalled() {
		log.Warn(log.Fields{"device": d.opts.DeviceID, "empty_reads": d.opts.ReopenAfter}, "camera stalled, reopening")
		_ = d.close()
		if err := d.open(); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("camera %d: %w", d.opts.DeviceID, ErrNoFrame)
}

// stalled counts one empty read and reports whether the device should be
// reopened.
func (d *Device) stalled() bool {
	d.empty++
	if d.opts.ReopenAfter <= 0 || d.empty < d.opts.ReopenAfter {
		return false
	}
	d.empty = 0
	return true
}

// SetFPS changes the capture rate. Non-positive values are ignored.
func (d *Device) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.opts.FPS = fps
	if d.capture != nil {
		d.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the requested capture rate.
func (d *Device) FPS() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts.FPS
}

// IsOpen reports whether the device is capturing.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.capture != nil
}
