package detector

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// idleShutdown is how long the service may sit unused before it is stopped.
const idleShutdown = 30 * time.Second

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
type MediaPipeDetector struct {
	config    Config
	script    string
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := findMediaPipeScript()
	if script == "" {
		return nil, fmt.Errorf("mediapipe_service.py not found")
	}

	return &MediaPipeDetector{
		config: config,
		script: script,
	}, nil
}

// Detect sends the frame to the service and decodes its landmarks.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) (*Detection, error) {
	if frame == nil || frame.Empty() {
		return &Detection{}, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	if err := writeFrame(d.stdin, buf.GetBytes()); err != nil {
		return nil, err
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	det, err := decodeResponse(line, d.config)
	if err != nil {
		return nil, err
	}

	d.resetIdleTimer()
	return det, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

// writeFrame writes a 4-byte big-endian length followed by the JPEG bytes.
func writeFrame(w io.Writer, data []byte) error {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))

	if _, err := w.Write(length[:]); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := []string{d.script, fmt.Sprintf("--max-hands=%d", d.config.MaxHands)}
	if d.config.Faces {
		args = append(args, "--faces")
	}
	if d.config.Humans {
		args = append(args, "--humans")
	}
	d.cmd = exec.Command(pythonPath, args...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	log.Info(log.Fields{"python": pythonPath, "script": d.script}, "mediapipe service started")
	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	log.Info(nil, "mediapipe service stopped")
	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.shutdown(); err != nil {
			log.Warn(log.Fields{"error": err}, "mediapipe service exited with error")
		}
	})
}

func findMediaPipeScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	return firstExisting(
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
		filepath.Join(execDir, "scripts/mediapipe_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/mediapipe_service.py"),
	)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	return firstExisting(
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	)
}

func firstExisting(candidates ...string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

// Wire types of the service's JSON response.
type jsonResponse struct {
	Hands  []jsonHand `json:"hands"`
	Faces  []jsonFace `json:"faces"`
	Humans []Human    `json:"humans"`
}

type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Confidence *float64 `json:"confidence"`
}

type jsonFace struct {
	Box     geometry.Box                                     `json:"box"`
	Regions map[string][]geometry.Point[geometry.Normalized] `json:"regions"`
}

// decodeResponse parses one response line. Hands and people below the
// configured confidence are dropped, unknown face regions are ignored.
func decodeResponse(line []byte, cfg Config) (*Detection, error) {
	var resp jsonResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	det := &Detection{}
	for _, h := range resp.Hands {
		if h.Score < cfg.MinConfidence {
			continue
		}
		if cfg.MaxHands > 0 && len(det.Hands) == cfg.MaxHands {
			break
		}
		det.Hands = append(det.Hands, h.toHandLandmarks())
	}

	for _, f := range resp.Faces {
		lm := face.Landmarks{
			Box:     f.Box,
			Regions: make(map[face.Region][]geometry.Point[geometry.Normalized], len(f.Regions)),
		}
		for name, points := range f.Regions {
			if r, ok := face.ParseRegion(name); ok {
				lm.Regions[r] = points
			}
		}
		det.Faces = append(det.Faces, lm)
	}

	for _, h := range resp.Humans {
		if h.Confidence < cfg.MinConfidence {
			continue
		}
		det.Humans = append(det.Humans, h)
	}

	return det, nil
}

// toHandLandmarks copies the reported points. A point without its own
// confidence inherits the hand score.
func (h jsonHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		p := h.Points[i]
		conf := h.Score
		if p.Confidence != nil {
			conf = *p.Confidence
		}
		lm.Points[i] = Keypoint{X: p.X, Y: p.Y, Z: p.Z, Confidence: conf}
		lm.Detected[i] = true
	}

	return lm
}
