package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

const serviceScript = "scripts/hand_service.py"

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
//
// Protocol: for every frame the detector writes a 4-byte big-endian length
// followed by a JPEG, and reads back one JSON line of the form
// {"hands":[{"points":[{"x":..,"y":..,"z":..}],"handedness":"Left","score":0.9}]}
// with coordinates normalized to [0,1].
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	mu         sync.Mutex
	started    bool
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	scriptPath := findServiceScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("%s not found", filepath.Base(serviceScript))
	}

	return &MediaPipeDetector{
		config:     config,
		scriptPath: scriptPath,
	}, nil
}

// Detect analyzes a frame and returns detected hands in pixel coordinates.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame == nil || frame.Empty() {
		return Frame{}, nil
	}

	if err := d.ensureStarted(); err != nil {
		return Frame{}, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return Frame{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return Frame{}, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return Frame{}, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return Frame{}, fmt.Errorf("read response: %w", err)
	}

	return decodeResponse([]byte(line), frame.Cols(), frame.Rows(), d.config.MaxHands)
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, append([]string{d.scriptPath}, d.args()...)...)

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

	return nil
}

// args renders the detector config as command-line flags for the service.
func (d *MediaPipeDetector) args() []string {
	args := []string{
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	}
	if d.config.StaticImageMode {
		args = append(args, "--static-image-mode")
	}
	return args
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func findServiceScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		serviceScript,
		filepath.Join("..", serviceScript),
		filepath.Join(execDir, serviceScript),
		filepath.Join(os.Getenv("HOME"), ".hastaview", serviceScript),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".hastaview/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (h jsonHand) toHand(width, height int) Hand {
	xs := make([]float64, len(h.Points))
	ys := make([]float64, len(h.Points))
	for i, p := range h.Points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	hand := FromNormalized(xs, ys, width, height)
	hand.Handedness = h.Handedness
	hand.Score = h.Score
	return hand
}

// decodeResponse adapts one service response line to a Frame; at most
// maxHands are kept. A hand with an incomplete landmark set makes the whole
// frame malformed, and it is returned without hands.
func decodeResponse(line []byte, width, height, maxHands int) (Frame, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return Frame{}, fmt.Errorf("parse response: %w", err)
	}

	f := Frame{Width: width, Height: height}
	for _, h := range response.Hands {
		if len(h.Points) < NumLandmarks {
			return Frame{Width: width, Height: height}, nil
		}
	}
	for _, h := range response.Hands {
		if maxHands > 0 && len(f.Hands) >= maxHands {
			break
		}
		f.Hands = append(f.Hands, h.toHand(width, height))
	}

	return f, nil
}
