package detector

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// ErrScriptExhausted is returned by ScriptDetector after the last frame.
var ErrScriptExhausted = errors.New("landmark script exhausted")

// Script is a recorded sequence of landmark frames.
//
// On disk it is JSON:
//
//	{"width":640,"height":480,"frames":[{"hands":[{"pose":{"palm":[320,400],"pinch":40}}]}]}
//
// A hand is either a pose (a synthetic open hand, see HandAt) or an explicit
// list of 21 [x,y] points.
type Script struct {
	Width  int
	Height int
	Frames []Frame
}

type scriptFile struct {
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Frames []scriptFrame `json:"frames"`
}

type scriptFrame struct {
	Hands []scriptHand `json:"hands"`
}

type scriptHand struct {
	Points [][2]int    `json:"points,omitempty"`
	Pose   *scriptPose `json:"pose,omitempty"`
}

type scriptPose struct {
	Palm  [2]int  `json:"palm"`
	Pinch float64 `json:"pinch"`
}

// ReadScript decodes a landmark script.
func ReadScript(r io.Reader) (*Script, error) {
	var sf scriptFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if sf.Width <= 0 || sf.Height <= 0 {
		return nil, fmt.Errorf("script frame size must be positive, got %dx%d", sf.Width, sf.Height)
	}

	s := &Script{Width: sf.Width, Height: sf.Height}
	for i, fr := range sf.Frames {
		f := Frame{Width: sf.Width, Height: sf.Height}
		for j, h := range fr.Hands {
			hand, err := h.toHand(sf.Width, sf.Height)
			if err != nil {
				return nil, fmt.Errorf("frame %d hand %d: %w", i, j, err)
			}
			f.Hands = append(f.Hands, hand)
		}
		s.Frames = append(s.Frames, f)
	}

	return s, nil
}

// LoadScript reads a landmark script from a file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	return ReadScript(f)
}

func (h scriptHand) toHand(width, height int) (Hand, error) {
	switch {
	case h.Pose != nil:
		hand := HandAt(image.Pt(h.Pose.Palm[0], h.Pose.Palm[1]), h.Pose.Pinch)
		for i := range hand.Landmarks {
			hand.Landmarks[i].X = clampInt(hand.Landmarks[i].X, width)
			hand.Landmarks[i].Y = clampInt(hand.Landmarks[i].Y, height)
		}
		return hand, nil
	case len(h.Points) == NumLandmarks:
		var points [NumLandmarks]image.Point
		for i, p := range h.Points {
			points[i] = image.Pt(clampInt(p[0], width), clampInt(p[1], height))
		}
		return NewHand(points), nil
	default:
		return Hand{}, fmt.Errorf("hand needs a pose or %d points, got %d points", NumLandmarks, len(h.Points))
	}
}

// ScriptDetector replays a Script, one frame per Detect call.
type ScriptDetector struct {
	script *Script
	next   int
	mu     sync.Mutex
}

// NewScriptDetector creates a detector that replays s.
func NewScriptDetector(s *Script) *ScriptDetector {
	return &ScriptDetector{script: s}
}

// Detect returns the next recorded frame, or ErrScriptExhausted.
func (d *ScriptDetector) Detect(_ *gocv.Mat) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.next >= len(d.script.Frames) {
		return Frame{}, ErrScriptExhausted
	}
	f := d.script.Frames[d.next]
	d.next++
	return f, nil
}

// Close is a no-op.
func (d *ScriptDetector) Close() error {
	return nil
}
