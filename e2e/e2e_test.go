package e2e

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gocv.io/x/gocv"
	"golang.org/x/image/math/f64"

	"github.com/ayusman/hastaview/internal/app"
	"github.com/ayusman/hastaview/internal/capture"
	"github.com/ayusman/hastaview/internal/config"
	"github.com/ayusman/hastaview/internal/detector"
	"github.com/ayusman/hastaview/internal/metrics"
	"github.com/ayusman/hastaview/internal/render"
	"github.com/ayusman/hastaview/internal/server"
	"github.com/ayusman/hastaview/internal/store"
)

// headless replaces the HighGUI windows.
type headless struct {
	shown int
}

func (h *headless) Warp(src gocv.Mat, m f64.Aff3) gocv.Mat { return render.WarpMat(src, m) }
func (h *headless) Show(string, gocv.Mat)                  { h.shown++ }
func (h *headless) PollKey() int                           { return render.KeyNone }
func (h *headless) Close() error                           { return nil }

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func getJSON(t *testing.T, client *http.Client, url string, v any) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, http.StatusOK)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s decode error = %v", url, err)
	}
}

func TestE2E_ReplaySession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	scriptPath := filepath.Join("testdata", "session.json")

	cfg, err := config.Load(t.Context(), "",
		config.WithImage("photo.jpg"),
		config.WithReplay(scriptPath),
	)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	s, err := store.New(filepath.Join(tmpDir, "history.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	script, err := detector.LoadScript(cfg.Replay)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}

	img := gocv.NewMatWithSize(script.Height, script.Width, gocv.MatTypeCV8UC3)
	m := metrics.New()
	win := &headless{}

	viewer, err := app.New(app.Config{
		Params:    cfg.Gesture,
		ImagePath: cfg.Image,
		Source:    store.SourceReplay,
	}, img,
		capture.NewBlankCamera(script.Width, script.Height, 0),
		detector.NewScriptDetector(script),
		win,
		app.WithStore(s),
		app.WithMetrics(m),
	)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	srv := server.New(server.Config{
		Viewer:        viewer,
		Store:         s,
		Metrics:       m,
		Interpolation: cfg.Server.Interpolation,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	if err := viewer.Run(t.Context()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	t.Run("FinalTransform", func(t *testing.T) {
		snap := viewer.Snapshot()

		if snap.Frame != len(script.Frames) {
			t.Errorf("Frame = %d, want %d", snap.Frame, len(script.Frames))
		}
		if !near(snap.Raw.Scale, 1.25) {
			t.Errorf("scale = %f, want 1.25", snap.Raw.Scale)
		}
		if !near(snap.Raw.Translation.X, 280) || !near(snap.Raw.Translation.Y, 260) {
			t.Errorf("translation = %+v, want (280,260)", snap.Raw.Translation)
		}
		if !near(snap.Raw.Angle, -90) {
			t.Errorf("angle = %f, want -90", snap.Raw.Angle)
		}
		if win.shown != len(script.Frames) {
			t.Errorf("viewer shown %d times, want %d", win.shown, len(script.Frames))
		}
	})

	t.Run("StateEndpoint", func(t *testing.T) {
		var state struct {
			Frame int    `json:"frame"`
			Mode  string `json:"mode"`
			Raw   struct {
				Scale float64 `json:"scale"`
				Angle float64 `json:"angle"`
			} `json:"raw"`
		}
		getJSON(t, client, ts.URL+"/api/state", &state)

		if state.Frame != 10 || state.Mode != "none" {
			t.Errorf("state = %+v, want frame 10 mode none", state)
		}
		if !near(state.Raw.Scale, 1.25) || !near(state.Raw.Angle, -90) {
			t.Errorf("raw = %+v", state.Raw)
		}
	})

	t.Run("ViewSnapshot", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/view.png")
		if err != nil {
			t.Fatalf("GET /api/view.png error = %v", err)
		}
		defer resp.Body.Close()

		out, err := png.Decode(resp.Body)
		if err != nil {
			t.Fatalf("decode png: %v", err)
		}
		if out.Bounds().Size() != image.Pt(640, 480) {
			t.Errorf("snapshot size = %v, want 640x480", out.Bounds().Size())
		}
	})

	t.Run("SessionHistory", func(t *testing.T) {
		var list struct {
			Sessions []struct {
				ID     string  `json:"id"`
				Source string  `json:"source"`
				Active bool    `json:"active"`
				Frames int     `json:"frames"`
				Scale  float64 `json:"scale"`
				Angle  float64 `json:"angle"`
			} `json:"sessions"`
		}
		getJSON(t, client, ts.URL+"/api/sessions", &list)

		if len(list.Sessions) != 1 {
			t.Fatalf("expected 1 session, got %d", len(list.Sessions))
		}
		sess := list.Sessions[0]
		if sess.Source != "replay" || sess.Active || sess.Frames != 10 {
			t.Errorf("session = %+v", sess)
		}
		if !near(sess.Scale, 1.25) || !near(sess.Angle, -90) {
			t.Errorf("final transform = scale %f angle %f", sess.Scale, sess.Angle)
		}

		var detail struct {
			Transitions []struct {
				Frame int    `json:"frame"`
				From  string `json:"from"`
				To    string `json:"to"`
			} `json:"transitions"`
		}
		getJSON(t, client, ts.URL+"/api/sessions/"+sess.ID, &detail)

		want := []string{
			"1:none>one_hand",
			"5:one_hand>none",
			"6:none>one_hand",
			"8:one_hand>two_hands",
			"10:two_hands>none",
		}
		var got []string
		for _, tr := range detail.Transitions {
			got = append(got, fmt.Sprintf("%d:%s>%s", tr.Frame, tr.From, tr.To))
		}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("transitions = %v, want %v", got, want)
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET /metrics error = %v", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		for _, line := range []string{
			"hastaview_frames_total 10",
			"hastaview_mode_transitions_total 5",
			`hastaview_mode_frames_total{mode="two_hands"} 2`,
		} {
			if !strings.Contains(string(body), line) {
				t.Errorf("metrics missing %q", line)
			}
		}
	})
}
