package server

import (
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"time"

	"golang.org/x/image/math/f64"

	"github.com/ayusman/hastaview/internal/app"
	"github.com/ayusman/hastaview/internal/logger"
	"github.com/ayusman/hastaview/internal/transform"
)

type viewResponse struct {
	Scale        float64 `json:"scale"`
	Angle        float64 `json:"angle"`
	TranslationX float64 `json:"translation_x"`
	TranslationY float64 `json:"translation_y"`
}

type stateResponse struct {
	Frame     int          `json:"frame"`
	Mode      string       `json:"mode"`
	Hands     int          `json:"hands"`
	Raw       viewResponse `json:"raw"`
	View      viewResponse `json:"view"`
	Matrix    [6]float64   `json:"matrix"`
	Focus     *[2]float64  `json:"focus,omitempty"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	UpdatedAt string       `json:"updated_at"`
}

func toViewResponse(v transform.View) viewResponse {
	return viewResponse{
		Scale:        v.Scale,
		Angle:        v.Angle,
		TranslationX: v.Translation.X,
		TranslationY: v.Translation.Y,
	}
}

// focus returns the image point shown at the center of the view, or nil when
// the matrix cannot be inverted.
func focus(m f64.Aff3, size image.Point) *[2]float64 {
	inv, ok := transform.Invert(m)
	if !ok {
		return nil
	}
	p := transform.Apply(inv, transform.Center(size))
	return &[2]float64{p.X, p.Y}
}

func toStateResponse(snap app.Snapshot) stateResponse {
	return stateResponse{
		Frame:     snap.Frame,
		Mode:      snap.Mode.String(),
		Hands:     snap.Hands.Len(),
		Raw:       toViewResponse(snap.Raw),
		View:      toViewResponse(snap.View),
		Matrix:    snap.Matrix,
		Focus:     focus(snap.Matrix, snap.ImageSize),
		Width:     snap.ImageSize.X,
		Height:    snap.ImageSize.Y,
		UpdatedAt: snap.At.Format(time.RFC3339Nano),
	}
}

// handleState handles GET /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toStateResponse(s.config.Viewer.Snapshot())); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// renderView warps the viewed image with the matrix of snap.
func (s *Server) renderView(snap app.Snapshot) *image.RGBA {
	return s.renderer.Warp(s.config.Viewer.Picture(), snap.Matrix, snap.ImageSize)
}

// handleViewPNG handles GET /api/view.png with the current view rendered in
// software.
func (s *Server) handleViewPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	img := s.renderView(s.config.Viewer.Snapshot())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := png.Encode(w, img); err != nil {
		s.log.Warn(r.Context(), "encoding view snapshot", logger.Error(err))
	}
}
