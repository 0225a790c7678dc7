package server

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"net/http"
	"time"

	"github.com/ayusman/hastaview/internal/render"
)

// StreamHandler serves the rendered view as MJPEG.
type StreamHandler struct {
	viewer   Viewer
	renderer *render.Software
	quality  int
	interval time.Duration
}

// NewStreamHandler creates a StreamHandler emitting at most fps frames per
// second.
func NewStreamHandler(v Viewer, r *render.Software, quality, fps int) *StreamHandler {
	if fps <= 0 {
		fps = DefaultStreamFPS
	}
	return &StreamHandler{
		viewer:   v,
		renderer: r,
		quality:  quality,
		interval: time.Second / time.Duration(fps),
	}
}

// ServeHTTP streams MJPEG frames until the client goes away. A frame is only
// re-encoded when the loop has published a newer snapshot.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var buf bytes.Buffer
	lastFrame := -1

	for {
		snap := h.viewer.Snapshot()
		if snap.Frame != lastFrame {
			lastFrame = snap.Frame

			buf.Reset()
			img := h.renderer.Warp(h.viewer.Picture(), snap.Matrix, snap.ImageSize)
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: h.quality}); err != nil {
				return
			}

			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
			if _, err := w.Write(buf.Bytes()); err != nil {
				return
			}
			fmt.Fprintf(w, "\r\n")

			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
