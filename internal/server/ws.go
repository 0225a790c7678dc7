package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/hastaview/internal/app"
	"github.com/ayusman/hastaview/internal/logger"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LandmarksHandler pushes the landmarks of every processed frame over a
// websocket.
type LandmarksHandler struct {
	viewer Viewer
	log    logger.Logger
}

// NewLandmarksHandler creates a LandmarksHandler reading from v.
func NewLandmarksHandler(v Viewer, log logger.Logger) *LandmarksHandler {
	return &LandmarksHandler{viewer: v, log: log}
}

type handMessage struct {
	Handedness string   `json:"handedness,omitempty"`
	Score      float64  `json:"score"`
	Points     [][2]int `json:"points"`
}

type landmarksMessage struct {
	Frame     int           `json:"frame"`
	Mode      string        `json:"mode"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Hands     []handMessage `json:"hands"`
	Timestamp int64         `json:"timestamp"`
}

func toLandmarksMessage(snap app.Snapshot) landmarksMessage {
	msg := landmarksMessage{
		Frame:     snap.Frame,
		Mode:      snap.Mode.String(),
		Width:     snap.Hands.Width,
		Height:    snap.Hands.Height,
		Hands:     make([]handMessage, 0, snap.Hands.Len()),
		Timestamp: snap.At.UnixMilli(),
	}
	for _, h := range snap.Hands.Hands {
		hm := handMessage{
			Handedness: h.Handedness,
			Score:      h.Score,
			Points:     make([][2]int, len(h.Landmarks)),
		}
		for i, lm := range h.Landmarks {
			hm.Points[i] = [2]int{lm.X, lm.Y}
		}
		msg.Hands = append(msg.Hands, hm)
	}
	return msg
}

// ServeHTTP upgrades the connection, sends the current snapshot and then one
// message per published frame until either side closes.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	snaps, cancel := h.viewer.Subscribe()
	defer cancel()

	// Reading detects the client closing the connection.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(snap app.Snapshot) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(toLandmarksMessage(snap)) == nil
	}

	if !send(h.viewer.Snapshot()) {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case snap, ok := <-snaps:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "viewer stopped"),
					time.Now().Add(writeWait))
				return
			}
			if !send(snap) {
				return
			}
		}
	}
}
