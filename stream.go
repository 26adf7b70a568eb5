package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

// CellChange is one cell whose tag moved since the previous frame
type CellChange struct {
	Row   int       `json:"row"`
	Col   int       `json:"col"`
	State CellState `json:"state"`
}

// StreamFrame is what the server sends over the socket. Type is "step",
// "result" or "error".
type StreamFrame struct {
	Type    string       `json:"type"`
	Step    int          `json:"step,omitempty"`
	Cells   []CellChange `json:"cells,omitempty"`
	Result  *Result      `json:"result,omitempty"`
	Summary *PathSummary `json:"summary,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// clientMessage is what the client may send; only {"type":"stop"} is understood
type clientMessage struct {
	Type string `json:"type"`
}

// frameDiffer tracks the last states sent so each frame carries only
// changes. The first diff carries the whole board.
type frameDiffer struct {
	last []CellState
}

func newFrameDiffer(g *Grid) *frameDiffer {
	last := make([]CellState, g.Len())
	for i := range last {
		last[i] = -1
	}
	return &frameDiffer{last: last}
}

func (d *frameDiffer) diff(g *Grid) []CellChange {
	var changes []CellChange
	for idx := range d.last {
		state := g.At(idx).State()
		if state == d.last[idx] {
			continue
		}
		d.last[idx] = state
		pos := g.PositionOf(idx)
		changes = append(changes, CellChange{Row: pos.Row, Col: pos.Col, State: state})
	}
	return changes
}

// GET /sessions/{id}/stream - Run the search and stream every step over a WebSocket
func (srv *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	session, err := srv.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	ws, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("❌ WebSocket upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	logger.Infof("📡 Streaming search for session %s", session.ID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The read pump only watches for stop requests and disconnects
	ws.SetReadLimit(maxMessageSize)
	go func() {
		defer cancel()
		for {
			_, message, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debugf("WebSocket read error: %v", err)
				}
				return
			}
			var msg clientMessage
			if err := json.Unmarshal(message, &msg); err != nil {
				logger.Debugf("Ignoring malformed client message: %v", err)
				continue
			}
			if msg.Type == "stop" {
				logger.Infof("🛑 Stop requested for session %s", session.ID)
				return
			}
		}
	}()

	var differ *frameDiffer
	step := 0
	delay := srv.cfg.Search.StepDelay
	onStep := func(g *Grid) {
		if ctx.Err() != nil {
			return
		}
		if differ == nil {
			differ = newFrameDiffer(g)
		}
		step++
		frame := StreamFrame{Type: "step", Step: step, Cells: differ.diff(g)}
		if err := writeFrame(ws, frame); err != nil {
			logger.Debugf("WebSocket write error: %v", err)
			cancel()
			return
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}

	result, err := session.Search(ctx, onStep)
	if err != nil {
		logger.Warnf("❌ Search rejected for session %s: %v", session.ID, err)
		_ = writeFrame(ws, StreamFrame{Type: "error", Error: err.Error()})
		return
	}
	logSearchResult(session.ID, result)

	// the result frame carries the endpoint tags restored after the last step
	final := StreamFrame{Type: "result", Result: &result}
	if differ != nil {
		_ = session.WithGrid(func(g *Grid) { final.Cells = differ.diff(g) })
	}
	if result.Outcome == OutcomeFound {
		summary := SummarizePath(result.Path)
		final.Summary = &summary
	}
	if err := writeFrame(ws, final); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		logger.Debugf("WebSocket write error: %v", err)
		return
	}
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, result.Outcome.String()),
		time.Now().Add(writeWait))
}

func writeFrame(ws *websocket.Conn, frame StreamFrame) error {
	ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteJSON(frame)
}
