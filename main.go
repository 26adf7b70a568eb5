package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/paulmach/orb"
)

// Server wires the session store to the HTTP surface
type Server struct {
	cfg      *Config
	store    *SessionStore
	upgrader websocket.Upgrader
}

func NewServer(cfg *Config) *Server {
	return &Server{
		cfg:   cfg,
		store: NewSessionStore(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type CreateSessionRequest struct {
	Rows  int `json:"rows,omitempty"`
	Width int `json:"width,omitempty"`
}

// PaintRequest is either a click (x/y pixel or row/col) or a brush rectangle
type PaintRequest struct {
	Button string   `json:"button"` // "left" paints, "right" erases
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Row    *int     `json:"row,omitempty"`
	Col    *int     `json:"col,omitempty"`
	MinX   *float64 `json:"minX,omitempty"`
	MinY   *float64 `json:"minY,omitempty"`
	MaxX   *float64 `json:"maxX,omitempty"`
	MaxY   *float64 `json:"maxY,omitempty"`
}

type PaintResponse struct {
	Success bool       `json:"success"`
	Cells   []Position `json:"cells"`
	Board   Snapshot   `json:"board"`
}

type SearchResponse struct {
	Success bool         `json:"success"`
	Result  Result       `json:"result"`
	Summary *PathSummary `json:"summary,omitempty"`
	Message string       `json:"message,omitempty"`
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Routes returns the full HTTP surface
func (srv *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", srv.healthHandler)
	mux.HandleFunc("POST /sessions", srv.createSessionHandler)
	mux.HandleFunc("GET /sessions/{id}", srv.getSessionHandler)
	mux.HandleFunc("DELETE /sessions/{id}", srv.deleteSessionHandler)
	mux.HandleFunc("POST /sessions/{id}/paint", srv.paintHandler)
	mux.HandleFunc("POST /sessions/{id}/clear", srv.clearHandler)
	mux.HandleFunc("POST /sessions/{id}/search", srv.searchHandler)
	mux.HandleFunc("GET /sessions/{id}/stream", srv.streamHandler)
	mux.HandleFunc("GET /sessions/{id}/geojson", srv.geojsonHandler)
	mux.HandleFunc("GET /sessions/{id}/render", srv.renderHandler)
	return corsMiddleware(mux)
}

// GET /health - Health check endpoint
func (srv *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ready",
		"numSessions": srv.store.Len(),
	})
}

// POST /sessions - Create a new bordered board
func (srv *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warnf("❌ Invalid request body: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	if req.Rows == 0 {
		req.Rows = srv.cfg.Grid.Rows
	}
	if req.Width == 0 {
		req.Width = srv.cfg.Grid.Width
	}
	if req.Rows > srv.cfg.Grid.MaxRows {
		err := fmt.Errorf("%w: at most %d rows, got %d", ErrInvalidGrid, srv.cfg.Grid.MaxRows, req.Rows)
		logger.Warnf("❌ Could not create board: %v", err)
		writeError(w, err)
		return
	}

	session, err := srv.store.Create(req.Rows, req.Width)
	if err != nil {
		logger.Warnf("❌ Could not create board: %v", err)
		writeError(w, err)
		return
	}

	logger.Infof("🗺️  Board %s created (%dx%d, %dpx)", session.ID, req.Rows, req.Rows, req.Width)
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

// GET /sessions/{id} - Board snapshot
func (srv *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := srv.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// DELETE /sessions/{id}
func (srv *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !srv.store.Delete(id) {
		writeError(w, ErrSessionNotFound)
		return
	}
	logger.Infof("🗑️  Board %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// POST /sessions/{id}/paint - Mouse click or brush stroke
func (srv *Server) paintHandler(w http.ResponseWriter, r *http.Request) {
	session, err := srv.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req PaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warnf("❌ Invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cells, err := srv.applyPaint(session, req)
	if err != nil {
		logger.Debugf("Paint rejected on %s: %v", session.ID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PaintResponse{Success: true, Cells: cells, Board: session.Snapshot()})
}

func (srv *Server) applyPaint(session *Session, req PaintRequest) ([]Position, error) {
	erase := req.Button == "right"
	switch {
	case req.MinX != nil && req.MinY != nil && req.MaxX != nil && req.MaxY != nil:
		if erase {
			return nil, errBadPaint
		}
		return session.PaintRegion(orb.Bound{
			Min: orb.Point{*req.MinX, *req.MinY},
			Max: orb.Point{*req.MaxX, *req.MaxY},
		})

	case req.Row != nil && req.Col != nil:
		pos := Position{Row: *req.Row, Col: *req.Col}
		if erase {
			return []Position{pos}, session.Erase(pos)
		}
		return []Position{pos}, session.Paint(pos)

	case req.X != nil && req.Y != nil:
		var pos Position
		var err error
		if erase {
			pos, err = session.EraseAt(*req.X, *req.Y)
		} else {
			pos, err = session.PaintAt(*req.X, *req.Y)
		}
		return []Position{pos}, err
	}
	return nil, errBadPaint
}

var errBadPaint = errors.New("paint needs x/y, row/col, or a left-button brush rectangle")

// POST /sessions/{id}/clear - Reset the board
func (srv *Server) clearHandler(w http.ResponseWriter, r *http.Request) {
	session, err := srv.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := session.Clear(); err != nil {
		writeError(w, err)
		return
	}
	logger.Infof("🧹 Board %s cleared", session.ID)
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// POST /sessions/{id}/search - Run the search to completion
func (srv *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	logger.Info("========================================")
	logger.Info("📍 Search request received")

	session, err := srv.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := session.Search(r.Context(), nil)
	if err != nil {
		logger.Warnf("❌ Search rejected: %v", err)
		writeError(w, err)
		logger.Info("========================================")
		return
	}
	logSearchResult(session.ID, result)

	response := SearchResponse{Success: result.Outcome == OutcomeFound, Result: result}
	switch result.Outcome {
	case OutcomeFound:
		summary := SummarizePath(result.Path)
		response.Summary = &summary
	case OutcomeNotFound:
		response.Message = "No path between start and end"
	case OutcomeCancelled:
		response.Message = "Search cancelled"
	}

	writeJSON(w, http.StatusOK, response)
	logger.Info("========================================")
}

// GET /sessions/{id}/geojson - Board as GeoJSON for visualization
func (srv *Server) geojsonHandler(w http.ResponseWriter, r *http.Request) {
	session, err := srv.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var data []byte
	var marshalErr error
	if err := session.WithGrid(func(g *Grid) {
		data, marshalErr = GridGeoJSON(g).MarshalJSON()
	}); err != nil {
		writeError(w, err)
		return
	}
	if marshalErr != nil {
		logger.Errorf("Failed to encode GeoJSON: %v", marshalErr)
		http.Error(w, "Failed to encode GeoJSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// GET /sessions/{id}/render - Board as text, ?color=ansi for terminal colours
func (srv *Server) renderHandler(w http.ResponseWriter, r *http.Request) {
	session, err := srv.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	renderer := NewGridRenderer(w)
	if r.URL.Query().Get("color") == "ansi" {
		renderer = NewANSIGridRenderer(w)
	}
	var out string
	if err := session.WithGrid(func(g *Grid) { out = renderer.Render(g) }); err != nil {
		writeError(w, err)
		return
	}
	w.Write([]byte(out + "\n"))
}

func logSearchResult(id string, result Result) {
	switch result.Outcome {
	case OutcomeFound:
		logger.Infof("✅ Path found on %s: %d cells, cost %d, %d expanded",
			id, len(result.Path), result.Cost, result.Expanded)
	case OutcomeNotFound:
		logger.Infof("❌ No path on %s after %d expansions", id, result.Expanded)
	case OutcomeCancelled:
		logger.Infof("🛑 Search on %s cancelled after %d expansions", id, result.Expanded)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps domain errors onto status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrSearchActive):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogger(cfg.Log)

	srv := NewServer(cfg)

	logger.Info("========================================")
	logger.Info("🚀 Grid Pathfinding Visualizer")
	logger.Info("========================================")
	logger.Infof("Configuration loaded from %s", configPath)
	logger.Infof("Default board: %d rows, %d px", cfg.Grid.Rows, cfg.Grid.Width)
	logger.Info("")
	logger.Info("Endpoints:")
	logger.Info("  POST   /sessions                - Create a board")
	logger.Info("  GET    /sessions/{id}           - Board snapshot")
	logger.Info("  POST   /sessions/{id}/paint     - Place start/end/barriers or erase")
	logger.Info("  POST   /sessions/{id}/clear     - Reset the board")
	logger.Info("  POST   /sessions/{id}/search    - Run A* to completion")
	logger.Info("  GET    /sessions/{id}/stream    - Run A* step by step (WebSocket)")
	logger.Info("  GET    /sessions/{id}/geojson   - Board as GeoJSON")
	logger.Info("  GET    /sessions/{id}/render    - Board as text (?color=ansi)")
	logger.Info("  GET    /health                  - Check server status")
	logger.Info("========================================")
	logger.Infof("Server starting on %s", cfg.Addr())

	if err := http.ListenAndServe(cfg.Addr(), srv.Routes()); err != nil {
		logger.Fatal(err)
	}
}
