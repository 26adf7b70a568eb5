package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

var (
	ErrSearchActive     = errors.New("a search is already running on this board")
	ErrMissingEndpoints = errors.New("start and end must both be placed")
	ErrSessionNotFound  = errors.New("session not found")
)

// Session is one user's board: a grid plus the editing rules of the
// visualizer. Edits are refused while a search owns the grid.
type Session struct {
	ID string

	mu        sync.Mutex
	grid      *Grid
	index     *CellIndex
	start     *Position
	end       *Position
	searching bool
}

// NewSession builds a fresh bordered board
func NewSession(rows, width int) (*Session, error) {
	s := &Session{ID: uuid.NewString()}
	if err := s.reset(rows, width); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) reset(rows, width int) error {
	grid, err := BuildGrid(rows, width)
	if err != nil {
		return err
	}
	index, err := NewCellIndex(grid)
	if err != nil {
		return fmt.Errorf("failed to index grid: %w", err)
	}
	s.grid, s.index = grid, index
	s.start, s.end = nil, nil
	return nil
}

// Paint applies a left click at pos: the first click places the start, the
// second the end, every later one a barrier. Start and end are never
// overwritten. The border ring is fixed and cannot be edited.
func (s *Session) Paint(pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searching {
		return ErrSearchActive
	}
	return s.paintLocked(pos)
}

func (s *Session) paintLocked(pos Position) error {
	cell := s.grid.Cell(pos)
	if cell == nil {
		return fmt.Errorf("paint %v: %w", pos, ErrOutOfBounds)
	}
	if s.grid.OnBorder(pos) {
		return fmt.Errorf("paint %v: border is fixed: %w", pos, ErrOutOfBounds)
	}

	isStart := s.start != nil && *s.start == pos
	isEnd := s.end != nil && *s.end == pos

	switch {
	case s.start == nil && !isEnd:
		p := pos
		s.start = &p
		cell.SetState(StateStart)
	case s.end == nil && !isStart:
		p := pos
		s.end = &p
		cell.SetState(StateEnd)
	case !isStart && !isEnd:
		cell.SetState(StateBarrier)
	}
	return nil
}

// Erase applies a right click at pos, returning the cell to Empty
func (s *Session) Erase(pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searching {
		return ErrSearchActive
	}
	return s.eraseLocked(pos)
}

func (s *Session) eraseLocked(pos Position) error {
	cell := s.grid.Cell(pos)
	if cell == nil {
		return fmt.Errorf("erase %v: %w", pos, ErrOutOfBounds)
	}
	if s.grid.OnBorder(pos) {
		return fmt.Errorf("erase %v: border is fixed: %w", pos, ErrOutOfBounds)
	}
	cell.SetState(StateEmpty)

	if s.start != nil && *s.start == pos {
		s.start = nil
	} else if s.end != nil && *s.end == pos {
		s.end = nil
	}
	return nil
}

// PaintAt and EraseAt resolve a pixel to a cell first
func (s *Session) PaintAt(x, y float64) (Position, error) {
	return s.atPixel(x, y, s.paintLocked)
}

func (s *Session) EraseAt(x, y float64) (Position, error) {
	return s.atPixel(x, y, s.eraseLocked)
}

func (s *Session) atPixel(x, y float64, apply func(Position) error) (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searching {
		return Position{}, ErrSearchActive
	}
	pos, err := s.index.CellAt(x, y)
	if err != nil {
		return pos, err
	}
	return pos, apply(pos)
}

// PaintRegion paints barriers over every cell under the brush rectangle,
// skipping the endpoints and the border. It returns the cells that became
// barriers.
func (s *Session) PaintRegion(brush orb.Bound) ([]Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searching {
		return nil, ErrSearchActive
	}

	painted := make([]Position, 0)
	for _, pos := range s.index.QueryRegion(brush.Min[0], brush.Min[1], brush.Max[0], brush.Max[1]) {
		if s.grid.OnBorder(pos) || (s.start != nil && *s.start == pos) || (s.end != nil && *s.end == pos) {
			continue
		}
		s.grid.Cell(pos).SetState(StateBarrier)
		painted = append(painted, pos)
	}
	return painted, nil
}

// Clear throws the board away and starts over with the same dimensions
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searching {
		return ErrSearchActive
	}
	return s.reset(s.grid.Rows(), s.grid.Width())
}

// Search clears the previous run's tags, refreshes neighbors and runs A*
// while holding the board. onStep receives the grid so hosts can observe it.
// The endpoints carry their own tags again once it returns, whatever the
// outcome.
func (s *Session) Search(ctx context.Context, onStep func(g *Grid)) (Result, error) {
	s.mu.Lock()
	if s.searching {
		s.mu.Unlock()
		return Result{}, ErrSearchActive
	}
	if s.start == nil || s.end == nil {
		s.mu.Unlock()
		return Result{}, ErrMissingEndpoints
	}
	s.searching = true
	grid, start, end := s.grid, *s.start, *s.end
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.searching = false
		s.mu.Unlock()
	}()

	grid.ClearSearch()
	grid.RefreshNeighbors()

	var step func()
	if onStep != nil {
		step = func() { onStep(grid) }
	}
	result, err := RunSearch(ctx, grid, start, end, step)
	grid.Cell(start).SetState(StateStart)
	grid.Cell(end).SetState(StateEnd)
	return result, err
}

// Snapshot is the JSON view of a board
type Snapshot struct {
	ID        string        `json:"id"`
	Rows      int           `json:"rows"`
	Width     int           `json:"width"`
	CellSize  int           `json:"cellSize"`
	Start     *Position     `json:"start,omitempty"`
	End       *Position     `json:"end,omitempty"`
	Searching bool          `json:"searching"`
	Cells     [][]CellState `json:"cells,omitempty"`
}

// Snapshot copies the board. Cell states are omitted while a search is
// mutating them.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.ID,
		Rows:      s.grid.Rows(),
		Width:     s.grid.Width(),
		CellSize:  s.grid.CellSize(),
		Start:     copyPosition(s.start),
		End:       copyPosition(s.end),
		Searching: s.searching,
	}
	if s.searching {
		return snap
	}
	snap.Cells = make([][]CellState, s.grid.Rows())
	for row := range snap.Cells {
		snap.Cells[row] = make([]CellState, s.grid.Rows())
		for col := range snap.Cells[row] {
			snap.Cells[row][col] = s.grid.Cell(Position{Row: row, Col: col}).State()
		}
	}
	return snap
}

// WithGrid runs fn with the grid while no search is active
func (s *Session) WithGrid(fn func(g *Grid)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searching {
		return ErrSearchActive
	}
	fn(s.grid)
	return nil
}

func copyPosition(p *Position) *Position {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// SessionStore keeps boards in memory, keyed by id
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (st *SessionStore) Create(rows, width int) (*Session, error) {
	s, err := NewSession(rows, width)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s, nil
}

func (st *SessionStore) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%q: %w", id, ErrSessionNotFound)
	}
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
