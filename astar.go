package main

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrNilGrid         = errors.New("grid is nil")
	ErrSameEndpoints   = errors.New("start and end are the same cell")
	ErrBarrierEndpoint = errors.New("endpoint is a barrier")
)

// Outcome is how a search ended. None of them is an error.
type Outcome uint8

const (
	OutcomeNotFound Outcome = iota
	OutcomeFound
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "not_found"
	}
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not_found":
		*o = OutcomeNotFound
	case "found":
		*o = OutcomeFound
	case "cancelled":
		*o = OutcomeCancelled
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// Result is what RunSearch reports back
type Result struct {
	Outcome  Outcome    `json:"outcome"`
	Path     []Position `json:"path,omitempty"` // start..end inclusive
	Cost     int        `json:"cost"`
	Expanded int        `json:"expanded"`
}

// Node is a frontier entry. Seq is the insertion sequence that breaks ties
// between equal F so expansion order is deterministic.
type Node struct {
	CellIdx int
	F       int
	Seq     int
	Index   int // Index in the heap
}

// PriorityQueue implements heap.Interface ordered by (F, Seq)
type PriorityQueue []*Node

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].F != pq[j].F {
		return pq[i].F < pq[j].F
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*Node)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*pq = old[0 : n-1]
	return node
}

// search holds the per-invocation bookkeeping. Scores are keyed by arena index.
type search struct {
	grid       *Grid
	start, end int
	onStep     func()

	openSet    PriorityQueue
	openSetMap map[int]*Node
	cameFrom   map[int]int
	gScore     []int
	seq        int
}

// RunSearch finds the cheapest 8-connected path from start to end with A*.
//
// The caller must have called grid.RefreshNeighbors after the last barrier
// change. onStep (may be nil) is called synchronously after every neighbor
// relaxation and after every path cell is tagged. ctx is polled once per
// expanded cell; a cancelled search returns OutcomeCancelled and leaves no
// Path tags behind.
//
// Cell tags are updated as the search runs: discovered cells become Open,
// expanded cells other than start Closed, and on success the path cells
// become Path. The end cell is tagged Open once discovered and only gets its
// End tag back on success; callers restore it after other outcomes.
func RunSearch(ctx context.Context, grid *Grid, start, end Position, onStep func()) (Result, error) {
	if grid == nil {
		return Result{}, ErrNilGrid
	}
	if !grid.InBounds(start) {
		return Result{}, fmt.Errorf("start %v: %w", start, ErrOutOfBounds)
	}
	if !grid.InBounds(end) {
		return Result{}, fmt.Errorf("end %v: %w", end, ErrOutOfBounds)
	}
	if start == end {
		return Result{}, fmt.Errorf("%v: %w", start, ErrSameEndpoints)
	}
	if grid.Cell(start).IsBarrier() {
		return Result{}, fmt.Errorf("start %v: %w", start, ErrBarrierEndpoint)
	}
	if grid.Cell(end).IsBarrier() {
		return Result{}, fmt.Errorf("end %v: %w", end, ErrBarrierEndpoint)
	}
	if onStep == nil {
		onStep = func() {}
	}

	s := &search{
		grid:       grid,
		start:      grid.Index(start),
		end:        grid.Index(end),
		onStep:     onStep,
		openSetMap: make(map[int]*Node),
		cameFrom:   make(map[int]int),
		gScore:     make([]int, grid.Len()),
	}
	for i := range s.gScore {
		s.gScore[i] = math.MaxInt
	}
	s.gScore[s.start] = 0
	s.push(s.start, Heuristic(start, end))

	return s.run(ctx), nil
}

func (s *search) run(ctx context.Context) Result {
	expanded := 0
	for s.openSet.Len() > 0 {
		if ctx.Err() != nil {
			return Result{Outcome: OutcomeCancelled, Expanded: expanded}
		}

		current := heap.Pop(&s.openSet).(*Node).CellIdx
		delete(s.openSetMap, current)
		expanded++

		if current == s.end {
			return Result{
				Outcome:  OutcomeFound,
				Path:     s.reconstructPath(),
				Cost:     s.gScore[s.end],
				Expanded: expanded,
			}
		}

		cell := s.grid.At(current)
		for _, neighbor := range cell.DiagonalNeighbors() {
			s.relax(current, neighbor, DiagonalCost)
		}
		for _, neighbor := range cell.OrthogonalNeighbors() {
			s.relax(current, neighbor, OrthogonalCost)
		}
	}
	return Result{Outcome: OutcomeNotFound, Expanded: expanded}
}

// relax offers the step current->neighbor. A cell that is already queued is
// re-keyed in place; a cell that was already expanded is queued again.
func (s *search) relax(current, neighbor, stepCost int) {
	tentativeG := s.gScore[current] + stepCost
	if tentativeG < s.gScore[neighbor] {
		s.cameFrom[neighbor] = current
		s.gScore[neighbor] = tentativeG
		f := tentativeG + Heuristic(s.grid.PositionOf(neighbor), s.grid.PositionOf(s.end))

		if node, inOpen := s.openSetMap[neighbor]; inOpen {
			node.F = f
			heap.Fix(&s.openSet, node.Index)
		} else {
			s.push(neighbor, f)
			s.grid.At(neighbor).SetState(StateOpen)
		}
	}

	s.onStep()
	if current != s.start {
		s.grid.At(current).SetState(StateClosed)
	}
}

func (s *search) push(idx, f int) {
	node := &Node{CellIdx: idx, F: f, Seq: s.seq}
	s.seq++
	heap.Push(&s.openSet, node)
	s.openSetMap[idx] = node
}

// reconstructPath walks cameFrom back from end, tagging every cell strictly
// between the endpoints as Path, and returns the path in start..end order.
func (s *search) reconstructPath() []Position {
	path := []Position{s.grid.PositionOf(s.end)}
	current := s.end
	for {
		previous, exists := s.cameFrom[current]
		if !exists {
			break
		}
		current = previous
		path = append(path, s.grid.PositionOf(current))
		if current == s.start {
			break
		}
		s.grid.At(current).SetState(StatePath)
		s.onStep()
	}
	s.grid.At(s.end).SetState(StateEnd)
	s.grid.At(s.start).SetState(StateStart)

	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
