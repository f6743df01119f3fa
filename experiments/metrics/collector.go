package metrics

import (
	"catan/game"
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines   int
	Duration     time.Duration
	Depth        int // Deepest completed iteration (alpha-beta)
	Nodes        int
	Prunes       int
	Episodes     int // MCTS
	Cutoff       int
	FullPlayouts int
	IsTreeReset  bool
}

type MoveMetric struct {
	Step   int
	Player game.Color
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Color
	Winner         game.Color // NoColor when the turn cutoff was reached
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Turns          int
}

type Collector interface {
	Start(goroutines, cutoff int)
	SetTreeReset(value bool)
	SetDepth(depth int)
	AddNodes(n int)
	AddPrune()
	AddFullPlayout()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	goroutines   int
	cutoff       int
	startTime    time.Time
	depth        atomic.Int32
	nodes        atomic.Int64
	prunes       atomic.Int64
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

// Start resets the counters, so one collector serves every search of a player.
func (m *collector) Start(goroutines, cutoff int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.cutoff = cutoff
	m.depth.Store(0)
	m.nodes.Store(0)
	m.prunes.Store(0)
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *collector) SetDepth(depth int) {
	m.depth.Store(int32(depth))
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) AddPrune() {
	m.prunes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Depth:        int(m.depth.Load()),
		Nodes:        int(m.nodes.Load()),
		Prunes:       int(m.prunes.Load()),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Cutoff:       m.cutoff,
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, cutoff int) {}
func (m *dummyCollector) SetTreeReset(value bool)     {}
func (m *dummyCollector) SetDepth(depth int)          {}
func (m *dummyCollector) AddNodes(n int)              {}
func (m *dummyCollector) AddPrune()                   {}
func (m *dummyCollector) AddFullPlayout()             {}
func (m *dummyCollector) AddEpisode()                 {}
func (m *dummyCollector) Complete() SearchMetric      { return SearchMetric{} }
