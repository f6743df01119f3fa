package searcher

import (
	"catan/experiments/metrics"
	"catan/game"
	"catan/meta"
	"cmp"
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// AlphaBeta is a depth-limited minimax searcher. The player to act at the
// root maximizes its own evaluation; every other player is assumed to
// minimize it. Chance is not modelled: a stochastic move is played once with
// the searcher's own seed and its outcome scored as a leaf.
type AlphaBeta struct {
	config
	last metrics.SearchMetric
}

func NewAlphaBeta(options ...Option) (*AlphaBeta, error) {
	a := &AlphaBeta{config: defaultConfig()}
	a.evaluate = game.DefaultWeights().Evaluate()
	for _, option := range options {
		option(&a.config)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.depth <= 0 {
		return nil, game.NewConfigurationError("depth", "must be positive, got %d", a.depth)
	}
	return a, nil
}

func (a *AlphaBeta) LastMetric() metrics.SearchMetric {
	return a.last
}

// FindMove searches with iterative deepening up to the configured depth and
// returns the move of the deepest completed iteration. Among equally scored
// moves the first in generation order wins.
func (a *AlphaBeta) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	a.last = metrics.SearchMetric{}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, &game.NoLegalActionError{Player: state.Player()}
	}
	if len(moves) == 1 {
		return moves[0], nil
	}

	// Never look at the real future
	if r, ok := state.(game.Reseeder); ok {
		state = r.Reseed(a.seed)
	}

	a.metrics.Start(a.goroutines, a.depth)
	s := &search{
		ctx:      ctx,
		player:   state.Player(),
		evaluate: a.evaluate,
		pruning:  a.pruning,
		ordering: a.ordering,
		budget:   int64(a.nodeBudget),
		metrics:  a.metrics,
	}
	if a.duration > 0 {
		s.deadline = time.Now().Add(a.duration)
	}

	children := make([]game.State, len(moves))
	for i, move := range moves {
		children[i] = play(state, move)
	}

	best := moves[0]
	for depth := 1; depth <= a.depth; depth++ {
		var i int
		var complete bool
		if a.goroutines > 1 {
			i, complete = s.parallelRoot(moves, children, depth, a.goroutines)
		} else {
			i, complete = s.root(moves, children, depth)
		}
		if !complete {
			if depth == 1 && i >= 0 {
				best = moves[i]
			}
			log.Debug().Msgf("alpha-beta stopped during depth %d after %d nodes", depth, s.nodes.Load())
			break
		}
		best = moves[i]
		a.metrics.SetDepth(depth)
		log.Debug().Msgf("alpha-beta completed depth %d for %s with %v", depth, s.player, best)
	}

	a.metrics.AddNodes(int(s.nodes.Load()))
	a.last = a.metrics.Complete()
	return best, nil
}

type search struct {
	ctx      context.Context
	player   game.Color
	evaluate game.Evaluate
	pruning  bool
	ordering bool
	deadline time.Time
	budget   int64
	metrics  metrics.Collector
	nodes    atomic.Int64
	stopped  atomic.Bool
}

// visit counts a node and reports whether the search must stop.
func (s *search) visit() bool {
	n := s.nodes.Add(1)
	if s.budget > 0 && n > s.budget {
		s.stopped.Store(true)
	}
	if n%meta.NODE_CHECK_INTERVAL == 0 {
		if s.ctx.Err() != nil || (!s.deadline.IsZero() && time.Now().After(s.deadline)) {
			s.stopped.Store(true)
		}
	}
	return s.stopped.Load()
}

// root searches the children in order with a shared window. A child replaces
// the best only when strictly better, so the result does not depend on pruning.
func (s *search) root(moves []game.Move, children []game.State, depth int) (int, bool) {
	best := -1
	bestValue := math.Inf(-1)
	for i := range children {
		v := s.child(moves[i], children[i], depth-1, bestValue, math.Inf(1))
		if s.stopped.Load() {
			return best, false
		}
		if best < 0 || v > bestValue {
			best, bestValue = i, v
		}
	}
	return best, true
}

// parallelRoot scores every root child with a full window on a pool of goroutines.
func (s *search) parallelRoot(moves []game.Move, children []game.State, depth int, goroutines int) (int, bool) {
	values := make([]float64, len(children))
	done := make([]bool, len(children))

	task := make(chan int, len(children))
	for i := range children {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				if s.stopped.Load() {
					return
				}
				values[i] = s.child(moves[i], children[i], depth-1, math.Inf(-1), math.Inf(1))
				done[i] = !s.stopped.Load()
			}
		}()
	}
	wg.Wait()

	best := -1
	for i := range children {
		if done[i] && (best < 0 || values[i] > values[best]) {
			best = i
		}
	}
	return best, !s.stopped.Load()
}

func (s *search) child(move game.Move, state game.State, depth int, alpha, beta float64) float64 {
	if move.IsStochastic() {
		s.visit()
		return s.evaluate(state, s.player)
	}
	return s.value(state, depth, alpha, beta)
}

// value is fail-soft alpha-beta: a result outside (alpha, beta) is a bound
// on the true value, a result inside it is exact.
func (s *search) value(state game.State, depth int, alpha, beta float64) float64 {
	if s.visit() {
		return 0
	}
	if depth == 0 || state.Winner() != game.NoColor {
		return s.evaluate(state, s.player)
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return s.evaluate(state, s.player)
	}

	maximizing := state.Player() == s.player
	children := make([]game.State, len(moves))
	for i, move := range moves {
		children[i] = play(state, move)
	}
	order := s.order(children, maximizing)

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, i := range order {
		v := s.child(moves[i], children[i], depth-1, alpha, beta)
		if s.stopped.Load() {
			return 0
		}
		if maximizing {
			best = max(best, v)
			alpha = max(alpha, best)
		} else {
			best = min(best, v)
			beta = min(beta, best)
		}
		if s.pruning && alpha >= beta {
			s.metrics.AddPrune()
			break
		}
	}
	return best
}

// order returns child indices in generation order, or best-first by static
// evaluation when move ordering is on. The sort is stable so equal children
// keep generation order.
func (s *search) order(children []game.State, maximizing bool) []int {
	order := make([]int, len(children))
	for i := range order {
		order[i] = i
	}
	if !s.ordering {
		return order
	}

	scores := make([]float64, len(children))
	for i, child := range children {
		scores[i] = s.evaluate(child, s.player)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if maximizing {
			return cmp.Compare(scores[b], scores[a])
		}
		return cmp.Compare(scores[a], scores[b])
	})
	return order
}

var _ Searcher = (*AlphaBeta)(nil)
