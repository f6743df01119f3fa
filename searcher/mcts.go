package searcher

import (
	"catan/experiments/metrics"
	"catan/game"
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// MCTS is a sampling searcher: tree parallelism with virtual loss, random
// rollouts cut off after a number of moves and scored by an evaluation function.
type MCTS struct {
	config
	root *decision
	last metrics.SearchMetric
}

func NewMCTS(options ...Option) (*MCTS, error) {
	m := &MCTS{config: defaultConfig()}
	m.evaluate = game.EvaluateLead
	for _, option := range options {
		option(&m.config)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	if m.episodes <= 0 && m.duration <= 0 {
		return nil, game.NewConfigurationError("episodes", "must specify search episodes or duration")
	}
	return m, nil
}

func (m *MCTS) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	m.last = metrics.SearchMetric{}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, &game.NoLegalActionError{Player: state.Player()}
	}
	if len(moves) == 1 {
		return moves[0], nil
	}

	m.root = newDecision(nil, game.NoColor, state)
	m.metrics.SetTreeReset(true)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	if m.episodes > 0 {
		m.iterate(ctx, state)
	} else {
		m.countdown(ctx, state)
	}
	m.last = m.metrics.Complete()

	if !m.root.expanded() { // Cancelled or timed out before the first episode
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return moves[0], nil
	}
	move := m.root.bestMove()
	log.Debug().Msgf("mcts picked %v for %s after %d episodes", move, state.Player(), m.last.Episodes)
	return move, nil
}

func (m *MCTS) LastMetric() metrics.SearchMetric {
	return m.last
}

// Policy returns the visit distribution at the root of the last search.
func (m *MCTS) Policy() map[game.Move]float64 {
	if m.root == nil {
		return nil
	}
	return m.root.Policy()
}

func (m *MCTS) iterate(ctx context.Context, state game.State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range task {
				if ctx.Err() != nil {
					return
				}
				m.simulate(state)
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(ctx context.Context, state game.State) {
	ctx, cancel := context.WithTimeout(ctx, m.duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				default:
					m.simulate(state)
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) simulate(state game.State) {
	// Draw a fresh future for every episode so chance nodes see several outcomes
	if r, ok := state.(game.Reseeder); ok {
		state = r.Reseed(rand.Uint64())
	}
	newNode, newState := selectThenExpand(m.root, state)
	player, score := rollout(newState, m.cutoff, m.evaluate, m.metrics)
	backup(newNode, player, score)
}

func selectThenExpand(root Node, state game.State) (Node, game.State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

func rollout(state game.State, cutoff int, evaluate game.Evaluate, metrics metrics.Collector) (game.Color, float64) {
	depth := 0
	moves := state.LegalMoves()
	// Rollout till game over or for cutoff number of moves
	for len(moves) > 0 && (depth < cutoff) {
		move := moves[rand.Intn(len(moves))] // Random rollout policy
		state = play(state, move)
		moves = state.LegalMoves()
		depth++
	}

	if winner := state.Winner(); winner != game.NoColor { // Game over before cutoff
		metrics.AddFullPlayout()
		return winner, Win
	}

	// At cutoff state, return an evaluation score from current player's perspective
	player := state.Player()
	return player, evaluate(state, player)
}

func backup(newNode Node, player game.Color, score float64) {
	node := newNode
	for node != nil {
		parent := node.Backup(player, score)
		node = parent
	}
}

var _ Searcher = (*MCTS)(nil)
