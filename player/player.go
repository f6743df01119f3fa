package player

import (
	"catan/experiments/metrics"
	"catan/game"
	"catan/searcher"
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
)

// Player decides moves for one seat. The engine only asks a player to move
// when its color is the one to act.
type Player interface {
	Color() game.Color
	FindMove(ctx context.Context, state game.State) (game.Move, error)
}

// Reporter is implemented by players that search and can describe their last search.
type Reporter interface {
	LastMetric() metrics.SearchMetric
}

func checkTurn(color game.Color, state game.State) error {
	if state.Player() != color {
		return fmt.Errorf("%s asked to move while %s is to act", color, state.Player())
	}
	return nil
}

// AlphaBetaPlayer searches with depth-limited alpha-beta.
type AlphaBetaPlayer struct {
	color    game.Color
	searcher *searcher.AlphaBeta
}

func NewAlphaBetaPlayer(color game.Color, options ...searcher.Option) (*AlphaBetaPlayer, error) {
	ab, err := searcher.NewAlphaBeta(options...)
	if err != nil {
		return nil, fmt.Errorf("alpha-beta player %s: %w", color, err)
	}
	return &AlphaBetaPlayer{color: color, searcher: ab}, nil
}

func (p *AlphaBetaPlayer) Color() game.Color {
	return p.color
}

func (p *AlphaBetaPlayer) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	if err := checkTurn(p.color, state); err != nil {
		return nil, err
	}
	return p.searcher.FindMove(ctx, state)
}

func (p *AlphaBetaPlayer) LastMetric() metrics.SearchMetric {
	return p.searcher.LastMetric()
}

// ValueFunctionPlayer plays the move whose resulting state scores best under
// its weights, looking one move ahead. The first best move wins ties.
type ValueFunctionPlayer struct {
	color    game.Color
	evaluate game.Evaluate
	seed     uint64
}

func NewValueFunctionPlayer(color game.Color, weights game.Weights, seed uint64) *ValueFunctionPlayer {
	if weights == nil {
		weights = game.DefaultWeights()
	}
	return &ValueFunctionPlayer{color: color, evaluate: weights.Evaluate(), seed: seed}
}

func (p *ValueFunctionPlayer) Color() game.Color {
	return p.color
}

func (p *ValueFunctionPlayer) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	if err := checkTurn(p.color, state); err != nil {
		return nil, err
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, &game.NoLegalActionError{Player: p.color}
	}
	if len(moves) == 1 {
		return moves[0], nil
	}

	// Chance moves are scored on one outcome drawn from the player's own seed
	if r, ok := state.(game.Reseeder); ok {
		state = r.Reseed(p.seed)
	}

	var best game.Move
	bestScore := 0.0
	for _, move := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := state.Play(move)
		if err != nil {
			return nil, fmt.Errorf("value function player %s: %w", p.color, err)
		}
		if score := p.evaluate(next, p.color); best == nil || score > bestScore {
			best, bestScore = move, score
		}
	}
	return best, nil
}

// MCTSPlayer samples the game tree with Monte Carlo tree search. With a
// positive temperature it samples its move from the visit policy instead of
// taking the most visited one.
type MCTSPlayer struct {
	color       game.Color
	searcher    *searcher.MCTS
	temperature float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMCTSPlayer(color game.Color, temperature float64, seed uint64, options ...searcher.Option) (*MCTSPlayer, error) {
	if temperature < 0 {
		return nil, game.NewConfigurationError("temperature", "must not be negative, got %v", temperature)
	}
	m, err := searcher.NewMCTS(options...)
	if err != nil {
		return nil, fmt.Errorf("mcts player %s: %w", color, err)
	}
	return &MCTSPlayer{
		color:       color,
		searcher:    m,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

func (p *MCTSPlayer) Color() game.Color {
	return p.color
}

func (p *MCTSPlayer) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	if err := checkTurn(p.color, state); err != nil {
		return nil, err
	}
	move, err := p.searcher.FindMove(ctx, state)
	if err != nil || p.temperature == 0 {
		return move, err
	}
	policy := p.searcher.Policy()
	if len(policy) == 0 { // Forced move, nothing was searched
		return move, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return sample(state.LegalMoves(), adjustTemperature(policy, p.temperature), p.rng.Float64()), nil
}

func (p *MCTSPlayer) LastMetric() metrics.SearchMetric {
	return p.searcher.LastMetric()
}

// RandomPlayer picks uniformly among the legal moves.
type RandomPlayer struct {
	color game.Color

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPlayer(color game.Color, seed uint64) *RandomPlayer {
	return &RandomPlayer{color: color, rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlayer) Color() game.Color {
	return p.color
}

func (p *RandomPlayer) FindMove(ctx context.Context, state game.State) (game.Move, error) {
	if err := checkTurn(p.color, state); err != nil {
		return nil, err
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, &game.NoLegalActionError{Player: p.color}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return moves[p.rng.Intn(len(moves))], nil
}
