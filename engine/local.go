package engine

import (
	"catan/experiments/metrics"
	"catan/game"
	"catan/meta"
	"catan/player"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Local runs a game between in-process players. It owns the real state,
// including the seed chance outcomes are drawn from.
type Local struct {
	state    *game.GameState
	players  map[game.Color]player.Player
	maxTurns int
}

type Option func(e *Local)

// WithMaxTurns ends the game without a winner after this many completed
// turns. Zero keeps the default.
func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		if turns != 0 {
			e.maxTurns = turns
		}
	}
}

// NewLocal seats the players in the given order on the map.
func NewLocal(players []player.Player, m *game.Map, rules game.Rules, seed uint64, options ...Option) (*Local, error) {
	colors := make([]game.Color, len(players))
	seats := make(map[game.Color]player.Player, len(players))
	for i, p := range players {
		colors[i] = p.Color()
		seats[p.Color()] = p
	}

	state, err := game.NewGameState(colors, m, rules, seed)
	if err != nil {
		return nil, err
	}

	e := &Local{
		state:    state,
		players:  seats,
		maxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(e)
	}
	if e.maxTurns < 0 {
		return nil, game.NewConfigurationError("max_turns", "must be positive, got %d", e.maxTurns)
	}
	return e, nil
}

// State returns the current state of the game.
func (e *Local) State() *game.GameState {
	return e.state
}

// Run executes the entire game loop until a winner is found or the turn cutoff
// is reached, in which case the winner is game.NoColor.
func (e *Local) Run(ctx context.Context) (game.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.state.Player(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s is starting", gameMetric.StartingPlayer)

	step := 0
	for e.state.Winner() == game.NoColor {
		if e.state.TurnCount >= e.maxTurns || step >= MaxMoves {
			log.Info().Msgf("stopped after %d turns and %d moves without a winner", e.state.TurnCount, step)
			break
		}
		if err := ctx.Err(); err != nil {
			return game.NoColor, gameMetric, moveMetrics, err
		}

		color := e.state.Player()
		p, ok := e.players[color]
		if !ok {
			panic(fmt.Sprintf("no player seated for %s", color))
		}

		move, err := p.FindMove(ctx, e.state)
		if err != nil {
			return game.NoColor, gameMetric, moveMetrics, fmt.Errorf("%s failed to move: %w", color, err)
		}
		next, err := e.apply(move)
		if err != nil {
			return game.NoColor, gameMetric, moveMetrics, err
		}
		step++

		moveMetric := metrics.MoveMetric{Step: step, Player: color}
		if r, ok := p.(player.Reporter); ok {
			moveMetric.SearchMetric = r.LastMetric()
		}
		moveMetrics = append(moveMetrics, moveMetric)

		log.Debug().Msgf("move %d: %s plays %v", step, color, move)
		e.state = next
	}

	gameMetric.Winner = e.state.Winner()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step
	gameMetric.Turns = e.state.TurnCount

	if gameMetric.Winner != game.NoColor {
		log.Info().Msgf("%s won after %d turns", gameMetric.Winner, gameMetric.Turns)
	}
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}

// apply plays a move only if the state itself would have offered it.
func (e *Local) apply(move game.Move) (*game.GameState, error) {
	gameMove, ok := move.(game.GameMove)
	if !ok || !slices.Contains(e.state.GameMoves(), gameMove) {
		return nil, &game.IllegalActionError{Move: move, Phase: e.state.Phase, Reason: "not among the legal moves"}
	}
	return e.state.Apply(gameMove)
}

var _ Engine = (*Local)(nil)
