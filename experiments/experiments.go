package experiments

import (
	"catan/engine"
	"catan/experiments/metrics"
	"catan/game"
	"catan/meta"
	"catan/player"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// Matchup pits two agents against each other. Agents[0] plays Red and
// Agents[1] plays Blue, tallies are kept by that index.
type Matchup struct {
	Label  string
	Agents [2]metrics.AgentConfig
}

// Experiment plays a number of games for every matchup. The starting seat
// alternates between games.
type Experiment struct {
	Name      string
	Matchups  []Matchup
	Games     int // Per matchup
	MaxTurns  int
	Seed      uint64
	Rules     game.Rules
	RandomMap bool // Draw a fresh layout for every game
}

type Result struct {
	Tallies map[string]metrics.Tally // By matchup label
	Agents  []metrics.AgentConfig
	Games   []metrics.SeatResult
	Moves   []metrics.MoveRecord
}

// Run plays the experiment and returns the win tallies per matchup.
func Run(ctx context.Context, exp Experiment) (*Result, error) {
	if err := exp.normalize(); err != nil {
		return nil, err
	}

	result := &Result{Tallies: make(map[string]metrics.Tally, len(exp.Matchups))}
	for _, matchup := range exp.Matchups {
		for _, agent := range matchup.Agents {
			if !slices.ContainsFunc(result.Agents, func(a metrics.AgentConfig) bool { return a.ID == agent.ID }) {
				result.Agents = append(result.Agents, agent)
			}
		}
	}

	log.Info().Msgf("starting %s experiment...", exp.Name)

	count := 0
	for mi, matchup := range exp.Matchups {
		log.Info().Msgf("starting matchup %d of %d: %s", mi+1, len(exp.Matchups), matchup.Label)

		var tally metrics.Tally
		for i := 0; i < exp.Games; i++ {
			count++
			seed := exp.Seed + uint64(count)
			seat, gameMetric, moveMetrics, err := runGame(ctx, exp, matchup, i%2 == 1, seed)
			if err != nil {
				return nil, fmt.Errorf("matchup %s game %d: %w", matchup.Label, i+1, err)
			}

			if seat < 0 {
				tally.NoWinner++
			} else {
				tally.Wins[seat]++
			}
			result.Games = append(result.Games, metrics.SeatResult{
				GameRecord: metrics.GameRecord{
					ID:         count,
					Matchup:    matchup.Label,
					Agent1:     matchup.Agents[0].ID,
					Agent2:     matchup.Agents[1].ID,
					GameMetric: gameMetric,
				},
				Seat: seat,
			})
			for _, mm := range moveMetrics {
				result.Moves = append(result.Moves, metrics.MoveRecord{Game: count, MoveMetric: mm})
			}

			log.Info().Msgf("completed %s game %d of %d with winner: %s", matchup.Label, i+1, exp.Games, gameMetric.Winner)
		}
		result.Tallies[matchup.Label] = tally

		log.Info().Msgf("completed matchup %s: %d-%d with %d unfinished", matchup.Label, tally.Wins[0], tally.Wins[1], tally.NoWinner)
	}

	log.Info().Msgf("completed %s experiment", exp.Name)
	return result, nil
}

func (exp *Experiment) normalize() error {
	if len(exp.Matchups) == 0 {
		return game.NewConfigurationError("matchups", "need at least one matchup")
	}
	labels := make(map[string]bool, len(exp.Matchups))
	for _, m := range exp.Matchups {
		if labels[m.Label] {
			return game.NewConfigurationError("matchups", "label %q used twice", m.Label)
		}
		labels[m.Label] = true
	}
	switch {
	case exp.Games < 0:
		return game.NewConfigurationError("games", "must not be negative, got %d", exp.Games)
	case exp.MaxTurns < 0:
		return game.NewConfigurationError("max_turns", "must not be negative, got %d", exp.MaxTurns)
	}
	if exp.Games == 0 {
		exp.Games = meta.GAMES_PER_MATCHUP
	}
	if exp.MaxTurns == 0 {
		exp.MaxTurns = meta.MAX_TURNS
	}
	if exp.Rules == nil {
		exp.Rules = game.NewStandardRules()
	}
	return exp.Rules.Validate()
}

// runGame plays one game and returns the matchup seat of the winner, -1 when
// the turn cutoff was reached.
func runGame(ctx context.Context, exp Experiment, matchup Matchup, swap bool, seed uint64) (int, metrics.GameMetric, []metrics.MoveMetric, error) {
	colors := [2]game.Color{game.Red, game.Blue}
	players := make([]player.Player, 2)
	for i, agent := range matchup.Agents {
		p, err := NewPlayer(agent, colors[i], seed+uint64(i))
		if err != nil {
			return -1, metrics.GameMetric{}, nil, err
		}
		players[i] = p
	}
	if swap {
		players[0], players[1] = players[1], players[0]
	}

	layout := game.StandardLayout()
	if exp.RandomMap {
		layout = game.RandomLayout(rand.New(rand.NewSource(seed)))
	}

	e, err := engine.NewLocal(players, layout, exp.Rules, seed, engine.WithMaxTurns(exp.MaxTurns))
	if err != nil {
		return -1, metrics.GameMetric{}, nil, err
	}
	winner, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return -1, gameMetric, moveMetrics, err
	}
	return slices.Index(colors[:], winner), gameMetric, moveMetrics, nil
}

// Save writes the experiment artifacts under the writer's directory and, when
// a store is given, appends the games to it.
func (r *Result) Save(ctx context.Context, name string, w *metrics.Writer, store *metrics.Store) error {
	if err := w.WriteAgentConfigs(r.Agents); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	records := make([]metrics.GameRecord, len(r.Games))
	for i, g := range r.Games {
		records[i] = g.GameRecord
	}
	if err := w.WriteGameRecords(records); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := w.WriteMoveRecords(r.Moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	if err := w.WriteSummary(r.Tallies); err != nil {
		return err
	}

	if store != nil {
		run, err := store.RecordGames(ctx, name, r.Games)
		if err != nil {
			return fmt.Errorf("failed to record games: %w", err)
		}
		log.Info().Msgf("recorded %d games in the result store as run %d", len(r.Games), run)
	}
	return nil
}
