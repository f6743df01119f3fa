package experiments

import (
	"catan/experiments/metrics"
	"catan/game"
	"catan/player"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func randomMatchup(label string) Matchup {
	return Matchup{
		Label: label,
		Agents: [2]metrics.AgentConfig{
			{ID: 1, Label: "R1", Kind: KindRandom},
			{ID: 2, Label: "R2", Kind: KindRandom},
		},
	}
}

func TestNewPlayer(t *testing.T) {
	t.Run("building every kind", func(t *testing.T) {
		configs := map[string]metrics.AgentConfig{
			KindAlphaBeta: {Kind: KindAlphaBeta, Depth: 1, Pruning: true},
			KindValue:     {Kind: KindValue},
			KindMCTS:      {Kind: KindMCTS, Episodes: 10},
			KindRandom:    {Kind: KindRandom},
		}
		for kind, config := range configs {
			p, err := NewPlayer(config, game.Blue, 1)
			require.NoError(t, err, kind)
			require.Equal(t, game.Blue, p.Color(), kind)
		}
	})

	t.Run("searching players report metrics", func(t *testing.T) {
		p, err := NewPlayer(metrics.AgentConfig{Kind: KindAlphaBeta, Depth: 1}, game.Red, 1)
		require.NoError(t, err)

		require.Implements(t, (*player.Reporter)(nil), p)
	})

	t.Run("rejecting unknown kinds", func(t *testing.T) {
		_, err := NewPlayer(metrics.AgentConfig{Kind: "oracle"}, game.Red, 1)

		var configErr *game.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		require.Equal(t, "kind", configErr.Field)
	})

	t.Run("rejecting an mcts agent without budget", func(t *testing.T) {
		_, err := NewPlayer(metrics.AgentConfig{Kind: KindMCTS}, game.Red, 1)

		var configErr *game.ConfigurationError
		require.ErrorAs(t, err, &configErr)
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("tallying every game", func(t *testing.T) {
		exp := Experiment{
			Name:     "random",
			Matchups: []Matchup{randomMatchup("a"), randomMatchup("b")},
			Games:    3,
			MaxTurns: 15,
			Seed:     11,
		}

		result, err := Run(ctx, exp)

		require.NoError(t, err)
		require.Len(t, result.Tallies, 2)
		for label, tally := range result.Tallies {
			require.Equal(t, 3, tally.Games(), label)
		}
		require.Len(t, result.Games, 6)
		require.Len(t, result.Agents, 2, "Agents shared by matchups are listed once")
		for i, g := range result.Games {
			require.Equal(t, i+1, g.ID)
			if g.Seat >= 0 {
				require.Equal(t, []game.Color{game.Red, game.Blue}[g.Seat], g.Winner)
			} else {
				require.Equal(t, game.NoColor, g.Winner)
			}
		}
	})

	t.Run("alternating the starting seat", func(t *testing.T) {
		result, err := Run(ctx, Experiment{Matchups: []Matchup{randomMatchup("a")}, Games: 2, MaxTurns: 1})

		require.NoError(t, err)
		require.Equal(t, game.Red, result.Games[0].StartingPlayer)
		require.Equal(t, game.Blue, result.Games[1].StartingPlayer)
	})

	t.Run("drawing random maps", func(t *testing.T) {
		result, err := Run(ctx, Experiment{Matchups: []Matchup{randomMatchup("a")}, Games: 1, MaxTurns: 2, RandomMap: true})

		require.NoError(t, err)
		require.Equal(t, 1, result.Tallies["a"].Games())
	})

	t.Run("playing alpha-beta against the baseline", func(t *testing.T) {
		exp := Experiment{
			Name:     "ab_vs_f",
			Matchups: []Matchup{ABvsF(1, 1, true, game.DefaultWeights())},
			Games:    1,
			MaxTurns: 2,
		}

		result, err := Run(ctx, exp)

		require.NoError(t, err)
		require.NotEmpty(t, result.Moves)
		searched := false
		for _, m := range result.Moves {
			searched = searched || m.Nodes > 0
		}
		require.True(t, searched, "Alpha-beta moves should carry search metrics")
	})

	t.Run("rejecting duplicate labels", func(t *testing.T) {
		_, err := Run(ctx, Experiment{Matchups: []Matchup{randomMatchup("a"), randomMatchup("a")}})

		var configErr *game.ConfigurationError
		require.ErrorAs(t, err, &configErr)
	})

	t.Run("rejecting a negative turn cutoff", func(t *testing.T) {
		_, err := Run(ctx, Experiment{Matchups: []Matchup{randomMatchup("a")}, MaxTurns: -1})

		var configErr *game.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		require.Equal(t, "max_turns", configErr.Field)
	})

	t.Run("rejecting a negative game count", func(t *testing.T) {
		_, err := Run(ctx, Experiment{Matchups: []Matchup{randomMatchup("a")}, Games: -2})

		var configErr *game.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		require.Equal(t, "games", configErr.Field)
	})

	t.Run("rejecting an empty experiment", func(t *testing.T) {
		_, err := Run(ctx, Experiment{})

		var configErr *game.ConfigurationError
		require.ErrorAs(t, err, &configErr)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	result, err := Run(ctx, Experiment{Matchups: []Matchup{randomMatchup("a")}, Games: 2, MaxTurns: 5, Seed: 4})
	require.NoError(t, err)

	w, err := metrics.NewWriter(t.TempDir(), "random")
	require.NoError(t, err)
	store, err := metrics.OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, result.Save(ctx, "random", w, store))

	stored, err := store.Tallies(ctx, "random")
	require.NoError(t, err)
	require.Equal(t, result.Tallies, stored, "The store should agree with the in-memory tallies")
	require.FileExists(t, w.Dir()+"/summary.json")
	require.FileExists(t, w.Dir()+"/move_records.csv")
}

func TestMatchups(t *testing.T) {
	t.Run("pitting alpha-beta against the baseline", func(t *testing.T) {
		m := ABvsF(1, 2, true, game.DefaultWeights())

		require.Equal(t, "AB(depth=2,pruning=true)_vs_F", m.Label)
		require.Equal(t, KindAlphaBeta, m.Agents[0].Kind)
		require.Equal(t, Baseline(), m.Agents[1])
	})

	t.Run("sweeping one weight", func(t *testing.T) {
		matchups, err := WeightSweep(game.LongestRoad, []float64{0, 100}, 1, true)

		require.NoError(t, err)
		require.Len(t, matchups, 2)
		require.Equal(t, "longest_road=0", matchups[0].Label)
		require.Equal(t, 100.0, matchups[1].Agents[0].Weights[game.LongestRoad])
		require.Equal(t, game.DefaultWeights()[game.Production], matchups[1].Agents[0].Weights[game.Production])
		require.NotEqual(t, matchups[0].Agents[0].ID, matchups[1].Agents[0].ID)
		require.Equal(t, 3, matchups[0].Agents[1].ID, "The baseline should follow the sweep agents")
		require.Equal(t, matchups[0].Agents[1], matchups[1].Agents[1], "Every value should face the same baseline")
	})

	t.Run("rejecting an unknown feature", func(t *testing.T) {
		_, err := WeightSweep("luck", []float64{1}, 1, true)

		var configErr *game.ConfigurationError
		require.ErrorAs(t, err, &configErr)
	})

	t.Run("naming the verdict", func(t *testing.T) {
		require.Equal(t, "AB", Verdict(metrics.Tally{Wins: [2]int{3, 1}}))
		require.Equal(t, "F", Verdict(metrics.Tally{Wins: [2]int{1, 3}}))
		require.Equal(t, "TIE", Verdict(metrics.Tally{NoWinner: 2}))
	})

	t.Run("pairing goroutine counts with themselves", func(t *testing.T) {
		matchups := ParallelMatchups(metrics.AgentConfig{Kind: KindAlphaBeta, Depth: 1}, []int{1, 4})

		require.Len(t, matchups, 2)
		require.Equal(t, 4, matchups[1].Agents[0].Goroutines)
		require.Equal(t, matchups[1].Agents[0], matchups[1].Agents[1])
	})
}

func TestThroughput(t *testing.T) {
	result := &Result{
		Games: []metrics.SeatResult{
			{GameRecord: metrics.GameRecord{ID: 1, Matchup: "a"}},
			{GameRecord: metrics.GameRecord{ID: 2, Matchup: "b"}},
		},
		Moves: []metrics.MoveRecord{
			{Game: 1, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Nodes: 100, Duration: time.Second}}},
			{Game: 1, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Nodes: 300, Duration: time.Second}}},
			{Game: 1, MoveMetric: metrics.MoveMetric{}}, // Forced move
			{Game: 2, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Episodes: 50, Duration: 500 * time.Millisecond}}},
		},
	}

	got := Throughput(result)

	require.Equal(t, map[string]float64{"a": 200, "b": 100}, got)
}
