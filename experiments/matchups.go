package experiments

import (
	"catan/experiments/metrics"
	"catan/game"
	"fmt"

	"golang.org/x/exp/slices"
)

// Baseline is the greedy value function player on the default weights, the
// opponent of every alpha-beta matchup.
func Baseline() metrics.AgentConfig {
	return metrics.AgentConfig{ID: 0, Label: "F", Kind: KindValue, Weights: game.DefaultWeights()}
}

// ABvsF pits alpha-beta on the given weights against the baseline.
func ABvsF(id, depth int, pruning bool, weights game.Weights) Matchup {
	ab := metrics.AgentConfig{
		ID:      id,
		Label:   "AB",
		Kind:    KindAlphaBeta,
		Depth:   depth,
		Pruning: pruning,
		Weights: weights,
	}
	return Matchup{
		Label:  fmt.Sprintf("AB(depth=%d,pruning=%t)_vs_F", depth, pruning),
		Agents: [2]metrics.AgentConfig{ab, Baseline()},
	}
}

// WeightSweep varies one weight of the alpha-beta player, one matchup per
// value, keeping every other weight at its default. Sweep agents take IDs 1
// to len(values) and the shared baseline takes len(values)+1.
func WeightSweep(feature string, values []float64, depth int, pruning bool) ([]Matchup, error) {
	if !slices.Contains(game.FeatureNames(), feature) {
		return nil, game.NewConfigurationError("sweep.feature", "unknown feature %q", feature)
	}
	if len(values) == 0 {
		return nil, game.NewConfigurationError("sweep.values", "need at least one value")
	}

	base := game.DefaultWeights()
	matchups := make([]Matchup, 0, len(values))
	for i, value := range values {
		weights := base.Copy()
		weights[feature] = value
		m := ABvsF(i+1, depth, pruning, weights)
		m.Label = fmt.Sprintf("%s=%g", feature, value)
		m.Agents[0].Label = fmt.Sprintf("AB(%s)", m.Label)
		m.Agents[1].ID = len(values) + 1
		matchups = append(matchups, m)
	}
	return matchups, nil
}

// Verdict names the stronger side of an alpha-beta matchup: AB, F or TIE.
func Verdict(t metrics.Tally) string {
	switch t.Leader() {
	case 0:
		return "AB"
	case 1:
		return "F"
	}
	return "TIE"
}
