package experiments

import (
	"catan/experiments/metrics"
	"fmt"
)

// ParallelMatchups pairs every goroutine count with itself, for the same
// playing strength and similar game length in each matchup.
func ParallelMatchups(base metrics.AgentConfig, goroutines []int) []Matchup {
	matchUps := make([]Matchup, 0, len(goroutines))
	for i, n := range goroutines {
		config := base
		config.ID = i + 1
		config.Goroutines = n
		config.Label = fmt.Sprintf("%s(goroutines=%d)", base.Label, n)
		matchUps = append(matchUps, Matchup{Label: config.Label, Agents: [2]metrics.AgentConfig{config, config}})
	}
	return matchUps
}

// Throughput is the search rate of every matchup: nodes per second for
// alpha-beta, episodes per second for MCTS. Forced moves that were not
// searched are left out.
func Throughput(r *Result) map[string]float64 {
	matchup := make(map[int]string, len(r.Games))
	for _, g := range r.Games {
		matchup[g.ID] = g.Matchup
	}

	work := make(map[string]float64)
	seconds := make(map[string]float64)
	for _, m := range r.Moves {
		if m.Duration <= 0 || m.Nodes+m.Episodes == 0 {
			continue
		}
		label := matchup[m.Game]
		work[label] += float64(m.Nodes + m.Episodes)
		seconds[label] += m.Duration.Seconds()
	}

	throughput := make(map[string]float64, len(work))
	for label, w := range work {
		throughput[label] = w / seconds[label]
	}
	return throughput
}
