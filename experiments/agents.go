package experiments

import (
	"catan/experiments/metrics"
	"catan/game"
	"catan/player"
	"catan/searcher"
)

// Agent kinds an experiment can seat
const (
	KindAlphaBeta = "alphabeta"
	KindValue     = "value"
	KindMCTS      = "mcts"
	KindRandom    = "random"
)

// NewPlayer builds the player an agent config describes. Zero fields keep the
// searcher defaults. MCTS agents ignore the weights and score rollouts by
// victory point lead.
func NewPlayer(config metrics.AgentConfig, color game.Color, seed uint64) (player.Player, error) {
	switch config.Kind {
	case KindAlphaBeta:
		options := []searcher.Option{
			searcher.WithPruning(config.Pruning),
			searcher.WithMoveOrdering(config.Ordering),
			searcher.WithWeights(config.Weights),
			searcher.WithDuration(config.Duration),
			searcher.WithNodeBudget(config.NodeBudget),
			searcher.WithSeed(seed),
			searcher.WithMetrics(),
		}
		if config.Depth > 0 {
			options = append(options, searcher.WithDepth(config.Depth))
		}
		if config.Goroutines > 0 {
			options = append(options, searcher.WithGoroutines(config.Goroutines))
		}
		return player.NewAlphaBetaPlayer(color, options...)

	case KindValue:
		return player.NewValueFunctionPlayer(color, config.Weights, seed), nil

	case KindMCTS:
		options := []searcher.Option{
			searcher.WithEpisodes(config.Episodes),
			searcher.WithDuration(config.Duration),
			searcher.WithCutoff(config.Cutoff),
			searcher.WithMetrics(),
		}
		if config.Goroutines > 0 {
			options = append(options, searcher.WithGoroutines(config.Goroutines))
		}
		return player.NewMCTSPlayer(color, config.Temperature, seed, options...)

	case KindRandom:
		return player.NewRandomPlayer(color, seed), nil
	}
	return nil, game.NewConfigurationError("kind", "unknown agent kind %q", config.Kind)
}
