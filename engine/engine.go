package engine

import (
	"catan/experiments/metrics"
	"catan/game"
	"context"
)

// MaxMoves bounds a single game regardless of the turn cutoff.
const MaxMoves = 10000

type Engine interface {
	// Run plays a game till there's a winner or the turn cutoff is reached
	Run(ctx context.Context) (winner game.Color, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
