package searcher

import (
	"catan/experiments/metrics"
	"catan/game"
	"context"
	"fmt"
)

// Searcher picks a move for the player to act in a state.
type Searcher interface {
	FindMove(ctx context.Context, state game.State) (game.Move, error)
	// LastMetric returns the metrics of the most recent search
	LastMetric() metrics.SearchMetric
}

// Node is a vertex of the MCTS tree
type Node interface {
	SelectOrExpand(state game.State) (child Node, childState game.State, selected bool)
	Backup(player game.Color, score float64) Node
	applyLoss()
	stats() (player game.Color, rewards float64, visits float64)
}

func computeReward(player game.Color, score float64, perspective game.Color) float64 {
	if perspective == player {
		return score
	}
	return -score
}

// play applies a move the state itself generated. Failure means the rule
// engine and its move generator disagree, which is a bug.
func play(state game.State, move game.Move) game.State {
	next, err := state.Play(move)
	if err != nil {
		panic(fmt.Sprintf("generated move %v failed: %v", move, err))
	}
	return next
}
