package searcher

import (
	"catan/game"
	"math"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const Win = 1.0   // Reward for winning outcome
const Loss = -Win // Reward for loss outcome (negate from opponent perspective)

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// score rates a child for the player choosing among its siblings. Children
// keep rewards from their own player's perspective, so the sign flips when
// the turn changes hands.
func (u uct) score(chooser game.Color, child Node) float64 {
	player, rewards, visits := child.stats()
	if visits == 0 {
		return math.Inf(1)
	}
	return u.evaluate(computeReward(player, rewards, chooser), visits)
}

// virtualLoss is the temporary reward a child takes while a goroutine is
// exploring below it, a loss as seen by the chooser.
func virtualLoss(chooser, player game.Color) float64 {
	return computeReward(chooser, Loss, player)
}
