package searcher

import (
	"catan/game"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(2.0, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(2.0, 100)
		got := policy.evaluate(5.0, 10)

		expected := 5.0/10 + math.Sqrt(2.0*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q/n + sqrt(c^2*ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Panics(t, func() {
			policy.evaluate(5.0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		// More parent visits -> higher exploration
		policy1 := newUCT(2.0, 100)
		policy2 := newUCT(2.0, 1000)
		rewards := 5.0
		visits := 10.0

		score1 := policy1.evaluate(rewards, visits)
		score2 := policy2.evaluate(rewards, visits)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		// More child visits -> lower exploration
		policy := newUCT(2.0, 100)
		rewards := 5.0

		score1 := policy.evaluate(rewards, 10)
		score2 := policy.evaluate(rewards, 20)

		require.Greater(t, score1, score2,
			"More child visits should decrease exploration term")
	})

	t.Run("exploitation term increases with rewards", func(t *testing.T) {
		policy := newUCT(2.0, 100)
		visits := 10.0

		score1 := policy.evaluate(5.0, visits)
		score2 := policy.evaluate(10.0, visits)

		require.Greater(t, score2, score1,
			"More rewards should increase exploitation term")
	})
}

func TestUCTScore(t *testing.T) {
	policy := newUCT(CSquared, 10)

	t.Run("unvisited child scores highest", func(t *testing.T) {
		require.True(t, math.IsInf(policy.score(game.Red, &decision{player: game.Red}), 1),
			"Unvisited children should be tried first")
	})

	t.Run("rewards flip for the opponent", func(t *testing.T) {
		mine := policy.score(game.Red, &decision{player: game.Red, rewards: 2, visits: 4})
		theirs := policy.score(game.Red, &decision{player: game.Blue, rewards: -2, visits: 4})

		require.InDelta(t, mine, theirs, 1e-12, "Opponent rewards should be negated")
		require.InDelta(t, policy.evaluate(2, 4), mine, 1e-12)
	})
}

func TestVirtualLoss(t *testing.T) {
	require.Equal(t, Loss, virtualLoss(game.Red, game.Red), "Same player takes a loss")
	require.Equal(t, Win, virtualLoss(game.Red, game.Blue), "Opponent takes a win")
}
