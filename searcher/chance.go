package searcher

import (
	"catan/game"
	"sync"
)

// chance stands for one stochastic move of its parent decision. The outcome
// is drawn by Play before the node sees the state, so all the node does is
// file each state it is handed under its hash. It belongs to the mover, who
// also bears its virtual loss.
type chance struct {
	sync.RWMutex
	parent   Node
	player   game.Color
	outcomes map[game.StateHash]*decision
	rewards  float64
	visits   float64
}

func newChance(parent *decision) *chance {
	return &chance{
		parent:   parent,
		player:   parent.player,
		outcomes: make(map[game.StateHash]*decision),
	}
}

// SelectOrExpand reports selected when the outcome was seen before.
func (c *chance) SelectOrExpand(state game.State) (Node, game.State, bool) {
	hash := state.Hash()

	c.Lock()
	if c.outcomes == nil {
		c.outcomes = make(map[game.StateHash]*decision)
	}
	outcome, seen := c.outcomes[hash]
	if !seen {
		outcome = newDecision(c, c.player, state)
		c.outcomes[hash] = outcome
	}
	c.Unlock()

	outcome.applyLoss()
	return outcome, state, seen
}

func (c *chance) applyLoss() {
	c.Lock()
	defer c.Unlock()

	c.rewards += Loss
	c.visits++
}

func (c *chance) stats() (game.Color, float64, float64) {
	c.RLock()
	defer c.RUnlock()

	return c.player, c.rewards, c.visits
}

// Backup swaps the virtual loss for the episode's reward. The visit it
// counted stays.
func (c *chance) Backup(player game.Color, score float64) Node {
	c.Lock()
	defer c.Unlock()

	c.rewards += computeReward(player, score, c.player) - Loss
	return c.parent
}
