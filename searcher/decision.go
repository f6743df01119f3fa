package searcher

import (
	"catan/game"
	"sync"
)

type decision struct {
	sync.RWMutex
	parent   Node
	player   game.Color // Player to act
	hash     game.StateHash
	moves    []game.Move
	children []Node // children[i] follows moves[i], expanded in move order
	loss     float64
	rewards  float64
	visits   float64
}

// newDecision creates the node for state. chooser is the player whose move
// led here, NoColor for the root.
func newDecision(parent Node, chooser game.Color, state game.State) *decision {
	moves := state.LegalMoves()
	player := state.Player()

	var loss float64
	if parent != nil {
		loss = virtualLoss(chooser, player)
	}

	return &decision{
		parent:   parent,
		player:   player,
		hash:     state.Hash(),
		moves:    moves,
		children: make([]Node, 0, len(moves)),
		loss:     loss,
	}
}

func (d *decision) SelectOrExpand(state game.State) (Node, game.State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.moves) > len(d.children) { // Expandable node
		child, state := d.addChild(state)
		child.applyLoss()
		return child, state, false
	}

	// Fully expanded node
	i := d.pickChild()
	child := d.children[i]
	child.applyLoss()
	return child, play(state, d.moves[i]), true
}

func (d *decision) addChild(state game.State) (Node, game.State) {
	move := d.moves[len(d.children)]
	next := play(state, move)
	var child Node
	if move.IsStochastic() {
		child = newChance(d)
	} else {
		child = newDecision(d, d.player, next)
	}
	d.children = append(d.children, child)
	return child, next
}

func (d *decision) pickChild() int {
	if d.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCT(CSquared, d.visits)

	maxIndex := -1
	maxScore := 0.0
	for i, child := range d.children {
		score := policy.score(d.player, child)
		if maxIndex < 0 || score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += d.loss
	d.visits++
}

func (d *decision) stats() (game.Color, float64, float64) {
	d.RLock()
	defer d.RUnlock()

	return d.player, d.rewards, d.visits
}

func (d *decision) Backup(player game.Color, score float64) Node {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += computeReward(player, score, d.player)
	d.visits++

	return d.parent
}

func (d *decision) reverseLoss() {
	d.rewards -= d.loss
	d.visits--
}

// Policy returns the share of visits each explored move received.
func (d *decision) Policy() map[game.Move]float64 {
	d.RLock()
	defer d.RUnlock()

	total := 0.0
	visits := make([]float64, len(d.children))
	for i, child := range d.children {
		_, _, visits[i] = child.stats()
		total += visits[i]
	}

	policy := make(map[game.Move]float64, len(d.children))
	for i := range d.children {
		if total > 0 {
			policy[d.moves[i]] = visits[i] / total
		}
	}
	return policy
}

func (d *decision) expanded() bool {
	d.RLock()
	defer d.RUnlock()

	return len(d.children) > 0
}

// bestMove returns the most visited move, the first one on ties.
func (d *decision) bestMove() game.Move {
	d.RLock()
	defer d.RUnlock()

	if len(d.children) == 0 {
		panic("node has no children")
	}

	bestIndex := 0
	_, _, maxVisits := d.children[0].stats()
	for i, child := range d.children[1:] {
		if _, _, v := child.stats(); v > maxVisits {
			maxVisits = v
			bestIndex = i + 1
		}
	}
	return d.moves[bestIndex]
}
