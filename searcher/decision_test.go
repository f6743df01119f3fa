package searcher

import (
	"catan/game"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Tests parallel MCTS (tree parallelization with virtual loss) on decision nodes
sequential:
- selection:
	- happy path: fully expanded node -> max UCB child + loss, child state
	- turn change: child rewards are flipped to the chooser's perspective
	- edge case: terminal node -> same node, same state
- expansion:
	- happy path: expandable node -> new child in move order + loss, child state
- backup:
	- happy path: [new child, selected children]: reverse loss, visits++, update rewards; [root] visits++, update rewards
concurrent: 3 race conditions
- shared expansion
- shared backup
- shared selection + backup
*/

func TestNewDecision(t *testing.T) {
	t.Run("root node carries no virtual loss", func(t *testing.T) {
		state := mockState{player: game.Red, moves: []game.Move{mockMove{id: 0}}, hash: 7}

		node := newDecision(nil, game.NoColor, state)

		require.Equal(t, game.Red, node.player, "Node should belong to the player to act")
		require.Equal(t, game.StateHash(7), node.hash, "Node should remember the state hash")
		require.Equal(t, 0.0, node.loss, "Root should not take a virtual loss")
		require.Empty(t, node.children, "Node should start unexpanded")
	})

	t.Run("same player keeps the loss", func(t *testing.T) {
		node := newDecision(&decision{}, game.Red, mockState{player: game.Red})

		require.Equal(t, Loss, node.loss, "Virtual loss should be a loss for the same player")
	})

	t.Run("turn change flips the loss", func(t *testing.T) {
		node := newDecision(&decision{}, game.Red, mockState{player: game.Blue})

		require.Equal(t, Win, node.loss, "A loss for the chooser is a win for the opponent")
	})
}

func TestDecisionSelectOrExpand(t *testing.T) {
	t.Run("selecting fully expanded node (all deterministic moves explored)", func(t *testing.T) {
		maxMove := mockMove{id: 1}
		maxChild := &decision{player: game.Red, loss: Loss, rewards: 1, visits: 1}
		otherChild := &decision{player: game.Red, loss: Loss, rewards: 0, visits: 1}
		node := &decision{
			player:   game.Red,
			moves:    []game.Move{mockMove{id: 0}, maxMove},
			children: []Node{otherChild, maxChild},
			rewards:  1,
			visits:   2,
		}
		state := mockState{player: game.Red}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, maxChild, gotChild, "Node should select child with max policy value")
		require.IsType(t, &decision{}, gotChild, "Child should be a decision node")
		require.Equal(t, 1+Loss, gotChild.(*decision).rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, gotChild.(*decision).visits, "Child should apply a temporary loss")
		require.Equal(t, []game.Move{maxMove}, gotState.(mockState).played, "State should update by the move to the max policy child")
		require.True(t, gotSelected, "Node should perform selection")
		require.Equal(t, 1.0, node.rewards, "Node stats should not change")
		require.Equal(t, 2.0, node.visits, "Node stats should not change")
	})

	t.Run("selecting fully expanded node (all stochastic moves explored)", func(t *testing.T) {
		maxMove := mockMove{id: 1, stochastic: true}
		maxChild := &chance{player: game.Red, rewards: 1, visits: 1}
		otherChild := &chance{player: game.Red, rewards: 0, visits: 1}
		node := &decision{
			player:   game.Red,
			moves:    []game.Move{mockMove{id: 0, stochastic: true}, maxMove},
			children: []Node{otherChild, maxChild},
			rewards:  1,
			visits:   2,
		}
		state := mockState{player: game.Red}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, maxChild, gotChild, "Node should select child with max policy value")
		require.IsType(t, &chance{}, gotChild, "Child should be a chance node")
		require.Equal(t, 1+Loss, gotChild.(*chance).rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, gotChild.(*chance).visits, "Child should apply a temporary loss")
		require.Equal(t, []game.Move{maxMove}, gotState.(mockState).played, "State should update by the move to the max policy child")
		require.True(t, gotSelected, "Node should perform selection")
	})

	t.Run("selecting fully expanded node with turn change", func(t *testing.T) {
		minMove := mockMove{id: 1}
		minChild := &decision{player: game.Blue, loss: Win, rewards: 0, visits: 1}
		otherChild := &decision{player: game.Blue, loss: Win, rewards: 1, visits: 1}
		node := &decision{
			player:   game.Red,
			moves:    []game.Move{mockMove{id: 0}, minMove},
			children: []Node{otherChild, minChild},
			rewards:  1,
			visits:   2,
		}
		state := mockState{player: game.Red}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, minChild, gotChild, "Node should select the child that minimizes opponent rewards")
		require.Equal(t, Win, gotChild.(*decision).rewards, "Child should apply a temporary loss as seen by the chooser")
		require.Equal(t, 2.0, gotChild.(*decision).visits, "Child should apply a temporary loss")
		require.Equal(t, []game.Move{minMove}, gotState.(mockState).played, "State should update by the move to the selected child")
		require.True(t, gotSelected, "Node should perform selection")
	})

	t.Run("preferring unvisited children", func(t *testing.T) {
		unvisited := &decision{player: game.Red, loss: Loss}
		visited := &decision{player: game.Red, loss: Loss, rewards: 1, visits: 1}
		node := &decision{
			player:   game.Red,
			moves:    []game.Move{mockMove{id: 0}, mockMove{id: 1}},
			children: []Node{visited, unvisited},
			visits:   1,
		}

		gotChild, _, _ := node.SelectOrExpand(mockState{player: game.Red})

		require.Equal(t, unvisited, gotChild, "An unvisited child should score infinitely high")
	})

	t.Run("panicking when selecting without visits", func(t *testing.T) {
		node := &decision{
			player:   game.Red,
			moves:    []game.Move{mockMove{id: 0}},
			children: []Node{&decision{}},
		}

		require.Panics(t, func() { node.SelectOrExpand(mockState{}) }, "Selection needs parent visits")
	})

	t.Run("expanding node with unexplored deterministic moves", func(t *testing.T) {
		unexploredMove := mockMove{id: 1}
		node := &decision{
			player:   game.Red,
			moves:    []game.Move{mockMove{id: 0}, unexploredMove},
			children: []Node{&decision{rewards: 1, visits: 1}},
			visits:   1,
		}
		state := mockState{player: game.Red}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.IsType(t, &decision{}, gotChild, "Child should be a decision node")
		require.Equal(t, Loss, gotChild.(*decision).rewards, "Child should apply a temporary loss")
		require.Equal(t, 1.0, gotChild.(*decision).visits, "Child should apply a temporary loss")
		require.Equal(t, 2, len(node.children), "Node should add a new child")
		require.Equal(t, []game.Move{unexploredMove}, gotState.(mockState).played, "State should update by the next move in order")
		require.False(t, gotSelected, "Node should perform expansion")
	})

	t.Run("expanding node with unexplored stochastic moves", func(t *testing.T) {
		unexploredMove := mockMove{id: 1, stochastic: true}
		node := &decision{
			player:   game.Red,
			moves:    []game.Move{mockMove{id: 0, stochastic: true}, unexploredMove},
			children: []Node{&chance{rewards: 1, visits: 1}},
			visits:   1,
		}
		state := mockState{player: game.Red}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.IsType(t, &chance{}, gotChild, "Child should be a chance node")
		require.Equal(t, game.Red, gotChild.(*chance).player, "Chance node should belong to the mover")
		require.Equal(t, Loss, gotChild.(*chance).rewards, "Child should apply a temporary loss")
		require.Equal(t, 1.0, gotChild.(*chance).visits, "Child should apply a temporary loss")
		require.Equal(t, []game.Move{unexploredMove}, gotState.(mockState).played, "State should update by the next move in order")
		require.False(t, gotSelected, "Node should perform expansion")
		require.Equal(t, 2, len(node.children), "Node should add a new child")
	})

	t.Run("stagnating on terminal node", func(t *testing.T) {
		node := &decision{}
		state := mockState{}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, node, gotChild, "Should return the same node")
		require.Equal(t, mockState{}, gotState, "Should return the same state")
		require.False(t, gotSelected, "Should not select any child or expand")
	})
}

func TestDecisionBackup(t *testing.T) {
	t.Run("recording win on root node", func(t *testing.T) {
		node := &decision{player: game.Red}

		got := node.Backup(game.Red, Win)

		require.Nil(t, got, "Should return no parent")
		require.Equal(t, Win, node.rewards, "Should apply a win reward")
		require.Equal(t, 1.0, node.visits, "Should add a visit")
	})

	t.Run("recording win on deterministic outcome node", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			player:  game.Red,
			loss:    Loss,
			rewards: Loss,
			visits:  1,
		}

		got := node.Backup(game.Red, Win)

		require.Equal(t, parent, got, "Should return the parent node")
		require.Equal(t, Win, node.rewards, "Should reverse virtual loss and add a win")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording win on stochastic outcome node", func(t *testing.T) {
		parent := &chance{}
		node := &decision{
			parent:  parent,
			player:  game.Red,
			loss:    Loss,
			rewards: Loss,
			visits:  1,
		}

		got := node.Backup(game.Red, Win)

		require.Equal(t, parent, got, "Should return the parent node")
		require.Equal(t, Win, node.rewards, "Should reverse virtual loss and add a win")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording loss after turn change", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			player:  game.Blue,
			loss:    Win,
			rewards: Win,
			visits:  1,
		}

		got := node.Backup(game.Red, Win)

		require.Equal(t, parent, got, "Should return the parent node")
		require.Equal(t, Loss, node.rewards, "Should reverse virtual loss and add a loss")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording a cutoff score", func(t *testing.T) {
		node := &decision{player: game.Blue}

		node.Backup(game.Red, 0.25)

		require.Equal(t, -0.25, node.rewards, "Should negate the score of the other player")
	})
}

func TestDecisionPolicy(t *testing.T) {
	t.Run("sharing visits among explored moves", func(t *testing.T) {
		moves := []game.Move{mockMove{id: 0}, mockMove{id: 1}, mockMove{id: 2}}
		node := &decision{
			player:   game.Red,
			moves:    moves,
			children: []Node{&decision{visits: 3}, &decision{visits: 1}},
		}

		got := node.Policy()

		require.Equal(t, map[game.Move]float64{moves[0]: 0.75, moves[1]: 0.25}, got, "Policy should be the visit share")
	})

	t.Run("picking the most visited move", func(t *testing.T) {
		moves := []game.Move{mockMove{id: 0}, mockMove{id: 1}, mockMove{id: 2}}
		node := &decision{
			moves:    moves,
			children: []Node{&decision{visits: 1}, &decision{visits: 4}, &chance{visits: 2}},
		}

		require.Equal(t, moves[1], node.bestMove(), "Should pick the move with most visits")
	})

	t.Run("breaking ties by move order", func(t *testing.T) {
		moves := []game.Move{mockMove{id: 0}, mockMove{id: 1}}
		node := &decision{
			moves:    moves,
			children: []Node{&decision{visits: 2}, &decision{visits: 2}},
		}

		require.Equal(t, moves[0], node.bestMove(), "Should pick the first of equally visited moves")
	})

	t.Run("panicking without children", func(t *testing.T) {
		require.Panics(t, func() { (&decision{}).bestMove() })
	})
}

func TestDecisionRaceConditions(t *testing.T) {
	t.Run("concurrent expansion", func(t *testing.T) {
		node := &decision{
			player:   game.Red,
			moves:    []game.Move{mockMove{id: 0}, mockMove{id: 1}},
			children: []Node{},
		}

		var wg sync.WaitGroup
		type result struct {
			child    Node
			state    mockState
			selected bool
		}
		var got [2]result

		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				gotChild, gotState, gotSelected := node.SelectOrExpand(mockState{player: game.Red})
				got[i] = result{gotChild, gotState.(mockState), gotSelected}
			}()
		}
		wg.Wait()

		require.Equal(t, 2, len(node.children), "Node should have two children")
		for i := 0; i < 2; i++ {
			require.IsType(t, &decision{}, got[i].child, "Child should be a decision node")
			require.Equal(t, Loss, got[i].child.(*decision).rewards, "Child should apply a temporary loss")
			require.Equal(t, 1.0, got[i].child.(*decision).visits, "Child should apply a temporary loss")
			require.False(t, got[i].selected, "Node should be expanded")
		}
		require.NotEqual(t, got[0].state.played[0], got[1].state.played[0], "Node should expand with different moves")
	})

	t.Run("concurrent backup", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			player:  game.Red,
			loss:    Loss,
			rewards: Loss * 2, // 2 virtual losses
			visits:  2,
		}

		var wg sync.WaitGroup
		parents := make([]Node, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				parents[i] = node.Backup(game.Red, Win)
			}()
		}
		wg.Wait()

		require.Equal(t, []Node{parent, parent}, parents, "Should return the parent node")
		require.Equal(t, Win*2, node.rewards, "Node should reverse virtual losses and add two wins")
		require.Equal(t, 2.0, node.visits, "Node should reverse virtual losses and add two visits")
	})

	t.Run("concurrent selection and backup", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			player:  game.Red,
			loss:    Loss,
			rewards: Loss, // Virtual loss
			visits:  3,
		}
		child := &decision{
			parent: node,
			player: game.Red,
			loss:   Loss,
			visits: 1,
		}
		move := mockMove{id: 0}
		node.moves = []game.Move{move}
		node.children = []Node{child}

		var wg sync.WaitGroup
		wg.Add(2)

		var gotChild Node
		var gotState game.State
		var gotSelected bool
		go func() {
			defer wg.Done()
			gotChild, gotState, gotSelected = node.SelectOrExpand(mockState{player: game.Red})
		}()

		var gotParent Node
		go func() {
			defer wg.Done()
			gotParent = node.Backup(game.Red, Win)
		}()

		wg.Wait()

		require.Equal(t, child, gotChild, "Node should select the child")
		require.Equal(t, move, gotState.(mockState).played[0], "State should update by the move to the child")
		require.True(t, gotSelected, "Node should perform selection")
		require.Equal(t, parent, gotParent, "Node should return its parent")

		require.Equal(t, Loss, child.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, child.visits, "Child should apply a temporary loss")
		require.Equal(t, Win, node.rewards, "Node should reverse virtual loss and add a win")
		require.Equal(t, 3.0, node.visits, "Node should reverse virtual loss and add a visit")
	})
}
