package searcher

import (
	"catan/game"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type mockMove struct {
	id         int
	stochastic bool
}

func (m mockMove) IsStochastic() bool {
	return m.stochastic
}

type mockState struct {
	player game.Color
	moves  []game.Move
	played []game.Move
	hash   game.StateHash
}

func (m mockState) Player() game.Color {
	return m.player
}

func (m mockState) LegalMoves() []game.Move {
	return m.moves
}

func (m mockState) Play(move game.Move) (game.State, error) {
	return mockState{player: m.player, played: append(m.played, move)}, nil
}

func (m mockState) Hash() game.StateHash {
	return m.hash
}

func (m mockState) Winner() game.Color {
	return game.NoColor
}

// treeState is an explicit game tree. Moves are indices into children, and
// leaves carry their value for Red.
type treeState struct {
	id       game.StateHash
	player   game.Color
	value    float64
	winner   game.Color
	children []*treeState
	chance   []bool // Marks stochastic moves
}

func (s *treeState) Player() game.Color {
	return s.player
}

func (s *treeState) LegalMoves() []game.Move {
	moves := make([]game.Move, len(s.children))
	for i := range s.children {
		moves[i] = mockMove{id: i, stochastic: i < len(s.chance) && s.chance[i]}
	}
	return moves
}

func (s *treeState) Play(move game.Move) (game.State, error) {
	m, ok := move.(mockMove)
	if !ok || m.id < 0 || m.id >= len(s.children) {
		return nil, fmt.Errorf("illegal move %v", move)
	}
	return s.children[m.id], nil
}

func (s *treeState) Hash() game.StateHash {
	return s.id
}

func (s *treeState) Winner() game.Color {
	return s.winner
}

var nextTreeID atomic.Uint64

func leaf(value float64) *treeState {
	return &treeState{id: game.StateHash(nextTreeID.Add(1)), player: game.Red, value: value}
}

func node(player game.Color, children ...*treeState) *treeState {
	return &treeState{id: game.StateHash(nextTreeID.Add(1)), player: player, children: children}
}

func treeValue(s game.State, player game.Color) float64 {
	v := s.(*treeState).value
	if player == game.Red {
		return v
	}
	return -v
}

// midGame plays a seeded random game forward from the standard setup and
// stops at the first real decision after the given number of steps.
func midGame(t *testing.T, steps int, seed uint64) *game.GameState {
	t.Helper()
	gs, err := game.NewGameState([]game.Color{game.Red, game.Blue}, game.StandardLayout(), game.NewStandardRules(), seed)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < steps || len(gs.GameMoves()) < 2; i++ {
		require.Equal(t, game.NoColor, gs.Winner(), "Random play should not finish this early")
		moves := gs.GameMoves()
		gs, err = gs.Apply(moves[rng.Intn(len(moves))])
		require.NoError(t, err)
	}
	return gs
}
