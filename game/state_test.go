package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestState(t *testing.T, colors ...Color) *GameState {
	t.Helper()
	gs, err := NewGameState(colors, StandardLayout(), NewStandardRules(), 1)
	require.NoError(t, err)
	return gs
}

// mainState skips the initial placement and hands the first player a turn
// that has already been rolled.
func mainState(t *testing.T, colors ...Color) *GameState {
	t.Helper()
	gs := newTestState(t, colors...)
	gs.Phase = MainPhase
	gs.Dice = [2]int{1, 2}
	return gs
}

// give moves cards from the bank into a player's hand.
func give(gs *GameState, i int, cards Hand) {
	gs.Bank = gs.Bank.Sub(cards)
	gs.Players[i].Hand = gs.Players[i].Hand.Add(cards)
}

func settle(gs *GameState, i int, n NodeID) {
	gs.Buildings[n] = Site{Owner: gs.Players[i].Color, Building: Settlement}
	gs.Players[i].Settlements++
}

func interiorNode(t *testing.T, topology *Topology) NodeID {
	t.Helper()
	for n := range topology.NodeTiles {
		if len(topology.NodeTiles[n]) == 3 {
			return NodeID(n)
		}
	}
	t.Fatal("no interior node")
	return NoNode
}

func countMoves(moves []GameMove, actionType ActionType) int {
	count := 0
	for _, m := range moves {
		if m.ActionType == actionType {
			count++
		}
	}
	return count
}

// playRandomly plays legal moves chosen at random and hands every transition to check.
func playRandomly(t *testing.T, gs *GameState, steps int, seed uint64, check func(before, after *GameState, move GameMove)) *GameState {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < steps; i++ {
		moves := gs.GameMoves()
		if len(moves) == 0 {
			require.NotEqual(t, NoColor, gs.Winner(), "Only a finished game should have no moves")
			break
		}
		move := moves[rng.Intn(len(moves))]
		next, err := gs.Apply(move)
		require.NoError(t, err, "Generated move %s should apply", move)
		check(gs, next, move)
		gs = next
	}
	return gs
}

func TestNewGameState(t *testing.T) {
	t.Run("empty board", func(t *testing.T) {
		gs := newTestState(t, Red, Blue)

		require.Equal(t, Red, gs.Player())
		require.Equal(t, InitialSettlementPhase, gs.Phase)
		require.Equal(t, gs.Map.Desert, gs.Robber)
		require.Equal(t, 5*19, gs.ResourceCount(), "Bank should hold every card")
		require.Len(t, gs.Deck, 25)
		require.Equal(t, NoColor, gs.Winner())
	})

	t.Run("rejecting duplicate colors", func(t *testing.T) {
		_, err := NewGameState([]Color{Red, Red}, StandardLayout(), NewStandardRules(), 1)

		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr)
		require.Equal(t, "players", configErr.Field)
	})

	t.Run("rejecting too many players", func(t *testing.T) {
		_, err := NewGameState([]Color{Red, Blue, Orange, White, Red}, StandardLayout(), NewStandardRules(), 1)

		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr)
	})

	t.Run("rejecting invalid rules", func(t *testing.T) {
		rules := NewStandardRules()
		rules.VictoryPoints = 0
		_, err := NewGameState([]Color{Red, Blue}, StandardLayout(), rules, 1)

		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr)
		require.Equal(t, "victory_points", configErr.Field)
	})

	t.Run("seed shuffles the deck", func(t *testing.T) {
		a, err := NewGameState([]Color{Red, Blue}, StandardLayout(), NewStandardRules(), 1)
		require.NoError(t, err)
		b, err := NewGameState([]Color{Red, Blue}, StandardLayout(), NewStandardRules(), 1)
		require.NoError(t, err)
		c, err := NewGameState([]Color{Red, Blue}, StandardLayout(), NewStandardRules(), 2)
		require.NoError(t, err)

		require.Equal(t, a.Deck, b.Deck, "Same seed should shuffle identically")
		require.NotEqual(t, a.Deck, c.Deck, "Different seeds should shuffle differently")
	})
}

func TestCopy(t *testing.T) {
	gs := mainState(t, Red, Blue)
	give(gs, 0, RoadCost)
	settle(gs, 0, 0)

	copied := gs.Copy()
	copied.Buildings[1] = Site{Owner: Blue, Building: City}
	copied.Roads[0] = Blue
	copied.Players[0].Hand = Hand{}
	copied.PendingDiscard[0] = true

	require.Equal(t, Site{}, gs.Buildings[1], "Copy should not share buildings")
	require.Equal(t, NoColor, gs.Roads[0], "Copy should not share roads")
	require.Equal(t, RoadCost, gs.Players[0].Hand, "Copy should not share players")
	require.False(t, gs.PendingDiscard[0])
}

func TestHash(t *testing.T) {
	gs := mainState(t, Red, Blue)
	same := gs.Copy()
	require.Equal(t, gs.Hash(), same.Hash(), "Equal states should hash equally")

	settle(same, 0, 0)
	require.NotEqual(t, gs.Hash(), same.Hash(), "A building should change the hash")

	reseeded := gs.Reseed(42)
	require.Equal(t, gs.Hash(), reseeded.Hash(), "The hidden seed is not part of the hash")
}

func TestReseed(t *testing.T) {
	gs := newTestState(t, Red, Blue)
	gs.Deck = gs.Deck[3:]
	original := append([]DevCard(nil), gs.Deck...)

	t.Run("hiding the deck order", func(t *testing.T) {
		reseeded := gs.Reseed(42).(*GameState)

		require.Equal(t, original, gs.Deck, "Reseeding should not touch the real deck")
		require.ElementsMatch(t, original, reseeded.Deck, "The same cards should remain")
		require.NotEqual(t, original, reseeded.Deck, "The undrawn order should be redrawn")
	})

	t.Run("same seed same deck", func(t *testing.T) {
		a := gs.Reseed(7).(*GameState)
		b := gs.Reseed(7).(*GameState)

		require.Equal(t, a.Deck, b.Deck)
		require.Equal(t, uint64(7), a.Seed)
	})

	t.Run("purchases draw from the redrawn deck", func(t *testing.T) {
		gs := mainState(t, Red, Blue)
		give(gs, 0, DevelopmentCardCost)
		reseeded := gs.Reseed(42).(*GameState)

		next, err := reseeded.Apply(BuyDevelopmentCard())
		require.NoError(t, err)

		require.Equal(t, 1, next.Players[0].DevCards[reseeded.Deck[0]])
	})
}

func TestVictoryPoints(t *testing.T) {
	gs := mainState(t, Red, Blue)
	gs.Players[0].Settlements = 2
	gs.Players[0].Cities = 1
	gs.Players[0].DevCards[VictoryPoint] = 1
	gs.LongestRoad = Record{Color: Red, Size: 5}

	require.Equal(t, 6, gs.PublicVictoryPoints(Red))
	require.Equal(t, 7, gs.VictoryPoints(Red), "Victory point cards are hidden")
	require.Zero(t, gs.VictoryPoints(Blue))
	require.Zero(t, gs.VictoryPoints(White), "Unseated colors have no points")
}
