package game

import (
	"encoding/binary"
	"hash/fnv"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

type Building int8

const (
	NoBuilding Building = iota
	Settlement
	City
)

// Site is the occupancy of a node. The zero value is an empty node.
type Site struct {
	Owner    Color
	Building Building
}

// Record is a bonus holder (longest road, largest army) with its size.
type Record struct {
	Color Color
	Size  int
}

// PlayerState is one seat's private and public holdings. It holds only value
// fields so copying it never aliases.
type PlayerState struct {
	Color          Color
	Hand           Hand
	DevCards       DevHand // Unplayed cards in hand, including this turn's purchases
	BoughtThisTurn DevHand
	Knights        int // Played knights
	RoadLength     int // Longest contiguous road
	Roads          int // Pieces on the board
	Settlements    int
	Cities         int
}

// GameState represents the dynamic state of the game at any point. The map is
// shared and static, everything else is copied on every Play.
type GameState struct {
	Map            *Map
	Rules          Rules
	Players        []PlayerState // Turn order
	Buildings      []Site        // Indexed by NodeID
	Roads          []Color       // Indexed by EdgeID, NoColor when empty
	Bank           Hand
	Deck           []DevCard // Drawn from the front, never mutated in place
	Robber         TileID
	Phase          Phase
	Turn           int     // Index of the player whose turn it is
	Acting         int     // Index of the player who must act (differs while discarding)
	Dice           [2]int  // Dice of the current turn, zero before rolling
	SetupStep      int     // Placements made during the initial build phase
	LastSettlement NodeID  // Initial settlement awaiting its road
	PendingDiscard []bool  // Indexed by player, set on a 7 for hands over the limit
	PlayedCard     bool    // A development card was played this turn
	FreeRoads      int     // Remaining roads of a road building card
	LongestRoad    Record
	LargestArmy    Record
	TurnCount      int    // Completed turns
	Actions        int    // Moves applied since the start
	Seed           uint64 // Hidden source of chance outcomes
	Won            Color  // NoColor until somebody wins
}

// NewGameState initializes an empty board with players seated in the given order.
func NewGameState(colors []Color, m *Map, rules Rules, seed uint64) (*GameState, error) {
	if m == nil {
		return nil, NewConfigurationError("map", "must not be nil")
	}
	if rules == nil {
		return nil, NewConfigurationError("rules", "must not be nil")
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if len(colors) < MinPlayers || len(colors) > MaxPlayers {
		return nil, NewConfigurationError("players", "need %d to %d players, got %d", MinPlayers, MaxPlayers, len(colors))
	}
	players := make([]PlayerState, len(colors))
	for i, c := range colors {
		if c <= NoColor || c > White {
			return nil, NewConfigurationError("players", "unknown color %d", c)
		}
		if slices.Index(colors[:i], c) >= 0 {
			return nil, NewConfigurationError("players", "color %s seated twice", c)
		}
		players[i] = PlayerState{Color: c}
	}

	var bank Hand
	for _, r := range Resources() {
		bank[r] = rules.BankSize()
	}

	deck := StandardDeck()
	shuffleDeck(deck, rand.New(rand.NewSource(seed)))

	gs := &GameState{
		Map:            m,
		Rules:          rules,
		Players:        players,
		Buildings:      make([]Site, m.Topology.NumNodes()),
		Roads:          make([]Color, m.Topology.NumEdges()),
		Bank:           bank,
		Deck:           deck,
		Robber:         m.Desert,
		Phase:          InitialSettlementPhase,
		LastSettlement: NoNode,
		PendingDiscard: make([]bool, len(players)),
		Seed:           seed,
	}
	return gs, nil
}

func (gs GameState) Copy() *GameState {
	// Deep copy the occupancy
	buildingsCopy := make([]Site, len(gs.Buildings))
	copy(buildingsCopy, gs.Buildings)

	roadsCopy := make([]Color, len(gs.Roads))
	copy(roadsCopy, gs.Roads)

	// Players hold only value fields
	playersCopy := make([]PlayerState, len(gs.Players))
	copy(playersCopy, gs.Players)

	pendingCopy := make([]bool, len(gs.PendingDiscard))
	copy(pendingCopy, gs.PendingDiscard)

	// Deck is only ever resliced from the front, so sharing it is safe
	gs.Buildings = buildingsCopy
	gs.Roads = roadsCopy
	gs.Players = playersCopy
	gs.PendingDiscard = pendingCopy
	return &gs
}

// Player returns the color that must act next.
func (gs *GameState) Player() Color {
	return gs.Players[gs.Acting].Color
}

// TurnPlayer returns the color whose turn it is.
func (gs *GameState) TurnPlayer() Color {
	return gs.Players[gs.Turn].Color
}

func (gs *GameState) Winner() Color {
	return gs.Won
}

// Reseed returns a copy whose future chance outcomes come from a different
// seed. The undrawn deck is reshuffled too, so its order stays hidden.
func (gs *GameState) Reseed(seed uint64) State {
	next := *gs
	next.Seed = seed
	next.Deck = append([]DevCard(nil), gs.Deck...)
	shuffleDeck(next.Deck, rand.New(rand.NewSource(seed)))
	return &next
}

// IndexOf returns the seat of a color, or -1.
func (gs *GameState) IndexOf(c Color) int {
	for i := range gs.Players {
		if gs.Players[i].Color == c {
			return i
		}
	}
	return -1
}

// PlayerState returns a copy of the holdings of a color.
func (gs *GameState) PlayerState(c Color) (PlayerState, bool) {
	i := gs.IndexOf(c)
	if i < 0 {
		return PlayerState{}, false
	}
	return gs.Players[i], true
}

// PublicVictoryPoints counts buildings and bonuses visible to every player.
func (gs *GameState) PublicVictoryPoints(c Color) int {
	i := gs.IndexOf(c)
	if i < 0 {
		return 0
	}
	p := gs.Players[i]
	points := p.Settlements + 2*p.Cities
	if gs.LongestRoad.Color == c {
		points += BonusPoints
	}
	if gs.LargestArmy.Color == c {
		points += BonusPoints
	}
	return points
}

// VictoryPoints adds hidden victory point cards to the public count.
func (gs *GameState) VictoryPoints(c Color) int {
	i := gs.IndexOf(c)
	if i < 0 {
		return 0
	}
	return gs.PublicVictoryPoints(c) + gs.Players[i].DevCards[VictoryPoint]
}

// ResourceCount is the bank plus every hand. Play keeps it constant.
func (gs *GameState) ResourceCount() int {
	total := gs.Bank.Total()
	for _, p := range gs.Players {
		total += p.Hand.Total()
	}
	return total
}

// rng is a pure function of the seed and the number of moves played, so Play
// stays deterministic for a given state.
func (gs *GameState) rng() *rand.Rand {
	return rand.New(rand.NewSource(gs.Seed ^ (uint64(gs.Actions)+1)*0x9E3779B97F4A7C15))
}

func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()
	write := func(values ...int64) {
		for _, v := range values {
			binary.Write(hasher, binary.LittleEndian, v)
		}
	}

	write(int64(gs.Phase), int64(gs.Turn), int64(gs.Acting), int64(gs.Robber))
	write(int64(gs.Dice[0]), int64(gs.Dice[1]), int64(gs.FreeRoads), int64(len(gs.Deck)))
	write(int64(gs.LongestRoad.Color), int64(gs.LargestArmy.Color), int64(gs.Won))
	if gs.PlayedCard {
		write(1)
	} else {
		write(0)
	}

	// Hash occupancy
	for _, site := range gs.Buildings {
		write(int64(site.Owner)<<8 | int64(site.Building))
	}
	for _, owner := range gs.Roads {
		write(int64(owner))
	}

	// Hash holdings
	for i, p := range gs.Players {
		for _, n := range p.Hand {
			write(int64(n))
		}
		for _, n := range p.DevCards {
			write(int64(n))
		}
		write(int64(p.Knights))
		if gs.PendingDiscard[i] {
			write(1)
		} else {
			write(0)
		}
	}

	return StateHash(hasher.Sum64())
}
