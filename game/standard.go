package game

import "golang.org/x/exp/rand"

type StandardRules struct {
	VictoryPoints int
	MaxHandSize   int
	CardsPerKind  int
	TradeRate     int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		VictoryPoints: 10,
		MaxHandSize:   7,
		CardsPerKind:  19,
		TradeRate:     4,
	}
}

func (sr *StandardRules) VictoryPointsToWin() int {
	return sr.VictoryPoints
}

func (sr *StandardRules) DiscardLimit() int {
	return sr.MaxHandSize
}

func (sr *StandardRules) BankSize() int {
	return sr.CardsPerKind
}

func (sr *StandardRules) BankTradeRate() int {
	return sr.TradeRate
}

func (sr *StandardRules) Validate() error {
	switch {
	case sr.VictoryPoints <= 0:
		return NewConfigurationError("victory_points", "must be positive, got %d", sr.VictoryPoints)
	case sr.MaxHandSize <= 0:
		return NewConfigurationError("discard_limit", "must be positive, got %d", sr.MaxHandSize)
	case sr.CardsPerKind <= 0:
		return NewConfigurationError("bank_size", "must be positive, got %d", sr.CardsPerKind)
	case sr.TradeRate <= 0:
		return NewConfigurationError("trade_rate", "must be positive, got %d", sr.TradeRate)
	}
	return nil
}

// Beginner layout in topology tile order (row by row, north to south).
var standardResources = []Resource{
	Ore, Sheep, Wood,
	Wheat, Brick, Sheep, Brick,
	Wheat, Wood, Desert, Wood, Ore,
	Wood, Ore, Wheat, Sheep,
	Brick, Wheat, Sheep,
}

// Number tokens handed out in tile order, skipping the desert
var standardNumbers = []int{5, 2, 6, 3, 8, 10, 9, 12, 11, 4, 8, 10, 9, 4, 5, 6, 3, 11}

// StandardLayout returns the fixed beginner board on the standard topology.
func StandardLayout() *Map {
	return layout(StandardTopology(), standardResources, standardNumbers)
}

// RandomLayout shuffles resources and number tokens over the standard topology.
func RandomLayout(rng *rand.Rand) *Map {
	resources := append([]Resource(nil), standardResources...)
	numbers := append([]int(nil), standardNumbers...)
	rng.Shuffle(len(resources), func(i, j int) {
		resources[i], resources[j] = resources[j], resources[i]
	})
	rng.Shuffle(len(numbers), func(i, j int) {
		numbers[i], numbers[j] = numbers[j], numbers[i]
	})
	return layout(StandardTopology(), resources, numbers)
}

func layout(topology *Topology, resources []Resource, numbers []int) *Map {
	if len(resources) != topology.NumTiles() {
		panic("layout does not cover every tile")
	}
	tiles := make([]Tile, len(resources))
	next := 0
	for i, resource := range resources {
		tiles[i] = Tile{ID: TileID(i), Hex: topology.Hexes[i], Resource: resource}
		if resource != Desert {
			tiles[i].Number = numbers[next]
			next++
		}
	}
	m, err := NewMap(topology, tiles)
	if err != nil {
		panic(err)
	}
	return m
}
