package game

import "golang.org/x/exp/slices"

// Heuristic feature names
const (
	PublicVPs            = "public_vps"
	Production           = "production"
	EnemyProduction      = "enemy_production"
	NumTiles             = "num_tiles"
	ReachableProduction0 = "reachable_production_0"
	ReachableProduction1 = "reachable_production_1"
	BuildableNodes       = "buildable_nodes"
	LongestRoad          = "longest_road"
	HandSynergy          = "hand_synergy"
	HandResources        = "hand_resources"
	DiscardPenalty       = "discard_penalty"
	HandDevs             = "hand_devs"
	ArmySize             = "army_size"
)

// Weights maps feature names to coefficients of the linear evaluation. Names
// this package does not know are ignored, missing names weigh zero.
type Weights map[string]float64

// DefaultWeights favours winning at all costs, then production, then expansion.
func DefaultWeights() Weights {
	return Weights{
		// Where to place. Note winning is best at all costs
		PublicVPs:       3e14,
		Production:      1e8,
		EnemyProduction: -1e8,
		NumTiles:        1,
		// Towards where to expand and when
		ReachableProduction0: 0,
		ReachableProduction1: 1e4,
		BuildableNodes:       1e3,
		LongestRoad:          10,
		// Hand, when to hold and when to use
		HandSynergy:    1e2,
		HandResources:  1,
		DiscardPenalty: -5,
		HandDevs:       10,
		ArmySize:       10.1,
	}
}

// Copy returns an independent copy, so sweeps can vary one weight safely.
func (w Weights) Copy() Weights {
	out := make(Weights, len(w))
	for name, value := range w {
		out[name] = value
	}
	return out
}

// FeatureNames lists every feature the evaluator computes, sorted.
func FeatureNames() []string {
	return sortedNames(features)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type feature func(gs *GameState, i int) float64

var features = map[string]feature{
	PublicVPs: func(gs *GameState, i int) float64 {
		return float64(gs.PublicVictoryPoints(gs.Players[i].Color))
	},
	Production: func(gs *GameState, i int) float64 {
		return gs.production(gs.Players[i].Color)
	},
	EnemyProduction: func(gs *GameState, i int) float64 {
		total := 0.0
		for j, p := range gs.Players {
			if j != i {
				total += gs.production(p.Color)
			}
		}
		return total
	},
	NumTiles: func(gs *GameState, i int) float64 {
		return float64(gs.adjacentTiles(gs.Players[i].Color))
	},
	ReachableProduction0: func(gs *GameState, i int) float64 {
		return gs.reachableProduction(i, 0)
	},
	ReachableProduction1: func(gs *GameState, i int) float64 {
		return gs.reachableProduction(i, 1)
	},
	BuildableNodes: func(gs *GameState, i int) float64 {
		return float64(len(gs.BuildableNodes(gs.Players[i].Color)))
	},
	LongestRoad: func(gs *GameState, i int) float64 {
		return float64(gs.Players[i].RoadLength)
	},
	HandSynergy: func(gs *GameState, i int) float64 {
		return handSynergy(gs.Players[i].Hand)
	},
	HandResources: func(gs *GameState, i int) float64 {
		return float64(gs.Players[i].Hand.Total())
	},
	DiscardPenalty: func(gs *GameState, i int) float64 {
		if hand := gs.Players[i].Hand; gs.mustDiscard(hand) {
			return float64(hand.Total())
		}
		return 0
	},
	HandDevs: func(gs *GameState, i int) float64 {
		return float64(gs.Players[i].DevCards.Total())
	},
	ArmySize: func(gs *GameState, i int) float64 {
		return float64(gs.Players[i].Knights)
	},
}

// Features computes every named feature of the state for a player.
func Features(gs *GameState, player Color) map[string]float64 {
	i := gs.IndexOf(player)
	out := make(map[string]float64, len(features))
	if i < 0 {
		return out
	}
	for name, f := range features {
		out[name] = f(gs, i)
	}
	return out
}

// Score is the weighted sum of features from player's perspective. Terms are
// added in sorted name order so the result is bit-for-bit reproducible.
func Score(gs *GameState, player Color, weights Weights) float64 {
	i := gs.IndexOf(player)
	if i < 0 {
		return 0
	}
	score := 0.0
	for _, name := range sortedNames(weights) {
		f, ok := features[name]
		w := weights[name]
		if !ok || w == 0 {
			continue
		}
		score += w * f(gs, i)
	}
	return score
}

// Evaluate adapts the weights to the searcher's evaluation function type.
func (w Weights) Evaluate() Evaluate {
	return func(s State, player Color) float64 {
		gs, ok := s.(*GameState)
		if !ok {
			panic("unexpected state type")
		}
		return Score(gs, player, w)
	}
}

// EvaluateLead is the player's victory point margin over the best opponent as
// a fraction of the target, so it stays within [-1, 1] like a game outcome.
func EvaluateLead(s State, player Color) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		panic("unexpected state type")
	}
	best := 0
	for _, p := range gs.Players {
		if p.Color != player {
			best = max(best, gs.VictoryPoints(p.Color))
		}
	}
	lead := float64(gs.VictoryPoints(player)-best) / float64(gs.Rules.VictoryPointsToWin())
	return min(max(lead, -1), 1)
}

// nodeProduction is the expected number of cards per roll a settlement on n
// would collect. Tiles under the robber produce nothing.
func (gs *GameState) nodeProduction(n NodeID) float64 {
	total := 0.0
	for _, t := range gs.Map.Topology.NodeTiles[n] {
		if t == gs.Robber {
			continue
		}
		total += Probability(gs.Map.Tiles[t].Number)
	}
	return total
}

// production sums the expected yield of a color's buildings, cities counting double.
func (gs *GameState) production(c Color) float64 {
	total := 0.0
	for n, site := range gs.Buildings {
		if site.Owner != c {
			continue
		}
		yield := gs.nodeProduction(NodeID(n))
		if site.Building == City {
			yield *= 2
		}
		total += yield
	}
	return total
}

func (gs *GameState) adjacentTiles(c Color) int {
	seen := make(map[TileID]bool)
	for n, site := range gs.Buildings {
		if site.Owner != c {
			continue
		}
		for _, t := range gs.Map.Topology.NodeTiles[n] {
			seen[t] = true
		}
	}
	return len(seen)
}

// reachableProduction sums the production of nodes the player could settle
// after building the given number of additional roads (0 or 1).
func (gs *GameState) reachableProduction(i int, roads int) float64 {
	c := gs.Players[i].Color
	topology := gs.Map.Topology
	reachable := make(map[NodeID]bool)
	for _, n := range gs.BuildableNodes(c) {
		reachable[n] = true
	}
	if roads > 0 {
		for e := range gs.Roads {
			edge := EdgeID(e)
			if gs.Roads[edge] != NoColor || !gs.touchesNetwork(i, edge) {
				continue
			}
			for _, n := range topology.EdgeNodes[edge] {
				if gs.distanceRuleHolds(n) {
					reachable[n] = true
				}
			}
		}
	}

	total := 0.0
	for n := 0; n < topology.NumNodes(); n++ {
		if reachable[NodeID(n)] {
			total += gs.nodeProduction(NodeID(n))
		}
	}
	return total
}

// handSynergy is 1 when the hand can pay for both a city and a settlement and
// falls towards 0 the further it is from either.
func handSynergy(hand Hand) float64 {
	toCity := float64(max(2-hand[Wheat], 0)+max(3-hand[Ore], 0)) / 5
	toSettlement := float64(max(1-hand[Wheat], 0)+max(1-hand[Sheep], 0)+max(1-hand[Brick], 0)+max(1-hand[Wood], 0)) / 4
	return (2 - toCity - toSettlement) / 2
}
