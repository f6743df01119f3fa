package game

// roadLength finds the longest trail (no edge used twice) through the color's
// roads. A trail may end at, but not pass through, an opponent's building.
func (gs *GameState) roadLength(c Color) int {
	topology := gs.Map.Topology
	used := make([]bool, len(gs.Roads))
	best := 0

	var walk func(node NodeID, length int)
	walk = func(node NodeID, length int) {
		if length > best {
			best = length
		}
		if site := gs.Buildings[node]; site.Owner != NoColor && site.Owner != c {
			return
		}
		for _, e := range topology.NodeEdges[node] {
			if used[e] || gs.Roads[e] != c {
				continue
			}
			used[e] = true
			walk(topology.Other(e, node), length+1)
			used[e] = false
		}
	}

	for e, owner := range gs.Roads {
		if owner != c {
			continue
		}
		edge := EdgeID(e)
		used[edge] = true
		for _, start := range topology.EdgeNodes[edge] {
			walk(topology.Other(edge, start), 1)
		}
		used[edge] = false
	}
	return best
}

// RoadLength returns the recorded longest road of a color.
func (gs *GameState) RoadLength(c Color) int {
	p, ok := gs.PlayerState(c)
	if !ok {
		return 0
	}
	return p.RoadLength
}

// updateLongestRoad recomputes every player's road and moves the bonus. The
// holder keeps it on a tie; a tie among challengers leaves it unclaimed.
func (gs *GameState) updateLongestRoad() {
	best := 0
	for i := range gs.Players {
		gs.Players[i].RoadLength = gs.roadLength(gs.Players[i].Color)
		best = max(best, gs.Players[i].RoadLength)
	}

	if holder := gs.IndexOf(gs.LongestRoad.Color); holder >= 0 {
		if length := gs.Players[holder].RoadLength; length == best && length >= MinLongestRoad {
			gs.LongestRoad.Size = length
			return
		}
	}

	gs.LongestRoad = Record{}
	if best < MinLongestRoad {
		return
	}
	leader := NoColor
	for _, p := range gs.Players {
		if p.RoadLength != best {
			continue
		}
		if leader != NoColor {
			return
		}
		leader = p.Color
	}
	gs.LongestRoad = Record{Color: leader, Size: best}
}

// updateLargestArmy hands the bonus to a player with strictly more knights than the holder.
func (gs *GameState) updateLargestArmy(i int) {
	p := gs.Players[i]
	if p.Knights < MinLargestArmy {
		return
	}
	if gs.LargestArmy.Color == p.Color || p.Knights > gs.LargestArmy.Size {
		gs.LargestArmy = Record{Color: p.Color, Size: p.Knights}
	}
}
