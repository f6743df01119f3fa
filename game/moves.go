package game

// LegalMoves returns all legal moves for the acting player, in a stable order.
func (gs *GameState) LegalMoves() []Move {
	gameMoves := gs.GameMoves()
	moves := make([]Move, len(gameMoves))
	for i, gm := range gameMoves {
		moves[i] = gm
	}
	return moves
}

// GameMoves is LegalMoves with the concrete move type.
func (gs *GameState) GameMoves() []GameMove {
	switch gs.Phase {
	case InitialSettlementPhase:
		return gs.initialSettlementMoves()
	case InitialRoadPhase:
		return gs.initialRoadMoves()
	case RollPhase:
		return []GameMove{Roll()}
	case MainPhase:
		return gs.mainMoves()
	case DiscardPhase:
		return gs.discardMoves()
	case MoveRobberPhase:
		return gs.robberMoves()
	case RoadBuildingPhase:
		return gs.roadMoves(gs.Acting, true)
	default:
		return nil
	}
}

func (gs *GameState) initialSettlementMoves() []GameMove {
	var moves []GameMove
	for n := range gs.Buildings {
		if gs.distanceRuleHolds(NodeID(n)) {
			moves = append(moves, BuildSettlement(NodeID(n)))
		}
	}
	return moves
}

func (gs *GameState) initialRoadMoves() []GameMove {
	var moves []GameMove
	for _, e := range gs.Map.Topology.NodeEdges[gs.LastSettlement] {
		if gs.Roads[e] == NoColor {
			moves = append(moves, BuildRoad(e))
		}
	}
	return moves
}

func (gs *GameState) mainMoves() []GameMove {
	i := gs.Acting
	moves := gs.roadMoves(i, false)
	moves = append(moves, gs.settlementMoves(i)...)
	moves = append(moves, gs.cityMoves(i)...)
	if gs.canBuyDevelopmentCard(i) {
		moves = append(moves, BuyDevelopmentCard())
	}
	moves = append(moves, gs.devCardMoves(i)...)
	moves = append(moves, gs.bankTradeMoves(i)...)
	moves = append(moves, EndTurn())
	return moves
}

// roadMoves enumerates road placements connected to the player's network.
// Free roads (road building card) skip the cost.
func (gs *GameState) roadMoves(i int, free bool) []GameMove {
	var moves []GameMove
	for e := range gs.Roads {
		if gs.canBuildRoad(i, EdgeID(e), free) {
			moves = append(moves, BuildRoad(EdgeID(e)))
		}
	}
	return moves
}

func (gs *GameState) settlementMoves(i int) []GameMove {
	var moves []GameMove
	if !gs.Players[i].Hand.Covers(SettlementCost) {
		return nil
	}
	for n := range gs.Buildings {
		if gs.canBuildSettlement(i, NodeID(n)) {
			moves = append(moves, BuildSettlement(NodeID(n)))
		}
	}
	return moves
}

func (gs *GameState) cityMoves(i int) []GameMove {
	var moves []GameMove
	for n := range gs.Buildings {
		if gs.canBuildCity(i, NodeID(n)) {
			moves = append(moves, BuildCity(NodeID(n)))
		}
	}
	return moves
}

func (gs *GameState) devCardMoves(i int) []GameMove {
	var moves []GameMove
	if gs.canPlay(i, Knight) {
		moves = append(moves, PlayKnight())
	}
	if gs.canPlay(i, YearOfPlenty) {
		resources := Resources()
		for a := range resources {
			for b := a; b < len(resources); b++ {
				move := PlayYearOfPlenty(resources[a], resources[b])
				if gs.Bank.Covers(move.Take) {
					moves = append(moves, move)
				}
			}
		}
	}
	if gs.canPlay(i, Monopoly) {
		for _, r := range Resources() {
			moves = append(moves, PlayMonopoly(r))
		}
	}
	if gs.canPlay(i, RoadBuilding) && gs.Players[i].Roads < MaxRoads && len(gs.roadMoves(i, true)) > 0 {
		moves = append(moves, PlayRoadBuilding())
	}
	return moves
}

func (gs *GameState) bankTradeMoves(i int) []GameMove {
	var moves []GameMove
	rate := gs.Rules.BankTradeRate()
	hand := gs.Players[i].Hand
	for _, give := range Resources() {
		if hand[give] < rate {
			continue
		}
		for _, take := range Resources() {
			if take != give && gs.Bank[take] > 0 {
				moves = append(moves, BankTrade(Single(give, rate), Single(take, 1)))
			}
		}
	}
	return moves
}

// robberMoves offers every tile but the robber's. A tile with several
// possible victims yields one move per victim, otherwise a single move.
func (gs *GameState) robberMoves() []GameMove {
	var moves []GameMove
	for t := range gs.Map.Tiles {
		tile := TileID(t)
		if tile == gs.Robber {
			continue
		}
		victims := gs.victims(gs.Acting, tile)
		if len(victims) == 0 {
			moves = append(moves, MoveRobber(tile, NoColor))
			continue
		}
		for _, victim := range victims {
			moves = append(moves, MoveRobber(tile, victim))
		}
	}
	return moves
}

// victims lists opponents with a building on the tile and cards to steal, in seat order.
func (gs *GameState) victims(i int, tile TileID) []Color {
	var victims []Color
	for j, p := range gs.Players {
		if j == i || p.Hand.Total() == 0 {
			continue
		}
		for _, n := range gs.Map.Topology.TileNodes[tile] {
			if gs.Buildings[n].Owner == p.Color {
				victims = append(victims, p.Color)
				break
			}
		}
	}
	return victims
}

// discardMoves enumerates every distinct multiset of half the hand.
func (gs *GameState) discardMoves() []GameMove {
	hand := gs.Players[gs.Acting].Hand
	var moves []GameMove
	var pick Hand
	var walk func(r int, left int)
	walk = func(r int, left int) {
		if r == NumResources {
			if left == 0 {
				moves = append(moves, Discard(pick))
			}
			return
		}
		for n := min(left, hand[r]); n >= 0; n-- {
			pick[r] = n
			walk(r+1, left-n)
		}
		pick[r] = 0
	}
	walk(0, hand.Total()/2)
	return moves
}

// mustDiscard reports whether a hand is over the limit when a 7 is rolled.
func (gs *GameState) mustDiscard(hand Hand) bool {
	return hand.Total() > gs.Rules.DiscardLimit()
}

// Legality predicates shared by the generator and Play

// distanceRuleHolds reports whether n and all its neighbours are empty.
func (gs *GameState) distanceRuleHolds(n NodeID) bool {
	if gs.Buildings[n].Building != NoBuilding {
		return false
	}
	for _, m := range gs.Map.Topology.NodeNeighbors[n] {
		if gs.Buildings[m].Building != NoBuilding {
			return false
		}
	}
	return true
}

// touchesNetwork reports whether a road on e would connect to the player's
// buildings or roads. A road cannot continue through an opponent's building.
func (gs *GameState) touchesNetwork(i int, e EdgeID) bool {
	c := gs.Players[i].Color
	topology := gs.Map.Topology
	for _, n := range topology.EdgeNodes[e] {
		site := gs.Buildings[n]
		if site.Owner == c {
			return true
		}
		if site.Owner != NoColor {
			continue
		}
		for _, other := range topology.NodeEdges[n] {
			if other != e && gs.Roads[other] == c {
				return true
			}
		}
	}
	return false
}

func (gs *GameState) canBuildRoad(i int, e EdgeID, free bool) bool {
	p := &gs.Players[i]
	if gs.Roads[e] != NoColor || p.Roads >= MaxRoads {
		return false
	}
	if !free && !p.Hand.Covers(RoadCost) {
		return false
	}
	return gs.touchesNetwork(i, e)
}

func (gs *GameState) canBuildSettlement(i int, n NodeID) bool {
	p := &gs.Players[i]
	if p.Settlements >= MaxSettlements || !p.Hand.Covers(SettlementCost) || !gs.distanceRuleHolds(n) {
		return false
	}
	for _, e := range gs.Map.Topology.NodeEdges[n] {
		if gs.Roads[e] == p.Color {
			return true
		}
	}
	return false
}

func (gs *GameState) canBuildCity(i int, n NodeID) bool {
	p := &gs.Players[i]
	site := gs.Buildings[n]
	return site.Owner == p.Color && site.Building == Settlement &&
		p.Cities < MaxCities && p.Hand.Covers(CityCost)
}

func (gs *GameState) canBuyDevelopmentCard(i int) bool {
	return len(gs.Deck) > 0 && gs.Players[i].Hand.Covers(DevelopmentCardCost)
}

// canPlay allows one development card per turn, never one bought this turn.
func (gs *GameState) canPlay(i int, card DevCard) bool {
	if gs.PlayedCard || card == VictoryPoint {
		return false
	}
	p := &gs.Players[i]
	return p.DevCards[card]-p.BoughtThisTurn[card] > 0
}

// BuildableNodes lists empty nodes where the color could settle given its
// roads, ignoring cost and piece supply.
func (gs *GameState) BuildableNodes(c Color) []NodeID {
	var nodes []NodeID
	for n := range gs.Buildings {
		node := NodeID(n)
		if !gs.distanceRuleHolds(node) {
			continue
		}
		for _, e := range gs.Map.Topology.NodeEdges[node] {
			if gs.Roads[e] == c {
				nodes = append(nodes, node)
				break
			}
		}
	}
	return nodes
}
