package game

// Play applies a move to a copy of the state. The receiver is never mutated,
// so search branches can share ancestors freely.
func (gs *GameState) Play(move Move) (State, error) {
	next, err := gs.Apply(move)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Apply is Play with the concrete state type.
func (gs *GameState) Apply(move Move) (*GameState, error) {
	var gm GameMove
	switch m := move.(type) {
	case GameMove:
		gm = m
	case *GameMove:
		if m == nil {
			return nil, illegal(move, gs.Phase, "nil move")
		}
		gm = *m
	default:
		return nil, illegal(move, gs.Phase, "unexpected move type %T", move)
	}
	if gs.Won != NoColor || gs.Phase == GameOverPhase {
		return nil, illegal(gm, gs.Phase, "game is over")
	}

	next := gs.Copy()
	var err error
	switch gs.Phase {
	case InitialSettlementPhase:
		err = next.placeInitialSettlement(gm)
	case InitialRoadPhase:
		err = next.placeInitialRoad(gm)
	case RollPhase:
		err = next.roll(gm)
	case MainPhase:
		err = next.playMain(gm)
	case DiscardPhase:
		err = next.discard(gm)
	case MoveRobberPhase:
		err = next.moveRobber(gm)
	case RoadBuildingPhase:
		err = next.buildFreeRoad(gm)
	default:
		err = illegal(gm, gs.Phase, "unknown phase")
	}
	if err != nil {
		return nil, err
	}

	next.Actions++
	next.checkWinner()
	return next, nil
}

func (gs *GameState) validNode(n NodeID) bool {
	return n >= 0 && int(n) < len(gs.Buildings)
}

func (gs *GameState) validEdge(e EdgeID) bool {
	return e >= 0 && int(e) < len(gs.Roads)
}

func (gs *GameState) validTile(t TileID) bool {
	return t >= 0 && int(t) < len(gs.Map.Tiles)
}

func (gs *GameState) placeInitialSettlement(gm GameMove) error {
	if gm.ActionType != BuildSettlementAction {
		return illegal(gm, gs.Phase, "expected a settlement")
	}
	if !gs.validNode(gm.Node) || !gs.distanceRuleHolds(gm.Node) {
		return illegal(gm, gs.Phase, "node %d violates the distance rule", gm.Node)
	}
	p := &gs.Players[gs.Acting]
	if p.Settlements >= MaxSettlements {
		return illegal(gm, gs.Phase, "no settlements left")
	}

	gs.Buildings[gm.Node] = Site{Owner: p.Color, Building: Settlement}
	p.Settlements++
	gs.LastSettlement = gm.Node

	// The second settlement pays one card per adjacent producing tile
	if gs.SetupStep >= len(gs.Players) {
		for _, t := range gs.Map.Topology.NodeTiles[gm.Node] {
			r := gs.Map.Tiles[t].Resource
			if r != Desert && gs.Bank[r] > 0 {
				gs.Bank[r]--
				p.Hand[r]++
			}
		}
	}
	gs.updateLongestRoad()

	gs.Phase = InitialRoadPhase
	if len(gs.initialRoadMoves()) == 0 {
		gs.advanceSetup()
	}
	return nil
}

func (gs *GameState) placeInitialRoad(gm GameMove) error {
	if gm.ActionType != BuildRoadAction {
		return illegal(gm, gs.Phase, "expected a road")
	}
	if !gs.validEdge(gm.Edge) || gs.Roads[gm.Edge] != NoColor {
		return illegal(gm, gs.Phase, "edge %d is not free", gm.Edge)
	}
	ends := gs.Map.Topology.EdgeNodes[gm.Edge]
	if ends[0] != gs.LastSettlement && ends[1] != gs.LastSettlement {
		return illegal(gm, gs.Phase, "edge %d does not touch settlement %d", gm.Edge, gs.LastSettlement)
	}
	gs.placeRoad(gs.Acting, gm.Edge)
	gs.advanceSetup()
	return nil
}

// advanceSetup moves the snake order on: seats 0..n-1, then n-1..0.
func (gs *GameState) advanceSetup() {
	n := len(gs.Players)
	gs.SetupStep++
	gs.LastSettlement = NoNode
	if gs.SetupStep >= 2*n {
		gs.Phase = RollPhase
		gs.Turn = 0
		gs.Acting = 0
		return
	}
	seat := gs.SetupStep
	if seat >= n {
		seat = 2*n - 1 - seat
	}
	gs.Turn = seat
	gs.Acting = seat
	gs.Phase = InitialSettlementPhase
}

func (gs *GameState) roll(gm GameMove) error {
	if gm.ActionType != RollAction {
		return illegal(gm, gs.Phase, "expected a roll")
	}
	dice := gm.Dice
	if dice == [2]int{} {
		rng := gs.rng()
		dice = [2]int{rng.Intn(6) + 1, rng.Intn(6) + 1}
	}
	for _, d := range dice {
		if d < 1 || d > 6 {
			return illegal(gm, gs.Phase, "die out of range: %d", d)
		}
	}
	gs.Dice = dice

	number := dice[0] + dice[1]
	if number != 7 {
		gs.produce(number)
		gs.Phase = MainPhase
		return nil
	}

	for i, p := range gs.Players {
		gs.PendingDiscard[i] = gs.mustDiscard(p.Hand)
	}
	gs.nextDiscard()
	return nil
}

// produce pays every building next to a non-robbed tile with the rolled
// number. When the bank cannot pay a resource in full, nobody gets it,
// unless a single player is owed it, who then takes what is left.
func (gs *GameState) produce(number int) {
	topology := gs.Map.Topology
	owed := make([]Hand, len(gs.Players))
	for t, tile := range gs.Map.Tiles {
		if tile.Number != number || TileID(t) == gs.Robber || tile.Resource == Desert {
			continue
		}
		for _, n := range topology.TileNodes[t] {
			site := gs.Buildings[n]
			if site.Building == NoBuilding {
				continue
			}
			i := gs.IndexOf(site.Owner)
			if site.Building == City {
				owed[i][tile.Resource] += 2
			} else {
				owed[i][tile.Resource]++
			}
		}
	}

	for _, r := range Resources() {
		total, claimants, last := 0, 0, -1
		for i := range owed {
			if owed[i][r] > 0 {
				total += owed[i][r]
				claimants++
				last = i
			}
		}
		switch {
		case total == 0:
		case total <= gs.Bank[r]:
			for i := range owed {
				gs.Players[i].Hand[r] += owed[i][r]
			}
			gs.Bank[r] -= total
		case claimants == 1:
			gs.Players[last].Hand[r] += gs.Bank[r]
			gs.Bank[r] = 0
		}
	}
}

// nextDiscard hands the turn to the next player who owes a discard, in turn
// order, or to the robber once everybody has discarded.
func (gs *GameState) nextDiscard() {
	n := len(gs.Players)
	for k := 0; k < n; k++ {
		i := (gs.Turn + k) % n
		if gs.PendingDiscard[i] {
			gs.Acting = i
			gs.Phase = DiscardPhase
			return
		}
	}
	gs.Acting = gs.Turn
	gs.Phase = MoveRobberPhase
}

func (gs *GameState) discard(gm GameMove) error {
	if gm.ActionType != DiscardAction {
		return illegal(gm, gs.Phase, "expected a discard")
	}
	p := &gs.Players[gs.Acting]
	if !gm.Give.valid() || !p.Hand.Covers(gm.Give) {
		return illegal(gm, gs.Phase, "hand %s does not hold %s", p.Hand, gm.Give)
	}
	if gm.Give.Total() != p.Hand.Total()/2 {
		return illegal(gm, gs.Phase, "must discard %d cards, not %d", p.Hand.Total()/2, gm.Give.Total())
	}
	p.Hand = p.Hand.Sub(gm.Give)
	gs.Bank = gs.Bank.Add(gm.Give)
	gs.PendingDiscard[gs.Acting] = false
	gs.nextDiscard()
	return nil
}

func (gs *GameState) moveRobber(gm GameMove) error {
	if gm.ActionType != MoveRobberAction {
		return illegal(gm, gs.Phase, "expected a robber move")
	}
	if !gs.validTile(gm.Tile) || gm.Tile == gs.Robber {
		return illegal(gm, gs.Phase, "robber cannot move to tile %d", gm.Tile)
	}
	victims := gs.victims(gs.Acting, gm.Tile)
	switch {
	case gm.Victim == NoColor && len(victims) > 0:
		return illegal(gm, gs.Phase, "must rob one of %v", victims)
	case gm.Victim != NoColor && !containsColor(victims, gm.Victim):
		return illegal(gm, gs.Phase, "%s cannot be robbed on tile %d", gm.Victim, gm.Tile)
	}

	gs.Robber = gm.Tile
	if gm.Victim != NoColor {
		gs.steal(gs.IndexOf(gm.Victim))
	}
	gs.Acting = gs.Turn
	gs.Phase = MainPhase
	return nil
}

// steal moves one uniformly chosen card from the victim to the acting player.
func (gs *GameState) steal(victim int) {
	hand := &gs.Players[victim].Hand
	k := gs.rng().Intn(hand.Total())
	for _, r := range Resources() {
		if k < hand[r] {
			hand[r]--
			gs.Players[gs.Acting].Hand[r]++
			return
		}
		k -= hand[r]
	}
}

func containsColor(colors []Color, c Color) bool {
	for _, other := range colors {
		if other == c {
			return true
		}
	}
	return false
}

func (gs *GameState) playMain(gm GameMove) error {
	i := gs.Acting
	p := &gs.Players[i]
	switch gm.ActionType {
	case BuildRoadAction:
		if !gs.validEdge(gm.Edge) || !gs.canBuildRoad(i, gm.Edge, false) {
			return illegal(gm, gs.Phase, "cannot build a road on edge %d", gm.Edge)
		}
		gs.pay(i, RoadCost)
		gs.placeRoad(i, gm.Edge)
	case BuildSettlementAction:
		if !gs.validNode(gm.Node) || !gs.canBuildSettlement(i, gm.Node) {
			return illegal(gm, gs.Phase, "cannot build a settlement on node %d", gm.Node)
		}
		gs.pay(i, SettlementCost)
		gs.Buildings[gm.Node] = Site{Owner: p.Color, Building: Settlement}
		p.Settlements++
		// A settlement can cut an opponent's road
		gs.updateLongestRoad()
	case BuildCityAction:
		if !gs.validNode(gm.Node) || !gs.canBuildCity(i, gm.Node) {
			return illegal(gm, gs.Phase, "cannot build a city on node %d", gm.Node)
		}
		gs.pay(i, CityCost)
		gs.Buildings[gm.Node].Building = City
		p.Settlements--
		p.Cities++
	case BuyDevelopmentCardAction:
		if !gs.canBuyDevelopmentCard(i) {
			return illegal(gm, gs.Phase, "cannot buy a development card")
		}
		gs.pay(i, DevelopmentCardCost)
		card := gs.Deck[0]
		gs.Deck = gs.Deck[1:]
		p.DevCards[card]++
		p.BoughtThisTurn[card]++
	case PlayDevelopmentCardAction:
		return gs.playCard(gm)
	case TradeAction:
		return gs.trade(gm)
	case EndTurnAction:
		gs.endTurn()
	default:
		return illegal(gm, gs.Phase, "not allowed after rolling")
	}
	return nil
}

func (gs *GameState) pay(i int, cost Hand) {
	gs.Players[i].Hand = gs.Players[i].Hand.Sub(cost)
	gs.Bank = gs.Bank.Add(cost)
}

func (gs *GameState) placeRoad(i int, e EdgeID) {
	gs.Roads[e] = gs.Players[i].Color
	gs.Players[i].Roads++
	gs.updateLongestRoad()
}

func (gs *GameState) playCard(gm GameMove) error {
	i := gs.Acting
	p := &gs.Players[i]
	if gm.Card < 0 || gm.Card >= NumDevCards || !gs.canPlay(i, gm.Card) {
		return illegal(gm, gs.Phase, "cannot play %s", gm.Card)
	}

	switch gm.Card {
	case Knight:
		p.Knights++
		gs.updateLargestArmy(i)
		gs.Phase = MoveRobberPhase
	case YearOfPlenty:
		if !gm.Take.valid() || gm.Take.Total() != 2 || !gs.Bank.Covers(gm.Take) {
			return illegal(gm, gs.Phase, "bank cannot pay %s", gm.Take)
		}
		gs.Bank = gs.Bank.Sub(gm.Take)
		p.Hand = p.Hand.Add(gm.Take)
	case Monopoly:
		if gm.Resource < Wood || gm.Resource > Ore {
			return illegal(gm, gs.Phase, "cannot monopolise %s", gm.Resource)
		}
		for j := range gs.Players {
			if j == i {
				continue
			}
			p.Hand[gm.Resource] += gs.Players[j].Hand[gm.Resource]
			gs.Players[j].Hand[gm.Resource] = 0
		}
	case RoadBuilding:
		if p.Roads >= MaxRoads || len(gs.roadMoves(i, true)) == 0 {
			return illegal(gm, gs.Phase, "no road can be built")
		}
		gs.FreeRoads = min(2, MaxRoads-p.Roads)
		gs.Phase = RoadBuildingPhase
	default:
		return illegal(gm, gs.Phase, "%s cannot be played", gm.Card)
	}
	p.DevCards[gm.Card]--
	gs.PlayedCard = true
	return nil
}

func (gs *GameState) buildFreeRoad(gm GameMove) error {
	i := gs.Acting
	if gm.ActionType != BuildRoadAction {
		return illegal(gm, gs.Phase, "expected a free road")
	}
	if !gs.validEdge(gm.Edge) || !gs.canBuildRoad(i, gm.Edge, true) {
		return illegal(gm, gs.Phase, "cannot build a road on edge %d", gm.Edge)
	}
	gs.placeRoad(i, gm.Edge)
	gs.FreeRoads--
	if gs.FreeRoads <= 0 || len(gs.roadMoves(i, true)) == 0 {
		gs.FreeRoads = 0
		gs.Phase = MainPhase
	}
	return nil
}

func (gs *GameState) trade(gm GameMove) error {
	i := gs.Acting
	p := &gs.Players[i]
	if !gm.Give.valid() || !gm.Take.valid() || gm.Give.IsZero() || gm.Take.IsZero() {
		return illegal(gm, gs.Phase, "trade must give and take cards")
	}
	for r := range gm.Give {
		if gm.Give[r] > 0 && gm.Take[r] > 0 {
			return illegal(gm, gs.Phase, "cannot trade %s for itself", Resource(r))
		}
	}
	if !p.Hand.Covers(gm.Give) {
		return illegal(gm, gs.Phase, "hand %s does not hold %s", p.Hand, gm.Give)
	}

	if gm.Partner == NoColor {
		if !gs.isBankTrade(gm.Give, gm.Take) || !gs.Bank.Covers(gm.Take) {
			return illegal(gm, gs.Phase, "bank does not accept %s for %s", gm.Give, gm.Take)
		}
		p.Hand = p.Hand.Sub(gm.Give).Add(gm.Take)
		gs.Bank = gs.Bank.Add(gm.Give).Sub(gm.Take)
		return nil
	}

	j := gs.IndexOf(gm.Partner)
	if j < 0 || j == i {
		return illegal(gm, gs.Phase, "%s cannot trade with %s", p.Color, gm.Partner)
	}
	partner := &gs.Players[j]
	if !partner.Hand.Covers(gm.Take) {
		return illegal(gm, gs.Phase, "%s does not hold %s", gm.Partner, gm.Take)
	}
	p.Hand = p.Hand.Sub(gm.Give).Add(gm.Take)
	partner.Hand = partner.Hand.Sub(gm.Take).Add(gm.Give)
	return nil
}

// isBankTrade accepts exactly rate cards of one resource for one card of another.
func (gs *GameState) isBankTrade(give, take Hand) bool {
	rate := gs.Rules.BankTradeRate()
	for _, r := range Resources() {
		if give == Single(r, rate) {
			return take.Total() == 1
		}
	}
	return false
}

func (gs *GameState) endTurn() {
	gs.Players[gs.Turn].BoughtThisTurn = DevHand{}
	gs.Turn = (gs.Turn + 1) % len(gs.Players)
	gs.Acting = gs.Turn
	gs.Phase = RollPhase
	gs.Dice = [2]int{}
	gs.PlayedCard = false
	gs.TurnCount++
}

// checkWinner ends the game once the turn player reaches the threshold.
func (gs *GameState) checkWinner() {
	c := gs.TurnPlayer()
	if gs.VictoryPoints(c) >= gs.Rules.VictoryPointsToWin() {
		gs.Won = c
		gs.Phase = GameOverPhase
	}
}
