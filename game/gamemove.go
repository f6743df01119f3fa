package game

import "fmt"

// GameMove is the single action type of the game. Only the fields relevant to
// ActionType are set, the rest stay zero, so two moves are the same action
// exactly when they compare equal.
type GameMove struct {
	ActionType ActionType
	Node       NodeID   // Settlement, city
	Edge       EdgeID   // Road
	Tile       TileID   // Robber destination
	Victim     Color    // Robbed player, NoColor for none
	Card       DevCard  // Played development card
	Resource   Resource // Monopolised resource
	Give       Hand     // Trade offer or discarded cards
	Take       Hand     // Trade request or year of plenty picks
	Partner    Color    // Trade partner, NoColor for the bank
	Dice       [2]int   // Pre-resolved roll, zero to roll from the state seed
}

func (gm GameMove) IsStochastic() bool {
	switch gm.ActionType {
	case RollAction:
		return gm.Dice == [2]int{}
	case BuyDevelopmentCardAction:
		return true
	case MoveRobberAction:
		return gm.Victim != NoColor
	}
	return false
}

func (gm GameMove) String() string {
	switch gm.ActionType {
	case RollAction:
		if gm.Dice == [2]int{} {
			return "ROLL"
		}
		return fmt.Sprintf("ROLL(%d,%d)", gm.Dice[0], gm.Dice[1])
	case BuildRoadAction:
		return fmt.Sprintf("BUILD_ROAD(%d)", gm.Edge)
	case BuildSettlementAction:
		return fmt.Sprintf("BUILD_SETTLEMENT(%d)", gm.Node)
	case BuildCityAction:
		return fmt.Sprintf("BUILD_CITY(%d)", gm.Node)
	case PlayDevelopmentCardAction:
		switch gm.Card {
		case YearOfPlenty:
			return fmt.Sprintf("PLAY_%s%s", gm.Card, gm.Take)
		case Monopoly:
			return fmt.Sprintf("PLAY_%s(%s)", gm.Card, gm.Resource)
		}
		return "PLAY_" + gm.Card.String()
	case MoveRobberAction:
		return fmt.Sprintf("MOVE_ROBBER(%d,%s)", gm.Tile, gm.Victim)
	case TradeAction:
		return fmt.Sprintf("TRADE(%s->%s,%s)", gm.Give, gm.Take, gm.Partner)
	case DiscardAction:
		return fmt.Sprintf("DISCARD%s", gm.Give)
	}
	return gm.ActionType.String()
}

func Roll() GameMove {
	return GameMove{ActionType: RollAction}
}

// RollWith is a roll whose outcome was resolved outside the game, e.g. by a
// driver with its own dice.
func RollWith(a, b int) GameMove {
	return GameMove{ActionType: RollAction, Dice: [2]int{a, b}}
}

func EndTurn() GameMove {
	return GameMove{ActionType: EndTurnAction}
}

func BuildRoad(e EdgeID) GameMove {
	return GameMove{ActionType: BuildRoadAction, Edge: e}
}

func BuildSettlement(n NodeID) GameMove {
	return GameMove{ActionType: BuildSettlementAction, Node: n}
}

func BuildCity(n NodeID) GameMove {
	return GameMove{ActionType: BuildCityAction, Node: n}
}

func BuyDevelopmentCard() GameMove {
	return GameMove{ActionType: BuyDevelopmentCardAction}
}

func PlayKnight() GameMove {
	return GameMove{ActionType: PlayDevelopmentCardAction, Card: Knight}
}

func PlayRoadBuilding() GameMove {
	return GameMove{ActionType: PlayDevelopmentCardAction, Card: RoadBuilding}
}

func PlayYearOfPlenty(a, b Resource) GameMove {
	take := Single(a, 1)
	take[b]++
	return GameMove{ActionType: PlayDevelopmentCardAction, Card: YearOfPlenty, Take: take}
}

func PlayMonopoly(r Resource) GameMove {
	return GameMove{ActionType: PlayDevelopmentCardAction, Card: Monopoly, Resource: r}
}

func MoveRobber(tile TileID, victim Color) GameMove {
	return GameMove{ActionType: MoveRobberAction, Tile: tile, Victim: victim}
}

// BankTrade swaps cards with the bank.
func BankTrade(give, take Hand) GameMove {
	return GameMove{ActionType: TradeAction, Give: give, Take: take}
}

// Trade swaps cards with another player who has already agreed to it.
func Trade(partner Color, give, take Hand) GameMove {
	return GameMove{ActionType: TradeAction, Give: give, Take: take, Partner: partner}
}

func Discard(cards Hand) GameMove {
	return GameMove{ActionType: DiscardAction, Give: cards}
}
