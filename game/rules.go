package game

type Rules interface {
	VictoryPointsToWin() int
	DiscardLimit() int // Hands strictly above this discard half on a 7
	BankSize() int     // Cards per resource kind
	BankTradeRate() int
	Validate() error
}

const (
	MaxRoads       = 15
	MaxSettlements = 5
	MaxCities      = 4

	MinLongestRoad = 5
	MinLargestArmy = 3
	BonusPoints    = 2 // For longest road and largest army each

	MinPlayers = 2
	MaxPlayers = 4
)
