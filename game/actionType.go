package game

// ActionType represents the type of action a player can perform.
type ActionType int

const (
	RollAction ActionType = iota
	EndTurnAction
	BuildRoadAction
	BuildSettlementAction
	BuildCityAction
	BuyDevelopmentCardAction
	PlayDevelopmentCardAction
	MoveRobberAction
	TradeAction
	DiscardAction
)

var actionTypeNames = [...]string{
	"ROLL", "END_TURN", "BUILD_ROAD", "BUILD_SETTLEMENT", "BUILD_CITY",
	"BUY_DEVELOPMENT_CARD", "PLAY_DEVELOPMENT_CARD", "MOVE_ROBBER", "TRADE", "DISCARD",
}

func (a ActionType) String() string {
	if a < 0 || int(a) >= len(actionTypeNames) {
		return "UNKNOWN"
	}
	return actionTypeNames[a]
}

type Phase int

const (
	InitialSettlementPhase Phase = iota
	InitialRoadPhase
	RollPhase
	MainPhase
	DiscardPhase
	MoveRobberPhase
	RoadBuildingPhase
	GameOverPhase
)

var phaseNames = [...]string{
	"INITIAL_SETTLEMENT", "INITIAL_ROAD", "ROLL", "MAIN", "DISCARD", "MOVE_ROBBER", "ROAD_BUILDING", "GAME_OVER",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}
