package game

// TODO: searcher should own the Move/State interfaces so other games can plug into it without importing this package

type Move interface {
	// IsStochastic reports whether playing the move involves chance (dice, card draws, steals)
	IsStochastic() bool
}

type StateHash uint64

// State should be immutable - operations on State always return a new copy
type State interface {
	Player() Color
	LegalMoves() []Move
	Play(Move) (State, error)
	Hash() StateHash
	Winner() Color
}

// Reseeder is implemented by states that resolve chance outcomes from a hidden
// seed. Searchers reseed their private copy so they never see the real future.
type Reseeder interface {
	Reseed(seed uint64) State
}

// Evaluate scores a state from the given player's perspective, higher is better.
type Evaluate func(state State, player Color) float64

// Color identifies a seat at the table.
type Color int8

const (
	NoColor Color = iota
	Red
	Blue
	Orange
	White
)

var colorNames = [...]string{"NONE", "RED", "BLUE", "ORANGE", "WHITE"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "UNKNOWN"
	}
	return colorNames[c]
}

// Colors returns every color a player may take, in seating order.
func Colors() []Color {
	return []Color{Red, Blue, Orange, White}
}

// ParseColor maps a color name such as "RED" back to its Color.
func ParseColor(name string) (Color, error) {
	for _, c := range Colors() {
		if c.String() == name {
			return c, nil
		}
	}
	return NoColor, NewConfigurationError("color", "unknown color %q", name)
}
