package game

import "golang.org/x/exp/rand"

type DevCard int8

const (
	Knight       DevCard = iota // 0
	VictoryPoint                // 1
	RoadBuilding                // 2
	YearOfPlenty                // 3
	Monopoly                    // 4
)

const NumDevCards = 5

var devCardNames = [...]string{"KNIGHT", "VICTORY_POINT", "ROAD_BUILDING", "YEAR_OF_PLENTY", "MONOPOLY"}

func (d DevCard) String() string {
	if d < 0 || int(d) >= len(devCardNames) {
		return "UNKNOWN"
	}
	return devCardNames[d]
}

// DevHand counts development cards by kind.
type DevHand [NumDevCards]int

func (d DevHand) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// StandardDeck returns the 25 development cards in unshuffled order.
func StandardDeck() []DevCard {
	counts := DevHand{Knight: 14, VictoryPoint: 5, RoadBuilding: 2, YearOfPlenty: 2, Monopoly: 2}
	deck := make([]DevCard, 0, counts.Total())
	for card, n := range counts {
		for i := 0; i < n; i++ {
			deck = append(deck, DevCard(card))
		}
	}
	return deck
}

func shuffleDeck(deck []DevCard, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}
