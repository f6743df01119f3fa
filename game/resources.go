package game

import (
	"fmt"
	"strings"
)

type Resource int8

const (
	Wood Resource = iota
	Brick
	Sheep
	Wheat
	Ore
	Desert // Tiles only, never held
)

const NumResources = 5

var resourceNames = [...]string{"WOOD", "BRICK", "SHEEP", "WHEAT", "ORE", "DESERT"}

func (r Resource) String() string {
	if r < 0 || int(r) >= len(resourceNames) {
		return "UNKNOWN"
	}
	return resourceNames[r]
}

// Resources lists the five producible resources in canonical order.
func Resources() [NumResources]Resource {
	return [NumResources]Resource{Wood, Brick, Sheep, Wheat, Ore}
}

// Hand counts resource cards by kind. It is a value type, so copying a
// PlayerState or the bank never aliases.
type Hand [NumResources]int

var (
	RoadCost            = Hand{Wood: 1, Brick: 1}
	SettlementCost      = Hand{Wood: 1, Brick: 1, Sheep: 1, Wheat: 1}
	CityCost            = Hand{Wheat: 2, Ore: 3}
	DevelopmentCardCost = Hand{Sheep: 1, Wheat: 1, Ore: 1}
)

// Single returns a hand holding n cards of one resource.
func Single(r Resource, n int) Hand {
	var h Hand
	h[r] = n
	return h
}

func (h Hand) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

func (h Hand) IsZero() bool {
	return h == Hand{}
}

func (h Hand) Add(other Hand) Hand {
	for i := range h {
		h[i] += other[i]
	}
	return h
}

func (h Hand) Sub(other Hand) Hand {
	for i := range h {
		h[i] -= other[i]
	}
	return h
}

// Covers reports whether h holds at least every card of other.
func (h Hand) Covers(other Hand) bool {
	for i := range h {
		if h[i] < other[i] {
			return false
		}
	}
	return true
}

func (h Hand) valid() bool {
	for _, n := range h {
		if n < 0 {
			return false
		}
	}
	return true
}

func (h Hand) String() string {
	var parts []string
	for _, r := range Resources() {
		if h[r] > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", r, h[r]))
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}
