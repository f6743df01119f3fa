package player

import (
	"catan/game"
	"math"
)

// adjustTemperature raises every visit share to 1/temperature and
// renormalizes. Low temperatures sharpen the policy towards the most visited move.
func adjustTemperature(policy map[game.Move]float64, temperature float64) map[game.Move]float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Move]float64, len(policy))
	for move, share := range policy {
		prob := math.Pow(share, exponent)
		sum += prob
		adjusted[move] = prob
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks the moves in generation order so the draw only depends on u.
func sample(moves []game.Move, policy map[game.Move]float64, u float64) game.Move {
	cumulative := 0.0
	var lastMove game.Move
	for _, move := range moves {
		prob, ok := policy[move]
		if !ok {
			continue
		}
		lastMove = move
		cumulative += prob
		if u < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
