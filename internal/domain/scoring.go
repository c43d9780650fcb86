package domain

import "math"

const (
	basePoints   = 1000
	maxTimeBonus = 500
)

// Points computes the award for a single answer: a flat base for being
// correct plus a speed bonus that decays linearly over the question's time
// window. An instant answer earns 1500, an answer at the limit 1000, an
// incorrect answer 0. Elapsed time beyond the limit is clamped, so the
// result is never negative.
//
// timeLimitSeconds must be positive; questions are validated to a 5..300
// second limit before they ever reach scoring.
func Points(correct bool, elapsedSeconds float64, timeLimitSeconds int) int {
	if !correct {
		return 0
	}
	ratio := 1 - elapsedSeconds/float64(timeLimitSeconds)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return basePoints + int(math.Round(maxTimeBonus*ratio))
}
