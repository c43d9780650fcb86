package domain

import "testing"

func TestPointsBoundaries(t *testing.T) {
	if got := Points(true, 0, 20); got != 1500 {
		t.Fatalf("instant answer: expected 1500, got %d", got)
	}
	if got := Points(true, 20, 20); got != 1000 {
		t.Fatalf("answer at limit: expected 1000, got %d", got)
	}
	if got := Points(true, 2, 20); got != 1450 {
		t.Fatalf("2s of 20s: expected 1450, got %d", got)
	}
}

func TestPointsIncorrectAlwaysZero(t *testing.T) {
	for _, elapsed := range []float64{0, 5, 20, 300} {
		if got := Points(false, elapsed, 20); got != 0 {
			t.Fatalf("incorrect at %.0fs: expected 0, got %d", elapsed, got)
		}
	}
}

func TestPointsMonotonicInElapsed(t *testing.T) {
	prev := Points(true, 0, 30)
	for elapsed := 1; elapsed <= 30; elapsed++ {
		got := Points(true, float64(elapsed), 30)
		if got > prev {
			t.Fatalf("points increased from %d to %d at %ds", prev, got, elapsed)
		}
		prev = got
	}
}

func TestPointsClampedBeyondLimit(t *testing.T) {
	if got := Points(true, 45, 30); got != 1000 {
		t.Fatalf("late answer: expected clamp to 1000, got %d", got)
	}
	if got := Points(true, 1e6, 5); got != 1000 {
		t.Fatalf("very late answer: expected 1000, got %d", got)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusWaiting, StatusActive, StatusFinished} {
		if !s.Valid() {
			t.Fatalf("expected %q valid", s)
		}
	}
	if Status("paused").Valid() {
		t.Fatalf("expected unknown status invalid")
	}
}
