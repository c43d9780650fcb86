package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quiz-live-service/internal/domain"
)

func TestSessionStateRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	state := NewSessionState(newClient(mr))
	ctx := context.Background()

	if _, ok, _ := state.ActiveQuestion(ctx, 1); ok {
		t.Fatalf("expected no marker initially")
	}

	started := time.Now().UTC().Truncate(time.Second)
	marker := domain.ActiveQuestion{QuestionID: 10, StartedAt: started}
	if err := state.SetActiveQuestion(ctx, 1, marker, 10*time.Minute); err != nil {
		t.Fatalf("set marker: %v", err)
	}

	got, ok, err := state.ActiveQuestion(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("expected marker, ok=%v err=%v", ok, err)
	}
	if got.QuestionID != 10 || !got.StartedAt.Equal(started) {
		t.Fatalf("unexpected marker %+v", got)
	}

	if err := state.ClearActiveQuestion(ctx, 1); err != nil {
		t.Fatalf("clear marker: %v", err)
	}
	if _, ok, _ := state.ActiveQuestion(ctx, 1); ok {
		t.Fatalf("expected marker cleared")
	}
}

func TestSessionStateMarkerExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	state := NewSessionState(newClient(mr))
	ctx := context.Background()

	_ = state.SetActiveQuestion(ctx, 1, domain.ActiveQuestion{QuestionID: 10, StartedAt: time.Now()}, 30*time.Second)
	mr.FastForward(time.Minute)

	if _, ok, _ := state.ActiveQuestion(ctx, 1); ok {
		t.Fatalf("expected marker to expire")
	}
}
