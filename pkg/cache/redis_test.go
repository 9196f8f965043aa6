package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"quiz-portal/internal/models"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	srv := miniredis.RunT(t)
	return NewRedisCache(NewRedisClient(srv.Addr(), ""))
}

func TestGroupCacheRoundTripAndMiss(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	got, err := c.GetGroup(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("miss = (%v, %v), want (nil, nil)", got, err)
	}

	group := &models.QuizGroup{GroupID: "g1", Name: "Networking", QuestionCount: 5, TimeLimitMinutes: 30}
	if err := c.SetGroup(ctx, group); err != nil {
		t.Fatalf("SetGroup: %v", err)
	}
	got, err = c.GetGroup(ctx, "g1")
	if err != nil || got == nil || got.Name != "Networking" || got.QuestionCount != 5 {
		t.Fatalf("GetGroup = (%+v, %v)", got, err)
	}

	if err := c.DeleteGroup(ctx, "g1"); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if got, _ := c.GetGroup(ctx, "g1"); got != nil {
		t.Fatalf("expected cache entry to be gone")
	}
}

func TestLeaderboardKeepsBestScore(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, s := range []struct {
		account string
		score   int
	}{
		{"player-alpha", 3},
		{"player-bravo", 5},
		{"player-alpha", 7},
		{"player-alpha", 1},
	} {
		if err := c.RecordScore(ctx, "g1", s.account, s.score); err != nil {
			t.Fatalf("RecordScore: %v", err)
		}
	}

	entries, err := c.GetLeaderboard(ctx, "g1", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].AccountName != "player-alpha" || entries[0].Score != 7 {
		t.Fatalf("top entry = %+v, want player-alpha/7", entries[0])
	}
	if entries[1].AccountName != "player-bravo" || entries[1].Score != 5 {
		t.Fatalf("second entry = %+v", entries[1])
	}
}
