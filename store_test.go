package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"wordrush/internal/game"
	"wordrush/internal/stats"
)

const (
	TestUserName  = "Tester"
	TestUserEmail = "tester@example.com"
	TestWord      = "apple"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore) string {
	t.Helper()
	id := uuid.NewString()
	err := store.CreateUser(context.Background(), UserRecord{
		ID:           id,
		Name:         TestUserName,
		Email:        fmt.Sprintf("%s-%s", id[:8], TestUserEmail),
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return id
}

// TestUserRoundTrip checks user creation and lookups.
func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	record := UserRecord{ID: id, Name: TestUserName, Email: TestUserEmail, PasswordHash: "hash", AvatarURL: "http://a/b.png"}
	if err := store.CreateUser(ctx, record); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	byEmail, err := store.UserByEmail(ctx, TestUserEmail)
	if err != nil || byEmail.ID != id {
		t.Errorf("UserByEmail = %+v, %v; want id %s", byEmail, err, id)
	}
	byID, err := store.UserByID(ctx, id)
	if err != nil || byID.Email != TestUserEmail {
		t.Errorf("UserByID = %+v, %v; want email %s", byID, err, TestUserEmail)
	}

	if _, err := store.UserByID(ctx, "nope"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UserByID for unknown id = %v, want ErrUserNotFound", err)
	}
}

// TestAggregateDefaultsAndUpsert checks fresh users start zeroed and
// updates round-trip, including the nullable timestamp.
func TestAggregateDefaultsAndUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, store)

	agg, err := store.GetAggregate(ctx, userID)
	if err != nil {
		t.Fatalf("GetAggregate: %v", err)
	}
	if agg.Points != 0 || agg.DailiesPlayed != 0 || agg.LastDailyPlayed != nil {
		t.Errorf("fresh aggregate = %+v, want zero values", agg)
	}

	played := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	want := stats.UserAggregate{
		Points: 12, DailiesPlayed: 4, WinRate: 75,
		CurrentStreak: 2, BestStreak: 3, LastDailyPlayed: &played,
	}
	if err := store.UpsertAggregate(ctx, userID, want); err != nil {
		t.Fatalf("UpsertAggregate: %v", err)
	}
	got, err := store.GetAggregate(ctx, userID)
	if err != nil {
		t.Fatalf("GetAggregate after upsert: %v", err)
	}
	if got.Points != want.Points || got.WinRate != want.WinRate || got.BestStreak != want.BestStreak {
		t.Errorf("aggregate after upsert = %+v, want %+v", got, want)
	}
	if got.LastDailyPlayed == nil || !got.LastDailyPlayed.Equal(played) {
		t.Errorf("lastDailyPlayed = %v, want %v", got.LastDailyPlayed, played)
	}
}

// TestHistoryRetention appends 25 entries and checks only the 20 most
// recent survive.
func TestHistoryRetention(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, store)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		entry := stats.HistoryEntry{
			ID:          uuid.NewString(),
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
			PointsDelta: 1,
			Word:        TestWord,
			Tries:       3,
			Won:         true,
			Mode:        game.ModePractice,
		}
		if err := store.AppendHistory(ctx, userID, entry); err != nil {
			t.Fatalf("AppendHistory %d: %v", i, err)
		}
	}

	entries, err := store.ListHistory(ctx, userID, 100)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(entries) != stats.HistoryCap {
		t.Fatalf("history length = %d, want %d", len(entries), stats.HistoryCap)
	}
	// Newest first; the oldest surviving entry is number 5 (0-indexed).
	if !entries[0].Timestamp.Equal(base.Add(24 * time.Hour)) {
		t.Errorf("newest entry at %v, want %v", entries[0].Timestamp, base.Add(24*time.Hour))
	}
	if !entries[len(entries)-1].Timestamp.Equal(base.Add(5 * time.Hour)) {
		t.Errorf("oldest surviving entry at %v, want %v", entries[len(entries)-1].Timestamp, base.Add(5*time.Hour))
	}
}

// TestDeleteHistoryEntry checks single-entry removal.
func TestDeleteHistoryEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, store)

	entry := stats.HistoryEntry{
		ID: uuid.NewString(), Timestamp: time.Now().UTC(),
		Word: TestWord, Tries: 2, Won: true, Mode: game.ModeDaily,
	}
	if err := store.AppendHistory(ctx, userID, entry); err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}
	if err := store.DeleteHistoryEntry(ctx, userID, entry.ID); err != nil {
		t.Fatalf("DeleteHistoryEntry: %v", err)
	}
	entries, err := store.ListHistory(ctx, userID, 10)
	if err != nil || len(entries) != 0 {
		t.Errorf("history after delete = %v, %v; want empty", entries, err)
	}
}

// TestRecordDailyResult walks two consecutive daily wins through the
// transactional update and checks streak, points, and history.
func TestRecordDailyResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, store)

	day1 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	agg, err := store.RecordDailyResult(ctx, userID, TestWord, stats.DailyResult{Won: true, TriesUsed: 2, Timestamp: day1})
	if err != nil {
		t.Fatalf("RecordDailyResult day 1: %v", err)
	}
	if agg.Points != 5 || agg.CurrentStreak != 1 || agg.DailiesPlayed != 1 || agg.WinRate != 100 {
		t.Errorf("aggregate after day 1 = %+v", agg)
	}

	day2 := day1.Add(25 * time.Hour)
	agg, err = store.RecordDailyResult(ctx, userID, TestWord, stats.DailyResult{Won: true, TriesUsed: 1, Timestamp: day2})
	if err != nil {
		t.Fatalf("RecordDailyResult day 2: %v", err)
	}
	if agg.Points != 15 || agg.CurrentStreak != 2 || agg.BestStreak != 2 {
		t.Errorf("aggregate after day 2 = %+v", agg)
	}

	persisted, err := store.GetAggregate(ctx, userID)
	if err != nil || persisted.Points != agg.Points {
		t.Errorf("persisted aggregate = %+v, %v; want points %d", persisted, err, agg.Points)
	}

	entries, err := store.ListHistory(ctx, userID, 10)
	if err != nil || len(entries) != 2 {
		t.Fatalf("history = %v, %v; want 2 entries", entries, err)
	}
	if entries[0].PointsDelta != 10 || entries[0].Mode != game.ModeDaily {
		t.Errorf("newest history entry = %+v, want daily +10", entries[0])
	}
}

// TestTopByPoints checks leaderboard ordering.
func TestTopByPoints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, points := range []int{3, 30, 12} {
		id := uuid.NewString()
		err := store.CreateUser(ctx, UserRecord{
			ID: id, Name: fmt.Sprintf("player-%d", i),
			Email: fmt.Sprintf("p%d@example.com", i), PasswordHash: "x",
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := store.UpsertAggregate(ctx, id, stats.UserAggregate{Points: points}); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := store.TopByPoints(ctx, 2)
	if err != nil {
		t.Fatalf("TopByPoints: %v", err)
	}
	if len(rows) != 2 || rows[0].Points != 30 || rows[1].Points != 12 {
		t.Errorf("leaderboard = %+v, want top two by points", rows)
	}
}
