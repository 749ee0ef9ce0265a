package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"wordrush/internal/game"
	"wordrush/internal/stats"
)

// ErrUserNotFound is returned when a user lookup finds no row.
var ErrUserNotFound = errors.New("user not found")

// UserRecord is the identity row backing a signed-in user.
type UserRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
	CreatedAt    time.Time
}

// StatsStore is the persistence boundary for identities, per-user
// aggregates, and the capped game-history log. Implementations must
// make RecordDailyResult atomic per user.
type StatsStore interface {
	CreateUser(ctx context.Context, u UserRecord) error
	UserByEmail(ctx context.Context, email string) (UserRecord, error)
	UserByID(ctx context.Context, id string) (UserRecord, error)

	GetAggregate(ctx context.Context, userID string) (stats.UserAggregate, error)
	UpsertAggregate(ctx context.Context, userID string, agg stats.UserAggregate) error

	AppendHistory(ctx context.Context, userID string, entry stats.HistoryEntry) error
	ListHistory(ctx context.Context, userID string, limit int) ([]stats.HistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, userID, entryID string) error

	RecordDailyResult(ctx context.Context, userID, word string, result stats.DailyResult) (stats.UserAggregate, error)
	TopByPoints(ctx context.Context, limit int) ([]LeaderboardRow, error)

	Close() error
}

// SQLiteStore implements StatsStore on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL UNIQUE,
	password_hash     TEXT NOT NULL,
	avatar_url        TEXT NOT NULL DEFAULT '',
	points            INTEGER NOT NULL DEFAULT 0,
	dailies_played    INTEGER NOT NULL DEFAULT 0,
	win_rate          INTEGER NOT NULL DEFAULT 0,
	current_streak    INTEGER NOT NULL DEFAULT 0,
	best_streak       INTEGER NOT NULL DEFAULT 0,
	last_daily_played TIMESTAMP,
	dev_mode          INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS games (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	played_at    TIMESTAMP NOT NULL,
	points_delta INTEGER NOT NULL,
	word         TEXT NOT NULL,
	tries        INTEGER NOT NULL,
	won          INTEGER NOT NULL,
	mode         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_user_date ON games(user_id, played_at DESC);
`

// OpenSQLiteStore opens (creating if missing) the stats database and
// applies the schema. WAL journaling and a busy timeout keep concurrent
// request handling from tripping over the single writer.
func OpenSQLiteStore(dsn string) (*SQLiteStore, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new identity row.
func (s *SQLiteStore) CreateUser(ctx context.Context, u UserRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, avatar_url)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.AvatarURL,
	)
	return err
}

// UserByEmail looks up an identity row by email.
func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (UserRecord, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, avatar_url, created_at
		FROM users WHERE email = ?`, email))
}

// UserByID looks up an identity row by ID.
func (s *SQLiteStore) UserByID(ctx context.Context, id string) (UserRecord, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, avatar_url, created_at
		FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (UserRecord, error) {
	var u UserRecord
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.AvatarURL, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRecord{}, ErrUserNotFound
	}
	return u, err
}

// GetAggregate loads a user's aggregate stats record.
func (s *SQLiteStore) GetAggregate(ctx context.Context, userID string) (stats.UserAggregate, error) {
	return scanAggregate(s.db.QueryRowContext(ctx, `
		SELECT points, dailies_played, win_rate, current_streak, best_streak, last_daily_played, dev_mode
		FROM users WHERE id = ?`, userID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAggregate(row rowScanner) (stats.UserAggregate, error) {
	var agg stats.UserAggregate
	var last sql.NullTime
	var devMode int
	err := row.Scan(&agg.Points, &agg.DailiesPlayed, &agg.WinRate,
		&agg.CurrentStreak, &agg.BestStreak, &last, &devMode)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.UserAggregate{}, ErrUserNotFound
	}
	if err != nil {
		return stats.UserAggregate{}, err
	}
	if last.Valid {
		t := last.Time
		agg.LastDailyPlayed = &t
	}
	agg.DevModeOverride = devMode != 0
	return agg, nil
}

// UpsertAggregate writes a user's aggregate columns in place.
func (s *SQLiteStore) UpsertAggregate(ctx context.Context, userID string, agg stats.UserAggregate) error {
	return upsertAggregate(ctx, s.db, userID, agg)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertAggregate(ctx context.Context, db execer, userID string, agg stats.UserAggregate) error {
	var last any
	if agg.LastDailyPlayed != nil {
		last = *agg.LastDailyPlayed
	}
	_, err := db.ExecContext(ctx, `
		UPDATE users SET points = ?, dailies_played = ?, win_rate = ?,
			current_streak = ?, best_streak = ?, last_daily_played = ?
		WHERE id = ?`,
		agg.Points, agg.DailiesPlayed, agg.WinRate,
		agg.CurrentStreak, agg.BestStreak, last, userID,
	)
	return err
}

// AppendHistory adds a history entry and trims the user's log to the
// most recent entries.
func (s *SQLiteStore) AppendHistory(ctx context.Context, userID string, entry stats.HistoryEntry) error {
	if err := insertHistory(ctx, s.db, userID, entry); err != nil {
		return err
	}
	return trimHistory(ctx, s.db, userID)
}

func insertHistory(ctx context.Context, db execer, userID string, entry stats.HistoryEntry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO games (id, user_id, played_at, points_delta, word, tries, won, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, userID, entry.Timestamp, entry.PointsDelta,
		entry.Word, entry.Tries, boolToInt(entry.Won), string(entry.Mode),
	)
	return err
}

func trimHistory(ctx context.Context, db execer, userID string) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM games WHERE user_id = ? AND id NOT IN (
			SELECT id FROM games WHERE user_id = ?
			ORDER BY played_at DESC, id DESC LIMIT ?
		)`, userID, userID, stats.HistoryCap)
	return err
}

// ListHistory returns a user's history entries, newest first.
func (s *SQLiteStore) ListHistory(ctx context.Context, userID string, limit int) ([]stats.HistoryEntry, error) {
	if limit <= 0 {
		limit = stats.HistoryCap
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, played_at, points_delta, word, tries, won, mode
		FROM games WHERE user_id = ?
		ORDER BY played_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]stats.HistoryEntry, 0, limit)
	for rows.Next() {
		var e stats.HistoryEntry
		var won int
		var mode string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.PointsDelta, &e.Word, &e.Tries, &won, &mode); err != nil {
			return nil, err
		}
		e.Won = won != 0
		e.Mode = game.Mode(mode)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteHistoryEntry removes a single history entry by ID.
func (s *SQLiteStore) DeleteHistoryEntry(ctx context.Context, userID, entryID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM games WHERE user_id = ? AND id = ?`, userID, entryID)
	return err
}

// RecordDailyResult folds a finished daily game into a user's durable
// stats: aggregate update, history append, and trim run in one
// transaction so concurrent submissions for the same user cannot race.
func (s *SQLiteStore) RecordDailyResult(ctx context.Context, userID, word string, result stats.DailyResult) (stats.UserAggregate, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats.UserAggregate{}, err
	}
	defer func() { _ = tx.Rollback() }()

	agg, err := scanAggregate(tx.QueryRowContext(ctx, `
		SELECT points, dailies_played, win_rate, current_streak, best_streak, last_daily_played, dev_mode
		FROM users WHERE id = ?`, userID))
	if err != nil {
		return stats.UserAggregate{}, err
	}

	// Timestamp of the previous daily history entry, nil on first play.
	var lastEntry *time.Time
	var last time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT played_at FROM games WHERE user_id = ? AND mode = ?
		ORDER BY played_at DESC, id DESC LIMIT 1`, userID, string(game.ModeDaily),
	).Scan(&last)
	switch {
	case err == nil:
		lastEntry = &last
	case errors.Is(err, sql.ErrNoRows):
	default:
		return stats.UserAggregate{}, err
	}

	updated := stats.ApplyDailyResult(agg, result, lastEntry)
	if err := upsertAggregate(ctx, tx, userID, updated); err != nil {
		return stats.UserAggregate{}, err
	}

	entry := stats.HistoryEntry{
		ID:          newEntryID(),
		Timestamp:   result.Timestamp,
		PointsDelta: game.PointsFor(result.Won, result.TriesUsed),
		Word:        word,
		Tries:       result.TriesUsed,
		Won:         result.Won,
		Mode:        game.ModeDaily,
	}
	if err := insertHistory(ctx, tx, userID, entry); err != nil {
		return stats.UserAggregate{}, err
	}
	if err := trimHistory(ctx, tx, userID); err != nil {
		return stats.UserAggregate{}, err
	}

	if err := tx.Commit(); err != nil {
		return stats.UserAggregate{}, err
	}
	return updated, nil
}

// TopByPoints returns the leaderboard, highest points first.
func (s *SQLiteStore) TopByPoints(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, avatar_url, points FROM users
		ORDER BY points DESC, name ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Name, &r.AvatarURL, &r.Points); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// newEntryID mints an ID for a history entry.
func newEntryID() string {
	return uuid.NewString()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
