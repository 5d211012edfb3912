// Package db persists exercise sessions and their scored repetitions
// to sqlite. The schema is managed by golang-migrate with migrations
// embedded in the binary.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/form.report/internal/score"
)

type DB struct {
	*sql.DB
}

// OpenDB opens the sqlite database at path and applies the essential
// PRAGMAs. It does not touch the schema; use NewDB for that.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return &DB{db}, nil
}

// NewDB opens the database and brings the schema up to the latest
// embedded migration version.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(MigrationsFS()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Session is one recorded exercise session.
type Session struct {
	SessionID   string  `json:"session_id"`
	Source      string  `json:"source,omitempty"` // Pose log path or capture label
	FPS         float64 `json:"fps"`
	Lenient     bool    `json:"lenient"`
	StartedAtNs int64   `json:"started_at_ns"`
}

// Rep is one scored repetition within a session.
type Rep struct {
	RepID         string  `json:"rep_id"`
	SessionID     string  `json:"session_id"`
	RepNumber     int     `json:"rep_number"`
	Score         float64 `json:"score"`
	ROM           float64 `json:"rom"`
	Depth         float64 `json:"depth"`
	BodyLine      float64 `json:"body_line"`
	Tempo         float64 `json:"tempo"`
	Stability     float64 `json:"stability"`
	Symmetry      float64 `json:"symmetry"`
	DownSeconds   float64 `json:"down_seconds"`
	UpSeconds     float64 `json:"up_seconds"`
	FrameCount    int     `json:"frame_count"`
	Notes         string  `json:"notes,omitempty"` // JSON array of scorer notes
	CompletedAtNs int64   `json:"completed_at_ns"`
}

// CreateSession inserts a new session row. If session.SessionID is
// empty, a new UUID is generated.
func (db *DB) CreateSession(session *Session) error {
	if session.SessionID == "" {
		session.SessionID = uuid.New().String()
	}
	if session.StartedAtNs == 0 {
		session.StartedAtNs = time.Now().UnixNano()
	}

	_, err := db.Exec(
		`INSERT INTO sessions (session_id, source, fps, lenient, started_at_ns)
		 VALUES (?, ?, ?, ?, ?)`,
		session.SessionID, session.Source, session.FPS, session.Lenient, session.StartedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// RecordRep stores one scored repetition. A new UUID is generated for
// the rep; the breakdown's notes are serialized as a JSON array.
func (db *DB) RecordRep(sessionID string, repNumber int, b *score.Breakdown, frameCount int, completedAtNs int64) error {
	notes := ""
	if len(b.Notes) > 0 {
		raw, err := json.Marshal(b.Notes)
		if err != nil {
			return fmt.Errorf("marshal rep notes: %w", err)
		}
		notes = string(raw)
	}
	if completedAtNs == 0 {
		completedAtNs = time.Now().UnixNano()
	}

	_, err := db.Exec(
		`INSERT INTO reps (
			rep_id, session_id, rep_number, score, rom, depth, body_line,
			tempo, stability, symmetry, down_seconds, up_seconds,
			frame_count, notes, completed_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), sessionID, repNumber, b.Score, b.ROM, b.Depth, b.BodyLine,
		b.Tempo, b.Stability, b.Symmetry, b.DownSeconds, b.UpSeconds,
		frameCount, notes, completedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert rep: %w", err)
	}
	return nil
}

// ListSessionReps returns a session's repetitions in completion order.
func (db *DB) ListSessionReps(sessionID string) ([]Rep, error) {
	rows, err := db.Query(
		`SELECT rep_id, session_id, rep_number, score, rom, depth, body_line,
		        tempo, stability, symmetry, down_seconds, up_seconds,
		        frame_count, notes, completed_at_ns
		 FROM reps WHERE session_id = ? ORDER BY rep_number`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []Rep
	for rows.Next() {
		var r Rep
		if err := rows.Scan(
			&r.RepID, &r.SessionID, &r.RepNumber, &r.Score, &r.ROM, &r.Depth, &r.BodyLine,
			&r.Tempo, &r.Stability, &r.Symmetry, &r.DownSeconds, &r.UpSeconds,
			&r.FrameCount, &r.Notes, &r.CompletedAtNs,
		); err != nil {
			return nil, err
		}
		reps = append(reps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reps, nil
}

// GetSession retrieves a session by ID.
func (db *DB) GetSession(sessionID string) (*Session, error) {
	var s Session
	err := db.QueryRow(
		`SELECT session_id, source, fps, lenient, started_at_ns
		 FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&s.SessionID, &s.Source, &s.FPS, &s.Lenient, &s.StartedAtNs)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SessionSummary aggregates a session's repetitions.
type SessionSummary struct {
	SessionID string  `json:"session_id"`
	RepCount  int     `json:"rep_count"`
	AvgScore  float64 `json:"avg_score"`
	BestScore float64 `json:"best_score"`
}

// SummarizeSession returns rep count and score aggregates for one
// session. A session with no reps yields zero aggregates.
func (db *DB) SummarizeSession(sessionID string) (*SessionSummary, error) {
	summary := &SessionSummary{SessionID: sessionID}
	err := db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(MAX(score), 0)
		 FROM reps WHERE session_id = ?`,
		sessionID,
	).Scan(&summary.RepCount, &summary.AvgScore, &summary.BestScore)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
