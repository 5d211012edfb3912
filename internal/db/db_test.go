package db

import (
	"path/filepath"
	"testing"

	"github.com/banshee-data/form.report/internal/score"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestPragmasApplied verifies that essential PRAGMAs are set on all databases
func TestPragmasApplied(t *testing.T) {
	db := newTestDB(t)

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected journal_mode=wal, got %s", journalMode)
	}

	var busyTimeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("Failed to query busy_timeout: %v", err)
	}
	if busyTimeout != 5000 {
		t.Errorf("Expected busy_timeout=5000, got %d", busyTimeout)
	}

	var synchronous int
	if err := db.QueryRow("PRAGMA synchronous").Scan(&synchronous); err != nil {
		t.Fatalf("Failed to query synchronous: %v", err)
	}
	if synchronous != 1 { // 1 = NORMAL
		t.Errorf("Expected synchronous=1 (NORMAL), got %d", synchronous)
	}
}

func TestCreateSessionGeneratesID(t *testing.T) {
	db := newTestDB(t)

	session := &Session{Source: "workout.jsonl", FPS: 30}
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.SessionID == "" {
		t.Error("Expected generated session ID, got empty string")
	}
	if session.StartedAtNs == 0 {
		t.Error("Expected generated start timestamp, got zero")
	}

	got, err := db.GetSession(session.SessionID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Source != "workout.jsonl" || got.FPS != 30 {
		t.Errorf("Round trip mismatch: got %+v", got)
	}
}

func TestCreateSessionKeepsExplicitID(t *testing.T) {
	db := newTestDB(t)

	session := &Session{SessionID: "explicit-id", FPS: 24, Lenient: true, StartedAtNs: 12345}
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := db.GetSession("explicit-id")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !got.Lenient || got.StartedAtNs != 12345 {
		t.Errorf("Round trip mismatch: got %+v", got)
	}
}

func TestGetSessionMissing(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.GetSession("nope"); err == nil {
		t.Error("Expected error for missing session")
	}
}

func TestRecordAndListReps(t *testing.T) {
	db := newTestDB(t)

	session := &Session{FPS: 30}
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	breakdowns := []score.Breakdown{
		{Score: 89.5, ROM: 70, Depth: 100, DownSeconds: 1.0, UpSeconds: 1.1},
		{Score: 72.3, ROM: 55, Depth: 80, Notes: []string{"shallow descent"}},
	}
	for i, b := range breakdowns {
		if err := db.RecordRep(session.SessionID, i+1, &b, 60, int64(i+1)*1e9); err != nil {
			t.Fatalf("RecordRep %d failed: %v", i+1, err)
		}
	}

	reps, err := db.ListSessionReps(session.SessionID)
	if err != nil {
		t.Fatalf("ListSessionReps failed: %v", err)
	}
	if len(reps) != 2 {
		t.Fatalf("Expected 2 reps, got %d", len(reps))
	}
	if reps[0].RepNumber != 1 || reps[0].Score != 89.5 {
		t.Errorf("Rep 1 mismatch: %+v", reps[0])
	}
	if reps[0].RepID == "" {
		t.Error("Expected generated rep ID")
	}
	if reps[0].FrameCount != 60 {
		t.Errorf("Expected frame count 60, got %d", reps[0].FrameCount)
	}
	if reps[0].Notes != "" {
		t.Errorf("Expected empty notes for rep 1, got %q", reps[0].Notes)
	}
	if reps[1].Notes != `["shallow descent"]` {
		t.Errorf("Expected JSON notes for rep 2, got %q", reps[1].Notes)
	}
}

func TestSummarizeSession(t *testing.T) {
	db := newTestDB(t)

	session := &Session{FPS: 30}
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	empty, err := db.SummarizeSession(session.SessionID)
	if err != nil {
		t.Fatalf("SummarizeSession failed: %v", err)
	}
	if empty.RepCount != 0 || empty.AvgScore != 0 || empty.BestScore != 0 {
		t.Errorf("Expected zero aggregates for empty session, got %+v", empty)
	}

	for i, s := range []float64{80, 90, 70} {
		b := score.Breakdown{Score: s}
		if err := db.RecordRep(session.SessionID, i+1, &b, 30, int64(i+1)); err != nil {
			t.Fatalf("RecordRep failed: %v", err)
		}
	}

	summary, err := db.SummarizeSession(session.SessionID)
	if err != nil {
		t.Fatalf("SummarizeSession failed: %v", err)
	}
	if summary.RepCount != 3 {
		t.Errorf("Expected 3 reps, got %d", summary.RepCount)
	}
	if summary.AvgScore != 80 {
		t.Errorf("Expected avg 80, got %f", summary.AvgScore)
	}
	if summary.BestScore != 90 {
		t.Errorf("Expected best 90, got %f", summary.BestScore)
	}
}
