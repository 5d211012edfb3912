package main

import (
	"bytes"
	"testing"

	"github.com/banshee-data/form.report/internal/pose"
	"github.com/banshee-data/form.report/internal/session"
)

func TestReplayCountsFrames(t *testing.T) {
	var buf bytes.Buffer
	w := pose.NewLogWriter(&buf)
	for i := 0; i < 5; i++ {
		var f pose.Frame
		f.TimestampNanos = int64(i) * 33_333_333
		if err := w.Write(f); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	analyzer, err := session.NewAnalyzer(session.DefaultConfig())
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}

	frames, reps, err := replay(analyzer, &buf, nil, nil)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if frames != 5 {
		t.Errorf("expected 5 frames, got %d", frames)
	}
	// Zero-confidence frames never count reps.
	if reps != 0 {
		t.Errorf("expected 0 reps, got %d", reps)
	}
}

func TestReplayRejectsMalformedLog(t *testing.T) {
	buf := bytes.NewBufferString("{not json}\n")

	analyzer, err := session.NewAnalyzer(session.DefaultConfig())
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}

	if _, _, err := replay(analyzer, buf, nil, nil); err == nil {
		t.Error("expected error for malformed pose log")
	}
}
