package pose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// A pose log is newline-delimited JSON: one Frame per line, in capture
// order. It is the interchange format between a capture front-end and the
// offline analysis tools.

// LogReader streams frames from a pose log.
type LogReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewLogReader wraps r for frame-by-frame reading.
func NewLogReader(r io.Reader) *LogReader {
	sc := bufio.NewScanner(r)
	// Allow long lines; a full 17-keypoint frame is well under this.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &LogReader{scanner: sc}
}

// Next returns the next frame, or io.EOF when the log is exhausted.
// Blank lines are skipped; malformed lines fail with the line number.
func (lr *LogReader) Next() (Frame, error) {
	for lr.scanner.Scan() {
		lr.line++
		raw := lr.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return Frame{}, fmt.Errorf("pose log line %d: %w", lr.line, err)
		}
		return f, nil
	}
	if err := lr.scanner.Err(); err != nil {
		return Frame{}, fmt.Errorf("pose log read: %w", err)
	}
	return Frame{}, io.EOF
}

// ReadLog reads every frame from r. Convenience for tests and batch tools;
// streaming callers should use LogReader directly.
func ReadLog(r io.Reader) ([]Frame, error) {
	lr := NewLogReader(r)
	var frames []Frame
	for {
		f, err := lr.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
}

// ReadLogFile reads every frame from the pose log at path.
func ReadLogFile(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pose log: %w", err)
	}
	defer f.Close()
	return ReadLog(f)
}

// LogWriter appends frames to a pose log.
type LogWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewLogWriter wraps w for frame-by-frame writing.
func NewLogWriter(w io.Writer) *LogWriter {
	bw := bufio.NewWriter(w)
	return &LogWriter{w: bw, enc: json.NewEncoder(bw)}
}

// Write appends one frame as a single JSON line.
func (lw *LogWriter) Write(f Frame) error {
	if err := lw.enc.Encode(&f); err != nil {
		return fmt.Errorf("pose log write: %w", err)
	}
	return nil
}

// Flush writes any buffered frames to the underlying writer.
func (lw *LogWriter) Flush() error {
	return lw.w.Flush()
}
