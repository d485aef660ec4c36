package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// DailyWriter appends to a per-calendar-day log file.
//
// The file is truncated fresh when the writer is created and opened in
// append mode afterwards. Every Write covers exactly one log line and is
// guarded by a cross-process file lock, so concurrent bridge processes
// appending to the same day's file interleave whole lines only.
type DailyWriter struct {
	path string
	lock *flock.Flock

	mu   sync.Mutex
	file *os.File
}

// NewDailyWriter creates the writer for today's log file under dir.
func NewDailyWriter(dir string) (*DailyWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := DailyLogPath(dir, time.Now())
	w := &DailyWriter{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	// Start the file fresh for this process run, header first.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	header := fmt.Sprintf("=== YOKATLAS Bridge Log - %s ===\n", time.Now().Format(time.RFC3339))
	if _, err := f.WriteString(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write log header: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close log file: %w", err)
	}

	// Reopen append-only for the rest of the process lifetime.
	if err := w.openFile(); err != nil {
		return nil, err
	}

	return w, nil
}

// Path returns the path of today's log file.
func (w *DailyWriter) Path() string {
	return w.path
}

// Write implements io.Writer. Each call is expected to carry one full log
// line; the file lock keeps appends from other processes from splitting it.
func (w *DailyWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, fmt.Errorf("log writer is closed")
	}

	if err := w.lock.Lock(); err != nil {
		return 0, fmt.Errorf("failed to lock log file: %w", err)
	}
	defer func() { _ = w.lock.Unlock() }()

	n, err = w.file.Write(p)
	if err == nil {
		_ = w.file.Sync()
	}
	return n, err
}

// Sync flushes the file to disk.
func (w *DailyWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

// Close closes the underlying file.
func (w *DailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// openFile opens the log file for appending.
func (w *DailyWriter) openFile() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	w.file = f
	return nil
}

// DailyLogPath returns the log file path for the given day.
func DailyLogPath(dir string, day time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("yokatlas-bridge-%s.log", day.Format("2006-01-02")))
}
