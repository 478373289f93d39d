// Package quarantine keeps the append-only record of images that failed to
// load during a session. The log file is named after the session start time
// and created lazily on the first failure, so clean sessions leave no file
// behind.
package quarantine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvalette/photodrift/internal/listfile"
)

const (
	fileTimeFormat = "20060102_150405"
	lineTimeFormat = "2006-01-02 15:04:05"
)

// Log appends one line per failure: "<timestamp> - <message>".
type Log struct {
	mu      sync.Mutex
	path    string
	start   time.Time
	created bool
	now     func() time.Time
}

// New prepares a quarantine log in dir for a session started at start.
func New(dir string, start time.Time) *Log {
	name := fmt.Sprintf("bad_images_%s.%s", start.Format(fileTimeFormat), listfile.DefaultExt)
	return &Log{
		path:  filepath.Join(dir, name),
		start: start,
		now:   time.Now,
	}
}

// Path returns where the log is (or would be) written.
func (l *Log) Path() string {
	return l.path
}

// Report appends a failure line, creating the file on first use.
func (l *Log) Report(msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open quarantine log: %w", err)
	}
	defer f.Close()

	if !l.created {
		fmt.Fprintf(f, "# Corrupted images log\n# Created: %s\n\n", l.start.Format(lineTimeFormat))
		l.created = true
	}

	if _, err := fmt.Fprintf(f, "%s - %s\n", l.now().Format(lineTimeFormat), msg); err != nil {
		return fmt.Errorf("write quarantine log: %w", err)
	}
	return nil
}
