package source

import (
	"fmt"
	"os"
	"sync"

	"github.com/nvalette/photodrift/internal/listfile"
)

// Local serves images straight from the filesystem, addressed through a
// newline-delimited list file.
type Local struct {
	listPath string

	mu    sync.Mutex
	paths []string
}

// NewLocal creates a source backed by the given list file.
func NewLocal(listPath string) *Local {
	return &Local{listPath: listPath}
}

// List reads the list file on first call and caches it for the session.
func (l *Local) List() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.paths == nil {
		paths, err := listfile.Read(l.listPath)
		if err != nil {
			return nil, err
		}
		l.paths = paths
	}
	return l.paths, nil
}

// Fetch reads the file at the given original index.
func (l *Local) Fetch(originalIndex int) ([]byte, error) {
	paths, err := l.List()
	if err != nil {
		return nil, err
	}
	if originalIndex < 0 || originalIndex >= len(paths) {
		return nil, &Error{Kind: KindNotFound, Err: fmt.Errorf("index %d out of range [0,%d)", originalIndex, len(paths))}
	}

	path := paths[originalIndex]
	data, err := os.ReadFile(path)
	if err != nil {
		kind := KindIO
		if os.IsNotExist(err) {
			kind = KindNotFound
		}
		return nil, &Error{Kind: kind, Path: path, Err: err}
	}
	return data, nil
}
