// Package loader prefetches upcoming slideshow images on a single background
// worker, writing decoded results into the shared cache.
package loader

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nvalette/photodrift/internal/cache"
	"github.com/nvalette/photodrift/internal/imgutil"
	"github.com/nvalette/photodrift/internal/playorder"
	"github.com/nvalette/photodrift/internal/quarantine"
	"github.com/nvalette/photodrift/internal/source"
)

const queueDepth = 16

// Loader drains a FIFO queue of playback indices, the only channel between
// the controller and the background worker. Failed prefetches are logged to
// quarantine and dropped; the caller may re-enqueue later. The worker runs
// for the process lifetime; Close exists so tests can stop it.
type Loader struct {
	src   source.Source
	order *playorder.Order
	paths []string
	cache *cache.Cache
	quar  *quarantine.Log
	log   *zap.Logger

	queue chan int

	mu      sync.Mutex
	pending map[int]struct{}
	closed  bool
}

// New creates a loader. paths is the unshuffled source list, used for
// quarantine messages. A nil logger disables logging.
func New(src source.Source, order *playorder.Order, paths []string, c *cache.Cache, quar *quarantine.Log, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		src:     src,
		order:   order,
		paths:   paths,
		cache:   c,
		quar:    quar,
		log:     logger,
		queue:   make(chan int, queueDepth),
		pending: make(map[int]struct{}),
	}
}

// Start launches the worker goroutine.
func (l *Loader) Start() {
	go l.run()
}

// Close stops the worker once the queue drains. Only tests need this; in the
// application the worker dies with the process.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
}

// Enqueue schedules a background load for a playback index. Indices already
// cached, queued, or in flight are ignored, so enqueueing is idempotent and
// at most one request per index exists at any time.
func (l *Loader) Enqueue(index int) {
	if l.cache.Contains(index) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if _, ok := l.pending[index]; ok {
		return
	}
	select {
	case l.queue <- index:
		l.pending[index] = struct{}{}
	default:
		// Queue full; the controller will fall back to a synchronous load.
	}
}

func (l *Loader) run() {
	for index := range l.queue {
		if !l.cache.Contains(index) {
			if photo, err := l.Load(index); err != nil {
				path := l.pathOf(index)
				l.log.Warn("prefetch failed", zap.Int("index", index), zap.String("path", path), zap.Error(err))
				if qerr := l.quar.Report(fmt.Sprintf("error preloading image %s: %v", path, err)); qerr != nil {
					l.log.Error("quarantine write failed", zap.Error(qerr))
				}
			} else {
				l.log.Debug("preloaded", zap.Int("index", index), zap.String("path", l.pathOf(index)), zap.String("year", photo.Year))
			}
		}

		l.mu.Lock()
		delete(l.pending, index)
		l.mu.Unlock()
	}
}

// Load fetches, decodes and caches the image for a playback index. It is
// also the controller's synchronous fallback on a cache miss.
func (l *Loader) Load(index int) (*imgutil.Photo, error) {
	data, err := l.src.Fetch(l.order.OriginalIndexOf(index))
	if err != nil {
		return nil, err
	}
	photo, err := imgutil.DecodeOriented(data)
	if err != nil {
		return nil, &source.Error{Kind: source.KindFormat, Path: l.pathOf(index), Err: err}
	}
	l.cache.Put(index, photo)
	return photo, nil
}

func (l *Loader) pathOf(index int) string {
	orig := l.order.OriginalIndexOf(index)
	if orig < 0 || orig >= len(l.paths) {
		return ""
	}
	return l.paths[orig]
}
