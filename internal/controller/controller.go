// Package controller drives the slideshow state machine. A single goroutine
// owns all transitions: timer ticks and user events arrive on one queue, and
// every display goes through the prefetch cache with a synchronous fetch as
// the fallback. The controller also owns the consecutive-failure budget that
// ends the session when the source looks systemically broken.
package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/nvalette/photodrift/internal/cache"
	"github.com/nvalette/photodrift/internal/imgutil"
	"github.com/nvalette/photodrift/internal/loader"
	"github.com/nvalette/photodrift/internal/playorder"
	"github.com/nvalette/photodrift/internal/quarantine"
)

// ErrTooManyFailures ends the session after errorBudget consecutive load
// failures with no intervening success.
var ErrTooManyFailures = errors.New("too many consecutive load failures")

const (
	defaultInterval     = 3 * time.Second
	defaultFailureDelay = 100 * time.Millisecond
	defaultErrorBudget  = 5

	eventQueueDepth = 16
)

type event int

const (
	evNext event = iota
	evPrevious
	evTogglePause
	evToggleFullscreen
	evStop
)

// Options tune a controller. Zero values fall back to defaults.
type Options struct {
	Interval     time.Duration // time between slides
	FailureDelay time.Duration // pause before advancing past a failed slide
	ErrorBudget  int           // consecutive failures tolerated before the session dies
	Fullscreen   bool          // initial fullscreen state
	Logger       *zap.Logger

	// OnFullscreenChange is called from the controller goroutine whenever
	// the fullscreen state toggles, so the caller can persist it.
	OnFullscreenChange func(fullscreen bool)
}

// Controller coordinates timer ticks, user navigation and cache lookups.
// All state is owned by the Run goroutine; the exported navigation methods
// only post events.
type Controller struct {
	order   *playorder.Order
	paths   []string
	cache   *cache.Cache
	loader  *loader.Loader
	quar    *quarantine.Log
	display Display
	log     *zap.Logger

	interval     time.Duration
	failureDelay time.Duration
	errorBudget  int
	onFullscreen func(bool)

	events chan event
	timer  *time.Timer

	state      State
	fullscreen bool
	current    int
	errCount   int
	lastPhoto  *imgutil.Photo
	stats      Stats
}

// New creates a controller over an already-listed session. paths is the
// unshuffled source list; order maps playback positions into it.
func New(order *playorder.Order, paths []string, c *cache.Cache, l *loader.Loader, quar *quarantine.Log, display Display, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.FailureDelay <= 0 {
		opts.FailureDelay = defaultFailureDelay
	}
	if opts.ErrorBudget <= 0 {
		opts.ErrorBudget = defaultErrorBudget
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		order:        order,
		paths:        paths,
		cache:        c,
		loader:       l,
		quar:         quar,
		display:      display,
		log:          opts.Logger,
		interval:     opts.Interval,
		failureDelay: opts.FailureDelay,
		errorBudget:  opts.ErrorBudget,
		fullscreen:   opts.Fullscreen,
		onFullscreen: opts.OnFullscreenChange,
		events:       make(chan event, eventQueueDepth),
		state:        StatePlaying,
	}
}

// Next advances to the following slide.
func (c *Controller) Next() { c.events <- evNext }

// Previous steps back through the traversal order.
func (c *Controller) Previous() { c.events <- evPrevious }

// TogglePause switches between Playing and Paused.
func (c *Controller) TogglePause() { c.events <- evTogglePause }

// ToggleFullscreen switches the fullscreen state and rescales the current
// slide; timer and cache are untouched.
func (c *Controller) ToggleFullscreen() { c.events <- evToggleFullscreen }

// Stop ends the session.
func (c *Controller) Stop() { c.events <- evStop }

// Stats returns the session counters. Valid once Run has returned.
func (c *Controller) Stats() Stats { return c.stats }

// Run drives the slideshow until Stop is called or the error budget is
// exhausted. It blocks the calling goroutine.
func (c *Controller) Run() error {
	n := c.order.Len()
	if n == 0 {
		return errors.New("nothing to play: image list is empty")
	}

	c.timer = time.NewTimer(c.interval)
	c.stopTimer()

	// The first slide loads synchronously before anything is scheduled.
	c.cache.SetCurrent(c.current)
	photo, err := c.ensure(c.current)
	if err != nil {
		if fatal := c.onLoadFailure(c.current, c.current, err); fatal != nil {
			return fatal
		}
	} else {
		c.show(photo)
		c.afterShow()
	}

	for {
		select {
		case <-c.timer.C:
			if err := c.advance(); err != nil {
				return err
			}
		case ev := <-c.events:
			var err error
			switch ev {
			case evNext:
				c.stopTimer()
				err = c.advance()
			case evPrevious:
				c.stopTimer()
				err = c.previous()
			case evTogglePause:
				err = c.togglePause()
			case evToggleFullscreen:
				c.toggleFullscreen()
			case evStop:
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// advance moves one step forward and displays the slide, exactly as a timer
// tick does.
func (c *Controller) advance() error {
	next := c.mod(c.current + 1)
	photo, err := c.ensure(next)
	if err != nil {
		return c.onLoadFailure(next, next, err)
	}

	c.current = next
	c.cache.SetCurrent(next)
	c.show(photo)
	c.afterShow()
	return nil
}

// previous steps two back and then behaves as a tick that just fired, so the
// displayed slide ends up one before the pre-call position. When the
// back-step target fails to load, playback resumes forward from the entry
// after the target instead, landing two ahead of it once the pending advance
// fires.
func (c *Controller) previous() error {
	target := c.mod(c.current - 2)
	if !c.cache.Contains(target) {
		c.stats.CacheMisses++
		if _, err := c.loader.Load(target); err != nil {
			return c.onLoadFailure(target, c.mod(target+1), err)
		}
		c.errCount = 0
	}

	c.current = target
	return c.advance()
}

// togglePause cancels the pending tick when pausing; resuming redisplays the
// current slide for a fresh full interval rather than skipping ahead.
func (c *Controller) togglePause() error {
	if c.state == StatePlaying {
		c.state = StatePaused
		c.stopTimer()
		c.log.Info("paused", zap.Int("index", c.current))
		return nil
	}

	c.state = StatePlaying
	c.log.Info("resumed", zap.Int("index", c.current))
	photo, err := c.ensure(c.current)
	if err != nil {
		return c.onLoadFailure(c.current, c.current, err)
	}
	c.show(photo)
	c.afterShow()
	return nil
}

func (c *Controller) toggleFullscreen() {
	c.fullscreen = !c.fullscreen
	if c.onFullscreen != nil {
		c.onFullscreen(c.fullscreen)
	}
	if c.lastPhoto != nil {
		c.show(c.lastPhoto)
	}
}

// ensure returns the photo for index from the cache, falling back to a
// synchronous load that blocks the controller goroutine. Any success resets
// the consecutive-failure count.
func (c *Controller) ensure(index int) (*imgutil.Photo, error) {
	if photo := c.cache.Get(index); photo != nil {
		c.stats.CacheHits++
		c.errCount = 0
		return photo, nil
	}

	c.stats.CacheMisses++
	photo, err := c.loader.Load(index)
	if err != nil {
		return nil, err
	}
	c.errCount = 0
	return photo, nil
}

// onLoadFailure applies the failure escalation: quarantine the slide, burn
// error budget, and schedule the advance past resumeIndex after a short
// delay. The retry advance is scheduled even while paused. Returns a fatal
// error once the budget is exhausted.
func (c *Controller) onLoadFailure(failedIndex, resumeIndex int, err error) error {
	path := c.pathOf(failedIndex)
	c.log.Warn("load failed",
		zap.Int("index", failedIndex),
		zap.String("path", path),
		zap.Error(err))

	if qerr := c.quar.Report(fmt.Sprintf("error loading image %s: %v", path, err)); qerr != nil {
		c.log.Error("quarantine write failed", zap.Error(qerr))
	}

	c.stats.Failures++
	c.errCount++
	if c.errCount >= c.errorBudget {
		return fmt.Errorf("%w (%d)", ErrTooManyFailures, c.errCount)
	}

	c.current = resumeIndex
	c.cache.SetCurrent(resumeIndex)
	c.armTimer(c.failureDelay)
	return nil
}

// show scales the photo to the current viewport and hands it to the display.
func (c *Controller) show(photo *imgutil.Photo) {
	w, h := c.display.Size(c.fullscreen)
	scaled := imgutil.FitTo(photo.Image, w, h)

	path := c.pathOf(c.current)
	c.display.Show(scaled, ShowInfo{
		PlaybackIndex: c.current,
		Path:          path,
		Name:          filepath.Base(path),
		ParentDir:     filepath.Base(filepath.Dir(path)),
		Year:          photo.Year,
		Fullscreen:    c.fullscreen,
	})

	c.lastPhoto = photo
	c.stats.Shown++
	c.log.Debug("shown", zap.Int("index", c.current), zap.String("path", path))
}

// afterShow re-arms the tick when playing and queues the read-ahead.
// Prefetch runs even while paused so a resume displays instantly.
func (c *Controller) afterShow() {
	if c.state == StatePlaying {
		c.armTimer(c.interval)
	}
	c.loader.Enqueue(c.mod(c.current + 1))
}

func (c *Controller) armTimer(d time.Duration) {
	c.stopTimer()
	c.timer.Reset(d)
}

func (c *Controller) stopTimer() {
	if !c.timer.Stop() {
		select {
		case <-c.timer.C:
		default:
		}
	}
}

func (c *Controller) mod(i int) int {
	n := c.order.Len()
	return ((i % n) + n) % n
}

func (c *Controller) pathOf(index int) string {
	orig := c.order.OriginalIndexOf(index)
	if orig < 0 || orig >= len(c.paths) {
		return ""
	}
	return c.paths[orig]
}
