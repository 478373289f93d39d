package controller

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/disintegration/imaging"

	"github.com/nvalette/photodrift/internal/cache"
	"github.com/nvalette/photodrift/internal/loader"
	"github.com/nvalette/photodrift/internal/playorder"
	"github.com/nvalette/photodrift/internal/quarantine"
	"github.com/nvalette/photodrift/internal/source"
)

const (
	testInterval     = 3 * time.Second
	testFailureDelay = 100 * time.Millisecond
)

// fakeSource serves one synthetic PNG for every index, with optional
// per-index or leading failures.
type fakeSource struct {
	mu        sync.Mutex
	n         int
	data      []byte
	fail      map[int]bool
	failFirst int // fail this many fetches before succeeding
	fetches   int
}

func newFakeSource(t *testing.T, n int) *fakeSource {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatal(err)
	}
	return &fakeSource{n: n, data: buf.Bytes(), fail: make(map[int]bool)}
}

func (s *fakeSource) List() ([]string, error) {
	paths := make([]string, s.n)
	for i := range paths {
		paths[i] = fmt.Sprintf("/pics/album/img%d.jpg", i)
	}
	return paths, nil
}

func (s *fakeSource) Fetch(originalIndex int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.failFirst > 0 {
		s.failFirst--
		return nil, &source.Error{Kind: source.KindNetwork, Err: errors.New("unreachable")}
	}
	if s.fail[originalIndex] {
		return nil, &source.Error{Kind: source.KindIO, Err: errors.New("read failed")}
	}
	return s.data, nil
}

// fakeDisplay records everything shown.
type fakeDisplay struct {
	mu     sync.Mutex
	infos  []ShowInfo
	bounds []image.Rectangle
}

func (d *fakeDisplay) Size(fullscreen bool) (int, int) {
	if fullscreen {
		return 200, 200
	}
	return 100, 100
}

func (d *fakeDisplay) Show(img image.Image, info ShowInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.infos = append(d.infos, info)
	d.bounds = append(d.bounds, img.Bounds())
}

func (d *fakeDisplay) shownIndices() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	indices := make([]int, len(d.infos))
	for i, info := range d.infos {
		indices[i] = info.PlaybackIndex
	}
	return indices
}

func (d *fakeDisplay) lastInfo() ShowInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.infos[len(d.infos)-1]
}

type session struct {
	src     *fakeSource
	display *fakeDisplay
	loader  *loader.Loader
	ctrl    *Controller
	errCh   chan error
}

// startSession wires a full pipeline over an identity order and launches
// Run. startLoader controls whether prefetching actually happens.
func startSession(t *testing.T, src *fakeSource, startLoader bool) *session {
	t.Helper()

	paths, _ := src.List()
	order := playorder.NewIdentity(len(paths))
	c := cache.New(cache.DefaultCapacity)
	quar := quarantine.New(t.TempDir(), time.Now())
	l := loader.New(src, order, paths, c, quar, nil)
	if startLoader {
		l.Start()
	}
	display := &fakeDisplay{}

	ctrl := New(order, paths, c, l, quar, display, Options{
		Interval:     testInterval,
		FailureDelay: testFailureDelay,
	})

	s := &session{src: src, display: display, loader: l, ctrl: ctrl, errCh: make(chan error, 1)}
	go func() { s.errCh <- ctrl.Run() }()
	return s
}

func (s *session) stop(t *testing.T) error {
	t.Helper()
	s.ctrl.Stop()
	err := <-s.errCh
	s.loader.Close()
	return err
}

func assertShown(t *testing.T, d *fakeDisplay, want []int) {
	t.Helper()
	got := d.shownIndices()
	if len(got) != len(want) {
		t.Fatalf("shown indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("shown indices = %v, want %v", got, want)
		}
	}
}

func TestController_TickSequenceWithWraparound(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := startSession(t, newFakeSource(t, 3), true)
		synctest.Wait()

		// First slide is shown synchronously before the first tick.
		assertShown(t, s.display, []int{0})

		time.Sleep(testInterval)
		synctest.Wait()
		assertShown(t, s.display, []int{0, 1})

		time.Sleep(testInterval)
		synctest.Wait()
		assertShown(t, s.display, []int{0, 1, 2})

		// Wraps back to the first slide.
		time.Sleep(testInterval)
		synctest.Wait()
		assertShown(t, s.display, []int{0, 1, 2, 0})

		if err := s.stop(t); err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}

		stats := s.ctrl.Stats()
		if stats.Failures != 0 {
			t.Errorf("Failures = %d, want 0", stats.Failures)
		}
		if stats.CacheHits == 0 {
			t.Error("prefetched slides should have produced cache hits")
		}
		if stats.Shown != 4 {
			t.Errorf("Shown = %d, want 4", stats.Shown)
		}
	})
}

func TestController_NextWrapsAfterN(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := startSession(t, newFakeSource(t, 3), false)
		synctest.Wait()
		assertShown(t, s.display, []int{0})

		// N calls to Next return to the starting index.
		for range 3 {
			s.ctrl.Next()
			synctest.Wait()
		}
		assertShown(t, s.display, []int{0, 1, 2, 0})

		if err := s.stop(t); err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
	})
}

func TestController_PreviousShowsPriorSlide(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := startSession(t, newFakeSource(t, 4), false)
		synctest.Wait()

		s.ctrl.Next() // -> 1
		synctest.Wait()

		s.ctrl.Previous() // -> back to 0
		synctest.Wait()
		assertShown(t, s.display, []int{0, 1, 0})

		if err := s.stop(t); err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
	})
}

func TestController_PreviousFallsThroughOnFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		src := newFakeSource(t, 4)
		src.fail[2] = true // the back-step target from index 0
		s := startSession(t, src, false)
		synctest.Wait()
		assertShown(t, s.display, []int{0})

		// Previous from index 0 targets index 2, which fails to load. The
		// pending advance then lands back on index 0: the slide moves two
		// ahead of the failed target instead of one back.
		s.ctrl.Previous()
		synctest.Wait()
		time.Sleep(testFailureDelay)
		synctest.Wait()
		assertShown(t, s.display, []int{0, 0})

		if err := s.stop(t); err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
		if s.ctrl.Stats().Failures != 1 {
			t.Errorf("Failures = %d, want 1", s.ctrl.Stats().Failures)
		}
	})
}

func TestController_PauseStopsTicksResumeRedisplays(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := startSession(t, newFakeSource(t, 3), false)
		synctest.Wait()
		assertShown(t, s.display, []int{0})

		s.ctrl.TogglePause()
		synctest.Wait()

		// No ticks while paused.
		time.Sleep(3 * testInterval)
		synctest.Wait()
		assertShown(t, s.display, []int{0})

		// Resume redisplays the current slide for a fresh interval.
		s.ctrl.TogglePause()
		synctest.Wait()
		assertShown(t, s.display, []int{0, 0})

		time.Sleep(testInterval)
		synctest.Wait()
		assertShown(t, s.display, []int{0, 0, 1})

		if err := s.stop(t); err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
	})
}

func TestController_ToggleFullscreenRescalesOnly(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := startSession(t, newFakeSource(t, 3), false)
		synctest.Wait()
		assertShown(t, s.display, []int{0})

		s.ctrl.ToggleFullscreen()
		synctest.Wait()

		// Same slide, new scale, fullscreen flagged.
		assertShown(t, s.display, []int{0, 0})
		info := s.display.lastInfo()
		if !info.Fullscreen {
			t.Error("last ShowInfo should be fullscreen")
		}
		s.display.mu.Lock()
		last := s.display.bounds[len(s.display.bounds)-1]
		s.display.mu.Unlock()
		if last.Dx() != 200 || last.Dy() != 200 {
			t.Errorf("fullscreen scale = %dx%d, want 200x200", last.Dx(), last.Dy())
		}

		if err := s.stop(t); err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
	})
}

func TestController_FiveConsecutiveFailuresAreFatal(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		src := newFakeSource(t, 3)
		src.failFirst = 1000 // every load fails
		s := startSession(t, src, false)

		// Initial load fails, then each failure delay burns one more unit
		// of the budget until the session dies.
		var err error
		for range 10 {
			select {
			case err = <-s.errCh:
			default:
				time.Sleep(testFailureDelay)
				synctest.Wait()
			}
			if err != nil {
				break
			}
		}

		if !errors.Is(err, ErrTooManyFailures) {
			t.Fatalf("Run() = %v, want ErrTooManyFailures", err)
		}
		if s.ctrl.Stats().Failures != 5 {
			t.Errorf("Failures = %d, want 5", s.ctrl.Stats().Failures)
		}
		s.loader.Close()
	})
}

func TestController_SuccessResetsErrorBudget(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		src := newFakeSource(t, 6)
		src.failFirst = 4 // four failures, then every load succeeds
		s := startSession(t, src, false)
		synctest.Wait()

		for range 4 {
			time.Sleep(testFailureDelay)
			synctest.Wait()
		}

		// The fifth attempt succeeded and reset the counter; the session
		// keeps running through further ticks.
		time.Sleep(testInterval)
		synctest.Wait()

		select {
		case err := <-s.errCh:
			t.Fatalf("session died early: %v", err)
		default:
		}

		if err := s.stop(t); err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
		if s.ctrl.Stats().Failures != 4 {
			t.Errorf("Failures = %d, want 4", s.ctrl.Stats().Failures)
		}
	})
}

func TestController_MetadataResolvedThroughOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := startSession(t, newFakeSource(t, 3), false)
		synctest.Wait()

		info := s.display.lastInfo()
		if info.Path != "/pics/album/img0.jpg" {
			t.Errorf("Path = %q", info.Path)
		}
		if info.Name != "img0.jpg" {
			t.Errorf("Name = %q", info.Name)
		}
		if info.ParentDir != "album" {
			t.Errorf("ParentDir = %q", info.ParentDir)
		}

		if err := s.stop(t); err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
	})
}

func TestController_EmptyListIsFatal(t *testing.T) {
	src := newFakeSource(t, 0)
	paths, _ := src.List()
	order := playorder.NewIdentity(0)
	c := cache.New(cache.DefaultCapacity)
	quar := quarantine.New(t.TempDir(), time.Now())
	l := loader.New(src, order, paths, c, quar, nil)
	ctrl := New(order, paths, c, l, quar, &fakeDisplay{}, Options{})

	if err := ctrl.Run(); err == nil {
		t.Error("Run() with an empty list should fail")
	}
}
