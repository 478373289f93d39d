package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nvalette/photodrift/internal/cache"
	"github.com/nvalette/photodrift/internal/config"
	"github.com/nvalette/photodrift/internal/controller"
	"github.com/nvalette/photodrift/internal/errmsg"
	"github.com/nvalette/photodrift/internal/listfile"
	"github.com/nvalette/photodrift/internal/loader"
	"github.com/nvalette/photodrift/internal/playorder"
	"github.com/nvalette/photodrift/internal/quarantine"
	"github.com/nvalette/photodrift/internal/source"
	"github.com/nvalette/photodrift/internal/state"
)

// logDisplay is a stand-in for the windowing layer: it reports the viewport
// size from the configured geometry and logs each slide instead of drawing.
type logDisplay struct {
	log              *zap.Logger
	winW, winH       int
	screenW, screenH int
}

func (d *logDisplay) Size(fullscreen bool) (int, int) {
	if fullscreen {
		return d.screenW, d.screenH
	}
	return d.winW, d.winH
}

func (d *logDisplay) Show(img image.Image, info controller.ShowInfo) {
	b := img.Bounds()
	d.log.Info("slide",
		zap.Int("index", info.PlaybackIndex),
		zap.String("name", info.Name),
		zap.String("dir", info.ParentDir),
		zap.String("year", info.Year),
		zap.String("size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy())),
		zap.Bool("fullscreen", info.Fullscreen))
}

func main() {
	serverURL := flag.String("server", "", "slideshow server URL for remote mode")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [photos-file]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Plays a slideshow from a photo list file (default: photos.%s).\n\n", listfile.DefaultExt)
		flag.PrintDefaults()
	}
	flag.Parse()

	photosFile := listfile.EnsureExt(flag.Arg(0))
	if photosFile == "" {
		photosFile = "photos." + listfile.DefaultExt
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	if err := run(logger, photosFile, *serverURL); err != nil {
		logger.Fatal("session failed", zap.Error(err))
	}
}

func run(logger *zap.Logger, photosFile, serverURL string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpConfigLoad, err))
	}

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpStateOpen, err))
	}
	defer stateMgr.Close()

	// Saved window state wins over the config file.
	width, height, fullscreen := cfg.WindowWidth, cfg.WindowHeight, cfg.IsFullscreen
	if ws, err := stateMgr.GetWindow(); err == nil && ws != nil {
		width, height, fullscreen = ws.Width, ws.Height, ws.IsFullscreen
	}

	var src source.Source
	if serverURL != "" {
		src = source.NewRemote(serverURL, photosFile)
	} else {
		src = source.NewLocal(photosFile)
	}

	logger.Info("loading image list", zap.String("photos", photosFile), zap.String("server", serverURL))
	paths, err := src.List()
	if err != nil {
		// Nothing to play without a list.
		return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpSourceList, photosFile, err))
	}
	logger.Info("image list loaded", zap.Int("count", len(paths)))

	order := playorder.New(len(paths))
	imageCache := cache.New(cfg.CacheSize)
	quar := quarantine.New(".", time.Now())

	prefetcher := loader.New(src, order, paths, imageCache, quar, logger.Named("loader"))
	prefetcher.Start()

	display := &logDisplay{
		log:  logger.Named("display"),
		winW: width, winH: height,
		// No windowing toolkit to ask; assume a common desktop resolution.
		screenW: 1920, screenH: 1080,
	}

	ctrl := controller.New(order, paths, imageCache, prefetcher, quar, display, controller.Options{
		Interval:   cfg.IntervalDuration(),
		Fullscreen: fullscreen,
		Logger:     logger.Named("controller"),
		OnFullscreenChange: func(fs bool) {
			stateMgr.SaveWindow(state.WindowState{Width: width, Height: height, IsFullscreen: fs})
		},
	})

	go readKeys(ctrl, logger)

	err = ctrl.Run()

	stats := ctrl.Stats()
	logger.Info("session finished",
		zap.Int("shown", stats.Shown),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("cache_misses", stats.CacheMisses),
		zap.Int("failures", stats.Failures),
		zap.String("quarantine", quar.Path()))

	return err
}

// readKeys turns line-buffered stdin commands into controller events:
// n next, p previous, space pause/resume, f fullscreen, q quit.
func readKeys(ctrl *controller.Controller, logger *zap.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			ctrl.TogglePause()
			continue
		}
		switch line[0] {
		case 'n':
			ctrl.Next()
		case 'p':
			ctrl.Previous()
		case ' ':
			ctrl.TogglePause()
		case 'f':
			ctrl.ToggleFullscreen()
		case 'q':
			ctrl.Stop()
			return
		default:
			logger.Debug("unknown command", zap.String("input", line))
		}
	}
}
