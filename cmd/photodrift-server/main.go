package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nvalette/photodrift/internal/listfile"
)

// server serves image lists and image bytes to remote slideshow clients.
// Lists are loaded lazily on first request and kept for the process lifetime.
type server struct {
	log *zap.Logger

	mu         sync.Mutex
	slideshows map[string][]string
}

func newServer(log *zap.Logger) *server {
	return &server{
		log:        log,
		slideshows: make(map[string][]string),
	}
}

func (s *server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/slideshow/{key}/list", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/api/slideshow/{key}/image/{index}", s.handleImage).Methods(http.MethodGet)
	return r
}

// paths returns the image list for key, reading the list file on first use.
// The key is the list file name; a missing extension defaults to .lst.
func (s *server) paths(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if paths, ok := s.slideshows[key]; ok {
		return paths, nil
	}

	file := listfile.EnsureExt(key)
	if _, err := os.Stat(file); err != nil {
		return nil, err
	}
	paths, err := listfile.Read(file)
	if err != nil {
		return nil, err
	}
	s.slideshows[key] = paths
	s.log.Info("slideshow loaded", zap.String("key", key), zap.Int("images", len(paths)))
	return paths, nil
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	paths, err := s.paths(key)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, fmt.Sprintf("slideshow %q not found", key), http.StatusNotFound)
			return
		}
		s.log.Error("loading image list", zap.String("key", key), zap.Error(err))
		http.Error(w, fmt.Sprintf("error loading slideshow %q", key), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(paths); err != nil {
		s.log.Error("encoding image list", zap.String("key", key), zap.Error(err))
	}
}

func (s *server) handleImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["key"]

	s.mu.Lock()
	paths, ok := s.slideshows[key]
	s.mu.Unlock()
	if !ok {
		http.Error(w, fmt.Sprintf("slideshow %q not found", key), http.StatusNotFound)
		return
	}

	index, err := strconv.Atoi(vars["index"])
	if err != nil || index < 0 || index >= len(paths) {
		http.Error(w, fmt.Sprintf("image not found: %s", vars["index"]), http.StatusNotFound)
		return
	}

	path := paths[index]
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, fmt.Sprintf("invalid image file: %s", path), http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn("image not found", zap.String("path", path))
			http.Error(w, fmt.Sprintf("image not found: %d", index), http.StatusNotFound)
			return
		}
		s.log.Error("reading image", zap.String("path", path), zap.Error(err))
		http.Error(w, "error reading image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(data); err != nil {
		s.log.Error("writing image response", zap.String("path", path), zap.Error(err))
	}
}

func main() {
	host := flag.String("host", "0.0.0.0", "host to bind to")
	port := flag.Int("port", 5000, "port to listen on")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	srv := newServer(logger)
	addr := fmt.Sprintf("%s:%d", *host, *port)
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.router()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
