package source

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const fetchTimeout = 10 * time.Second

// Remote serves images from a slideshow server. The session key names the
// list file on the server side.
type Remote struct {
	baseURL    string
	key        string
	httpClient *http.Client

	mu    sync.Mutex
	paths []string
}

// NewRemote creates a source talking to the slideshow server at baseURL.
func NewRemote(baseURL, key string) *Remote {
	return &Remote{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		key:        key,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// List issues one list request and caches the result for the session.
func (r *Remote) List() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paths != nil {
		return r.paths, nil
	}

	reqURL := r.baseURL + "/api/slideshow/" + r.key + "/list"
	resp, err := r.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("get image list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get image list: server returned status %d", resp.StatusCode)
	}

	var paths []string
	if err := json.NewDecoder(resp.Body).Decode(&paths); err != nil {
		return nil, fmt.Errorf("decode image list: %w", err)
	}

	r.paths = paths
	return r.paths, nil
}

// Fetch requests one image by original index. Non-success responses map to
// failure kinds: 404 means an unknown key or out-of-range index, other
// client errors mean invalid content, and server or transport errors are
// transient network failures.
func (r *Remote) Fetch(originalIndex int) ([]byte, error) {
	reqURL := r.baseURL + "/api/slideshow/" + r.key + "/image/" + strconv.Itoa(originalIndex)

	resp, err := r.httpClient.Get(reqURL)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Path: reqURL, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Path: reqURL, Err: fmt.Errorf("server returned status %d", resp.StatusCode)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &Error{Kind: KindFormat, Path: reqURL, Err: fmt.Errorf("server returned status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &Error{Kind: KindNetwork, Path: reqURL, Err: fmt.Errorf("server returned status %d", resp.StatusCode)}
	}

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, &Error{Kind: KindFormat, Path: reqURL, Err: fmt.Errorf("unexpected content type %q", ct)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Path: reqURL, Err: err}
	}
	return data, nil
}
