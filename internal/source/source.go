// Package source provides access to the images of a slideshow session,
// either from local files or from a slideshow server.
package source

// Source lists the session's image paths and fetches raw image bytes by
// original (unshuffled) index.
//
// Fetches are independent: a failure on one index must not affect other
// indices, and no retries happen at this layer. A failed List at session
// start means there is nothing to play and is fatal to the caller.
type Source interface {
	// List returns the ordered image paths, length N. The result is cached
	// for the session after the first successful call.
	List() ([]string, error)

	// Fetch returns the raw bytes of the image at the given original index.
	// Failures carry an *Error describing the failure kind.
	Fetch(originalIndex int) ([]byte, error)
}
