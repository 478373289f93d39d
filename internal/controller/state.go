package controller

// State represents the slideshow playback state.
type State int

const (
	StatePlaying State = iota
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Stats are the session counters, owned by the controller and reported once
// when the session ends.
type Stats struct {
	Shown       int // images presented to the display, rescales included
	CacheHits   int // displays served from the prefetch cache
	CacheMisses int // displays that required a synchronous load
	Failures    int // loads that went to quarantine
}
