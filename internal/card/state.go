package card

import "github.com/preston-bernstein/swish-service/internal/domain/players"

// ImageStatus tracks whether the displayed record's image rendered.
type ImageStatus int

const (
	ImageUnknown ImageStatus = iota
	ImageLoaded
	ImageErrored
)

func (s ImageStatus) String() string {
	switch s {
	case ImageLoaded:
		return "loaded"
	case ImageErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ParseImageStatus maps a browser event name to a status.
func ParseImageStatus(raw string) (ImageStatus, bool) {
	switch raw {
	case "loaded", "load":
		return ImageLoaded, true
	case "errored", "error":
		return ImageErrored, true
	default:
		return ImageUnknown, false
	}
}

// Phase is the tag of a State.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// State is the card's single view state: Idle, Loading, or Loaded with a
// record and its image status. Only the fields of the current phase are meaningful.
type State struct {
	phase  Phase
	record players.Record
	image  ImageStatus
	token  uint64
	notice string

	// restore is the settled state a Loading state falls back to on failure.
	restore *State
}

// Idle is the empty state before any player has loaded.
func Idle() State {
	return State{phase: PhaseIdle}
}

func loading(prev State, token uint64) State {
	settled := prev.settled()
	settled.notice = ""
	return State{phase: PhaseLoading, token: token, restore: &settled}
}

func loaded(rec players.Record, token uint64) State {
	return State{phase: PhaseLoaded, record: rec, image: ImageUnknown, token: token}
}

// settled strips a Loading wrapper down to the state it would restore.
func (s State) settled() State {
	if s.phase == PhaseLoading && s.restore != nil {
		return *s.restore
	}
	if s.phase == PhaseLoading {
		return Idle()
	}
	return s
}

func (s State) withNotice(msg string) State {
	s.notice = msg
	return s
}

// Phase reports the state tag.
func (s State) Phase() Phase { return s.phase }

// Record returns the displayed record when Loaded.
func (s State) Record() (players.Record, bool) {
	if s.phase != PhaseLoaded {
		return players.Record{}, false
	}
	return s.record, true
}

// Image returns the image status of the displayed record.
func (s State) Image() ImageStatus { return s.image }

// Token identifies the fetch that produced (or is producing) this state.
func (s State) Token() uint64 { return s.token }

// Notice is a non-blocking message left by the last failed fetch.
func (s State) Notice() string { return s.notice }

// Loading reports whether a fetch is in flight.
func (s State) Loading() bool { return s.phase == PhaseLoading }
