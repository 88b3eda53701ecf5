// Package session holds the interaction state of the journal: which location
// is focused, whether the globe auto-rotates, whether the entry form is open,
// and whether sound cues are on.
//
// Transitions are computed by Reduce, a pure function. Session serialises
// events from concurrent HTTP handlers, runs the idle timer and forwards the
// resulting cues to a notify.Notifier.
package session

import (
	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/notify"
)

// LookupStatus is the progress of the entry form's coordinate lookup.
type LookupStatus string

const (
	LookupNone    LookupStatus = ""
	LookupPending LookupStatus = "pending"
	LookupFound   LookupStatus = "found"
	LookupFailed  LookupStatus = "failed"
)

// Lookup is the entry form's geocode sub-state.
// Seq increases with every lookup started and is never reset, so a result
// carrying an older Seq can be recognised as stale.
type Lookup struct {
	Seq    uint64
	Status LookupStatus
	Query  string
	Result *domain.Coordinates
}

// State is a snapshot of the interaction state.
// The zero value is not the initial state; use Initial.
type State struct {
	FocusedID    string
	AutoRotate   bool
	FormOpen     bool
	SoundEnabled bool
	Lookup       Lookup
}

// Focused reports whether a location is focused.
func (s State) Focused() bool { return s.FocusedID != "" }

// Initial returns the state at startup: nothing focused, rotating, form
// closed, sound on.
func Initial() State {
	return State{AutoRotate: true, SoundEnabled: true}
}

// Event is an input to Reduce.
type Event interface{ event() }

type (
	// Select focuses a location. The caller is responsible for checking that
	// ID exists.
	Select struct{ ID string }
	// ClosePanel dismisses the detail panel.
	ClosePanel struct{}
	// IdleTimeout fires after a quiet period without pointer activity.
	IdleTimeout struct{}
	// PauseRotation stops auto-rotation without focusing anything, as a
	// drag on the globe does.
	PauseRotation struct{}
	// Activity is pointer movement. It only matters to the idle timer.
	Activity struct{}
	OpenForm  struct{}
	CloseForm struct{}
	SetSound  struct{ Enabled bool }
	// LookupStarted begins a new geocode lookup for Query.
	LookupStarted struct{ Query string }
	// LookupResolved delivers the result of lookup Seq. A nil Coordinates
	// means the lookup failed.
	LookupResolved struct {
		Seq         uint64
		Coordinates *domain.Coordinates
	}
	// Submitted records a successful append through the entry form.
	Submitted struct{}
)

func (Select) event()         {}
func (ClosePanel) event()     {}
func (IdleTimeout) event()    {}
func (PauseRotation) event()  {}
func (Activity) event()       {}
func (OpenForm) event()       {}
func (CloseForm) event()      {}
func (SetSound) event()       {}
func (LookupStarted) event()  {}
func (LookupResolved) event() {}
func (Submitted) event()      {}

// Reduce applies e to s and returns the next state plus the cues to play.
// No cues are returned while sound is disabled.
func Reduce(s State, e Event) (State, []notify.CueKind) {
	var cues []notify.CueKind

	switch e := e.(type) {
	case Select:
		s.FocusedID = e.ID
		s.AutoRotate = false
		cues = append(cues, notify.CueSelect)

	case ClosePanel:
		if s.Focused() {
			s.FocusedID = ""
			s.AutoRotate = true
		}

	case IdleTimeout:
		if !s.Focused() {
			s.AutoRotate = true
		}

	case PauseRotation:
		s.AutoRotate = false

	case Activity:

	case OpenForm:
		s.FormOpen = true

	case CloseForm:
		s.FormOpen = false
		s.Lookup = Lookup{Seq: s.Lookup.Seq}

	case SetSound:
		s.SoundEnabled = e.Enabled

	case LookupStarted:
		s.Lookup = Lookup{Seq: s.Lookup.Seq + 1, Status: LookupPending, Query: e.Query}

	case LookupResolved:
		if e.Seq != s.Lookup.Seq || s.Lookup.Status != LookupPending {
			break
		}
		if e.Coordinates == nil {
			s.Lookup.Status = LookupFailed
			s.Lookup.Result = nil
			break
		}
		c := *e.Coordinates
		s.Lookup.Status = LookupFound
		s.Lookup.Result = &c

	case Submitted:
		s.FormOpen = false
		s.Lookup = Lookup{Seq: s.Lookup.Seq}
		cues = append(cues, notify.CueSuccess)
	}

	if !s.SoundEnabled {
		cues = nil
	}
	return s, cues
}
