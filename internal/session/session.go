package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/notify"
)

// DefaultIdleTimeout is how long the pointer must stay still before an
// unfocused globe resumes rotating.
const DefaultIdleTimeout = 10 * time.Second

// LocationStore is the part of the location service a Session needs.
type LocationStore interface {
	GetByID(ctx context.Context, id string) (domain.Location, error)
	Append(ctx context.Context, draft domain.LocationDraft) (domain.Location, error)
}

// Geocoder resolves a "<city>, <country>" query to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.Coordinates, error)
}

// Config holds the collaborators and settings of a Session.
type Config struct {
	Store    LocationStore
	Geocoder Geocoder
	Notifier notify.Notifier // defaults to notify.Nop
	Logger   *slog.Logger    // defaults to slog.Default

	// IdleTimeout defaults to DefaultIdleTimeout when zero or negative.
	IdleTimeout time.Duration
}

// Session is the single interaction session of the process.
// All methods are safe for concurrent use.
type Session struct {
	store    LocationStore
	geocoder Geocoder
	notifier notify.Notifier
	logger   *slog.Logger
	idle     time.Duration

	mu      sync.Mutex
	state   State
	timer   *time.Timer
	timerID uint64
	closed  bool
}

// New creates a Session in the initial state and arms the idle timer.
func New(cfg Config) *Session {
	s := &Session{
		store:    cfg.Store,
		geocoder: cfg.Geocoder,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		idle:     cfg.IdleTimeout,
		state:    Initial(),
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.idle <= 0 {
		s.idle = DefaultIdleTimeout
	}

	s.mu.Lock()
	s.armIdleLocked()
	s.mu.Unlock()
	return s
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.state)
}

// Select focuses the location with the given id.
// Returns domain.ErrNotFound, leaving the state unchanged, if no such
// location exists.
func (s *Session) Select(ctx context.Context, id string) (State, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return s.State(), fmt.Errorf("session.Session.Select: %w", err)
	}
	return s.dispatch(Select{ID: id}, true), nil
}

// ClosePanel dismisses the detail panel and resumes rotation.
func (s *Session) ClosePanel() State { return s.dispatch(ClosePanel{}, true) }

// PauseRotation stops rotation until the next idle timeout.
func (s *Session) PauseRotation() State { return s.dispatch(PauseRotation{}, true) }

// Activity records pointer movement and restarts the idle timer.
func (s *Session) Activity() State { return s.dispatch(Activity{}, true) }

// OpenForm opens the entry form.
func (s *Session) OpenForm() State { return s.dispatch(OpenForm{}, false) }

// CloseForm closes the entry form and forgets any lookup in progress.
func (s *Session) CloseForm() State { return s.dispatch(CloseForm{}, false) }

// SetSound turns cues on or off.
func (s *Session) SetSound(enabled bool) State {
	return s.dispatch(SetSound{Enabled: enabled}, false)
}

// LookupResult is the outcome of one entry form lookup.
type LookupResult struct {
	Seq         uint64
	Found       bool
	Coordinates *domain.Coordinates
	// Stale is set when a newer lookup started, or the form was closed,
	// while this one was in flight. The result was not applied to the form.
	Stale bool
}

// Lookup geocodes "<city>, <country>" for the entry form.
//
// A failed lookup is not an error: the result has Found false and the form
// falls back to manual coordinates. Errors are returned only for bad input.
// The geocoder runs without holding the session lock, so concurrent lookups
// may overlap; only the most recently started one is applied.
func (s *Session) Lookup(ctx context.Context, city, country string) (LookupResult, error) {
	city, country = strings.TrimSpace(city), strings.TrimSpace(country)
	if city == "" || country == "" {
		return LookupResult{}, fmt.Errorf("session.Session.Lookup: %w: enter city and country first", domain.ErrValidation)
	}
	query := city + ", " + country

	s.mu.Lock()
	if !s.state.FormOpen {
		s.mu.Unlock()
		return LookupResult{}, fmt.Errorf("session.Session.Lookup: %w: entry form is not open", domain.ErrValidation)
	}
	s.applyLocked(LookupStarted{Query: query})
	seq := s.state.Lookup.Seq
	s.mu.Unlock()

	coords, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		if !errors.Is(err, domain.ErrLookupFailed) {
			s.logger.Warn("geocode lookup error", "query", query, "error", err)
		}
		coords = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(LookupResolved{Seq: seq, Coordinates: coords})

	res := LookupResult{Seq: seq, Found: coords != nil, Coordinates: coords}
	if s.state.Lookup.Seq != seq || s.state.Lookup.Status == LookupNone {
		res.Stale = true
	}
	return res, nil
}

// Submit appends draft to the store. On success the form closes and the
// success cue plays. On failure the state is left unchanged.
func (s *Session) Submit(ctx context.Context, draft domain.LocationDraft) (domain.Location, error) {
	loc, err := s.store.Append(ctx, draft)
	if err != nil {
		return domain.Location{}, fmt.Errorf("session.Session.Submit: %w", err)
	}
	s.dispatch(Submitted{}, false)
	return loc, nil
}

// Close stops the idle timer. Events after Close still update the state but
// the timer is never re-armed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

// dispatch applies e under the lock, optionally re-arming the idle timer,
// and returns the resulting state.
func (s *Session) dispatch(e Event, pointer bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(e)
	if pointer {
		s.armIdleLocked()
	}
	return snapshot(s.state)
}

func (s *Session) applyLocked(e Event) {
	next, cues := Reduce(s.state, e)
	s.state = next
	for _, c := range cues {
		switch c {
		case notify.CueSelect:
			s.notifier.PingSelect()
		case notify.CueSuccess:
			s.notifier.PingSuccess()
		}
	}
}

// armIdleLocked replaces the idle timer with a fresh one. A timer that fires
// after being replaced sees a different id and does nothing.
func (s *Session) armIdleLocked() {
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerID++
	id := s.timerID
	s.timer = time.AfterFunc(s.idle, func() { s.fireIdle(id) })
}

func (s *Session) fireIdle(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || id != s.timerID {
		return
	}
	s.applyLocked(IdleTimeout{})
}

func snapshot(st State) State {
	if st.Lookup.Result != nil {
		c := *st.Lookup.Result
		st.Lookup.Result = &c
	}
	return st
}
