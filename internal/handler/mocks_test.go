package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkordes/travel-journal/internal/domain"
	"github.com/pkordes/travel-journal/internal/handler"
	"github.com/pkordes/travel-journal/internal/notify"
	"github.com/pkordes/travel-journal/internal/session"
)

// --- mockLocations -----------------------------------------------------------

type mockLocations struct {
	all       func(ctx context.Context) ([]domain.Location, error)
	getByID   func(ctx context.Context, id string) (domain.Location, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Location, int64, error)
	stats     func(ctx context.Context) (domain.Stats, error)
}

var _ handler.LocationServicer = (*mockLocations)(nil)

func (m *mockLocations) All(ctx context.Context) ([]domain.Location, error) {
	return m.all(ctx)
}

func (m *mockLocations) GetByID(ctx context.Context, id string) (domain.Location, error) {
	return m.getByID(ctx, id)
}

func (m *mockLocations) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Location, int64, error) {
	return m.listPaged(ctx, p)
}

func (m *mockLocations) Stats(ctx context.Context) (domain.Stats, error) {
	return m.stats(ctx)
}

// --- mockExport --------------------------------------------------------------

type mockExport struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

var _ handler.ExportServicer = (*mockExport)(nil)

func (m *mockExport) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// --- mockSession -------------------------------------------------------------

// mockSession records the last call it received and answers with st unless a
// function field overrides the behaviour.
type mockSession struct {
	st     session.State
	calls  []string
	sel    func(ctx context.Context, id string) (session.State, error)
	lookup func(ctx context.Context, city, country string) (session.LookupResult, error)
	submit func(ctx context.Context, draft domain.LocationDraft) (domain.Location, error)
}

var _ handler.SessionController = (*mockSession)(nil)

func (m *mockSession) record(name string) session.State {
	m.calls = append(m.calls, name)
	return m.st
}

func (m *mockSession) State() session.State { return m.st }

func (m *mockSession) Select(ctx context.Context, id string) (session.State, error) {
	m.calls = append(m.calls, "Select")
	return m.sel(ctx, id)
}

func (m *mockSession) ClosePanel() session.State    { return m.record("ClosePanel") }
func (m *mockSession) PauseRotation() session.State { return m.record("PauseRotation") }
func (m *mockSession) Activity() session.State      { return m.record("Activity") }
func (m *mockSession) OpenForm() session.State      { return m.record("OpenForm") }
func (m *mockSession) CloseForm() session.State     { return m.record("CloseForm") }

func (m *mockSession) SetSound(enabled bool) session.State {
	m.st.SoundEnabled = enabled
	return m.record("SetSound")
}

func (m *mockSession) Lookup(ctx context.Context, city, country string) (session.LookupResult, error) {
	m.calls = append(m.calls, "Lookup")
	return m.lookup(ctx, city, country)
}

func (m *mockSession) Submit(ctx context.Context, draft domain.LocationDraft) (domain.Location, error) {
	m.calls = append(m.calls, "Submit")
	return m.submit(ctx, draft)
}

// --- mockCues ----------------------------------------------------------------

type mockCues struct {
	cues []notify.Cue
}

var _ handler.CueSource = (*mockCues)(nil)

func (m *mockCues) Drain() []notify.Cue {
	out := m.cues
	m.cues = nil
	if out == nil {
		return []notify.Cue{}
	}
	return out
}

// --- fixtures ----------------------------------------------------------------

func intPtr(n int) *int { return &n }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var tokyo = domain.Location{
	ID:          "1",
	City:        "Tokyo",
	Country:     "Japan",
	Coordinates: domain.Coordinates{Latitude: 35.6762, Longitude: 139.6503},
	QuickFacts:  []string{"Population: 14 million"},
	Images:      []domain.Image{{URL: "https://img.test/tokyo.jpg", Caption: "Shibuya"}},
	Notes:       "Amazing food.",
	Visit: &domain.Visit{
		Dates:  &domain.Dates{Arrival: day("2023-03-15"), Departure: day("2023-03-28")},
		Rating: intPtr(5),
	},
}

var reykjavik = domain.Location{
	ID:          "7",
	City:        "Reykjavik",
	Country:     "Iceland",
	Coordinates: domain.Coordinates{Latitude: 64.1466, Longitude: -21.9426},
	QuickFacts:  []string{},
	Images:      []domain.Image{},
}

// newTestServer wires a Server from the given mocks and returns its router.
func newTestServer(locs *mockLocations, exp *mockExport, sess *mockSession, cues *mockCues) http.Handler {
	if locs == nil {
		locs = &mockLocations{}
	}
	if exp == nil {
		exp = &mockExport{}
	}
	if sess == nil {
		sess = &mockSession{st: session.Initial()}
	}
	if cues == nil {
		cues = &mockCues{}
	}
	return handler.NewServer(locs, exp, sess, cues, nil).Routes()
}

// do sends a request with an optional JSON body to h and returns the recorder.
func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
