// Package notify emits the short audio cues that accompany selecting a
// marker and saving a new location.
//
// The server cannot play sound itself. Cues are handed to the renderer, which
// synthesises the described Tone. A renderer that cannot play audio simply
// never drains them; cues are best-effort and never surface an error.
package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// CueKind identifies which tone to play.
type CueKind string

const (
	CueSelect  CueKind = "select"
	CueSuccess CueKind = "success"
)

// Tone describes a sine tone for the renderer's audio synthesiser.
// Exactly one of Sweep or Notes is set.
type Tone struct {
	// Sweep is an exponential frequency ramp in Hz from Sweep[0] to Sweep[1]
	// over SweepMS milliseconds.
	Sweep   []float64 `json:"sweep,omitempty"`
	SweepMS int       `json:"sweepMs,omitempty"`

	// Notes are played back to back, NoteMS milliseconds each.
	Notes  []float64 `json:"notes,omitempty"`
	NoteMS int       `json:"noteMs,omitempty"`

	Gain       float64 `json:"gain"`
	DurationMS int     `json:"durationMs"`
}

var (
	selectTone  = Tone{Sweep: []float64{800, 400}, SweepMS: 100, Gain: 0.3, DurationMS: 300}
	successTone = Tone{Notes: []float64{523.25, 659.25, 783.99}, NoteMS: 100, Gain: 0.2, DurationMS: 400}
)

// ToneFor returns the tone played for kind.
func ToneFor(kind CueKind) Tone {
	if kind == CueSuccess {
		return successTone
	}
	return selectTone
}

// Cue is a single pending sound.
type Cue struct {
	Kind CueKind   `json:"kind"`
	Tone Tone      `json:"tone"`
	At   time.Time `json:"at"`
}

// Notifier plays cues. Implementations must be safe for concurrent use and
// must never block the caller.
type Notifier interface {
	PingSelect()
	PingSuccess()
}

// Nop discards every cue.
type Nop struct{}

func (Nop) PingSelect()  {}
func (Nop) PingSuccess() {}

// Log writes one debug line per cue.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Notifier that logs cues to logger.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) PingSelect()  { l.logger.Debug("cue", "kind", CueSelect) }
func (l *Log) PingSuccess() { l.logger.Debug("cue", "kind", CueSuccess) }

// Multi fans each cue out to several notifiers in order.
type Multi []Notifier

func (m Multi) PingSelect() {
	for _, n := range m {
		n.PingSelect()
	}
}

func (m Multi) PingSuccess() {
	for _, n := range m {
		n.PingSuccess()
	}
}

// DefaultQueueSize is used when NewQueue is given a non-positive size.
const DefaultQueueSize = 32

// Queue buffers cues until the renderer drains them. When the buffer is full
// new cues are dropped.
type Queue struct {
	mu      sync.Mutex
	pending []Cue
	size    int
	dropped atomic.Uint64
	now     func() time.Time
}

// NewQueue returns a Queue holding at most size cues.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{size: size, now: time.Now}
}

func (q *Queue) PingSelect()  { q.push(CueSelect) }
func (q *Queue) PingSuccess() { q.push(CueSuccess) }

func (q *Queue) push(kind CueKind) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) >= q.size {
		q.dropped.Add(1)
		return
	}
	q.pending = append(q.pending, Cue{Kind: kind, Tone: ToneFor(kind), At: q.now().UTC()})
}

// Drain returns the pending cues oldest first and empties the queue.
// It never returns nil.
func (q *Queue) Drain() []Cue {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil
	if out == nil {
		out = []Cue{}
	}
	return out
}

// Dropped reports how many cues were discarded because the queue was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
