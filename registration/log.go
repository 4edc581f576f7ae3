package registration

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/pokedex/storage"
)

// KeySubmissions is the storage key of the persisted log
const KeySubmissions = "registration-submissions"

// Log is an in-memory list of submissions, newest first
type Log struct {
	mu       sync.RWMutex
	entries  []Submission
	onChange func()
}

// NewLog returns a log seeded with entries, which must be newest first
func NewLog(entries []Submission) *Log {
	return &Log{entries: append([]Submission(nil), entries...)}
}

// Add records s and returns the stored copy. A missing ID or timestamp is
// filled in and passwords are cleared.
func (l *Log) Add(s Submission) Submission {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	s.Password = ""
	s.ConfirmPassword = ""

	l.mu.Lock()
	l.entries = append([]Submission{s}, l.entries...)
	onChange := l.onChange
	l.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return s
}

// List returns all submissions, newest first
func (l *Log) List() []Submission {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Submission{}, l.entries...)
}

// Latest returns the most recent submission
func (l *Log) Latest() (Submission, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return Submission{}, false
	}
	return l.entries[0], true
}

// Len returns the number of submissions
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Persister writes a Log to storage, coalescing changes that arrive within
// delay of each other into one write.
type Persister struct {
	log    *Log
	store  *storage.Local
	delay  time.Duration
	logger zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
	dirty bool
}

// LoadLog restores the persisted log from store
func LoadLog(store *storage.Local) *Log {
	return NewLog(storage.Get(store, KeySubmissions, []Submission{}))
}

// NewPersister attaches a debounced writer to log
func NewPersister(log *Log, store *storage.Local, delay time.Duration, logger zerolog.Logger) *Persister {
	p := &Persister{log: log, store: store, delay: delay, logger: logger}

	log.mu.Lock()
	log.onChange = p.schedule
	log.mu.Unlock()

	return p
}

func (p *Persister) schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dirty = true
	if p.delay <= 0 {
		p.writeLocked()
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.writeLocked()
	})
}

// Flush writes pending changes immediately
func (p *Persister) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.writeLocked()
}

func (p *Persister) writeLocked() {
	if !p.dirty {
		return
	}
	p.dirty = false

	entries := p.log.List()
	p.store.Set(KeySubmissions, entries)
	p.logger.Debug().Int("count", len(entries)).Msg("Persisted submission log")
}
