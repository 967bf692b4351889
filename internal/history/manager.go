// Package history keeps the bounded undo/redo stack of encoded raster
// snapshots.
package history

import (
	"context"
	"errors"
	"image"

	"SuperBoard/internal/logging"

	lru "github.com/hashicorp/golang-lru"
)

const (
	DefaultMaxHistory = 50
	DefaultCacheSize  = 8
)

var ErrEmpty = errors.New("history: no snapshots")

// Decoder turns an encoded snapshot back into an image. It runs off the UI
// goroutine and should return early once ctx is done.
type Decoder func(ctx context.Context, data []byte) (image.Image, error)

// Dispatcher runs fn on the goroutine that owns the Manager.
type Dispatcher interface {
	Dispatch(fn func())
}

type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Entry is one snapshot on the stack. State is whatever the owner needs
// besides the raster to return to this point; the Manager never looks at it.
type Entry struct {
	ID    uint64
	Data  []byte
	State any
}

type Option func(*Manager)

func WithMaxHistory(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.max = n
		}
	}
}

// WithCacheSize sets how many decoded snapshots are kept. Zero disables the
// cache, so every undo and redo decodes.
func WithCacheSize(n int) Option {
	return func(m *Manager) { m.cacheSize = n }
}

// Manager is a linear snapshot stack. All methods must be called from one
// goroutine; decodes for Undo and Redo run in the background and report back
// through the Dispatcher.
//
// Two positions are tracked: step is the snapshot currently shown, target is
// the one most recently asked for. They differ only while a decode is in
// flight. A newer request always supersedes an older one, whatever order the
// decodes finish in.
type Manager struct {
	entries []Entry
	step    int
	target  int
	max     int
	nextID  uint64

	gen    uint64
	cancel context.CancelFunc

	decode    Decoder
	dispatch  Dispatcher
	cacheSize int
	cache     *lru.Cache

	// OnRestore is called on the owning goroutine with the decoded image and
	// the entry's State once an undo or redo lands.
	OnRestore func(img image.Image, state any)
	// OnChange is called whenever undo or redo availability may have changed.
	OnChange func(canUndo, canRedo bool)
}

func NewManager(decode Decoder, dispatch Dispatcher, opts ...Option) *Manager {
	m := &Manager{
		step:      -1,
		target:    -1,
		max:       DefaultMaxHistory,
		decode:    decode,
		dispatch:  dispatch,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cacheSize > 0 {
		m.cache, _ = lru.New(m.cacheSize)
	}
	return m
}

func (m *Manager) Len() int    { return len(m.entries) }
func (m *Manager) Max() int    { return m.max }
func (m *Manager) Step() int   { return m.step }
func (m *Manager) Target() int { return m.target }

// Pending reports whether an undo or redo decode is in flight.
func (m *Manager) Pending() bool { return m.target != m.step }

func (m *Manager) CanUndo() bool { return m.target > 0 }
func (m *Manager) CanRedo() bool { return m.target >= 0 && m.target < len(m.entries)-1 }

// Current returns the snapshot on display.
func (m *Manager) Current() (Entry, error) {
	if m.step < 0 || m.step >= len(m.entries) {
		return Entry{}, ErrEmpty
	}
	return m.entries[m.step], nil
}

// Entries returns a copy of the stack, oldest first.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Save pushes a snapshot of the displayed raster. Any redo branch beyond the
// displayed step is dropped, and the oldest entry is evicted once the stack
// is full. img, when non-nil, is the decoded form of data and is cached.
func (m *Manager) Save(data []byte, img image.Image, state any) {
	m.abortPending()

	for _, e := range m.entries[m.step+1:] {
		m.uncache(e.ID)
	}
	m.entries = m.entries[:m.step+1]

	e := m.push(data, img, state)
	if len(m.entries) > m.max {
		m.uncache(m.entries[0].ID)
		m.entries = append(m.entries[:0:0], m.entries[1:]...)
	}
	m.step = min(m.step+1, m.max-1)
	m.target = m.step
	logging.Logger().Debug("history: saved", "id", e.ID, "step", m.step, "len", len(m.entries))
	m.changed()
}

// Reset replaces the whole stack with one snapshot.
func (m *Manager) Reset(data []byte, img image.Image, state any) {
	m.abortPending()
	if m.cache != nil {
		m.cache.Purge()
	}
	m.entries = nil
	m.push(data, img, state)
	m.step, m.target = 0, 0
	m.changed()
}

// Undo requests the previous snapshot. It returns false when there is
// nothing to undo.
func (m *Manager) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	m.request(m.target - 1)
	return true
}

// Redo requests the next snapshot. It returns false at the tail.
func (m *Manager) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	m.request(m.target + 1)
	return true
}

func (m *Manager) push(data []byte, img image.Image, state any) Entry {
	m.nextID++
	e := Entry{ID: m.nextID, Data: data, State: state}
	m.entries = append(m.entries, e)
	if img != nil && m.cache != nil {
		m.cache.Add(e.ID, img)
	}
	return e
}

func (m *Manager) uncache(id uint64) {
	if m.cache != nil {
		m.cache.Remove(id)
	}
}

// abortPending drops any in-flight decode and snaps target back to step.
func (m *Manager) abortPending() {
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.target = m.step
}

func (m *Manager) request(idx int) {
	m.abortPending()
	m.target = idx
	e := m.entries[idx]
	m.changed()

	if m.cache != nil {
		if v, ok := m.cache.Get(e.ID); ok {
			m.land(idx, v.(image.Image))
			return
		}
	}

	gen := m.gen
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go func() {
		img, err := m.decode(ctx, e.Data)
		m.dispatch.Dispatch(func() {
			m.complete(gen, idx, e.ID, img, err)
		})
	}()
}

func (m *Manager) complete(gen uint64, idx int, id uint64, img image.Image, err error) {
	if gen != m.gen {
		logging.Logger().Debug("history: dropped stale decode", "step", idx)
		return
	}
	m.cancel = nil
	if err != nil {
		logging.Logger().Warn("history: decode failed", "step", idx, "err", err)
		m.target = m.step
		m.changed()
		return
	}
	if m.cache != nil {
		m.cache.Add(id, img)
	}
	m.land(idx, img)
}

func (m *Manager) land(idx int, img image.Image) {
	m.step = idx
	m.target = idx
	if m.OnRestore != nil {
		m.OnRestore(img, m.entries[idx].State)
	}
	m.changed()
}

func (m *Manager) changed() {
	if m.OnChange != nil {
		m.OnChange(m.CanUndo(), m.CanRedo())
	}
}
