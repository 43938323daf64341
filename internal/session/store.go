// Package session owns the live quiz state for one respondent. The Store
// applies actions through the quiz reducer, persists a snapshot after every
// accepted transition and notifies subscribers.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/store"
)

// StateKey is the KV key the snapshot is stored under.
const StateKey = "quiz_state"

// DefaultPersistTimeout bounds a single snapshot write.
const DefaultPersistTimeout = 2 * time.Second

// Listener observes accepted transitions. It receives private copies of
// both states and may call Dispatch.
type Listener func(prev, next quiz.State, action quiz.Action)

// Store is the explicitly constructed state container for one session.
type Store struct {
	mu      sync.Mutex
	machine *quiz.Machine
	kv      store.KV
	state   quiz.State

	listeners map[int]Listener
	nextID    int

	persistTimeout time.Duration
	restored       bool
}

// Option configures a Store.
type Option func(*Store)

// WithPersistTimeout overrides DefaultPersistTimeout.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

// New creates a store and restores the persisted snapshot from kv if one
// exists and is usable. Unusable snapshots are logged and replaced by a
// fresh state. kv may be nil, in which case nothing is persisted.
func New(ctx context.Context, m *quiz.Machine, kv store.KV, opts ...Option) *Store {
	s := &Store{
		machine:        m,
		kv:             kv,
		state:          quiz.New(),
		listeners:      make(map[int]Listener),
		persistTimeout: DefaultPersistTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	if s.kv == nil {
		return
	}
	data, err := s.kv.Get(ctx, StateKey)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("[session] load snapshot: %v", err)
		return
	}

	st, err := DecodeSnapshot(s.machine.Bank(), data)
	if err == nil {
		err = s.machine.Validate(st)
	}
	if err != nil {
		log.Printf("[session] discarding snapshot: %v", err)
		s.persist(ctx, s.state)
		return
	}
	s.state = st
	s.restored = true
}

// Restored reports whether the current session was resumed from a
// snapshot.
func (s *Store) Restored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

// Machine returns the reducer the store dispatches through.
func (s *Store) Machine() *quiz.Machine {
	return s.machine
}

// State returns a copy of the current state.
func (s *Store) State() quiz.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a. Rejected actions leave the state untouched, are
// logged and returned. Accepted actions are persisted and then delivered
// to every listener after the store's lock is released.
func (s *Store) Dispatch(a quiz.Action) error {
	s.mu.Lock()
	prev := s.state
	next, err := s.machine.Reduce(prev, a)
	if err != nil {
		s.mu.Unlock()
		log.Printf("[session] %v", err)
		return err
	}
	s.state = next
	s.persist(context.Background(), next)

	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev.Clone(), next.Clone(), a)
	}
	return nil
}

// Subscribe registers l and returns a function that removes it. Listeners
// are called in subscription order.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// persist writes a snapshot of st. Failures are logged and swallowed.
// Callers hold s.mu, which keeps writes in dispatch order.
func (s *Store) persist(ctx context.Context, st quiz.State) {
	if s.kv == nil {
		return
	}
	data, err := EncodeSnapshot(s.machine.Bank(), st)
	if err != nil {
		log.Printf("[session] %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	if err := s.kv.Put(ctx, StateKey, data); err != nil {
		log.Printf("[session] persist snapshot: %v", err)
	}
}
