package sidebar

import (
	"log/slog"
	"sync"
)

// Reducer computes the next state.
type Reducer func(State, Action) State

// Middleware wraps a reducer, typically to observe transitions.
type Middleware func(next Reducer) Reducer

// Store owns the sidebar state. It is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	state       State
	reduce      Reducer
	subscribers map[int]func(State)
	nextID      int
}

// Option configures a Store.
type Option func(*Store)

// WithMiddleware wraps the store's reducer. The first middleware given runs
// outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(s *Store) {
		for i := len(mw) - 1; i >= 0; i-- {
			s.reduce = mw[i](s.reduce)
		}
	}
}

// WithInitialState overrides the Loading start state.
func WithInitialState(state State) Option {
	return func(s *Store) { s.state = state }
}

// NewStore returns a store in the Loading state.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:       Initial(),
		reduce:      Reduce,
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a into the current state and notifies subscribers with
// the result. Subscribers run on the dispatching goroutine after the store
// lock is released.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = s.reduce(s.state, a)
	next := s.state
	subs := make([]func(State), 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn to run after every dispatch. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// LoggingMiddleware logs each action and the state it produced at debug
// level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Reducer) Reducer {
		return func(s State, a Action) State {
			result := next(s, a)
			logger.Debug("sidebar dispatch", actionAttr(a), slog.Any("state", result))
			return result
		}
	}
}
