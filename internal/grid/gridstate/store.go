package gridstate

import "sync"

// Subscriber receives every state transition: the next state, the
// previous state, and the action that produced it.
type Subscriber func(next, prev State, action Action)

// Unsubscribe removes a previously registered Subscriber.
type Unsubscribe func()

// Store is the single source of truth described in spec §4.3. It is
// built for the single-threaded cooperative scheduling model of spec
// §5: Dispatch is not safe to call concurrently from multiple
// goroutines, but Subscribers may call Dispatch reentrantly — those
// dispatches are queued and flushed once the in-progress notification
// finishes, matching the source's microtask-scheduling behavior without
// requiring an actual task queue.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]Subscriber
	nextID      int

	dispatching bool
	queue       []Action
}

// New constructs a Store seeded with the given initial state.
func New(initial State) *Store {
	return &Store{
		state:       initial,
		subscribers: make(map[int]Subscriber),
	}
}

// GetState returns the current state snapshot.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every Dispatch. The returned
// Unsubscribe removes it; calling Unsubscribe more than once is a no-op.
func (s *Store) Subscribe(fn Subscriber) Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Dispatch applies action through the reducer and synchronously notifies
// all subscribers with (next, prev, action). If called reentrantly from
// within a subscriber's notification, the action is enqueued and applied
// after the in-progress notification completes, in FIFO order.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	if s.dispatching {
		s.queue = append(s.queue, action)
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	s.apply(action)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.apply(next)
	}
}

// apply runs the reducer once and notifies subscribers. The caller must
// already hold s.dispatching == true.
func (s *Store) apply(action Action) {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, action)
	s.state = next
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next, prev, action)
	}
}
