// Package session holds the single source of truth for the briefing
// session's lifecycle. All mutations funnel through one reducer under one
// lock, so writes are serialized regardless of which goroutine dispatches:
// user actions, voice-runtime callbacks, and tool invocations all apply
// through the same transition function.
package session

import (
	"sync"

	"github.com/user/newsradio/internal/types"
)

// Snapshot is an immutable view of the session at one point in time.
// ErrorMessage is non-empty exactly when State is StateError.
type Snapshot struct {
	State         types.SessionState   `json:"state"`
	CurrentTopic  string               `json:"current_topic,omitempty"`
	CoveredTopics []types.CoveredTopic `json:"covered_topics"`
	Speaking      bool                 `json:"speaking"`
	ErrorMessage  string               `json:"error,omitempty"`
}

// Action is a request to mutate the session state.
type Action interface{ isAction() }

type SetState struct{ State types.SessionState }

type SetCurrentTopic struct{ Topic string }

type AddCoveredTopic struct{ Topic types.CoveredTopic }

type SetSpeaking struct{ Speaking bool }

type SetError struct{ Message string }

// Reset restores initial values but keeps the covered-topic history: ending
// a session must not discard the coverage log the timeline renders from.
type Reset struct{}

func (SetState) isAction()        {}
func (SetCurrentTopic) isAction() {}
func (AddCoveredTopic) isAction() {}
func (SetSpeaking) isAction()     {}
func (SetError) isAction()        {}
func (Reset) isAction()           {}

// Store is the single-writer session state container.
type Store struct {
	mu          sync.RWMutex
	snap        Snapshot
	subscribers map[chan Snapshot]struct{}
}

// NewStore creates a session store in the idle state with no history.
func NewStore() *Store {
	return &Store{
		snap:        Snapshot{State: types.StateIdle},
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Dispatch applies one action and notifies subscribers with the new snapshot.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.snap = reduce(s.snap, action)
	snap := copySnapshot(s.snap)
	s.mu.Unlock()

	s.mu.RLock()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default: // slow subscriber, drop rather than block the writer
		}
	}
	s.mu.RUnlock()
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.snap)
}

// State returns the current lifecycle state.
func (s *Store) State() types.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.State
}

// Subscribe returns a channel that receives a snapshot after every dispatch.
// Snapshots are dropped, not queued, if the subscriber falls behind.
func (s *Store) Subscribe() chan Snapshot {
	ch := make(chan Snapshot, 16)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (s *Store) Unsubscribe(ch chan Snapshot) {
	s.mu.Lock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
}

// reduce is the pure transition function. Every state change in the daemon
// goes through here.
func reduce(snap Snapshot, action Action) Snapshot {
	switch a := action.(type) {
	case SetState:
		snap.State = a.State
		if a.State != types.StateError {
			snap.ErrorMessage = ""
		}
	case SetCurrentTopic:
		snap.CurrentTopic = a.Topic
	case AddCoveredTopic:
		snap.CoveredTopics = append(snap.CoveredTopics, a.Topic)
	case SetSpeaking:
		snap.Speaking = a.Speaking
	case SetError:
		snap.State = types.StateError
		snap.ErrorMessage = a.Message
	case Reset:
		covered := snap.CoveredTopics
		snap = Snapshot{State: types.StateIdle, CoveredTopics: covered}
	}
	return snap
}

func copySnapshot(snap Snapshot) Snapshot {
	out := snap
	out.CoveredTopics = make([]types.CoveredTopic, len(snap.CoveredTopics))
	copy(out.CoveredTopics, snap.CoveredTopics)
	return out
}
