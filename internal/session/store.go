package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"figuregen/internal/artifact"
	"figuregen/internal/domain"
	"figuregen/internal/providers/image"
)

// Stage is one of the four wizard steps. Sessions move strictly forward,
// with two explicit backward transitions: Details back to Upload, and a
// failed generation back to Details.
type Stage string

const (
	StageUpload   Stage = "upload"
	StageDetails  Stage = "details"
	StageGenerate Stage = "generate"
	StageShare    Stage = "share"
)

// State is the per-visit container threaded through every wizard step.
// One instance per visitor; never shared across sessions.
type State struct {
	ID           string
	Stage        Stage
	Photo        []byte // normalized PNG
	Subject      domain.Subject
	Accessory    string
	Generating   bool
	Result       *image.Result
	Artifact     *artifact.Artifact // cached download bytes
	CreatedAt    time.Time
	LastActivity time.Time
}

// Store holds all live sessions behind a single mutex. Sessions are
// keyed by UUID and expire after a period of inactivity.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
	ttl      time.Duration
	now      func() time.Time
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}

func NewStore(opts Options) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*State),
		ttl:      ttl,
		now:      now,
	}
}

// Create starts a fresh session in the Upload stage.
func (s *Store) Create() *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.now()
	state := &State{
		ID:           uuid.NewString(),
		Stage:        StageUpload,
		CreatedAt:    n,
		LastActivity: n,
	}
	s.sessions[state.ID] = state
	return state
}

// Snapshot returns a copy of the session state for read-only use.
func (s *Store) Snapshot(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return State{}, domain.ErrNotFound
	}
	state.LastActivity = s.now()
	return *state, nil
}

// AttachPhoto stores the normalized photo and advances to Details.
// Re-uploading from Details replaces the photo in place.
func (s *Store) AttachPhoto(id string, png []byte) error {
	return s.update(id, func(state *State) error {
		if state.Stage != StageUpload && state.Stage != StageDetails {
			return fmt.Errorf("%w: photo upload from %s", domain.ErrWrongStage, state.Stage)
		}
		state.Photo = png
		state.Stage = StageDetails
		return nil
	})
}

// SetDetails records the subject identity and accessory description.
func (s *Store) SetDetails(id string, subject domain.Subject, accessory string) error {
	return s.update(id, func(state *State) error {
		if state.Stage != StageDetails {
			return fmt.Errorf("%w: details from %s", domain.ErrWrongStage, state.Stage)
		}
		state.Subject = subject
		state.Accessory = accessory
		return nil
	})
}

// BackToUpload is the explicit backward transition from Details.
func (s *Store) BackToUpload(id string) error {
	return s.update(id, func(state *State) error {
		if state.Stage != StageDetails {
			return fmt.Errorf("%w: back to upload from %s", domain.ErrWrongStage, state.Stage)
		}
		state.Stage = StageUpload
		return nil
	})
}

// BeginGenerate gates the single generation attempt: a session that is
// already generating or already holds a result refuses the duplicate
// structurally, no locking at the call site required. On success it
// returns a snapshot of the inputs and moves the session to Generate.
func (s *Store) BeginGenerate(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return State{}, domain.ErrNotFound
	}
	if state.Generating || state.Result != nil {
		return State{}, domain.ErrDuplicateAttempt
	}
	if state.Stage != StageDetails {
		return State{}, fmt.Errorf("%w: generate from %s", domain.ErrWrongStage, state.Stage)
	}
	state.Generating = true
	state.Stage = StageGenerate
	state.LastActivity = s.now()
	return *state, nil
}

// CompleteGenerate records a successful result and advances to Share.
// A completion that arrives after the session was reset mid-flight is
// refused so the stale result cannot resurrect cleared state.
func (s *Store) CompleteGenerate(id string, res image.Result) error {
	return s.update(id, func(state *State) error {
		if !state.Generating || state.Stage != StageGenerate {
			return fmt.Errorf("%w: stale completion for session in %s", domain.ErrWrongStage, state.Stage)
		}
		state.Generating = false
		state.Result = &res
		state.Stage = StageShare
		return nil
	})
}

// FailGenerate returns the session to Details so the visitor can retry.
// Like CompleteGenerate, it refuses to touch a session that is no longer
// generating.
func (s *Store) FailGenerate(id string) error {
	return s.update(id, func(state *State) error {
		if !state.Generating || state.Stage != StageGenerate {
			return fmt.Errorf("%w: stale failure for session in %s", domain.ErrWrongStage, state.Stage)
		}
		state.Generating = false
		state.Stage = StageDetails
		return nil
	})
}

// CacheArtifact stores the downloaded bytes so repeated download taps do
// not re-fetch the provider URL.
func (s *Store) CacheArtifact(id string, art artifact.Artifact) error {
	return s.update(id, func(state *State) error {
		state.Artifact = &art
		return nil
	})
}

// Reset implements Create Another: the session returns to Upload with
// all inputs and results cleared.
func (s *Store) Reset(id string) error {
	return s.update(id, func(state *State) error {
		state.Stage = StageUpload
		state.Photo = nil
		state.Subject = domain.Subject{}
		state.Accessory = ""
		state.Generating = false
		state.Result = nil
		state.Artifact = nil
		return nil
	})
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, state := range s.sessions {
		if state.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) update(id string, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if err := fn(state); err != nil {
		return err
	}
	state.LastActivity = s.now()
	return nil
}
