package devicestatestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
	"github.com/wheelibin/ambience/internal/models"
)

var ErrFetchFailed = errors.New("devicestatestore: fetch failed")

type fetcher interface {
	FetchLightsAndRooms(ctx context.Context) ([]models.Light, []models.Room, error)
}

// Store is the process wide cache of what the bridge reports. Only Refresh writes the light and
// room state, the room-active set can also be set optimistically ahead of a fetch.
type Store struct {
	logger  *log.Logger
	fetcher fetcher
	clock   clockwork.Clock

	mu          sync.RWMutex
	snapshot    Snapshot
	issuedSeq   uint64
	appliedSeq  uint64
	activeRooms map[string]bool

	// serialises notifications so subscribers never see an older snapshot after a newer one
	notifyMu    sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func NewStore(logger *log.Logger, fetcher fetcher, clock clockwork.Clock) *Store {
	return &Store{
		logger:      logger,
		fetcher:     fetcher,
		clock:       clock,
		activeRooms: map[string]bool{},
		subscribers: map[int]func(Snapshot){},
	}
}

// Refresh fetches the authoritative state and replaces the snapshot. A result that comes back
// after the result of a later fetch has been applied is discarded.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()

	lights, rooms, err := s.fetcher.FetchLightsAndRooms(ctx)
	if err != nil {
		s.logger.Warn("fetching lights and rooms failed, keeping previous state", "err", err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	s.mu.Lock()
	if seq < s.appliedSeq {
		applied := s.appliedSeq
		s.mu.Unlock()
		s.logger.Debug("discarding stale fetch result", "seq", seq, "applied", applied)
		return nil
	}
	s.appliedSeq = seq
	s.snapshot = NewSnapshot(lights, rooms, s.clock.Now())
	s.activeRooms = lo.SliceToMap(rooms, func(r models.Room) (string, bool) {
		return r.ID, s.snapshot.AnyOn(r.ID)
	})
	s.mu.Unlock()

	s.logger.Debug("device state refreshed", "lights", len(lights), "rooms", len(rooms))
	s.notify()
	return nil
}

func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	snap := s.Snapshot()
	for _, id := range lo.Keys(s.subscribers) {
		s.subscribers[id](snap)
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Subscribe registers fn to be called after every applied refresh. Callbacks run on the
// refreshing goroutine and must not call Refresh themselves.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.subscribers, id)
	}
}

// SetRoomActive marks a room active ahead of a fetch confirming it
func (s *Store) SetRoomActive(roomID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeRooms[roomID] = active
}

func (s *Store) IsRoomActive(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeRooms[roomID]
}

func (s *Store) ActiveRooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := lo.Keys(lo.PickBy(s.activeRooms, func(_ string, active bool) bool { return active }))
	sort.Strings(ids)
	return ids
}
