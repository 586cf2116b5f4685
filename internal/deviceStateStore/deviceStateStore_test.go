package devicestatestore_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	devicestatestore "github.com/wheelibin/ambience/internal/deviceStateStore"
	"github.com/wheelibin/ambience/internal/models"
)

type fetchResult struct {
	lights []models.Light
	rooms  []models.Room
	err    error
	// when set the fetch waits for it to close
	release chan struct{}
}

// scriptedFetcher answers each fetch with the next scripted result
type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	started chan int
	calls   int
}

func (f *scriptedFetcher) FetchLightsAndRooms(ctx context.Context) ([]models.Light, []models.Room, error) {
	f.mu.Lock()
	r := f.results[f.calls]
	call := f.calls
	f.calls++
	f.mu.Unlock()

	if f.started != nil {
		f.started <- call
	}
	if r.release != nil {
		<-r.release
	}
	return r.lights, r.rooms, r.err
}

func light(id string, on bool, bri int) models.Light {
	return models.Light{ID: id, Name: "Light " + id, State: models.LightState{On: on, Brightness: bri}}
}

func newStore(fetcher *scriptedFetcher) *devicestatestore.Store {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
	return devicestatestore.NewStore(logger, fetcher, clockwork.NewFakeClock())
}

func Test_Refresh(t *testing.T) {

	t.Run("should replace the snapshot wholesale", func(t *testing.T) {
		// arrange
		fetcher := &scriptedFetcher{results: []fetchResult{
			{lights: []models.Light{light("1", true, 10), light("2", false, 20)}},
			{lights: []models.Light{light("2", true, 30)}},
		}}
		store := newStore(fetcher)
		require.True(t, store.Snapshot().IsEmpty())

		// act
		require.NoError(t, store.Refresh(context.Background()))
		require.NoError(t, store.Refresh(context.Background()))

		// assert
		snap := store.Snapshot()
		assert.False(t, snap.IsEmpty())
		_, ok := snap.Light("1")
		assert.False(t, ok, "light missing from the latest fetch should be gone")
		l, ok := snap.Light("2")
		require.True(t, ok)
		assert.Equal(t, 30, l.State.Brightness)
	})

	t.Run("should keep the previous snapshot when the fetch fails", func(t *testing.T) {
		// arrange
		fetcher := &scriptedFetcher{results: []fetchResult{
			{lights: []models.Light{light("1", true, 10)}},
			{err: errors.New("timeout")},
		}}
		store := newStore(fetcher)
		require.NoError(t, store.Refresh(context.Background()))

		// act
		err := store.Refresh(context.Background())

		// assert
		assert.ErrorIs(t, err, devicestatestore.ErrFetchFailed)
		l, ok := store.Snapshot().Light("1")
		require.True(t, ok)
		assert.Equal(t, 10, l.State.Brightness)
	})

	t.Run("should discard a result that arrives after a later fetch was applied", func(t *testing.T) {
		// arrange
		slow := make(chan struct{})
		fetcher := &scriptedFetcher{
			results: []fetchResult{
				{lights: []models.Light{light("1", true, 10)}, release: slow},
				{lights: []models.Light{light("1", true, 99)}},
			},
			started: make(chan int, 2),
		}
		store := newStore(fetcher)

		firstDone := make(chan error)
		go func() { firstDone <- store.Refresh(context.Background()) }()
		<-fetcher.started

		// act
		require.NoError(t, store.Refresh(context.Background()))
		close(slow)
		require.NoError(t, <-firstDone)

		// assert
		l, _ := store.Snapshot().Light("1")
		assert.Equal(t, 99, l.State.Brightness)
	})

	t.Run("should notify subscribers until they unsubscribe", func(t *testing.T) {
		// arrange
		fetcher := &scriptedFetcher{results: []fetchResult{
			{lights: []models.Light{light("1", true, 10)}},
			{lights: []models.Light{light("1", true, 20)}},
		}}
		store := newStore(fetcher)
		received := []int{}
		unsubscribe := store.Subscribe(func(s devicestatestore.Snapshot) {
			l, _ := s.Light("1")
			received = append(received, l.State.Brightness)
		})

		// act
		require.NoError(t, store.Refresh(context.Background()))
		unsubscribe()
		require.NoError(t, store.Refresh(context.Background()))

		// assert
		assert.Equal(t, []int{10}, received)
	})
}

func Test_RoomActive(t *testing.T) {

	t.Run("should recompute the active set from every fetch", func(t *testing.T) {
		// arrange
		rooms := []models.Room{
			{ID: "1", LightIDs: []string{"a"}},
			{ID: "2", LightIDs: []string{"b"}},
		}
		fetcher := &scriptedFetcher{results: []fetchResult{
			{lights: []models.Light{light("a", true, 10), light("b", false, 10)}, rooms: rooms},
		}}
		store := newStore(fetcher)
		store.SetRoomActive("2", true)
		assert.True(t, store.IsRoomActive("2"))

		// act
		require.NoError(t, store.Refresh(context.Background()))

		// assert
		assert.True(t, store.IsRoomActive("1"))
		assert.False(t, store.IsRoomActive("2"))
		assert.Equal(t, []string{"1"}, store.ActiveRooms())
	})

	t.Run("should allow the active flag to be set ahead of a fetch", func(t *testing.T) {
		// arrange
		store := newStore(&scriptedFetcher{})

		// act
		store.SetRoomActive("5", true)
		store.SetRoomActive("3", true)

		// assert
		assert.Equal(t, []string{"3", "5"}, store.ActiveRooms())
	})
}

func Test_Aggregate(t *testing.T) {
	room := models.Room{ID: "r", LightIDs: []string{"1", "2", "3", "missing"}}

	t.Run("should average only the lights that are on", func(t *testing.T) {
		// arrange
		snap := devicestatestore.NewSnapshot(
			[]models.Light{light("1", true, 100), light("2", true, 104), light("3", false, 254)},
			[]models.Room{room}, time.Now())

		// act
		agg, ok := snap.Aggregate("r", 10)

		// assert
		require.True(t, ok)
		assert.True(t, agg.On)
		assert.Equal(t, 102, agg.Brightness)
		assert.False(t, agg.Mixed)
		assert.Equal(t, 3, agg.Members)
		assert.Equal(t, 2, agg.MembersOn)
	})

	t.Run("should average every member when none are on", func(t *testing.T) {
		// arrange
		snap := devicestatestore.NewSnapshot(
			[]models.Light{light("1", false, 100), light("2", false, 200), light("3", false, 30)},
			[]models.Room{room}, time.Now())

		// act
		agg, _ := snap.Aggregate("r", 10)

		// assert
		assert.False(t, agg.On)
		assert.Equal(t, 110, agg.Brightness)
		assert.False(t, agg.Mixed)
	})

	t.Run("should flag mixed when lights that are on differ by more than the tolerance", func(t *testing.T) {
		// arrange
		snap := devicestatestore.NewSnapshot(
			[]models.Light{light("1", true, 100), light("2", true, 111), light("3", false, 254)},
			[]models.Room{room}, time.Now())

		// act
		mixed, _ := snap.Aggregate("r", 10)
		notMixed, _ := snap.Aggregate("r", 11)

		// assert
		assert.True(t, mixed.Mixed)
		assert.False(t, notMixed.Mixed)
	})

	t.Run("should report unknown rooms", func(t *testing.T) {
		snap := devicestatestore.NewSnapshot(nil, nil, time.Now())
		_, ok := snap.Aggregate("nope", 10)
		assert.False(t, ok)
	})
}
