package ambience_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/ambience/internal/ambience"
	"github.com/wheelibin/ambience/internal/models"
	"github.com/wheelibin/ambience/mocks"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntil(n int)
}

var definitions = []models.SceneDefinition{{ID: "s1", Name: "Tavern"}}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func Test_Initialise(t *testing.T) {

	t.Run("should import scenes and load the first snapshot", func(t *testing.T) {
		t.Parallel()
		// arrange
		store := mocks.NewMockAmbienceDeviceStateStore(t)
		store.On("Refresh", mock.Anything).Return(nil).Once()
		importer := mocks.NewMockAmbienceSceneImporter(t)
		importer.On("ImportScenes", mock.Anything, definitions, 4).Return(nil).Once()
		app := ambience.NewAmbience(newLogger(), clockwork.NewFakeClock(), store, importer, nil, definitions, 4, time.Minute)

		// act
		err := app.Initialise(context.Background())

		// assert
		assert.NoError(t, err)
	})

	t.Run("should fail when the bridge cannot be read", func(t *testing.T) {
		t.Parallel()
		// arrange
		unreachable := errors.New("unreachable")
		store := mocks.NewMockAmbienceDeviceStateStore(t)
		store.On("Refresh", mock.Anything).Return(unreachable)
		importer := mocks.NewMockAmbienceSceneImporter(t)
		app := ambience.NewAmbience(newLogger(), clockwork.NewFakeClock(), store, importer, nil, nil, 4, time.Minute)

		// act
		err := app.Initialise(context.Background())

		// assert
		assert.ErrorIs(t, err, unreachable)
		importer.AssertNotCalled(t, "ImportScenes", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should not load lights when the scenes cannot be imported", func(t *testing.T) {
		t.Parallel()
		// arrange
		store := mocks.NewMockAmbienceDeviceStateStore(t)
		importer := mocks.NewMockAmbienceSceneImporter(t)
		importer.On("ImportScenes", mock.Anything, definitions, 4).Return(errors.New("unknown preset"))
		app := ambience.NewAmbience(newLogger(), clockwork.NewFakeClock(), store, importer, nil, definitions, 4, time.Minute)

		// act
		err := app.Initialise(context.Background())

		// assert
		assert.Error(t, err)
		store.AssertNotCalled(t, "Refresh", mock.Anything)
	})
}

func Test_Run(t *testing.T) {

	setup := func(t *testing.T) (*ambience.Ambience, fakeClock, *atomic.Int32, context.CancelFunc) {
		refreshes := &atomic.Int32{}
		store := mocks.NewMockAmbienceDeviceStateStore(t)
		store.On("Refresh", mock.Anything).Run(func(mock.Arguments) { refreshes.Add(1) }).Return(nil).Maybe()

		events := mocks.NewMockAmbienceEventSource(t)
		events.On("Run", mock.Anything).Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Return(nil).Maybe()

		clock := clockwork.NewFakeClock()
		app := ambience.NewAmbience(newLogger(), clock, store, mocks.NewMockAmbienceSceneImporter(t), events, nil, 4, time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			app.Run(ctx)
			close(done)
		}()
		t.Cleanup(func() {
			cancel()
			<-done
		})
		return app, clock, refreshes, cancel
	}

	t.Run("should refresh on every interval", func(t *testing.T) {
		// arrange
		_, clock, refreshes, _ := setup(t)
		clock.BlockUntil(1)

		// act
		clock.Advance(time.Minute)

		// assert
		require.Eventually(t, func() bool { return refreshes.Load() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("should refresh when asked", func(t *testing.T) {
		// arrange
		app, _, refreshes, _ := setup(t)

		// act
		app.RequestRefresh()

		// assert
		require.Eventually(t, func() bool { return refreshes.Load() >= 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		// arrange
		app, _, refreshes, cancel := setup(t)

		// act
		cancel()
		time.Sleep(20 * time.Millisecond)
		app.RequestRefresh()
		time.Sleep(20 * time.Millisecond)

		// assert
		assert.Equal(t, int32(0), refreshes.Load())
	})
}
