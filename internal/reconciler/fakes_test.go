package reconciler_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/ambience/internal/config"
	devicestatestore "github.com/wheelibin/ambience/internal/deviceStateStore"
	"github.com/wheelibin/ambience/internal/models"
	"github.com/wheelibin/ambience/internal/reconciler"
)

const (
	debounceWindow = 300 * time.Millisecond
	settleDelay    = 800 * time.Millisecond
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntil(n int)
}

// fakeBridge behaves like a bridge with a handful of lights: commands change its state and
// fetches report it
type fakeBridge struct {
	mu       sync.Mutex
	lights   map[string]models.Light
	order    []string
	rooms    []models.Room
	patches  []models.LightConfigPatch
	fetches  int
	returned int
	failWith error
	fetchErr error
	gate     chan struct{}
	// brightness the device restores when switched on
	restore map[string]int
}

func newFakeBridge(lights []models.Light, rooms []models.Room) *fakeBridge {
	b := &fakeBridge{lights: map[string]models.Light{}, rooms: rooms, restore: map[string]int{}}
	for _, l := range lights {
		b.lights[l.ID] = l
		b.order = append(b.order, l.ID)
	}
	return b
}

func (b *fakeBridge) ApplyLightConfig(ctx context.Context, patch models.LightConfigPatch) error {
	b.mu.Lock()
	b.patches = append(b.patches, patch)
	gate := b.gate
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	defer func() { b.returned++ }()

	if b.failWith != nil {
		return b.failWith
	}
	for roomID, cmd := range patch.Groups {
		for _, room := range b.rooms {
			if room.ID != roomID {
				continue
			}
			for _, id := range room.LightIDs {
				b.apply(id, cmd)
			}
		}
	}
	for id, cmd := range patch.Lights {
		b.apply(id, cmd)
	}
	return nil
}

func (b *fakeBridge) apply(id string, cmd models.LightCommand) {
	l := b.lights[id]
	if cmd.On != nil {
		if *cmd.On && !l.State.On {
			if bri, ok := b.restore[id]; ok {
				l.State.Brightness = bri
			}
		}
		l.State.On = *cmd.On
	}
	if cmd.Bri != nil {
		l.State.Brightness = *cmd.Bri
	}
	if cmd.Hue != nil {
		l.State.Hue = cmd.Hue
	}
	if cmd.Sat != nil {
		l.State.Saturation = cmd.Sat
	}
	if cmd.CT != nil {
		l.State.ColorTemp = cmd.CT
	}
	if cmd.Effect != nil {
		l.State.Effect = *cmd.Effect
	}
	b.lights[id] = l
}

func (b *fakeBridge) FetchLightsAndRooms(ctx context.Context) ([]models.Light, []models.Room, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches++
	if b.fetchErr != nil {
		return nil, nil, b.fetchErr
	}

	lights := []models.Light{}
	for _, id := range b.order {
		lights = append(lights, b.lights[id])
	}
	return lights, b.rooms, nil
}

// setLight changes a light behind the app's back, like a wall switch would
func (b *fakeBridge) setLight(id string, on bool, bri int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.lights[id]
	l.State.On = on
	l.State.Brightness = bri
	b.lights[id] = l
}

func (b *fakeBridge) light(id string) models.Light {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lights[id]
}

func (b *fakeBridge) hold() chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gate = make(chan struct{})
	return b.gate
}

func (b *fakeBridge) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWith = err
}

func (b *fakeBridge) failFetches(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetchErr = err
}

func (b *fakeBridge) sent() []models.LightConfigPatch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.LightConfigPatch{}, b.patches...)
}

func (b *fakeBridge) fetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches
}

func (b *fakeBridge) returnedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.returned
}

type fixture struct {
	clock  fakeClock
	bridge *fakeBridge
	store  *devicestatestore.Store
	engine *reconciler.Engine
}

func setup(t *testing.T, lights []models.Light, rooms []models.Room) fixture {
	t.Helper()

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
	clock := clockwork.NewFakeClock()
	bridge := newFakeBridge(lights, rooms)
	store := devicestatestore.NewStore(logger, bridge, clock)
	require.NoError(t, store.Refresh(context.Background()))

	engine := reconciler.NewEngine(logger, store, bridge, clock, config.Reconciler{
		DebounceWindow: debounceWindow,
		SettleDelay:    settleDelay,
		MixedTolerance: 10,
		TransitionTime: 4,
		CommandTimeout: 5 * time.Second,
	})

	return fixture{clock: clock, bridge: bridge, store: store, engine: engine}
}

func colorLight(id string, on bool, bri int) models.Light {
	return models.Light{
		ID:           id,
		Name:         "Light " + id,
		Capabilities: models.Capabilities{Color: true, ColorTemp: true},
		Reachable:    true,
		State:        models.LightState{On: on, Brightness: bri, Effect: models.EffectNone},
	}
}

func whiteLight(id string, on bool, bri int) models.Light {
	return models.Light{
		ID:        id,
		Name:      "Light " + id,
		Reachable: true,
		State:     models.LightState{On: on, Brightness: bri},
	}
}

func brightnessPatches(patches []models.LightConfigPatch) []models.LightConfigPatch {
	out := []models.LightConfigPatch{}
	for _, p := range patches {
		for _, cmd := range p.Lights {
			if cmd.Bri != nil {
				out = append(out, p)
			}
		}
		for _, cmd := range p.Groups {
			if cmd.Bri != nil {
				out = append(out, p)
			}
		}
	}
	return out
}

func eventually(t *testing.T, condition func() bool) {
	t.Helper()
	require.Eventually(t, condition, time.Second, 5*time.Millisecond)
}
