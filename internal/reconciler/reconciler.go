package reconciler

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/wheelibin/ambience/internal/config"
	devicestatestore "github.com/wheelibin/ambience/internal/deviceStateStore"
	"github.com/wheelibin/ambience/internal/models"
)

var (
	ErrColorUnsupported = errors.New("reconciler: colour not supported by target")
	ErrUnknownEffect    = errors.New("reconciler: unknown effect")
	ErrClosed           = errors.New("reconciler: control closed")
)

type bridge interface {
	ApplyLightConfig(ctx context.Context, patch models.LightConfigPatch) error
}

type store interface {
	Snapshot() devicestatestore.Snapshot
	Refresh(ctx context.Context) error
	Subscribe(fn func(devicestatestore.Snapshot)) func()
	SetRoomActive(roomID string, active bool)
}

// Engine holds what every control shares. Controls are created with Mount and live until Close.
type Engine struct {
	logger *log.Logger
	store  store
	bridge bridge
	clock  clockwork.Clock
	cfg    config.Reconciler
}

func NewEngine(logger *log.Logger, store store, bridge bridge, clock clockwork.Clock, cfg config.Reconciler) *Engine {
	return &Engine{
		logger: logger,
		store:  store,
		bridge: bridge,
		clock:  clock,
		cfg:    cfg,
	}
}

// Mount creates a control for the target and loads its initial state from the store
func (e *Engine) Mount(target Target) *Control {
	c := &Control{
		engine: e,
		target: target,
		logger: e.logger.With("target", target.Key()),
	}
	c.shadow.Brightness = models.MinBrightness

	c.mu.Lock()
	c.resync(e.store.Snapshot(), false)
	c.mu.Unlock()

	c.unsubscribe = e.store.Subscribe(c.Sync)
	return c
}

func (e *Engine) MountLight(lightID string) *Control {
	return e.Mount(Light(lightID))
}

func (e *Engine) MountLightInRoom(lightID string, roomID string) *Control {
	return e.Mount(LightInRoom(lightID, roomID))
}

func (e *Engine) MountRoom(roomID string) *Control {
	return e.Mount(Room(roomID, e.cfg.MixedTolerance))
}

func (e *Engine) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.cfg.CommandTimeout)
}
