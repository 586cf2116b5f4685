package ambience

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/wheelibin/ambience/internal/models"
)

type DeviceStateStore interface {
	Refresh(ctx context.Context) error
}

type SceneImporter interface {
	ImportScenes(ctx context.Context, defs []models.SceneDefinition, transition int) error
}

type EventSource interface {
	// blocks until ctx is done
	Run(ctx context.Context) error
}

type Ambience struct {
	logger          *log.Logger
	clock           clockwork.Clock
	store           DeviceStateStore
	scenes          SceneImporter
	events          EventSource
	definitions     []models.SceneDefinition
	transition      int
	refreshInterval time.Duration
	refreshRequests chan struct{}
}

func NewAmbience(
	logger *log.Logger,
	clock clockwork.Clock,
	store DeviceStateStore,
	scenes SceneImporter,
	events EventSource,
	definitions []models.SceneDefinition,
	transition int,
	refreshInterval time.Duration,
) *Ambience {
	return &Ambience{
		logger:          logger,
		clock:           clock,
		store:           store,
		scenes:          scenes,
		events:          events,
		definitions:     definitions,
		transition:      transition,
		refreshInterval: refreshInterval,
		refreshRequests: make(chan struct{}, 1),
	}
}

// Initialise imports the configured scenes and loads the first snapshot from the bridge
func (a *Ambience) Initialise(ctx context.Context) error {
	a.logger.Debug("Ambience.Initialise")

	if len(a.definitions) > 0 {
		if err := a.scenes.ImportScenes(ctx, a.definitions, a.transition); err != nil {
			return fmt.Errorf("Error importing scenes: %w", err)
		}
		a.logger.Info("scenes imported", "count", len(a.definitions))
	}

	if err := a.store.Refresh(ctx); err != nil {
		return fmt.Errorf("Error loading lights from the bridge: %w", err)
	}
	return nil
}

// RequestRefresh asks the run loop for a fetch. Requests made while one is pending are merged.
func (a *Ambience) RequestRefresh() {
	select {
	case a.refreshRequests <- struct{}{}:
	default:
	}
}

// Run keeps the store in step with the bridge until ctx is done
func (a *Ambience) Run(ctx context.Context) {
	a.logger.Debug("Ambience.Run")

	// start listening to hue bridge events
	if a.events != nil {
		go func() {
			if err := a.events.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("bridge event stream stopped", "err", err)
			}
		}()
	}

	refreshTimer := a.clock.NewTicker(a.refreshInterval)
	defer refreshTimer.Stop()

	// start the main application loop
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Ambience.Run: stop signal received")
			return

		case <-a.refreshRequests:
			a.logger.Debug("Ambience.Run: refresh requested")
			a.refresh(ctx)

		case t := <-refreshTimer.Chan():
			a.logger.Debug("Ambience.Run: periodic refresh", "t", t)
			a.refresh(ctx)
		}
	}
}

func (a *Ambience) refresh(ctx context.Context) {
	if err := a.store.Refresh(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}
