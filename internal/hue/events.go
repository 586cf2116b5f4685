package hue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	sse "github.com/r3labs/sse/v2"
	"github.com/samber/lo"
	"github.com/wheelibin/ambience/internal/constants"
	"github.com/wheelibin/ambience/internal/models"
)

var stateEventTypes = []string{
	constants.EventTypeLight,
	constants.EventTypeGroupedLight,
	constants.EventTypeRoom,
	constants.EventTypeZone,
	constants.EventTypeZigbeeConnectivity,
}

// EventConsumer listens to the bridge event stream and asks for a refresh when lights change
// outside this app (wall switches, phones, power cycles). Bursts of events are collapsed into
// one refresh per batch window.
type EventConsumer struct {
	Logger *log.Logger

	host        string
	appKey      string
	clock       clockwork.Clock
	batchWindow time.Duration
	onChange    func()

	mu    sync.Mutex
	timer clockwork.Timer
}

func NewEventConsumer(logger *log.Logger, host, appKey string, clock clockwork.Clock, batchWindow time.Duration, onChange func()) *EventConsumer {
	return &EventConsumer{
		Logger:      logger,
		host:        host,
		appKey:      appKey,
		clock:       clock,
		batchWindow: batchWindow,
		onChange:    onChange,
	}
}

// Run subscribes to the event stream and blocks until ctx is done
func (h *EventConsumer) Run(ctx context.Context) error {
	client := sse.NewClient(fmt.Sprintf("https://%s/eventstream/clip/v2", h.host))
	client.Connection.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	client.Headers["hue-application-key"] = h.appKey

	client.OnConnect(func(_ *sse.Client) {
		h.Logger.Info("Connected to HUE bridge, listening for events...")
	})
	client.OnDisconnect(func(_ *sse.Client) {
		h.Logger.Info("Disconnected from HUE bridge")
	})

	defer h.stop()

	err := client.SubscribeWithContext(ctx, "", h.HandleEvent)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("error subscribing to bridge events: %w", err)
	}
	return nil
}

func (h *EventConsumer) HandleEvent(msg *sse.Event) {
	if len(msg.Data) == 0 {
		return
	}

	events := []models.Event{}
	if err := json.Unmarshal(msg.Data, &events); err != nil {
		h.Logger.Debug("ignoring unparseable bridge event", "err", err)
		return
	}

	relevant := lo.SomeBy(events, func(evt models.Event) bool {
		return evt.Type == constants.EventBatchTypeUpdate && lo.SomeBy(evt.Data, func(d models.EventData) bool {
			return lo.Contains(stateEventTypes, d.Type)
		})
	})
	if !relevant {
		return
	}

	h.Logger.Debug("bridge state changed, scheduling refresh")
	h.schedule()
}

func (h *EventConsumer) schedule() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = h.clock.AfterFunc(h.batchWindow, h.onChange)
}

func (h *EventConsumer) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
	}
}
