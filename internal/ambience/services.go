package ambience

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/wheelibin/ambience/internal/audio"
	"github.com/wheelibin/ambience/internal/concurrency"
	"github.com/wheelibin/ambience/internal/config"
	devicestatestore "github.com/wheelibin/ambience/internal/deviceStateStore"
	"github.com/wheelibin/ambience/internal/hue"
	"github.com/wheelibin/ambience/internal/reconciler"
	"github.com/wheelibin/ambience/internal/repos"
	sceneactivation "github.com/wheelibin/ambience/internal/sceneActivation"
	sceneselection "github.com/wheelibin/ambience/internal/sceneSelection"
)

// Services is everything a front end needs, wired to one bridge and one database
type Services struct {
	db          *sql.DB
	Scenes      *repos.SceneRepo
	Bridge      *hue.Client
	Store       *devicestatestore.Store
	Engine      *reconciler.Engine
	Selection   *sceneselection.Model
	Player      *audio.Player
	Coordinator *sceneactivation.Coordinator
	App         *Ambience
}

func NewServices(cfg *config.Config, logger *log.Logger, clock clockwork.Clock) (*Services, error) {
	host, err := bridgeHost(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := repos.OpenDB(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	scenes, err := repos.NewSceneRepo(logger.WithPrefix("repos"), db)
	if err != nil {
		db.Close()
		return nil, err
	}

	worker := concurrency.NewThrottledWorker(cfg.Bridge.RequestsPerSecond)
	bridge := hue.NewClient(logger.WithPrefix("hue"), host, cfg.HueAppKey, worker)
	store := devicestatestore.NewStore(logger.WithPrefix("store"), bridge, clock)
	engine := reconciler.NewEngine(logger.WithPrefix("reconciler"), store, bridge, clock, cfg.Reconciler)
	selection := sceneselection.NewModel(logger.WithPrefix("selection"), scenes)

	var backend audio.Backend
	backend, err = audio.NewProcessBackend(logger.WithPrefix("audio"), cfg.Audio.Command)
	if err != nil {
		logger.Warn("audio playback unavailable", "err", err)
		backend = audio.Unavailable(err)
	}
	player := audio.NewPlayer(logger.WithPrefix("audio"), backend)

	coordinator := sceneactivation.NewCoordinator(logger.WithPrefix("scenes"), scenes, selection, player, bridge, store)

	s := &Services{
		db:          db,
		Scenes:      scenes,
		Bridge:      bridge,
		Store:       store,
		Engine:      engine,
		Selection:   selection,
		Player:      player,
		Coordinator: coordinator,
	}

	events := hue.NewEventConsumer(logger.WithPrefix("events"), host, cfg.HueAppKey, clock, cfg.Bridge.EventBatchWindow, func() {
		s.App.RequestRefresh()
	})
	s.App = NewAmbience(logger, clock, store, scenes, events, cfg.Scenes, cfg.Reconciler.TransitionTime, cfg.Bridge.RefreshInterval)

	return s, nil
}

// Close stops playback and closes the database
func (s *Services) Close() error {
	if err := s.Player.Close(); err != nil {
		return err
	}
	return s.db.Close()
}

func bridgeHost(cfg *config.Config, logger *log.Logger) (string, error) {
	if cfg.BridgeIP != "" {
		return cfg.BridgeIP, nil
	}

	logger.Info("no bridge configured, searching the network", "timeout", cfg.Bridge.DiscoveryTimeout)
	bridges, err := hue.Discover(cfg.Bridge.DiscoveryTimeout)
	if err != nil {
		return "", fmt.Errorf("Error discovering bridge: %w", err)
	}
	logger.Info("bridge found", "host", bridges[0].Host, "id", bridges[0].BridgeID)
	return bridges[0].Host, nil
}
