package sceneactivation

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/ambience/internal/models"
	sceneselection "github.com/wheelibin/ambience/internal/sceneSelection"
)

type sceneRepo interface {
	GetScene(ctx context.Context, id string) (models.Scene, error)
	SetSceneActive(ctx context.Context, id string, active bool) error
	GetAudioTrack(ctx context.Context, id string) (models.AudioTrack, error)
	GetLightConfig(ctx context.Context, id string) (models.LightConfig, error)
}

type selection interface {
	Selected(ctx context.Context, sceneID string, kind models.EntryKind) (models.SceneEntry, bool, error)
	Entry(ctx context.Context, entryID string) (models.SceneEntry, error)
	PromoteOnPlay(ctx context.Context, sceneID string, entryID string) error
}

type player interface {
	LoadTrack(id string, url string, source models.SourceContext) error
	Play() error
	Pause() error
	IsPlaying() bool
	CurrentTrackID() string
	SourceContext() models.SourceContext
}

type bridge interface {
	ApplyLightConfig(ctx context.Context, patch models.LightConfigPatch) error
}

type refresher interface {
	Refresh(ctx context.Context) error
}

// Result says which halves of an activation went out
type Result struct {
	AudioStarted  bool
	LightsApplied bool
}

// Coordinator starts and stops a scene's selected track and light config as one unit.
// Light configs go straight to the bridge, they are one-off changes rather than slider input.
type Coordinator struct {
	logger    *log.Logger
	scenes    sceneRepo
	selection selection
	player    player
	bridge    bridge
	store     refresher
}

func NewCoordinator(logger *log.Logger, scenes sceneRepo, selection selection, player player, bridge bridge, store refresher) *Coordinator {
	return &Coordinator{
		logger:    logger,
		scenes:    scenes,
		selection: selection,
		player:    player,
		bridge:    bridge,
		store:     store,
	}
}

// HasSelection gates the play control, a scene with nothing selected has nothing to start
func (c *Coordinator) HasSelection(ctx context.Context, sceneID string) (bool, error) {
	_, audio, err := c.selection.Selected(ctx, sceneID, models.EntryKindAudio)
	if err != nil {
		return false, err
	}
	_, light, err := c.selection.Selected(ctx, sceneID, models.EntryKindLight)
	if err != nil {
		return false, err
	}
	return audio || light, nil
}

// Activate starts the selected track and applies the selected light config. A scene with no
// selection is left alone.
func (c *Coordinator) Activate(ctx context.Context, sceneID string) (Result, error) {
	scene, err := c.scenes.GetScene(ctx, sceneID)
	if err != nil {
		return Result{}, err
	}

	audioEntry, hasAudio, err := c.selection.Selected(ctx, sceneID, models.EntryKindAudio)
	if err != nil {
		return Result{}, err
	}
	lightEntry, hasLight, err := c.selection.Selected(ctx, sceneID, models.EntryKindLight)
	if err != nil {
		return Result{}, err
	}
	if !hasAudio && !hasLight {
		c.logger.Debug("scene has nothing selected, not activating", "scene", sceneID)
		return Result{}, nil
	}

	result := Result{}
	var errs []error

	if hasAudio {
		if err := c.startAudio(ctx, scene, audioEntry.RefID); err != nil {
			errs = append(errs, err)
		} else {
			result.AudioStarted = true
		}
	}
	if hasLight {
		if err := c.applyLights(ctx, lightEntry.RefID); err != nil {
			errs = append(errs, err)
		} else {
			result.LightsApplied = true
		}
	}

	if result.AudioStarted || result.LightsApplied {
		if err := c.scenes.SetSceneActive(ctx, sceneID, true); err != nil {
			errs = append(errs, err)
		}
		c.logger.Info("scene activated", "scene", scene.Name, "audio", result.AudioStarted, "lights", result.LightsApplied)
	}

	return result, errors.Join(errs...)
}

// Deactivate pauses the scene's audio if it is the audio sounding. Lights stay as they are.
func (c *Coordinator) Deactivate(ctx context.Context, sceneID string) error {
	if c.player.IsPlaying() && c.player.SourceContext().IsScene(sceneID) {
		if err := c.player.Pause(); err != nil {
			return err
		}
	}
	if err := c.scenes.SetSceneActive(ctx, sceneID, false); err != nil {
		return err
	}
	c.logger.Info("scene deactivated", "scene", sceneID)
	return nil
}

// Toggle deactivates a scene that is really playing and activates it otherwise
func (c *Coordinator) Toggle(ctx context.Context, sceneID string) (Result, error) {
	scene, err := c.scenes.GetScene(ctx, sceneID)
	if err != nil {
		return Result{}, err
	}
	if c.IsPlaying(scene) {
		return Result{}, c.Deactivate(ctx, sceneID)
	}
	return c.Activate(ctx, sceneID)
}

// IsPlaying is true only when the scene is active and its own audio is what is sounding.
// An active flag alone can be stale and another scene's audio may still be playing.
func (c *Coordinator) IsPlaying(scene models.Scene) bool {
	source := c.player.SourceContext()
	return scene.IsActive &&
		c.player.IsPlaying() &&
		source.Type == models.SourceTypeScene &&
		source.ID == scene.ID
}

// PlayAudioEntry plays one of the scene's tracks directly. Playing a track that is not the
// selected one makes it the selection.
func (c *Coordinator) PlayAudioEntry(ctx context.Context, sceneID string, entryID string) error {
	entry, err := c.sceneEntry(ctx, sceneID, entryID, models.EntryKindAudio)
	if err != nil {
		return err
	}
	if !entry.IsSelected {
		if err := c.selection.PromoteOnPlay(ctx, sceneID, entryID); err != nil {
			return err
		}
	}

	scene, err := c.scenes.GetScene(ctx, sceneID)
	if err != nil {
		return err
	}
	if err := c.startAudio(ctx, scene, entry.RefID); err != nil {
		return err
	}
	return c.scenes.SetSceneActive(ctx, sceneID, true)
}

// ApplyLightEntry pushes one of the scene's light configs without changing the selection
func (c *Coordinator) ApplyLightEntry(ctx context.Context, sceneID string, entryID string) error {
	entry, err := c.sceneEntry(ctx, sceneID, entryID, models.EntryKindLight)
	if err != nil {
		return err
	}
	return c.applyLights(ctx, entry.RefID)
}

func (c *Coordinator) sceneEntry(ctx context.Context, sceneID string, entryID string, kind models.EntryKind) (models.SceneEntry, error) {
	entry, err := c.selection.Entry(ctx, entryID)
	if err != nil {
		return models.SceneEntry{}, err
	}
	if entry.SceneID != sceneID || entry.Kind != kind {
		return models.SceneEntry{}, fmt.Errorf("%w: %s", sceneselection.ErrEntryNotInScene, entryID)
	}
	return entry, nil
}

// a paused track this scene already loaded is resumed rather than restarted
func (c *Coordinator) startAudio(ctx context.Context, scene models.Scene, trackID string) error {
	if c.player.SourceContext().IsScene(scene.ID) && c.player.CurrentTrackID() == trackID {
		return c.player.Play()
	}

	track, err := c.scenes.GetAudioTrack(ctx, trackID)
	if err != nil {
		return err
	}
	if err := c.player.LoadTrack(track.ID, track.URL, models.SceneSource(scene)); err != nil {
		return err
	}
	return c.player.Play()
}

func (c *Coordinator) applyLights(ctx context.Context, configID string) error {
	config, err := c.scenes.GetLightConfig(ctx, configID)
	if err != nil {
		return err
	}
	if config.Patch.IsEmpty() {
		return nil
	}

	if err := c.bridge.ApplyLightConfig(ctx, config.Patch); err != nil {
		return fmt.Errorf("error applying light config (%s): %w", config.Name, err)
	}
	// controls pick the new state up from the store
	if err := c.store.Refresh(ctx); err != nil {
		c.logger.Warn("refresh after light config failed", "config", config.Name, "err", err)
	}
	return nil
}
