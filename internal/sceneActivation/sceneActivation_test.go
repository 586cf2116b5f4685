package sceneactivation_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/ambience/internal/models"
	sceneactivation "github.com/wheelibin/ambience/internal/sceneActivation"
	sceneselection "github.com/wheelibin/ambience/internal/sceneSelection"
	"github.com/wheelibin/ambience/mocks"
)

type deps struct {
	scenes    *mocks.MockSceneactivationSceneRepo
	selection *mocks.MockSceneactivationSelection
	player    *mocks.MockSceneactivationPlayer
	bridge    *mocks.MockSceneactivationBridge
	store     *mocks.MockSceneactivationRefresher
}

func newCoordinator(t *testing.T) (*sceneactivation.Coordinator, deps) {
	d := deps{
		scenes:    mocks.NewMockSceneactivationSceneRepo(t),
		selection: mocks.NewMockSceneactivationSelection(t),
		player:    mocks.NewMockSceneactivationPlayer(t),
		bridge:    mocks.NewMockSceneactivationBridge(t),
		store:     mocks.NewMockSceneactivationRefresher(t),
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
	return sceneactivation.NewCoordinator(logger, d.scenes, d.selection, d.player, d.bridge, d.store), d
}

var (
	tavern    = models.Scene{ID: "s1", Name: "Tavern"}
	dungeon   = models.Scene{ID: "s2", Name: "Dungeon"}
	luteTrack = models.AudioTrack{ID: "t1", Name: "Lute", URL: "/music/lute.ogg"}
	warmLight = models.LightConfig{
		ID:    "c1",
		Name:  "Warm",
		Patch: models.GroupPatch("1", models.BrightnessCommand(120, 4)),
	}
	audioEntry = models.SceneEntry{ID: "e1", SceneID: "s1", Kind: models.EntryKindAudio, RefID: "t1", IsSelected: true}
	lightEntry = models.SceneEntry{ID: "e2", SceneID: "s1", Kind: models.EntryKindLight, RefID: "c1", IsSelected: true}
)

func active(scene models.Scene) models.Scene {
	scene.IsActive = true
	return scene
}

func Test_Activate(t *testing.T) {

	t.Run("should start only the audio when no light config is selected", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.scenes.On("GetScene", mock.Anything, "s1").Return(tavern, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindAudio).Return(audioEntry, true, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindLight).Return(models.SceneEntry{}, false, nil)
		d.player.On("SourceContext").Return(models.SourceContext{})
		d.scenes.On("GetAudioTrack", mock.Anything, "t1").Return(luteTrack, nil)
		d.player.On("LoadTrack", "t1", "/music/lute.ogg", models.SceneSource(tavern)).Return(nil)
		d.player.On("Play").Return(nil)
		d.scenes.On("SetSceneActive", mock.Anything, "s1", true).Return(nil)

		// act
		result, err := c.Activate(context.Background(), "s1")

		// assert
		require.NoError(t, err)
		assert.Equal(t, sceneactivation.Result{AudioStarted: true}, result)
		d.bridge.AssertNotCalled(t, "ApplyLightConfig", mock.Anything, mock.Anything)
		d.store.AssertNotCalled(t, "Refresh", mock.Anything)
	})

	t.Run("should do nothing when nothing is selected", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.scenes.On("GetScene", mock.Anything, "s1").Return(tavern, nil)
		d.selection.On("Selected", mock.Anything, "s1", mock.Anything).Return(models.SceneEntry{}, false, nil)

		// act
		result, err := c.Activate(context.Background(), "s1")

		// assert
		require.NoError(t, err)
		assert.Equal(t, sceneactivation.Result{}, result)
		d.scenes.AssertNotCalled(t, "SetSceneActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should apply the light config then refresh the store", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.scenes.On("GetScene", mock.Anything, "s1").Return(tavern, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindAudio).Return(models.SceneEntry{}, false, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindLight).Return(lightEntry, true, nil)
		d.scenes.On("GetLightConfig", mock.Anything, "c1").Return(warmLight, nil)
		d.bridge.On("ApplyLightConfig", mock.Anything, warmLight.Patch).Return(nil)
		d.store.On("Refresh", mock.Anything).Return(nil)
		d.scenes.On("SetSceneActive", mock.Anything, "s1", true).Return(nil)

		// act
		result, err := c.Activate(context.Background(), "s1")

		// assert
		require.NoError(t, err)
		assert.Equal(t, sceneactivation.Result{LightsApplied: true}, result)
	})

	t.Run("should still start the audio when the bridge rejects the lights", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		rejected := errors.New("rejected")
		d.scenes.On("GetScene", mock.Anything, "s1").Return(tavern, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindAudio).Return(audioEntry, true, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindLight).Return(lightEntry, true, nil)
		d.player.On("SourceContext").Return(models.SourceContext{})
		d.scenes.On("GetAudioTrack", mock.Anything, "t1").Return(luteTrack, nil)
		d.player.On("LoadTrack", "t1", "/music/lute.ogg", models.SceneSource(tavern)).Return(nil)
		d.player.On("Play").Return(nil)
		d.scenes.On("GetLightConfig", mock.Anything, "c1").Return(warmLight, nil)
		d.bridge.On("ApplyLightConfig", mock.Anything, warmLight.Patch).Return(rejected)
		d.scenes.On("SetSceneActive", mock.Anything, "s1", true).Return(nil)

		// act
		result, err := c.Activate(context.Background(), "s1")

		// assert
		assert.ErrorIs(t, err, rejected)
		assert.Equal(t, sceneactivation.Result{AudioStarted: true}, result)
	})

	t.Run("should resume a paused track the scene already loaded", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.scenes.On("GetScene", mock.Anything, "s1").Return(tavern, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindAudio).Return(audioEntry, true, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindLight).Return(models.SceneEntry{}, false, nil)
		d.player.On("SourceContext").Return(models.SceneSource(tavern))
		d.player.On("CurrentTrackID").Return("t1")
		d.player.On("Play").Return(nil)
		d.scenes.On("SetSceneActive", mock.Anything, "s1", true).Return(nil)

		// act
		_, err := c.Activate(context.Background(), "s1")

		// assert
		require.NoError(t, err)
		d.player.AssertNotCalled(t, "LoadTrack", mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_Deactivate(t *testing.T) {

	t.Run("should pause the scene's own audio", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.player.On("IsPlaying").Return(true)
		d.player.On("SourceContext").Return(models.SceneSource(tavern))
		d.player.On("Pause").Return(nil)
		d.scenes.On("SetSceneActive", mock.Anything, "s1", false).Return(nil)

		// act
		err := c.Deactivate(context.Background(), "s1")

		// assert
		require.NoError(t, err)
		d.bridge.AssertNotCalled(t, "ApplyLightConfig", mock.Anything, mock.Anything)
	})

	t.Run("should leave another scene's audio playing", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.player.On("IsPlaying").Return(true)
		d.player.On("SourceContext").Return(models.SceneSource(dungeon))
		d.scenes.On("SetSceneActive", mock.Anything, "s1", false).Return(nil)

		// act
		err := c.Deactivate(context.Background(), "s1")

		// assert
		require.NoError(t, err)
		d.player.AssertNotCalled(t, "Pause")
	})
}

func Test_Toggle(t *testing.T) {

	t.Run("should deactivate a scene that is really playing", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.scenes.On("GetScene", mock.Anything, "s1").Return(active(tavern), nil)
		d.player.On("IsPlaying").Return(true)
		d.player.On("SourceContext").Return(models.SceneSource(tavern))
		d.player.On("Pause").Return(nil)
		d.scenes.On("SetSceneActive", mock.Anything, "s1", false).Return(nil)

		// act
		result, err := c.Toggle(context.Background(), "s1")

		// assert
		require.NoError(t, err)
		assert.Equal(t, sceneactivation.Result{}, result)
	})

	t.Run("should activate a scene whose active flag is stale", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.scenes.On("GetScene", mock.Anything, "s1").Return(active(tavern), nil)
		d.player.On("IsPlaying").Return(true)
		d.player.On("SourceContext").Return(models.SceneSource(dungeon))
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindAudio).Return(audioEntry, true, nil)
		d.selection.On("Selected", mock.Anything, "s1", models.EntryKindLight).Return(models.SceneEntry{}, false, nil)
		d.scenes.On("GetAudioTrack", mock.Anything, "t1").Return(luteTrack, nil)
		d.player.On("LoadTrack", "t1", "/music/lute.ogg", models.SceneSource(active(tavern))).Return(nil)
		d.player.On("Play").Return(nil)
		d.scenes.On("SetSceneActive", mock.Anything, "s1", true).Return(nil)

		// act
		result, err := c.Toggle(context.Background(), "s1")

		// assert
		require.NoError(t, err)
		assert.True(t, result.AudioStarted)
		d.player.AssertNotCalled(t, "Pause")
	})
}

func Test_IsPlaying(t *testing.T) {

	tests := []struct {
		name    string
		scene   models.Scene
		playing bool
		source  models.SourceContext
		want    bool
	}{
		{name: "active and sounding", scene: active(tavern), playing: true, source: models.SceneSource(tavern), want: true},
		{name: "not active", scene: tavern, playing: true, source: models.SceneSource(tavern), want: false},
		{name: "paused", scene: active(tavern), playing: false, source: models.SceneSource(tavern), want: false},
		{name: "another scene's audio", scene: active(tavern), playing: true, source: models.SceneSource(dungeon), want: false},
		{name: "audio started elsewhere", scene: active(tavern), playing: true, source: models.SourceContext{Type: "library", ID: "s1"}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// arrange
			c, d := newCoordinator(t)
			d.player.On("IsPlaying").Return(tt.playing).Maybe()
			d.player.On("SourceContext").Return(tt.source).Maybe()

			// act / assert
			assert.Equal(t, tt.want, c.IsPlaying(tt.scene))
		})
	}
}

func Test_PlayAudioEntry(t *testing.T) {

	expectPlay := func(d deps, entry models.SceneEntry) {
		d.selection.On("Entry", mock.Anything, entry.ID).Return(entry, nil)
		d.scenes.On("GetScene", mock.Anything, "s1").Return(tavern, nil)
		d.player.On("SourceContext").Return(models.SourceContext{})
		d.scenes.On("GetAudioTrack", mock.Anything, entry.RefID).Return(models.AudioTrack{ID: entry.RefID, URL: "/music/" + entry.RefID}, nil)
		d.player.On("LoadTrack", entry.RefID, "/music/"+entry.RefID, models.SceneSource(tavern)).Return(nil)
		d.player.On("Play").Return(nil)
		d.scenes.On("SetSceneActive", mock.Anything, "s1", true).Return(nil)
	}

	t.Run("should keep the selection when playing the selected track", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		expectPlay(d, audioEntry)

		// act
		err := c.PlayAudioEntry(context.Background(), "s1", "e1")

		// assert
		require.NoError(t, err)
		d.selection.AssertNotCalled(t, "PromoteOnPlay", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should select an unselected track when it is played", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		other := models.SceneEntry{ID: "e3", SceneID: "s1", Kind: models.EntryKindAudio, RefID: "t2"}
		expectPlay(d, other)
		d.selection.On("PromoteOnPlay", mock.Anything, "s1", "e3").Return(nil).Once()

		// act
		err := c.PlayAudioEntry(context.Background(), "s1", "e3")

		// assert
		require.NoError(t, err)
	})

	t.Run("should reject an entry from another scene", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		d.selection.On("Entry", mock.Anything, "e9").Return(models.SceneEntry{ID: "e9", SceneID: "s2", Kind: models.EntryKindAudio}, nil)

		// act
		err := c.PlayAudioEntry(context.Background(), "s1", "e9")

		// assert
		assert.ErrorIs(t, err, sceneselection.ErrEntryNotInScene)
	})
}

func Test_ApplyLightEntry(t *testing.T) {

	t.Run("should apply without changing the selection", func(t *testing.T) {
		t.Parallel()
		// arrange
		c, d := newCoordinator(t)
		unselected := models.SceneEntry{ID: "e4", SceneID: "s1", Kind: models.EntryKindLight, RefID: "c1"}
		d.selection.On("Entry", mock.Anything, "e4").Return(unselected, nil)
		d.scenes.On("GetLightConfig", mock.Anything, "c1").Return(warmLight, nil)
		d.bridge.On("ApplyLightConfig", mock.Anything, warmLight.Patch).Return(nil).Once()
		d.store.On("Refresh", mock.Anything).Return(nil)

		// act
		err := c.ApplyLightEntry(context.Background(), "s1", "e4")

		// assert
		require.NoError(t, err)
		d.selection.AssertNotCalled(t, "PromoteOnPlay", mock.Anything, mock.Anything, mock.Anything)
	})
}
