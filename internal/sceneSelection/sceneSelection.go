package sceneselection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/wheelibin/ambience/internal/models"
	"github.com/wheelibin/ambience/internal/repos"
)

var (
	ErrEntryNotFound   = repos.ErrEntryNotFound
	ErrEntryNotInScene = errors.New("sceneselection: entry belongs to another scene or kind")
)

type repository interface {
	AddEntry(ctx context.Context, entry models.SceneEntry) error
	RemoveEntry(ctx context.Context, entryID string) error
	GetEntry(ctx context.Context, entryID string) (models.SceneEntry, error)
	ListEntries(ctx context.Context, sceneID string, kind models.EntryKind) ([]models.SceneEntry, error)
	SelectedEntry(ctx context.Context, sceneID string, kind models.EntryKind) (models.SceneEntry, bool, error)
	SetSelected(ctx context.Context, sceneID string, kind models.EntryKind, entryID string) error
}

// Model keeps at most one selected audio entry and one selected light entry per scene.
// Selection says what activation will use, not what is playing.
type Model struct {
	logger *log.Logger
	repo   repository

	mu     sync.Mutex
	scenes map[string]*sync.Mutex
}

func NewModel(logger *log.Logger, repo repository) *Model {
	return &Model{logger: logger, repo: repo, scenes: map[string]*sync.Mutex{}}
}

// selections on one scene are applied one at a time, the last call wins
func (m *Model) lockScene(sceneID string) func() {
	m.mu.Lock()
	l, ok := m.scenes[sceneID]
	if !ok {
		l = &sync.Mutex{}
		m.scenes[sceneID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// SetSelected makes entryID the scene's selected entry of its kind, clearing the previous one
func (m *Model) SetSelected(ctx context.Context, kind models.EntryKind, sceneID string, entryID string) error {
	unlock := m.lockScene(sceneID)
	defer unlock()

	entry, err := m.repo.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.SceneID != sceneID || entry.Kind != kind {
		return fmt.Errorf("%w: %s is a %s entry of scene %s", ErrEntryNotInScene, entryID, entry.Kind, entry.SceneID)
	}
	if entry.IsSelected {
		return nil
	}

	if err := m.repo.SetSelected(ctx, sceneID, kind, entryID); err != nil {
		return err
	}
	m.logger.Debug("selected scene entry", "scene", sceneID, "kind", kind, "entry", entryID)
	return nil
}

// Selected returns the scene's selected entry of a kind, ok is false when there is none
func (m *Model) Selected(ctx context.Context, sceneID string, kind models.EntryKind) (models.SceneEntry, bool, error) {
	return m.repo.SelectedEntry(ctx, sceneID, kind)
}

func (m *Model) Entries(ctx context.Context, sceneID string, kind models.EntryKind) ([]models.SceneEntry, error) {
	return m.repo.ListEntries(ctx, sceneID, kind)
}

func (m *Model) Entry(ctx context.Context, entryID string) (models.SceneEntry, error) {
	return m.repo.GetEntry(ctx, entryID)
}

// Attach adds a track or light config to a scene, unselected
func (m *Model) Attach(ctx context.Context, sceneID string, kind models.EntryKind, refID string) (models.SceneEntry, error) {
	entry := models.SceneEntry{
		ID:      uuid.NewString(),
		SceneID: sceneID,
		Kind:    kind,
		RefID:   refID,
	}
	if err := m.repo.AddEntry(ctx, entry); err != nil {
		return models.SceneEntry{}, err
	}
	return entry, nil
}

// Detach removes the attachment, a selected entry leaves the scene with no selection of its kind
func (m *Model) Detach(ctx context.Context, entryID string) error {
	entry, err := m.repo.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	unlock := m.lockScene(entry.SceneID)
	defer unlock()
	return m.repo.RemoveEntry(ctx, entryID)
}

// HasSelection is false when the scene has neither a selected track nor a selected light config
func (m *Model) HasSelection(ctx context.Context, sceneID string) (bool, error) {
	for _, kind := range []models.EntryKind{models.EntryKindAudio, models.EntryKindLight} {
		_, ok, err := m.repo.SelectedEntry(ctx, sceneID, kind)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// PromoteOnPlay selects an audio entry the host plays directly. Listening to a track makes it
// the scene's default.
func (m *Model) PromoteOnPlay(ctx context.Context, sceneID string, entryID string) error {
	return m.SetSelected(ctx, models.EntryKindAudio, sceneID, entryID)
}
