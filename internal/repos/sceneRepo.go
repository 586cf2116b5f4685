package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/wheelibin/ambience/internal/models"
)

var (
	ErrSceneNotFound       = errors.New("repos: scene not found")
	ErrTrackNotFound       = errors.New("repos: audio track not found")
	ErrLightConfigNotFound = errors.New("repos: light config not found")
	ErrEntryNotFound       = errors.New("repos: scene entry not found")
)

const initSchema = `
  CREATE TABLE IF NOT EXISTS scene (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 0
  );

  CREATE TABLE IF NOT EXISTS audio_track (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    url TEXT NOT NULL
  );

  CREATE TABLE IF NOT EXISTS light_config (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    patch TEXT NOT NULL -- json LightConfigPatch
  );

  CREATE TABLE IF NOT EXISTS scene_entry (
    id TEXT PRIMARY KEY,
    scene_id TEXT NOT NULL REFERENCES scene(id) ON DELETE CASCADE,
    kind TEXT NOT NULL,
    ref_id TEXT NOT NULL,
    is_selected INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0,
    UNIQUE (scene_id, kind, ref_id)
  );

  -- at most one selected entry of each kind per scene
  CREATE UNIQUE INDEX IF NOT EXISTS scene_entry_selected
    ON scene_entry (scene_id, kind) WHERE is_selected = 1;
`

// entry ids for imported attachments are derived from their scene, kind and target so
// re-importing the same config finds the same rows
var importNamespace = uuid.MustParse("6f1c44de-7a4b-4f5e-9d8e-2b1f0c3a9e57")

type SceneRepo struct {
	logger *log.Logger
	db     *sql.DB
}

func NewSceneRepo(logger *log.Logger, db *sql.DB) (*SceneRepo, error) {
	_, err := db.Exec(initSchema)
	if err != nil {
		return nil, fmt.Errorf("Error initialising scene schema: %w", err)
	}
	return &SceneRepo{logger: logger, db: db}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SceneRepo) UpsertScene(ctx context.Context, scene models.Scene) error {
	return upsertScene(ctx, r.db, scene)
}

func upsertScene(ctx context.Context, db execer, scene models.Scene) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO scene (id, name) VALUES ($1, $2)
     ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		scene.ID, scene.Name)
	if err != nil {
		return fmt.Errorf("Error saving scene (%s): %w", scene.ID, err)
	}
	return nil
}

func (r *SceneRepo) GetScene(ctx context.Context, id string) (models.Scene, error) {
	scene := models.Scene{}
	err := r.db.QueryRowContext(ctx, "SELECT id, name, is_active FROM scene WHERE id = $1", id).
		Scan(&scene.ID, &scene.Name, &scene.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Scene{}, fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	if err != nil {
		return models.Scene{}, fmt.Errorf("Error reading scene (%s): %w", id, err)
	}
	return scene, nil
}

func (r *SceneRepo) ListScenes(ctx context.Context) ([]models.Scene, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, is_active FROM scene ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("Error listing scenes: %w", err)
	}
	defer rows.Close()

	scenes := []models.Scene{}
	for rows.Next() {
		scene := models.Scene{}
		if err := rows.Scan(&scene.ID, &scene.Name, &scene.IsActive); err != nil {
			return nil, fmt.Errorf("Error reading scene: %w", err)
		}
		scenes = append(scenes, scene)
	}
	return scenes, rows.Err()
}

func (r *SceneRepo) SetSceneActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE scene SET is_active = $1 WHERE id = $2", active, id)
	if err != nil {
		return fmt.Errorf("Error setting scene (%s) active to %t: %w", id, active, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	return nil
}

func (r *SceneRepo) UpsertAudioTrack(ctx context.Context, track models.AudioTrack) error {
	return upsertAudioTrack(ctx, r.db, track)
}

func upsertAudioTrack(ctx context.Context, db execer, track models.AudioTrack) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO audio_track (id, name, url) VALUES ($1, $2, $3)
     ON CONFLICT (id) DO UPDATE SET name = excluded.name, url = excluded.url`,
		track.ID, track.Name, track.URL)
	if err != nil {
		return fmt.Errorf("Error saving audio track (%s): %w", track.ID, err)
	}
	return nil
}

func (r *SceneRepo) GetAudioTrack(ctx context.Context, id string) (models.AudioTrack, error) {
	track := models.AudioTrack{}
	err := r.db.QueryRowContext(ctx, "SELECT id, name, url FROM audio_track WHERE id = $1", id).
		Scan(&track.ID, &track.Name, &track.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AudioTrack{}, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
	}
	if err != nil {
		return models.AudioTrack{}, fmt.Errorf("Error reading audio track (%s): %w", id, err)
	}
	return track, nil
}

func (r *SceneRepo) UpsertLightConfig(ctx context.Context, config models.LightConfig) error {
	return upsertLightConfig(ctx, r.db, config)
}

func upsertLightConfig(ctx context.Context, db execer, config models.LightConfig) error {
	patch, err := json.Marshal(config.Patch)
	if err != nil {
		return fmt.Errorf("Error encoding light config (%s): %w", config.ID, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO light_config (id, name, patch) VALUES ($1, $2, $3)
     ON CONFLICT (id) DO UPDATE SET name = excluded.name, patch = excluded.patch`,
		config.ID, config.Name, string(patch))
	if err != nil {
		return fmt.Errorf("Error saving light config (%s): %w", config.ID, err)
	}
	return nil
}

func (r *SceneRepo) GetLightConfig(ctx context.Context, id string) (models.LightConfig, error) {
	config := models.LightConfig{}
	var patch string
	err := r.db.QueryRowContext(ctx, "SELECT id, name, patch FROM light_config WHERE id = $1", id).
		Scan(&config.ID, &config.Name, &patch)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LightConfig{}, fmt.Errorf("%w: %s", ErrLightConfigNotFound, id)
	}
	if err != nil {
		return models.LightConfig{}, fmt.Errorf("Error reading light config (%s): %w", id, err)
	}
	if err := json.Unmarshal([]byte(patch), &config.Patch); err != nil {
		return models.LightConfig{}, fmt.Errorf("Error decoding light config (%s): %w", id, err)
	}
	return config, nil
}

// AddEntry attaches a track or light config to a scene, after any existing entries of its kind
func (r *SceneRepo) AddEntry(ctx context.Context, entry models.SceneEntry) error {
	return addEntry(ctx, r.db, entry)
}

func addEntry(ctx context.Context, db execer, entry models.SceneEntry) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO scene_entry (id, scene_id, kind, ref_id, is_selected, position)
     VALUES ($1, $2, $3, $4, 0,
       (SELECT COALESCE(MAX(position), -1) + 1 FROM scene_entry WHERE scene_id = $2 AND kind = $3))
     ON CONFLICT DO NOTHING`,
		entry.ID, entry.SceneID, string(entry.Kind), entry.RefID)
	if err != nil {
		return fmt.Errorf("Error adding %s entry (%s) to scene (%s): %w", entry.Kind, entry.RefID, entry.SceneID, err)
	}
	return nil
}

func (r *SceneRepo) RemoveEntry(ctx context.Context, entryID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM scene_entry WHERE id = $1", entryID)
	if err != nil {
		return fmt.Errorf("Error removing scene entry (%s): %w", entryID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	return nil
}

const entryColumns = "id, scene_id, kind, ref_id, is_selected"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.SceneEntry, error) {
	entry := models.SceneEntry{}
	var kind string
	err := row.Scan(&entry.ID, &entry.SceneID, &kind, &entry.RefID, &entry.IsSelected)
	entry.Kind = models.EntryKind(kind)
	return entry, err
}

func (r *SceneRepo) GetEntry(ctx context.Context, entryID string) (models.SceneEntry, error) {
	entry, err := scanEntry(r.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM scene_entry WHERE id = $1", entryID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SceneEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	if err != nil {
		return models.SceneEntry{}, fmt.Errorf("Error reading scene entry (%s): %w", entryID, err)
	}
	return entry, nil
}

func (r *SceneRepo) ListEntries(ctx context.Context, sceneID string, kind models.EntryKind) ([]models.SceneEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM scene_entry WHERE scene_id = $1 AND kind = $2 ORDER BY position, id",
		sceneID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("Error listing %s entries for scene (%s): %w", kind, sceneID, err)
	}
	defer rows.Close()

	entries := []models.SceneEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("Error reading scene entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SelectedEntry returns the scene's selected entry of a kind, ok is false when none is selected
func (r *SceneRepo) SelectedEntry(ctx context.Context, sceneID string, kind models.EntryKind) (models.SceneEntry, bool, error) {
	entry, err := scanEntry(r.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM scene_entry WHERE scene_id = $1 AND kind = $2 AND is_selected = 1",
		sceneID, string(kind)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SceneEntry{}, false, nil
	}
	if err != nil {
		return models.SceneEntry{}, false, fmt.Errorf("Error reading selected %s for scene (%s): %w", kind, sceneID, err)
	}
	return entry, true, nil
}

// SetSelected clears the scene's current selection of the entry's kind and selects the entry,
// in one transaction
func (r *SceneRepo) SetSelected(ctx context.Context, sceneID string, kind models.EntryKind, entryID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setSelected(ctx, tx, sceneID, kind, entryID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Error selecting entry (%s): %w", entryID, err)
	}
	return nil
}

func setSelected(ctx context.Context, db execer, sceneID string, kind models.EntryKind, entryID string) error {
	_, err := db.ExecContext(ctx,
		"UPDATE scene_entry SET is_selected = 0 WHERE scene_id = $1 AND kind = $2 AND is_selected = 1",
		sceneID, string(kind))
	if err != nil {
		return fmt.Errorf("Error clearing selected %s for scene (%s): %w", kind, sceneID, err)
	}

	res, err := db.ExecContext(ctx,
		"UPDATE scene_entry SET is_selected = 1 WHERE id = $1 AND scene_id = $2 AND kind = $3",
		entryID, sceneID, string(kind))
	if err != nil {
		return fmt.Errorf("Error selecting entry (%s): %w", entryID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	return nil
}

// ImportScenes writes scene definitions from the config file. Tracks, light configs and
// attachments are added or updated, a selection the host has already made is kept.
func (r *SceneRepo) ImportScenes(ctx context.Context, defs []models.SceneDefinition, transition int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Error starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, def := range defs {
		if err := upsertScene(ctx, tx, models.Scene{ID: def.ID, Name: def.Name}); err != nil {
			return err
		}

		selectAudio := ""
		for _, a := range def.Audio {
			if err := upsertAudioTrack(ctx, tx, models.AudioTrack{ID: a.ID, Name: a.Name, URL: a.URL}); err != nil {
				return err
			}
			entryID := importedEntryID(def.ID, models.EntryKindAudio, a.ID)
			if err := addEntry(ctx, tx, models.SceneEntry{ID: entryID, SceneID: def.ID, Kind: models.EntryKindAudio, RefID: a.ID}); err != nil {
				return err
			}
			if a.Selected {
				selectAudio = entryID
			}
		}

		selectLight := ""
		for _, lc := range def.LightConfigs {
			patch, err := lc.BuildPatch(transition)
			if err != nil {
				return fmt.Errorf("Error building light config (%s): %w", lc.ID, err)
			}
			if err := upsertLightConfig(ctx, tx, models.LightConfig{ID: lc.ID, Name: lc.Name, Patch: patch}); err != nil {
				return err
			}
			entryID := importedEntryID(def.ID, models.EntryKindLight, lc.ID)
			if err := addEntry(ctx, tx, models.SceneEntry{ID: entryID, SceneID: def.ID, Kind: models.EntryKindLight, RefID: lc.ID}); err != nil {
				return err
			}
			if lc.Selected {
				selectLight = entryID
			}
		}

		for kind, entryID := range map[models.EntryKind]string{models.EntryKindAudio: selectAudio, models.EntryKindLight: selectLight} {
			if entryID == "" {
				continue
			}
			var selected int
			err := tx.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM scene_entry WHERE scene_id = $1 AND kind = $2 AND is_selected = 1",
				def.ID, string(kind)).Scan(&selected)
			if err != nil {
				return fmt.Errorf("Error reading selection for scene (%s): %w", def.ID, err)
			}
			if selected > 0 {
				continue
			}
			if err := setSelected(ctx, tx, def.ID, kind, entryID); err != nil {
				return err
			}
		}

		r.logger.Debug("imported scene", "id", def.ID, "audio", len(def.Audio), "lightConfigs", len(def.LightConfigs))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Error importing scenes: %w", err)
	}
	return nil
}

func importedEntryID(sceneID string, kind models.EntryKind, refID string) string {
	return uuid.NewSHA1(importNamespace, []byte(sceneID+"/"+string(kind)+"/"+refID)).String()
}
