package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/wheelibin/ambience/internal/audio"
	devicestatestore "github.com/wheelibin/ambience/internal/deviceStateStore"
	"github.com/wheelibin/ambience/internal/models"
	"github.com/wheelibin/ambience/internal/reconciler"
	sceneactivation "github.com/wheelibin/ambience/internal/sceneActivation"
)

// keyboard nudges move brightness by this many percent
const brightnessStep = 10

var palette = []models.ColorSpec{
	models.Temperature(370),
	models.HueSat(0, 254),
	models.HueSat(6000, 254),
	models.HueSat(25500, 254),
	models.HueSat(46920, 254),
	models.HueSat(50000, 200),
}

type store interface {
	Snapshot() devicestatestore.Snapshot
	Subscribe(fn func(devicestatestore.Snapshot)) func()
}

type engine interface {
	MountRoom(roomID string) *reconciler.Control
	MountLightInRoom(lightID string, roomID string) *reconciler.Control
	MountLight(lightID string) *reconciler.Control
}

type sceneRepo interface {
	ListScenes(ctx context.Context) ([]models.Scene, error)
	GetAudioTrack(ctx context.Context, id string) (models.AudioTrack, error)
	GetLightConfig(ctx context.Context, id string) (models.LightConfig, error)
}

type selection interface {
	Entries(ctx context.Context, sceneID string, kind models.EntryKind) ([]models.SceneEntry, error)
	SetSelected(ctx context.Context, kind models.EntryKind, sceneID string, entryID string) error
}

type coordinator interface {
	Toggle(ctx context.Context, sceneID string) (sceneactivation.Result, error)
	IsPlaying(scene models.Scene) bool
	HasSelection(ctx context.Context, sceneID string) (bool, error)
	PlayAudioEntry(ctx context.Context, sceneID string, entryID string) error
	ApplyLightEntry(ctx context.Context, sceneID string, entryID string) error
}

type player interface {
	OnChange(fn func(audio.State))
	TogglePlay() error
}

// Deps are the services the dashboard drives
type Deps struct {
	Store       store
	Engine      engine
	Scenes      sceneRepo
	Selection   selection
	Coordinator coordinator
	Player      player
	// asks for a bridge fetch
	Refresh func()
}

type pane int

const (
	paneLights pane = iota
	paneScenes
)

type lightRow struct {
	name      string
	room      bool
	reachable bool
	// hex colour the light reports, empty for rooms and lights without colour
	color string
	// nil for section headings
	control *reconciler.Control
}

type sceneRow struct {
	scene        models.Scene
	hasSelection bool
	// nil for the scene's own row
	entry *models.SceneEntry
	label string
}

type storeUpdatedMsg struct{}
type controlChangedMsg struct{}
type playerChangedMsg struct{}

type scenesLoadedMsg struct {
	rows []sceneRow
}

type actionDoneMsg struct {
	status string
	err    error
}

type errMsg struct {
	err error
}

type Model struct {
	ctx         context.Context
	logger      *log.Logger
	deps        Deps
	keys        keyMap
	help        help.Model
	events      chan tea.Msg
	unsubscribe func()

	focus       pane
	lights      []lightRow
	controls    map[string]*reconciler.Control
	lightCursor int
	scenes      []sceneRow
	sceneCursor int
	colorIndex  int

	status string
	err    error
	width  int
}

func NewModel(ctx context.Context, logger *log.Logger, deps Deps) Model {
	events := make(chan tea.Msg, 64)
	m := Model{
		ctx:      ctx,
		logger:   logger,
		deps:     deps,
		keys:     defaultKeyMap(),
		help:     help.New(),
		events:   events,
		controls: map[string]*reconciler.Control{},
	}

	m.unsubscribe = deps.Store.Subscribe(func(devicestatestore.Snapshot) {
		notify(events, storeUpdatedMsg{})
	})
	deps.Player.OnChange(func(audio.State) {
		notify(events, playerChangedMsg{})
	})
	m.syncControls(deps.Store.Snapshot())

	return m
}

// Run shows the dashboard until the user quits or ctx is done
func Run(ctx context.Context, logger *log.Logger, deps Deps) error {
	m := NewModel(ctx, logger, deps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close unmounts every control
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	for id, c := range m.controls {
		c.Close()
		delete(m.controls, id)
	}
}

// notify never blocks, a full queue already holds a redraw
func notify(events chan<- tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	default:
	}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("ambience"),
		waitForEvent(m.events),
		m.loadScenesCmd(),
	)
}

func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case storeUpdatedMsg:
		m.syncControls(m.deps.Store.Snapshot())
		return m, waitForEvent(m.events)

	case controlChangedMsg, playerChangedMsg:
		return m, waitForEvent(m.events)

	case scenesLoadedMsg:
		m.scenes = msg.rows
		m.sceneCursor = clampCursor(m.sceneCursor, len(m.scenes))

	case actionDoneMsg:
		m.status = msg.status
		m.err = msg.err
		if msg.err != nil {
			m.logger.Error("scene action failed", "err", msg.err)
		}
		return m, m.loadScenesCmd()

	case errMsg:
		m.logger.Error(msg.err)
		m.err = msg.err

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Switch):
		if m.focus == paneLights {
			m.focus = paneScenes
		} else {
			m.focus = paneLights
		}

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Refresh):
		if m.deps.Refresh != nil {
			m.deps.Refresh()
		}
		m.status = "refreshing"
		return m, m.loadScenesCmd()

	case key.Matches(msg, m.keys.PlayPause):
		m.err = m.deps.Player.TogglePlay()

	default:
		if m.focus == paneLights {
			m.handleLightKey(msg)
			return m, nil
		}
		cmd := m.handleSceneKey(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleLightKey(msg tea.KeyMsg) {
	if m.lightCursor >= len(m.lights) {
		return
	}
	c := m.lights[m.lightCursor].control
	if c == nil {
		return
	}

	var err error
	switch {
	case key.Matches(msg, m.keys.Power):
		err = c.TogglePower()

	case key.Matches(msg, m.keys.Dimmer):
		err = c.SetBrightness(models.BrightnessFromPercent(c.Shadow().Percent() - brightnessStep))

	case key.Matches(msg, m.keys.Brighter):
		err = c.SetBrightness(models.BrightnessFromPercent(c.Shadow().Percent() + brightnessStep))

	case key.Matches(msg, m.keys.Preset):
		i := int(msg.String()[0] - '1')
		if i < len(models.Presets) {
			err = c.ApplyPreset(models.Presets[i])
			m.status = models.Presets[i].Name
		}

	case key.Matches(msg, m.keys.Color):
		m.colorIndex = (m.colorIndex + 1) % len(palette)
		err = c.SetColor(palette[m.colorIndex])

	case key.Matches(msg, m.keys.Effect):
		err = c.SetEffect(models.EffectColorLoop)

	case key.Matches(msg, m.keys.NoEffect):
		err = c.SetEffect(models.EffectNone)
	}
	m.err = err
}

func (m *Model) handleSceneKey(msg tea.KeyMsg) tea.Cmd {
	if m.sceneCursor >= len(m.scenes) {
		return nil
	}
	row := m.scenes[m.sceneCursor]

	switch {
	case key.Matches(msg, m.keys.Activate), key.Matches(msg, m.keys.Power):
		if row.entry == nil {
			if !row.hasSelection {
				m.status = fmt.Sprintf("%s has nothing selected", row.scene.Name)
				return nil
			}
			return m.toggleSceneCmd(row.scene)
		}
		return m.useEntryCmd(row)

	case key.Matches(msg, m.keys.Select):
		if row.entry != nil && !row.entry.IsSelected {
			return m.selectEntryCmd(row)
		}
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	if m.focus == paneLights {
		m.lightCursor = clampCursor(m.lightCursor+delta, len(m.lights))
		return
	}
	m.sceneCursor = clampCursor(m.sceneCursor+delta, len(m.scenes))
}

func clampCursor(cursor int, length int) int {
	if cursor >= length {
		cursor = length - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// syncControls mounts a control for every room, every light in it and every light outside a room,
// and unmounts controls whose target has gone
func (m *Model) syncControls(snap devicestatestore.Snapshot) {
	seen := map[string]bool{}
	events := m.events
	control := func(id string, mount func() *reconciler.Control) *reconciler.Control {
		seen[id] = true
		if c, ok := m.controls[id]; ok {
			return c
		}
		c := mount()
		c.OnChange(func(reconciler.Shadow) {
			notify(events, controlChangedMsg{})
		})
		m.controls[id] = c
		return c
	}

	rows := []lightRow{}
	inRoom := map[string]bool{}
	for _, room := range snap.Rooms() {
		roomID := room.ID
		rows = append(rows, lightRow{
			name:      room.Name,
			room:      true,
			reachable: true,
			control:   control(roomID, func() *reconciler.Control { return m.deps.Engine.MountRoom(roomID) }),
		})
		for _, light := range snap.RoomLights(roomID) {
			lightID := light.ID
			inRoom[lightID] = true
			rows = append(rows, lightRow{
				name:      light.Name,
				reachable: light.Reachable,
				color:     swatchColor(light),
				control: control(roomID+"/"+lightID, func() *reconciler.Control {
					return m.deps.Engine.MountLightInRoom(lightID, roomID)
				}),
			})
		}
	}

	loose := lo.Filter(snap.Lights(), func(l models.Light, _ int) bool { return !inRoom[l.ID] })
	if len(loose) > 0 {
		rows = append(rows, lightRow{name: "Other lights"})
		for _, light := range loose {
			lightID := light.ID
			rows = append(rows, lightRow{
				name:      light.Name,
				reachable: light.Reachable,
				color:     swatchColor(light),
				control:   control("/"+lightID, func() *reconciler.Control { return m.deps.Engine.MountLight(lightID) }),
			})
		}
	}

	for id, c := range m.controls {
		if !seen[id] {
			c.Close()
			delete(m.controls, id)
		}
	}

	m.lights = rows
	m.lightCursor = clampCursor(m.lightCursor, len(m.lights))
}

func (m Model) loadScenesCmd() tea.Cmd {
	ctx, deps := m.ctx, m.deps
	return func() tea.Msg {
		rows, err := loadSceneRows(ctx, deps)
		if err != nil {
			return errMsg{err: err}
		}
		return scenesLoadedMsg{rows: rows}
	}
}

func loadSceneRows(ctx context.Context, deps Deps) ([]sceneRow, error) {
	scenes, err := deps.Scenes.ListScenes(ctx)
	if err != nil {
		return nil, err
	}

	rows := []sceneRow{}
	for _, scene := range scenes {
		hasSelection, err := deps.Coordinator.HasSelection(ctx, scene.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, sceneRow{scene: scene, hasSelection: hasSelection})

		for _, kind := range []models.EntryKind{models.EntryKindAudio, models.EntryKindLight} {
			entries, err := deps.Selection.Entries(ctx, scene.ID, kind)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				rows = append(rows, sceneRow{
					scene:        scene,
					hasSelection: hasSelection,
					entry:        lo.ToPtr(entry),
					label:        entryLabel(ctx, deps, entry),
				})
			}
		}
	}
	return rows, nil
}

func entryLabel(ctx context.Context, deps Deps, entry models.SceneEntry) string {
	switch entry.Kind {
	case models.EntryKindAudio:
		if track, err := deps.Scenes.GetAudioTrack(ctx, entry.RefID); err == nil {
			return track.Name
		}
	case models.EntryKindLight:
		if config, err := deps.Scenes.GetLightConfig(ctx, entry.RefID); err == nil {
			return config.Name
		}
	}
	return entry.RefID
}

func (m Model) toggleSceneCmd(scene models.Scene) tea.Cmd {
	ctx, coordinator := m.ctx, m.deps.Coordinator
	return func() tea.Msg {
		result, err := coordinator.Toggle(ctx, scene.ID)
		if result.AudioStarted || result.LightsApplied {
			return actionDoneMsg{status: fmt.Sprintf("%s started", scene.Name), err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("%s stopped", scene.Name), err: err}
	}
}

func (m Model) useEntryCmd(row sceneRow) tea.Cmd {
	ctx, coordinator := m.ctx, m.deps.Coordinator
	return func() tea.Msg {
		var err error
		if row.entry.Kind == models.EntryKindAudio {
			err = coordinator.PlayAudioEntry(ctx, row.scene.ID, row.entry.ID)
		} else {
			err = coordinator.ApplyLightEntry(ctx, row.scene.ID, row.entry.ID)
		}
		return actionDoneMsg{status: row.label, err: err}
	}
}

func (m Model) selectEntryCmd(row sceneRow) tea.Cmd {
	ctx, selection := m.ctx, m.deps.Selection
	return func() tea.Msg {
		err := selection.SetSelected(ctx, row.entry.Kind, row.scene.ID, row.entry.ID)
		return actionDoneMsg{status: fmt.Sprintf("%s selected", row.label), err: err}
	}
}
