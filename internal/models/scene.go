package models

const SourceTypeScene = "scene"

// SourceContext tags audio with whatever started it, so a scene can tell whether the
// track currently sounding is its own
type SourceContext struct {
	Type string
	ID   string
	Name string
}

func SceneSource(scene Scene) SourceContext {
	return SourceContext{Type: SourceTypeScene, ID: scene.ID, Name: scene.Name}
}

func (s SourceContext) IsScene(sceneID string) bool {
	return s.Type == SourceTypeScene && s.ID == sceneID
}

type Scene struct {
	ID       string
	Name     string
	IsActive bool
}

type AudioTrack struct {
	ID   string
	Name string
	URL  string
}

type LightConfig struct {
	ID    string
	Name  string
	Patch LightConfigPatch
}

type EntryKind string

const (
	EntryKindAudio EntryKind = "audio"
	EntryKindLight EntryKind = "light"
)

// SceneEntry attaches an audio track or light config to a scene. At most one entry per kind is
// selected for a scene, the one activation uses.
type SceneEntry struct {
	ID         string
	SceneID    string
	Kind       EntryKind
	RefID      string
	IsSelected bool
}

// SceneDefinition describes a scene and its attachments in the config file
type SceneDefinition struct {
	ID           string                  `mapstructure:"id"`
	Name         string                  `mapstructure:"name"`
	Audio        []AudioDefinition       `mapstructure:"audio"`
	LightConfigs []LightConfigDefinition `mapstructure:"lightConfigs"`
}

type AudioDefinition struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Selected bool   `mapstructure:"selected"`
}

type LightConfigDefinition struct {
	ID       string                  `mapstructure:"id"`
	Name     string                  `mapstructure:"name"`
	Selected bool                    `mapstructure:"selected"`
	Lights   map[string]LightCommand `mapstructure:"lights"`
	Groups   map[string]LightCommand `mapstructure:"groups"`
	// a named preset applied to every group listed in PresetGroups
	Preset       string   `mapstructure:"preset"`
	PresetGroups []string `mapstructure:"presetGroups"`
}

// BuildPatch merges the explicit commands with the preset, explicit commands win
func (d LightConfigDefinition) BuildPatch(transition int) (LightConfigPatch, error) {
	patch := LightConfigPatch{
		Lights: map[string]LightCommand{},
		Groups: map[string]LightCommand{},
	}
	if d.Preset != "" {
		preset, err := PresetByName(d.Preset)
		if err != nil {
			return LightConfigPatch{}, err
		}
		for _, groupID := range d.PresetGroups {
			patch.Groups[groupID] = preset.Command(transition)
		}
	}
	for id, cmd := range d.Lights {
		patch.Lights[id] = cmd
	}
	for id, cmd := range d.Groups {
		patch.Groups[id] = cmd
	}
	return patch, nil
}
