package hue

import (
	"strings"

	"github.com/wheelibin/ambience/internal/models"
)

type HueLightState struct {
	On        bool   `json:"on"`
	Bri       int    `json:"bri"`
	Hue       *int   `json:"hue"`
	Sat       *int   `json:"sat"`
	CT        *int   `json:"ct"`
	Effect    string `json:"effect"`
	ColorMode string `json:"colormode"`
	Reachable bool   `json:"reachable"`
}

type HueLight struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	State        HueLightState `json:"state"`
	Capabilities struct {
		Control struct {
			ColorGamut [][]float64 `json:"colorgamut"`
			CT         *struct {
				Min int `json:"min"`
				Max int `json:"max"`
			} `json:"ct"`
		} `json:"control"`
	} `json:"capabilities"`
}

type HueGroup struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Lights []string `json:"lights"`
	State  struct {
		AllOn bool `json:"all_on"`
		AnyOn bool `json:"any_on"`
	} `json:"state"`
}

// keyed by the bridge's resource id
type LightsResponse map[string]HueLight
type GroupsResponse map[string]HueGroup

func (l HueLight) toModel(id string) models.Light {
	caps := models.Capabilities{
		Color:     len(l.Capabilities.Control.ColorGamut) > 0 || (l.State.Hue != nil && l.State.Sat != nil),
		ColorTemp: l.Capabilities.Control.CT != nil || l.State.CT != nil,
	}
	// older firmware omits capabilities, fall back to the advertised type
	if !caps.Color && strings.Contains(strings.ToLower(l.Type), "color light") && !strings.Contains(strings.ToLower(l.Type), "temperature") {
		caps.Color = true
	}

	effect := l.State.Effect
	if effect == "" {
		effect = models.EffectNone
	}

	return models.Light{
		ID:           id,
		Name:         l.Name,
		Type:         l.Type,
		Capabilities: caps,
		Reachable:    l.State.Reachable,
		State: models.LightState{
			On:         l.State.On,
			Brightness: models.ClampBrightness(l.State.Bri),
			Hue:        l.State.Hue,
			Saturation: l.State.Sat,
			ColorTemp:  l.State.CT,
			Effect:     effect,
			ColorMode:  l.State.ColorMode,
		},
	}
}

func (g HueGroup) isRoomOrZone() bool {
	return g.Type == "Room" || g.Type == "Zone"
}

func (g HueGroup) toModel(id string) models.Room {
	return models.Room{
		ID:       id,
		Name:     g.Name,
		Type:     g.Type,
		LightIDs: append([]string{}, g.Lights...),
	}
}
