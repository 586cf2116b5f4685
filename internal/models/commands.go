package models

import "github.com/samber/lo"

const (
	EffectNone      = "none"
	EffectColorLoop = "colorloop"
)

// LightCommand is one instruction for a light or a group, in the bridge's own field names.
// Nil fields are left untouched by the bridge.
type LightCommand struct {
	On             *bool   `json:"on,omitempty"`
	Bri            *int    `json:"bri,omitempty"`
	Hue            *int    `json:"hue,omitempty"`
	Sat            *int    `json:"sat,omitempty"`
	CT             *int    `json:"ct,omitempty"`
	Effect         *string `json:"effect,omitempty"`
	TransitionTime int     `json:"transitiontime"`
}

// LightConfigPatch addresses commands to lights and groups by id
type LightConfigPatch struct {
	Lights map[string]LightCommand `json:"lights,omitempty" mapstructure:"lights"`
	Groups map[string]LightCommand `json:"groups,omitempty" mapstructure:"groups"`
}

func PowerCommand(on bool, transition int) LightCommand {
	return LightCommand{On: lo.ToPtr(on), TransitionTime: transition}
}

// BrightnessCommand always carries on=true, the bridge ignores brightness for lights that are off
func BrightnessCommand(bri int, transition int) LightCommand {
	return LightCommand{
		On:             lo.ToPtr(true),
		Bri:            lo.ToPtr(ClampBrightness(bri)),
		TransitionTime: transition,
	}
}

// WithColor returns a copy of the command carrying the colour. Hue/saturation and colour
// temperature are mutually exclusive, setting one clears the other.
func (c LightCommand) WithColor(color ColorSpec) LightCommand {
	switch color.Mode {
	case ColorModeHS:
		c.Hue = lo.ToPtr(clampInt(color.Hue, 0, MaxHue))
		c.Sat = lo.ToPtr(clampInt(color.Saturation, 0, MaxSaturation))
		c.CT = nil
	case ColorModeCT:
		c.CT = lo.ToPtr(clampInt(color.Mirek, MinMirek, MaxMirek))
		c.Hue = nil
		c.Sat = nil
	}
	return c
}

func (c LightCommand) WithEffect(effect string) LightCommand {
	c.Effect = lo.ToPtr(effect)
	return c
}

// TurnsOn reports whether the command switches its target on
func (c LightCommand) TurnsOn() bool {
	return c.On != nil && *c.On
}

func (p LightConfigPatch) IsEmpty() bool {
	return len(p.Lights) == 0 && len(p.Groups) == 0
}

func LightPatch(id string, cmd LightCommand) LightConfigPatch {
	return LightConfigPatch{Lights: map[string]LightCommand{id: cmd}}
}

func GroupPatch(id string, cmd LightCommand) LightConfigPatch {
	return LightConfigPatch{Groups: map[string]LightCommand{id: cmd}}
}
