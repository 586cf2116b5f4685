package models

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Preset is a named lighting mood that can be pushed to a light or room in one command
type Preset struct {
	Name       string
	Brightness int
	Color      ColorSpec
	Effect     string
}

var Presets = []Preset{
	{Name: "candlelight", Brightness: 90, Color: Temperature(500), Effect: EffectNone},
	{Name: "torchlight", Brightness: 160, Color: HueSat(5000, 235), Effect: EffectNone},
	{Name: "hearth", Brightness: 140, Color: HueSat(3500, 254), Effect: EffectNone},
	{Name: "moonlight", Brightness: 60, Color: HueSat(43000, 140), Effect: EffectNone},
	{Name: "storm", Brightness: 40, Color: HueSat(46000, 200), Effect: EffectNone},
	{Name: "arcane", Brightness: 180, Color: HueSat(50000, 254), Effect: EffectColorLoop},
	{Name: "daylight", Brightness: 254, Color: Temperature(200), Effect: EffectNone},
}

func PresetByName(name string) (Preset, error) {
	p, ok := lo.Find(Presets, func(p Preset) bool { return strings.EqualFold(p.Name, name) })
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// Command builds the single command that applies the preset
func (p Preset) Command(transition int) LightCommand {
	cmd := BrightnessCommand(p.Brightness, transition).WithColor(p.Color)
	if p.Effect != "" {
		cmd = cmd.WithEffect(p.Effect)
	}
	return cmd
}
