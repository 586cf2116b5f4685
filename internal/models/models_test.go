package models_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/ambience/internal/models"
)

func Test_Brightness(t *testing.T) {

	t.Run("should clamp to the range the bridge accepts", func(t *testing.T) {
		assert.Equal(t, 1, models.ClampBrightness(0))
		assert.Equal(t, 1, models.ClampBrightness(-20))
		assert.Equal(t, 128, models.ClampBrightness(128))
		assert.Equal(t, 254, models.ClampBrightness(300))
	})

	t.Run("should convert to and from percent", func(t *testing.T) {
		assert.Equal(t, 4, models.BrightnessPercent(10))
		assert.Equal(t, 50, models.BrightnessPercent(127))
		assert.Equal(t, 100, models.BrightnessPercent(254))
		assert.Equal(t, 127, models.BrightnessFromPercent(50))
		assert.Equal(t, 1, models.BrightnessFromPercent(0))
		assert.Equal(t, 254, models.BrightnessFromPercent(120))
	})
}

func Test_LightCommand(t *testing.T) {

	t.Run("should always switch on with a brightness", func(t *testing.T) {
		// act
		cmd := models.BrightnessCommand(400, 4)

		// assert
		assert.True(t, cmd.TurnsOn())
		assert.Equal(t, 254, *cmd.Bri)
		assert.Equal(t, 4, cmd.TransitionTime)
	})

	t.Run("should keep hue/saturation and temperature exclusive", func(t *testing.T) {
		// arrange
		cmd := models.BrightnessCommand(100, 4).WithColor(models.Temperature(300))

		// act
		cmd = cmd.WithColor(models.HueSat(1000, 200))

		// assert
		assert.Nil(t, cmd.CT)
		assert.Equal(t, 1000, *cmd.Hue)
		assert.Equal(t, 200, *cmd.Sat)

		cmd = cmd.WithColor(models.Temperature(300))
		assert.Nil(t, cmd.Hue)
		assert.Nil(t, cmd.Sat)
		assert.Equal(t, 300, *cmd.CT)
	})

	t.Run("should address lights and groups by id", func(t *testing.T) {
		light := models.LightPatch("3", models.PowerCommand(false, 0))
		group := models.GroupPatch("1", models.PowerCommand(true, 0))

		assert.False(t, light.Lights["3"].TurnsOn())
		assert.Empty(t, light.Groups)
		assert.True(t, group.Groups["1"].TurnsOn())
		assert.True(t, models.LightConfigPatch{}.IsEmpty())
		assert.False(t, group.IsEmpty())
	})
}

func Test_Color(t *testing.T) {

	t.Run("should parse hex into hue and saturation", func(t *testing.T) {
		// act
		red, err := models.ColorFromHex("#ff0000")
		require.NoError(t, err)
		blue := models.ColorFromRGB(0, 0, 255)

		// assert
		assert.Equal(t, models.ColorModeHS, red.Mode)
		assert.Equal(t, 0, red.Hue)
		assert.Equal(t, 254, red.Saturation)
		assert.Equal(t, 43690, blue.Hue)
	})

	t.Run("should reject bad input", func(t *testing.T) {
		_, err := models.ColorFromHex("not a colour")
		assert.ErrorIs(t, err, models.ErrInvalidColor)

		_, err = models.TemperatureFromKelvin(0)
		assert.ErrorIs(t, err, models.ErrInvalidColor)
	})

	t.Run("should convert kelvin to mirek inside the supported range", func(t *testing.T) {
		warm, err := models.TemperatureFromKelvin(2700)
		require.NoError(t, err)
		tooCool, err := models.TemperatureFromKelvin(10000)
		require.NoError(t, err)

		assert.Equal(t, 370, warm.Mirek)
		assert.Equal(t, models.MinMirek, tooCool.Mirek)
	})

	t.Run("should read the colour a light reports", func(t *testing.T) {
		ct := models.ColorOf(models.LightState{ColorMode: "ct", ColorTemp: lo.ToPtr(400), Hue: lo.ToPtr(100), Saturation: lo.ToPtr(100)})
		hs := models.ColorOf(models.LightState{ColorMode: "hs", ColorTemp: lo.ToPtr(400), Hue: lo.ToPtr(100), Saturation: lo.ToPtr(100)})
		none := models.ColorOf(models.LightState{})

		assert.Equal(t, models.Temperature(400), ct)
		assert.Equal(t, models.HueSat(100, 100), hs)
		assert.Equal(t, models.ColorModeNone, none.Mode)
	})

	t.Run("should render a display colour", func(t *testing.T) {
		assert.Equal(t, "#ff0000", models.HueSat(0, 254).Hex())
		assert.Equal(t, "#ffffff", models.ColorSpec{}.Hex())
	})
}

func Test_Presets(t *testing.T) {

	t.Run("should find presets by name ignoring case", func(t *testing.T) {
		p, err := models.PresetByName("Candlelight")
		require.NoError(t, err)
		assert.Equal(t, "candlelight", p.Name)

		_, err = models.PresetByName("disco")
		assert.Error(t, err)
	})

	t.Run("should build one command with brightness, colour and effect", func(t *testing.T) {
		// arrange
		p, err := models.PresetByName("arcane")
		require.NoError(t, err)

		// act
		cmd := p.Command(4)

		// assert
		assert.True(t, cmd.TurnsOn())
		assert.Equal(t, 180, *cmd.Bri)
		assert.Equal(t, 50000, *cmd.Hue)
		assert.Equal(t, models.EffectColorLoop, *cmd.Effect)
	})

	t.Run("should merge a config definition with explicit commands winning", func(t *testing.T) {
		// arrange
		def := models.LightConfigDefinition{
			Preset:       "candlelight",
			PresetGroups: []string{"1", "2"},
			Groups:       map[string]models.LightCommand{"2": models.PowerCommand(false, 4)},
			Lights:       map[string]models.LightCommand{"7": models.BrightnessCommand(30, 4)},
		}

		// act
		patch, err := def.BuildPatch(4)

		// assert
		require.NoError(t, err)
		assert.Equal(t, 90, *patch.Groups["1"].Bri)
		assert.False(t, patch.Groups["2"].TurnsOn())
		assert.Equal(t, 30, *patch.Lights["7"].Bri)
	})
}
