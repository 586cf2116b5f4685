package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	MaxHue        = 65535
	MaxSaturation = 254
	// 153 mirek = 6500K (cool), 500 mirek = 2000K (warm)
	MinMirek = 153
	MaxMirek = 500
)

var ErrInvalidColor = errors.New("color: invalid value")

type ColorMode int

const (
	ColorModeNone ColorMode = iota
	ColorModeHS
	ColorModeCT
)

func (m ColorMode) String() string {
	switch m {
	case ColorModeHS:
		return "hs"
	case ColorModeCT:
		return "ct"
	default:
		return "none"
	}
}

// ColorSpec is a colour in one of the two spaces the bridge accepts
type ColorSpec struct {
	Mode       ColorMode
	Hue        int
	Saturation int
	Mirek      int
}

func HueSat(hue, sat int) ColorSpec {
	return ColorSpec{Mode: ColorModeHS, Hue: clampInt(hue, 0, MaxHue), Saturation: clampInt(sat, 0, MaxSaturation)}
}

func Temperature(mirek int) ColorSpec {
	return ColorSpec{Mode: ColorModeCT, Mirek: clampInt(mirek, MinMirek, MaxMirek)}
}

// TemperatureFromKelvin converts a Kelvin value, mirek = 1,000,000 / K
func TemperatureFromKelvin(kelvin int) (ColorSpec, error) {
	if kelvin <= 0 {
		return ColorSpec{}, fmt.Errorf("%w: kelvin %d", ErrInvalidColor, kelvin)
	}
	return Temperature(int(math.Round(1e6 / float64(kelvin)))), nil
}

// ColorFromHex parses "#rrggbb" into hue/saturation. Brightness is a separate control so the
// HSV value component is dropped.
func ColorFromHex(hex string) (ColorSpec, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return ColorSpec{}, fmt.Errorf("%w: %s", ErrInvalidColor, hex)
	}
	return colorToSpec(c), nil
}

func ColorFromRGB(r, g, b uint8) ColorSpec {
	return colorToSpec(colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255})
}

func colorToSpec(c colorful.Color) ColorSpec {
	h, s, _ := c.Hsv()
	return HueSat(int(math.Round(h/360*MaxHue)), int(math.Round(s*MaxSaturation)))
}

// Hex renders the colour for display, colour temperatures use an approximate white point
func (c ColorSpec) Hex() string {
	switch c.Mode {
	case ColorModeHS:
		return colorful.Hsv(float64(c.Hue)/MaxHue*360, float64(c.Saturation)/MaxSaturation, 1).Clamped().Hex()
	case ColorModeCT:
		return mirekToColor(c.Mirek).Hex()
	default:
		return "#ffffff"
	}
}

// ColorOf reads the colour a light currently reports
func ColorOf(state LightState) ColorSpec {
	switch {
	case state.ColorMode == "ct" && state.ColorTemp != nil:
		return Temperature(*state.ColorTemp)
	case state.Hue != nil && state.Saturation != nil:
		return HueSat(*state.Hue, *state.Saturation)
	case state.ColorTemp != nil:
		return Temperature(*state.ColorTemp)
	}
	return ColorSpec{}
}

// based on Tanner Helland's temperature to RGB approximation
func mirekToColor(mirek int) colorful.Color {
	temp := 1e6 / float64(clampInt(mirek, MinMirek, MaxMirek)) / 100

	var r, g, b float64
	if temp <= 66 {
		r = 255
		g = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(temp-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}
	switch {
	case temp >= 66:
		b = 255
	case temp <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(temp-10) - 305.0447927307
	}

	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Clamped()
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
