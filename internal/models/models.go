package models

import (
	"math"
	"time"
)

const (
	MinBrightness = 1
	MaxBrightness = 254
)

type Capabilities struct {
	// hue + saturation
	Color bool
	// colour temperature (mirek)
	ColorTemp bool
}

// LightState is the state the bridge last reported for a light
type LightState struct {
	On         bool
	Brightness int
	Hue        *int
	Saturation *int
	ColorTemp  *int
	Effect     string
	ColorMode  string
}

type Light struct {
	ID           string
	Name         string
	Type         string
	Capabilities Capabilities
	Reachable    bool
	State        LightState
}

// represents a named group of lights (i.e a room or zone)
type Room struct {
	ID   string
	Name string
	Type string
	// light ids in the order the bridge lists them
	LightIDs []string
}

// ClampBrightness keeps a brightness inside the range the bridge accepts for a light that is on
func ClampBrightness(bri int) int {
	if bri < MinBrightness {
		return MinBrightness
	}
	if bri > MaxBrightness {
		return MaxBrightness
	}
	return bri
}

// BrightnessPercent converts a bridge brightness to the percentage shown to the host
func BrightnessPercent(bri int) int {
	return int(math.Round(float64(bri) / MaxBrightness * 100))
}

// BrightnessFromPercent is the inverse of BrightnessPercent, clamped to a valid brightness
func BrightnessFromPercent(pct int) int {
	return ClampBrightness(int(math.Round(float64(pct) / 100 * MaxBrightness)))
}

// an event received from the event stream
type Event struct {
	CreationTime time.Time   `json:"creationtime"`
	Data         []EventData `json:"data"`
	Type         string      `json:"type"`
}

type EventData struct {
	Id    string `json:"id"`
	IdV1  string `json:"id_v1"`
	Type  string `json:"type"`
	Owner *struct {
		RID   string `json:"rid"`
		RType string `json:"rtype"`
	} `json:"owner"`
	On *struct {
		On bool `json:"on"`
	} `json:"on"`
	Dimming *struct {
		Brightness float64 `json:"brightness"`
	} `json:"dimming"`
	Status string `json:"status"`
}
