package reconciler

import (
	devicestatestore "github.com/wheelibin/ambience/internal/deviceStateStore"
	"github.com/wheelibin/ambience/internal/models"
)

// Derived is the display state a target reads from the store
type Derived struct {
	On         bool
	Brightness int
	Mixed      bool
	Color      bool
	ColorTemp  bool
}

// Target is what a control commands and how it reads itself back from the store
type Target interface {
	Key() string
	Patch(cmd models.LightCommand) models.LightConfigPatch
	Derive(snap devicestatestore.Snapshot) (Derived, bool)
	// FollowsBrightness is false when only explicit edits may move the brightness after the first load
	FollowsBrightness() bool
	// ActiveRoom is the room whose active flag is set when this control powers on. clearOnOff
	// means powering off clears it as well.
	ActiveRoom() (roomID string, clearOnOff bool)
}

type lightTarget struct {
	id string
}

func Light(id string) Target {
	return lightTarget{id: id}
}

func (t lightTarget) Key() string { return "light:" + t.id }

func (t lightTarget) Patch(cmd models.LightCommand) models.LightConfigPatch {
	return models.LightPatch(t.id, cmd)
}

func (t lightTarget) Derive(snap devicestatestore.Snapshot) (Derived, bool) {
	l, ok := snap.Light(t.id)
	if !ok {
		return Derived{}, false
	}
	return Derived{
		On:         l.State.On,
		Brightness: l.State.Brightness,
		Color:      l.Capabilities.Color,
		ColorTemp:  l.Capabilities.ColorTemp,
	}, true
}

func (t lightTarget) FollowsBrightness() bool { return true }

func (t lightTarget) ActiveRoom() (string, bool) { return "", false }

type lightInRoomTarget struct {
	lightTarget
	roomID string
}

// LightInRoom is a single light shown inside its room, powering it on marks the room active
func LightInRoom(id string, roomID string) Target {
	return lightInRoomTarget{lightTarget: lightTarget{id: id}, roomID: roomID}
}

func (t lightInRoomTarget) Key() string { return "room:" + t.roomID + "/light:" + t.id }

func (t lightInRoomTarget) ActiveRoom() (string, bool) { return t.roomID, false }

type roomTarget struct {
	id        string
	tolerance int
}

// Room controls every member of a room with one group command
func Room(id string, tolerance int) Target {
	return roomTarget{id: id, tolerance: tolerance}
}

func (t roomTarget) Key() string { return "room:" + t.id }

func (t roomTarget) Patch(cmd models.LightCommand) models.LightConfigPatch {
	return models.GroupPatch(t.id, cmd)
}

func (t roomTarget) Derive(snap devicestatestore.Snapshot) (Derived, bool) {
	agg, ok := snap.Aggregate(t.id, t.tolerance)
	if !ok {
		return Derived{}, false
	}
	return Derived{
		On:         agg.On,
		Brightness: agg.Brightness,
		Mixed:      agg.Mixed,
		Color:      agg.Color,
		ColorTemp:  agg.ColorTemp,
	}, true
}

// a member light changing must not move the room slider the host is not touching
func (t roomTarget) FollowsBrightness() bool { return false }

func (t roomTarget) ActiveRoom() (string, bool) { return t.id, true }
