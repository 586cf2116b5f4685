package devicestatestore

import (
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/wheelibin/ambience/internal/models"
)

// Snapshot is one complete fetch result. It is never modified once built, a refresh
// replaces it as a whole.
type Snapshot struct {
	FetchedAt time.Time

	lights   map[string]models.Light
	rooms    map[string]models.Room
	lightIDs []string
	roomIDs  []string
}

// RoomAggregate is the derived on/brightness of a room, rooms have no state of their own
type RoomAggregate struct {
	On         bool
	Brightness int
	// members that are on differ by more than the tolerance
	Mixed     bool
	Color     bool
	ColorTemp bool
	Members   int
	MembersOn int
}

func NewSnapshot(lights []models.Light, rooms []models.Room, fetchedAt time.Time) Snapshot {
	return Snapshot{
		FetchedAt: fetchedAt,
		lights:    lo.KeyBy(lights, func(l models.Light) string { return l.ID }),
		rooms:     lo.KeyBy(rooms, func(r models.Room) string { return r.ID }),
		lightIDs:  lo.Map(lights, func(l models.Light, _ int) string { return l.ID }),
		roomIDs:   lo.Map(rooms, func(r models.Room, _ int) string { return r.ID }),
	}
}

// IsEmpty is true until the first successful fetch
func (s Snapshot) IsEmpty() bool {
	return s.FetchedAt.IsZero()
}

func (s Snapshot) Light(id string) (models.Light, bool) {
	l, ok := s.lights[id]
	return l, ok
}

func (s Snapshot) Room(id string) (models.Room, bool) {
	r, ok := s.rooms[id]
	return r, ok
}

// Lights returns every light in the order the bridge listed them
func (s Snapshot) Lights() []models.Light {
	return lo.Map(s.lightIDs, func(id string, _ int) models.Light { return s.lights[id] })
}

func (s Snapshot) Rooms() []models.Room {
	return lo.Map(s.roomIDs, func(id string, _ int) models.Room { return s.rooms[id] })
}

// RoomLights returns the room's members, skipping ids the bridge no longer reports
func (s Snapshot) RoomLights(roomID string) []models.Light {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	return lo.FilterMap(room.LightIDs, func(id string, _ int) (models.Light, bool) {
		l, ok := s.lights[id]
		return l, ok
	})
}

// AnyOn reports whether any member of the room is on
func (s Snapshot) AnyOn(roomID string) bool {
	return lo.SomeBy(s.RoomLights(roomID), func(l models.Light) bool { return l.State.On })
}

// Aggregate derives the room's display state. Brightness is the average of the members that
// are on, or of all members when none are.
func (s Snapshot) Aggregate(roomID string, tolerance int) (RoomAggregate, bool) {
	if _, ok := s.rooms[roomID]; !ok {
		return RoomAggregate{}, false
	}

	members := s.RoomLights(roomID)
	agg := RoomAggregate{
		Brightness: models.MinBrightness,
		Members:    len(members),
		Color:      lo.SomeBy(members, func(l models.Light) bool { return l.Capabilities.Color }),
		ColorTemp:  lo.SomeBy(members, func(l models.Light) bool { return l.Capabilities.ColorTemp }),
	}
	if len(members) == 0 {
		return agg, true
	}

	on := lo.Filter(members, func(l models.Light, _ int) bool { return l.State.On })
	agg.On = len(on) > 0
	agg.MembersOn = len(on)

	counted := on
	if len(counted) == 0 {
		counted = members
	}
	bris := lo.Map(counted, func(l models.Light, _ int) int { return l.State.Brightness })
	agg.Brightness = models.ClampBrightness(int(math.Round(float64(lo.Sum(bris)) / float64(len(bris)))))

	if len(on) > 1 {
		agg.Mixed = lo.Max(bris)-lo.Min(bris) > tolerance
	}

	return agg, true
}
