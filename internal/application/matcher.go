package application

import (
	"strings"

	"home-command/internal/domain"
)

// Criteria is the targeting part of a tool call's arguments. All fields are
// optional; an empty Criteria matches every device of the requested type.
type Criteria struct {
	Room       string
	Area       string
	DeviceName string
}

func (c Criteria) empty() bool {
	return c.Room == "" && c.Area == "" && c.DeviceName == ""
}

// Describe names the narrowest filter present, for "nothing matched" messages.
func (c Criteria) Describe() string {
	switch {
	case c.DeviceName != "":
		return "named '" + c.DeviceName + "'"
	case c.Room != "":
		return "in '" + c.Room + "'"
	case c.Area != "":
		return "in the '" + c.Area + "' area"
	default:
		return ""
	}
}

// MatchLights resolves criteria to the concrete set of lights a command acts
// on. An empty result is a normal "nothing to do" outcome, not an error, and
// ambiguous name matches are returned in full: narrowing is the caller's job.
func MatchLights(dir *domain.Directory, c Criteria) []domain.Light {
	return matchDevices(dir, c, dir.Lights,
		func(l domain.Light) string { return l.Name },
		func(l domain.Light) string { return l.RoomID })
}

func MatchThermostats(dir *domain.Directory, c Criteria) []domain.Thermostat {
	return matchDevices(dir, c, dir.Thermostats,
		func(t domain.Thermostat) string { return t.Name },
		func(t domain.Thermostat) string { return t.RoomID })
}

// MatchMediaRooms matches against the media room's own name as well as its
// containing room's name, since users address media zones by room.
func MatchMediaRooms(dir *domain.Directory, c Criteria) []domain.MediaRoom {
	matched := matchDevices(dir, c, dir.MediaRooms,
		func(m domain.MediaRoom) string { return m.Name },
		func(m domain.MediaRoom) string { return m.RoomID })
	if len(matched) > 0 || c.Room == "" {
		return matched
	}
	// Fall back to name-matching the room criterion against zone names.
	for _, m := range dir.MediaRooms {
		if nameMatches(m.Name, c.Room) {
			matched = append(matched, m)
		}
	}
	return matched
}

// MatchScene resolves a scene by name, optionally scoped to a room.
func MatchScene(dir *domain.Directory, sceneName, room string) (domain.Scene, bool) {
	roomIDs := map[string]struct{}{}
	if room != "" {
		roomIDs = resolveRoomName(dir, room)
	}
	for _, s := range dir.Scenes {
		if !nameMatches(s.Name, sceneName) {
			continue
		}
		if room != "" {
			if _, ok := roomIDs[s.RoomID]; !ok {
				continue
			}
		}
		return s, true
	}
	return domain.Scene{}, false
}

func matchDevices[T any](dir *domain.Directory, c Criteria, devices []T, name, roomID func(T) string) []T {
	if c.empty() {
		return append([]T(nil), devices...)
	}

	var roomIDs map[string]struct{}
	if c.Room != "" {
		roomIDs = resolveRoomName(dir, c.Room)
	} else if c.Area != "" {
		roomIDs = resolveAreaName(dir, c.Area)
	}

	var matched []T
	for _, d := range devices {
		if c.DeviceName != "" {
			if !nameMatches(name(d), c.DeviceName) {
				continue
			}
			// Room/area further narrow a name match when also given.
			if roomIDs != nil {
				if _, ok := roomIDs[roomID(d)]; !ok {
					continue
				}
			}
			matched = append(matched, d)
			continue
		}
		if _, ok := roomIDs[roomID(d)]; ok {
			matched = append(matched, d)
		}
	}
	return matched
}

// resolveRoomName maps a room name to the set of room ids it addresses. A
// merged room expands to its source rooms. No match yields an empty set.
func resolveRoomName(dir *domain.Directory, room string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, r := range dir.Rooms {
		if nameMatches(r.Name, room) {
			ids[r.ID] = struct{}{}
		}
	}
	for _, m := range dir.MergedRooms {
		if nameMatches(m.Name, room) {
			for _, id := range m.SourceRoomIDs {
				ids[id] = struct{}{}
			}
		}
	}
	return ids
}

func resolveAreaName(dir *domain.Directory, area string) map[string]struct{} {
	areaIDs := make(map[string]struct{})
	for _, a := range dir.Areas {
		if nameMatches(a.Name, area) {
			areaIDs[a.ID] = struct{}{}
		}
	}
	ids := make(map[string]struct{})
	for _, r := range dir.Rooms {
		if _, ok := areaIDs[r.AreaID]; ok {
			ids[r.ID] = struct{}{}
		}
	}
	return ids
}

func nameMatches(name, query string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(strings.TrimSpace(query)))
}
