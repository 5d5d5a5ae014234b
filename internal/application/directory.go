package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"home-command/internal/domain"
)

// DirectoryBuilder fetches all device/room/area state at the start of a turn
// and canonicalizes the vendor encodings. A failed category degrades to an
// empty list instead of failing the turn.
type DirectoryBuilder struct {
	source StateSource
	logger *slog.Logger
}

func NewDirectoryBuilder(source StateSource, logger *slog.Logger) *DirectoryBuilder {
	return &DirectoryBuilder{source: source, logger: logger}
}

// Build issues the six category reads concurrently and waits for all of them.
func (b *DirectoryBuilder) Build(ctx context.Context) *domain.Directory {
	var (
		areas       []AreaRecord
		rooms       []RoomRecord
		lights      []LightRecord
		thermostats []ThermostatRecord
		mediaRooms  []MediaRoomRecord
		scenes      []SceneRecord
	)

	var wg sync.WaitGroup
	fetch := func(category string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				b.logger.Warn("fetching category failed, continuing without it",
					"category", category, "error", err)
			}
		}()
	}

	fetch("areas", func() (err error) { areas, err = b.source.GetAreas(ctx); return })
	fetch("rooms", func() (err error) { rooms, err = b.source.GetRooms(ctx); return })
	fetch("lights", func() (err error) { lights, err = b.source.GetLights(ctx); return })
	fetch("thermostats", func() (err error) { thermostats, err = b.source.GetThermostats(ctx); return })
	fetch("media_rooms", func() (err error) { mediaRooms, err = b.source.GetMediaRooms(ctx); return })
	fetch("scenes", func() (err error) { scenes, err = b.source.GetScenes(ctx); return })
	wg.Wait()

	dir := &domain.Directory{}

	for _, a := range areas {
		dir.Areas = append(dir.Areas, domain.Area{ID: a.ID, Name: a.Name})
	}

	for _, r := range rooms {
		if len(r.SourceRoomIDs) > 0 {
			dir.MergedRooms = append(dir.MergedRooms, domain.MergedRoom{
				ID:            r.ID,
				Name:          r.Name,
				SourceRoomIDs: r.SourceRoomIDs,
			})
			continue
		}
		dir.Rooms = append(dir.Rooms, domain.Room{ID: r.ID, Name: r.Name, AreaID: r.AreaID})
	}

	for _, l := range lights {
		dir.Lights = append(dir.Lights, domain.Light{
			ID:     l.ID,
			Name:   l.Name,
			RoomID: l.RoomID,
			Level:  l.Level,
		})
	}

	for _, t := range thermostats {
		dir.Thermostats = append(dir.Thermostats, domain.Thermostat{
			ID:           t.ID,
			Name:         t.Name,
			RoomID:       t.RoomID,
			CurrentTemp:  tenthsToDegrees(t.CurrentTempTenths),
			HeatSetPoint: tenthsToDegrees(t.HeatSetPointTenths),
			CoolSetPoint: tenthsToDegrees(t.CoolSetPointTenths),
			Mode:         domain.ThermostatMode(t.Mode),
			FanMode:      domain.FanMode(t.FanMode),
		})
	}

	for _, m := range mediaRooms {
		dir.MediaRooms = append(dir.MediaRooms, domain.MediaRoom{
			ID:              m.ID,
			Name:            m.Name,
			RoomID:          m.RoomID,
			PoweredOn:       m.PoweredOn,
			VolumePercent:   rawVolumeToPercent(m.VolumeRaw),
			Muted:           m.Muted,
			CurrentProvider: m.ProviderIndex,
			Providers:       m.Providers,
			CanSetVolume:    m.CanSetVolume,
			CanMute:         m.CanMute,
		})
	}

	for _, s := range scenes {
		dir.Scenes = append(dir.Scenes, domain.Scene{ID: s.ID, Name: s.Name, RoomID: s.RoomID})
	}

	b.logger.Debug("directory built",
		"areas", len(dir.Areas),
		"rooms", len(dir.Rooms),
		"merged_rooms", len(dir.MergedRooms),
		"lights", len(dir.Lights),
		"thermostats", len(dir.Thermostats),
		"media_rooms", len(dir.MediaRooms),
		"scenes", len(dir.Scenes),
	)

	return dir
}

// The processor reports temperatures in tenths of °F.
func tenthsToDegrees(t int) int {
	if t < 0 {
		return -tenthsToDegrees(-t)
	}
	return (t + 5) / 10
}

// The processor reports volume in raw 0–50 steps.
func rawVolumeToPercent(raw int) int {
	p := raw * 2
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return p
}

// Summary renders the condensed device context included in the LLM prompt.
func Summary(dir *domain.Directory) string {
	var sb strings.Builder

	roomNames := make(map[string]string, len(dir.Rooms))
	for _, r := range dir.Rooms {
		roomNames[r.ID] = r.Name
	}

	sb.WriteString("Rooms:\n")
	for _, r := range dir.Rooms {
		fmt.Fprintf(&sb, "- %s\n", r.Name)
	}
	for _, m := range dir.MergedRooms {
		names := make([]string, 0, len(m.SourceRoomIDs))
		for _, id := range m.SourceRoomIDs {
			if n, ok := roomNames[id]; ok {
				names = append(names, n)
			}
		}
		fmt.Fprintf(&sb, "- %s (combines %s)\n", m.Name, strings.Join(names, ", "))
	}

	if len(dir.Areas) > 0 {
		sb.WriteString("Areas:\n")
		for _, a := range dir.Areas {
			fmt.Fprintf(&sb, "- %s\n", a.Name)
		}
	}

	sb.WriteString("Lights:\n")
	for _, l := range dir.Lights {
		state := "off"
		if l.IsOn() {
			state = fmt.Sprintf("on at %d%%", levelToPercent(l.Level))
		}
		fmt.Fprintf(&sb, "- %s (%s): %s\n", l.Name, roomNames[l.RoomID], state)
	}

	if len(dir.Thermostats) > 0 {
		sb.WriteString("Thermostats:\n")
		for _, t := range dir.Thermostats {
			fmt.Fprintf(&sb, "- %s (%s): %d°F, mode %s, heat %d / cool %d\n",
				t.Name, roomNames[t.RoomID], t.CurrentTemp, t.Mode, t.HeatSetPoint, t.CoolSetPoint)
		}
	}

	if len(dir.MediaRooms) > 0 {
		sb.WriteString("Media rooms:\n")
		for _, m := range dir.MediaRooms {
			power := "off"
			if m.PoweredOn {
				power = "on"
			}
			fmt.Fprintf(&sb, "- %s: %s, volume %d%%, sources: %s\n",
				m.Name, power, m.VolumePercent, strings.Join(m.Providers, ", "))
		}
	}

	if len(dir.Scenes) > 0 {
		sb.WriteString("Scenes:\n")
		for _, s := range dir.Scenes {
			fmt.Fprintf(&sb, "- %s\n", s.Name)
		}
	}

	return sb.String()
}
