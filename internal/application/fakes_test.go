package application_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"home-command/internal/application"
	"home-command/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type gwCall struct {
	Method string
	ID     string
	Value  any
}

type setPoints struct {
	Heat *int
	Cool *int
}

// fakeGateway records every mutation. IDs in failIDs make their mutations
// fail.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []gwCall
	failIDs map[string]bool
}

func (g *fakeGateway) record(method, id string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gwCall{Method: method, ID: id, Value: value})
	if g.failIDs[id] {
		return fmt.Errorf("device %s offline", id)
	}
	return nil
}

func (g *fakeGateway) callsFor(method string) []gwCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []gwCall
	for _, c := range g.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGateway) SetLightLevel(_ context.Context, id string, level int) error {
	return g.record("SetLightLevel", id, level)
}

func (g *fakeGateway) SetThermostatSetPoints(_ context.Context, id string, heat, cool *int) error {
	return g.record("SetThermostatSetPoints", id, setPoints{Heat: heat, Cool: cool})
}

func (g *fakeGateway) SetThermostatMode(_ context.Context, id string, mode string) error {
	return g.record("SetThermostatMode", id, mode)
}

func (g *fakeGateway) SetThermostatFanMode(_ context.Context, id string, fanMode string) error {
	return g.record("SetThermostatFanMode", id, fanMode)
}

func (g *fakeGateway) SetMediaPower(_ context.Context, id string, on bool) error {
	return g.record("SetMediaPower", id, on)
}

func (g *fakeGateway) SetMediaVolume(_ context.Context, id string, percent int) error {
	return g.record("SetMediaVolume", id, percent)
}

func (g *fakeGateway) SetMediaMute(_ context.Context, id string, muted bool) error {
	return g.record("SetMediaMute", id, muted)
}

func (g *fakeGateway) SelectMediaSource(_ context.Context, id string, providerIndex int) error {
	return g.record("SelectMediaSource", id, providerIndex)
}

func (g *fakeGateway) RecallScene(_ context.Context, id string) error {
	return g.record("RecallScene", id, nil)
}

// fakeSource serves canned records; categories listed in failCategories
// return an error.
type fakeSource struct {
	areas          []application.AreaRecord
	rooms          []application.RoomRecord
	lights         []application.LightRecord
	thermostats    []application.ThermostatRecord
	mediaRooms     []application.MediaRoomRecord
	scenes         []application.SceneRecord
	failCategories map[string]bool
}

func failSource[T any](s *fakeSource, category string, records []T) ([]T, error) {
	if s.failCategories[category] {
		return nil, fmt.Errorf("%s unavailable", category)
	}
	return records, nil
}

func (s *fakeSource) GetAreas(context.Context) ([]application.AreaRecord, error) {
	return failSource(s, "areas", s.areas)
}

func (s *fakeSource) GetRooms(context.Context) ([]application.RoomRecord, error) {
	return failSource(s, "rooms", s.rooms)
}

func (s *fakeSource) GetLights(context.Context) ([]application.LightRecord, error) {
	return failSource(s, "lights", s.lights)
}

func (s *fakeSource) GetThermostats(context.Context) ([]application.ThermostatRecord, error) {
	return failSource(s, "thermostats", s.thermostats)
}

func (s *fakeSource) GetMediaRooms(context.Context) ([]application.MediaRoomRecord, error) {
	return failSource(s, "media_rooms", s.mediaRooms)
}

func (s *fakeSource) GetScenes(context.Context) ([]application.SceneRecord, error) {
	return failSource(s, "scenes", s.scenes)
}

// fakeLLM returns a scripted result, or err.
type fakeLLM struct {
	result     *application.FunctionResult
	err        error
	lastPrompt string
	lastTools  []application.ToolSpec
}

func (l *fakeLLM) Call(_ context.Context, systemPrompt string, _ []domain.ChatMessage, _ string, tools []application.ToolSpec) (*application.FunctionResult, error) {
	l.lastPrompt = systemPrompt
	l.lastTools = tools
	if l.err != nil {
		return nil, l.err
	}
	return l.result, nil
}

// Shared fixture: two rooms plus a merged room, three kitchen lights, a den
// light, a thermostat, a media room, a scene.
func testDirectory() *domain.Directory {
	return &domain.Directory{
		Areas: []domain.Area{{ID: "area-1", Name: "Main Floor"}},
		Rooms: []domain.Room{
			{ID: "room-kitchen", Name: "Kitchen", AreaID: "area-1"},
			{ID: "room-den", Name: "Den", AreaID: "area-1"},
			{ID: "room-master", Name: "Master Bedroom"},
		},
		MergedRooms: []domain.MergedRoom{
			{ID: "merged-great", Name: "Great Room", SourceRoomIDs: []string{"room-kitchen", "room-den"}},
		},
		Lights: []domain.Light{
			{ID: "light-1", Name: "Kitchen Ceiling", RoomID: "room-kitchen", Level: 10000},
			{ID: "light-2", Name: "Kitchen Island", RoomID: "room-kitchen", Level: 30000},
			{ID: "light-3", Name: "Kitchen Sink", RoomID: "room-kitchen", Level: 0},
			{ID: "light-4", Name: "Den Lamp", RoomID: "room-den", Level: 49151},
		},
		Thermostats: []domain.Thermostat{
			{ID: "therm-1", Name: "Main Thermostat", RoomID: "room-den",
				CurrentTemp: 71, HeatSetPoint: 68, CoolSetPoint: 74,
				Mode: domain.ThermostatModeHeat, FanMode: domain.FanModeAuto},
		},
		MediaRooms: []domain.MediaRoom{
			{ID: "media-den", Name: "Den", RoomID: "room-den",
				PoweredOn: true, VolumePercent: 40,
				Providers:    []string{"Apple TV", "Sonos", "Cable Box"},
				CanSetVolume: true, CanMute: true},
			{ID: "media-master", Name: "Master Bedroom",
				PoweredOn: false, VolumePercent: 20,
				Providers:    []string{"Roku"},
				CanSetVolume: true, CanMute: false},
		},
		Scenes: []domain.Scene{
			{ID: "scene-1", Name: "Movie Night", RoomID: "room-den"},
			{ID: "scene-2", Name: "Good Morning", RoomID: "room-kitchen"},
		},
	}
}
