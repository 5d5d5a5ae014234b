package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-command/internal/application"
	"home-command/internal/domain"
	"home-command/internal/infra/httpapi"
)

// statefulGateway applies mutations to an in-memory light map so the
// snapshot/undo round trip can be asserted on final state.
type statefulGateway struct {
	mu     sync.Mutex
	levels map[string]int
}

func (g *statefulGateway) SetLightLevel(_ context.Context, id string, level int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels[id] = level
	return nil
}

func (g *statefulGateway) SetThermostatSetPoints(context.Context, string, *int, *int) error {
	return nil
}
func (g *statefulGateway) SetThermostatMode(context.Context, string, string) error    { return nil }
func (g *statefulGateway) SetThermostatFanMode(context.Context, string, string) error { return nil }
func (g *statefulGateway) SetMediaPower(context.Context, string, bool) error          { return nil }
func (g *statefulGateway) SetMediaVolume(context.Context, string, int) error          { return nil }
func (g *statefulGateway) SetMediaMute(context.Context, string, bool) error           { return nil }
func (g *statefulGateway) SelectMediaSource(context.Context, string, int) error       { return nil }
func (g *statefulGateway) RecallScene(context.Context, string) error                  { return nil }

type staticSource struct {
	lights []application.LightRecord
}

func (s *staticSource) GetAreas(context.Context) ([]application.AreaRecord, error) { return nil, nil }
func (s *staticSource) GetRooms(context.Context) ([]application.RoomRecord, error) {
	return []application.RoomRecord{
		{ID: "room-kitchen", Name: "Kitchen"},
		{ID: "room-den", Name: "Den"},
	}, nil
}
func (s *staticSource) GetLights(context.Context) ([]application.LightRecord, error) {
	return s.lights, nil
}
func (s *staticSource) GetThermostats(context.Context) ([]application.ThermostatRecord, error) {
	return nil, nil
}
func (s *staticSource) GetMediaRooms(context.Context) ([]application.MediaRoomRecord, error) {
	return nil, nil
}
func (s *staticSource) GetScenes(context.Context) ([]application.SceneRecord, error) {
	return nil, nil
}

type scriptedLLM struct {
	calls []domain.ToolCall
}

func (l *scriptedLLM) Call(context.Context, string, []domain.ChatMessage, string, []application.ToolSpec) (*application.FunctionResult, error) {
	return &application.FunctionResult{ToolCalls: l.calls}, nil
}

func postJSON(t *testing.T, handler http.Handler, body any) domain.TurnResponse {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/command", bytes.NewReader(data))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.TurnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestFullTurn_CompoundCommandThenUndo(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	source := &staticSource{lights: []application.LightRecord{
		{ID: "light-k", Name: "Kitchen Ceiling", RoomID: "room-kitchen", Level: 30000},
		{ID: "light-d", Name: "Den Lamp", RoomID: "room-den", Level: 49151},
	}}
	gateway := &statefulGateway{levels: map[string]int{"light-k": 30000, "light-d": 49151}}

	llm := &scriptedLLM{calls: []domain.ToolCall{
		{Name: application.FuncControlLights, Arguments: json.RawMessage(`{"action":"off"}`)},
		{Name: application.FuncControlLights, Arguments: json.RawMessage(`{"action":"on","room":"Den"}`)},
	}}

	orchestrator := application.NewOrchestrator(source, gateway, llm, logger)
	server := httpapi.NewServer(":0", "", orchestrator, &application.NoopNotifier{}, logger)

	// Turn 1: "turn everything off, then the den back on".
	resp := postJSON(t, server.Handler(), domain.TurnRequest{Message: "all off, den back on"})

	require.True(t, resp.Success)
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, 0, gateway.levels["light-k"])
	// The den light went off with everything else, then came back on:
	// the second call must not trust the stale directory level.
	assert.Equal(t, 49151, gateway.levels["light-d"])

	// Turn 2: undo the first call using its returned snapshots.
	undo := postJSON(t, server.Handler(), domain.TurnRequest{
		UndoSnapshots: resp.Actions[0].Snapshots,
	})

	require.True(t, undo.Success)
	assert.True(t, undo.WasUndo)
	assert.Equal(t, 30000, gateway.levels["light-k"])
	assert.Equal(t, 49151, gateway.levels["light-d"])
}

func TestFullTurn_NoMatchReportsFailureWithoutMutations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	source := &staticSource{lights: []application.LightRecord{
		{ID: "light-k", Name: "Kitchen Ceiling", RoomID: "room-kitchen", Level: 30000},
	}}
	gateway := &statefulGateway{levels: map[string]int{"light-k": 30000}}
	llm := &scriptedLLM{calls: []domain.ToolCall{
		{Name: application.FuncControlLights, Arguments: json.RawMessage(`{"action":"on","room":"Garage"}`)},
	}}

	orchestrator := application.NewOrchestrator(source, gateway, llm, logger)
	server := httpapi.NewServer(":0", "", orchestrator, &application.NoopNotifier{}, logger)

	resp := postJSON(t, server.Handler(), domain.TurnRequest{Message: "garage lights on"})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Response, "Garage")
	assert.Equal(t, 30000, gateway.levels["light-k"])
}
