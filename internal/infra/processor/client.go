// Package processor implements the HTTP client for the home-automation
// processor. It serves both collaborator roles: state reads for the
// directory builder and per-device mutations for the executors.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"home-command/internal/application"
)

type Client struct {
	baseURL    string
	authKey    string
	httpClient *http.Client
}

// NewClient talks to the processor at the given host:port address.
func NewClient(address, authKey string) *Client {
	return NewClientWithURL("http://"+address, authKey)
}

func NewClientWithURL(baseURL, authKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authKey:    authKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope is the processor's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Processor-Auth", c.authKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("processor error %d: %s", resp.StatusCode, string(respBody))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("processor error: %s", env.Error)
	}

	return env.Data, nil
}

func (c *Client) getState(ctx context.Context, path string, dst any) error {
	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Client) postControl(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	_, err = c.doRequest(ctx, http.MethodPost, path, body)
	return err
}

// State reads

type areaDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type roomDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	AreaID        string   `json:"area_id,omitempty"`
	SourceRoomIDs []string `json:"source_room_ids,omitempty"`
}

type lightDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	RoomID string `json:"room_id,omitempty"`
	Level  int    `json:"level"`
}

type thermostatDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RoomID       string `json:"room_id,omitempty"`
	CurrentTemp  int    `json:"current_temp"` // tenths of °F
	HeatSetPoint int    `json:"heat_set_point"`
	CoolSetPoint int    `json:"cool_set_point"`
	Mode         string `json:"mode"`
	FanMode      string `json:"fan_mode"`
}

type mediaRoomDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	RoomID        string   `json:"room_id,omitempty"`
	PoweredOn     bool     `json:"powered_on"`
	Volume        int      `json:"volume"` // raw 0-50 steps
	Muted         bool     `json:"muted"`
	ProviderIndex int      `json:"provider_index"`
	Providers     []string `json:"providers"`
	CanSetVolume  bool     `json:"can_set_volume"`
	CanMute       bool     `json:"can_mute"`
}

type sceneDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	RoomID string `json:"room_id,omitempty"`
}

func (c *Client) GetAreas(ctx context.Context) ([]application.AreaRecord, error) {
	var dtos []areaDTO
	if err := c.getState(ctx, "/api/state/areas", &dtos); err != nil {
		return nil, fmt.Errorf("fetching areas: %w", err)
	}
	records := make([]application.AreaRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, application.AreaRecord{ID: d.ID, Name: d.Name})
	}
	return records, nil
}

func (c *Client) GetRooms(ctx context.Context) ([]application.RoomRecord, error) {
	var dtos []roomDTO
	if err := c.getState(ctx, "/api/state/rooms", &dtos); err != nil {
		return nil, fmt.Errorf("fetching rooms: %w", err)
	}
	records := make([]application.RoomRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, application.RoomRecord{
			ID:            d.ID,
			Name:          d.Name,
			AreaID:        d.AreaID,
			SourceRoomIDs: d.SourceRoomIDs,
		})
	}
	return records, nil
}

func (c *Client) GetLights(ctx context.Context) ([]application.LightRecord, error) {
	var dtos []lightDTO
	if err := c.getState(ctx, "/api/state/lights", &dtos); err != nil {
		return nil, fmt.Errorf("fetching lights: %w", err)
	}
	records := make([]application.LightRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, application.LightRecord{
			ID:     d.ID,
			Name:   d.Name,
			RoomID: d.RoomID,
			Level:  d.Level,
		})
	}
	return records, nil
}

func (c *Client) GetThermostats(ctx context.Context) ([]application.ThermostatRecord, error) {
	var dtos []thermostatDTO
	if err := c.getState(ctx, "/api/state/thermostats", &dtos); err != nil {
		return nil, fmt.Errorf("fetching thermostats: %w", err)
	}
	records := make([]application.ThermostatRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, application.ThermostatRecord{
			ID:                 d.ID,
			Name:               d.Name,
			RoomID:             d.RoomID,
			CurrentTempTenths:  d.CurrentTemp,
			HeatSetPointTenths: d.HeatSetPoint,
			CoolSetPointTenths: d.CoolSetPoint,
			Mode:               d.Mode,
			FanMode:            d.FanMode,
		})
	}
	return records, nil
}

func (c *Client) GetMediaRooms(ctx context.Context) ([]application.MediaRoomRecord, error) {
	var dtos []mediaRoomDTO
	if err := c.getState(ctx, "/api/state/media-rooms", &dtos); err != nil {
		return nil, fmt.Errorf("fetching media rooms: %w", err)
	}
	records := make([]application.MediaRoomRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, application.MediaRoomRecord{
			ID:            d.ID,
			Name:          d.Name,
			RoomID:        d.RoomID,
			PoweredOn:     d.PoweredOn,
			VolumeRaw:     d.Volume,
			Muted:         d.Muted,
			ProviderIndex: d.ProviderIndex,
			Providers:     d.Providers,
			CanSetVolume:  d.CanSetVolume,
			CanMute:       d.CanMute,
		})
	}
	return records, nil
}

func (c *Client) GetScenes(ctx context.Context) ([]application.SceneRecord, error) {
	var dtos []sceneDTO
	if err := c.getState(ctx, "/api/state/scenes", &dtos); err != nil {
		return nil, fmt.Errorf("fetching scenes: %w", err)
	}
	records := make([]application.SceneRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, application.SceneRecord{ID: d.ID, Name: d.Name, RoomID: d.RoomID})
	}
	return records, nil
}

// Mutations

func (c *Client) SetLightLevel(ctx context.Context, id string, level int) error {
	return c.postControl(ctx, "/api/control/lights/"+id,
		map[string]any{"level": level, "on": level > 0})
}

func (c *Client) SetThermostatSetPoints(ctx context.Context, id string, heat, cool *int) error {
	payload := map[string]any{}
	if heat != nil {
		payload["heat_set_point"] = *heat * 10
	}
	if cool != nil {
		payload["cool_set_point"] = *cool * 10
	}
	return c.postControl(ctx, "/api/control/thermostats/"+id+"/setpoints", payload)
}

func (c *Client) SetThermostatMode(ctx context.Context, id string, mode string) error {
	return c.postControl(ctx, "/api/control/thermostats/"+id+"/mode",
		map[string]any{"mode": mode})
}

func (c *Client) SetThermostatFanMode(ctx context.Context, id string, fanMode string) error {
	return c.postControl(ctx, "/api/control/thermostats/"+id+"/fan",
		map[string]any{"fan_mode": fanMode})
}

func (c *Client) SetMediaPower(ctx context.Context, id string, on bool) error {
	return c.postControl(ctx, "/api/control/media-rooms/"+id+"/power",
		map[string]any{"on": on})
}

func (c *Client) SetMediaVolume(ctx context.Context, id string, percent int) error {
	// The processor speaks raw 0-50 volume steps.
	return c.postControl(ctx, "/api/control/media-rooms/"+id+"/volume",
		map[string]any{"volume": percentToRawVolume(percent)})
}

func (c *Client) SetMediaMute(ctx context.Context, id string, muted bool) error {
	return c.postControl(ctx, "/api/control/media-rooms/"+id+"/mute",
		map[string]any{"muted": muted})
}

func (c *Client) SelectMediaSource(ctx context.Context, id string, providerIndex int) error {
	return c.postControl(ctx, "/api/control/media-rooms/"+id+"/source",
		map[string]any{"provider_index": providerIndex})
}

func (c *Client) RecallScene(ctx context.Context, id string) error {
	return c.postControl(ctx, "/api/control/scenes/"+id+"/recall", map[string]any{})
}

func percentToRawVolume(percent int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return (percent + 1) / 2
}
