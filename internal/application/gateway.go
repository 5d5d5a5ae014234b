package application

import "context"

// DeviceGateway issues mutations against the home-automation processor.
// Implementations are best-effort: an error means this one mutation failed,
// never that the processor is in an inconsistent state.
type DeviceGateway interface {
	SetLightLevel(ctx context.Context, id string, level int) error
	SetThermostatSetPoints(ctx context.Context, id string, heat, cool *int) error
	SetThermostatMode(ctx context.Context, id string, mode string) error
	SetThermostatFanMode(ctx context.Context, id string, fanMode string) error
	SetMediaPower(ctx context.Context, id string, on bool) error
	SetMediaVolume(ctx context.Context, id string, percent int) error
	SetMediaMute(ctx context.Context, id string, muted bool) error
	SelectMediaSource(ctx context.Context, id string, providerIndex int) error
	RecallScene(ctx context.Context, id string) error
}

// StateSource reads current device state from the processor. Records carry
// the vendor's own encodings; the directory builder canonicalizes them.
type StateSource interface {
	GetAreas(ctx context.Context) ([]AreaRecord, error)
	GetRooms(ctx context.Context) ([]RoomRecord, error)
	GetLights(ctx context.Context) ([]LightRecord, error)
	GetThermostats(ctx context.Context) ([]ThermostatRecord, error)
	GetMediaRooms(ctx context.Context) ([]MediaRoomRecord, error)
	GetScenes(ctx context.Context) ([]SceneRecord, error)
}

type AreaRecord struct {
	ID   string
	Name string
}

// RoomRecord covers both physical and virtual rooms: a non-empty
// SourceRoomIDs marks a user-defined merged room.
type RoomRecord struct {
	ID            string
	Name          string
	AreaID        string
	SourceRoomIDs []string
}

type LightRecord struct {
	ID     string
	Name   string
	RoomID string
	Level  int // already 0..65535 on the wire
}

// ThermostatRecord carries temperatures in tenths of °F.
type ThermostatRecord struct {
	ID                 string
	Name               string
	RoomID             string
	CurrentTempTenths  int
	HeatSetPointTenths int
	CoolSetPointTenths int
	Mode               string
	FanMode            string
}

// MediaRoomRecord carries volume in the processor's raw 0–50 steps and the
// current source as an index into Providers.
type MediaRoomRecord struct {
	ID            string
	Name          string
	RoomID        string
	PoweredOn     bool
	VolumeRaw     int
	Muted         bool
	ProviderIndex int
	Providers     []string
	CanSetVolume  bool
	CanMute       bool
}

type SceneRecord struct {
	ID     string
	Name   string
	RoomID string
}
