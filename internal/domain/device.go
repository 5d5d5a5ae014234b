package domain

type DeviceType string

const (
	DeviceTypeLight      DeviceType = "light"
	DeviceTypeThermostat DeviceType = "thermostat"
	DeviceTypeMediaRoom  DeviceType = "mediaRoom"
)

// FullLightLevel is the top of the processor's linear brightness range.
const FullLightLevel = 65535

type Light struct {
	ID     string
	Name   string
	RoomID string
	Level  int // 0..FullLightLevel
}

func (l Light) IsOn() bool { return l.Level > 0 }

type ThermostatMode string

const (
	ThermostatModeOff  ThermostatMode = "off"
	ThermostatModeHeat ThermostatMode = "heat"
	ThermostatModeCool ThermostatMode = "cool"
	ThermostatModeAuto ThermostatMode = "auto"
)

type FanMode string

const (
	FanModeAuto FanMode = "auto"
	FanModeOn   FanMode = "on"
)

type Thermostat struct {
	ID           string
	Name         string
	RoomID       string
	CurrentTemp  int // °F
	HeatSetPoint int
	CoolSetPoint int
	Mode         ThermostatMode
	FanMode      FanMode
}

type MediaRoom struct {
	ID              string
	Name            string
	RoomID          string
	PoweredOn       bool
	VolumePercent   int // 0..100
	Muted           bool
	CurrentProvider int // index into Providers
	Providers       []string
	CanSetVolume    bool
	CanMute         bool
}

// Scene is a trigger, not a stateful device.
type Scene struct {
	ID     string
	Name   string
	RoomID string
}

type Room struct {
	ID     string
	Name   string
	AreaID string
}

type Area struct {
	ID   string
	Name string
}

// MergedRoom aliases two or more physical rooms as one addressable unit.
// It owns no devices; its device set is the union of its source rooms'.
type MergedRoom struct {
	ID            string
	Name          string
	SourceRoomIDs []string
}

// Directory is the canonicalized read of all device/room/area state,
// fetched once at the start of a turn.
type Directory struct {
	Areas       []Area
	Rooms       []Room
	MergedRooms []MergedRoom
	Lights      []Light
	Thermostats []Thermostat
	MediaRooms  []MediaRoom
	Scenes      []Scene
}
