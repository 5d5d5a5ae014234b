package domain

import "encoding/json"

// PreviousState holds the fields captured for one device before mutation.
// Only the fields relevant to the device's type are set; nil means the
// field was not recorded and must not be restored.
type PreviousState struct {
	Level         *int            `json:"level,omitempty"`
	Mode          *ThermostatMode `json:"mode,omitempty"`
	HeatSetPoint  *int            `json:"heatSetPoint,omitempty"`
	CoolSetPoint  *int            `json:"coolSetPoint,omitempty"`
	PoweredOn     *bool           `json:"poweredOn,omitempty"`
	VolumePercent *int            `json:"volumePercent,omitempty"`
	Muted         *bool           `json:"muted,omitempty"`
}

// DeviceSnapshot is captured before any mutation of a device involved in a
// command. Restoring it replays the recorded fields through the gateway;
// replaying twice is harmless.
type DeviceSnapshot struct {
	ID       string        `json:"id"`
	Type     DeviceType    `json:"type"`
	Previous PreviousState `json:"previousState"`
}

// ExecutedAction records one dispatched tool call. The ordered list of
// actions for a turn is what the client holds on to for undo.
type ExecutedAction struct {
	Type         string           `json:"type"`
	FunctionName string           `json:"functionName"`
	Args         json.RawMessage  `json:"args"`
	Snapshots    []DeviceSnapshot `json:"deviceSnapshots"`
}

// ModifiedSet tracks device ids already mutated by an earlier tool call in
// the same turn. Membership means the directory's cached value for that
// device may be stale, so later calls must not skip it as "already at
// target". One set lives per orchestrator invocation; it is never shared
// across turns.
type ModifiedSet map[string]struct{}

func NewModifiedSet() ModifiedSet { return make(ModifiedSet) }

func (m ModifiedSet) Add(id string) { m[id] = struct{}{} }

func (m ModifiedSet) Has(id string) bool {
	_, ok := m[id]
	return ok
}

// AddSnapshots marks every snapshotted device as modified.
func (m ModifiedSet) AddSnapshots(snaps []DeviceSnapshot) {
	for _, s := range snaps {
		m.Add(s.ID)
	}
}
