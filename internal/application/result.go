package application

import "home-command/internal/domain"

// DeviceOutcome is the per-device record inside an ExecResult. Sent=false
// means the executor decided no mutation was needed for this device (already
// at target, or no resolvable source); OK is meaningful only when Sent.
type DeviceOutcome struct {
	ID   string
	Sent bool
	OK   bool
}

// ExecResult is the outcome of one tool call. NoMatch and NothingToDo are
// kept distinct even though both surface to the user as "no mutation
// happened": the matcher finding nothing and the minimal-mutation filter
// emptying the subset are different situations.
type ExecResult struct {
	Success     bool
	Message     string
	Snapshots   []domain.DeviceSnapshot
	Outcomes    []DeviceOutcome
	NoMatch     bool
	NothingToDo bool
}

func anySent(outcomes []DeviceOutcome) bool {
	for _, o := range outcomes {
		if o.Sent {
			return true
		}
	}
	return false
}

func countSucceeded(outcomes []DeviceOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Sent && o.OK {
			n++
		}
	}
	return n
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func modePtr(v domain.ThermostatMode) *domain.ThermostatMode { return &v }
