package application

import (
	"context"
	"fmt"
	"log/slog"

	"home-command/internal/domain"
)

// ClimateArgs are the parsed arguments of a control_climate tool call.
type ClimateArgs struct {
	Action      string `json:"action"` // set_temperature | set_mode | set_fan_mode
	Temperature *int   `json:"temperature,omitempty"`
	Mode        string `json:"mode,omitempty"`     // off | heat | cool | auto
	FanMode     string `json:"fan_mode,omitempty"` // auto | on
	Room        string `json:"room,omitempty"`
	Area        string `json:"area,omitempty"`
}

type ClimateExecutor struct {
	gateway DeviceGateway
	logger  *slog.Logger
}

func NewClimateExecutor(gateway DeviceGateway, logger *slog.Logger) *ClimateExecutor {
	return &ClimateExecutor{gateway: gateway, logger: logger}
}

// Execute mutates each matched thermostat one at a time. Climate commands
// are rare and always intentional, so there is no minimal-mutation skip.
func (e *ClimateExecutor) Execute(ctx context.Context, args ClimateArgs, dir *domain.Directory) ExecResult {
	criteria := Criteria{Room: args.Room, Area: args.Area}
	matched := MatchThermostats(dir, criteria)
	if len(matched) == 0 {
		msg := "No thermostats found."
		if d := criteria.Describe(); d != "" {
			msg = fmt.Sprintf("No thermostats found %s.", d)
		}
		return ExecResult{NoMatch: true, Message: msg}
	}

	snapshots := make([]domain.DeviceSnapshot, 0, len(matched))
	outcomes := make([]DeviceOutcome, 0, len(matched))

	for _, t := range matched {
		snapshots = append(snapshots, snapshotThermostat(t))

		err := e.apply(ctx, args, t)
		if err != nil {
			e.logger.Warn("thermostat mutation failed", "thermostat", t.Name, "error", err)
		}
		outcomes = append(outcomes, DeviceOutcome{ID: t.ID, Sent: true, OK: err == nil})
	}

	succeeded := countSucceeded(outcomes)
	return ExecResult{
		Success:   succeeded > 0,
		Message:   e.message(args, succeeded, len(matched)),
		Snapshots: snapshots,
		Outcomes:  outcomes,
	}
}

func (e *ClimateExecutor) apply(ctx context.Context, args ClimateArgs, t domain.Thermostat) error {
	switch args.Action {
	case "set_temperature":
		if args.Temperature == nil {
			return fmt.Errorf("set_temperature without a temperature")
		}
		target := *args.Temperature
		// Which setpoint to move depends on the thermostat's own mode;
		// in auto or off both setpoints get the same target.
		switch t.Mode {
		case domain.ThermostatModeHeat:
			return e.gateway.SetThermostatSetPoints(ctx, t.ID, &target, nil)
		case domain.ThermostatModeCool:
			return e.gateway.SetThermostatSetPoints(ctx, t.ID, nil, &target)
		default:
			return e.gateway.SetThermostatSetPoints(ctx, t.ID, &target, &target)
		}
	case "set_mode":
		return e.gateway.SetThermostatMode(ctx, t.ID, args.Mode)
	case "set_fan_mode":
		return e.gateway.SetThermostatFanMode(ctx, t.ID, args.FanMode)
	default:
		return fmt.Errorf("unknown climate action: %s", args.Action)
	}
}

func (e *ClimateExecutor) message(args ClimateArgs, succeeded, matched int) string {
	if succeeded == 0 {
		return "The thermostat didn't respond."
	}
	plural := "thermostats"
	if matched == 1 {
		plural = "thermostat"
	}
	switch args.Action {
	case "set_temperature":
		return fmt.Sprintf("Set %d %s to %d°F.", matched, plural, *args.Temperature)
	case "set_mode":
		return fmt.Sprintf("Set %d %s to %s mode.", matched, plural, args.Mode)
	case "set_fan_mode":
		return fmt.Sprintf("Set the fan to %s on %d %s.", args.FanMode, matched, plural)
	default:
		return ""
	}
}

func snapshotThermostat(t domain.Thermostat) domain.DeviceSnapshot {
	return domain.DeviceSnapshot{
		ID:   t.ID,
		Type: domain.DeviceTypeThermostat,
		Previous: domain.PreviousState{
			Mode:         modePtr(t.Mode),
			HeatSetPoint: intPtr(t.HeatSetPoint),
			CoolSetPoint: intPtr(t.CoolSetPoint),
		},
	}
}
