package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"home-command/internal/domain"
)

const defaultOnPercent = 75

// LightsArgs are the parsed arguments of a control_lights tool call.
type LightsArgs struct {
	Action     string `json:"action"` // on | off | set_brightness
	Room       string `json:"room,omitempty"`
	Area       string `json:"area,omitempty"`
	LightName  string `json:"light_name,omitempty"`
	Brightness *int   `json:"brightness,omitempty"` // percent
}

func (a LightsArgs) criteria() Criteria {
	return Criteria{Room: a.Room, Area: a.Area, DeviceName: a.LightName}
}

type LightsExecutor struct {
	gateway DeviceGateway
	logger  *slog.Logger
}

func NewLightsExecutor(gateway DeviceGateway, logger *slog.Logger) *LightsExecutor {
	return &LightsExecutor{gateway: gateway, logger: logger}
}

// Execute snapshots every matched light, picks the subset that actually
// needs a mutation, and fans the mutations out concurrently.
//
// A light already at the target level is skipped unless its id is in the
// turn's modified set: an earlier call this turn may have changed it, and
// the directory's cached level is stale. set_brightness never skips — an
// explicit percentage is always honored.
func (e *LightsExecutor) Execute(ctx context.Context, args LightsArgs, dir *domain.Directory, modified domain.ModifiedSet) ExecResult {
	matched := MatchLights(dir, args.criteria())
	if len(matched) == 0 {
		return ExecResult{
			NoMatch: true,
			Message: noLightsMessage(args.criteria()),
		}
	}

	snapshots := make([]domain.DeviceSnapshot, 0, len(matched))
	for _, l := range matched {
		snapshots = append(snapshots, domain.DeviceSnapshot{
			ID:       l.ID,
			Type:     domain.DeviceTypeLight,
			Previous: domain.PreviousState{Level: intPtr(l.Level)},
		})
	}

	target, ok := targetLevel(args)
	if !ok {
		return ExecResult{Message: fmt.Sprintf("I don't know how to '%s' lights.", args.Action)}
	}

	var subset []domain.Light
	for _, l := range matched {
		if args.Action == "set_brightness" || l.Level != target || modified.Has(l.ID) {
			subset = append(subset, l)
		}
	}

	outcomes := make([]DeviceOutcome, len(subset))
	var wg sync.WaitGroup
	for i, l := range subset {
		wg.Add(1)
		go func(i int, l domain.Light) {
			defer wg.Done()
			err := e.gateway.SetLightLevel(ctx, l.ID, target)
			if err != nil {
				e.logger.Warn("light mutation failed", "light", l.Name, "error", err)
			}
			outcomes[i] = DeviceOutcome{ID: l.ID, Sent: true, OK: err == nil}
		}(i, l)
	}
	wg.Wait()

	nothingToDo := len(subset) == 0
	succeeded := countSucceeded(outcomes)

	return ExecResult{
		Success:     succeeded > 0 || nothingToDo,
		Message:     lightsMessage(args.Action, target, len(matched), nothingToDo),
		Snapshots:   snapshots,
		Outcomes:    outcomes,
		NothingToDo: nothingToDo,
	}
}

func targetLevel(args LightsArgs) (int, bool) {
	switch args.Action {
	case "on":
		pct := defaultOnPercent
		if args.Brightness != nil {
			pct = *args.Brightness
		}
		return percentToLevel(pct), true
	case "off":
		return 0, true
	case "set_brightness":
		pct := 100
		if args.Brightness != nil {
			pct = *args.Brightness
		}
		return percentToLevel(pct), true
	default:
		return 0, false
	}
}

func percentToLevel(pct int) int {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return int(math.Round(float64(pct) / 100 * domain.FullLightLevel))
}

func levelToPercent(level int) int {
	return int(math.Round(float64(level) / domain.FullLightLevel * 100))
}

func noLightsMessage(c Criteria) string {
	if d := c.Describe(); d != "" {
		return fmt.Sprintf("No lights found %s.", d)
	}
	return "No lights found."
}

func lightsMessage(action string, target, matched int, nothingToDo bool) string {
	plural := "lights"
	if matched == 1 {
		plural = "light"
	}
	switch action {
	case "on":
		if nothingToDo {
			return fmt.Sprintf("The %s %s already on.", plural, isAre(matched))
		}
		return fmt.Sprintf("Turned on %d %s.", matched, plural)
	case "off":
		if nothingToDo {
			return fmt.Sprintf("The %s %s already off.", plural, isAre(matched))
		}
		return fmt.Sprintf("Turned off %d %s.", matched, plural)
	default:
		return fmt.Sprintf("Set %d %s to %d%%.", matched, plural, levelToPercent(target))
	}
}

func isAre(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
