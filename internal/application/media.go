package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"home-command/internal/domain"
)

// MediaArgs are the parsed arguments of a control_media tool call.
type MediaArgs struct {
	Action string `json:"action"` // power_on | power_off | set_volume | mute | unmute | select_source
	Room   string `json:"room,omitempty"`
	Area   string `json:"area,omitempty"`
	Volume *int   `json:"volume,omitempty"` // percent
	Source string `json:"source,omitempty"`
}

type MediaExecutor struct {
	gateway DeviceGateway
	logger  *slog.Logger
}

func NewMediaExecutor(gateway DeviceGateway, logger *slog.Logger) *MediaExecutor {
	return &MediaExecutor{gateway: gateway, logger: logger}
}

func (e *MediaExecutor) Execute(ctx context.Context, args MediaArgs, dir *domain.Directory) ExecResult {
	criteria := Criteria{Room: args.Room, Area: args.Area}
	matched := MatchMediaRooms(dir, criteria)
	if len(matched) == 0 {
		msg := "No media rooms found."
		if d := criteria.Describe(); d != "" {
			msg = fmt.Sprintf("No media rooms found %s.", d)
		}
		return ExecResult{NoMatch: true, Message: msg}
	}

	snapshots := make([]domain.DeviceSnapshot, 0, len(matched))
	outcomes := make([]DeviceOutcome, 0, len(matched))

	for _, m := range matched {
		snapshots = append(snapshots, domain.DeviceSnapshot{
			ID:   m.ID,
			Type: domain.DeviceTypeMediaRoom,
			Previous: domain.PreviousState{
				PoweredOn:     boolPtr(m.PoweredOn),
				VolumePercent: intPtr(m.VolumePercent),
				Muted:         boolPtr(m.Muted),
			},
		})

		sent, err := e.apply(ctx, args, m)
		if !sent {
			outcomes = append(outcomes, DeviceOutcome{ID: m.ID})
			continue
		}
		if err != nil {
			e.logger.Warn("media mutation failed", "room", m.Name, "error", err)
		}
		outcomes = append(outcomes, DeviceOutcome{ID: m.ID, Sent: true, OK: err == nil})
	}

	succeeded := countSucceeded(outcomes)
	return ExecResult{
		Success:     succeeded > 0,
		Message:     e.message(args, succeeded, len(matched)),
		Snapshots:   snapshots,
		Outcomes:    outcomes,
		NothingToDo: !anySent(outcomes),
	}
}

// apply returns sent=false when the action does not apply to this room: a
// missing volume argument, an unsupported capability, or a source name that
// matches none of the room's providers. Skipping keeps one ambiguous room
// from failing an otherwise valid multi-room command.
func (e *MediaExecutor) apply(ctx context.Context, args MediaArgs, m domain.MediaRoom) (bool, error) {
	switch args.Action {
	case "power_on":
		return true, e.gateway.SetMediaPower(ctx, m.ID, true)
	case "power_off":
		return true, e.gateway.SetMediaPower(ctx, m.ID, false)
	case "set_volume":
		if args.Volume == nil || !m.CanSetVolume {
			return false, nil
		}
		return true, e.gateway.SetMediaVolume(ctx, m.ID, *args.Volume)
	case "mute":
		if !m.CanMute {
			return false, nil
		}
		return true, e.gateway.SetMediaMute(ctx, m.ID, true)
	case "unmute":
		if !m.CanMute {
			return false, nil
		}
		return true, e.gateway.SetMediaMute(ctx, m.ID, false)
	case "select_source":
		idx, ok := resolveProvider(m.Providers, args.Source)
		if !ok {
			e.logger.Debug("no provider matched, skipping room",
				"room", m.Name, "source", args.Source)
			return false, nil
		}
		return true, e.gateway.SelectMediaSource(ctx, m.ID, idx)
	default:
		return false, nil
	}
}

func resolveProvider(providers []string, source string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(source))
	if q == "" {
		return 0, false
	}
	for i, p := range providers {
		if strings.Contains(strings.ToLower(p), q) {
			return i, true
		}
	}
	return 0, false
}

func (e *MediaExecutor) message(args MediaArgs, succeeded, matched int) string {
	plural := "media rooms"
	if matched == 1 {
		plural = "media room"
	}
	if succeeded == 0 {
		return fmt.Sprintf("Couldn't %s in the %s.", strings.ReplaceAll(args.Action, "_", " "), plural)
	}
	switch args.Action {
	case "power_on":
		return fmt.Sprintf("Powered on %d %s.", succeeded, plural)
	case "power_off":
		return fmt.Sprintf("Powered off %d %s.", succeeded, plural)
	case "set_volume":
		return fmt.Sprintf("Set volume to %d%% in %d %s.", *args.Volume, succeeded, plural)
	case "mute":
		return fmt.Sprintf("Muted %d %s.", succeeded, plural)
	case "unmute":
		return fmt.Sprintf("Unmuted %d %s.", succeeded, plural)
	case "select_source":
		return fmt.Sprintf("Switched %d %s to %s.", succeeded, plural, args.Source)
	default:
		return ""
	}
}
