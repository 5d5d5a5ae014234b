package application

import (
	"context"
	"fmt"
	"log/slog"

	"home-command/internal/domain"
)

// RestoreResult reports a best-effort restore: it never hard-fails as long
// as at least one device responded.
type RestoreResult struct {
	Success  bool
	Message  string
	Restored int
	Total    int
}

// Restorer replays captured device snapshots through the gateway.
type Restorer struct {
	gateway DeviceGateway
	logger  *slog.Logger
}

func NewRestorer(gateway DeviceGateway, logger *slog.Logger) *Restorer {
	return &Restorer{gateway: gateway, logger: logger}
}

// Restore processes snapshots sequentially, reissuing a mutation for each
// field that was recorded. A snapshot may be replayed more than once; it
// just re-applies the same prior values.
func (r *Restorer) Restore(ctx context.Context, snapshots []domain.DeviceSnapshot) RestoreResult {
	restored := 0
	for _, s := range snapshots {
		if err := r.restoreOne(ctx, s); err != nil {
			r.logger.Warn("restore failed for device", "id", s.ID, "type", s.Type, "error", err)
			continue
		}
		restored++
	}

	return RestoreResult{
		Success:  restored > 0,
		Message:  fmt.Sprintf("Restored %d of %d devices.", restored, len(snapshots)),
		Restored: restored,
		Total:    len(snapshots),
	}
}

func (r *Restorer) restoreOne(ctx context.Context, s domain.DeviceSnapshot) error {
	prev := s.Previous
	switch s.Type {
	case domain.DeviceTypeLight:
		if prev.Level == nil {
			return nil
		}
		return r.gateway.SetLightLevel(ctx, s.ID, *prev.Level)

	case domain.DeviceTypeThermostat:
		if prev.Mode != nil {
			if err := r.gateway.SetThermostatMode(ctx, s.ID, string(*prev.Mode)); err != nil {
				return err
			}
		}
		if prev.HeatSetPoint != nil || prev.CoolSetPoint != nil {
			return r.gateway.SetThermostatSetPoints(ctx, s.ID, prev.HeatSetPoint, prev.CoolSetPoint)
		}
		return nil

	case domain.DeviceTypeMediaRoom:
		if prev.PoweredOn != nil {
			if err := r.gateway.SetMediaPower(ctx, s.ID, *prev.PoweredOn); err != nil {
				return err
			}
		}
		if prev.VolumePercent != nil {
			if err := r.gateway.SetMediaVolume(ctx, s.ID, *prev.VolumePercent); err != nil {
				return err
			}
		}
		if prev.Muted != nil {
			return r.gateway.SetMediaMute(ctx, s.ID, *prev.Muted)
		}
		return nil

	default:
		return fmt.Errorf("unknown snapshot type: %s", s.Type)
	}
}
