package application

import (
	"context"
	"fmt"
	"log/slog"

	"home-command/internal/domain"
)

// SceneArgs are the parsed arguments of an activate_scene tool call.
type SceneArgs struct {
	SceneName string `json:"scene_name"`
	Room      string `json:"room,omitempty"`
}

type SceneExecutor struct {
	gateway DeviceGateway
	logger  *slog.Logger
}

func NewSceneExecutor(gateway DeviceGateway, logger *slog.Logger) *SceneExecutor {
	return &SceneExecutor{gateway: gateway, logger: logger}
}

// Execute recalls a scene by name. The processor doesn't expose which
// devices a scene touches, so the snapshot covers the entire light
// population; undoing a scene restores a sane lighting baseline.
func (e *SceneExecutor) Execute(ctx context.Context, args SceneArgs, dir *domain.Directory) ExecResult {
	scene, ok := MatchScene(dir, args.SceneName, args.Room)
	if !ok {
		return ExecResult{
			NoMatch: true,
			Message: fmt.Sprintf("I couldn't find a scene called '%s'.", args.SceneName),
		}
	}

	snapshots := make([]domain.DeviceSnapshot, 0, len(dir.Lights))
	for _, l := range dir.Lights {
		snapshots = append(snapshots, domain.DeviceSnapshot{
			ID:       l.ID,
			Type:     domain.DeviceTypeLight,
			Previous: domain.PreviousState{Level: intPtr(l.Level)},
		})
	}

	err := e.gateway.RecallScene(ctx, scene.ID)
	if err != nil {
		e.logger.Warn("scene recall failed", "scene", scene.Name, "error", err)
		return ExecResult{
			Message:   fmt.Sprintf("Couldn't activate the '%s' scene.", scene.Name),
			Snapshots: snapshots,
			Outcomes:  []DeviceOutcome{{ID: scene.ID, Sent: true}},
		}
	}

	return ExecResult{
		Success:   true,
		Message:   fmt.Sprintf("Activated the '%s' scene.", scene.Name),
		Snapshots: snapshots,
		Outcomes:  []DeviceOutcome{{ID: scene.ID, Sent: true, OK: true}},
	}
}
