package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"home-command/internal/domain"
)

// Orchestrator drives one user turn end to end: directory build, LLM
// invocation, sequential tool-call dispatch, response assembly. Each turn
// gets its own directory snapshot and modified set; nothing is shared
// across concurrent turns.
type Orchestrator struct {
	builder  *DirectoryBuilder
	llm      FunctionCaller
	lights   *LightsExecutor
	climate  *ClimateExecutor
	media    *MediaExecutor
	scenes   *SceneExecutor
	restorer *Restorer
	logger   *slog.Logger
}

func NewOrchestrator(source StateSource, gateway DeviceGateway, llm FunctionCaller, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		builder:  NewDirectoryBuilder(source, logger),
		llm:      llm,
		lights:   NewLightsExecutor(gateway, logger),
		climate:  NewClimateExecutor(gateway, logger),
		media:    NewMediaExecutor(gateway, logger),
		scenes:   NewSceneExecutor(gateway, logger),
		restorer: NewRestorer(gateway, logger),
		logger:   logger,
	}
}

// RunTurn never returns an error: every failure becomes a response the
// client can show. An undo request bypasses the LLM entirely.
func (o *Orchestrator) RunTurn(ctx context.Context, req domain.TurnRequest) domain.TurnResponse {
	turnID := uuid.NewString()
	logger := o.logger.With("turn_id", turnID)

	if len(req.UndoSnapshots) > 0 {
		logger.Info("undo requested", "snapshots", len(req.UndoSnapshots))
		res := o.restorer.Restore(ctx, req.UndoSnapshots)
		return domain.TurnResponse{
			TurnID:   turnID,
			Success:  res.Success,
			Response: res.Message,
			Actions:  []domain.ExecutedAction{},
			WasUndo:  true,
		}
	}

	dir := o.builder.Build(ctx)
	prompt := systemPrompt + "\n\nCurrent device state:\n" + Summary(dir)

	result, err := o.llm.Call(ctx, prompt, req.History, req.Message, Tools())
	if err != nil {
		logger.Error("llm call failed", "error", err)
		return domain.TurnResponse{
			TurnID:   turnID,
			Response: "Sorry, I couldn't process that command right now.",
			Actions:  []domain.ExecutedAction{},
		}
	}

	if len(result.ToolCalls) == 0 {
		return domain.TurnResponse{
			TurnID:   turnID,
			Success:  true,
			Response: result.Text,
			Actions:  []domain.ExecutedAction{},
		}
	}

	// Dispatch is strictly sequential: later calls' minimal-mutation logic
	// depends on the modified set reflecting every earlier call.
	modified := domain.NewModifiedSet()
	actions := []domain.ExecutedAction{}
	var messages []string
	var suggestions []string
	allSucceeded := true

	for _, call := range result.ToolCalls {
		logger.Info("dispatching tool call", "function", call.Name)

		switch call.Name {
		case FuncControlLights:
			var args LightsArgs
			if !parseArgs(logger, call, &args) {
				continue
			}
			res := o.lights.Execute(ctx, args, dir, modified)
			actions = append(actions, executedAction("lights", call, res.Snapshots))
			messages = append(messages, res.Message)
			allSucceeded = allSucceeded && res.Success
			// Lighting is the only family whose snapshots feed the
			// modified set: its skip logic is what goes wrong on stale
			// directory state.
			modified.AddSnapshots(res.Snapshots)

		case FuncControlClimate:
			var args ClimateArgs
			if !parseArgs(logger, call, &args) {
				continue
			}
			res := o.climate.Execute(ctx, args, dir)
			actions = append(actions, executedAction("climate", call, res.Snapshots))
			messages = append(messages, res.Message)
			allSucceeded = allSucceeded && res.Success

		case FuncControlMedia:
			var args MediaArgs
			if !parseArgs(logger, call, &args) {
				continue
			}
			res := o.media.Execute(ctx, args, dir)
			actions = append(actions, executedAction("media", call, res.Snapshots))
			messages = append(messages, res.Message)
			allSucceeded = allSucceeded && res.Success

		case FuncActivateScene:
			var args SceneArgs
			if !parseArgs(logger, call, &args) {
				continue
			}
			res := o.scenes.Execute(ctx, args, dir)
			actions = append(actions, executedAction("scene", call, res.Snapshots))
			messages = append(messages, res.Message)
			allSucceeded = allSucceeded && res.Success

		case FuncProvideSuggestions:
			var args struct {
				Suggestions []string `json:"suggestions"`
			}
			if parseArgs(logger, call, &args) {
				suggestions = append(suggestions, args.Suggestions...)
			}

		case FuncRequestConfirmation:
			var args struct {
				Prompt string `json:"prompt"`
			}
			parseArgs(logger, call, &args)
			if args.Prompt == "" {
				args.Prompt = "Are you sure you want to do that?"
			}
			// Short-circuit: remaining calls are not processed.
			return domain.TurnResponse{
				TurnID:            turnID,
				Success:           true,
				Response:          args.Prompt,
				Actions:           actions,
				NeedsConfirmation: true,
			}

		case FuncResetConversation:
			return domain.TurnResponse{
				TurnID:            turnID,
				Success:           true,
				Response:          "Okay, starting fresh. What would you like to do?",
				Actions:           actions,
				ClearConversation: true,
			}

		default:
			logger.Warn("llm requested unknown function", "function", call.Name)
			messages = append(messages, fmt.Sprintf("Unknown function: %s.", call.Name))
		}
	}

	response := strings.Join(messages, " ")
	if response == "" {
		response = result.Text
	}

	return domain.TurnResponse{
		TurnID:      turnID,
		Success:     allSucceeded,
		Response:    response,
		Actions:     actions,
		Suggestions: suggestions,
	}
}

// parseArgs decodes a tool call's JSON arguments. A malformed call is
// skipped, not fatal to the turn.
func parseArgs(logger *slog.Logger, call domain.ToolCall, dst any) bool {
	if len(call.Arguments) == 0 {
		return true
	}
	if err := json.Unmarshal(call.Arguments, dst); err != nil {
		logger.Warn("malformed tool arguments, skipping call",
			"function", call.Name, "error", err)
		return false
	}
	return true
}

func executedAction(actionType string, call domain.ToolCall, snaps []domain.DeviceSnapshot) domain.ExecutedAction {
	return domain.ExecutedAction{
		Type:         actionType,
		FunctionName: call.Name,
		Args:         call.Arguments,
		Snapshots:    snaps,
	}
}
