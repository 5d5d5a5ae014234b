package application

// Function names the LLM may call. Dispatch is a closed switch in the
// orchestrator: adding a family here without a case there won't compile
// into behavior silently, it falls through to the unknown-function result.
const (
	FuncControlLights       = "control_lights"
	FuncControlClimate      = "control_climate"
	FuncControlMedia        = "control_media"
	FuncActivateScene       = "activate_scene"
	FuncProvideSuggestions  = "provide_suggestions"
	FuncRequestConfirmation = "request_confirmation"
	FuncResetConversation   = "reset_conversation"
)

const systemPrompt = `You are a home assistant controlling a multi-room installation through the provided tools.

Rules:
- Use the tools to act on the user's request; never claim to have done something without calling a tool.
- Use room, area, and device names exactly as they appear in the device context.
- A request may need several tool calls; issue them in the order they should run.
- If a request is destructive or ambiguous, call request_confirmation instead of acting.
- If the user asks to start over, call reset_conversation.
- After acting, you may call provide_suggestions with short follow-up commands the user might want.
- If no tool applies, just answer in plain text.`

// Tools is the fixed tool schema sent to the LLM on every turn.
func Tools() []ToolSpec {
	roomProps := map[string]any{
		"room": map[string]any{"type": "string", "description": "Room name to target"},
		"area": map[string]any{"type": "string", "description": "Area name to target"},
	}

	lightProps := map[string]any{
		"action": map[string]any{
			"type": "string",
			"enum": []string{"on", "off", "set_brightness"},
		},
		"light_name": map[string]any{"type": "string", "description": "Light name or partial name"},
		"brightness": map[string]any{"type": "integer", "description": "Brightness percent 0-100"},
	}
	for k, v := range roomProps {
		lightProps[k] = v
	}

	climateProps := map[string]any{
		"action": map[string]any{
			"type": "string",
			"enum": []string{"set_temperature", "set_mode", "set_fan_mode"},
		},
		"temperature": map[string]any{"type": "integer", "description": "Target temperature in °F"},
		"mode":        map[string]any{"type": "string", "enum": []string{"off", "heat", "cool", "auto"}},
		"fan_mode":    map[string]any{"type": "string", "enum": []string{"auto", "on"}},
	}
	for k, v := range roomProps {
		climateProps[k] = v
	}

	mediaProps := map[string]any{
		"action": map[string]any{
			"type": "string",
			"enum": []string{"power_on", "power_off", "set_volume", "mute", "unmute", "select_source"},
		},
		"volume": map[string]any{"type": "integer", "description": "Volume percent 0-100"},
		"source": map[string]any{"type": "string", "description": "Source name, e.g. Apple TV"},
	}
	for k, v := range roomProps {
		mediaProps[k] = v
	}

	return []ToolSpec{
		{
			Name:        FuncControlLights,
			Description: "Turn lights on or off, or set their brightness.",
			Schema: map[string]any{
				"type":       "object",
				"properties": lightProps,
				"required":   []string{"action"},
			},
		},
		{
			Name:        FuncControlClimate,
			Description: "Set thermostat temperature, mode, or fan mode.",
			Schema: map[string]any{
				"type":       "object",
				"properties": climateProps,
				"required":   []string{"action"},
			},
		},
		{
			Name:        FuncControlMedia,
			Description: "Control media room power, volume, mute, or source.",
			Schema: map[string]any{
				"type":       "object",
				"properties": mediaProps,
				"required":   []string{"action"},
			},
		},
		{
			Name:        FuncActivateScene,
			Description: "Activate a lighting scene by name.",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"scene_name": map[string]any{"type": "string"},
					"room":       map[string]any{"type": "string"},
				},
				"required": []string{"scene_name"},
			},
		},
		{
			Name:        FuncProvideSuggestions,
			Description: "Offer short follow-up commands the user might want next.",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"suggestions": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []string{"suggestions"},
			},
		},
		{
			Name:        FuncRequestConfirmation,
			Description: "Ask the user to confirm before acting on a destructive or ambiguous request.",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"prompt": map[string]any{"type": "string", "description": "What to ask the user"},
				},
			},
		},
		{
			Name:        FuncResetConversation,
			Description: "Clear the conversation and start over.",
			Schema:      map[string]any{"type": "object", "properties": map[string]any{}},
		},
	}
}
