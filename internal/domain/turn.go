package domain

import "encoding/json"

// ChatMessage is one entry of the conversation history the client replays
// with each request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall is one structured function invocation returned by the LLM.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// TurnRequest is one user utterance, or an undo request carrying the
// snapshots of a previous turn's actions.
type TurnRequest struct {
	Message       string           `json:"message"`
	UndoSnapshots []DeviceSnapshot `json:"undoSnapshots,omitempty"`
	History       []ChatMessage    `json:"conversationHistory,omitempty"`
}

// TurnResponse is the aggregated outcome of one turn.
type TurnResponse struct {
	TurnID            string           `json:"turnId"`
	Success           bool             `json:"success"`
	Response          string           `json:"response"`
	Actions           []ExecutedAction `json:"actions"`
	WasUndo           bool             `json:"wasUndo"`
	Suggestions       []string         `json:"suggestions,omitempty"`
	NeedsConfirmation bool             `json:"needsConfirmation,omitempty"`
	ClearConversation bool             `json:"clearConversation,omitempty"`
}
