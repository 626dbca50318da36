package bridge

import "context"

// EventKind enumerates the lifecycle callbacks the external voice runtime
// reports. Every kind funnels into the same handler so state transitions
// have one path regardless of trigger.
type EventKind string

const (
	EventConnected    EventKind = "connected"
	EventDisconnected EventKind = "disconnected"
	EventAgentMessage EventKind = "agent_message"
	EventModeChange   EventKind = "mode_change"
	EventRuntimeError EventKind = "runtime_error"
)

// Event is one lifecycle notification from the voice runtime.
type Event struct {
	Kind EventKind
	Mode string // set for EventModeChange ("speaking", "listening", "thinking")
	Err  error  // set for EventRuntimeError
}

// EventHandler receives runtime lifecycle events.
type EventHandler func(Event)

// Runtime is the narrow boundary to the external conversational-agent
// service. The speech stack (audio, STT/TTS, turn-taking) lives entirely
// behind it; the bridge only opens and closes sessions, hands over the tool
// registry, and listens for lifecycle events.
type Runtime interface {
	// StartSession opens a voice session with the given agent. The agent may
	// invoke registered tools for the lifetime of the session; lifecycle
	// callbacks are delivered through handler.
	StartSession(ctx context.Context, agentID string, tools *Registry, handler EventHandler) error

	// EndSession closes the active session. Must be safe to call when no
	// session is open or the session is already closing.
	EndSession(ctx context.Context) error
}
