// Package bridge owns the voice-agent session lifecycle. It starts and
// stops sessions against the external runtime, exposes the collect_news
// tool the agent invokes, and reconciles the two failure domains: a dead
// voice session puts the store in the error state, a failed collection is
// reported back to the agent as narration while the session stays live.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/newsradio/internal/collector"
	"github.com/user/newsradio/internal/session"
	"github.com/user/newsradio/internal/types"
)

// ErrNoAgentID is returned by Start when no voice-agent identifier is
// configured. The store is put in the error state; no session is attempted.
var ErrNoAgentID = errors.New("voice agent ID is not configured")

const (
	configErrorMessage  = "Voice agent ID is not configured. Set agent.id in the config file or NEWSRADIO_AGENT_ID in your environment."
	connectErrorMessage = "Failed to connect to the voice agent. Check your internet connection and try again."
)

// Bridge coordinates the external voice runtime, the collector, and the
// session store.
type Bridge struct {
	runtime   Runtime
	collector *collector.Collector
	payload   *collector.PayloadBuilder
	store     *session.Store
	agentID   string
	registry  *Registry

	// inflight rejects a second collect_news arriving before the first
	// resolves; see the tool for the narration it returns.
	inflight *semaphore.Weighted

	mu             sync.Mutex
	active         bool
	conversationID types.ConversationID
}

// New creates a Bridge. The collect_news tool is registered immediately and
// handed to the runtime on every StartSession.
func New(rt Runtime, col *collector.Collector, payload *collector.PayloadBuilder, store *session.Store, agentID string) *Bridge {
	b := &Bridge{
		runtime:   rt,
		collector: col,
		payload:   payload,
		store:     store,
		agentID:   agentID,
		registry:  NewRegistry(),
		inflight:  semaphore.NewWeighted(1),
	}
	b.registry.Register(&collectNewsTool{bridge: b})
	return b
}

// Registry returns the client tools the bridge exposes to the agent.
func (b *Bridge) Registry() *Registry {
	return b.registry
}

// ConversationID returns the identifier of the active session, or "" when
// no session is open.
func (b *Bridge) ConversationID() types.ConversationID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversationID
}

// Active reports whether a voice session is currently open.
func (b *Bridge) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Start opens a voice session. With no agent ID configured the store moves
// straight to the error state and no connection is attempted. On
// establishment failure the store carries a connectivity error; on success
// the session is live and the agent begins asking for topics.
func (b *Bridge) Start(ctx context.Context) error {
	if b.agentID == "" {
		b.store.Dispatch(session.SetError{Message: configErrorMessage})
		return ErrNoAgentID
	}

	b.store.Dispatch(session.SetState{State: types.StateStarting})

	if err := b.runtime.StartSession(ctx, b.agentID, b.registry, b.handleEvent); err != nil {
		slog.Error("voice session failed to start", "error", err)
		b.store.Dispatch(session.SetError{Message: connectErrorMessage})
		return fmt.Errorf("start voice session: %w", err)
	}

	b.mu.Lock()
	b.active = true
	b.conversationID = types.NewConversationID()
	id := b.conversationID
	b.mu.Unlock()

	b.store.Dispatch(session.SetState{State: types.StateAskingTopics})
	slog.Info("voice session started", "conversation_id", id, "agent_id", b.agentID)
	return nil
}

// Stop ends the voice session and resets the store. Termination failures
// are swallowed so stop stays idempotent: the session may already be
// closing, and the local reset must proceed regardless. The reset is
// dispatched under the bridge lock so a collection resolving concurrently
// cannot interleave its own dispatches with it.
func (b *Bridge) Stop(ctx context.Context) {
	b.mu.Lock()
	wasActive := b.active
	id := b.conversationID
	b.active = false
	b.conversationID = ""
	b.store.Dispatch(session.Reset{})
	b.mu.Unlock()

	if err := b.runtime.EndSession(ctx); err != nil {
		slog.Debug("end session", "error", err)
	}

	if wasActive {
		slog.Info("voice session stopped", "conversation_id", id)
	}
}

// handleEvent translates runtime lifecycle callbacks into store actions.
// The speaking flag tracks audio output only and is independent of the
// lifecycle state.
func (b *Bridge) handleEvent(ev Event) {
	switch ev.Kind {
	case EventConnected:
		slog.Debug("voice runtime connected")
	case EventAgentMessage, EventModeChange:
		b.store.Dispatch(session.SetSpeaking{Speaking: true})
	case EventRuntimeError:
		slog.Error("voice runtime error", "error", ev.Err)
		b.store.Dispatch(session.SetSpeaking{Speaking: false})
	case EventDisconnected:
		b.store.Dispatch(session.SetSpeaking{Speaking: false})
		b.mu.Lock()
		active := b.active
		b.mu.Unlock()
		if active {
			// External termination ends the session like an explicit stop.
			b.Stop(context.Background())
		}
	}
}

// collectNewsTool is the tool-invocation entry point the voice agent calls
// to request topic-specific news.
type collectNewsTool struct {
	bridge *Bridge
}

func (t *collectNewsTool) Name() string { return "collect_news" }

func (t *collectNewsTool) Description() string {
	return "Collect recent news items for the given topics from the listener's enabled sources"
}

func (t *collectNewsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"topics": {
				"type": "array",
				"items": {"type": "string"},
				"description": "News topics the listener asked about"
			}
		},
		"required": ["topics"]
	}`)
}

// Execute runs one collection round. Every outcome other than malformed
// arguments is expressed as a string for the agent: the JSON payload on
// success, narration guidance otherwise. Collection failures leave the
// session live and hand the turn back to the agent.
func (t *collectNewsTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("parse args: %w", err)
	}
	if len(params.Topics) == 0 {
		return "No topics were requested. Ask the listener what they would like to hear about.", nil
	}

	b := t.bridge
	if !b.inflight.TryAcquire(1) {
		// A previous invocation is still resolving. Queueing would
		// interleave two payloads into one voice turn, so reject.
		return "A previous news collection is still in progress. Ask the listener to wait a moment.", nil
	}
	defer b.inflight.Release(1)

	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return "The session has ended. The collected news was discarded.", nil
	}
	b.store.Dispatch(session.SetState{State: types.StateCollecting})
	b.store.Dispatch(session.SetCurrentTopic{Topic: params.Topics[0]})
	b.mu.Unlock()

	slog.Info("collect_news invoked", "topics", strings.Join(params.Topics, ","))
	result, err := b.collector.Collect(ctx, params.Topics)

	// The user may have stopped the session while the request was in
	// flight; a stale result must not reanimate it. The check and the
	// dispatches below hold the bridge lock so Stop's reset cannot slot
	// in between them.
	b.mu.Lock()
	if b.store.State() != types.StateCollecting {
		b.mu.Unlock()
		slog.Info("discarding stale collection result")
		return "The session has ended. The collected news was discarded.", nil
	}

	if err != nil {
		b.store.Dispatch(session.SetCurrentTopic{Topic: ""})
		b.store.Dispatch(session.SetState{State: types.StateAskingTopics})
		b.mu.Unlock()
		slog.Warn("collection failed", "error", err)
		return fmt.Sprintf(
			"Failed to collect news: %s Apologize to the listener and suggest they try again or check their settings.",
			err.Error(),
		), nil
	}

	now := time.Now()
	for _, covered := range collector.Summarize(params.Topics, result, now) {
		b.store.Dispatch(session.AddCoveredTopic{Topic: covered})
	}
	b.store.Dispatch(session.SetState{State: types.StateBriefing})
	b.mu.Unlock()

	if result.TotalItems() == 0 {
		return fmt.Sprintf(
			"No news articles found for %s. Let the listener know and suggest trying different topics or enabling more sources in Settings.",
			strings.Join(params.Topics, ", "),
		), nil
	}

	payload, err := b.payload.Build(result)
	if err != nil {
		slog.Error("payload build failed", "error", err)
		return "The collected news could not be prepared for narration. Apologize and suggest trying again.", nil
	}
	return payload, nil
}
