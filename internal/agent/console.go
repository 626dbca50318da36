// Package agent provides a console stand-in for the external voice runtime.
// It speaks the same Runtime contract the production voice service would:
// the "agent" prompts for topics on stdin, invokes the registered
// collect_news tool, and prints what it would narrate. This keeps the whole
// session loop exercisable without the speech stack.
package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/user/newsradio/internal/bridge"
)

// maxEchoChars caps how much of a tool payload is printed back.
const maxEchoChars = 2000

// ConsoleRuntime implements bridge.Runtime over stdin/stdout.
type ConsoleRuntime struct {
	in  io.Reader
	out io.Writer

	mu      sync.Mutex
	active  bool
	cancel  context.CancelFunc
	tools   *bridge.Registry
	handler bridge.EventHandler
}

// NewConsoleRuntime creates a console runtime reading topic requests from in
// and writing narration to out.
func NewConsoleRuntime(in io.Reader, out io.Writer) *ConsoleRuntime {
	return &ConsoleRuntime{in: in, out: out}
}

var _ bridge.Runtime = (*ConsoleRuntime)(nil)

// StartSession begins the scripted conversation loop.
func (c *ConsoleRuntime) StartSession(ctx context.Context, agentID string, tools *bridge.Registry, handler bridge.EventHandler) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return fmt.Errorf("session already active")
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	c.active = true
	c.cancel = cancel
	c.tools = tools
	c.handler = handler
	c.mu.Unlock()

	handler(bridge.Event{Kind: bridge.EventConnected})
	fmt.Fprintf(c.out, "[agent %s] Good morning! What topics would you like news about?\n", agentID)
	handler(bridge.Event{Kind: bridge.EventAgentMessage})

	go c.loop(loopCtx)
	return nil
}

// EndSession stops the conversation loop. Calling it with no active session
// is a no-op.
func (c *ConsoleRuntime) EndSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil
	}
	c.active = false
	c.cancel()
	return nil
}

func (c *ConsoleRuntime) loop(ctx context.Context) {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.requestNews(ctx, splitTopics(line))
	}

	// Input closed: the "remote" side hung up.
	c.mu.Lock()
	handler := c.handler
	wasActive := c.active
	c.active = false
	c.mu.Unlock()
	if wasActive && handler != nil {
		handler(bridge.Event{Kind: bridge.EventDisconnected})
	}
}

func (c *ConsoleRuntime) requestNews(ctx context.Context, topics []string) {
	c.mu.Lock()
	tools := c.tools
	handler := c.handler
	c.mu.Unlock()

	tool, ok := tools.Get("collect_news")
	if !ok {
		fmt.Fprintln(c.out, "[agent] No collect_news tool registered.")
		return
	}

	args, _ := json.Marshal(map[string][]string{"topics": topics})
	result, err := tool.Execute(ctx, args)
	if err != nil {
		fmt.Fprintf(c.out, "[agent] Tool invocation failed: %v\n", err)
		return
	}

	handler(bridge.Event{Kind: bridge.EventModeChange, Mode: "speaking"})
	if len(result) > maxEchoChars {
		result = result[:maxEchoChars] + "…"
	}
	fmt.Fprintf(c.out, "[agent] %s\n", result)
	fmt.Fprintln(c.out, "[agent] What else would you like to hear about?")
	handler(bridge.Event{Kind: bridge.EventAgentMessage})
}

func splitTopics(line string) []string {
	var topics []string
	for _, part := range strings.Split(line, ",") {
		if t := strings.TrimSpace(part); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
