package bridge

import (
	"context"
	"encoding/json"
	"testing"
)

type echoTool struct{}

func (echoTool) Name() string                { return "echo" }
func (echoTool) Description() string         { return "Echo the input" }
func (echoTool) Parameters() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (echoTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	return string(args), nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(echoTool{})

	tool, ok := r.Get("echo")
	if !ok {
		t.Fatal("expected echo tool to be registered")
	}
	if tool.Name() != "echo" {
		t.Errorf("unexpected tool name: %s", tool.Name())
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("expected lookup miss for unregistered tool")
	}

	if len(r.All()) != 1 {
		t.Errorf("expected 1 tool, got %d", len(r.All()))
	}
}

func TestBridgeRegistersCollectNews(t *testing.T) {
	env := newTestEnv(t, "agent_123")

	tool, ok := env.bridge.Registry().Get("collect_news")
	if !ok {
		t.Fatal("expected collect_news tool")
	}
	if tool.Description() == "" {
		t.Error("expected a tool description")
	}

	var schema map[string]any
	if err := json.Unmarshal(tool.Parameters(), &schema); err != nil {
		t.Fatalf("parameters are not valid JSON: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("unexpected schema type: %v", schema["type"])
	}
}
