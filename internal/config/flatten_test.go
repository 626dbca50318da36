package config

import "testing"

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	nested := map[string]any{
		"data_dir": "/tmp/x",
		"backend": map[string]any{
			"url": "http://localhost:8000",
		},
		"sources": map[string]any{
			"rss":     true,
			"twitter": true,
			"reddit":  false,
		},
	}

	flat := Flatten(nested)
	if flat["backend.url"] != "http://localhost:8000" {
		t.Errorf("expected backend.url, got %v", flat["backend.url"])
	}
	if flat["sources.reddit"] != false {
		t.Errorf("expected sources.reddit = false, got %v", flat["sources.reddit"])
	}
	if _, ok := flat["backend"]; ok {
		t.Error("nested key should not survive flattening")
	}

	back := Unflatten(flat)
	backend, ok := back["backend"].(map[string]any)
	if !ok {
		t.Fatal("expected backend to unflatten into a map")
	}
	if backend["url"] != "http://localhost:8000" {
		t.Errorf("round trip lost backend.url: %v", backend["url"])
	}
}

func TestMaskSecrets(t *testing.T) {
	flat := map[string]any{
		"telegram.token": "1234567890abcdef",
		"agent.id":       "ab",
		"backend.url":    "http://localhost:8000",
	}

	masked := MaskSecrets(flat)
	if masked["telegram.token"] != "***cdef" {
		t.Errorf("expected masked token, got %v", masked["telegram.token"])
	}
	if masked["agent.id"] != "***" {
		t.Errorf("expected short secret fully masked, got %v", masked["agent.id"])
	}
	if masked["backend.url"] != "http://localhost:8000" {
		t.Errorf("non-secret value should be untouched, got %v", masked["backend.url"])
	}
}

func TestMaskSecrets_EmptyValue(t *testing.T) {
	flat := map[string]any{"telegram.token": ""}
	masked := MaskSecrets(flat)
	if masked["telegram.token"] != "" {
		t.Errorf("empty secret should stay empty, got %v", masked["telegram.token"])
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("telegram.token") {
		t.Error("telegram.token should be secret")
	}
	if IsSecretKey("backend.url") {
		t.Error("backend.url should not be secret")
	}
}
