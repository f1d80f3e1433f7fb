// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

import (
	"os"
	"path/filepath"
	"testing"
)

// Test defaults, option order, and the YAML overlay.
func TestConfig(t *testing.T) {
	eng, err := NewEngine()
	if err != nil {
		t.Fatalf("default engine failed: %s", err)
	}
	cfg := eng.Config()
	if cfg.RenderQueue != RenderQueueCapacity || cfg.DebugQueue != DebugQueueCapacity {
		t.Errorf("default queue capacities wrong: %+v", cfg)
	}
	if cfg.ContentDir != "Data" {
		t.Errorf("default content dir wrong: %s", cfg.ContentDir)
	}

	// a later attribute wins over an earlier one.
	eng, err = NewEngine(Title("one"), Title("two"), Size(900, 400))
	if err != nil {
		t.Fatalf("engine failed: %s", err)
	}
	if cfg = eng.Config(); cfg.Title != "two" || cfg.W != 900 {
		t.Errorf("attribute ordering wrong: %+v", cfg)
	}

	// zero capacities are rejected.
	if _, err = NewEngine(Queues(0, 10)); err == nil {
		t.Errorf("zero queue capacity accepted")
	}
}

// Test loading deployment settings from a YAML file.
func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	yaml := "title: Scripted Scene\nrender_queue: 64\nbroker_url: ws://localhost:8765/ws\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config failed: %s", err)
	}

	eng, err := NewEngine(LoadConfig(path), Queues(32, 16))
	if err != nil {
		t.Fatalf("engine failed: %s", err)
	}
	cfg := eng.Config()
	if cfg.Title != "Scripted Scene" || cfg.BrokerURL != "ws://localhost:8765/ws" {
		t.Errorf("yaml values not loaded: %+v", cfg)
	}
	if cfg.RenderQueue != 32 {
		t.Errorf("later attribute should override the file: %d", cfg.RenderQueue)
	}

	// a missing file keeps current values.
	eng, err = NewEngine(LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")))
	if err != nil {
		t.Fatalf("engine failed: %s", err)
	}
	if eng.Config().Title != "KADI" {
		t.Errorf("missing config file changed defaults")
	}
}
