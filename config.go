// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// config.go reduces the NewEngine API footprint using functional
// options, with an optional YAML overlay for deployment settings.
// See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config contains configuration attributes set by the application
// before running the engine frame loop.
type Config struct {
	// attributes for windowed applications.
	Title string `yaml:"title"`
	W     int    `yaml:"width"`  // display width in pixels.
	H     int    `yaml:"height"` // display height in pixels.

	// command queue capacities, fixed for the engine lifetime.
	RenderQueue int `yaml:"render_queue"`
	DebugQueue  int `yaml:"debug_queue"`

	// ContentDir is the prefix every sound path must live under.
	ContentDir string `yaml:"content_dir"`

	// broker agent settings; empty BrokerURL disables the agent.
	BrokerURL string `yaml:"broker_url"`
	KeyFile   string `yaml:"key_file"`
}

// configDefaults provides reasonable defaults so the engine runs even
// if no configuration attributes are set.
var configDefaults = Config{
	Title:       "KADI",
	W:           800,
	H:           450,
	RenderQueue: RenderQueueCapacity,
	DebugQueue:  DebugQueueCapacity,
	ContentDir:  "Data",
}

// Attr defines optional application attributes that can be used to
// configure the engine.
//
//	eng, err := kadi.NewEngine(
//	    kadi.Title("Scripted Scene"),
//	    kadi.Size(900, 400),
//	    kadi.Broker("ws://localhost:8765/ws", "agent.key"),
//	)
type Attr func(*Config)

// Title sets the window title.
func Title(t string) Attr {
	return func(c *Config) { c.Title = t }
}

// Size sets the window size in pixels.
func Size(w, h int) Attr {
	return func(c *Config) { c.W, c.H = w, h }
}

// Queues overrides the command queue capacities.
func Queues(render, debug int) Attr {
	return func(c *Config) { c.RenderQueue, c.DebugQueue = render, debug }
}

// ContentDir sets the prefix sound paths are validated against.
func ContentDir(dir string) Attr {
	return func(c *Config) { c.ContentDir = dir }
}

// Broker sets the broker endpoint and the agent key file.
func Broker(url, keyFile string) Attr {
	return func(c *Config) { c.BrokerURL, c.KeyFile = url, keyFile }
}

// LoadConfig overlays values from a YAML file. Attributes passed to
// NewEngine after this one still win.
func LoadConfig(path string) Attr {
	return func(c *Config) {
		data, err := os.ReadFile(path)
		if err != nil {
			return // missing config file: keep current values.
		}
		_ = yaml.Unmarshal(data, c)
	}
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.RenderQueue < 1 || c.DebugQueue < 1 {
		return fmt.Errorf("config: queue capacities must be positive")
	}
	if c.W < 100 {
		c.W = 100
	}
	if c.H < 100 {
		c.H = 100
	}
	return nil
}
