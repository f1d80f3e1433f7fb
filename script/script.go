// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package script hosts the engine's Lua worker: a single gopher-lua
// state running on its own goroutine that drives the engine through
// the command queue APIs. The runtime is single threaded and
// multi-thread-access-unsafe, so every touch of the state goes through
// the worker lock — including the engine's callback dispatch.
//
// Each subsystem registers one Lua module table (entity, camera,
// audio, input, debug). Module functions validate their arguments,
// package one command, and submit it; they hold no state of their own.
// Every function returns a table shaped {ok=value} or {err=message};
// failures never raise into the engine.
package script

import (
	"fmt"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/gazed/kadi"
)

// Worker owns the Lua state and its lock. One worker is created per
// engine; it is the sole legal producer on the command queues.
type Worker struct {
	mu  sync.Mutex // the script runtime lock.
	st  *lua.LState
	eng *kadi.Engine
}

// New creates the worker, registers the subsystem modules, and leaves
// the state ready to run scripts.
func New(eng *kadi.Engine) *Worker {
	w := &Worker{st: lua.NewState(), eng: eng}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.st.SetGlobal("entity", w.entityModule())
	w.st.SetGlobal("camera", w.cameraModule())
	w.st.SetGlobal("audio", w.audioModule())
	w.st.SetGlobal("input", w.inputModule())
	w.st.SetGlobal("debug", w.debugModule())
	return w
}

// Run executes script source under the runtime lock. Intended to be
// called from the script worker goroutine.
func (w *Worker) Run(src string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.DoString(src)
}

// RunFile executes a script file under the runtime lock.
func (w *Worker) RunFile(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.DoFile(path)
}

// Close releases the Lua state. The worker is unusable afterwards.
func (w *Worker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.st.Close()
}

// callback wraps a Lua function as an engine callback. The closure
// acquires the runtime lock, then calls the function with the assigned
// id, or with nil and a message when the create failed. Script errors
// are logged and contained.
func (w *Worker) callback(fn *lua.LFunction) kadi.Callback {
	if fn == nil {
		return nil
	}
	return func(result uint64, err error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		args := []lua.LValue{lua.LNumber(result)}
		if err != nil || result == kadi.NoID {
			msg := "create failed"
			if err != nil {
				msg = err.Error()
			}
			args = []lua.LValue{lua.LNil, lua.LString(msg)}
		}
		callErr := w.st.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
		if callErr != nil {
			slog.Error("script callback failed", "error", callErr)
		}
	}
}

// Invoke calls a Lua function under the runtime lock with the given
// arguments and returns its first result. Used by the broker wiring to
// hand tool invocations to script handlers.
func (w *Worker) Invoke(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.st.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, fmt.Errorf("tool handler: %w", err)
	}
	ret := w.st.Get(-1)
	w.st.Pop(1)
	return ret, nil
}

// State returns the Lua state for callers that already hold Lock.
func (w *Worker) State() *lua.LState { return w.st }

// Lock takes the script runtime lock for external multi-call use.
func (w *Worker) Lock() { w.mu.Lock() }

// Unlock releases the script runtime lock.
func (w *Worker) Unlock() { w.mu.Unlock() }
