// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package script

// tools.go connects broker tool invocations to script handlers.
// An invocation arrives on the main thread during the agent pump,
// takes the runtime lock, runs the Lua handler, and its effects reach
// the engine through the same command queues every script call uses.

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/gazed/kadi/broker"
)

// BindAgent registers a tools module on the worker so scripts can
// offer capabilities to the broker:
//
//	tools.register("spawnCube", "spawn one cube", function(args)
//	    entity.createMesh("cube", args.x, args.y, args.z, 1, 255,255,255,255)
//	    return {spawned=true}
//	end)
//
// The handler's returned table becomes the invocation result; a Lua
// error becomes an ability error frame.
func BindAgent(w *Worker, agent *broker.Agent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mod := w.st.NewTable()
	w.st.SetField(mod, "register", w.st.NewFunction(func(ls *lua.LState) int {
		name := ls.CheckString(1)
		desc := ls.CheckString(2)
		fn := ls.CheckFunction(3)
		if name == "" {
			return fail(ls, "tool name is empty")
		}
		agent.RegisterTool(broker.Tool{Name: name, Description: desc}, w.toolHandler(fn))
		return okTrue(ls)
	}))
	w.st.SetGlobal("tools", mod)
}

// toolHandler wraps a Lua function as a broker tool handler.
func (w *Worker) toolHandler(fn *lua.LFunction) broker.ToolHandler {
	return func(name string, args map[string]any) (any, error) {
		w.mu.Lock()
		table := toLua(w.st, args)
		w.mu.Unlock()
		ret, err := w.Invoke(fn, table)
		if err != nil {
			return nil, err
		}
		return fromLua(ret), nil
	}
}

// toLua converts invocation arguments to a Lua table.
func toLua(ls *lua.LState, args map[string]any) *lua.LTable {
	t := ls.NewTable()
	for key, val := range args {
		t.RawSetString(key, toLuaValue(ls, val))
	}
	return t
}

// toLuaValue converts one decoded JSON value.
func toLuaValue(ls *lua.LState, val any) lua.LValue {
	switch v := val.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case []any:
		t := ls.NewTable()
		for _, item := range v {
			t.Append(toLuaValue(ls, item))
		}
		return t
	case map[string]any:
		return toLua(ls, v)
	}
	return lua.LNil
}

// fromLua converts a handler result back to plain values for the
// result frame.
func fromLua(val lua.LValue) any {
	switch v := val.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		// array part, else map.
		if v.Len() > 0 {
			out := make([]any, 0, v.Len())
			for i := 1; i <= v.Len(); i++ {
				out = append(out, fromLua(v.RawGetInt(i)))
			}
			return out
		}
		out := map[string]any{}
		v.ForEach(func(key, item lua.LValue) {
			out[lua.LVAsString(key)] = fromLua(item)
		})
		return out
	}
	return nil
}
