// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package broker

import (
	"testing"
	"time"
)

// newTestAgent wires an agent to a mock adapter and a controllable
// clock, already past the transport upgrade.
func newTestAgent(t *testing.T) (*Agent, *MockAdapter, *time.Time) {
	t.Helper()
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("keygen failed: %s", err)
	}
	mock := &MockAdapter{}
	a := NewAgent(mock, key)
	now := time.Unix(1000, 0)
	a.now = func() time.Time { return now }
	return a, mock, &now
}

// deliver injects a broker message and pumps it through the agent.
func deliver(a *Agent, mock *MockAdapter, m *Message) {
	mock.Inject(m)
	a.incoming.Push([]byte("frame"))
	a.Pump()
}

// reply builds a result frame for the last sent request.
func reply(mock *MockAdapter, result map[string]any) *Message {
	sent := mock.Sent()
	last := sent[len(sent)-1]
	return &Message{JSONRPC: jsonrpcVersion, ID: float64(last.ID.(uint64)), Result: result}
}

// authenticateAgent walks a fresh agent to the ready state.
func authenticateAgent(t *testing.T, a *Agent, mock *MockAdapter) {
	t.Helper()
	a.connected()
	deliver(a, mock, reply(mock, map[string]any{"nonce": "challenge-1"}))
	deliver(a, mock, reply(mock, map[string]any{"agentId": "agent-7"}))
	if a.State() == RegisteringTools { // tools queued before auth.
		deliver(a, mock, reply(mock, map[string]any{"registered": true}))
	}
	if a.State() != Ready {
		t.Fatalf("expected ready got %s", a.State())
	}
}

// Test the full happy path: hello, signed authenticate, ready.
func TestSessionLifecycle(t *testing.T) {
	a, mock, _ := newTestAgent(t)
	if a.State() != Disconnected {
		t.Fatalf("fresh agent not disconnected")
	}

	a.connected()
	if a.State() != Connected {
		t.Fatalf("expected connected got %s", a.State())
	}
	sent := mock.Sent()
	if len(sent) != 1 || sent[0].Method != MethodHello {
		t.Fatalf("upgrade must send hello, sent %v", sent)
	}

	// hello reply carries the nonce; the agent signs and authenticates.
	deliver(a, mock, reply(mock, map[string]any{"nonce": "challenge-1"}))
	if a.State() != Authenticating {
		t.Fatalf("expected authenticating got %s", a.State())
	}
	sent = mock.Sent()
	auth := sent[len(sent)-1]
	if auth.Method != MethodAuthenticate {
		t.Fatalf("expected authenticate frame got %s", auth.Method)
	}
	sig, _ := auth.Params["signature"].(string)
	if !Verify(a.key.Public(), "challenge-1", sig) {
		t.Errorf("authenticate signature does not verify")
	}

	// authenticate reply assigns the agent id; no queued tools: ready.
	deliver(a, mock, reply(mock, map[string]any{"agentId": "agent-7"}))
	if a.State() != Ready || a.AgentID() != "agent-7" {
		t.Errorf("expected ready as agent-7, got %s %q", a.State(), a.AgentID())
	}
}

// Test that tools registered before authentication are sent as a
// batch through the registering_tools state.
func TestPreAuthToolQueue(t *testing.T) {
	a, mock, _ := newTestAgent(t)
	a.RegisterTool(Tool{Name: "spawnCube"}, func(string, map[string]any) (any, error) { return nil, nil })
	a.RegisterTool(Tool{Name: "teleport"}, func(string, map[string]any) (any, error) { return nil, nil })

	a.connected()
	deliver(a, mock, reply(mock, map[string]any{"nonce": "n"}))
	deliver(a, mock, reply(mock, map[string]any{"agentId": "a1"}))
	if a.State() != RegisteringTools {
		t.Fatalf("expected registering_tools got %s", a.State())
	}
	sent := mock.Sent()
	regFrame := sent[len(sent)-1]
	if regFrame.Method != MethodRegister {
		t.Fatalf("expected register frame got %s", regFrame.Method)
	}
	if tools, _ := regFrame.Params["tools"].([]any); len(tools) != 2 {
		t.Errorf("expected 2 queued tools got %v", regFrame.Params["tools"])
	}

	deliver(a, mock, reply(mock, map[string]any{"registered": true}))
	if a.State() != Ready {
		t.Errorf("expected ready got %s", a.State())
	}
}

// Test a tool invocation with a string request id: the handler runs
// and the result frame echoes the broker's id, interned into the same
// dense domain used for pairing.
func TestToolInvocation(t *testing.T) {
	a, mock, _ := newTestAgent(t)
	var gotArgs map[string]any
	a.RegisterTool(Tool{Name: "spawnCube"}, func(name string, args map[string]any) (any, error) {
		gotArgs = args
		return map[string]any{"spawned": true}, nil
	})
	authenticateAgent(t, a, mock)

	deliver(a, mock, &Message{
		JSONRPC: jsonrpcVersion, Method: MethodInvoke, ID: "t-1",
		Params: map[string]any{"toolName": "spawnCube", "arguments": map[string]any{"x": float64(1)}},
	})
	if gotArgs == nil || gotArgs["x"] != float64(1) {
		t.Fatalf("handler arguments wrong: %v", gotArgs)
	}
	sent := mock.Sent()
	res := sent[len(sent)-1]
	if res.ID != "t-1" || res.Result == nil || res.Error != nil {
		t.Errorf("result frame wrong: %+v", res)
	}

	// the wire id is interned stably into the dense pairing domain.
	d1, _ := a.ids.Intern("t-1")
	d2, _ := a.ids.Intern("t-1")
	if d1 == 0 || d1 != d2 {
		t.Errorf("invoke id not interned stably: %d %d", d1, d2)
	}
}

// Test an invocation for an unknown tool answers with an error frame
// and the session stays up.
func TestUnknownToolInvocation(t *testing.T) {
	a, mock, _ := newTestAgent(t)
	authenticateAgent(t, a, mock)
	deliver(a, mock, &Message{
		JSONRPC: jsonrpcVersion, Method: MethodInvoke, ID: float64(9),
		Params: map[string]any{"toolName": "nope"},
	})
	sent := mock.Sent()
	res := sent[len(sent)-1]
	if res.Error == nil || res.Error.Code != -32601 {
		t.Errorf("expected unknown tool error, got %+v", res)
	}
	if a.State() != Ready {
		t.Errorf("unknown tool dropped the session")
	}
}

// Test a failing handler produces an ability error frame.
func TestToolInvocationError(t *testing.T) {
	a, mock, _ := newTestAgent(t)
	a.RegisterTool(Tool{Name: "boom"}, func(string, map[string]any) (any, error) {
		return nil, errTest
	})
	authenticateAgent(t, a, mock)
	deliver(a, mock, &Message{
		JSONRPC: jsonrpcVersion, Method: MethodInvoke, ID: float64(3),
		Params: map[string]any{"toolName": "boom"},
	})
	sent := mock.Sent()
	if res := sent[len(sent)-1]; res.Error == nil || res.Error.Code != -32000 {
		t.Errorf("expected ability error, got %+v", res)
	}
}

// Test heartbeat: a ping goes out after the interval and a silent
// broker forces a disconnect after the timeout.
func TestHeartbeat(t *testing.T) {
	a, mock, now := newTestAgent(t)
	authenticateAgent(t, a, mock)

	*now = now.Add(pingInterval + time.Second)
	a.Pump()
	sent := mock.Sent()
	if sent[len(sent)-1].Method != MethodPing {
		t.Fatalf("expected a ping after %s", pingInterval)
	}

	// a pong resets the timeout.
	deliver(a, mock, reply(mock, map[string]any{}))
	*now = now.Add(pongTimeout - time.Second)
	a.Pump()
	if a.State() == Disconnected {
		t.Fatalf("disconnected before the pong timeout")
	}

	// silence past the timeout drops the session.
	*now = now.Add(2 * time.Second)
	a.Pump()
	if a.State() != Disconnected {
		t.Errorf("expected disconnect on heartbeat timeout, state %s", a.State())
	}
}

// Test a broker error reply drops the session from any state.
func TestErrorReplyDisconnects(t *testing.T) {
	a, mock, _ := newTestAgent(t)
	a.connected()
	deliver(a, mock, &Message{
		JSONRPC: jsonrpcVersion, ID: float64(1),
		Error: &RPCError{Code: -32600, Message: "unsupported protocol"},
	})
	if a.State() != Disconnected {
		t.Errorf("expected disconnect on hello rejection, state %s", a.State())
	}
}

// Test event subscription delivery routing.
func TestEventDelivery(t *testing.T) {
	a, mock, _ := newTestAgent(t)
	authenticateAgent(t, a, mock)
	var got map[string]any
	a.Subscribe("world.tick", func(topic string, data map[string]any) { got = data })

	deliver(a, mock, &Message{
		JSONRPC: jsonrpcVersion, Method: MethodDelivery,
		Params: map[string]any{"topic": "world.tick", "data": map[string]any{"n": float64(4)}},
	})
	if got == nil || got["n"] != float64(4) {
		t.Errorf("delivery not routed: %v", got)
	}

	// unsubscribed topics are ignored.
	got = nil
	a.Unsubscribe("world.tick")
	deliver(a, mock, &Message{
		JSONRPC: jsonrpcVersion, Method: MethodDelivery,
		Params: map[string]any{"topic": "world.tick", "data": map[string]any{"n": float64(5)}},
	})
	if got != nil {
		t.Errorf("unsubscribed delivery routed")
	}
}

// errTest backs the failing handler test.
var errTest = errorString("tool exploded")

type errorString string

func (e errorString) Error() string { return string(e) }
