// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package broker connects the engine to a KADI broker as an agent:
// a long-lived, Ed25519-authenticated, JSON-RPC-framed websocket
// session. Inbound tool invocations are handed to script handlers on
// the main thread, so their effects travel the engine's usual command
// pathway.
//
// The session advances linearly on success and falls to disconnected
// from any state on error:
//
//	disconnected → connecting → connected → authenticating →
//	authenticated → registering_tools → ready
//
// There is no automatic reconnect; a dropped session stays down until
// the application dials again.
package broker

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// State is the session lifecycle position.
type State uint8

// Session states.
const (
	Disconnected State = iota
	Connecting
	Connected
	Authenticating
	Authenticated
	RegisteringTools
	Ready
)

// String names a state for logs.
func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case RegisteringTools:
		return "registering_tools"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Heartbeat timings. A missing pong forces a disconnect.
const (
	pingInterval = 30 * time.Second
	pongTimeout  = 90 * time.Second
)

// Tool describes one capability the agent offers the broker.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// ToolHandler runs a tool invocation. Handlers execute on the main
// thread during Pump; script backed handlers take the runtime lock
// internally.
type ToolHandler func(name string, args map[string]any) (any, error)

// EventHandler receives one event delivery for a subscribed topic.
type EventHandler func(topic string, data map[string]any)

// registeredTool pairs the description with its handler.
type registeredTool struct {
	tool    Tool
	handler ToolHandler
}

// Agent is the engine's broker client. The socket thread owns the
// connection and pumps the two fifo queues; the main thread drains
// incoming frames through Pump each frame. Agent state is only
// touched on the main thread apart from the state flag reads.
type Agent struct {
	adapter Adapter
	key     *AgentKey
	now     func() time.Time // injectable clock for heartbeat tests.

	state   State
	agentID string

	ids     *idTable
	pending map[uint64]string // dense id to the method awaiting reply.

	tools  map[string]registeredTool
	queued []string // tool names queued before authentication.
	subs   map[string]EventHandler

	incoming *fifo  // socket thread to main thread.
	outgoing *fifo  // main thread to socket thread.
	closer   func() // asks the socket thread to drop the connection.
	sockDown atomic.Bool

	lastPing time.Time
	lastPong time.Time
}

// NewAgent creates a disconnected agent. The adapter selects the
// protocol revision; tests pass a MockAdapter.
func NewAgent(adapter Adapter, key *AgentKey) *Agent {
	return &Agent{
		adapter:  adapter,
		key:      key,
		now:      time.Now,
		ids:      newIDTable(),
		pending:  map[uint64]string{},
		tools:    map[string]registeredTool{},
		subs:     map[string]EventHandler{},
		incoming: newFifo(),
		outgoing: newFifo(),
	}
}

// State returns the current session state.
func (a *Agent) State() State { return a.state }

// AgentID returns the broker assigned identity, empty before
// authentication completes.
func (a *Agent) AgentID() string { return a.agentID }

// RegisterTool offers a capability to the broker. Before
// authentication the registration is queued and sent as a batch once
// the session authenticates.
func (a *Agent) RegisterTool(t Tool, h ToolHandler) {
	a.tools[t.Name] = registeredTool{tool: t, handler: h}
	switch a.state {
	case Authenticated, RegisteringTools, Ready:
		a.sendRegister([]string{t.Name})
		a.state = RegisteringTools
	default:
		a.queued = append(a.queued, t.Name)
	}
}

// Subscribe asks for event deliveries on a topic.
func (a *Agent) Subscribe(topic string, h EventHandler) {
	a.subs[topic] = h
	if a.state == Ready || a.state == Authenticated {
		a.send(request(MethodSubscribe, a.nextID(MethodSubscribe), map[string]any{"topic": topic}))
	}
}

// Unsubscribe stops event deliveries on a topic.
func (a *Agent) Unsubscribe(topic string) {
	delete(a.subs, topic)
	if a.state == Ready || a.state == Authenticated {
		a.send(request(MethodUnsubscribe, a.nextID(MethodUnsubscribe), map[string]any{"topic": topic}))
	}
}

// Publish emits an event to the broker.
func (a *Agent) Publish(topic string, data map[string]any) {
	a.send(notify(MethodPublish, map[string]any{"topic": topic, "data": data}))
}

// Deliver feeds one raw inbound frame to the agent. The websocket
// transport uses it from the socket thread; alternate transports and
// tests may call it directly.
func (a *Agent) Deliver(frame []byte) { a.incoming.Push(frame) }

// Pump drains inbound frames and runs the heartbeat. Called once per
// frame on the main thread.
func (a *Agent) Pump() {
	if a.sockDown.Swap(false) {
		a.disconnect(errors.New("socket closed"))
		return
	}
	for {
		frame, ok := a.incoming.Pop()
		if !ok {
			break
		}
		m, err := a.adapter.Decode(frame)
		if err != nil {
			slog.Warn("bad broker frame", "error", err)
			a.disconnect(errors.Wrap(err, "bad frame"))
			return
		}
		a.handle(m)
	}
	a.heartbeat()
}

// connected is called by the transport once the TCP and websocket
// upgrade complete: send hello and start the authentication chain.
func (a *Agent) connected() {
	a.state = Connected
	a.lastPong = a.now()
	a.send(request(MethodHello, a.nextID(MethodHello), map[string]any{
		"protocol": a.adapter.Version(),
	}))
}

// handle advances the session for one inbound message.
func (a *Agent) handle(m *Message) {
	if m.IsReply() {
		a.handleReply(m)
		return
	}
	switch m.Method {
	case MethodInvoke:
		a.handleInvoke(m)
	case MethodPing:
		a.send(&Message{JSONRPC: jsonrpcVersion, ID: m.ID, Result: map[string]any{"pong": true}})
	case MethodPong:
		a.lastPong = a.now()
	case MethodCancel:
		slog.Info("invocation cancel ignored", "id", m.ID)
	case MethodDelivery:
		a.handleDelivery(m)
	default:
		slog.Warn("unhandled broker method", "method", m.Method)
	}
}

// handleReply matches a response to the request that awaits it.
func (a *Agent) handleReply(m *Message) {
	dense, err := a.ids.Intern(m.ID)
	if err != nil {
		a.disconnect(err)
		return
	}
	method, waiting := a.pending[dense]
	if !waiting {
		slog.Warn("unmatched broker reply", "id", m.ID)
		return
	}
	delete(a.pending, dense)
	if m.Error != nil {
		a.disconnect(errors.Errorf("%s rejected: %s", method, m.Error.Message))
		return
	}
	switch method {
	case MethodHello:
		a.authenticate(m)
	case MethodAuthenticate:
		a.authenticated(m)
	case MethodRegister:
		a.state = Ready
	case MethodPing:
		a.lastPong = a.now()
	}
}

// authenticate signs the hello nonce and sends the credentials.
func (a *Agent) authenticate(m *Message) {
	nonce, _ := m.Result["nonce"].(string)
	if nonce == "" {
		a.disconnect(errors.New("hello reply missing nonce"))
		return
	}
	pub, err := a.key.PublicDER()
	if err != nil {
		a.disconnect(err)
		return
	}
	a.state = Authenticating
	a.send(request(MethodAuthenticate, a.nextID(MethodAuthenticate), map[string]any{
		"publicKey": pub,
		"signature": a.key.Sign(nonce),
	}))
}

// authenticated stores the assigned identity and flushes any tools
// queued before authentication.
func (a *Agent) authenticated(m *Message) {
	a.agentID, _ = m.Result["agentId"].(string)
	a.state = Authenticated
	a.lastPing = a.now() // first ping one interval after authentication.
	slog.Info("broker session authenticated",
		"agent_id", a.agentID, "key", a.key.Fingerprint())
	if len(a.queued) > 0 {
		names := a.queued
		a.queued = nil
		a.state = RegisteringTools
		a.sendRegister(names)
		return
	}
	a.state = Ready
}

// handleInvoke runs a tool invocation and replies with its result or
// error, echoing the broker's request id.
func (a *Agent) handleInvoke(m *Message) {
	if _, err := a.ids.Intern(m.ID); err != nil {
		a.disconnect(err)
		return
	}
	name, _ := m.Params["toolName"].(string)
	args, _ := m.Params["arguments"].(map[string]any)
	reg, known := a.tools[name]
	if !known {
		a.send(&Message{JSONRPC: jsonrpcVersion, ID: m.ID,
			Error: &RPCError{Code: -32601, Message: "unknown tool: " + name}})
		return
	}
	result, err := reg.handler(name, args)
	if err != nil {
		a.send(&Message{JSONRPC: jsonrpcVersion, ID: m.ID,
			Error: &RPCError{Code: -32000, Message: err.Error()}})
		return
	}
	a.send(&Message{JSONRPC: jsonrpcVersion, ID: m.ID,
		Result: map[string]any{"toolName": name, "value": result}})
}

// handleDelivery routes one event to its subscription handler.
func (a *Agent) handleDelivery(m *Message) {
	topic, _ := m.Params["topic"].(string)
	if h, subscribed := a.subs[topic]; subscribed {
		data, _ := m.Params["data"].(map[string]any)
		h(topic, data)
	}
}

// heartbeat pings every pingInterval once authenticated and drops the
// session when no pong arrives inside pongTimeout.
func (a *Agent) heartbeat() {
	if a.state < Authenticated {
		return
	}
	now := a.now()
	if now.Sub(a.lastPong) > pongTimeout {
		a.disconnect(errors.New("heartbeat timeout"))
		return
	}
	if now.Sub(a.lastPing) >= pingInterval {
		a.lastPing = now
		a.send(request(MethodPing, a.nextID(MethodPing), nil))
	}
}

// sendRegister offers the named tools to the broker.
func (a *Agent) sendRegister(names []string) {
	tools := make([]any, 0, len(names))
	for _, name := range names {
		if reg, known := a.tools[name]; known {
			tools = append(tools, reg.tool)
		}
	}
	a.send(request(MethodRegister, a.nextID(MethodRegister), map[string]any{"tools": tools}))
}

// nextID allocates a request id and records the method awaiting the
// reply.
func (a *Agent) nextID(method string) uint64 {
	dense := a.ids.Next()
	a.pending[dense] = method
	return dense
}

// send encodes one frame onto the outgoing queue.
func (a *Agent) send(m *Message) {
	frame, err := a.adapter.Encode(m)
	if err != nil {
		slog.Error("encode broker frame", "error", err)
		return
	}
	a.outgoing.Push(frame)
}

// disconnect drops the session from any state. No retry policy lives
// at this layer.
func (a *Agent) disconnect(err error) {
	if a.state == Disconnected {
		return
	}
	slog.Warn("broker session disconnected", "state", a.state.String(), "error", err)
	a.state = Disconnected
	if a.closer != nil {
		a.closer()
	}
}
