// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package broker

// codec.go frames agent traffic as JSON-RPC 2.0 messages. Request ids
// arrive as integers or strings; both are interned into one dense
// integer domain so response matching never cares which form the
// broker chose.

import (
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// jsonrpcVersion is the fixed version field on every frame.
const jsonrpcVersion = "2.0"

// Method names in the kadi broker protocol.
const (
	MethodHello        = "kadi.session.hello"
	MethodAuthenticate = "kadi.session.authenticate"
	MethodPing         = "kadi.session.ping"
	MethodPong         = "kadi.session.pong"

	MethodRegister = "kadi.capabilities.register"

	MethodInvoke = "kadi.ability.invoke"
	MethodResult = "kadi.ability.result"
	MethodError  = "kadi.ability.error"
	MethodCancel = "kadi.ability.cancel"

	MethodPublish     = "kadi.event.publish"
	MethodSubscribe   = "kadi.event.subscribe"
	MethodUnsubscribe = "kadi.event.unsubscribe"
	MethodDelivery    = "kadi.event.delivery"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Message is one JSON-RPC frame in either direction.
type Message struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method,omitempty"`
	ID      any            `json:"id,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	Result  map[string]any `json:"result,omitempty"`
	Error   *RPCError      `json:"error,omitempty"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// IsReply reports a response frame: no method, an id, and a result or
// error body.
func (m *Message) IsReply() bool {
	return m.Method == "" && m.ID != nil && (m.Result != nil || m.Error != nil)
}

// request builds an outbound request frame.
func request(method string, id any, params map[string]any) *Message {
	return &Message{JSONRPC: jsonrpcVersion, Method: method, ID: id, Params: params}
}

// notify builds an outbound notification frame (no id, no reply).
func notify(method string, params map[string]any) *Message {
	return &Message{JSONRPC: jsonrpcVersion, Method: method, Params: params}
}

// ids
// =============================================================================

// idTable interns wire ids, integer or string, into a dense integer
// domain used for response pairing. The original wire form is kept so
// replies echo exactly what the broker sent.
type idTable struct {
	mu   sync.Mutex
	next uint64
	keys map[string]uint64 // canonical wire form to dense id.
	wire map[uint64]any    // dense id back to original wire form.
}

// newIDTable is called once per agent.
func newIDTable() *idTable {
	return &idTable{keys: map[string]uint64{}, wire: map[uint64]any{}}
}

// Intern maps a wire id to its dense integer. The same wire id always
// maps to the same integer.
func (t *idTable) Intern(wireID any) (uint64, error) {
	key, err := idKey(wireID)
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if dense, seen := t.keys[key]; seen {
		return dense, nil
	}
	t.next++
	t.keys[key] = t.next
	t.wire[t.next] = wireID
	return t.next, nil
}

// Wire returns the original form for a dense id so a reply can echo
// the broker's request id byte for byte.
func (t *idTable) Wire(dense uint64) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	wireID, seen := t.wire[dense]
	return wireID, seen
}

// Next allocates a fresh dense id for an agent originated request and
// returns it as the integer wire id to send.
func (t *idTable) Next() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	key := fmt.Sprintf("i:%d", t.next)
	t.keys[key] = t.next
	t.wire[t.next] = t.next
	return t.next
}

// idKey canonicalizes the two legal wire id forms. JSON numbers decode
// as float64; fractional ids are rejected.
func idKey(wireID any) (string, error) {
	switch v := wireID.(type) {
	case string:
		return "s:" + v, nil
	case float64:
		if v != float64(int64(v)) {
			return "", errors.Errorf("fractional request id %v", v)
		}
		return fmt.Sprintf("i:%d", int64(v)), nil
	case int:
		return fmt.Sprintf("i:%d", v), nil
	case int64:
		return fmt.Sprintf("i:%d", v), nil
	case uint64:
		return fmt.Sprintf("i:%d", v), nil
	default:
		return "", errors.Errorf("unsupported request id type %T", wireID)
	}
}
