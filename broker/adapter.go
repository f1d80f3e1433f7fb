// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package broker

// adapter.go abstracts the wire encoding behind a protocol adapter so
// the protocol version can be swapped without touching the session
// state machine. The mock adapter stands in for a broker during tests.

import (
	"sync"

	"github.com/pkg/errors"
)

// Adapter encodes and decodes protocol frames.
type Adapter interface {
	Version() int
	Encode(m *Message) ([]byte, error)
	Decode(data []byte) (*Message, error)
}

// V1Adapter speaks JSON-RPC 2.0 text frames.
type V1Adapter struct{}

// Version identifies the protocol revision.
func (V1Adapter) Version() int { return 1 }

// Encode marshals one frame.
func (V1Adapter) Encode(m *Message) ([]byte, error) {
	data, err := codec.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode frame")
	}
	return data, nil
}

// Decode unmarshals one frame, rejecting anything that is not
// JSON-RPC 2.0.
func (V1Adapter) Decode(data []byte) (*Message, error) {
	m := &Message{}
	if err := codec.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(err, "decode frame")
	}
	if m.JSONRPC != jsonrpcVersion {
		return nil, errors.Errorf("unsupported jsonrpc version %q", m.JSONRPC)
	}
	return m, nil
}

// MockAdapter
// =============================================================================

// MockAdapter records every encoded message and replays injected
// responses on decode. Tests drive the session state machine with it
// instead of a live broker.
type MockAdapter struct {
	mu       sync.Mutex
	sent     []*Message
	injected []*Message
}

// Version identifies the mock.
func (*MockAdapter) Version() int { return 0 }

// Encode records the outbound message. The returned bytes are a
// placeholder; nothing reads them.
func (a *MockAdapter) Encode(m *Message) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, m)
	return []byte(m.Method), nil
}

// Decode replays the next injected response, ignoring the input.
func (a *MockAdapter) Decode([]byte) (*Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.injected) == 0 {
		return nil, errors.New("mock adapter: no injected response")
	}
	m := a.injected[0]
	a.injected = a.injected[1:]
	return m, nil
}

// Inject queues a response for a later Decode.
func (a *MockAdapter) Inject(m *Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.injected = append(a.injected, m)
}

// Sent returns the recorded outbound messages in order.
func (a *MockAdapter) Sent() []*Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Message, len(a.sent))
	copy(out, a.sent)
	return out
}
