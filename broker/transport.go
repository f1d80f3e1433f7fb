// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package broker

// transport.go gives the agent a live socket. One dedicated goroutine
// pair owns the websocket connection: the reader pushes parsed frames
// onto the incoming fifo, the writer drains the outgoing fifo. The
// websocket library handles RFC 6455 framing, client masking, and
// close frames.

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// dialTimeout bounds the TCP plus upgrade handshake.
const dialTimeout = 10 * time.Second

// Dial connects and upgrades to the broker endpoint, starts the
// socket goroutines, and sends hello. The agent moves to Connecting,
// then Connected on upgrade success.
func (a *Agent) Dial(url string) error {
	if a.state != Disconnected {
		return errors.Errorf("dial in state %s", a.state)
	}
	a.state = Connecting
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		a.state = Disconnected
		return errors.Wrap(err, "broker dial")
	}

	done := make(chan struct{})
	a.closer = func() {
		select {
		case <-done:
		default:
			close(done)
		}
		deadline := time.Now().Add(time.Second)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = conn.Close()
	}
	go a.readLoop(conn, done)
	go a.writeLoop(conn, done)
	a.connected()
	return nil
}

// Close tears the session down gracefully: a CLOSE frame, then the
// socket.
func (a *Agent) Close() {
	a.disconnect(errors.New("closed by application"))
}

// readLoop blocks inside the OS socket primitives and feeds the
// incoming fifo. A read error of any kind ends the session.
func (a *Agent) readLoop(conn *websocket.Conn, done chan struct{}) {
	for {
		kind, frame, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
			default:
				slog.Warn("broker read failed", "error", err)
				close(done)
			}
			a.sockDown.Store(true)
			return
		}
		if kind != websocket.TextMessage {
			continue // protocol frames are JSON text.
		}
		a.Deliver(frame)
	}
}

// writeLoop drains the outgoing fifo onto the socket.
func (a *Agent) writeLoop(conn *websocket.Conn, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-a.outgoing.Wait():
			for {
				frame, ok := a.outgoing.Pop()
				if !ok {
					break
				}
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					slog.Warn("broker write failed", "error", err)
					select {
					case <-done:
					default:
						close(done)
					}
					a.sockDown.Store(true)
					return
				}
			}
		}
	}
}
