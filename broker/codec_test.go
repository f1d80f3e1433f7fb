// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package broker

import "testing"

// Test decoding the invoke frame shape the broker sends.
func TestDecodeInvoke(t *testing.T) {
	frame := `{"jsonrpc":"2.0","method":"kadi.ability.invoke","id":"t-1",` +
		`"params":{"toolName":"spawnCube","arguments":{"x":1}}}`
	m, err := V1Adapter{}.Decode([]byte(frame))
	if err != nil {
		t.Fatalf("decode failed: %s", err)
	}
	if m.Method != MethodInvoke || m.ID != "t-1" {
		t.Errorf("frame fields wrong: %+v", m)
	}
	if name := m.Params["toolName"]; name != "spawnCube" {
		t.Errorf("tool name wrong: %v", name)
	}
	args, isMap := m.Params["arguments"].(map[string]any)
	if !isMap || args["x"] != float64(1) {
		t.Errorf("arguments wrong: %v", m.Params["arguments"])
	}
}

// Test encode and decode roundtrip through the v1 adapter.
func TestCodecRoundtrip(t *testing.T) {
	out := request(MethodHello, uint64(7), map[string]any{"protocol": 1})
	data, err := V1Adapter{}.Encode(out)
	if err != nil {
		t.Fatalf("encode failed: %s", err)
	}
	in, err := V1Adapter{}.Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %s", err)
	}
	if in.Method != MethodHello || in.Params["protocol"] != float64(1) {
		t.Errorf("roundtrip lost fields: %+v", in)
	}
}

// Test that frames without the jsonrpc version are rejected.
func TestDecodeRejectsBadVersion(t *testing.T) {
	if _, err := (V1Adapter{}).Decode([]byte(`{"method":"x","id":1}`)); err == nil {
		t.Errorf("missing version accepted")
	}
	if _, err := (V1Adapter{}).Decode([]byte(`not json`)); err == nil {
		t.Errorf("malformed frame accepted")
	}
}

// Test id interning: integer and string wire ids map into one dense
// domain, stably, without collisions.
func TestIDInterning(t *testing.T) {
	ids := newIDTable()
	s1, err := ids.Intern("t-1")
	if err != nil {
		t.Fatalf("string intern failed: %s", err)
	}
	i1, err := ids.Intern(float64(42))
	if err != nil {
		t.Fatalf("int intern failed: %s", err)
	}
	if s1 == i1 {
		t.Errorf("distinct wire ids interned to one dense id")
	}
	again, _ := ids.Intern("t-1")
	if again != s1 {
		t.Errorf("repeat intern unstable: %d vs %d", again, s1)
	}

	// the original wire form survives for reply echoing.
	wire, seen := ids.Wire(s1)
	if !seen || wire != "t-1" {
		t.Errorf("wire form lost: %v", wire)
	}

	// fractional and exotic ids are rejected.
	if _, err = ids.Intern(float64(1.5)); err == nil {
		t.Errorf("fractional id accepted")
	}
	if _, err = ids.Intern([]string{"no"}); err == nil {
		t.Errorf("exotic id type accepted")
	}
}

// Test agent originated ids never collide with interned broker ids.
func TestIDNext(t *testing.T) {
	ids := newIDTable()
	a := ids.Next()
	b, _ := ids.Intern("x")
	c := ids.Next()
	if a == b || b == c || a == c {
		t.Errorf("dense ids collide: %d %d %d", a, b, c)
	}
}
