//go:build linux

package wayland

import (
	"bytes"
	"testing"
)

func TestRequestString(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"", []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"abc", []byte{4, 0, 0, 0, 'a', 'b', 'c', 0}},
		{"abcd", []byte{5, 0, 0, 0, 'a', 'b', 'c', 'd', 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		got := new(request).str(tt.in).buf
		if !bytes.Equal(got, tt.want) {
			t.Errorf("str(%q) = %v, want %v", tt.in, got, tt.want)
		}

		s, rest, err := readString(got)
		if err != nil || s != tt.in || len(rest) != 0 {
			t.Errorf("readString(%v) = %q, %v, %v", got, s, rest, err)
		}
	}
}

func TestReadStringTruncated(t *testing.T) {
	if _, _, err := readString([]byte{1, 0}); err == nil {
		t.Error("expected error for short length")
	}
	if _, _, err := readString([]byte{9, 0, 0, 0, 'a'}); err == nil {
		t.Error("expected error for short data")
	}
}

func TestFrameAndPop(t *testing.T) {
	args := new(request).uint(7).str("text/plain").buf
	c := &conn{in: append(frame(6, 0, args), frame(6, 1, nil)...), fds: []int{42}}

	msg, ok := c.pop()
	if !ok {
		t.Fatal("pop() found no message")
	}
	if msg.object != 6 || msg.opcode != 0 || msg.fd != 42 {
		t.Errorf("first message = %+v", msg)
	}
	if !bytes.Equal(msg.args, args) {
		t.Errorf("args = %v, want %v", msg.args, args)
	}

	msg, ok = c.pop()
	if !ok || msg.opcode != 1 || msg.fd != -1 || len(msg.args) != 0 {
		t.Errorf("second message = %+v, ok %v", msg, ok)
	}

	if _, ok := c.pop(); ok {
		t.Error("pop() on empty buffer returned a message")
	}
}

func TestPopWaitsForCompleteMessage(t *testing.T) {
	full := frame(2, 0, new(request).uint(1).uint(2).buf)
	c := &conn{in: full[:10]}
	if _, ok := c.pop(); ok {
		t.Fatal("pop() returned a partial message")
	}
	c.in = append(c.in, full[10:]...)
	if _, ok := c.pop(); !ok {
		t.Error("pop() did not return the completed message")
	}
}
