//go:build linux

// Package wayland owns a wlr-data-control selection on behalf of a process
// that wants to offer several MIME types at once.
package wayland

import (
	"encoding/binary"
	"errors"
	"syscall"
)

var (
	order = binary.LittleEndian

	errShortString = errors.New("wayland: truncated string argument")
	errClosed      = errors.New("wayland: connection closed by compositor")
)

// message is one decoded event. fd is -1 unless the compositor passed a
// file descriptor with it.
type message struct {
	object uint32
	opcode uint16
	args   []byte
	fd     int
}

// request builds the argument list of an outgoing message.
type request struct {
	buf []byte
}

func (r *request) uint(v uint32) *request {
	r.buf = order.AppendUint32(r.buf, v)
	return r
}

// str appends a length-prefixed, NUL-terminated, 4-byte aligned string.
func (r *request) str(s string) *request {
	n := len(s) + 1
	r.buf = order.AppendUint32(r.buf, uint32(n))
	r.buf = append(r.buf, s...)
	r.buf = append(r.buf, make([]byte, (n+3)&^3-len(s))...)
	return r
}

// frame prefixes args with the object ID and the size/opcode word.
func frame(object uint32, opcode uint16, args []byte) []byte {
	size := 8 + len(args)
	out := make([]byte, 0, size)
	out = order.AppendUint32(out, object)
	out = order.AppendUint32(out, uint32(size)<<16|uint32(opcode))
	return append(out, args...)
}

// readString decodes a string argument and returns the remaining bytes.
func readString(b []byte) (string, []byte, error) {
	if len(b) < 4 {
		return "", b, errShortString
	}
	n := int(order.Uint32(b))
	b = b[4:]
	if n == 0 {
		return "", b, nil
	}
	padded := (n + 3) &^ 3
	if len(b) < padded {
		return "", b, errShortString
	}
	return string(b[:n-1]), b[padded:], nil
}

// conn is a client socket with an input buffer for partial reads.
type conn struct {
	fd  int
	in  []byte
	fds []int
}

func dial(path string) (*conn, error) {
	fd, err := syscall.Socket(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	if err := syscall.Connect(fd, &syscall.SockaddrUnix{Name: path}); err != nil {
		_ = syscall.Close(fd)
		return nil, err
	}
	return &conn{fd: fd}, nil
}

func (c *conn) Close() error {
	for _, fd := range c.fds {
		_ = syscall.Close(fd)
	}
	return syscall.Close(c.fd)
}

func (c *conn) send(object uint32, opcode uint16, args *request) error {
	var payload []byte
	if args != nil {
		payload = args.buf
	}
	_, err := syscall.Write(c.fd, frame(object, opcode, payload))
	return err
}

// next returns the next complete event, reading from the socket as needed.
func (c *conn) next() (message, error) {
	for {
		if msg, ok := c.pop(); ok {
			return msg, nil
		}
		if err := c.fill(); err != nil {
			return message{fd: -1}, err
		}
	}
}

func (c *conn) pop() (message, bool) {
	if len(c.in) < 8 {
		return message{}, false
	}
	word := order.Uint32(c.in[4:])
	size := int(word >> 16)
	if size < 8 || len(c.in) < size {
		return message{}, false
	}

	msg := message{
		object: order.Uint32(c.in),
		opcode: uint16(word),
		args:   append([]byte(nil), c.in[8:size]...),
		fd:     -1,
	}
	c.in = c.in[size:]
	if len(c.fds) > 0 {
		msg.fd, c.fds = c.fds[0], c.fds[1:]
	}
	return msg, true
}

func (c *conn) fill() error {
	buf := make([]byte, 4096)
	oob := make([]byte, syscall.CmsgSpace(8*4))
	n, oobn, _, _, err := syscall.Recvmsg(c.fd, buf, oob, 0)
	if err != nil {
		return err
	}
	if n == 0 {
		return errClosed
	}
	c.in = append(c.in, buf[:n]...)

	if oobn == 0 {
		return nil
	}
	cmsgs, err := syscall.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return nil
	}
	for i := range cmsgs {
		if fds, err := syscall.ParseUnixRights(&cmsgs[i]); err == nil {
			c.fds = append(c.fds, fds...)
		}
	}
	return nil
}

func closeFD(fd int) {
	if fd >= 0 {
		_ = syscall.Close(fd)
	}
}
