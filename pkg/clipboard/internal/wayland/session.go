//go:build linux

package wayland

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Object IDs allocated by this client. wl_display is always 1.
const (
	objDisplay uint32 = iota + 1
	objRegistry
	objGlobalsDone
	objSeat
	objManager
	objSource
	objDevice
	objOwnedDone
)

// Requests and events used from wayland.xml and wlr-data-control-unstable-v1.
const (
	displaySync        uint16 = 0
	displayGetRegistry uint16 = 1
	registryBind       uint16 = 0
	registryGlobal     uint16 = 0
	callbackDone       uint16 = 0

	managerCreateSource uint16 = 0
	managerGetDevice    uint16 = 1
	deviceSetSelection  uint16 = 0
	sourceOffer         uint16 = 0
	sourceSend          uint16 = 0
	sourceCancelled     uint16 = 1
)

const (
	ifaceSeat    = "wl_seat"
	ifaceManager = "zwlr_data_control_manager_v1"
)

// session is one selection owned for the lifetime of a connection.
type session struct {
	c       *conn
	formats map[string][]byte
	globals map[string]uint32
}

// Serve claims the clipboard selection with every MIME type in formats and
// blocks until another client takes the selection over. Each paste request
// gets the bytes for the asked type written to the fd the compositor hands
// over.
func Serve(formats map[string][]byte) error {
	path, err := socketPath()
	if err != nil {
		return err
	}
	c, err := dial(path)
	if err != nil {
		return fmt.Errorf("wayland: connect %s: %w", path, err)
	}
	defer c.Close()

	s := &session{c: c, formats: formats, globals: map[string]uint32{}}
	if err := s.discover(); err != nil {
		return err
	}
	if err := s.own(); err != nil {
		return err
	}
	return s.serve()
}

func socketPath() (string, error) {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	runtime := os.Getenv("XDG_RUNTIME_DIR")
	if runtime == "" {
		return "", fmt.Errorf("wayland: XDG_RUNTIME_DIR not set")
	}
	return filepath.Join(runtime, display), nil
}

// discover lists the compositor globals and checks the two we need exist.
func (s *session) discover() error {
	if err := s.c.send(objDisplay, displayGetRegistry, new(request).uint(objRegistry)); err != nil {
		return err
	}
	if err := s.c.send(objDisplay, displaySync, new(request).uint(objGlobalsDone)); err != nil {
		return err
	}

	err := s.until(objGlobalsDone, func(msg message) {
		if msg.object != objRegistry || msg.opcode != registryGlobal || len(msg.args) < 4 {
			return
		}
		name := order.Uint32(msg.args)
		iface, _, err := readString(msg.args[4:])
		if err == nil {
			s.globals[iface] = name
		}
	})
	if err != nil {
		return err
	}

	if _, ok := s.globals[ifaceSeat]; !ok {
		return fmt.Errorf("wayland: %s not advertised", ifaceSeat)
	}
	if _, ok := s.globals[ifaceManager]; !ok {
		return fmt.Errorf("wayland: %s not advertised, the compositor does not support wlr-data-control", ifaceManager)
	}
	return nil
}

// own binds the globals, offers every format and sets the selection.
func (s *session) own() error {
	type call struct {
		object uint32
		opcode uint16
		args   *request
	}
	steps := []call{
		{objRegistry, registryBind, new(request).uint(s.globals[ifaceSeat]).str(ifaceSeat).uint(1).uint(objSeat)},
		{objRegistry, registryBind, new(request).uint(s.globals[ifaceManager]).str(ifaceManager).uint(2).uint(objManager)},
		{objManager, managerCreateSource, new(request).uint(objSource)},
	}
	for mime := range s.formats {
		steps = append(steps, call{objSource, sourceOffer, new(request).str(mime)})
	}
	steps = append(steps,
		call{objManager, managerGetDevice, new(request).uint(objDevice).uint(objSeat)},
		call{objDevice, deviceSetSelection, new(request).uint(objSource)},
		call{objDisplay, displaySync, new(request).uint(objOwnedDone)},
	)
	for _, step := range steps {
		if err := s.c.send(step.object, step.opcode, step.args); err != nil {
			return err
		}
	}

	return s.until(objOwnedDone, nil)
}

// until reads events until the given callback fires, passing the others
// to handle. Stray file descriptors are closed.
func (s *session) until(callback uint32, handle func(message)) error {
	for {
		msg, err := s.c.next()
		if err != nil {
			return err
		}
		closeFD(msg.fd)
		if msg.object == callback && msg.opcode == callbackDone {
			return nil
		}
		if handle != nil {
			handle(msg)
		}
	}
}

// serve answers paste requests until the selection is cancelled or the
// compositor goes away.
func (s *session) serve() error {
	for {
		msg, err := s.c.next()
		if err != nil {
			return nil
		}
		if msg.object != objSource {
			closeFD(msg.fd)
			continue
		}

		switch msg.opcode {
		case sourceSend:
			mime, _, _ := readString(msg.args)
			s.send(mime, msg.fd)
		case sourceCancelled:
			closeFD(msg.fd)
			return nil
		default:
			closeFD(msg.fd)
		}
	}
}

func (s *session) send(mime string, fd int) {
	if fd < 0 {
		return
	}
	defer closeFD(fd)
	data := s.formats[mime]
	for len(data) > 0 {
		n, err := syscall.Write(fd, data)
		if err != nil || n <= 0 {
			return
		}
		data = data[n:]
	}
}
