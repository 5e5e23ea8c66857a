//go:build linux

package clipboard

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"syscall"

	"gridclip/pkg/clipboard/internal/wayland"

	atotto "github.com/atotto/clipboard"
)

// ServeCommand is the hidden subcommand that owns a Wayland selection.
const ServeCommand = "__clipboard-serve"

// WriteMultiFormat puts plain and every entry of formats on the clipboard.
// On Wayland it spawns a detached clipboard owner process that serves all
// formats on demand; on X11 only the plain text is written.
func WriteMultiFormat(formats map[string][]byte, plain string) error {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return atotto.WriteAll(plain)
	}
	return spawnClipboardServer(withPlainText(formats, plain))
}

func withPlainText(formats map[string][]byte, plain string) map[string][]byte {
	all := make(map[string][]byte, len(formats)+4)
	for mime, data := range formats {
		all[mime] = data
	}
	for _, mime := range []string{"text/plain;charset=utf-8", "text/plain", "UTF8_STRING", "STRING"} {
		all[mime] = []byte(plain)
	}
	return all
}

func spawnClipboardServer(formats map[string][]byte) error {
	payload, err := json.Marshal(formats)
	if err != nil {
		return err
	}

	cmd := exec.Command(os.Args[0], ServeCommand)
	cmd.Stdin = bytes.NewReader(payload)
	// A new session keeps the owner alive after the parent exits.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd.Start()
}

// ServeClipboard owns the Wayland selection until another client replaces
// it. formats is what WriteMultiFormat handed to the child process.
func ServeClipboard(formats map[string][]byte) error {
	return wayland.Serve(formats)
}
