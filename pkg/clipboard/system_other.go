//go:build !linux

package clipboard

import atotto "github.com/atotto/clipboard"

const ServeCommand = "__clipboard-serve"

// WriteMultiFormat writes plain text only; other platforms get no extra
// formats.
func WriteMultiFormat(_ map[string][]byte, plain string) error {
	return atotto.WriteAll(plain)
}

// ServeClipboard is only meaningful on Wayland.
func ServeClipboard(map[string][]byte) error {
	return nil
}
