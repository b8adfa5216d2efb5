// Package clipboard copies post text to the system clipboard, falling back to
// an OSC 52 terminal selection when no clipboard tool is available.
package clipboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

// ErrClipboard is returned when neither copy path worked.
var ErrClipboard = errors.New("failed to copy to clipboard")

// Copier tries the system clipboard first and the terminal second.
type Copier struct {
	// WriteAll writes to the system clipboard.
	WriteAll func(text string) error
	// Terminal receives the OSC 52 sequence; it must be a TTY.
	Terminal io.Writer
	// IsTerminal reports whether Terminal is attached to a TTY.
	IsTerminal func(w io.Writer) bool
}

// New returns a Copier wired to the real clipboard and stdout.
func New() *Copier {
	return &Copier{
		WriteAll:   clipboard.WriteAll,
		Terminal:   os.Stdout,
		IsTerminal: isTTY,
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Copy places text on the clipboard.
func (c *Copier) Copy(text string) error {
	primary := errors.New("no system clipboard")
	if c.WriteAll != nil {
		if primary = c.WriteAll(text); primary == nil {
			return nil
		}
	}

	if c.Terminal == nil || c.IsTerminal == nil || !c.IsTerminal(c.Terminal) {
		return fmt.Errorf("%w: %v; no terminal for fallback", ErrClipboard, primary)
	}
	if _, err := io.WriteString(c.Terminal, OSC52(text)); err != nil {
		return fmt.Errorf("%w: %v; fallback: %v", ErrClipboard, primary, err)
	}
	return nil
}

// OSC52 returns the escape sequence asking the terminal to set its clipboard.
func OSC52(text string) string {
	return "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
}
