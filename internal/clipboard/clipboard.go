// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 terminal escape when no native clipboard is reachable.
package clipboard

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Method reports how text reached the clipboard.
type Method int

// Copy methods.
const (
	Native Method = iota
	Terminal
)

func (m Method) String() string {
	if m == Terminal {
		return "terminal"
	}
	return "system"
}

// Copier writes to the clipboard.
type Copier struct {
	// Native reports whether a system clipboard command is available.
	Native bool
	// Terminal receives the OSC 52 sequence when Native is false.
	Terminal io.Writer
	write    func(string) error
}

// New returns a copier for the current environment.
func New() *Copier {
	return &Copier{
		Native:   !clipboard.Unsupported,
		Terminal: os.Stderr,
		write:    clipboard.WriteAll,
	}
}

// Write copies text, preferring the system clipboard.
func (c *Copier) Write(text string) (Method, error) {
	if c.Native {
		if err := c.write(text); err == nil {
			return Native, nil
		}
	}
	if c.Terminal == nil {
		return Native, fmt.Errorf("no clipboard available")
	}
	if _, err := osc52.New(text).WriteTo(c.Terminal); err != nil {
		return Terminal, fmt.Errorf("writing terminal clipboard sequence: %w", err)
	}
	return Terminal, nil
}

// Write copies text using a copier for the current environment.
func Write(text string) (Method, error) {
	return New().Write(text)
}
