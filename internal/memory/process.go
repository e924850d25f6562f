package memory

import (
	"fmt"
	"strings"
)

// Process is an attached foreign process. It is safe to read from several
// goroutines; each Read is a single OS call.
type Process struct {
	pid     int
	name    string
	modules []Module
	h       handle
}

// Attach finds a running process by executable name and opens it for
// reading. Name matching is case-insensitive. ErrProcessNotFound is returned
// when nothing matches.
func Attach(name string) (*Process, error) {
	pid, err := findProcess(name)
	if err != nil {
		return nil, err
	}

	h, err := openProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("opening process %d: %w", pid, err)
	}

	modules, err := listModules(pid, h)
	if err != nil {
		closeHandle(h)
		return nil, fmt.Errorf("enumerating modules of %d: %w", pid, err)
	}
	if len(modules) == 0 {
		closeHandle(h)
		return nil, fmt.Errorf("process %d has no modules: %w", pid, ErrProcessNotFound)
	}

	return &Process{pid: pid, name: name, modules: modules, h: h}, nil
}

// PID returns the operating system process id.
func (p *Process) PID() int { return p.pid }

// Name returns the name the process was attached by.
func (p *Process) Name() string { return p.name }

// Modules returns the loaded images, main executable first.
func (p *Process) Modules() []Module { return p.modules }

// Base returns the load address of the main executable.
func (p *Process) Base() uint64 { return p.modules[0].Base }

// ReadMemory implements Reader.
func (p *Process) ReadMemory(addr uint64, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	n, err := readAt(p.h, p.pid, addr, buf)
	if err != nil {
		return n, fmt.Errorf("reading %d bytes at 0x%X: %w", len(buf), addr, err)
	}
	return n, nil
}

// WriteMemory implements Writer. The decoding engine never calls it.
func (p *Process) WriteMemory(addr uint64, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	n, err := writeAt(p.h, p.pid, addr, buf)
	if err != nil {
		return n, fmt.Errorf("writing %d bytes at 0x%X: %w", len(buf), addr, err)
	}
	return n, nil
}

// Close releases the OS handle.
func (p *Process) Close() error {
	if p == nil {
		return nil
	}
	return closeHandle(p.h)
}

func matchName(candidate, want string) bool {
	return strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(want))
}
