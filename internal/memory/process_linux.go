//go:build linux

package memory

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Linux reads through process_vm_readv and needs no handle.
type handle struct{}

// commLen is the kernel's TASK_COMM_LEN minus the terminator.
const commLen = 15

func findProcess(name string) (int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, fmt.Errorf("listing /proc: %w", err)
	}

	short := name
	if len(short) > commLen {
		short = short[:commLen]
	}

	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || !e.IsDir() {
			continue
		}
		if exe, err := os.Readlink(filepath.Join("/proc", e.Name(), "exe")); err == nil {
			if matchName(filepath.Base(exe), name) {
				return pid, nil
			}
		}
		comm, err := os.ReadFile(filepath.Join("/proc", e.Name(), "comm"))
		if err != nil {
			continue
		}
		if matchName(string(comm), short) {
			return pid, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrProcessNotFound)
}

func openProcess(pid int) (handle, error) {
	if err := unix.Kill(pid, 0); err != nil {
		return handle{}, err
	}
	return handle{}, nil
}

// listModules groups /proc/<pid>/maps entries by backing file. The image the
// exe link points at is moved to the front.
func listModules(pid int, _ handle) ([]Module, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	exe, _ := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))

	var modules []Module
	index := make(map[string]int)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 || !strings.HasPrefix(fields[5], "/") {
			continue
		}
		path := strings.Join(fields[5:], " ")
		span := strings.SplitN(fields[0], "-", 2)
		if len(span) != 2 {
			continue
		}
		start, err1 := strconv.ParseUint(span[0], 16, 64)
		end, err2 := strconv.ParseUint(span[1], 16, 64)
		if err1 != nil || err2 != nil {
			continue
		}

		if i, ok := index[path]; ok {
			m := &modules[i]
			if start < m.Base {
				m.Size += m.Base - start
				m.Base = start
			}
			if end > m.Base+m.Size {
				m.Size = end - m.Base
			}
			continue
		}
		index[path] = len(modules)
		modules = append(modules, Module{Name: path, Base: start, Size: end - start})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading maps: %w", err)
	}

	if i, ok := index[exe]; ok && i != 0 {
		exeMod := modules[i]
		copy(modules[1:i+1], modules[:i])
		modules[0] = exeMod
	}
	return modules, nil
}

func readAt(_ handle, pid int, addr uint64, buf []byte) (int, error) {
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}
	n, err := unix.ProcessVMReadv(pid, local, remote, 0)
	if err != nil {
		return 0, err
	}
	if n < len(buf) {
		return n, fmt.Errorf("short read: %d of %d bytes", n, len(buf))
	}
	return n, nil
}

func writeAt(_ handle, pid int, addr uint64, buf []byte) (int, error) {
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}
	n, err := unix.ProcessVMWritev(pid, local, remote, 0)
	if err != nil {
		return 0, err
	}
	if n < len(buf) {
		return n, fmt.Errorf("short write: %d of %d bytes", n, len(buf))
	}
	return n, nil
}

func closeHandle(handle) error { return nil }
