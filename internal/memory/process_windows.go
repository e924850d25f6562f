//go:build windows

package memory

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

type handle windows.Handle

const access = windows.PROCESS_VM_READ | windows.PROCESS_VM_WRITE |
	windows.PROCESS_VM_OPERATION | windows.PROCESS_QUERY_INFORMATION

func findProcess(name string) (int, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err = windows.Process32First(snap, &pe); err == nil; err = windows.Process32Next(snap, &pe) {
		if matchName(windows.UTF16ToString(pe.ExeFile[:]), name) {
			return int(pe.ProcessID), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrProcessNotFound)
}

func openProcess(pid int) (handle, error) {
	h, err := windows.OpenProcess(access, false, uint32(pid))
	if err != nil {
		return 0, err
	}
	return handle(h), nil
}

// listModules returns modules in toolhelp order, which lists the executable first.
func listModules(pid int, _ handle) ([]Module, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("module snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var modules []Module
	var me windows.ModuleEntry32
	me.Size = uint32(unsafe.Sizeof(me))
	for err = windows.Module32First(snap, &me); err == nil; err = windows.Module32Next(snap, &me) {
		modules = append(modules, Module{
			Name: windows.UTF16ToString(me.Module[:]),
			Base: uint64(me.ModBaseAddr),
			Size: uint64(me.ModBaseSize),
		})
	}
	return modules, nil
}

func readAt(h handle, _ int, addr uint64, buf []byte) (int, error) {
	var n uintptr
	err := windows.ReadProcessMemory(windows.Handle(h), uintptr(addr), &buf[0], uintptr(len(buf)), &n)
	return int(n), err
}

func writeAt(h handle, _ int, addr uint64, buf []byte) (int, error) {
	var n uintptr
	err := windows.WriteProcessMemory(windows.Handle(h), uintptr(addr), &buf[0], uintptr(len(buf)), &n)
	return int(n), err
}

func closeHandle(h handle) error {
	if h == 0 {
		return nil
	}
	return windows.CloseHandle(windows.Handle(h))
}
