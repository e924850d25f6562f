//go:build !linux && !windows

package memory

type handle struct{}

func findProcess(string) (int, error) { return 0, ErrUnsupportedPlatform }

func openProcess(int) (handle, error) { return handle{}, ErrUnsupportedPlatform }

func listModules(int, handle) ([]Module, error) { return nil, ErrUnsupportedPlatform }

func readAt(handle, int, uint64, []byte) (int, error) { return 0, ErrUnsupportedPlatform }

func writeAt(handle, int, uint64, []byte) (int, error) { return 0, ErrUnsupportedPlatform }

func closeHandle(handle) error { return nil }
