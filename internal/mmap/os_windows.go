//go:build windows

package mmap

import (
	"os"
	"syscall"
	"unsafe"
)

func osMap(f *os.File, size int, writable bool) ([]byte, func([]byte) error, error) {
	protect := uint32(syscall.PAGE_READONLY)
	view := uint32(syscall.FILE_MAP_READ)
	if writable {
		protect = syscall.PAGE_READWRITE
		view = syscall.FILE_MAP_WRITE
	}

	h, err := syscall.CreateFileMapping(syscall.Handle(f.Fd()), nil, protect, 0, 0, nil)
	if err != nil {
		return nil, nil, err
	}
	defer syscall.CloseHandle(h)

	addr, err := syscall.MapViewOfFile(h, view, 0, 0, uintptr(size))
	if err != nil {
		return nil, nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return data, winUnmap, nil
}

func winUnmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	return syscall.UnmapViewOfFile(addr)
}

func osSync(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	return syscall.FlushViewOfFile(addr, uintptr(len(data)))
}

func osAdvise(data []byte, pattern AccessPattern) error {
	return nil // No-op on Windows
}
