// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package rvclk

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// hostMem accesses registers through /dev/mem. Pages are mapped on first
// use and stay mapped until Close.
type hostMem struct {
	fd    int
	ps    uintptr
	m     sync.Mutex
	pages map[uintptr][]byte
	fence uint32
}

func openHostMemory() (*hostMem, error) {
	fd, err := unix.Open("/dev/mem", unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/mem: %w", err)
	}
	return &hostMem{
		fd:    fd,
		ps:    uintptr(unix.Getpagesize()),
		pages: make(map[uintptr][]byte),
	}, nil
}

func (m *hostMem) word(address uintptr) *uint32 {
	if address%4 != 0 {
		panic(fmt.Sprintf("unaligned register access at 0x%08x", address))
	}
	page := address & ^(m.ps - 1)
	m.m.Lock()
	defer m.m.Unlock()
	mem, ok := m.pages[page]
	if !ok {
		var err error
		mem, err = unix.Mmap(m.fd, int64(page), int(m.ps), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			panic(fmt.Sprintf("mmap page 0x%08x: %v", page, err))
		}
		m.pages[page] = mem
	}
	return (*uint32)(unsafe.Pointer(&mem[address-page]))
}

// All accesses are atomic so the compiler neither merges nor reorders them.
func (m *hostMem) MustRead32(address uintptr) uint32 {
	return atomic.LoadUint32(m.word(address))
}

func (m *hostMem) MustWrite32(address uintptr, data uint32) {
	atomic.StoreUint32(m.word(address), data)
}

// Fence is a sequentially consistent atomic on a host variable. Go only
// promises ordering against other atomics, and all register accesses above
// are atomics. Whether that orders device memory is up to the CPU; RVWMO
// aq/rl on a main memory AMO does not cover I/O regions.
func (m *hostMem) Fence() {
	atomic.AddUint32(&m.fence, 1)
}

func (m *hostMem) Close() {
	m.m.Lock()
	defer m.m.Unlock()
	for p, mem := range m.pages {
		if err := unix.Munmap(mem); err != nil {
			log.Errorw("munmap failed", "page", fmt.Sprintf("0x%08x", p), "err", err)
		}
		delete(m.pages, p)
	}
	if err := unix.Close(m.fd); err != nil {
		log.Errorw("closing /dev/mem failed", "err", err)
	}
}
