//go:build unix

/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package malloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// MmapHeapProvider is a HeapProvider backed by a single large anonymous
// memory mapping reserved up front with PROT_NONE and committed
// page-by-page with Mprotect as Extend advances the break. It gives the
// heap layout manager a collaborator backed by real OS virtual memory
// instead of a plain Go byte slice, closer to how a real sbrk-based
// allocator grows its arena.
type MmapHeapProvider struct {
	mem       []byte
	brk       int
	committed int
}

// NewMmapHeapProvider reserves (but does not commit) maxBytes of address
// space. Extend will fail once brk would exceed maxBytes.
func NewMmapHeapProvider(maxBytes int) (*MmapHeapProvider, error) {
	mem, err := unix.Mmap(-1, 0, maxBytes, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &MmapHeapProvider{mem: mem}, nil
}

func (p *MmapHeapProvider) Start() unsafe.Pointer {
	if len(p.mem) == 0 {
		return nil
	}
	return unsafe.Pointer(&p.mem[0])
}

func (p *MmapHeapProvider) End() unsafe.Pointer { return unsafe.Add(p.Start(), p.brk) }

func (p *MmapHeapProvider) Extend(n int) (unsafe.Pointer, bool) {
	if n <= 0 || p.brk+n > len(p.mem) {
		return nil, false
	}

	if need := p.brk + n; need > p.committed {
		pageSize := unix.Getpagesize()
		newCommitted := alignUp(need, pageSize)
		if newCommitted > len(p.mem) {
			newCommitted = len(p.mem)
		}
		if err := unix.Mprotect(p.mem[p.committed:newCommitted], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return nil, false
		}
		p.committed = newCommitted
	}

	prev := unsafe.Add(p.Start(), p.brk)
	p.brk += n
	return prev, true
}

// Reset zeroes every committed page and rewinds the break, keeping the
// mapping itself so the next Init doesn't need to mmap again.
func (p *MmapHeapProvider) Reset() {
	if p.committed > 0 {
		clear(p.mem[:p.committed])
	}
	p.brk = 0
}

// Close releases the mapping. Unlike Reset (meant for Allocator.Init to
// reuse this provider across heap generations), Close must be called once
// the provider itself will never be used again.
func (p *MmapHeapProvider) Close() error {
	if p.mem == nil {
		return nil
	}
	err := unix.Munmap(p.mem)
	p.mem = nil
	return err
}
