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

import "errors"

// ErrArenaBufferShort is the panic value ReadBuffer.ReadN raises when
// asked to read more bytes than the buffer holds. It mirrors the
// teacher's scatter/gather buffer pair, but draws its backing blocks from
// an Allocator's heap instead of a package-level slab cache, so a single
// Allocator's bookkeeping covers both ad hoc Alloc/Free traffic and
// buffered write/read traffic.
var ErrArenaBufferShort = errors.New("malloc: arena buffer short read")

const arenaBufPad = 8 << 10

// WriteBuffer accumulates bytes across possibly many backing blocks,
// growing by pulling fresh blocks from its Allocator instead of doubling a
// single contiguous slice. Bytes written are returned as a scatter list by
// Segments, avoiding a final copy into one contiguous buffer.
type WriteBuffer struct {
	a    *Allocator
	off  int
	buf  []byte
	segs [][]byte
	live [][]byte
}

// NewWriteBuffer returns a WriteBuffer drawing its backing blocks from a.
func NewWriteBuffer(a *Allocator) *WriteBuffer {
	return &WriteBuffer{a: a}
}

// MallocN returns n contiguous bytes to write into, growing the buffer from
// a if the current block does not have n bytes left.
func (b *WriteBuffer) MallocN(n int) []byte {
	buf := b.buf[b.off:]
	if len(buf) < n {
		buf = b.growSlow(n)
	}
	b.off += n
	return buf[:n]
}

func (b *WriteBuffer) growSlow(n int) []byte {
	if b.off > 0 {
		b.segs = append(b.segs, b.buf[:b.off])
		b.off = 0
	}
	if n < arenaBufPad {
		n = arenaBufPad
	}
	buf := b.a.AllocBytes(n)
	b.live = append(b.live, buf)
	b.buf = buf
	return buf
}

// WriteDirect appends buf as its own segment without copying it, the way a
// caller hands over an already-allocated block it owns.
func (b *WriteBuffer) WriteDirect(buf []byte) {
	if b.off > 0 {
		b.segs = append(b.segs, b.buf[:b.off])
		b.buf = b.buf[b.off:]
		b.off = 0
	}
	b.segs = append(b.segs, buf)
}

// Segments returns the buffer's contents as a list of non-contiguous
// slices, in write order.
func (b *WriteBuffer) Segments() [][]byte {
	if b.off > 0 {
		b.segs = append(b.segs, b.buf[:b.off])
		b.buf = b.buf[b.off:]
		b.off = 0
	}
	return b.segs
}

// Release frees every block this WriteBuffer pulled from its Allocator.
// The buffer must not be used afterward.
func (b *WriteBuffer) Release() {
	for _, buf := range b.live {
		b.a.FreeBytes(buf)
	}
	b.live = nil
	b.segs = nil
	b.buf = nil
}

// ReadBuffer reads sequentially across a list of segments produced by a
// WriteBuffer (or any other scatter list), pulling a fresh contiguous block
// from its Allocator only when a read spans more than one input segment.
type ReadBuffer struct {
	a    *Allocator
	off  int
	buf  []byte
	segs [][]byte
	live [][]byte
}

// NewReadBuffer returns a ReadBuffer over segs, using a to allocate
// scratch space for reads that straddle segment boundaries.
func NewReadBuffer(a *Allocator, segs [][]byte) *ReadBuffer {
	if len(segs) == 0 {
		return &ReadBuffer{a: a}
	}
	return &ReadBuffer{a: a, buf: segs[0], segs: segs[1:]}
}

// ReadN returns the next n bytes, which may alias the input segments or a
// scratch block owned by this ReadBuffer (freed on Release).
func (b *ReadBuffer) ReadN(n int) []byte {
	buf := b.buf[b.off:]
	if len(buf) >= n {
		b.off += n
		return buf[:n]
	}
	return b.readSlow(n)
}

func (b *ReadBuffer) readSlow(n int) []byte {
	buf := b.a.AllocBytes(n)
	b.live = append(b.live, buf)

	l, m := copy(buf, b.buf[b.off:]), 0
	for l < n {
		if len(b.segs) == 0 {
			panic(ErrArenaBufferShort)
		}
		b.buf, b.segs = b.segs[0], b.segs[1:]
		b.off = 0
		m = copy(buf[l:], b.buf)
		l += m
	}
	b.off += m
	return buf
}

// Release frees every scratch block this ReadBuffer allocated while
// crossing segment boundaries. It does not touch the segments it was
// constructed with; those remain the caller's responsibility.
func (b *ReadBuffer) Release() {
	for _, buf := range b.live {
		b.a.FreeBytes(buf)
	}
	b.live = nil
}
