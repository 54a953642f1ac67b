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

	"github.com/cznic/mathutil"
)

// adjustedSize computes the total block size (header+payload+footer,
// rounded up to dwordSize) needed to satisfy a request for n payload bytes.
// ok is false if n is negative or would make the block size overflow the
// uint32 boundary tags.
func adjustedSize(n int) (size uint32, ok bool) {
	if n < 0 {
		return 0, false
	}
	if n <= dwordSize {
		return 2 * dwordSize, true
	}
	s := uint64(n) + dwordSize
	s = (s + dwordSize - 1) &^ (dwordSize - 1)
	if s > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(s), true
}

// findFit performs first-fit search: starting at asize's own bucket, scan
// buckets in ascending index order, and within a bucket walk its list in
// (LIFO) insertion order, returning the first block big enough.
func (a *Allocator) findFit(asize uint32) unsafe.Pointer {
	for i := bucketFor(asize); i < numBuckets; i++ {
		for bp := a.heads[i]; bp != nil; bp = a.freeNext(bp) {
			if blockSize(bp) >= asize {
				return bp
			}
		}
	}
	return nil
}

// place turns the free block bp into an allocated block of size asize,
// splitting off a free remainder when it would be at least minBlockSize.
func (a *Allocator) place(bp unsafe.Pointer, asize uint32) {
	size := blockSize(bp)
	a.unlinkFreeBlock(bp)

	if size-asize >= minBlockSize {
		setTags(bp, asize, true)
		rem := nextBlockp(bp)
		setTags(rem, size-asize, false)
		a.insertFreeBlock(rem)
		return
	}

	setTags(bp, size, true)
}

// Alloc returns a pointer to a newly allocated, double-word-aligned block
// of at least n bytes, or nil if n is invalid or the heap cannot grow
// enough to satisfy the request.
func (a *Allocator) Alloc(n int) unsafe.Pointer {
	if n <= 0 || a.base == nil {
		return nil
	}
	asize, ok := adjustedSize(n)
	if !ok {
		return nil
	}

	if bp := a.findFit(asize); bp != nil {
		a.place(bp, asize)
		return bp
	}

	want := mathutil.Max(int(asize), a.chunkSize)
	bp := a.extendHeap(want)
	if bp == nil {
		return nil
	}
	a.place(bp, asize)
	return bp
}

// Free releases the block at p. A nil p is a no-op. Freeing a pointer not
// currently live (double free, or a pointer never returned by Alloc/
// Realloc) is undefined, per this allocator's contract.
func (a *Allocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	size := blockSize(p)
	setTags(p, size, false)
	a.insertFreeBlock(p)
}

// Realloc resizes the block at p to n bytes, preserving its content up to
// the smaller of the old and new sizes. A nil p behaves as Alloc(n); n == 0
// behaves as Free(p) and returns nil. When the block can be grown in place
// (the following block is free and large enough) no copy occurs; otherwise
// a new block is allocated, the content copied, and the old block freed.
func (a *Allocator) Realloc(p unsafe.Pointer, n int) unsafe.Pointer {
	if p == nil {
		return a.Alloc(n)
	}
	if n == 0 {
		a.Free(p)
		return nil
	}

	asize, ok := adjustedSize(n)
	if !ok {
		return nil
	}

	cur := blockSize(p)
	if cur >= asize {
		return p
	}

	if next := nextBlockp(p); !blockAllocated(next) {
		if fused := cur + blockSize(next); fused >= asize {
			a.unlinkFreeBlock(next)
			setTags(p, fused, true)
			return p
		}
	}

	newP := a.Alloc(n)
	if newP == nil {
		return nil
	}
	payload := int(cur) - dwordSize
	if cp := mathutil.Min(n, payload); cp > 0 {
		copyBytes(newP, p, cp)
	}
	a.Free(p)
	return newP
}

func copyBytes(dst, src unsafe.Pointer, n int) {
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}

// AllocBytes is Alloc's []byte-returning counterpart, for callers who
// want slice ergonomics instead of unsafe.Pointer, in the style of the
// teacher's BuddyAllocator.Alloc.
func (a *Allocator) AllocBytes(n int) []byte {
	bp := a.Alloc(n)
	if bp == nil {
		return nil
	}
	return unsafe.Slice((*byte)(bp), n)
}

// FreeBytes frees a slice previously returned by AllocBytes or
// ReallocBytes. A nil or empty slice is a no-op.
func (a *Allocator) FreeBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	a.Free(unsafe.Pointer(&b[0]))
}

// ReallocBytes is Realloc's []byte-returning counterpart.
func (a *Allocator) ReallocBytes(b []byte, n int) []byte {
	var p unsafe.Pointer
	if len(b) > 0 {
		p = unsafe.Pointer(&b[0])
	}
	newP := a.Realloc(p, n)
	if newP == nil {
		return nil
	}
	return unsafe.Slice((*byte)(newP), n)
}
