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

import "unsafe"

// Allocator is a segregated free-list dynamic memory allocator over a
// single contiguous, extensible heap arena supplied by a HeapProvider.
//
// Allocator is not safe for concurrent use; the heap and the ten free-list
// heads are mutable state shared by every method call.
type Allocator struct {
	provider HeapProvider
	base     unsafe.Pointer // heap start: the alignment-pad word, word 0
	heads    [numBuckets]unsafe.Pointer

	chunkSize int
	extends   int64
}

// NewAllocator constructs an Allocator over provider. Init must be called
// before the allocator can service any request.
func NewAllocator(provider HeapProvider, opts ...Option) *Allocator {
	a := &Allocator{provider: provider, chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// prologueBp returns the bp of the synthetic prologue block.
func (a *Allocator) prologueBp() unsafe.Pointer {
	return unsafe.Add(a.base, wordSize+wordSize)
}

// Init (re-)initializes the allocator: it resets the heap provider, lays
// down the alignment pad, the prologue and epilogue sentinels, clears all
// ten free-list heads, and extends the heap by one default chunk. It is
// idempotent from the caller's point of view: calling it again abandons
// whatever was previously allocated and starts a fresh heap.
func (a *Allocator) Init() error {
	a.provider.Reset()

	base, ok := a.provider.Extend(4 * wordSize)
	if !ok {
		return ErrOutOfMemory
	}
	a.base = base
	a.heads = [numBuckets]unsafe.Pointer{}
	a.extends = 0

	// word 0 is alignment padding, left zero.
	putTag(unsafe.Add(base, wordSize), pack(dwordSize, true))   // prologue header
	putTag(unsafe.Add(base, 2*wordSize), pack(dwordSize, true)) // prologue footer
	putTag(unsafe.Add(base, 3*wordSize), pack(0, true))         // epilogue header

	if a.extendHeap(a.chunkSize) == nil {
		return ErrOutOfMemory
	}
	return nil
}

// extendHeap grows the heap by at least nBytes (rounded up to a multiple of
// dwordSize to preserve double-word alignment), turns the new region into a
// single free block, re-establishes the epilogue at the new tail, and
// inserts the new block into its free list (coalescing with the previous
// tail block if that was free). It returns the inserted block's bp, or nil
// on heap-provider failure.
func (a *Allocator) extendHeap(nBytes int) unsafe.Pointer {
	size := alignUp(nBytes, dwordSize)
	bp, ok := a.provider.Extend(size)
	if !ok {
		return nil
	}
	a.extends++

	setTags(bp, uint32(size), false)
	putTag(hdrp(nextBlockp(bp)), pack(0, true)) // new epilogue header

	return a.insertFreeBlock(bp)
}
