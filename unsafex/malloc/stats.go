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
	"encoding/binary"

	"github.com/cloudwego/segalloc/hash/xfnv"
)

// Stats is a read-only snapshot of the heap's bookkeeping, in the spirit of
// lldb.AllocStats: it never affects allocator behavior, it exists so
// callers (and this package's own tests) can assert size-monotonicity and
// watch fragmentation.
type Stats struct {
	HeapBytes   int64 // total bytes between the prologue and the epilogue
	AllocBytes  int64 // bytes currently handed out to the caller (excludes header/footer)
	AllocBlocks int64 // number of currently live allocated blocks
	FreeBytes   int64 // bytes currently sitting in free blocks (including their header/footer)
	FreeBlocks  int64 // number of currently free blocks
	Extends     int64 // number of times extendHeap grew the heap

	// Layout is an in-memory-only fingerprint of every block's boundary tag,
	// in heap order. Two Stats taken without any intervening Alloc/Free/
	// Realloc call always agree on Layout; it exists so tests can assert
	// that an operation left the block layout untouched without walking it
	// by hand. Per xfnv's own contract, never persist or compare it across
	// process boundaries or architectures.
	Layout uint64
}

// Stats returns a snapshot of the allocator's current bookkeeping, computed
// by walking the heap from the prologue to the epilogue.
func (a *Allocator) Stats() Stats {
	s := Stats{Extends: a.extends}
	if a.base == nil {
		return s
	}

	var tags []byte
	for bp := nextBlockp(a.prologueBp()); blockSize(bp) != 0; bp = nextBlockp(bp) {
		sz := int64(blockSize(bp))
		s.HeapBytes += sz
		if blockAllocated(bp) {
			s.AllocBytes += sz - dwordSize
			s.AllocBlocks++
		} else {
			s.FreeBytes += sz
			s.FreeBlocks++
		}
		tags = binary.LittleEndian.AppendUint32(tags, getTag(hdrp(bp)))
	}
	s.Layout = xfnv.Hash(tags)
	return s
}
