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

// coalesce merges bp with any free physical neighbors. bp's header/footer
// must already mark it free; bp itself must not be linked into any bucket
// yet (coalesce unlinks free neighbors it merges into bp, but never bp).
// The prologue and epilogue sentinels are always "allocated", so they
// naturally terminate the merge at either end of the heap.
//
// Returns the bp of the merged block (== bp unless the left neighbor was
// free, in which case the merge result starts at the left neighbor).
func (a *Allocator) coalesce(bp unsafe.Pointer) unsafe.Pointer {
	prev := prevBlockp(bp)
	next := nextBlockp(bp)
	prevAlloc := blockAllocated(prev)
	nextAlloc := blockAllocated(next)
	size := blockSize(bp)

	switch {
	case prevAlloc && nextAlloc: // case 1
		return bp

	case prevAlloc && !nextAlloc: // case 2
		a.unlinkFreeBlock(next)
		size += blockSize(next)
		setTags(bp, size, false)
		return bp

	case !prevAlloc && nextAlloc: // case 3
		a.unlinkFreeBlock(prev)
		size += blockSize(prev)
		setTags(prev, size, false)
		return prev

	default: // case 4: !prevAlloc && !nextAlloc
		a.unlinkFreeBlock(prev)
		a.unlinkFreeBlock(next)
		size += blockSize(prev) + blockSize(next)
		setTags(prev, size, false)
		return prev
	}
}
