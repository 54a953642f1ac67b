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
	"fmt"
	"unsafe"
)

// Verify walks the heap and every free list, checking the invariants this
// allocator must maintain between public calls: boundary tags agree, no
// two adjacent free blocks exist, every free block is classified into the
// bucket its size implies, free-list links are mutually consistent, and no
// free block is marked allocated (or vice versa). It never mutates state
// and is safe to call at any time; it is meant for tests and debug builds,
// not production request paths.
func (a *Allocator) Verify() error {
	if a.base == nil {
		return ErrNotInitialized
	}

	if err := a.verifyHeapWalk(); err != nil {
		return err
	}
	return a.verifyFreeLists()
}

// verifyHeapWalk walks every block from the prologue to the epilogue,
// checking header/footer agreement and the no-two-adjacent-free-blocks
// invariant.
func (a *Allocator) verifyHeapWalk() error {
	prevFree := false
	for bp := a.prologueBp(); ; bp = nextBlockp(bp) {
		size := blockSize(bp)
		if size == 0 {
			// epilogue reached.
			if !blockAllocated(bp) {
				return fmt.Errorf("%w: epilogue is not marked allocated", ErrCorruption)
			}
			return nil
		}

		hdr := getTag(hdrp(bp))
		ftr := getTag(ftrp(bp))
		if hdr != ftr {
			return fmt.Errorf("%w: header/footer mismatch at offset %d (%#x != %#x)",
				ErrCorruption, a.off(bp), hdr, ftr)
		}

		free := !blockAllocated(bp)
		if free && prevFree {
			return fmt.Errorf("%w: two adjacent free blocks at offset %d", ErrCorruption, a.off(bp))
		}
		prevFree = free
	}
}

// verifyFreeLists walks each bucket's doubly linked list, checking bucket
// classification, link symmetry, and that every listed block is actually
// free.
func (a *Allocator) verifyFreeLists() error {
	for i := 0; i < numBuckets; i++ {
		var prev unsafe.Pointer
		for bp := a.heads[i]; bp != nil; bp = a.freeNext(bp) {
			if blockAllocated(bp) {
				return fmt.Errorf("%w: allocated block %d present in free list %d", ErrCorruption, a.off(bp), i)
			}
			if got := bucketFor(blockSize(bp)); got != i {
				return fmt.Errorf("%w: block %d of size %d belongs in bucket %d, found in %d",
					ErrCorruption, a.off(bp), blockSize(bp), got, i)
			}
			if a.freeNext(bp) == bp || a.freePrev(bp) == bp {
				return fmt.Errorf("%w: block %d in free list %d links to itself", ErrCorruption, a.off(bp), i)
			}
			if a.freePrev(bp) != prev {
				return fmt.Errorf("%w: block %d's prev link does not match its predecessor in free list %d",
					ErrCorruption, a.off(bp), i)
			}
			prev = bp
		}
	}
	return nil
}
