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

// A block pointer (bp) names the first byte of a block's payload, i.e. the
// byte right after its header word. All the accessors below take a bp and
// navigate purely arithmetically, the way the boundary-tag scheme is meant
// to be used: no block carries any reference to its neighbors other than
// what its own and its neighbors' tag words encode.

// hdrp returns the address of bp's header word.
func hdrp(bp unsafe.Pointer) unsafe.Pointer { return unsafe.Add(bp, -wordSize) }

// ftrp returns the address of bp's footer word.
func ftrp(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(bp, int(blockSize(bp))-dwordSize)
}

// blockSize returns bp's total size (header+payload+footer), read from the
// header.
func blockSize(bp unsafe.Pointer) uint32 { return unpackSize(getTag(hdrp(bp))) }

// blockAllocated reports whether bp is currently an allocated block.
func blockAllocated(bp unsafe.Pointer) bool { return unpackAlloc(getTag(hdrp(bp))) }

// setTags writes both the header and footer of bp to encode size/allocated.
func setTags(bp unsafe.Pointer, size uint32, allocated bool) {
	t := pack(size, allocated)
	putTag(hdrp(bp), t)
	putTag(unsafe.Add(bp, int(size)-dwordSize), t)
}

// nextBlockp returns the bp of the block physically following bp. If bp is
// the last real block, the result is the epilogue's bp (a zero-payload
// sentinel whose header always reads allocated).
func nextBlockp(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(bp, int(blockSize(bp)))
}

// prevBlockp returns the bp of the block physically preceding bp, found by
// reading the footer of that block (the word immediately before bp's
// header).
func prevBlockp(bp unsafe.Pointer) unsafe.Pointer {
	prevFooter := unsafe.Add(bp, -dwordSize)
	return unsafe.Add(bp, -int(unpackSize(getTag(prevFooter))))
}

// Free-block links overlay the payload: the prev-link occupies the first
// word after the header, the next-link the word after that. They are only
// meaningful while the block is free.

func prevLinkAddr(bp unsafe.Pointer) unsafe.Pointer { return bp }
func nextLinkAddr(bp unsafe.Pointer) unsafe.Pointer { return unsafe.Add(bp, wordSize) }
