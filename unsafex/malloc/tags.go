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

// Units, per the boundary-tag scheme: a word is 4 bytes, a double word (the
// allocator's alignment granularity) is 8 bytes.
const (
	wordSize  = 4
	dwordSize = 8

	// minBlockSize is 2*dwordSize: header + prev-link + next-link + footer,
	// the smallest block that can carry both boundary tags and free-list
	// links.
	minBlockSize = 2 * dwordSize

	// defaultChunkSize is the default amount (bytes) the heap grows by when
	// no free block satisfies a request.
	defaultChunkSize = 4096

	allocBit  = uint32(0x1)
	flagsMask = uint32(0x7) // bits 0-2; only bit 0 (alloc) is used today
)

// pack combines a block size (already a multiple of dwordSize) and an
// allocation flag into a single boundary-tag word.
func pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | allocBit
	}
	return size
}

// unpackSize extracts the size field of a tag word.
func unpackSize(tag uint32) uint32 { return tag &^ flagsMask }

// unpackAlloc extracts the allocation bit of a tag word.
func unpackAlloc(tag uint32) bool { return tag&allocBit != 0 }

// readWord reads the 4-byte word at p. Used both for boundary tags (header/
// footer) and, with a different meaning, for the free-list prev/next links
// that overlay a free block's payload.
func readWord(p unsafe.Pointer) uint32 { return *(*uint32)(p) }

// writeWord writes v to the 4-byte word at p.
func writeWord(p unsafe.Pointer, v uint32) { *(*uint32)(p) = v }

// getTag and putTag are readWord/writeWord under the names used where the
// word in question is specifically a boundary tag.
func getTag(p unsafe.Pointer) uint32    { return readWord(p) }
func putTag(p unsafe.Pointer, v uint32) { writeWord(p, v) }

// alignUp rounds n up to the next multiple of to (to must be a power of two).
func alignUp(n, to int) int { return (n + to - 1) &^ (to - 1) }
