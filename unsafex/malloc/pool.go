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
	"math/bits"
	"sync"
)

// arenaPool recycles the backing arrays behind SliceHeapProvider across
// Allocator generations (repeated Init/Release cycles, as a benchmark or a
// test suite does constantly), so that opening and closing many heaps in a
// row doesn't repeatedly pressure the Go garbage collector with multi-MB
// slabs. Buckets are sized by power-of-two capacity, the same bucketing
// bits.Len trick the teacher's cache/mempool package uses for its
// size-classed sync.Pool slab cache.
const (
	minArenaPoolSize = 4 << 10 // 4KB
	maxArenaPoolSize = 1 << 30 // 1GB; larger requests bypass the pool
)

var (
	arenaPools []*sync.Pool
	// bits2idx maps bits.Len(bucketSize) to that bucket's index in
	// arenaPools, mirroring cache/mempool's bits2idx.
	bits2idx [64]int
)

func init() {
	i := 0
	for sz := minArenaPoolSize; sz <= maxArenaPoolSize; sz <<= 1 {
		size := sz
		arenaPools = append(arenaPools, &sync.Pool{
			New: func() interface{} {
				b := make([]byte, size)
				return &b
			},
		})
		bits2idx[bits.Len(uint(size))] = i
		i++
	}
}

// arenaPoolIndex returns the index of the smallest pooled bucket whose
// capacity is >= n, or -1 if n is too large to be pooled. Any n up to
// minArenaPoolSize maps to bucket 0.
func arenaPoolIndex(n int) int {
	if n > maxArenaPoolSize {
		return -1
	}
	if n <= minArenaPoolSize {
		return 0
	}
	i := bits2idx[bits.Len(uint(n))]
	if uint(n)&(uint(n)-1) == 0 {
		// exact power of two: fits its own bucket perfectly.
		return i
	}
	return i + 1
}

// getArena returns a zeroed byte slice of length >= n, drawing its full
// bucket-sized backing array from the shared pool when n falls within its
// range. Callers that need exactly n bytes reslice the result themselves.
func getArena(n int) []byte {
	i := arenaPoolIndex(n)
	if i < 0 || i >= len(arenaPools) {
		return make([]byte, n)
	}
	b := *arenaPools[i].Get().(*[]byte)
	b = b[:cap(b)]
	clear(b)
	return b
}

// putArena returns b's backing array to the pool bucket matching its
// capacity, if any.
func putArena(b []byte) {
	c := cap(b)
	i := arenaPoolIndex(c)
	if i < 0 || i >= len(arenaPools) {
		return
	}
	// Only pool exact bucket-sized backing arrays; NewSliceHeapProvider
	// always allocates (via getArena) at bucket granularity, so this holds
	// for every arena this package itself hands out.
	if c != minArenaPoolSize<<uint(i) {
		return
	}
	b = b[:cap(b)]
	arenaPools[i].Put(&b)
}
