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
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLaysDownSentinels(t *testing.T) {
	a := newTestAllocator(t, 64<<10, WithChunkSize(256))

	prologue := a.prologueBp()
	assert.Equal(t, int64(8), ptrOff(a, prologue))
	assert.Equal(t, uint32(dwordSize), blockSize(prologue))
	assert.True(t, blockAllocated(prologue))

	first := nextBlockp(prologue)
	assert.False(t, blockAllocated(first))
	assert.Equal(t, uint32(256), blockSize(first))

	epi := nextBlockp(first)
	assert.Equal(t, uint32(0), blockSize(epi))
	assert.True(t, blockAllocated(epi))
	assert.Equal(t, a.provider.End(), unsafe.Add(hdrp(epi), wordSize))

	require.NoError(t, a.Verify())
}

func TestInitIsIdempotent(t *testing.T) {
	a := newTestAllocator(t, 64<<10)
	p := a.Alloc(64)
	require.NotNil(t, p)

	require.NoError(t, a.Init())
	stats := a.Stats()
	assert.Equal(t, int64(1), stats.Extends)
	assert.Equal(t, int64(a.chunkSize), stats.HeapBytes)
	assert.Equal(t, int64(a.chunkSize), stats.FreeBytes)
	assert.Equal(t, int64(1), stats.FreeBlocks)
	assert.Equal(t, int64(0), stats.AllocBytes)
	assert.Equal(t, int64(0), stats.AllocBlocks)
	require.NoError(t, a.Verify())
}

func TestExtendHeapGrowsOnExhaustion(t *testing.T) {
	a := newTestAllocator(t, 1<<20, WithChunkSize(64))

	before := a.Stats().Extends
	// Ask for more than one chunk's worth so Alloc must call extendHeap.
	p := a.Alloc(4096)
	require.NotNil(t, p)
	assert.Greater(t, a.Stats().Extends, before)
	require.NoError(t, a.Verify())
}

func TestExtendHeapCoalescesWithFreeTail(t *testing.T) {
	a := newTestAllocator(t, 1<<20, WithChunkSize(64))

	// Drain the initial chunk into one allocation, free it so the tail is a
	// single free block, then force growth: the new region should coalesce
	// with that trailing free block instead of creating an adjacent one.
	p := a.Alloc(32)
	require.NotNil(t, p)
	a.Free(p)

	before := a.Stats().FreeBlocks
	bp := a.extendHeap(256)
	require.NotNil(t, bp)
	assert.Equal(t, before, a.Stats().FreeBlocks)
	require.NoError(t, a.Verify())
}
