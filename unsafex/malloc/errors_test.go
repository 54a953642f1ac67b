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

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrOutOfMemory, ErrCorruption)
	assert.NotEqual(t, ErrCorruption, ErrNotInitialized)
	assert.NotEqual(t, ErrOutOfMemory, ErrNotInitialized)
}

func TestAllocFailsClosedWithoutInit(t *testing.T) {
	a := NewAllocator(NewSliceHeapProvider(4096))
	assert.Nil(t, a.Alloc(8))
	assert.Nil(t, a.AllocBytes(8))
}

func TestInitFailsWithTooSmallProvider(t *testing.T) {
	// A provider too small to even fit the sentinels plus one chunk must
	// surface ErrOutOfMemory rather than panicking.
	a := NewAllocator(NewSliceHeapProvider(8), WithChunkSize(4096))
	err := a.Init()
	assert.ErrorIs(t, err, ErrOutOfMemory)
}
