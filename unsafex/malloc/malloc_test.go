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

	"github.com/stretchr/testify/require"
)

// newTestAllocator builds and initializes an Allocator over a fresh
// SliceHeapProvider, failing the test immediately if Init fails.
func newTestAllocator(t *testing.T, maxBytes int, opts ...Option) *Allocator {
	t.Helper()
	a := NewAllocator(NewSliceHeapProvider(maxBytes), opts...)
	require.NoError(t, a.Init())
	return a
}

// ptrOff is a test-only convenience to compare addresses by their offset
// from the heap base, which is more readable in failure messages than raw
// pointers.
func ptrOff(a *Allocator, p unsafe.Pointer) int64 {
	if p == nil {
		return -1
	}
	return int64(uintptr(p) - uintptr(a.base))
}
