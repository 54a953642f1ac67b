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

func TestPackUnpack(t *testing.T) {
	tests := []struct {
		size      uint32
		allocated bool
	}{
		{16, true},
		{16, false},
		{4096, true},
		{0, true}, // epilogue
	}
	for _, tt := range tests {
		tag := pack(tt.size, tt.allocated)
		assert.Equal(t, tt.size, unpackSize(tag))
		assert.Equal(t, tt.allocated, unpackAlloc(tag))
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct{ n, to, want int }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{4096, 4096, 4096},
		{4097, 4096, 8192},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, alignUp(tt.n, tt.to))
	}
}

func TestAdjustedSize(t *testing.T) {
	tests := []struct {
		n        int
		wantSize uint32
		wantOK   bool
	}{
		{-1, 0, false},
		{0, 16, true},
		{1, 16, true},
		{8, 16, true},
		{9, 24, true},
		{16, 24, true},
		{17, 32, true},
		{4096, 4104, true},
	}
	for _, tt := range tests {
		size, ok := adjustedSize(tt.n)
		assert.Equal(t, tt.wantOK, ok, "n=%d", tt.n)
		if tt.wantOK {
			assert.Equal(t, tt.wantSize, size, "n=%d", tt.n)
			assert.Zero(t, size%dwordSize, "n=%d must be dword aligned", tt.n)
		}
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		size uint32
		want int
	}{
		{16, 0}, {64, 0},
		{65, 1}, {128, 1},
		{129, 2}, {256, 2},
		{257, 3}, {512, 3},
		{513, 4}, {1024, 4},
		{1025, 5}, {2048, 5},
		{2049, 6}, {4096, 6},
		{4097, 7}, {8192, 7},
		{8193, 8}, {16384, 8},
		{16385, 9}, {1 << 20, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bucketFor(tt.size), "size=%d", tt.size)
	}
}
