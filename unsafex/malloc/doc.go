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

// Package malloc implements a segregated free-list dynamic memory allocator
// over a single, contiguous, extensible heap arena.
//
// The heap grows through a pluggable HeapProvider, which models a
// monotonically advancing break (an sbrk-like collaborator). Blocks are
// described by boundary tags: a header and a trailing footer, each packing a
// size and an allocation bit, so that neighboring blocks can be located in
// O(1) in either direction. Free blocks are partitioned into ten size-class
// buckets, each a doubly linked list threaded through the free block's own
// payload bytes (the links only exist while a block is free).
//
// Allocator is not safe for concurrent use; callers needing that must
// serialize access themselves, e.g. with a mutex held across every call.
package malloc
