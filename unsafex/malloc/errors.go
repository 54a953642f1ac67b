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

import "errors"

// ErrOutOfMemory is returned by Init when the heap provider refuses to
// grow the heap. Alloc and Realloc surface the same condition
// as a nil return instead, matching the C convention this allocator is
// modeled on.
var ErrOutOfMemory = errors.New("malloc: heap provider refused to grow")

// ErrCorruption is returned by Verify when a free-list or boundary-tag
// invariant does not hold. It is never returned from Alloc, Free or
// Realloc: those paths only ever fail with a nil pointer.
var ErrCorruption = errors.New("malloc: heap integrity check failed")

// ErrNotInitialized is returned by operations invoked before Init has ever
// succeeded on this Allocator.
var ErrNotInitialized = errors.New("malloc: allocator not initialized")
