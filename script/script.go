// Copyright 2025 The Provenance-Log Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package script defines the capability a log verifier consumes to
// execute unlock and lock scripts, without depending on any concrete
// script VM. Verification wires a Runner in; this package never imports
// a wasm host itself, and the reference implementation used by tests
// lives in the testonly package.
package script

import (
	"context"
	"io"
)

// Limits bounds the resources a single script invocation may consume.
// The zero value is not valid; use DefaultLimits.
type Limits struct {
	// MemorySize is the maximum linear memory, in bytes, a script
	// instance may allocate.
	MemorySize int
	// Instances is the maximum number of script instances a single Run
	// may create (unlock and lock typically need one each).
	Instances int
	// Memories is the maximum number of memory exports a script module
	// may define.
	Memories int
}

// DefaultLimits matches the limits the original log verifier enforces:
// 16 KiB of memory, at most two instances, a single memory each.
func DefaultLimits() Limits {
	return Limits{MemorySize: 16 << 10, Instances: 2, Memories: 1}
}

// Pairs is the read/write view over the namespace a script sees while
// running: its own local overlay plus, for lock scripts, the entry's own
// /entry/* attributes (see the kvp package's entry-attribute overlay).
type Pairs interface {
	// Get returns the value stored at path and whether it was present.
	Get(path string) ([]byte, bool)
	// Put stores value at path. Scripts use this to communicate results
	// back to the host (e.g. push/pop semantics on the namespace).
	Put(path string, value []byte) error
}

// Context is the per-invocation state passed to a Runner: the current and
// proposed namespace views, the script's parameter and result stacks, the
// verifier's running count of script checks run so far (exposed to
// scripts as a read-only counter), a cursor into entry.Proof for scripts
// that consume it incrementally, free-form host variables, a log sink for
// script-emitted
// diagnostics, and the resource Limits in effect.
type Context struct {
	Current    Pairs
	Proposed   Pairs
	PStack     [][]byte
	RStack     [][]byte
	CheckCount int
	WriteIdx   int
	Vars       map[string]any
	LogSink    io.Writer
	Limits     Limits
}

// Runner executes a single script's entry point against a Context and
// reports whether the script accepted (true) or rejected (false) the
// proposed mutation. An error indicates the script itself could not be
// run (load failure, trap, resource limit exceeded), as distinct from a
// script that ran to completion and rejected.
type Runner interface {
	Run(ctx context.Context, sc *Context, entryPoint string) (bool, error)
}
