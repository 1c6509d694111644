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

// Package testonly provides deterministic fixtures for exercising a log
// end to end without a real wasm script host: a reference script.Runner
// backed by a plain hash-preimage check, and builders for small,
// reproducible entry chains.
package testonly

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/plogdev/provenance-log/script"
)

// HashPreimageRunner implements script.Runner by checking that the
// proof pushed onto the script Context's PStack hashes (sha256) to the
// value stored at "/digest" in the current namespace, accepting when no
// "/digest" is present. This reproduces the shape of a hash-preimage
// unlock/lock check without needing a wasm host: once an entry's Update
// op has stored the expected digest at "/digest", every later lock check
// requires the entry's proof to be a preimage of it.
//
// Both the unlock and lock entry points use the same check; the unlock
// phase's Current view resolves only "/entry/*" paths, so it never finds
// "/digest" and always accepts. A real wasm runner would instead dispatch
// to the named entry point inside the loaded module.
type HashPreimageRunner struct{}

// Run implements script.Runner.
func (HashPreimageRunner) Run(ctx context.Context, sc *script.Context, entryPoint string) (bool, error) {
	if len(sc.PStack) == 0 {
		return false, fmt.Errorf("testonly: %s: empty pstack, no proof to check", entryPoint)
	}
	proof := sc.PStack[0]

	want, ok := sc.Current.Get("/digest")
	if !ok {
		// No digest recorded yet (e.g. the very first entry establishing
		// one): accept unconditionally so the chain can bootstrap.
		return true, nil
	}
	got := sha256.Sum256(proof)
	return bytes.Equal(got[:], want), nil
}

// AcceptAllRunner implements script.Runner by accepting every script
// unconditionally. Useful for tests of the verifier's structural checks
// (seqno, prev-links, lock-sort) in isolation from script semantics.
type AcceptAllRunner struct{}

// Run implements script.Runner.
func (AcceptAllRunner) Run(ctx context.Context, sc *script.Context, entryPoint string) (bool, error) {
	return true, nil
}

// RejectAllRunner implements script.Runner by rejecting every script.
// Useful for confirming a verifier actually consults the runner rather
// than always succeeding.
type RejectAllRunner struct{}

// Run implements script.Runner.
func (RejectAllRunner) Run(ctx context.Context, sc *script.Context, entryPoint string) (bool, error) {
	return false, nil
}

// PathRejectingRunner implements script.Runner by rejecting lock scripts
// bound to any path in Reject and accepting every other lock, plus every
// unlock unconditionally (the unlock script merely publishes witnesses; it
// is not itself one of the governing locks a path-keyed policy like this
// one is meant to discriminate between). It exists to exercise a
// governing set containing both a rejecting and an accepting lock, so a
// verifier that requires every governing lock to succeed (rather than
// short-circuiting on the first one that does) can be told apart from one
// that implements spec.md §4.7's OR semantics correctly.
type PathRejectingRunner struct {
	Reject map[string]bool
}

// Run implements script.Runner.
func (r PathRejectingRunner) Run(ctx context.Context, sc *script.Context, entryPoint string) (bool, error) {
	if entryPoint != "lock" {
		return true, nil
	}
	path, _ := sc.Vars["path"].(string)
	return !r.Reject[path], nil
}
