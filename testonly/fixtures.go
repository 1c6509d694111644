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

package testonly

import (
	"fmt"

	provenance "github.com/plogdev/provenance-log"
)

// wasmStub is a minimal, syntactically-valid wasm module body used by
// fixture scripts; HashPreimageRunner and AcceptAllRunner never actually
// execute it, they only need a Script to attach proof-checking semantics
// to a path.
var wasmStub = append([]byte{0x00, 'a', 's', 'm', 1, 0, 0, 0}, []byte("stub")...)

func rootScript() provenance.Script {
	s, err := provenance.NewBinScript(provenance.RootKey, wasmStub)
	if err != nil {
		panic(err) // wasmStub always carries the magic; this cannot fail
	}
	return s
}

// lockAt returns a lock script bound to path; distinct from rootScript so
// fixtures can build a governing set with more than one path in it.
func lockAt(path string) provenance.Script {
	s, err := provenance.NewBinScript(provenance.MustParseKey(path), wasmStub)
	if err != nil {
		panic(err) // wasmStub always carries the magic; this cannot fail
	}
	return s
}

// Chain is a deterministic, pre-built entry chain along with the raw
// per-entry proof bytes used to build it, handy for tests that need to
// tamper with one field and re-verify.
type Chain struct {
	Log     *provenance.Log
	Entries []*provenance.Entry
	Proofs  [][]byte
}

// BuildAcceptAllChain builds a chain of n entries, each updating a
// distinct key, all governed by the same always-accepting root lock
// script. Proof bytes are arbitrary and not checked by AcceptAllRunner.
func BuildAcceptAllChain(n int) (*Chain, error) {
	if n <= 0 {
		return nil, fmt.Errorf("testonly: BuildAcceptAllChain: n must be positive")
	}
	lock := rootScript()
	lockBytes, err := lock.MarshalBinary()
	if err != nil {
		return nil, err
	}
	firstLockCid, err := provenance.NewCid(lockBytes)
	if err != nil {
		return nil, err
	}
	vlad := provenance.NewVladFromNonce([]byte("deterministic-test-nonce-000000"), firstLockCid)

	entries := make([]*provenance.Entry, 0, n)
	proofs := make([][]byte, 0, n)
	var prev provenance.Cid

	builder := provenance.NewLogBuilder(vlad, lock)
	for s := 0; s < n; s++ {
		key, err := provenance.ParseKey(fmt.Sprintf("/k%d", s))
		if err != nil {
			return nil, err
		}
		eb := provenance.NewEntryBuilder(uint64(s)).
			WithOps(provenance.UpdateOp(key, provenance.StrValue(fmt.Sprintf("v%d", s)))).
			WithLocks(lock).
			WithUnlock(rootScript())
		if s == 0 {
			eb = eb.WithVlad(vlad)
		} else {
			eb = eb.WithPrev(prev).WithLipmaa(lipmaaTarget(entries, s))
		}

		proof := []byte(fmt.Sprintf("proof-%d", s))
		e, err := eb.Build(func(preimage []byte) ([]byte, error) { return proof, nil })
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
		proofs = append(proofs, proof)
		builder.AddEntry(&e)

		prev, err = e.Cid()
		if err != nil {
			return nil, err
		}
	}

	log, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Chain{Log: log, Entries: entries, Proofs: proofs}, nil
}

// BuildMixedLockChain builds a two-entry chain whose second entry is
// governed by two sibling locks over the same mutated leaf: a "/data/"
// branch lock and a "/data/x" leaf lock that governs itself (a leaf is its
// own ParentOf). Driving this chain with a runner that rejects exactly one
// of the two paths exercises the verifier's short-circuit-on-first-success
// lock semantics (spec.md §4.7 steps 7-8): the entry must still verify as
// long as at least one governing lock accepts, regardless of order.
func BuildMixedLockChain() (*Chain, error) {
	root := rootScript()
	branchLock := lockAt("/data/")
	leafLock := lockAt("/data/x")

	rootBytes, err := root.MarshalBinary()
	if err != nil {
		return nil, err
	}
	firstLockCid, err := provenance.NewCid(rootBytes)
	if err != nil {
		return nil, err
	}
	vlad := provenance.NewVladFromNonce([]byte("deterministic-test-nonce-mixedlk"), firstLockCid)

	builder := provenance.NewLogBuilder(vlad, root)

	genesis, err := provenance.NewEntryBuilder(0).
		WithVlad(vlad).
		WithLocks(branchLock, leafLock).
		WithUnlock(root).
		Build(func(preimage []byte) ([]byte, error) { return []byte("proof-0"), nil })
	if err != nil {
		return nil, err
	}
	builder.AddEntry(&genesis)
	prev, err := genesis.Cid()
	if err != nil {
		return nil, err
	}

	key := provenance.MustParseKey("/data/x")
	second, err := provenance.NewEntryBuilder(1).
		WithPrev(prev).
		WithOps(provenance.UpdateOp(key, provenance.StrValue("v1"))).
		WithLocks(branchLock, leafLock).
		WithUnlock(root).
		Build(func(preimage []byte) ([]byte, error) { return []byte("proof-1"), nil })
	if err != nil {
		return nil, err
	}
	builder.AddEntry(&second)

	log, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Chain{
		Log:     log,
		Entries: []*provenance.Entry{&genesis, &second},
		Proofs:  [][]byte{[]byte("proof-0"), []byte("proof-1")},
	}, nil
}

// lipmaaTarget picks the content id of the skip-link predecessor for the
// entry about to be built at seqno s: provenance.Lipmaa(s) names that
// predecessor's own seqno directly, which is also its index in built
// since built holds one already-sealed entry per seqno from 0 up to s-1.
func lipmaaTarget(built []*provenance.Entry, s int) provenance.Cid {
	idx := int(provenance.Lipmaa(uint64(s)))
	if idx >= len(built) {
		idx = len(built) - 1
	}
	if idx < 0 {
		idx = 0
	}
	c, err := built[idx].Cid()
	if err != nil {
		return provenance.NilCid
	}
	return c
}
