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

package provenance

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/plogdev/provenance-log/api"
)

// EntryVersion is the only wire version this module writes.
const EntryVersion uint64 = 1

// Entry is a single link in a provenance log: a set of mutations (Ops) to
// the namespace, the lock scripts that will govern the *next* entry, the
// unlock script that authorizes *this* entry against the prior lock set,
// and the proof bytes the unlock/lock scripts consume. Its content id
// (Cid) is computed over every field, including Proof.
type Entry struct {
	version uint64
	vlad    Vlad
	prev    Cid
	lipmaa  Cid
	seqno   uint64
	ops     []Op
	locks   []Script
	unlock  Script
	proof   []byte

	cid Cid // cached; set by EntryBuilder.Build, recomputed lazily otherwise
}

// Version reports the entry's wire version.
func (e Entry) Version() uint64 { return e.version }

// Vlad returns the log's verifiable address. Only the first entry in a
// log carries a defined Vlad.
func (e Entry) Vlad() Vlad { return e.vlad }

// Prev returns the content id of the entry immediately preceding this
// one, or NilCid for the first entry in a log.
func (e Entry) Prev() Cid { return e.prev }

// Lipmaa returns the content id of this entry's skip-link predecessor (see
// the Lipmaa function), or NilCid when the entry carries no skip link (as
// for the first entry in a log).
func (e Entry) Lipmaa() Cid { return e.lipmaa }

// Seqno returns this entry's zero-indexed sequence number within its log.
func (e Entry) Seqno() uint64 { return e.seqno }

// Ops returns the mutations this entry applies to the namespace.
func (e Entry) Ops() []Op { return append([]Op(nil), e.ops...) }

// Locks returns the lock scripts that will govern entries following this
// one.
func (e Entry) Locks() []Script { return append([]Script(nil), e.locks...) }

// Unlock returns the script that authorizes this entry against the prior
// lock set.
func (e Entry) Unlock() Script { return e.unlock }

// Proof returns the proof bytes this entry's unlock/lock scripts consume.
func (e Entry) Proof() []byte { return append([]byte(nil), e.proof...) }

// Cid returns this entry's content id, computing it on first access if the
// entry was not produced by an EntryBuilder.
func (e *Entry) Cid() (Cid, error) {
	if e.cid.Defined() {
		return e.cid, nil
	}
	data, err := e.MarshalBinary()
	if err != nil {
		return NilCid, err
	}
	c, err := NewCid(data)
	if err != nil {
		return NilCid, err
	}
	e.cid = c
	return c, nil
}

// Context resolves the "/entry/*" pseudo-path overlay that lock and unlock
// scripts see when they read attributes of the entry itself, rather than
// the namespace it mutates. It is named Context (not, e.g., Attr or a
// ops-first accessor) to match this module's chosen naming for per-entry
// script-visible state.
func (e Entry) Context(path Key) (Value, bool) {
	switch path.String() {
	case "/entry/":
		// Self-serialization with Proof zeroed: scripts that need to
		// re-derive the preimage they signed read it from here rather
		// than re-deriving it by hand.
		bare := e
		bare.proof = nil
		b, err := bare.encode(true)
		if err != nil {
			return Value{}, false
		}
		return DataValue(b), true
	case "/entry/version":
		return DataValue(encodeUint64(e.version)), true
	case "/entry/vlad":
		b, err := e.vlad.MarshalBinary()
		if err != nil {
			return Value{}, false
		}
		return DataValue(b), true
	case "/entry/prev":
		if !e.prev.Defined() {
			return NilValue(), true
		}
		return DataValue(e.prev.Bytes()), true
	case "/entry/lipmaa":
		if !e.lipmaa.Defined() {
			return NilValue(), true
		}
		return DataValue(e.lipmaa.Bytes()), true
	case "/entry/seqno":
		return DataValue(encodeUint64(e.seqno)), true
	case "/entry/ops":
		buf := api.WriteUvarint(nil, uint64(len(e.ops)))
		for _, op := range e.ops {
			ob, err := op.MarshalBinary()
			if err != nil {
				return Value{}, false
			}
			buf = append(buf, ob...)
		}
		return DataValue(buf), true
	case "/entry/locks":
		buf := api.WriteUvarint(nil, uint64(len(e.locks)))
		for _, lock := range e.locks {
			lb, err := lock.MarshalBinary()
			if err != nil {
				return Value{}, false
			}
			buf = append(buf, lb...)
		}
		return DataValue(buf), true
	case "/entry/unlock":
		b, err := e.unlock.MarshalBinary()
		if err != nil {
			return Value{}, false
		}
		return DataValue(b), true
	case "/entry/proof":
		return DataValue(e.proof), true
	default:
		return Value{}, false
	}
}

func encodeUint64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func decodeUint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("provenance: expected 8-byte uint64, got %d bytes", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// MarshalBinary implements encoding.BinaryMarshaler, encoding every field
// including Proof. An entry's Cid is the hash of exactly these bytes.
func (e Entry) MarshalBinary() ([]byte, error) {
	return e.encode(true)
}

// preimage returns the canonical encoding of every field with Proof encoded
// as empty, the same bytes the "/entry/" pseudo-path resolves to; it is
// what a Signer/unlock-script proof generator signs over.
func (e Entry) preimage() ([]byte, error) {
	bare := e
	bare.proof = nil
	return bare.encode(true)
}

func (e Entry) encode(withProof bool) ([]byte, error) {
	buf := []byte{api.SigilEntry}
	buf = api.WriteUvarint(buf, e.version)

	if e.vlad.Defined() {
		vb, err := e.vlad.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = api.WriteVarbytes(buf, vb)
	} else {
		buf = api.WriteVarbytes(buf, nil)
	}

	buf = append(buf, cidOrNilBytes(e.prev)...)
	buf = append(buf, cidOrNilBytes(e.lipmaa)...)
	buf = api.WriteUvarint(buf, e.seqno)

	buf = api.WriteUvarint(buf, uint64(len(e.ops)))
	for _, op := range e.ops {
		ob, err := op.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = api.WriteVarbytes(buf, ob)
	}

	buf = api.WriteUvarint(buf, uint64(len(e.locks)))
	for _, lock := range e.locks {
		lb, err := lock.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = api.WriteVarbytes(buf, lb)
	}

	unlockBytes, err := e.unlock.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = api.WriteVarbytes(buf, unlockBytes)

	if withProof {
		buf = api.WriteVarbytes(buf, e.proof)
	}
	return buf, nil
}

func cidOrNilBytes(c Cid) []byte {
	if !c.Defined() {
		return api.WriteVarbytes(nil, nil)
	}
	return api.WriteVarbytes(nil, c.Bytes())
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *Entry) UnmarshalBinary(data []byte) error {
	if len(data) == 0 || data[0] != api.SigilEntry {
		return ErrMissingSigil
	}
	buf := data[1:]

	version, buf, err := api.ReadUvarint(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry version: %w", err)
	}

	vladBytes, buf, err := api.ReadVarbytes(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry vlad: %w", err)
	}
	var vlad Vlad
	if len(vladBytes) > 0 {
		if err := vlad.UnmarshalBinary(vladBytes); err != nil {
			return fmt.Errorf("provenance: decoding entry vlad: %w", err)
		}
	}

	prev, buf, err := readOptionalCid(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry prev: %w", err)
	}
	lipmaa, buf, err := readOptionalCid(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry lipmaa: %w", err)
	}

	seqno, buf, err := api.ReadUvarint(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry seqno: %w", err)
	}

	numOps, buf, err := api.ReadUvarint(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry op count: %w", err)
	}
	ops := make([]Op, 0, numOps)
	for i := uint64(0); i < numOps; i++ {
		var ob []byte
		ob, buf, err = api.ReadVarbytes(buf)
		if err != nil {
			return fmt.Errorf("provenance: decoding entry op %d: %w", i, err)
		}
		var op Op
		if err := op.UnmarshalBinary(ob); err != nil {
			return fmt.Errorf("provenance: decoding entry op %d: %w", i, err)
		}
		ops = append(ops, op)
	}

	numLocks, buf, err := api.ReadUvarint(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry lock count: %w", err)
	}
	locks := make([]Script, 0, numLocks)
	for i := uint64(0); i < numLocks; i++ {
		var lb []byte
		lb, buf, err = api.ReadVarbytes(buf)
		if err != nil {
			return fmt.Errorf("provenance: decoding entry lock %d: %w", i, err)
		}
		var lock Script
		if err := lock.UnmarshalBinary(lb); err != nil {
			return fmt.Errorf("provenance: decoding entry lock %d: %w", i, err)
		}
		locks = append(locks, lock)
	}

	unlockBytes, buf, err := api.ReadVarbytes(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry unlock: %w", err)
	}
	var unlock Script
	if err := unlock.UnmarshalBinary(unlockBytes); err != nil {
		return fmt.Errorf("provenance: decoding entry unlock: %w", err)
	}

	proof, buf, err := api.ReadVarbytes(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding entry proof: %w", err)
	}
	if len(buf) != 0 {
		return ErrTrailingBytes
	}

	*e = Entry{
		version: version,
		vlad:    vlad,
		prev:    prev,
		lipmaa:  lipmaa,
		seqno:   seqno,
		ops:     ops,
		locks:   locks,
		unlock:  unlock,
		proof:   proof,
	}
	return nil
}

func readOptionalCid(buf []byte) (Cid, []byte, error) {
	b, rest, err := api.ReadVarbytes(buf)
	if err != nil {
		return NilCid, nil, err
	}
	if len(b) == 0 {
		return NilCid, rest, nil
	}
	c, err := castCid(b)
	if err != nil {
		return NilCid, nil, err
	}
	return c, rest, nil
}

// EntryBuilder assembles an Entry, generating its proof and content id
// only once every other field is fixed. Build never mutates an entry that
// fails to validate: it either returns a fully-formed Entry or an error.
type EntryBuilder struct {
	version uint64
	vlad    Vlad
	prev    Cid
	lipmaa  Cid
	seqno   uint64
	ops     []Op
	locks   []Script
	unlock  Script
}

// NewEntryBuilder returns a builder for the entry at the given seqno.
func NewEntryBuilder(seqno uint64) *EntryBuilder {
	return &EntryBuilder{version: EntryVersion, seqno: seqno}
}

// WithVlad sets the log address; only the seqno-0 entry should carry one.
func (b *EntryBuilder) WithVlad(v Vlad) *EntryBuilder { b.vlad = v; return b }

// WithPrev sets the content id of the preceding entry.
func (b *EntryBuilder) WithPrev(c Cid) *EntryBuilder { b.prev = c; return b }

// WithLipmaa sets the content id of the skip-link predecessor.
func (b *EntryBuilder) WithLipmaa(c Cid) *EntryBuilder { b.lipmaa = c; return b }

// WithOps sets the mutations this entry applies.
func (b *EntryBuilder) WithOps(ops ...Op) *EntryBuilder { b.ops = ops; return b }

// WithLocks sets the lock scripts that will govern the next entry.
func (b *EntryBuilder) WithLocks(locks ...Script) *EntryBuilder { b.locks = locks; return b }

// WithUnlock sets the script that authorizes this entry.
func (b *EntryBuilder) WithUnlock(s Script) *EntryBuilder { b.unlock = s; return b }

// GenProof produces proof bytes for an entry from its preimage (every
// field canonically encoded, with Proof empty). A signing proof generator
// would sign the preimage; a hash-preimage generator simply returns a
// stored secret.
type GenProof func(preimage []byte) ([]byte, error)

// Build assembles the Entry, calling gen to produce Proof from the
// preimage, then computing the final content id over the complete
// encoding (including Proof).
func (b *EntryBuilder) Build(gen GenProof) (Entry, error) {
	if b.unlock.IsZero() {
		return Entry{}, ErrMissingUnlockScript
	}
	if IsLipmaa(b.seqno) && !b.lipmaa.Defined() {
		return Entry{}, ErrMissingLipmaaLink
	}
	partial := Entry{
		version: b.version,
		vlad:    b.vlad,
		prev:    b.prev,
		lipmaa:  b.lipmaa,
		seqno:   b.seqno,
		ops:     b.ops,
		locks:   b.locks,
		unlock:  b.unlock,
	}
	preimage, err := partial.preimage()
	if err != nil {
		return Entry{}, err
	}
	proof, err := gen(preimage)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrProofGenerationFailed, err)
	}
	partial.proof = proof

	full, err := partial.MarshalBinary()
	if err != nil {
		return Entry{}, err
	}
	c, err := NewCid(full)
	if err != nil {
		return Entry{}, err
	}
	partial.cid = c
	return partial, nil
}

// setLipmaa overwrites e's lipmaa link and invalidates its cached Cid,
// recomputing it immediately. It is used by Log.TryAppend to fill in the
// skip-link target a candidate entry cannot know at build time, since that
// target depends on the log it is being appended to, not on the entry's
// own fields.
func (e *Entry) setLipmaa(c Cid) error {
	e.lipmaa = c
	e.cid = NilCid
	_, err := e.Cid()
	return err
}

// SortLocks computes the ordered subset of locksIn that must run to
// authorize ops against an entry whose own forward-going lock set is
// thisLocks. It implements, in order:
//
//  1. if ops is empty, a synthetic Noop("/") stands in for it, so that an
//     entry with no real mutations still exercises at least one lock;
//  2. if thisLocks differs from locksIn (the entry is rotating its lock
//     set), an additional synthetic Noop("/") is appended, so that the
//     root-governing lock is always consulted on rotation;
//  3. the provisional governing set is every lock in locksIn whose path
//     is a segment-wise parent of some op's path, included at most once;
//  4. locksIn is filtered down to that governing set, preserving locksIn's
//     original relative order;
//  5. the filtered list is stable-sorted by path order (shorter
//     branches first, then lexicographically), so that ties preserve
//     their locksIn order.
func SortLocks(ops []Op, thisLocks []Script, locksIn []Script) []Script {
	working := ops
	if len(working) == 0 {
		working = []Op{NoopOp(RootKey)}
	}
	if !scriptsEqual(thisLocks, locksIn) {
		cp := make([]Op, len(working), len(working)+1)
		copy(cp, working)
		working = append(cp, NoopOp(RootKey))
	}

	governing := make([]bool, len(locksIn))
	for _, op := range working {
		for i, lock := range locksIn {
			if lock.Path().ParentOf(op.Path()) {
				governing[i] = true
			}
		}
	}

	var filtered []Script
	for i, lock := range locksIn {
		if governing[i] {
			filtered = append(filtered, lock)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Path().Less(filtered[j].Path())
	})
	return filtered
}

func scriptsEqual(a, b []Script) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ab, err := a[i].MarshalBinary()
		if err != nil {
			return false
		}
		bb, err := b[i].MarshalBinary()
		if err != nil {
			return false
		}
		if !bytes.Equal(ab, bb) {
			return false
		}
	}
	return true
}
