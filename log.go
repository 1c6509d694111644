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
	"fmt"
	"sort"

	"github.com/plogdev/provenance-log/api"
)

// Log is a complete, hash-linked chain of entries: the genesis Vlad and
// first lock script, the foot (first) and head (most recent) entry
// content ids, and every entry in between, keyed by its own content id.
type Log struct {
	version   uint64
	vlad      Vlad
	firstLock Script
	foot      Cid
	head      Cid
	entries   map[string]*Entry
}

// Version reports the log's wire version.
func (l *Log) Version() uint64 { return l.version }

// Vlad returns the log's verifiable address.
func (l *Log) Vlad() Vlad { return l.vlad }

// FirstLock returns the genesis lock script that governs the log's first
// entry.
func (l *Log) FirstLock() Script { return l.firstLock }

// Foot returns the content id of the first entry in the log.
func (l *Log) Foot() Cid { return l.foot }

// Head returns the content id of the most recent entry in the log.
func (l *Log) Head() Cid { return l.head }

// Len returns the number of entries in the log.
func (l *Log) Len() int { return len(l.entries) }

// Entry looks up a single entry by content id.
func (l *Log) Entry(c Cid) (*Entry, bool) {
	e, ok := l.entries[c.String()]
	return e, ok
}

// All returns every entry in the log, ordered by seqno, as a freshly
// allocated slice. Iter walks the same slice.
func (l *Log) All() []*Entry {
	out := make([]*Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seqno() < out[j].Seqno() })
	return out
}

// Iter returns a pull iterator over the log's entries in seqno order: call
// next repeatedly until ok is false, then call cancel (idempotent) once
// done. next never blocks; it is a plain index walk over a pre-sorted
// slice, but kept as a pull iterator to match the scale-independent shape
// a real streaming store would need.
func (l *Log) Iter() (next func() (entry *Entry, ok bool), cancel func()) {
	all := l.All()
	i := 0
	done := false
	next = func() (*Entry, bool) {
		if done || i >= len(all) {
			return nil, false
		}
		e := all[i]
		i++
		return e, true
	}
	cancel = func() { done = true }
	return next, cancel
}

// entryAtSeqno returns the entry in l with the given seqno, used by
// TryAppend to resolve a new entry's lipmaa skip-link target.
func (l *Log) entryAtSeqno(seqno uint64) (*Entry, bool) {
	for _, e := range l.entries {
		if e.Seqno() == seqno {
			return e, true
		}
	}
	return nil, false
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (l *Log) MarshalBinary() ([]byte, error) {
	buf := []byte{api.SigilLog}
	buf = api.WriteUvarint(buf, l.version)

	vladBytes, err := l.vlad.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = api.WriteVarbytes(buf, vladBytes)

	firstLockBytes, err := l.firstLock.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = api.WriteVarbytes(buf, firstLockBytes)

	buf = append(buf, cidOrNilBytes(l.foot)...)
	buf = append(buf, cidOrNilBytes(l.head)...)

	entries := l.All()
	buf = api.WriteUvarint(buf, uint64(len(entries)))
	for _, e := range entries {
		c, err := e.Cid()
		if err != nil {
			return nil, err
		}
		buf = api.WriteVarbytes(buf, c.Bytes())
		eb, err := e.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = api.WriteVarbytes(buf, eb)
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It does not
// re-derive Foot/Head/ordering from the entry chain; use LogBuilder for
// that validation when decoding data from an untrusted source.
func (l *Log) UnmarshalBinary(data []byte) error {
	if len(data) == 0 || data[0] != api.SigilLog {
		return ErrMissingSigil
	}
	buf := data[1:]

	version, buf, err := api.ReadUvarint(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding log version: %w", err)
	}

	vladBytes, buf, err := api.ReadVarbytes(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding log vlad: %w", err)
	}
	var vlad Vlad
	if err := vlad.UnmarshalBinary(vladBytes); err != nil {
		return fmt.Errorf("provenance: decoding log vlad: %w", err)
	}

	firstLockBytes, buf, err := api.ReadVarbytes(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding log first_lock: %w", err)
	}
	var firstLock Script
	if err := firstLock.UnmarshalBinary(firstLockBytes); err != nil {
		return fmt.Errorf("provenance: decoding log first_lock: %w", err)
	}

	foot, buf, err := readOptionalCid(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding log foot: %w", err)
	}
	head, buf, err := readOptionalCid(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding log head: %w", err)
	}

	numEntries, buf, err := api.ReadUvarint(buf)
	if err != nil {
		return fmt.Errorf("provenance: decoding log entry count: %w", err)
	}
	entries := make(map[string]*Entry, numEntries)
	for i := uint64(0); i < numEntries; i++ {
		var cidBytes []byte
		cidBytes, buf, err = api.ReadVarbytes(buf)
		if err != nil {
			return fmt.Errorf("provenance: decoding log entry %d cid: %w", i, err)
		}
		wantCid, err := castCid(cidBytes)
		if err != nil {
			return fmt.Errorf("provenance: decoding log entry %d cid: %w", i, err)
		}
		var entryBytes []byte
		entryBytes, buf, err = api.ReadVarbytes(buf)
		if err != nil {
			return fmt.Errorf("provenance: decoding log entry %d: %w", i, err)
		}
		var e Entry
		if err := e.UnmarshalBinary(entryBytes); err != nil {
			return fmt.Errorf("provenance: decoding log entry %d: %w", i, err)
		}
		gotCid, err := e.Cid()
		if err != nil {
			return err
		}
		if !gotCid.Equals(wantCid) {
			return ErrEntryCidMismatch
		}
		entries[wantCid.String()] = &e
	}
	if len(buf) != 0 {
		return ErrTrailingBytes
	}

	l.version = version
	l.vlad = vlad
	l.firstLock = firstLock
	l.foot = foot
	l.head = head
	l.entries = entries
	return nil
}

// LogBuilder assembles and validates a Log from a set of entries, walking
// the chain from head to foot via Prev links the way the original log
// builder does, rejecting gaps, cid mismatches, and orphaned entries.
type LogBuilder struct {
	version   uint64
	vlad      Vlad
	firstLock Script
	entries   map[string]*Entry
}

// NewLogBuilder returns a builder for a log addressed by vlad and governed
// initially by firstLock.
func NewLogBuilder(vlad Vlad, firstLock Script) *LogBuilder {
	return &LogBuilder{version: EntryVersion, vlad: vlad, firstLock: firstLock, entries: map[string]*Entry{}}
}

// AddEntry adds e to the set of entries the built log will contain.
func (b *LogBuilder) AddEntry(e *Entry) *LogBuilder {
	c, err := e.Cid()
	if err != nil {
		return b
	}
	b.entries[c.String()] = e
	return b
}

// Build validates and assembles the Log. It requires exactly one entry
// with seqno 0 (the foot) and exactly one entry that no other entry
// references as Prev (the head), and a contiguous Prev chain connecting
// every entry from head back to foot.
func (b *LogBuilder) Build() (*Log, error) {
	if len(b.entries) == 0 {
		return nil, ErrMissingEntries
	}

	var foot *Entry
	referenced := make(map[string]bool, len(b.entries))
	for _, e := range b.entries {
		if e.Seqno() == 0 {
			if foot != nil {
				return nil, ErrMissingFoot
			}
			foot = e
		}
		if e.Prev().Defined() {
			referenced[e.Prev().String()] = true
		}
	}
	if foot == nil {
		return nil, ErrMissingFoot
	}

	var head *Entry
	for c, e := range b.entries {
		if !referenced[c] {
			if head != nil {
				return nil, ErrMissingHead
			}
			head = e
		}
	}
	if head == nil {
		return nil, ErrMissingHead
	}

	visited := make(map[string]bool, len(b.entries))
	cur := head
	for {
		c, err := cur.Cid()
		if err != nil {
			return nil, err
		}
		if got, ok := b.entries[c.String()]; !ok || got != cur {
			return nil, ErrEntryCidMismatch
		}
		visited[c.String()] = true
		if cur.Seqno() == 0 {
			break
		}
		prev, ok := b.entries[cur.Prev().String()]
		if !ok {
			return nil, ErrBrokenPrevLink
		}
		cur = prev
	}
	if len(visited) != len(b.entries) {
		return nil, ErrBrokenEntryLinks
	}

	footCid, err := foot.Cid()
	if err != nil {
		return nil, err
	}
	headCid, err := head.Cid()
	if err != nil {
		return nil, err
	}

	return &Log{
		version:   b.version,
		vlad:      b.vlad,
		firstLock: b.firstLock,
		foot:      footCid,
		head:      headCid,
		entries:   b.entries,
	}, nil
}
