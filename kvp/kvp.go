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

// Package kvp implements the virtual key-value-pairs store that a log's
// entries mutate: a flat map keyed by leaf path, with an undo-as-snapshot
// stack so that a verifier can roll an entry's effects back on failure,
// and an overlay that falls through to an entry's own "/entry/*"
// attributes when a path isn't found locally.
package kvp

import (
	lru "github.com/hashicorp/golang-lru/v2"

	provenance "github.com/plogdev/provenance-log"
	"github.com/plogdev/provenance-log/script"
)

// Store is the namespace a log's entries mutate. The zero value is not
// usable; use New.
type Store struct {
	data  map[string]provenance.Value
	entry *provenance.Entry
	undo  []undoFrame
	cache *lru.Cache[string, *provenance.Entry]
}

type undoFrame struct {
	entry *provenance.Entry
	data  map[string]provenance.Value
}

// New returns an empty Store. cacheSize bounds the number of decoded
// entries kept in the Cid->Entry decode cache; a size of 0 disables the
// cache entirely.
func New(cacheSize int) (*Store, error) {
	s := &Store{data: make(map[string]provenance.Value)}
	if cacheSize > 0 {
		c, err := lru.New[string, *provenance.Entry](cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	return s, nil
}

// Get returns the value at path: from the local store if present,
// otherwise from the installed entry's "/entry/*" attribute overlay.
func (s *Store) Get(path provenance.Key) (provenance.Value, bool) {
	if v, ok := s.data[path.String()]; ok {
		return v, ok
	}
	if s.entry != nil {
		return s.entry.Context(path)
	}
	return provenance.Value{}, false
}

// Put sets path to v in the local store directly, bypassing the
// entry-attribute overlay (which is read-only).
func (s *Store) Put(path provenance.Key, v provenance.Value) error {
	s.data[path.String()] = v
	return nil
}

// SetEntry installs e as the current entry, enforcing seqno discipline:
// the first entry a Store ever sees must have seqno 0, and every
// subsequent entry's seqno must be exactly one greater than the last. A
// snapshot of the store is pushed onto the undo stack before e replaces
// the previously-installed entry, so UndoEntry can roll this call back.
func (s *Store) SetEntry(e *provenance.Entry) error {
	if s.entry == nil {
		if e.Seqno() != 0 {
			return provenance.ErrNonZeroSeqNo
		}
	} else if e.Seqno() != s.entry.Seqno()+1 {
		return provenance.ErrInvalidSeqNo
	}

	snapshot := make(map[string]provenance.Value, len(s.data))
	for k, v := range s.data {
		snapshot[k] = v
	}
	s.undo = append(s.undo, undoFrame{entry: s.entry, data: snapshot})
	s.entry = e
	return nil
}

// ApplyEntryOps applies the currently-installed entry's Ops to the local
// store: Update installs a value, Delete removes one, and Noop does
// nothing (it exists only to be governed by a lock, see SortLocks).
func (s *Store) ApplyEntryOps() error {
	if s.entry == nil {
		return provenance.ErrNoEntryAttributes
	}
	for _, op := range s.entry.Ops() {
		switch op.Kind() {
		case provenance.OpUpdate:
			s.data[op.Path().String()] = op.Value()
		case provenance.OpDelete:
			delete(s.data, op.Path().String())
		case provenance.OpNoop:
			// no mutation
		}
	}
	return nil
}

// UndoEntry pops the most recent snapshot off the undo stack, restoring
// the store and the previously-installed entry to their state just before
// the matching SetEntry call.
func (s *Store) UndoEntry() error {
	if len(s.undo) == 0 {
		return provenance.ErrEmptyUndoStack
	}
	frame := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.data = frame.data
	s.entry = frame.entry
	return nil
}

// CurrentEntry returns the most recently installed entry, or nil if none
// has been installed yet.
func (s *Store) CurrentEntry() *provenance.Entry { return s.entry }

// Clone returns an independent copy of s's local data and installed entry,
// suitable for a single speculative lock attempt: writes made through the
// clone's AsScriptPairs never touch s until/unless s.Adopt(clone) is
// called. The undo stack and decode cache are not duplicated; a clone is
// never itself the target of SetEntry/UndoEntry, only of Get/Put via its
// script.Pairs view.
func (s *Store) Clone() provenance.Namespace {
	data := make(map[string]provenance.Value, len(s.data))
	for k, v := range s.data {
		data[k] = v
	}
	return &Store{data: data, entry: s.entry, cache: s.cache}
}

// Adopt replaces s's local data with other's, folding in whatever
// mutations a winning lock attempt made against the clone other. other
// must be a *Store returned by a prior call to s.Clone; anything else is
// ignored.
func (s *Store) Adopt(other provenance.Namespace) {
	o, ok := other.(*Store)
	if !ok {
		return
	}
	s.data = o.data
}

// Keys returns every path currently present in the local store. The
// entry-attribute overlay is not included since it is not enumerable.
func (s *Store) Keys() []provenance.Key {
	keys := make([]provenance.Key, 0, len(s.data))
	for raw := range s.data {
		k, err := provenance.ParseKey(raw)
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// DecodeEntry decodes raw into an Entry, verifies its content id matches
// wantCid, and caches the result so a later decode of the same cid is
// free. wantCid may be the zero Cid to skip the integrity check (used
// when decoding an entry for the first time, before its cid is known).
func (s *Store) DecodeEntry(wantCid provenance.Cid, raw []byte) (*provenance.Entry, error) {
	key := wantCid.String()
	if s.cache != nil && wantCid.Defined() {
		if e, ok := s.cache.Get(key); ok {
			return e, nil
		}
	}
	var e provenance.Entry
	if err := e.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	got, err := e.Cid()
	if err != nil {
		return nil, err
	}
	if wantCid.Defined() && !got.Equals(wantCid) {
		return nil, provenance.ErrEntryCidMismatch
	}
	if s.cache != nil {
		s.cache.Add(got.String(), &e)
	}
	return &e, nil
}

// pairsAdapter exposes a Store as the script.Pairs capability, translating
// between this package's typed Key/Value and the plain string/[]byte
// surface scripts see.
type pairsAdapter struct{ s *Store }

// AsScriptPairs adapts s to the script.Pairs interface that a script
// Runner consumes.
func (s *Store) AsScriptPairs() script.Pairs { return pairsAdapter{s: s} }

func (p pairsAdapter) Get(path string) ([]byte, bool) {
	key, err := provenance.ParseKey(path)
	if err != nil {
		return nil, false
	}
	v, ok := p.s.Get(key)
	if !ok {
		return nil, false
	}
	return v.Bytes(), true
}

func (p pairsAdapter) Put(path string, value []byte) error {
	key, err := provenance.ParseKey(path)
	if err != nil {
		return err
	}
	return p.s.Put(key, provenance.DataValue(value))
}
