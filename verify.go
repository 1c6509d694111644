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
	"context"

	"github.com/plogdev/provenance-log/script"
)

// Namespace is the virtual key-value store a Verifier installs entries
// into as it walks a log. It is satisfied structurally by *kvp.Store
// (package kvp), which this package cannot import directly without
// creating an import cycle (kvp itself imports this package for Key,
// Value, and Entry); callers construct a *kvp.Store and pass it in here.
type Namespace interface {
	SetEntry(e *Entry) error
	ApplyEntryOps() error
	UndoEntry() error
	Get(path Key) (Value, bool)
	AsScriptPairs() script.Pairs
	// Clone returns an independent copy of the namespace's current data, safe
	// to hand to a single lock attempt: writes a script makes through the
	// clone's AsScriptPairs never touch the receiver.
	Clone() Namespace
	// Adopt replaces the receiver's data with a clone's, folding in the
	// mutations a winning lock attempt made. other must have come from a
	// prior call to Clone on this same Namespace.
	Adopt(other Namespace)
}

// Verifier is a lazy, fail-fast iterator over a Log's entries: each call
// to Next checks the next entry's seqno and prev-link, runs its unlock
// script, installs it into the Namespace, and tries the lock scripts that
// SortLocks says govern it in order, stopping at the first that accepts.
// The first entry's ops are applied before its locks run; every later
// entry's ops are applied only after one of its locks accepts. Once Next
// fails the Verifier is stuck: every subsequent call returns (nil, false)
// and Err keeps reporting the same sticky error, without further work.
type Verifier struct {
	log    *Log
	ns     Namespace
	runner script.Runner

	order      []*Entry
	idx        int
	locks      []Script
	checkCount int
	err        error
}

// NewVerifier returns a Verifier over log's entries, starting from log's
// FirstLock as the initial governing lock set.
func NewVerifier(log *Log, ns Namespace, runner script.Runner) *Verifier {
	return &Verifier{
		log:    log,
		ns:     ns,
		runner: runner,
		order:  log.All(),
		locks:  []Script{log.FirstLock()},
	}
}

// Err returns the sticky error that stopped verification, or nil if every
// entry seen so far (or the whole log, once exhausted) verified cleanly.
func (v *Verifier) Err() error { return v.err }

// CheckCount returns the total number of script checks run so far: one
// per lock attempt, accepted or not, plus one for the unlock of each entry
// whose locks accepted.
func (v *Verifier) CheckCount() int { return v.checkCount }

// Next verifies and installs the next entry in seqno order, returning it
// and true on success. It returns (nil, false) both when the log is
// exhausted and when verification has failed; callers distinguish the two
// with Err.
func (v *Verifier) Next(ctx context.Context) (*Entry, bool) {
	if v.err != nil {
		return nil, false
	}
	if v.idx >= len(v.order) {
		return nil, false
	}
	e := v.order[v.idx]
	if err := v.verifyOne(ctx, e); err != nil {
		v.err = err
		return nil, false
	}
	v.idx++
	return e, true
}

// VerifyAll drains the Verifier, returning every verified entry in order,
// or the sticky error at the point verification failed.
func (v *Verifier) VerifyAll(ctx context.Context) ([]*Entry, error) {
	var out []*Entry
	for {
		e, ok := v.Next(ctx)
		if !ok {
			break
		}
		out = append(out, e)
	}
	return out, v.err
}

func (v *Verifier) verifyOne(ctx context.Context, e *Entry) error {
	if v.idx == 0 {
		if e.Seqno() != 0 {
			return ErrInvalidSeqno
		}
		if e.Prev().Defined() {
			return ErrBrokenPrevLink
		}
	} else {
		prior := v.order[v.idx-1]
		if e.Seqno() != prior.Seqno()+1 {
			return ErrInvalidSeqno
		}
		priorCid, err := prior.Cid()
		if err != nil {
			return err
		}
		if !e.Prev().Equals(priorCid) {
			return ErrBrokenPrevLink
		}
	}

	ok, err := v.runUnlock(ctx, e)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVerifyFailed
	}

	if err := v.ns.SetEntry(e); err != nil {
		return err
	}

	if v.idx == 0 {
		if err := v.ns.ApplyEntryOps(); err != nil {
			return err
		}
	}

	governing := SortLocks(e.Ops(), e.Locks(), v.locks)
	if len(governing) == 0 {
		_ = v.ns.UndoEntry()
		return ErrNoLocksGoverningOp
	}
	// Each lock attempt runs against its own clone of the namespace so a
	// rejecting (or merely untried) lock can never leak mutations; only the
	// first lock to succeed has its clone's writes folded back in, and no
	// further locks in the set are attempted. spec.md §4.7 step 7.
	matched := false
	for _, lock := range governing {
		attempt := v.ns.Clone()
		ok, err := v.runScript(ctx, attempt, e, lock, "lock")
		v.checkCount++
		if err != nil {
			_ = v.ns.UndoEntry()
			return err
		}
		if ok {
			v.ns.Adopt(attempt)
			matched = true
			break
		}
	}
	if !matched {
		_ = v.ns.UndoEntry()
		return ErrVerifyFailed
	}
	v.checkCount++ // the unlock check itself

	if v.idx != 0 {
		if err := v.ns.ApplyEntryOps(); err != nil {
			return err
		}
	}

	v.locks = e.Locks()
	return nil
}

func (v *Verifier) runScript(ctx context.Context, ns Namespace, e *Entry, s Script, entryPoint string) (bool, error) {
	sc := &script.Context{
		Current:    ns.AsScriptPairs(),
		Proposed:   ns.AsScriptPairs(),
		PStack:     [][]byte{e.Proof()},
		CheckCount: v.checkCount,
		Vars:       map[string]any{"path": s.Path().String()},
		Limits:     script.DefaultLimits(),
	}
	return v.runner.Run(ctx, sc, entryPoint)
}

// runUnlock runs e's unlock script with no KVP visibility at all: both
// Current and Proposed resolve only against e's own "/entry/*" attributes,
// since the unlock script's job is to publish witness values from the
// entry being validated, not to read namespace state the prior entry left
// behind.
func (v *Verifier) runUnlock(ctx context.Context, e *Entry) (bool, error) {
	sc := &script.Context{
		Current:    entryOnlyPairs{e: e},
		Proposed:   entryOnlyPairs{e: e},
		PStack:     [][]byte{e.Proof()},
		CheckCount: v.checkCount,
		Vars:       map[string]any{"path": e.Unlock().Path().String()},
		Limits:     script.DefaultLimits(),
	}
	return v.runner.Run(ctx, sc, "unlock")
}

// entryOnlyPairs exposes a single Entry's "/entry/*" attribute overlay as a
// script.Pairs, with no underlying namespace: the key-value store itself is
// not yet mutated (or even installed) at the point the unlock phase runs.
type entryOnlyPairs struct{ e *Entry }

func (p entryOnlyPairs) Get(path string) ([]byte, bool) {
	key, err := ParseKey(path)
	if err != nil {
		return nil, false
	}
	v, ok := p.e.Context(key)
	if !ok {
		return nil, false
	}
	return v.Bytes(), true
}

func (p entryOnlyPairs) Put(string, []byte) error {
	return ErrNoEntryAttributes
}

// TryAppend speculatively extends log with a single candidate entry: it
// builds a throwaway Log containing log's existing entries plus e, and
// fully re-verifies that candidate log against a fresh Namespace built by
// newNamespace. The receiver is never mutated; a new *Log with its head
// advanced to e is returned only if the whole candidate verifies cleanly,
// matching this module's "clone, speculatively verify, commit only on
// success" TryAppend semantics.
func (l *Log) TryAppend(ctx context.Context, e *Entry, newNamespace func() Namespace, runner script.Runner) (*Log, error) {
	if IsLipmaa(e.Seqno()) {
		target, ok := l.entryAtSeqno(Lipmaa(e.Seqno()))
		if !ok {
			return nil, ErrMissingLipmaaLink
		}
		targetCid, err := target.Cid()
		if err != nil {
			return nil, err
		}
		if err := e.setLipmaa(targetCid); err != nil {
			return nil, err
		}
	}

	c, err := e.Cid()
	if err != nil {
		return nil, err
	}

	entries := make(map[string]*Entry, len(l.entries)+1)
	for k, v := range l.entries {
		entries[k] = v
	}
	entries[c.String()] = e

	candidate := &Log{
		version:   l.version,
		vlad:      l.vlad,
		firstLock: l.firstLock,
		foot:      l.foot,
		head:      c,
		entries:   entries,
	}
	if !candidate.foot.Defined() {
		if e.Seqno() != 0 {
			return nil, ErrMissingFoot
		}
		candidate.foot = c
	}

	v := NewVerifier(candidate, newNamespace(), runner)
	if _, err := v.VerifyAll(ctx); err != nil {
		return nil, err
	}
	return candidate, nil
}
