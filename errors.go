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

import "errors"

// Key errors.
var (
	ErrEmptyKey             = errors.New("provenance: empty key")
	ErrMissingRootSeparator = errors.New("provenance: key missing leading '/'")
	ErrNotABranch           = errors.New("provenance: cannot push onto a leaf key")
	ErrTrailingBytes        = errors.New("provenance: trailing bytes after decoding")
)

// Value errors.
var (
	ErrInvalidValueID = errors.New("provenance: invalid value id")
)

// Op errors.
var (
	ErrInvalidOpID = errors.New("provenance: invalid op id")
)

// Script errors.
var (
	ErrInvalidScriptID    = errors.New("provenance: invalid script id")
	ErrMissingCode        = errors.New("provenance: script missing code")
	ErrInvalidScriptMagic = errors.New("provenance: binary script missing wasm magic")
)

// Entry errors.
var (
	ErrMissingSigil          = errors.New("provenance: missing sigil")
	ErrMissingVlad           = errors.New("provenance: entry missing vlad")
	ErrMissingLockScript     = errors.New("provenance: entry missing lock script")
	ErrMissingUnlockScript   = errors.New("provenance: entry missing unlock script")
	ErrProofGenerationFailed = errors.New("provenance: proof generation failed")
	ErrReadOnly              = errors.New("provenance: field is read-only once built")
)

// KVP (virtual key-value store) errors.
var (
	ErrNonZeroSeqNo      = errors.New("provenance: first entry in a kvp store must have seqno 0")
	ErrInvalidSeqNo      = errors.New("provenance: entry seqno must be exactly one greater than the prior entry")
	ErrEmptyUndoStack    = errors.New("provenance: undo called with an empty undo stack")
	ErrNoEntryAttributes = errors.New("provenance: no entry installed to resolve /entry/* attributes")
)

// Log/verification errors.
var (
	ErrMissingFoot         = errors.New("provenance: log missing foot entry")
	ErrMissingHead         = errors.New("provenance: log missing head entry")
	ErrMissingEntries      = errors.New("provenance: log has no entries")
	ErrBrokenEntryLinks    = errors.New("provenance: entry chain is not contiguous from foot to head")
	ErrBrokenPrevLink      = errors.New("provenance: entry's prev link does not resolve to a known entry")
	ErrEntryCidMismatch    = errors.New("provenance: entry's content id does not match its computed cid")
	ErrInvalidSeqno        = errors.New("provenance: entry seqno out of order")
	ErrDuplicateEntry      = errors.New("provenance: duplicate entry cid in log")
	ErrMissingFirstLock    = errors.New("provenance: log missing the first entry's lock script")
	ErrMissingLipmaaLink   = errors.New("provenance: missing lipmaa link for a lipmaa seqno")
	ErrVerifyFailed        = errors.New("provenance: script verification failed")
	ErrVerifierFailed      = errors.New("provenance: verifier is stuck in a failed state")
	ErrNoLocksGoverningOp  = errors.New("provenance: no lock script governs one or more proposed ops")
)
