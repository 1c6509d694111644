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

	"github.com/fxamacker/cbor/v2"
)

// sealStateVersion is bumped whenever the shape of sealedState changes in
// a way that would change its wire encoding.
const sealStateVersion = 1

var (
	sealEncMode cbor.EncMode
	sealDecMode cbor.DecMode
)

func init() {
	var err error
	sealEncMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("provenance: building canonical cbor encoder: %v", err))
	}
	sealDecMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		TagsMd:      cbor.TagsForbidden,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("provenance: building cbor decoder: %v", err))
	}
}

// sealedState is the small, deterministically-encoded checkpoint a caller
// can persist or transmit in place of an entire Log: enough to recognize
// which log and which point in it is being vouched for, without carrying
// the full entries map.
type sealedState struct {
	Version int    `cbor:"1,keyasint"`
	Head    []byte `cbor:"2,keyasint"`
	Foot    []byte `cbor:"3,keyasint"`
	Vlad    []byte `cbor:"4,keyasint"`
}

// SealedState returns a small, canonically-encoded CBOR document
// capturing l's vlad, foot cid, and current head cid. It is meant to be
// persisted or exchanged as an external checkpoint, verified later with
// ParseSealedState, without needing the whole log's entries map at hand.
// Sealing carries no signature of its own; see the crypto package's
// Signer capability if a caller wants to commit to a sealed state.
func (l *Log) SealedState() ([]byte, error) {
	vladBytes, err := l.vlad.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("provenance: sealing vlad: %w", err)
	}
	s := sealedState{
		Version: sealStateVersion,
		Head:    l.head.Bytes(),
		Foot:    l.foot.Bytes(),
		Vlad:    vladBytes,
	}
	out, err := sealEncMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("provenance: encoding sealed state: %w", err)
	}
	return out, nil
}

// SealedStateSummary is the decoded form of a SealedState document.
type SealedStateSummary struct {
	Head Cid
	Foot Cid
	Vlad Vlad
}

// ParseSealedState decodes a document produced by (*Log).SealedState.
func ParseSealedState(data []byte) (SealedStateSummary, error) {
	var s sealedState
	if err := sealDecMode.Unmarshal(data, &s); err != nil {
		return SealedStateSummary{}, fmt.Errorf("provenance: decoding sealed state: %w", err)
	}
	if s.Version != sealStateVersion {
		return SealedStateSummary{}, fmt.Errorf("provenance: sealed state version %d, want %d", s.Version, sealStateVersion)
	}
	head, err := castCid(s.Head)
	if err != nil {
		return SealedStateSummary{}, fmt.Errorf("provenance: decoding sealed head: %w", err)
	}
	foot, err := castCid(s.Foot)
	if err != nil {
		return SealedStateSummary{}, fmt.Errorf("provenance: decoding sealed foot: %w", err)
	}
	var vlad Vlad
	if err := vlad.UnmarshalBinary(s.Vlad); err != nil {
		return SealedStateSummary{}, fmt.Errorf("provenance: decoding sealed vlad: %w", err)
	}
	return SealedStateSummary{Head: head, Foot: foot, Vlad: vlad}, nil
}
