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

	"github.com/ipfs/go-cid"
	"github.com/plogdev/provenance-log/api"
)

// Vlad ("verifiable log address") is a log's stable, content-addressed
// identity: a nonce or a signer's public key bound to the Cid of the
// log's first lock script, so that the log's address survives key
// rotation across entries.
//
// NOTE on wire format: spec fixtures encode a Vlad using multicodec sigil
// bytes belonging to a proprietary table that is not defined anywhere in
// this module's own inputs (see DESIGN.md, "Vlad wire encoding"). The
// sigils below (sigilVladNonce, sigilVladSigner) are this module's own,
// internally-consistent choice; they are not expected to match any
// external byte string, only to round-trip.
type Vlad struct {
	kind   vladKind
	nonce  []byte
	pubKey []byte
	target Cid
}

type vladKind uint8

const (
	vladKindNonce vladKind = iota
	vladKindSigner
)

const (
	sigilVladNonce  = 0x20
	sigilVladSigner = 0x21
)

// NewVladFromNonce builds a Vlad that addresses target using a random
// nonce rather than a signer identity.
func NewVladFromNonce(nonce []byte, target Cid) Vlad {
	cp := make([]byte, len(nonce))
	copy(cp, nonce)
	return Vlad{kind: vladKindNonce, nonce: cp, target: target}
}

// NewVladFromSigner builds a Vlad that addresses target and carries a
// signer's public key in place of a nonce. Nothing in this package checks
// entries against that key.
func NewVladFromSigner(pubKey []byte, target Cid) Vlad {
	cp := make([]byte, len(pubKey))
	copy(cp, pubKey)
	return Vlad{kind: vladKindSigner, pubKey: cp, target: target}
}

// Cid returns the content id this Vlad addresses.
func (v Vlad) Cid() Cid { return v.target }

// Defined reports whether v has been initialized.
func (v Vlad) Defined() bool { return v.target.Defined() }

// MarshalBinary implements encoding.BinaryMarshaler.
func (v Vlad) MarshalBinary() ([]byte, error) {
	if !v.target.Defined() {
		return nil, ErrMissingVlad
	}
	var buf []byte
	switch v.kind {
	case vladKindNonce:
		buf = append(buf, sigilVladNonce)
		buf = api.WriteVarbytes(buf, v.nonce)
	case vladKindSigner:
		buf = append(buf, sigilVladSigner)
		buf = api.WriteVarbytes(buf, v.pubKey)
	default:
		return nil, fmt.Errorf("provenance: invalid vlad kind %d", v.kind)
	}
	buf = append(buf, v.target.Bytes()...)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Vlad) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return ErrMissingVlad
	}
	sigil := data[0]
	rest := data[1:]
	var kind vladKind
	switch sigil {
	case sigilVladNonce:
		kind = vladKindNonce
	case sigilVladSigner:
		kind = vladKindSigner
	default:
		return fmt.Errorf("provenance: unrecognized vlad sigil 0x%02x", sigil)
	}
	idBytes, rest, err := api.ReadVarbytes(rest)
	if err != nil {
		return err
	}
	target, err := cid.Cast(rest)
	if err != nil {
		return fmt.Errorf("provenance: decoding vlad target cid: %w", err)
	}
	*v = Vlad{kind: kind, target: target}
	if kind == vladKindNonce {
		v.nonce = idBytes
	} else {
		v.pubKey = idBytes
	}
	return nil
}
