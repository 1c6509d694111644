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
	mbase "github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	mh "github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"
)

// Cid is a content-addressed identifier: CIDv1, dag-cbor target codec,
// sha3-512 multihash, exactly as produced by NewCid. It is a plain alias
// for cid.Cid so that callers can use every go-cid helper directly.
type Cid = cid.Cid

// NilCid is the sentinel "no link" value used by Entry.Prev and
// Entry.Lipmaa for the first entry in a log, in place of a
// pointer/Option. cid.Cid's own zero value already carries this meaning
// (Defined() reports false), matching the resolved null-Cid-sentinel
// Open Question.
var NilCid = cid.Cid{}

// NewCid computes the content id of data: a CIDv1 over dag-cbor with a
// sha3-512 multihash. Every canonically-encoded type in this module (most
// importantly Entry) is addressed this way.
func NewCid(data []byte) (Cid, error) {
	sum := sha3.Sum512(data)
	digest, err := mh.Encode(sum[:], mh.SHA3_512)
	if err != nil {
		return NilCid, fmt.Errorf("provenance: building multihash: %w", err)
	}
	return cid.NewCidV1(uint64(multicodec.DagCbor), digest), nil
}

// castCid parses raw, previously-encoded CID bytes (e.g. from
// readOptionalCid) back into a Cid.
func castCid(raw []byte) (Cid, error) {
	c, err := cid.Cast(raw)
	if err != nil {
		return NilCid, fmt.Errorf("provenance: decoding cid: %w", err)
	}
	return c, nil
}

// EncodeCidString renders c using the given multibase encoding, e.g.
// mbase.Base32 for the lower-case base32 form commonly used in URLs, or
// mbase.Base58BTC for the base58 form IPFS tooling favors.
func EncodeCidString(c Cid, base mbase.Encoding) (string, error) {
	s, err := c.StringOfBase(base)
	if err != nil {
		return "", fmt.Errorf("provenance: encoding cid string: %w", err)
	}
	return s, nil
}
