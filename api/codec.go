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

// Package api contains the canonical binary wire-format primitives shared
// by every type in this module: varuint-length-prefixed byte strings and
// the multicodec sigil bytes that tag each encoded frame.
package api

import (
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

// Sigil bytes tag canonical encodings. SigilLog and SigilEntry prefix the
// Log and Entry encodings; SigilKey and SigilScript are reserved values
// that the Key and Script encodings do not write. SigilLog is the
// provenance-log multicodec, 0x09, per spec.md §6.1; the others are
// module-local picks clear of both that value and the dag-cbor codec
// (0x71) cid.go addresses entries with.
const (
	SigilLog    = 0x09
	SigilEntry  = 0x0a
	SigilKey    = 0x0b
	SigilScript = 0x0c
)

// WriteUvarint appends the varuint encoding of v to buf and returns the
// extended slice.
func WriteUvarint(buf []byte, v uint64) []byte {
	return varint.Append(buf, v)
}

// ReadUvarint reads a varuint off the front of buf, returning the decoded
// value and the remaining, unconsumed bytes.
func ReadUvarint(buf []byte) (uint64, []byte, error) {
	v, n, err := varint.FromUvarint(buf)
	if err != nil {
		if err == io.ErrShortBuffer || err == io.EOF {
			return 0, nil, fmt.Errorf("api: truncated varuint: %w", err)
		}
		return 0, nil, fmt.Errorf("api: invalid varuint: %w", err)
	}
	return v, buf[n:], nil
}

// WriteVarbytes appends a varuint length prefix followed by b itself.
func WriteVarbytes(buf []byte, b []byte) []byte {
	buf = WriteUvarint(buf, uint64(len(b)))
	return append(buf, b...)
}

// ReadVarbytes reads a length-prefixed byte string off the front of buf,
// returning the decoded bytes (a fresh copy, not an alias into buf) and the
// remaining bytes.
func ReadVarbytes(buf []byte) ([]byte, []byte, error) {
	n, rest, err := ReadUvarint(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(rest)) < n {
		return nil, nil, fmt.Errorf("api: truncated varbytes: want %d bytes, have %d", n, len(rest))
	}
	out := make([]byte, n)
	copy(out, rest[:n])
	return out, rest[n:], nil
}
