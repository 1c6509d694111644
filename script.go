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
	"fmt"
	"unicode/utf8"

	"github.com/ipfs/go-cid"
	"github.com/plogdev/provenance-log/api"
)

// ScriptKind identifies how a Script's code is stored.
type ScriptKind uint8

const (
	// ScriptBin holds a wasm bytecode module inline.
	ScriptBin ScriptKind = iota
	// ScriptCode holds source text (e.g. Rhai) inline.
	ScriptCode
	// ScriptCid refers to code stored externally by content id.
	ScriptCid
)

// wasmMagic is the 4-byte header every binary wasm module begins with.
var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// Script is a lock or unlock script bound to a path in the namespace: only
// ops whose path this path governs (see SortLocks) are checked against it.
type Script struct {
	kind ScriptKind
	path Key
	bin  []byte
	code string
	cid  Cid
}

// NewBinScript builds a wasm-bytecode script bound to path. wasm must begin
// with the standard `\x00asm` magic.
func NewBinScript(path Key, wasm []byte) (Script, error) {
	if !bytes.HasPrefix(wasm, wasmMagic) {
		return Script{}, ErrInvalidScriptMagic
	}
	cp := make([]byte, len(wasm))
	copy(cp, wasm)
	return Script{kind: ScriptBin, path: path, bin: cp}, nil
}

// NewCodeScript builds a source-text script bound to path.
func NewCodeScript(path Key, src string) (Script, error) {
	if !utf8.ValidString(src) {
		return Script{}, fmt.Errorf("provenance: script source is not valid utf-8")
	}
	return Script{kind: ScriptCode, path: path, code: src}, nil
}

// NewCidScript builds a script bound to path whose code is stored
// externally, addressed by target.
func NewCidScript(path Key, target Cid) (Script, error) {
	if !target.Defined() {
		return Script{}, ErrMissingCode
	}
	return Script{kind: ScriptCid, path: path, cid: target}, nil
}

// Kind reports which variant s holds.
func (s Script) Kind() ScriptKind { return s.kind }

// IsZero reports whether s is the unset zero value, as opposed to a
// legitimately constructed script (every constructor requires a valid
// Key, whose string form is never empty).
func (s Script) IsZero() bool { return s.path.String() == "" }

// Path returns the key this script governs.
func (s Script) Path() Key { return s.path }

// Bin returns the wasm bytecode of a ScriptBin script.
func (s Script) Bin() []byte { return s.bin }

// Code returns the source text of a ScriptCode script.
func (s Script) Code() string { return s.code }

// Cid returns the target content id of a ScriptCid script.
func (s Script) Cid() Cid { return s.cid }

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Script) MarshalBinary() ([]byte, error) {
	buf := []byte{byte(s.kind)}
	pathBytes, err := s.path.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, pathBytes...)
	switch s.kind {
	case ScriptBin:
		buf = api.WriteVarbytes(buf, s.bin)
	case ScriptCode:
		buf = api.WriteVarbytes(buf, []byte(s.code))
	case ScriptCid:
		if !s.cid.Defined() {
			return nil, ErrMissingCode
		}
		buf = api.WriteVarbytes(buf, s.cid.Bytes())
	default:
		return nil, ErrInvalidScriptID
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Script) UnmarshalBinary(data []byte) error {
	got, rest, err := decodeScriptFrom(data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrTrailingBytes
	}
	*s = got
	return nil
}

func decodeScriptFrom(buf []byte) (Script, []byte, error) {
	if len(buf) == 0 {
		return Script{}, nil, ErrInvalidScriptID
	}
	kind := ScriptKind(buf[0])
	path, rest, err := decodeKeyFrom(buf[1:])
	if err != nil {
		return Script{}, nil, err
	}
	payload, rest, err := api.ReadVarbytes(rest)
	if err != nil {
		return Script{}, nil, err
	}
	switch kind {
	case ScriptBin:
		s, err := NewBinScript(path, payload)
		return s, rest, err
	case ScriptCode:
		s, err := NewCodeScript(path, string(payload))
		return s, rest, err
	case ScriptCid:
		target, err := cid.Cast(payload)
		if err != nil {
			return Script{}, nil, fmt.Errorf("provenance: decoding script cid: %w", err)
		}
		s, err := NewCidScript(path, target)
		return s, rest, err
	default:
		return Script{}, nil, ErrInvalidScriptID
	}
}
