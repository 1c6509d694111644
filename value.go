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

	"github.com/plogdev/provenance-log/api"
)

// ValueKind identifies which variant of Value is in play.
type ValueKind uint8

const (
	// ValueNil is the empty value.
	ValueNil ValueKind = iota
	// ValueStr is a printable string value.
	ValueStr
	// ValueData is an opaque binary blob value.
	ValueData
)

func (k ValueKind) String() string {
	switch k {
	case ValueNil:
		return "nil"
	case ValueStr:
		return "str"
	case ValueData:
		return "data"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

// Value is the datum stored at a leaf Key in a log's virtual namespace: it
// is either absent (Nil), a printable string, or an opaque binary blob.
type Value struct {
	kind ValueKind
	str  string
	data []byte
}

// NilValue returns the empty value.
func NilValue() Value { return Value{kind: ValueNil} }

// StrValue wraps a printable string as a Value.
func StrValue(s string) Value { return Value{kind: ValueStr, str: s} }

// DataValue wraps an opaque byte slice as a Value.
func DataValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: ValueData, data: cp}
}

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// Bytes returns the byte representation of v: empty for Nil, the UTF-8
// bytes of the string for Str, and the blob itself for Data.
func (v Value) Bytes() []byte {
	switch v.kind {
	case ValueStr:
		return []byte(v.str)
	case ValueData:
		return v.data
	default:
		return nil
	}
}

// Str returns the string held by a Str value, or "" otherwise.
func (v Value) Str() string { return v.str }

func (v Value) String() string {
	switch v.kind {
	case ValueNil:
		return "nil"
	case ValueStr:
		return fmt.Sprintf("str(%q)", v.str)
	case ValueData:
		return fmt.Sprintf("data(% x)", v.data)
	default:
		return v.kind.String()
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v Value) MarshalBinary() ([]byte, error) {
	buf := []byte{byte(v.kind)}
	switch v.kind {
	case ValueNil:
		return buf, nil
	case ValueStr:
		return api.WriteVarbytes(buf, []byte(v.str)), nil
	case ValueData:
		return api.WriteVarbytes(buf, v.data), nil
	default:
		return nil, ErrInvalidValueID
	}
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Value) UnmarshalBinary(data []byte) error {
	got, rest, err := decodeValueFrom(data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrTrailingBytes
	}
	*v = got
	return nil
}

func decodeValueFrom(buf []byte) (Value, []byte, error) {
	if len(buf) == 0 {
		return Value{}, nil, ErrInvalidValueID
	}
	kind := ValueKind(buf[0])
	rest := buf[1:]
	switch kind {
	case ValueNil:
		return Value{kind: ValueNil}, rest, nil
	case ValueStr:
		b, rest, err := api.ReadVarbytes(rest)
		if err != nil {
			return Value{}, nil, err
		}
		return Value{kind: ValueStr, str: string(b)}, rest, nil
	case ValueData:
		b, rest, err := api.ReadVarbytes(rest)
		if err != nil {
			return Value{}, nil, err
		}
		return Value{kind: ValueData, data: b}, rest, nil
	default:
		return Value{}, nil, ErrInvalidValueID
	}
}
