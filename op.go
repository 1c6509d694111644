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

import "fmt"

// OpKind identifies which mutation an Op performs.
type OpKind uint8

const (
	// OpNoop performs no mutation but still names a path; it is used as a
	// synthetic op when an entry's lock set changes without any real
	// mutation, and as a placeholder for empty ops lists (see SortLocks).
	OpNoop OpKind = iota
	// OpDelete removes the value at a leaf path.
	OpDelete
	// OpUpdate sets the value at a leaf path.
	OpUpdate
)

func (k OpKind) String() string {
	switch k {
	case OpNoop:
		return "noop"
	case OpDelete:
		return "delete"
	case OpUpdate:
		return "update"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

// Op is a single mutation applied to the virtual namespace by an entry.
// Every op carries the path it affects, including Noop, since the path
// governs which lock scripts apply to it (see SortLocks).
type Op struct {
	kind  OpKind
	path  Key
	value Value
}

// NoopOp returns a no-op affecting path.
func NoopOp(path Key) Op { return Op{kind: OpNoop, path: path} }

// DeleteOp returns an op that removes the value at path.
func DeleteOp(path Key) Op { return Op{kind: OpDelete, path: path} }

// UpdateOp returns an op that sets path to value.
func UpdateOp(path Key, value Value) Op { return Op{kind: OpUpdate, path: path, value: value} }

// Kind reports which mutation this op performs.
func (o Op) Kind() OpKind { return o.kind }

// Path returns the key this op affects.
func (o Op) Path() Key { return o.path }

// Value returns the value an OpUpdate installs; zero for other kinds.
func (o Op) Value() Value { return o.value }

func (o Op) String() string {
	switch o.kind {
	case OpUpdate:
		return fmt.Sprintf("update(%s, %s)", o.path, o.value)
	default:
		return fmt.Sprintf("%s(%s)", o.kind, o.path)
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (o Op) MarshalBinary() ([]byte, error) {
	buf := []byte{byte(o.kind)}
	pathBytes, err := o.path.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, pathBytes...)
	if o.kind == OpUpdate {
		valBytes, err := o.value.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, valBytes...)
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (o *Op) UnmarshalBinary(data []byte) error {
	got, rest, err := decodeOpFrom(data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrTrailingBytes
	}
	*o = got
	return nil
}

func decodeOpFrom(buf []byte) (Op, []byte, error) {
	if len(buf) == 0 {
		return Op{}, nil, ErrInvalidOpID
	}
	kind := OpKind(buf[0])
	switch kind {
	case OpNoop, OpDelete, OpUpdate:
	default:
		return Op{}, nil, ErrInvalidOpID
	}
	path, rest, err := decodeKeyFrom(buf[1:])
	if err != nil {
		return Op{}, nil, err
	}
	if kind != OpUpdate {
		return Op{kind: kind, path: path}, rest, nil
	}
	value, rest, err := decodeValueFrom(rest)
	if err != nil {
		return Op{}, nil, err
	}
	return Op{kind: kind, path: path, value: value}, rest, nil
}
