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
	"strings"

	"github.com/plogdev/provenance-log/api"
)

// Key is a '/'-separated path into the hierarchical namespace that a log's
// entries mutate. A Key is either a branch (ends in '/', and may have
// children pushed onto it) or a leaf (does not end in '/', and holds a
// Value directly).
type Key struct {
	parts []string
	s     string
}

// RootKey is the branch at the root of every namespace.
var RootKey = Key{parts: nil, s: "/"}

// ParseKey parses s into a Key. Repeated separators are collapsed, but the
// string must begin with '/'.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, ErrEmptyKey
	}
	if s[0] != '/' {
		return Key{}, ErrMissingRootSeparator
	}
	branch := strings.HasSuffix(s, "/")
	var parts []string
	for _, p := range strings.Split(s, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return Key{parts: parts, s: renderKey(parts, branch)}, nil
}

// MustParseKey is ParseKey, panicking on error. Intended for literal keys
// known at compile time.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func renderKey(parts []string, branch bool) string {
	var b strings.Builder
	b.WriteByte('/')
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(p)
	}
	if branch && len(parts) > 0 {
		b.WriteByte('/')
	}
	return b.String()
}

// IsBranch reports whether k ends in '/' and may have segments pushed onto it.
func (k Key) IsBranch() bool { return strings.HasSuffix(k.s, "/") }

// IsLeaf reports whether k names a single value directly.
func (k Key) IsLeaf() bool { return !k.IsBranch() }

// Len returns the number of path segments in k (the root branch has zero).
func (k Key) Len() int { return len(k.parts) }

// String returns the canonical '/'-separated string form of k.
func (k Key) String() string { return k.s }

// Branch returns k with a trailing '/' appended if it does not already have
// one; a leaf key becomes the branch of the same name.
func (k Key) Branch() Key {
	if k.IsBranch() {
		return k
	}
	return Key{parts: k.parts, s: k.s + "/"}
}

// Push appends name as a new leaf segment under k. k must be a branch.
func (k Key) Push(name string) (Key, error) {
	if !k.IsBranch() {
		return Key{}, ErrNotABranch
	}
	parts := make([]string, len(k.parts)+1)
	copy(parts, k.parts)
	parts[len(k.parts)] = name
	return Key{parts: parts, s: renderKey(parts, false)}, nil
}

// ParentOf reports whether k is a segment-wise ancestor of other. A leaf is
// its own parent (and no one else's); a branch is the parent of itself and
// of everything beneath it. Comparison is over whole path segments, never
// substrings: the branch "/foo/" is NOT a parent of the leaf "/foobar", even
// though "/foo" is a string prefix of "/foobar".
func (k Key) ParentOf(other Key) bool {
	if k.IsLeaf() {
		return k.Equal(other)
	}
	if len(other.parts) < len(k.parts) {
		return false
	}
	for i, p := range k.parts {
		if other.parts[i] != p {
			return false
		}
	}
	return true
}

// LongestCommonBranch returns the deepest branch that is a segment-wise
// ancestor of both k and other.
func (k Key) LongestCommonBranch(other Key) Key {
	n := len(k.parts)
	if len(other.parts) < n {
		n = len(other.parts)
	}
	i := 0
	for i < n && k.parts[i] == other.parts[i] {
		i++
	}
	return Key{parts: k.parts[:i], s: renderKey(k.parts[:i], true)}
}

// Less orders keys with shorter branches sorting before their descendants,
// and otherwise lexicographically; this is exactly Go string comparison of
// the canonical form, since a branch's canonical form is always a string
// prefix of anything pushed onto it.
func (k Key) Less(other Key) bool { return k.s < other.s }

// Equal reports whether k and other name the same path.
func (k Key) Equal(other Key) bool { return k.s == other.s }

// MarshalBinary implements encoding.BinaryMarshaler, encoding k as a
// varuint-length-prefixed UTF-8 string.
func (k Key) MarshalBinary() ([]byte, error) {
	return api.WriteVarbytes(nil, []byte(k.s)), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (k *Key) UnmarshalBinary(data []byte) error {
	b, rest, err := api.ReadVarbytes(data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrTrailingBytes
	}
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// decodeKeyFrom decodes a Key from the front of buf, returning the
// remaining bytes; unlike UnmarshalBinary it does not require buf to be
// consumed exactly, since keys are usually embedded inside a larger frame.
func decodeKeyFrom(buf []byte) (Key, []byte, error) {
	b, rest, err := api.ReadVarbytes(buf)
	if err != nil {
		return Key{}, nil, err
	}
	k, err := ParseKey(string(b))
	if err != nil {
		return Key{}, nil, err
	}
	return k, rest, nil
}
