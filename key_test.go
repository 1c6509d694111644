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
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
		branch  bool
		segs    int
	}{
		{in: "", wantErr: ErrEmptyKey},
		{in: "foo/bar", wantErr: ErrMissingRootSeparator},
		{in: "/", branch: true, segs: 0},
		{in: "/foo", branch: false, segs: 1},
		{in: "/foo/", branch: true, segs: 1},
		{in: "/foo//bar///", branch: true, segs: 2},
	}
	for _, tt := range tests {
		k, err := ParseKey(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseKey(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", tt.in, err)
		}
		if k.IsBranch() != tt.branch {
			t.Errorf("ParseKey(%q).IsBranch() = %v, want %v", tt.in, k.IsBranch(), tt.branch)
		}
		if k.Len() != tt.segs {
			t.Errorf("ParseKey(%q).Len() = %d, want %d", tt.in, k.Len(), tt.segs)
		}
	}
}

func TestKeyPush(t *testing.T) {
	root := MustParseKey("/")
	foo, err := root.Push("foo")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if foo.String() != "/foo" {
		t.Errorf("foo.String() = %q, want /foo", foo.String())
	}
	if _, err := foo.Push("bar"); !errors.Is(err, ErrNotABranch) {
		t.Errorf("Push onto leaf: err = %v, want ErrNotABranch", err)
	}
	bar, err := foo.Branch().Push("bar")
	if err != nil {
		t.Fatalf("Push onto branch: %v", err)
	}
	if bar.String() != "/foo/bar" {
		t.Errorf("bar.String() = %q, want /foo/bar", bar.String())
	}
}

func TestKeyParentOfIsSegmentWise(t *testing.T) {
	fooBranch := MustParseKey("/foo/")
	fooBar := MustParseKey("/foobar")
	if fooBranch.ParentOf(fooBar) {
		t.Error("/foo/ must NOT be parent of /foobar (substring, not segment-wise)")
	}

	fooChild := MustParseKey("/foo/bar")
	if !fooBranch.ParentOf(fooChild) {
		t.Error("/foo/ must be parent of /foo/bar")
	}
	if !fooBranch.ParentOf(fooBranch) {
		t.Error("a branch must be its own parent")
	}
	leaf := MustParseKey("/foo")
	if leaf.ParentOf(fooChild) {
		t.Error("a leaf can never be parent of a different key")
	}
	if !leaf.ParentOf(leaf) {
		t.Error("a leaf must be its own parent")
	}
}

func TestKeyLongestCommonBranch(t *testing.T) {
	a := MustParseKey("/a/b/c")
	b := MustParseKey("/a/b/d")
	got := a.LongestCommonBranch(b)
	if got.String() != "/a/b/" {
		t.Errorf("LongestCommonBranch = %q, want /a/b/", got.String())
	}
}

func TestKeyLessShorterPrefixFirst(t *testing.T) {
	parent := MustParseKey("/foo/")
	child := MustParseKey("/foo/bar")
	if !parent.Less(child) {
		t.Error("/foo/ should sort before /foo/bar")
	}
	if child.Less(parent) {
		t.Error("/foo/bar should not sort before /foo/")
	}
}

func TestKeyBinaryRoundTrip(t *testing.T) {
	k := MustParseKey("/a/b/c/")
	data, err := k.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got Key
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !got.Equal(k) {
		t.Errorf("round trip = %q, want %q", got.String(), k.String())
	}
}
