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

import "testing"

func TestNewBinScriptRejectsBadMagic(t *testing.T) {
	if _, err := NewBinScript(RootKey, []byte("not wasm")); err == nil {
		t.Fatal("expected error for missing wasm magic")
	}
}

func TestScriptRoundTrip(t *testing.T) {
	bin, err := NewBinScript(MustParseKey("/"), append([]byte{0x00, 'a', 's', 'm'}, 1, 2, 3))
	if err != nil {
		t.Fatalf("NewBinScript: %v", err)
	}
	code, err := NewCodeScript(MustParseKey("/a"), "fn main() {}")
	if err != nil {
		t.Fatalf("NewCodeScript: %v", err)
	}
	target, err := NewCid([]byte("external-script"))
	if err != nil {
		t.Fatalf("NewCid: %v", err)
	}
	ref, err := NewCidScript(MustParseKey("/b"), target)
	if err != nil {
		t.Fatalf("NewCidScript: %v", err)
	}

	for _, s := range []Script{bin, code, ref} {
		data, err := s.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(%v): %v", s.Kind(), err)
		}
		var got Script
		if err := got.UnmarshalBinary(data); err != nil {
			t.Fatalf("UnmarshalBinary(%v): %v", s.Kind(), err)
		}
		if got.Kind() != s.Kind() || !got.Path().Equal(s.Path()) {
			t.Errorf("round trip kind/path mismatch for %v", s.Kind())
		}
	}
}
