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

func TestVladNonceRoundTrip(t *testing.T) {
	target, err := NewCid([]byte("first-lock-script"))
	if err != nil {
		t.Fatalf("NewCid: %v", err)
	}
	v := NewVladFromNonce([]byte("0123456789abcdef0123456789abcdef"), target)
	data, err := v.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got Vlad
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !got.Cid().Equals(v.Cid()) {
		t.Errorf("round trip cid = %v, want %v", got.Cid(), v.Cid())
	}
}

func TestVladSignerRoundTrip(t *testing.T) {
	target, err := NewCid([]byte("first-lock-script"))
	if err != nil {
		t.Fatalf("NewCid: %v", err)
	}
	v := NewVladFromSigner([]byte("pubkey-bytes"), target)
	data, err := v.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got Vlad
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !got.Cid().Equals(v.Cid()) {
		t.Errorf("round trip cid = %v, want %v", got.Cid(), v.Cid())
	}
}

func TestVladUndefinedFailsToMarshal(t *testing.T) {
	var v Vlad
	if _, err := v.MarshalBinary(); err == nil {
		t.Fatal("expected error marshaling an undefined vlad")
	}
}
