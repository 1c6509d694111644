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

package crypto

import "testing"

func TestEd25519SignAndVerify(t *testing.T) {
	signer, err := NewEd25519Signer()
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	msg := []byte("check this")
	sig, err := signer.Sign(msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !(Ed25519Verifier{}).Verify(signer.Public(), msg, sig) {
		t.Fatal("Verify rejected a valid signature")
	}
	if (Ed25519Verifier{}).Verify(signer.Public(), []byte("tampered"), sig) {
		t.Fatal("Verify accepted a signature over the wrong message")
	}
}

func TestSha3512Deterministic(t *testing.T) {
	h := Sha3512{}
	a := h.Sum([]byte("hello"))
	b := h.Sum([]byte("hello"))
	if string(a) != string(b) {
		t.Fatal("Sha3512.Sum is not deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("Sha3512.Sum length = %d, want 64", len(a))
	}
}

func TestNewVladFromNonceAndSigner(t *testing.T) {
	target := []byte("first-lock-script")
	v1, err := NewVladFromNonce([]byte("nonce-bytes"), target)
	if err != nil {
		t.Fatalf("NewVladFromNonce: %v", err)
	}
	if !v1.Defined() {
		t.Fatal("nonce vlad should be defined")
	}

	signer, err := NewEd25519Signer()
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	v2, err := NewVladFromSigner(signer, target)
	if err != nil {
		t.Fatalf("NewVladFromSigner: %v", err)
	}
	if !v2.Cid().Equals(v1.Cid()) {
		t.Error("both vlads should target the same cid for the same target bytes")
	}
}
