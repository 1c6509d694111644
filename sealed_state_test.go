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

package provenance_test

import (
	"testing"

	provenance "github.com/plogdev/provenance-log"
	"github.com/plogdev/provenance-log/testonly"
)

func TestSealedStateRoundTrip(t *testing.T) {
	chain, err := testonly.BuildAcceptAllChain(3)
	if err != nil {
		t.Fatalf("BuildAcceptAllChain: %v", err)
	}
	sealed, err := chain.Log.SealedState()
	if err != nil {
		t.Fatalf("SealedState: %v", err)
	}

	summary, err := provenance.ParseSealedState(sealed)
	if err != nil {
		t.Fatalf("ParseSealedState: %v", err)
	}
	if !summary.Head.Equals(chain.Log.Head()) {
		t.Errorf("summary.Head = %v, want %v", summary.Head, chain.Log.Head())
	}
	if !summary.Foot.Equals(chain.Log.Foot()) {
		t.Errorf("summary.Foot = %v, want %v", summary.Foot, chain.Log.Foot())
	}
	if !summary.Vlad.Cid().Equals(chain.Log.Vlad().Cid()) {
		t.Errorf("summary.Vlad.Cid() = %v, want %v", summary.Vlad.Cid(), chain.Log.Vlad().Cid())
	}
}

func TestSealedStateIsDeterministic(t *testing.T) {
	chain, err := testonly.BuildAcceptAllChain(2)
	if err != nil {
		t.Fatalf("BuildAcceptAllChain: %v", err)
	}
	a, err := chain.Log.SealedState()
	if err != nil {
		t.Fatalf("SealedState: %v", err)
	}
	b, err := chain.Log.SealedState()
	if err != nil {
		t.Fatalf("SealedState: %v", err)
	}
	if string(a) != string(b) {
		t.Error("SealedState must encode deterministically for the same log")
	}
}

func TestParseSealedStateRejectsGarbage(t *testing.T) {
	if _, err := provenance.ParseSealedState([]byte{0xff, 0xff}); err == nil {
		t.Fatal("expected an error decoding garbage sealed state bytes")
	}
}
