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

package client_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	provenance "github.com/plogdev/provenance-log"
	"github.com/plogdev/provenance-log/client"
	"github.com/plogdev/provenance-log/testonly"
)

func TestLoadAndVerifyRoundTripsThroughBytes(t *testing.T) {
	chain, err := testonly.BuildAcceptAllChain(4)
	if err != nil {
		t.Fatalf("BuildAcceptAllChain: %v", err)
	}
	raw, err := chain.Log.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	result, err := client.LoadAndVerify(context.Background(), raw, client.DefaultVerifyOptions(testonly.AcceptAllRunner{}))
	if err != nil {
		t.Fatalf("LoadAndVerify: %v", err)
	}
	if len(result.Verified) != 4 {
		t.Fatalf("len(Verified) = %d, want 4", len(result.Verified))
	}
	if result.CheckCount == 0 {
		t.Error("CheckCount should be nonzero after verifying a non-empty chain")
	}
	for i := 0; i < 4; i++ {
		key, err := provenance.ParseKey("/k" + string(rune('0'+i)))
		if err != nil {
			t.Fatalf("ParseKey: %v", err)
		}
		got, ok := result.Store.Get(key)
		if !ok {
			t.Fatalf("Store.Get(%s) missing", key)
		}
		if want := "v" + string(rune('0'+i)); got.Str() != want {
			t.Errorf("Store.Get(%s) = %q, want %q", key, got.Str(), want)
		}
	}
}

func TestLoadAndVerifyFinalKeySetMatchesWrittenKeys(t *testing.T) {
	chain, err := testonly.BuildAcceptAllChain(4)
	if err != nil {
		t.Fatalf("BuildAcceptAllChain: %v", err)
	}
	raw, err := chain.Log.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	result, err := client.LoadAndVerify(context.Background(), raw, client.DefaultVerifyOptions(testonly.AcceptAllRunner{}))
	if err != nil {
		t.Fatalf("LoadAndVerify: %v", err)
	}

	var got []string
	for _, k := range result.Store.Keys() {
		got = append(got, k.String())
	}
	sort.Strings(got)
	want := []string{"/k0", "/k1", "/k2", "/k3"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("final key set mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAndVerifyRejectsGarbage(t *testing.T) {
	_, err := client.LoadAndVerify(context.Background(), []byte{0xff, 0x00, 0x01}, client.DefaultVerifyOptions(testonly.AcceptAllRunner{}))
	if err == nil {
		t.Fatal("expected an error decoding garbage bytes")
	}
}

func TestLoadAndVerifyReturnsPartialResultOnFailure(t *testing.T) {
	chain, err := testonly.BuildAcceptAllChain(3)
	if err != nil {
		t.Fatalf("BuildAcceptAllChain: %v", err)
	}
	raw, err := chain.Log.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	result, err := client.LoadAndVerify(context.Background(), raw, client.DefaultVerifyOptions(testonly.RejectAllRunner{}))
	if !errors.Is(err, provenance.ErrVerifyFailed) {
		t.Fatalf("err = %v, want ErrVerifyFailed", err)
	}
	if result == nil {
		t.Fatal("expected a non-nil partial result even on failure")
	}
	if len(result.Verified) != 0 {
		t.Errorf("len(Verified) = %d, want 0 since the very first entry's unlock fails", len(result.Verified))
	}
}
