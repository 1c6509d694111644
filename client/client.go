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

// Package client decodes a provenance log from its canonical binary form
// and drives a Verifier over it, giving callers a single entry point that
// doesn't need to wire together provenance, kvp, and script themselves.
package client

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"

	provenance "github.com/plogdev/provenance-log"
	"github.com/plogdev/provenance-log/kvp"
	"github.com/plogdev/provenance-log/script"
)

// VerifyOptions configures LoadAndVerify. The zero value is not valid;
// build one with DefaultVerifyOptions.
type VerifyOptions struct {
	// Runner executes the log's unlock/lock scripts.
	Runner script.Runner
	// DecodeCacheSize bounds the Cid->Entry decode cache kept by the
	// Namespace built internally. 0 disables the cache.
	DecodeCacheSize int
}

// DefaultVerifyOptions returns sensible defaults for runner.
func DefaultVerifyOptions(runner script.Runner) VerifyOptions {
	return VerifyOptions{Runner: runner, DecodeCacheSize: 256}
}

// Result is everything a caller typically wants after verifying a log:
// the decoded Log itself, the Namespace it was played into, every entry
// that verified, and the total number of script checks run.
type Result struct {
	Log        *provenance.Log
	Store      *kvp.Store
	Verified   []*provenance.Entry
	CheckCount int
}

// LoadAndVerify decodes raw as a Log and fully verifies it, entry by
// entry, returning the populated namespace on success. If verification
// fails it returns the partial Result accumulated before the failing entry
// was reached (so callers can inspect how far verification got) alongside
// a non-nil error; if raw cannot be decoded or the namespace cannot be
// built, the Result is nil.
func LoadAndVerify(ctx context.Context, raw []byte, opts VerifyOptions) (*Result, error) {
	var log provenance.Log
	if err := log.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("client: decoding log: %w", err)
	}
	klog.V(1).Infof("client: decoded log with %d entries, head=%s", log.Len(), log.Head())

	store, err := kvp.New(opts.DecodeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("client: building namespace: %w", err)
	}

	v := provenance.NewVerifier(&log, store, opts.Runner)
	verified, verr := v.VerifyAll(ctx)
	result := &Result{Log: &log, Store: store, Verified: verified, CheckCount: v.CheckCount()}
	if verr != nil {
		klog.Errorf("client: verification failed after %d entries: %v", len(verified), verr)
		return result, fmt.Errorf("client: verifying log: %w", verr)
	}
	klog.V(1).Infof("client: verified %d entries, %d script checks", len(verified), v.CheckCount())
	return result, nil
}
