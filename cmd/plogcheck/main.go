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

// plogcheck is a command line tool for verifying a provenance log stored
// as a single binary-encoded file on disk. Once the whole log has verified
// it prints the seqno and cid of every entry, then the entry count, the
// script-check count and the number of keys left in the final key/value
// state.
package main

import (
	"context"
	"flag"
	"os"
	"sort"

	"k8s.io/klog/v2"

	"github.com/plogdev/provenance-log/client"
	"github.com/plogdev/provenance-log/testonly"
)

var (
	logFile = flag.String("log_file", "", "Path to a binary-encoded provenance log to verify.")
	verbose = flag.Bool("print_keys", false, "If true, print every key/value pair left in the final state.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	ctx := context.Background()

	if *logFile == "" {
		klog.Exit("Supply a log file path using --log_file")
	}

	raw, err := os.ReadFile(*logFile)
	if err != nil {
		klog.Exitf("Failed to read log file %q: %v", *logFile, err)
	}

	// TODO(plogdev): once a real wasm script host is wired in, replace
	// this reference hash-preimage runner with one backed by the wasm
	// module embedded in each log's scripts.
	opts := client.DefaultVerifyOptions(testonly.HashPreimageRunner{})
	result, err := client.LoadAndVerify(ctx, raw, opts)
	if err != nil {
		if result != nil {
			klog.Errorf("Verified %d entries before failing", len(result.Verified))
		}
		klog.Exitf("Verification failed: %v", err)
	}

	for _, e := range result.Verified {
		c, err := e.Cid()
		if err != nil {
			klog.Exitf("Failed to compute cid for a verified entry: %v", err)
		}
		klog.Infof("entry %d: %s", e.Seqno(), c)
	}
	klog.Infof("OK: %d entries, %d script checks, %d keys", len(result.Verified), result.CheckCount, len(result.Store.Keys()))

	if *verbose {
		printFinalState(result)
	}
}

func printFinalState(result *client.Result) {
	keys := result.Store.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	for _, k := range keys {
		v, ok := result.Store.Get(k)
		if !ok {
			continue
		}
		klog.Infof("%s = %s", k, v.String())
	}
}
