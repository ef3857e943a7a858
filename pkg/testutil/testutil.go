// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package testutil holds small test helpers for pkg/search's test suite.
package testutil

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// RandSource returns a seeded RNG source, logging the seed so a failure
// can be reproduced. SYZ_SEED pins a specific seed; CI always runs seed 0
// so coverage stays deterministic across runs.
func RandSource(t *testing.T) rand.Source {
	seed := time.Now().UnixNano()
	if fixed := os.Getenv("SYZ_SEED"); fixed != "" {
		seed, _ = strconv.ParseInt(fixed, 0, 64)
	}
	if os.Getenv("CI") != "" {
		seed = 0
	}
	t.Logf("seed=%v", seed)
	return rand.NewSource(seed)
}
