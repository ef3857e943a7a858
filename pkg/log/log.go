// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package log

import (
	"fmt"
	"log"
	"sync/atomic"
)

// verbosity gates Logf calls the same way the teacher's own CLI flag does:
// a call is only printed when its level is at or below the configured
// verbosity. Default is 0, i.e. only level-0 calls print.
var verbosity int32

// SetVerbosity sets the global verbosity level. Intended to be called once
// at startup from a command's flag parsing, not concurrently with Logf.
func SetVerbosity(v int) {
	atomic.StoreInt32(&verbosity, int32(v))
}

// Logf prints msg if level is at or below the current verbosity, mirroring
// the call-site shape pkg/fuzzer uses (log.Logf(0, "call %s: prob %.3f",
// info.call.Name, info.prob)).
func Logf(level int, msg string, args ...interface{}) {
	if int32(level) > atomic.LoadInt32(&verbosity) {
		return
	}
	log.Print(fmt.Sprintf(msg, args...))
}
