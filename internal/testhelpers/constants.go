// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testhelpers

import (
	"time"

	gc "gopkg.in/check.v1"
)

// LongWait is used when something should have already happened, or happens
// quickly, but we want to make sure we just haven't missed it. As in, the test
// suite should proceed without sleeping at all, but just in case. It is long
// so that we don't have spurious failures without actually slowing down the
// test suite
const LongWait = 10 * time.Second

// WaitUntil polls cond until it returns true, failing the test if that takes
// longer than LongWait.
func WaitUntil(c *gc.C, cond func() bool, what string) {
	deadline := time.After(LongWait)
	for !cond() {
		select {
		case <-deadline:
			c.Fatalf("timed out waiting for %s", what)
		case <-time.After(time.Millisecond):
		}
	}
}
