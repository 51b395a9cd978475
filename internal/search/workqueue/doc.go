// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package workqueue holds the FIFO of number ranges waiting to be searched
// along with the frontier, the first number not yet handed out.
//
// The queue never blocks. Consumers that find it empty are expected to go
// idle and try again later.
package workqueue
