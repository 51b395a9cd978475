// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// lineRenderer writes the newest status line to out whenever it changes.
type lineRenderer struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func newLineRenderer(out io.Writer) *lineRenderer {
	return &lineRenderer{out: out}
}

// Render is a statuslog.Renderer.
func (r *lineRenderer) Render(text string) {
	newest, _, _ := strings.Cut(text, "\n")
	if newest == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if newest == r.last {
		return
	}
	r.last = newest
	fmt.Fprintln(r.out, newest)
}
