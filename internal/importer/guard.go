// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import "sync"

// Guard lets one import run at a time. The zero value is ready to use.
type Guard struct {
	mu sync.Mutex
}

// Do runs fn unless another call is already running, in which case it
// returns ErrImportInProgress without waiting.
func (g *Guard) Do(fn func() error) error {
	if !g.mu.TryLock() {
		return ErrImportInProgress
	}
	defer g.mu.Unlock()
	return fn()
}
