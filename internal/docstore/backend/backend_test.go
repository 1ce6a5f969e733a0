// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdeck/internal/config"
	"quizdeck/internal/docstore/memory"
)

func TestOpenMemory(t *testing.T) {
	cfg := config.Defaults()
	cfg.DocstoreBackend = "memory"

	s, err := Open(context.Background(), &cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &memory.Store{}, s)
}

func TestOpenUnknown(t *testing.T) {
	cfg := config.Defaults()
	cfg.DocstoreBackend = "sqlite"

	_, err := Open(context.Background(), &cfg)
	assert.ErrorContains(t, err, `unknown document store backend "sqlite"`)
}

func TestOpenPostgresUnreachable(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBHost = "127.0.0.1"
	cfg.DBPort = "1"

	_, err := Open(context.Background(), &cfg)
	assert.Error(t, err)
}
