package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotentForIdentifier(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.users.Register(ctx, "  alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Identifier)
	assert.False(t, first.IsAnonymous)

	again, err := e.users.Register(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestRegisterAnonymous(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a, err := e.users.Register(ctx, "")
	require.NoError(t, err)
	b, err := e.users.Register(ctx, "")
	require.NoError(t, err)

	assert.True(t, a.IsAnonymous)
	assert.True(t, strings.HasPrefix(a.Identifier, "anon_"))
	assert.Len(t, a.Identifier, len("anon_")+10)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.Identifier, b.Identifier)
}
