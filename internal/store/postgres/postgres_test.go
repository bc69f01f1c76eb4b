package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollbackDropsBufferedWrites(t *testing.T) {
	s := &Store{}
	s.queue(`INSERT INTO instruments (id, name) VALUES ($1, $2)`, "a", "b")
	s.queue(`INSERT INTO instruments (id, name) VALUES ($1, $2)`, "c", "d")

	require.NoError(t, s.Rollback(context.Background()))
	assert.Nil(t, s.batch)

	// With the buffer gone, Commit has nothing to send and never opens a
	// transaction. A zero-value Store has no pool, so anything else panics.
	require.NoError(t, s.Commit(context.Background()))
}

func TestRollbackWithNothingBuffered(t *testing.T) {
	s := &Store{}
	require.NoError(t, s.Rollback(context.Background()))
	require.NoError(t, s.Commit(context.Background()))
}
