package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttestationService_UpsertAndGet(t *testing.T) {
	users, _, _, attestations := newTestServices(t)
	ctx := context.Background()
	commissioner := registerTestUser(t, users, "comm@example.com", "commissioner")

	_, err := attestations.GetByOwner(ctx, commissioner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := attestations.Upsert(ctx, commissioner.ID, "sig-v1", "stamp-v1")
	require.NoError(t, err)
	assert.Equal(t, "sig-v1", created.Signature)

	// second save overwrites in place
	updated, err := attestations.Upsert(ctx, commissioner.ID, "sig-v2", "stamp-v2")
	require.NoError(t, err)
	assert.Equal(t, "sig-v2", updated.Signature)
	assert.Equal(t, "stamp-v2", updated.Stamp)

	got, err := attestations.GetByOwner(ctx, commissioner.ID)
	require.NoError(t, err)
	assert.Equal(t, "sig-v2", got.Signature)
	assert.Equal(t, created.ID, got.ID, "one row per user")
}
