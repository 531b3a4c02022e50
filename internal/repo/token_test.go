package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skovalev/blueprinthub/internal/models"
)

func TestRevoke_ReadAfterWrite(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1"))

	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevoke_DuplicateIsNoOp(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "jti-1"))
	require.NoError(t, r.Revoke(ctx, "jti-1"))

	var count int64
	require.NoError(t, r.DB.Model(&models.RevokedToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPruneRevoked_DropsOnlyStaleEntries(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	stale := models.RevokedToken{JTI: "stale", RevokedAt: time.Now().UTC().Add(-2 * time.Hour)}
	require.NoError(t, r.DB.Create(&stale).Error)
	require.NoError(t, r.Revoke(ctx, "fresh"))

	n, err := r.PruneRevoked(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, err := r.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = r.IsRevoked(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, revoked)
}
