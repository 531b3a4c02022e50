package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skovalev/blueprinthub/internal/models"
)

func saveTestBlueprint(t *testing.T, r *GormRepo, ownerID uint, filename string) uint {
	t.Helper()

	id, err := r.SaveBlueprint(context.Background(), &models.Blueprint{
		UserID:     ownerID,
		Filename:   filename,
		Filepath:   "uploads/" + filename,
		Dimensions: `{"x": 10, "y": 20, "z": 30}`,
		Color:      "none",
	})
	require.NoError(t, err)
	return id
}

func TestBlueprint_SaveGetList(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	owner := mustRegister(t, r, "a@x.com", "pw", models.RoleAdmin)
	other := mustRegister(t, r, "b@x.com", "pw", models.RoleAdmin)

	id := saveTestBlueprint(t, r, owner, "plan.pdf")
	saveTestBlueprint(t, r, other, "other.jpg")

	bp, err := r.GetBlueprint(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, owner, bp.UserID)
	assert.Equal(t, "plan.pdf", bp.Filename)
	assert.Equal(t, "none", bp.Color)

	bps, err := r.ListBlueprints(ctx, owner)
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.Equal(t, id, bps[0].ID)

	_, err = r.GetBlueprint(ctx, 9999)
	assert.ErrorIs(t, err, ErrBlueprintNotFound)
}

func TestBlueprint_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	owner := mustRegister(t, r, "a@x.com", "pw", models.RoleAdmin)
	id := saveTestBlueprint(t, r, owner, "plan.pdf")

	require.NoError(t, r.DeleteBlueprint(ctx, id))
	assert.ErrorIs(t, r.DeleteBlueprint(ctx, id), ErrBlueprintNotFound)
}

func TestBlueprint_UpdateColor(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	owner := mustRegister(t, r, "a@x.com", "pw", models.RoleAdmin)
	id := saveTestBlueprint(t, r, owner, "plan.pdf")

	require.NoError(t, r.UpdateBlueprintColor(ctx, id, "red"))

	bp, err := r.GetBlueprint(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "red", bp.Color)

	assert.ErrorIs(t, r.UpdateBlueprintColor(ctx, 9999, "red"), ErrBlueprintNotFound)
}
