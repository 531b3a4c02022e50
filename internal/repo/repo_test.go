package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skovalev/blueprinthub/internal/hash"
	"github.com/skovalev/blueprinthub/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.RevokedToken{}, &models.Blueprint{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &GormRepo{DB: db}
}

func mustRegister(t *testing.T, r *GormRepo, email, password, role string) uint {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	id, err := r.CreateUser(context.Background(), email, pwHash, role)
	require.NoError(t, err)
	return id
}
