//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/postgres/postgrestest"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

func newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(uuid.NewString(), email, "secret1", "Lan Nguyen", time.Now().UTC())
	require.NoError(t, err)
	return u
}

func TestUsersPostgresRepository(t *testing.T) {
	repo := NewRepository(postgrestest.Start(t))
	ctx := context.Background()

	user := newUser(t, "lan@example.com")
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "lan@example.com", saved.Email)

	byEmail, err := repo.GetByEmail(ctx, "LAN@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.True(t, byEmail.CheckPassword("secret1"))

	byEmail.Role = domain.RoleStaff
	_, err = repo.Save(ctx, byEmail)
	require.NoError(t, err)

	_, err = repo.Save(ctx, newUser(t, "lan@example.com"))
	require.ErrorIs(t, err, ports.ErrDuplicateEmail)

	staff := domain.RoleStaff
	page, err := repo.List(ctx, ports.ListQuery{Role: &staff, Page: pagination.Query{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = repo.GetByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestResetTokenStore_ConsumeOnceAndPurge(t *testing.T) {
	db := postgrestest.Start(t)
	store := NewResetTokenStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, domain.ResetToken{ID: uuid.NewString(), UserID: uuid.NewString(), ExpiresAt: now.Add(-time.Minute), CreatedAt: now}))
	live := domain.ResetToken{ID: uuid.NewString(), UserID: uuid.NewString(), ExpiresAt: now.Add(15 * time.Minute), CreatedAt: now}
	require.NoError(t, store.Save(ctx, live))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	consumed, err := store.Consume(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.UserID, consumed.UserID)

	_, err = store.Consume(ctx, live.ID)
	require.ErrorIs(t, err, ports.ErrResetTokenNotFound)
}
