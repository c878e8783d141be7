package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermemory "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVNPay_SignThenVerify(t *testing.T) {
	signed, err := run(t, "vnpay", "sign", "--secret", "S3CRET",
		"vnp_TxnRef=o-1&vnp_Amount=33000000&vnp_ResponseCode=00&vnp_TmnCode=TMN01")
	require.NoError(t, err)
	assert.Contains(t, signed, "vnp_SecureHash=")

	out, err := run(t, "vnpay", "verify", "--secret", "S3CRET", "--tmn-code", "TMN01",
		"https://shop.example/return?"+strings.TrimSpace(signed))
	require.NoError(t, err)
	assert.Contains(t, out, "txnRef=o-1 amount=330000 responseCode=00")

	_, err = run(t, "vnpay", "verify", "--secret", "OTHER", strings.TrimSpace(signed))
	assert.Error(t, err)
}

func TestVNPay_SignRequiresSecret(t *testing.T) {
	t.Setenv("VNP_HASH_SECRET", "")
	_, err := run(t, "vnpay", "sign", "vnp_TxnRef=o-1")
	assert.Error(t, err)
}

func TestDatabaseCommandsRequireDSN(t *testing.T) {
	_, err := run(t, "migrate", "--dsn", "")
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestSeedAdmin_CreatesThenPromotes(t *testing.T) {
	ctx := context.Background()
	repo := usermemory.NewRepository()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := seedAdmin(ctx, repo, "root@shop.example", "", "Root", now)
	require.Error(t, err, "a new admin needs a password")

	admin, created, err := seedAdmin(ctx, repo, "Root@Shop.example", "correct-horse-1", "Root", now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	customer, err := domain.NewUser("u-2", "florist@shop.example", "password-123", "Florist", now)
	require.NoError(t, err)
	_, err = repo.Save(ctx, customer)
	require.NoError(t, err)

	promoted, created, err := seedAdmin(ctx, repo, "florist@shop.example", "", "", now)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "u-2", promoted.ID)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)
}
