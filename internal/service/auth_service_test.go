package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/auth"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

func TestCreateStaffAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	staff, err := h.auth.CreateStaff(ctx, StaffInput{Name: "Ana", Email: "Ana@Sesc.org", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleAdmin, staff.Role)
	assert.NotEqual(t, "segredo123", staff.PasswordHash)

	_, err = h.auth.CreateStaff(ctx, StaffInput{Name: "Ana 2", Email: "ana@sesc.org", Password: "segredo123"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = h.auth.CreateStaff(ctx, StaffInput{Name: "Curta", Email: "c@sesc.org", Password: "123"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	session, err := h.auth.Login(ctx, LoginInput{Email: "ana@sesc.org", Password: "segredo123"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	claims, err := auth.NewTokenManager(h.cfg.Auth.JWTSecret, 60).ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, claims.Subject)

	me, err := h.auth.Me(ctx, staff.ID)
	require.NoError(t, err)
	assert.NotNil(t, me.LastSignedIn)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.auth.CreateStaff(ctx, StaffInput{Name: "Ana", Email: "ana@sesc.org", Password: "segredo123"})
	require.NoError(t, err)

	_, err = h.auth.Login(ctx, LoginInput{Email: "ana@sesc.org", Password: "errada"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = h.auth.Login(ctx, LoginInput{Email: "ninguem@sesc.org", Password: "segredo123"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = h.auth.Login(ctx, LoginInput{Email: "", Password: ""})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}
