package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

func TestTechnicianLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.technicians.Create(ctx, TechnicianInput{Name: "  "})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = h.technicians.Create(ctx, TechnicianInput{Name: "Carlos", Email: "carlos"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	zeca, err := h.technicians.Create(ctx, TechnicianInput{Name: "Zeca", Specialty: "Elétrica"})
	require.NoError(t, err)
	assert.True(t, zeca.Active)
	assert.Nil(t, zeca.Email)
	bia, err := h.technicians.Create(ctx, TechnicianInput{Name: "Bia", Phone: "61 99999-0000"})
	require.NoError(t, err)

	active, err := h.technicians.List(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Bia", active[0].Name)

	email := "zeca@sesc.org"
	updated, err := h.technicians.Update(ctx, zeca.ID, TechnicianUpdateInput{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)
	assert.Equal(t, "Zeca", updated.Name)
	require.NotNil(t, updated.Specialty)

	require.NoError(t, h.technicians.Deactivate(ctx, bia.ID))
	active, err = h.technicians.List(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	stillThere, err := h.technicians.Get(ctx, bia.ID)
	require.NoError(t, err)
	assert.False(t, stillThere.Active)

	err = h.technicians.Deactivate(ctx, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	_, err = h.technicians.Update(ctx, "missing", TechnicianUpdateInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
