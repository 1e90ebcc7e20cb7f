package lifecycle_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/application/apptest"
	"github.com/jhoicas/sgsst-docs-api/internal/application/dto"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
)

type fixture struct {
	env      *apptest.Env
	project  *entity.Project
	formatID string
}

func setup(t *testing.T) fixture {
	env := apptest.NewEnv(t)
	company := env.Company(t, "Andina", "900123456")
	project := env.Project(t, company.ID, "Obra Norte", "residente@andina.co")
	cat := env.Category(t, "Inspecciones", entity.KindRecord, true, 0)
	created := env.CreateControlled(t, apptest.Admin(), entity.KindRecord, project.ID, cat.ID, "Inspección de extintores")
	return fixture{env: env, project: project, formatID: created.Entity.ID}
}

func (f fixture) entry(t *testing.T, name string) *dto.EntryResponse {
	t.Helper()
	user := apptest.CompanyUser("u1", f.project.CompanyID, "residente@andina.co", false)
	e, err := f.env.EntryUC.Create(context.Background(), user, f.formatID, dto.CreateEntryRequest{Name: name}, apptest.PDF(name+".pdf"))
	require.NoError(t, err)
	return e
}

func (f fixture) format(t *testing.T) *entity.Controlled {
	t.Helper()
	c, err := f.env.Controlled.GetByID(context.Background(), entity.KindRecord, f.formatID)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func TestDecideEntry_PromueveFormatoEnBorrador(t *testing.T) {
	f := setup(t)
	e := f.entry(t, "enero")

	entry, promoted, err := f.env.Lifecycle.DecideEntry(context.Background(), apptest.Admin(), e.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, entity.EntryApproved, entry.Status)
	assert.Equal(t, "admin-1", entry.ApprovedBy)
	require.NotNil(t, promoted)
	assert.Equal(t, entity.StatusApproved, promoted.Status)

	stored := f.format(t)
	assert.Equal(t, entity.StatusApproved, stored.Status)
	assert.Equal(t, "admin-1", stored.ApprovedBy)
	require.NotNil(t, stored.ApprovedAt)
	assert.Equal(t, apptest.Now, *stored.ApprovedAt)
}

func TestDecideEntry_RechazoPromueveARechazado(t *testing.T) {
	f := setup(t)
	e := f.entry(t, "enero")

	_, promoted, err := f.env.Lifecycle.DecideEntry(context.Background(), apptest.Admin(), e.ID, "rejected")
	require.NoError(t, err)
	require.NotNil(t, promoted)
	assert.Equal(t, entity.StatusRejected, f.format(t).Status)
}

func TestDecideEntry_NoPromueveSiNoEstaEnBorrador(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.env.Lifecycle.TransitionControlled(ctx, apptest.Admin(), entity.KindRecord, f.formatID, "pending_review")
	require.NoError(t, err)
	e := f.entry(t, "enero")

	_, promoted, err := f.env.Lifecycle.DecideEntry(ctx, apptest.Admin(), e.ID, "approved")
	require.NoError(t, err)
	assert.Nil(t, promoted)
	assert.Equal(t, entity.StatusPendingReview, f.format(t).Status)
}

func TestDecideEntry_UsuarioSinPermisoNoModificaNada(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e := f.entry(t, "enero")
	user := apptest.CompanyUser("u1", f.project.CompanyID, "residente@andina.co", false)

	_, _, err := f.env.Lifecycle.DecideEntry(ctx, user, e.ID, "approved")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	stored, err := f.env.Entries.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryPending, stored.Status)
	assert.Equal(t, entity.StatusDraft, f.format(t).Status)
}

func TestDecideEntry_DecisionTerminal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e := f.entry(t, "enero")

	_, _, err := f.env.Lifecycle.DecideEntry(ctx, apptest.Admin(), e.ID, "approved")
	require.NoError(t, err)

	again, promoted, err := f.env.Lifecycle.DecideEntry(ctx, apptest.Admin(), e.ID, "approved")
	require.NoError(t, err, "repetir la misma decisión es idempotente")
	assert.Nil(t, promoted)
	assert.Equal(t, entity.EntryApproved, again.Status)

	_, _, err = f.env.Lifecycle.DecideEntry(ctx, apptest.Admin(), e.ID, "rejected")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, _, err = f.env.Lifecycle.DecideEntry(ctx, apptest.Admin(), e.ID, "pending")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDecideEntry_SegundoRegistroNoCambiaFormato(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	first := f.entry(t, "enero")
	second := f.entry(t, "febrero")

	_, _, err := f.env.Lifecycle.DecideEntry(ctx, apptest.Admin(), first.ID, "approved")
	require.NoError(t, err)
	_, promoted, err := f.env.Lifecycle.DecideEntry(ctx, apptest.Admin(), second.ID, "rejected")
	require.NoError(t, err)
	assert.Nil(t, promoted)
	assert.Equal(t, entity.StatusApproved, f.format(t).Status)
}

func TestTransitionControlled_GrafoYPermisos(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	user := apptest.CompanyUser("u1", f.project.CompanyID, "residente@andina.co", false)

	_, err := f.env.Lifecycle.TransitionControlled(ctx, apptest.Admin(), entity.KindRecord, f.formatID, "approved")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "draft no pasa directo a approved")

	c, err := f.env.Lifecycle.TransitionControlled(ctx, user, entity.KindRecord, f.formatID, "pending_review")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingReview, c.Status)

	_, err = f.env.Lifecycle.TransitionControlled(ctx, user, entity.KindRecord, f.formatID, "approved")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, entity.StatusPendingReview, f.format(t).Status)

	c, err = f.env.Lifecycle.TransitionControlled(ctx, apptest.Admin(), entity.KindRecord, f.formatID, "approved")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, c.Status)

	_, err = f.env.Lifecycle.TransitionControlled(ctx, apptest.Admin(), entity.KindRecord, f.formatID, "expired")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.env.Lifecycle.TransitionControlled(ctx, apptest.Admin(), entity.KindRecord, f.formatID, "archivado")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDecideEntry_ConcurrentePromueveUnaSolaVez(t *testing.T) {
	f := setup(t)
	e := f.entry(t, "enero")
	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	promoted := make([]*entity.Controlled, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, promoted[i], errs[i] = f.env.Lifecycle.DecideEntry(context.Background(), apptest.Admin(), e.ID, "approved")
		}(i)
	}
	wg.Wait()

	times := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		if promoted[i] != nil {
			times++
		}
	}
	assert.Equal(t, 1, times, "solo la primera decisión promueve el formato")
	assert.Equal(t, entity.StatusApproved, f.format(t).Status)

	stored, err := f.env.Entries.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryApproved, stored.Status)
}
