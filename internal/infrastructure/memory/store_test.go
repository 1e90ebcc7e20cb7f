package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/repository"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/memory"
)

func TestTxRunner_DescartaCambiosSiHayError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	docs := memory.NewControlledRepository(store)
	tx := memory.NewTxRunner(store)
	doc := entity.NewDocument("d1", "p1", "c1", "Política", "PO-01", "u1", time.Now())
	require.NoError(t, docs.Create(ctx, doc))

	boom := errors.New("falla simulada")
	err := tx.Run(ctx, func(r repository.TxRepos) error {
		c, err := r.Controlled.GetForUpdate(ctx, entity.KindDocument, "d1")
		require.NoError(t, err)
		c.Status = entity.StatusPendingReview
		require.NoError(t, r.Controlled.Update(ctx, c))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := docs.GetByID(ctx, entity.KindDocument, "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, got.Status)

	require.NoError(t, tx.Run(ctx, func(r repository.TxRepos) error {
		c, _ := r.Controlled.GetForUpdate(ctx, entity.KindDocument, "d1")
		c.Status = entity.StatusPendingReview
		return r.Controlled.Update(ctx, c)
	}))
	got, _ = docs.GetByID(ctx, entity.KindDocument, "d1")
	assert.Equal(t, entity.StatusPendingReview, got.Status)
}

func TestVersionRepo_UnaSolaActiva(t *testing.T) {
	ctx := context.Background()
	versions := memory.NewVersionRepository(memory.NewStore())

	require.NoError(t, versions.Create(ctx, &entity.Version{ID: "v1", Kind: entity.KindDocument, ParentID: "d1", Label: "1.0", IsActive: true}))
	err := versions.Create(ctx, &entity.Version{ID: "v2", Kind: entity.KindDocument, ParentID: "d1", Label: "2.0", IsActive: true})
	assert.ErrorIs(t, err, domain.ErrConsistencyViolation)

	err = versions.Create(ctx, &entity.Version{ID: "v3", Kind: entity.KindDocument, ParentID: "d1", Label: "1.0"})
	assert.ErrorIs(t, err, domain.ErrDuplicateVersionLabel)

	require.NoError(t, versions.Create(ctx, &entity.Version{ID: "v4", Kind: entity.KindRecord, ParentID: "d1", Label: "1.0", IsActive: true}),
		"documentos y formatos tienen historiales separados")
}

func TestGetByID_DevuelveCopia(t *testing.T) {
	ctx := context.Background()
	projects := memory.NewProjectRepository(memory.NewStore())
	require.NoError(t, projects.Create(ctx, &entity.Project{ID: "p1", CompanyID: "A", Active: true,
		Contacts: []entity.Contact{{Email: "a@b.co"}}}))

	p, _ := projects.GetByID(ctx, "p1")
	p.Contacts[0].Email = "otro@b.co"
	p.CompanyID = "B"
	require.NoError(t, projects.Update(ctx, p))

	again, _ := projects.GetByID(ctx, "p1")
	assert.Equal(t, "A", again.CompanyID, "un proyecto no cambia de empresa")
	assert.Equal(t, "otro@b.co", again.Contacts[0].Email)
}
